package ports

import (
	"context"

	"github.com/google/uuid"

	"license-plate-service/internal/core/domain"
)

// JobRepository covers reads plus the writes that happen outside the state
// machine: creation in PENDING and cleanup. Every status flip goes through
// JobTransitions so the job row and its result row cannot drift apart.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	List(ctx context.Context) ([]*domain.Job, error)
	ListByStatus(ctx context.Context, status domain.JobStatus) ([]*domain.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InferenceResultRepository is read/delete only. Result rows are created and
// updated exclusively by JobTransitions.
type InferenceResultRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.InferenceResult, error)
	Latest(ctx context.Context, status domain.JobStatus) (*domain.InferenceResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// JobTransitions performs the lifecycle updates that must land atomically:
// the job row and its result row may never disagree on status. Transitions
// out of a terminal status return domain.ErrJobFinished.
type JobTransitions interface {
	// MarkStarted flips the job to STARTED and, when withResult is set,
	// creates the result row (status STARTED, null output) in the same
	// transaction.
	MarkStarted(ctx context.Context, id uuid.UUID, userID uuid.UUID, withResult bool) error
	// MarkSuccess flips job and result to SUCCESS and attaches the output
	// payload, which must not have been set before.
	MarkSuccess(ctx context.Context, id uuid.UUID, output *domain.InferenceOutput) error
	// MarkSuccessWithReference flips the job to SUCCESS and records the id
	// of the entity the job produced.
	MarkSuccessWithReference(ctx context.Context, id uuid.UUID, referenceID uuid.UUID) error
	// MarkFailure flips the job, and its result row if one exists, to
	// FAILURE.
	MarkFailure(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type ModelRepository interface {
	Create(ctx context.Context, model *domain.Model) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Model, error)
	List(ctx context.Context) ([]*domain.Model, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ModelRegistrationRepository interface {
	Create(ctx context.Context, reg *domain.ModelRegistration) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelRegistration, error)
	GetByModelID(ctx context.Context, modelID uuid.UUID) (*domain.ModelRegistration, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
