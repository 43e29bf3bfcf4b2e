package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"license-plate-service/internal/core/domain"
	ports "license-plate-service/internal/core/ports/output"
)

// BootstrapUserEmail attributes jobs submitted without authentication, the
// same placeholder identity the service has always used.
const BootstrapUserEmail = "dummyUser@dummy.com"

// JobService owns the job lifecycle: creation, the state machine, queries
// and cleanup. Workers drive transitions through Begin/Succeed/Fail; nothing
// else mutates a job.
type JobService struct {
	jobs        ports.JobRepository
	results     ports.InferenceResultRepository
	users       ports.UserRepository
	transitions ports.JobTransitions
	queue       TaskQueue
}

func NewJobService(
	jobs ports.JobRepository,
	results ports.InferenceResultRepository,
	users ports.UserRepository,
	transitions ports.JobTransitions,
	queue TaskQueue,
) *JobService {
	return &JobService{
		jobs:        jobs,
		results:     results,
		users:       users,
		transitions: transitions,
		queue:       queue,
	}
}

// EnsureBootstrapUser creates the placeholder owner on first boot.
func (s *JobService) EnsureBootstrapUser(ctx context.Context) error {
	_, err := s.users.GetByEmail(ctx, BootstrapUserEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     "dummyUser",
		Email:        BootstrapUserEmail,
		PasswordHash: "dummyHexPwd",
		CreatedAt:    time.Now(),
	}
	return s.users.Create(ctx, user)
}

// Dispatch creates the job in PENDING, returns it to the caller immediately
// and hands the work to the pool. The owning user must exist before any
// state is persisted.
func (s *JobService) Dispatch(ctx context.Context, kind domain.JobKind, run func(ctx context.Context, job *domain.Job) (*TaskResult, error)) (*domain.Job, error) {
	user, err := s.users.GetByEmail(ctx, BootstrapUserEmail)
	if err != nil {
		return nil, fmt.Errorf("resolve job owner: %w", err)
	}

	job := &domain.Job{
		ID:        uuid.New(),
		UserID:    user.ID,
		Kind:      kind,
		Status:    domain.JobStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(Task{Job: job, Run: run}); err != nil {
		// the caller never saw the id, so the row must not linger
		if delErr := s.jobs.Delete(ctx, job.ID); delErr != nil {
			log.WithError(delErr).WithField("job_id", job.ID).Error("rollback of unqueued job failed")
		}
		return nil, err
	}

	return job, nil
}

// Begin marks the job STARTED. Inference jobs get their result row created in
// the same step so both records always agree on status.
func (s *JobService) Begin(ctx context.Context, job *domain.Job) error {
	withResult := job.Kind == domain.JobKindInference
	return s.transitions.MarkStarted(ctx, job.ID, job.UserID, withResult)
}

// Succeed finishes the job. Inference results get the output payload attached
// exactly once; registry jobs record the entity they produced instead.
func (s *JobService) Succeed(ctx context.Context, job *domain.Job, res *TaskResult) error {
	if job.Kind == domain.JobKindInference {
		if res == nil || res.Output == nil {
			return fmt.Errorf("inference job %s finished without output", job.ID)
		}
		return s.transitions.MarkSuccess(ctx, job.ID, res.Output)
	}
	if res != nil && res.ReferenceID != nil {
		return s.transitions.MarkSuccessWithReference(ctx, job.ID, *res.ReferenceID)
	}
	return s.transitions.MarkSuccessWithReference(ctx, job.ID, uuid.Nil)
}

// Fail marks job and result FAILURE. The submitted artifact is not
// reprocessed automatically.
func (s *JobService) Fail(ctx context.Context, job *domain.Job) error {
	return s.transitions.MarkFailure(ctx, job.ID)
}

func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

// GetResult returns the current status/output pair for an inference job.
// Output stays nil for every status except SUCCESS.
func (s *JobService) GetResult(ctx context.Context, id uuid.UUID) (*domain.InferenceResult, error) {
	return s.results.GetByID(ctx, id)
}

// Latest returns the newest SUCCESS result by creation time.
func (s *JobService) Latest(ctx context.Context) (*domain.InferenceResult, error) {
	return s.results.Latest(ctx, domain.JobStatusSuccess)
}

// List returns all jobs newest-first.
func (s *JobService) List(ctx context.Context) ([]*domain.Job, error) {
	return s.jobs.List(ctx)
}

// DeleteInference removes the result record and its job. A still-PENDING
// inference job has no result row yet; its job row alone gets removed. An
// unknown id fails with not-found and performs no mutation.
func (s *JobService) DeleteInference(ctx context.Context, id uuid.UUID) error {
	_, err := s.results.GetByID(ctx, id)
	switch {
	case err == nil:
		// result row before the job row that references it
		if err := s.results.Delete(ctx, id); err != nil {
			return err
		}
	case errors.Is(err, domain.ErrResultNotFound):
		job, jobErr := s.jobs.GetByID(ctx, id)
		if jobErr != nil || job.Kind != domain.JobKindInference {
			return err
		}
	default:
		return err
	}
	if err := s.jobs.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrJobNotFound) {
		return err
	}
	return nil
}

// ReapStuck fails jobs left in STARTED longer than timeout. Disabled unless
// the operator opts in; a crashed worker otherwise leaves STARTED forever,
// matching historical behavior.
func (s *JobService) ReapStuck(ctx context.Context, timeout time.Duration) (int, error) {
	stuck, err := s.jobs.ListByStatus(ctx, domain.JobStatusStarted)
	if err != nil {
		return 0, err
	}

	reaped := 0
	cutoff := time.Now().Add(-timeout)
	for _, job := range stuck {
		// measure from the actual start; time spent queued in PENDING must
		// not count toward the timeout
		startedAt := job.CreatedAt
		if job.StartedAt != nil {
			startedAt = *job.StartedAt
		}
		if startedAt.After(cutoff) {
			continue
		}
		if err := s.transitions.MarkFailure(ctx, job.ID); err != nil {
			log.WithError(err).WithField("job_id", job.ID).Warn("reap stuck job failed")
			continue
		}
		reaped++
	}
	return reaped, nil
}
