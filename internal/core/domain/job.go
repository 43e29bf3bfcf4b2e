package domain

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusStarted JobStatus = "STARTED"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailure JobStatus = "FAILURE"
)

// Terminal reports whether no further transition may leave this status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSuccess || s == JobStatusFailure
}

type JobKind string

const (
	JobKindInference         JobKind = "inference"
	JobKindModelRegistration JobKind = "model-registration"
	JobKindModelUpload       JobKind = "model-upload"
)

// Job is one asynchronous unit of pipeline work. The row in Postgres is the
// source of truth for its lifecycle; only the orchestrator mutates it.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Kind        JobKind    `json:"kind"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	ReferenceID *uuid.UUID `json:"reference_id,omitempty"`
}
