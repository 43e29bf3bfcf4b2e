package services

import (
	"context"

	"github.com/google/uuid"

	"license-plate-service/internal/core/domain"
)

// TaskResult is what a finished task hands back to the orchestrator: the
// output payload for inference jobs, or the id of the entity a registry job
// produced.
type TaskResult struct {
	Output      *domain.InferenceOutput
	ReferenceID *uuid.UUID
}

// Task pairs a created job with the work a worker slot should execute for it.
// Run receives the job so the work can derive artifact keys from its id.
type Task struct {
	Job *domain.Job
	Run func(ctx context.Context, job *domain.Job) (*TaskResult, error)
}

// TaskQueue hands submitted tasks to the worker pool without blocking the
// caller. Enqueue fails with domain.ErrQueueFull when the pool is saturated.
type TaskQueue interface {
	Enqueue(t Task) error
}
