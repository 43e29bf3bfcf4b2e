package dto

import (
	"time"

	"github.com/google/uuid"

	"license-plate-service/internal/core/domain"
)

type JobAcceptedResponse struct {
	JobID uuid.UUID `json:"job_id"`
}

type JobResponse struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ReferenceID *uuid.UUID `json:"reference_id,omitempty"`
}

func ToJobResponse(job *domain.Job) JobResponse {
	return JobResponse{
		ID:          job.ID,
		Kind:        string(job.Kind),
		Status:      string(job.Status),
		CreatedAt:   job.CreatedAt,
		ReferenceID: job.ReferenceID,
	}
}

type InferenceResultResponse struct {
	ID        uuid.UUID               `json:"id"`
	Status    string                  `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
	Output    *domain.InferenceOutput `json:"output"`
}

func ToInferenceResultResponse(res *domain.InferenceResult) InferenceResultResponse {
	return InferenceResultResponse{
		ID:        res.ID,
		Status:    string(res.Status),
		CreatedAt: res.CreatedAt,
		Output:    res.Output,
	}
}
