package dto

import (
	"time"

	"github.com/google/uuid"

	"license-plate-service/internal/core/domain"
)

type ModelResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Framework  string    `json:"framework"`
	StorageKey string    `json:"storage_key"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToModelResponse(m *domain.Model) ModelResponse {
	return ModelResponse{
		ID:         m.ID,
		Name:       m.Name,
		Framework:  string(m.Framework),
		StorageKey: m.StorageKey,
		CreatedAt:  m.CreatedAt,
	}
}

type RegistrationResponse struct {
	ID          uuid.UUID `json:"id"`
	ModelID     uuid.UUID `json:"model_id"`
	Version     string    `json:"version"`
	Status      string    `json:"status"`
	EndpointURL string    `json:"endpoint_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToRegistrationResponse(r *domain.ModelRegistration) RegistrationResponse {
	return RegistrationResponse{
		ID:          r.ID,
		ModelID:     r.ModelID,
		Version:     r.Version,
		Status:      string(r.Status),
		EndpointURL: r.EndpointURL,
		CreatedAt:   r.CreatedAt,
	}
}
