package services

import (
	"context"

	"github.com/google/uuid"

	"license-plate-service/internal/core/domain"
	ports "license-plate-service/internal/core/ports/output"
)

// DeliveryService reads finished artifacts back out of the blob store,
// honoring byte-range requests for progressive playback. It never mutates
// anything.
type DeliveryService struct {
	results ports.InferenceResultRepository
	store   ports.ArtifactStore
}

func NewDeliveryService(results ports.InferenceResultRepository, store ports.ArtifactStore) *DeliveryService {
	return &DeliveryService{results: results, store: store}
}

// FetchVideo resolves the job's artifact key and returns the requested slice
// of it. rangeHeader is the raw Range header value, empty for a full read.
// Jobs without a recorded output have no artifact yet and report not-found.
func (s *DeliveryService) FetchVideo(ctx context.Context, jobID uuid.UUID, rangeHeader string) (*ports.ArtifactContent, error) {
	result, err := s.results.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if result.Output == nil || result.Output.ArtifactKey == "" {
		return nil, domain.ErrArtifactNotFound
	}
	return s.store.Get(ctx, result.Output.ArtifactKey, rangeHeader)
}
