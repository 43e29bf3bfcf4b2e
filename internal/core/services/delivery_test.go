package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"license-plate-service/internal/core/domain"
	ports "license-plate-service/internal/core/ports/output"
	"license-plate-service/internal/testutil"
)

func TestDeliveryService_FetchVideo_FullRead(t *testing.T) {
	results := new(testutil.MockResultRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewDeliveryService(results, store)

	id := uuid.New()
	results.On("GetByID", mock.Anything, id).Return(&domain.InferenceResult{
		ID:     id,
		Status: domain.JobStatusSuccess,
		Output: &domain.InferenceOutput{ArtifactKey: "mesos/" + id.String() + ".mp4"},
	}, nil)
	store.On("Get", mock.Anything, "mesos/"+id.String()+".mp4", "").Return(&ports.ArtifactContent{
		Body:          io.NopCloser(strings.NewReader("videobytes")),
		ContentType:   "video/mp4",
		ContentLength: 10,
	}, nil)

	content, err := svc.FetchVideo(context.Background(), id, "")
	assert.NoError(t, err)
	assert.Empty(t, content.ContentRange)
	body, _ := io.ReadAll(content.Body)
	assert.Equal(t, "videobytes", string(body))
}

func TestDeliveryService_FetchVideo_RangePassthrough(t *testing.T) {
	results := new(testutil.MockResultRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewDeliveryService(results, store)

	id := uuid.New()
	key := "mesos/" + id.String() + ".mp4"
	results.On("GetByID", mock.Anything, id).Return(&domain.InferenceResult{
		ID:     id,
		Status: domain.JobStatusSuccess,
		Output: &domain.InferenceOutput{ArtifactKey: key},
	}, nil)
	store.On("Get", mock.Anything, key, "bytes=0-99").Return(&ports.ArtifactContent{
		Body:          io.NopCloser(strings.NewReader(strings.Repeat("x", 100))),
		ContentType:   "video/mp4",
		ContentRange:  "bytes 0-99/1000",
		ContentLength: 100,
	}, nil)

	content, err := svc.FetchVideo(context.Background(), id, "bytes=0-99")
	assert.NoError(t, err)
	assert.Equal(t, "bytes 0-99/1000", content.ContentRange)
	assert.EqualValues(t, 100, content.ContentLength)
	body, _ := io.ReadAll(content.Body)
	assert.Len(t, body, 100)
}

func TestDeliveryService_FetchVideo_UnknownJob(t *testing.T) {
	results := new(testutil.MockResultRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewDeliveryService(results, store)

	id := uuid.New()
	results.On("GetByID", mock.Anything, id).Return(nil, domain.ErrResultNotFound)

	_, err := svc.FetchVideo(context.Background(), id, "")
	assert.ErrorIs(t, err, domain.ErrResultNotFound)
	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliveryService_FetchVideo_NoArtifactYet(t *testing.T) {
	results := new(testutil.MockResultRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewDeliveryService(results, store)

	id := uuid.New()
	results.On("GetByID", mock.Anything, id).Return(&domain.InferenceResult{
		ID:     id,
		Status: domain.JobStatusStarted,
	}, nil)

	_, err := svc.FetchVideo(context.Background(), id, "")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliveryService_FetchVideo_MissingObject(t *testing.T) {
	results := new(testutil.MockResultRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewDeliveryService(results, store)

	id := uuid.New()
	key := "mesos/" + id.String() + ".mp4"
	results.On("GetByID", mock.Anything, id).Return(&domain.InferenceResult{
		ID:     id,
		Status: domain.JobStatusSuccess,
		Output: &domain.InferenceOutput{ArtifactKey: key},
	}, nil)
	store.On("Get", mock.Anything, key, "").Return(nil, domain.ErrArtifactNotFound)

	_, err := svc.FetchVideo(context.Background(), id, "")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}
