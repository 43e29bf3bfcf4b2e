package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ModelFramework is fixed at upload time and selects the serving runtime at
// registration time, so nothing downstream branches on free-form strings.
type ModelFramework string

const (
	FrameworkTensorFlow ModelFramework = "tensorflow"
	FrameworkPyTorch    ModelFramework = "pytorch"
	FrameworkSKLearn    ModelFramework = "sklearn"
	FrameworkONNX       ModelFramework = "onnx"
)

func ParseFramework(s string) (ModelFramework, error) {
	switch ModelFramework(strings.ToLower(s)) {
	case FrameworkTensorFlow:
		return FrameworkTensorFlow, nil
	case FrameworkPyTorch:
		return FrameworkPyTorch, nil
	case FrameworkSKLearn:
		return FrameworkSKLearn, nil
	case FrameworkONNX:
		return FrameworkONNX, nil
	default:
		return "", ErrUnsupportedFramework
	}
}

// Model is an uploaded model archive held in the artifact store.
type Model struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"user_id"`
	Name       string         `json:"name"`
	Framework  ModelFramework `json:"framework"`
	StorageKey string         `json:"storage_key"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ModelRegistration records a deployed serving endpoint for a model. It must
// be deleted before the model row it references.
type ModelRegistration struct {
	ID          uuid.UUID `json:"id"`
	ModelID     uuid.UUID `json:"model_id"`
	Version     string    `json:"version"`
	Status      JobStatus `json:"status"`
	EndpointURL string    `json:"endpoint_url"`
	CreatedAt   time.Time `json:"created_at"`
}
