package domain

import (
	"time"

	"github.com/google/uuid"
)

// Box is an axis-aligned bounding box in pixel units of the source frame.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

func (b Box) Area() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// PlateObservation is one detection+recognition event at a specific frame.
// Observations only exist inside an InferenceOutput payload.
type PlateObservation struct {
	Frame      int     `json:"frame"`
	Box        Box     `json:"box"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// InferenceOutput is the payload attached to a result exactly once, at the
// SUCCESS transition.
type InferenceOutput struct {
	ArtifactKey string             `json:"artifact_key"`
	Plates      []PlateObservation `json:"plates"`
}

// InferenceResult mirrors its job's lifecycle one-to-one: the result id is the
// job id, and both rows must agree on status after any transition.
type InferenceResult struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Status    JobStatus        `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	Output    *InferenceOutput `json:"output,omitempty"`
}
