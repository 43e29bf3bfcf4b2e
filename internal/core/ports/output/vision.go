package ports

import (
	"context"

	"license-plate-service/internal/core/domain"
)

// DetectedBox is a candidate plate region produced by the detection model.
type DetectedBox struct {
	Box        domain.Box
	Confidence float64
}

// Recognition is the text read from one cropped plate region.
type Recognition struct {
	Text       string
	Confidence float64
}

// Detector is the black-box detection capability: given an encoded frame
// image, produce candidate boxes with confidence.
type Detector interface {
	Detect(ctx context.Context, frame []byte) ([]DetectedBox, error)
}

// Recognizer is the black-box recognition capability: given an encoded crop
// of a plate region, produce its text with confidence.
type Recognizer interface {
	Recognize(ctx context.Context, crop []byte) (*Recognition, error)
}
