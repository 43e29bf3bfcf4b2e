package ports

import (
	"context"

	"license-plate-service/internal/core/domain"
)

// VideoMeta is the geometry and frame rate of a decoded source video.
type VideoMeta struct {
	Width  int
	Height int
	FPS    float64
	Frames int
}

// VideoProcessor decodes source videos, hands frames out as encoded images,
// and writes the annotated intermediate container. Frames are visited
// strictly in index order.
type VideoProcessor interface {
	Probe(ctx context.Context, path string) (*VideoMeta, error)
	// ReadFrames calls fn once per frame with the JPEG-encoded frame.
	// Returning an error from fn aborts the read.
	ReadFrames(ctx context.Context, path string, fn func(index int, frame []byte) error) error
	Crop(frame []byte, box domain.Box) ([]byte, error)
	// Annotate re-reads the source, draws the accepted observations onto
	// their frames, and writes the intermediate video at source fps and
	// resolution.
	Annotate(ctx context.Context, srcPath, dstPath string, obs []domain.PlateObservation) error
}

// DeliveryEncoder turns the intermediate container into the delivery mp4
// with a fast-start layout. audioSource is probed for an audio stream;
// audio options are only supplied when one exists. On failure no partial
// output file may remain.
type DeliveryEncoder interface {
	Encode(ctx context.Context, srcPath, audioSource, dstPath string) error
}
