// Package tracking groups per-frame plate detections into stable identities
// across time. It performs no I/O: detections go in frame by frame, accepted
// observations come out after Finalize.
package tracking

import (
	"fmt"
	"sort"
	"time"

	"license-plate-service/internal/core/domain"
)

// Detection is one candidate plate in a single frame. Callers are expected to
// have applied the confidence filter already; low-confidence candidates must
// never enter the identity graph.
type Detection struct {
	Box        domain.Box
	Text       string
	Confidence float64
}

// Track is the identity assigned to a run of detections believed to be the
// same physical plate. Ids are allocated in increasing order of first
// appearance, starting at 0.
type Track struct {
	ID           int
	LastBox      domain.Box
	Frames       []int
	Observations []domain.PlateObservation
}

type Tracker struct {
	iouThreshold float64
	tracks       []*Track
	lastFrame    int
}

// NewTracker creates a tracker matching detections to live tracks at the
// given IoU threshold (0.5 unless tuned otherwise).
func NewTracker(iouThreshold float64) *Tracker {
	return &Tracker{iouThreshold: iouThreshold, lastFrame: -1}
}

// Observe matches the frame's detections against every live track's last box.
// The best IoU exceeding the threshold wins; on a tie the earliest-created
// track wins, so results are deterministic for a given detection order. Frames
// must arrive in increasing order with no gaps skipped backwards.
func (t *Tracker) Observe(frame int, detections []Detection) error {
	if frame <= t.lastFrame {
		return fmt.Errorf("frame %d observed after frame %d", frame, t.lastFrame)
	}
	t.lastFrame = frame

	for _, d := range detections {
		best := -1
		bestIoU := 0.0
		for i, tr := range t.tracks {
			score, err := IoU(tr.LastBox, d.Box)
			if err != nil {
				return err
			}
			if score > t.iouThreshold && score > bestIoU {
				best = i
				bestIoU = score
			}
		}

		obs := domain.PlateObservation{
			Frame:      frame,
			Box:        d.Box,
			Text:       d.Text,
			Confidence: d.Confidence,
		}

		if best >= 0 {
			tr := t.tracks[best]
			tr.LastBox = d.Box
			tr.Frames = append(tr.Frames, frame)
			tr.Observations = append(tr.Observations, obs)
			continue
		}

		if d.Box.Area() == 0 {
			return domain.ErrDegenerateBox
		}
		t.tracks = append(t.tracks, &Track{
			ID:           len(t.tracks),
			LastBox:      d.Box,
			Frames:       []int{frame},
			Observations: []domain.PlateObservation{obs},
		})
	}
	return nil
}

// Finalize applies the minimum-duration-in-view filter: a track survives only
// if the frames it appears in amount to at least minDuration of footage at
// the source frame rate. Discarded tracks take all their observations with
// them.
func (t *Tracker) Finalize(sourceFPS float64, minDuration time.Duration) ([]Track, error) {
	if sourceFPS <= 0 {
		return nil, fmt.Errorf("invalid source frame rate %v", sourceFPS)
	}

	kept := make([]Track, 0, len(t.tracks))
	for _, tr := range t.tracks {
		if float64(len(tr.Frames))/sourceFPS >= minDuration.Seconds() {
			kept = append(kept, *tr)
		}
	}
	return kept, nil
}

// AcceptedObservations flattens kept tracks into a single frame-ordered
// observation list, the shape the output payload and the annotator consume.
func AcceptedObservations(tracks []Track) []domain.PlateObservation {
	var out []domain.PlateObservation
	for _, tr := range tracks {
		out = append(out, tr.Observations...)
	}
	// Tracks hold frame-ordered runs; interleave them back into global
	// frame order for the annotator. Stable so same-frame observations keep
	// track order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Frame < out[j].Frame
	})
	return out
}
