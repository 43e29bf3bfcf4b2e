package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"license-plate-service/internal/core/domain"
	ports "license-plate-service/internal/core/ports/output"
	"license-plate-service/internal/core/tracking"
)

// PipelineConfig carries the tuning knobs that have historically churned;
// they are configuration inputs, never constants in the algorithm.
type PipelineConfig struct {
	DetectionConfidence   float64
	RecognitionConfidence float64
	IoUThreshold          float64
	MinTrackDuration      time.Duration

	// Detections outside the horizontal band [BandMin, BandMax] of the
	// frame width are discarded when the band is enabled.
	BandEnabled bool
	BandMin     float64
	BandMax     float64

	TempDir     string
	VideoPrefix string
}

// PipelineService runs the per-job inference pipeline: decode, detect,
// recognize, track, annotate, encode and upload. One invocation per worker
// slot; frames are processed strictly in order.
type PipelineService struct {
	jobs       *JobService
	video      ports.VideoProcessor
	encoder    ports.DeliveryEncoder
	detector   ports.Detector
	recognizer ports.Recognizer
	store      ports.ArtifactStore
	cfg        PipelineConfig
}

func NewPipelineService(
	jobs *JobService,
	video ports.VideoProcessor,
	encoder ports.DeliveryEncoder,
	detector ports.Detector,
	recognizer ports.Recognizer,
	store ports.ArtifactStore,
	cfg PipelineConfig,
) *PipelineService {
	return &PipelineService{
		jobs:       jobs,
		video:      video,
		encoder:    encoder,
		detector:   detector,
		recognizer: recognizer,
		store:      store,
		cfg:        cfg,
	}
}

// VideoKey is where a job's finished artifact lives in the blob store.
func (p *PipelineService) VideoKey(jobID uuid.UUID) string {
	return fmt.Sprintf("%s/%s.mp4", p.cfg.VideoPrefix, jobID)
}

// Submit spools the uploaded video to disk, creates the job and returns its
// id immediately; the pipeline itself runs on a worker slot.
func (p *PipelineService) Submit(ctx context.Context, payload io.Reader) (*domain.Job, error) {
	if payload == nil {
		return nil, domain.ErrEmptyPayload
	}

	if err := os.MkdirAll(filepath.Join(p.cfg.TempDir, "download"), 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	srcPath := filepath.Join(p.cfg.TempDir, "download", uuid.New().String()+".mp4")
	f, err := os.Create(srcPath)
	if err != nil {
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	written, err := io.Copy(f, payload)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(srcPath)
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	if written == 0 {
		os.Remove(srcPath)
		return nil, domain.ErrEmptyPayload
	}

	job, err := p.jobs.Dispatch(ctx, domain.JobKindInference, func(ctx context.Context, job *domain.Job) (*TaskResult, error) {
		defer os.Remove(srcPath)
		output, err := p.run(ctx, job.ID, srcPath)
		if err != nil {
			return nil, err
		}
		return &TaskResult{Output: output}, nil
	})
	if err != nil {
		os.Remove(srcPath)
		return nil, err
	}
	return job, nil
}

func (p *PipelineService) run(ctx context.Context, jobID uuid.UUID, srcPath string) (*domain.InferenceOutput, error) {
	meta, err := p.video.Probe(ctx, srcPath)
	if err != nil {
		return nil, err
	}
	logger := log.WithFields(log.Fields{
		"source": filepath.Base(srcPath),
		"fps":    meta.FPS,
		"frames": meta.Frames,
	})
	logger.Info("pipeline started")

	tracker := tracking.NewTracker(p.cfg.IoUThreshold)

	err = p.video.ReadFrames(ctx, srcPath, func(index int, frame []byte) error {
		boxes, err := p.detector.Detect(ctx, frame)
		if err != nil {
			return err
		}

		var accepted []tracking.Detection
		for _, db := range boxes {
			if db.Confidence < p.cfg.DetectionConfidence {
				continue
			}
			if !p.inBand(db.Box, meta.Width) {
				continue
			}

			crop, err := p.video.Crop(frame, db.Box)
			if err != nil {
				return err
			}
			rec, err := p.recognizer.Recognize(ctx, crop)
			if err != nil {
				return err
			}
			if rec.Confidence < p.cfg.RecognitionConfidence {
				continue
			}

			accepted = append(accepted, tracking.Detection{
				Box:        db.Box,
				Text:       rec.Text,
				Confidence: rec.Confidence,
			})
		}

		return tracker.Observe(index, accepted)
	})
	if err != nil {
		return nil, err
	}

	tracks, err := tracker.Finalize(meta.FPS, p.cfg.MinTrackDuration)
	if err != nil {
		return nil, err
	}
	observations := tracking.AcceptedObservations(tracks)
	logger.WithFields(log.Fields{
		"tracks":       len(tracks),
		"observations": len(observations),
	}).Info("tracking finished")

	if err := os.MkdirAll(filepath.Join(p.cfg.TempDir, "upload"), 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	base := jobID.String()
	intermediatePath := filepath.Join(p.cfg.TempDir, "upload", base+"_raw.mp4")
	deliveryPath := filepath.Join(p.cfg.TempDir, "upload", base+".mp4")
	defer os.Remove(intermediatePath)
	defer os.Remove(deliveryPath)

	if err := p.video.Annotate(ctx, srcPath, intermediatePath, observations); err != nil {
		return nil, err
	}
	if err := p.encoder.Encode(ctx, intermediatePath, srcPath, deliveryPath); err != nil {
		return nil, err
	}

	key := p.VideoKey(jobID)
	if err := p.store.PutFile(ctx, key, deliveryPath, "video/mp4"); err != nil {
		return nil, err
	}
	logger.WithField("artifact_key", key).Info("artifact uploaded")

	if observations == nil {
		observations = []domain.PlateObservation{}
	}
	return &domain.InferenceOutput{ArtifactKey: key, Plates: observations}, nil
}

func (p *PipelineService) inBand(b domain.Box, frameWidth int) bool {
	if !p.cfg.BandEnabled || frameWidth <= 0 {
		return true
	}
	minX := float64(frameWidth) * p.cfg.BandMin
	maxX := float64(frameWidth) * p.cfg.BandMax
	return float64(b.X) > minX && float64(b.X+b.Width) < maxX
}
