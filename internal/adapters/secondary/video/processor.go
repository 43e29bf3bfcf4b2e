package video

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"license-plate-service/internal/core/domain"
	output "license-plate-service/internal/core/ports/output"
)

var (
	boxColor  = color.RGBA{0, 255, 0, 255}
	textColor = color.RGBA{0, 255, 0, 255}
)

type gocvProcessor struct{}

// NewVideoProcessor creates the OpenCV-backed VideoProcessor.
func NewVideoProcessor() output.VideoProcessor {
	return &gocvProcessor{}
}

func (p *gocvProcessor) Probe(ctx context.Context, path string) (*output.VideoMeta, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptVideo, err)
	}
	defer capture.Close()

	meta := &output.VideoMeta{
		Width:  int(capture.Get(gocv.VideoCaptureFrameWidth)),
		Height: int(capture.Get(gocv.VideoCaptureFrameHeight)),
		FPS:    capture.Get(gocv.VideoCaptureFPS),
		Frames: int(capture.Get(gocv.VideoCaptureFrameCount)),
	}
	if meta.Width <= 0 || meta.Height <= 0 || meta.FPS <= 0 {
		return nil, fmt.Errorf("%w: unreadable geometry in %s", domain.ErrCorruptVideo, path)
	}
	return meta, nil
}

func (p *gocvProcessor) ReadFrames(ctx context.Context, path string, fn func(index int, frame []byte) error) error {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCorruptVideo, err)
	}
	defer capture.Close()

	mat := gocv.NewMat()
	defer mat.Close()

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ok := capture.Read(&mat); !ok {
			return nil
		}
		if mat.Empty() {
			continue
		}

		buf, err := gocv.IMEncode(".jpg", mat)
		if err != nil {
			return fmt.Errorf("encode frame %d: %w", index, err)
		}
		callErr := fn(index, buf.GetBytes())
		buf.Close()
		if callErr != nil {
			return callErr
		}
	}
}

func (p *gocvProcessor) Crop(frame []byte, box domain.Box) ([]byte, error) {
	mat, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	defer mat.Close()

	rect := image.Rect(box.X, box.Y, box.X+box.Width, box.Y+box.Height)
	bounds := image.Rect(0, 0, mat.Cols(), mat.Rows())
	rect = rect.Intersect(bounds)
	if rect.Empty() {
		return nil, domain.ErrDegenerateBox
	}

	region := mat.Region(rect)
	defer region.Close()

	buf, err := gocv.IMEncode(".jpg", region)
	if err != nil {
		return nil, fmt.Errorf("encode crop: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

func (p *gocvProcessor) Annotate(ctx context.Context, srcPath, dstPath string, obs []domain.PlateObservation) error {
	capture, err := gocv.VideoCaptureFile(srcPath)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCorruptVideo, err)
	}
	defer capture.Close()

	width := int(capture.Get(gocv.VideoCaptureFrameWidth))
	height := int(capture.Get(gocv.VideoCaptureFrameHeight))
	fps := capture.Get(gocv.VideoCaptureFPS)
	if width <= 0 || height <= 0 || fps <= 0 {
		return fmt.Errorf("%w: unreadable geometry in %s", domain.ErrCorruptVideo, srcPath)
	}

	writer, err := gocv.VideoWriterFile(dstPath, "mp4v", fps, width, height, true)
	if err != nil {
		return fmt.Errorf("open annotated writer: %w", err)
	}
	defer writer.Close()

	byFrame := make(map[int][]domain.PlateObservation)
	for _, o := range obs {
		byFrame[o.Frame] = append(byFrame[o.Frame], o)
	}

	mat := gocv.NewMat()
	defer mat.Close()

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ok := capture.Read(&mat); !ok {
			return nil
		}
		if mat.Empty() {
			continue
		}

		for _, o := range byFrame[index] {
			rect := image.Rect(o.Box.X, o.Box.Y, o.Box.X+o.Box.Width, o.Box.Y+o.Box.Height)
			gocv.Rectangle(&mat, rect, boxColor, 2)
			textOrigin := image.Pt(o.Box.X, o.Box.Y-6)
			if textOrigin.Y < 0 {
				textOrigin.Y = o.Box.Y + o.Box.Height + 16
			}
			gocv.PutText(&mat, o.Text, textOrigin, gocv.FontHersheySimplex, 0.6, textColor, 2)
		}

		if err := writer.Write(mat); err != nil {
			return fmt.Errorf("write annotated frame %d: %w", index, err)
		}
	}
}
