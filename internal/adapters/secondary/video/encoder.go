package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"license-plate-service/internal/core/domain"
	output "license-plate-service/internal/core/ports/output"
)

type ffmpegEncoder struct {
	ffmpegPath  string
	ffprobePath string
}

// NewDeliveryEncoder creates the ffmpeg-backed DeliveryEncoder. Paths
// default to the binaries on PATH when empty.
func NewDeliveryEncoder(ffmpegPath, ffprobePath string) output.DeliveryEncoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &ffmpegEncoder{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

func (e *ffmpegEncoder) Encode(ctx context.Context, srcPath, audioSource, dstPath string) error {
	withAudio, err := e.hasAudioStream(ctx, audioSource)
	if err != nil {
		return err
	}

	args := BuildEncodeArgs(srcPath, audioSource, dstPath, withAudio)
	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(dstPath)
		return fmt.Errorf("%w: %v: %s", domain.ErrEncodeFailed, err, tail(stderr.String(), 400))
	}
	return nil
}

// hasAudioStream reports whether the source carries at least one audio
// stream. ffprobe prints one codec_type line per audio stream.
func (e *ffmpegEncoder) hasAudioStream(ctx context.Context, path string) (bool, error) {
	cmd := exec.CommandContext(ctx, e.ffprobePath,
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=codec_type",
		"-of", "csv=p=0",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("%w: probe audio: %v", domain.ErrEncodeFailed, err)
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// BuildEncodeArgs assembles the ffmpeg argument list for the delivery
// encode. Audio mapping is only included when the audio source has an
// audio stream, otherwise ffmpeg fails on the missing stream.
func BuildEncodeArgs(srcPath, audioSource, dstPath string, withAudio bool) []string {
	args := []string{"-y", "-i", srcPath}
	if withAudio {
		args = append(args,
			"-i", audioSource,
			"-map", "0:v:0",
			"-map", "1:a:0",
			"-c:a", "aac",
			"-shortest",
		)
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-movflags", "+faststart",
		dstPath,
	)
	return args
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
