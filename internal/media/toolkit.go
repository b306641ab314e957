package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"fcpbridge/internal/config"
	"fcpbridge/internal/logging"
	"fcpbridge/internal/media/ffprobe"
	"fcpbridge/internal/timeline"
)

// Toolkit runs the external media binaries.
type Toolkit struct {
	FFprobe string
	FFmpeg  string
	TempDir string
	Logger  *slog.Logger
}

// NewToolkit builds a Toolkit from configured binaries and scratch space.
func NewToolkit(cfg *config.Config, logger *slog.Logger) *Toolkit {
	tk := &Toolkit{
		FFprobe: "ffprobe",
		FFmpeg:  "ffmpeg",
		TempDir: os.TempDir(),
		Logger:  logging.NewComponentLogger(logger, "media"),
	}
	if cfg != nil {
		tk.FFprobe = cfg.FFprobeBinary()
		tk.FFmpeg = cfg.FFmpegBinary()
		if cfg.Paths.TempDir != "" {
			tk.TempDir = cfg.Paths.TempDir
		}
	}
	return tk
}

func (t *Toolkit) logger() *slog.Logger {
	if t.Logger == nil {
		return logging.NewNop()
	}
	return t.Logger
}

// Probe reports the video and audio streams of path. Cover art attached as a
// video stream is ignored.
func (t *Toolkit) Probe(ctx context.Context, path string) (timeline.Streams, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return timeline.Streams{}, fmt.Errorf("%w: %s", timeline.ErrMediaNotFound, path)
		}
		return timeline.Streams{}, fmt.Errorf("stat media: %w", err)
	}

	result, err := ffprobe.Inspect(ctx, t.FFprobe, path)
	if err != nil {
		return timeline.Streams{}, err
	}

	var streams timeline.Streams
	for _, s := range result.VideoStreams() {
		streams.Videos = append(streams.Videos, timeline.VideoStream{
			Index:  s.Index,
			Codec:  s.CodecName,
			Width:  s.Width,
			Height: s.Height,
		})
	}
	for _, s := range result.AudioStreams() {
		streams.Audios = append(streams.Audios, timeline.AudioStream{
			Index:      s.Index,
			Codec:      s.CodecName,
			SampleRate: s.SampleRateHz(),
			Channels:   s.Channels,
		})
	}

	t.logger().Debug("probed media",
		slog.String(logging.FieldPath, path),
		slog.Int("video_streams", len(streams.Videos)),
		slog.Int("audio_streams", len(streams.Audios)),
	)
	return streams, nil
}

// ExtractAudio writes audio stream (the stream-th audio stream, zero based) of
// path to a new 16-bit PCM WAV file in the temp directory and returns its path.
// The caller owns the returned file.
func (t *Toolkit) ExtractAudio(ctx context.Context, path string, stream int) (string, error) {
	if stream < 0 {
		return "", fmt.Errorf("extract audio: negative stream index %d", stream)
	}
	if err := os.MkdirAll(t.TempDir, 0o755); err != nil {
		return "", fmt.Errorf("extract audio: temp dir: %w", err)
	}
	output := filepath.Join(t.TempDir, "fcpbridge-"+uuid.NewString()+".wav")

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", path,
		"-map", "0:a:" + strconv.Itoa(stream),
		"-vn", "-sn", "-dn",
		"-c:a", "pcm_s16le",
		output,
	}
	cmd := exec.CommandContext(ctx, t.FFmpeg, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(output)
		return "", fmt.Errorf("ffmpeg extract stream %d: %w: %s", stream, err, strings.TrimSpace(stderr.String()))
	}

	t.logger().Debug("extracted audio stream",
		slog.String(logging.FieldPath, path),
		slog.Int(logging.FieldStream, stream),
		slog.String("output", output),
	)
	return output, nil
}
