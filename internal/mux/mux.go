package mux

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"avmux/internal/logging"
)

// Fixed encoding parameters.
const (
	VideoCodec = "h264"
	AudioCodec = "aac"
	Container  = "mp4"
)

// Backend names accepted by New.
const (
	BackendExec     = "exec"
	BackendFFmpegGo = "ffmpeg-go"
)

const partialSuffix = ".avmux-partial"

// Job describes one mux invocation.
type Job struct {
	VideoPath  string
	AudioPath  string
	OutputPath string
}

// Muxer combines the video of one file with the audio of another.
// Mux blocks until the external tool exits.
type Muxer interface {
	Mux(ctx context.Context, job Job) error
	Backend() string
}

// New returns the backend registered under name.
func New(name, ffmpegBinary string, logger *slog.Logger) (Muxer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case BackendExec, "":
		return NewExecMuxer(ffmpegBinary, logger), nil
	case BackendFFmpegGo:
		return NewGraphMuxer(ffmpegBinary, logger), nil
	default:
		return nil, fmt.Errorf("unknown mux backend %q", name)
	}
}

// PartialPath returns the temporary file a backend writes before the rename.
func PartialPath(output string) string {
	return filepath.Join(filepath.Dir(output), "."+filepath.Base(output)+partialSuffix)
}

func (j Job) validate() error {
	if strings.TrimSpace(j.VideoPath) == "" {
		return errors.New("video path is required")
	}
	if strings.TrimSpace(j.AudioPath) == "" {
		return errors.New("audio path is required")
	}
	if strings.TrimSpace(j.OutputPath) == "" {
		return errors.New("output path is required")
	}
	return nil
}

// writeAtomically runs produce against the partial path and renames the
// result over job.OutputPath. An existing output is replaced.
func writeAtomically(ctx context.Context, logger *slog.Logger, job Job, produce func(partial string) error) error {
	if err := job.validate(); err != nil {
		return err
	}
	partial := PartialPath(job.OutputPath)
	_ = os.Remove(partial)

	if err := produce(partial); err != nil {
		_ = os.Remove(partial)
		return err
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(partial)
		return err
	}
	if _, err := os.Stat(partial); err != nil {
		return fmt.Errorf("ffmpeg did not produce output file: %w", err)
	}
	if err := os.Rename(partial, job.OutputPath); err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("move output into place: %w", err)
	}
	logger.Debug("output written", logging.String("output", job.OutputPath))
	return nil
}

// stderrTail keeps the last lines of ffmpeg's diagnostics for error messages.
func stderrTail(output string, lines int) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "\n")
	if len(parts) > lines {
		parts = parts[len(parts)-lines:]
	}
	return strings.Join(parts, "\n")
}

func ffmpegError(err error, stderr string) error {
	if tail := stderrTail(stderr, 8); tail != "" {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, tail)
	}
	return fmt.Errorf("ffmpeg failed: %w", err)
}
