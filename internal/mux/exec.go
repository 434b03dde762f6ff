package mux

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"avmux/internal/logging"
)

// commandRunner executes name with args and returns its captured stderr.
type commandRunner func(ctx context.Context, name string, args ...string) (string, error)

// ExecMuxer runs the ffmpeg binary with an argument list it builds itself.
type ExecMuxer struct {
	binary string
	logger *slog.Logger
	run    commandRunner
}

// NewExecMuxer constructs the exec backend. An empty binary means "ffmpeg".
func NewExecMuxer(binary string, logger *slog.Logger) *ExecMuxer {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &ExecMuxer{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "mux"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (m *ExecMuxer) WithCommandRunner(r commandRunner) {
	if m != nil && r != nil {
		m.run = r
	}
}

// Backend reports the backend name.
func (m *ExecMuxer) Backend() string { return BackendExec }

// Mux runs ffmpeg for job and moves the result into place.
func (m *ExecMuxer) Mux(ctx context.Context, job Job) error {
	return writeAtomically(ctx, m.logger, job, func(partial string) error {
		args := BuildArgs(job.VideoPath, job.AudioPath, partial)
		m.logger.Debug("executing ffmpeg",
			logging.String("binary", m.binary),
			logging.String("video", job.VideoPath),
			logging.String("audio", job.AudioPath),
			logging.String("args", strings.Join(args, " ")),
		)
		stderr, err := m.run(ctx, m.binary, args...)
		if err != nil {
			return ffmpegError(err, stderr)
		}
		return nil
	})
}

// BuildArgs constructs the ffmpeg arguments that mux video's picture with
// audio's sound into output.
func BuildArgs(video, audio, output string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-loglevel", "error",
		"-y",
		"-i", video,
		"-i", audio,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", VideoCodec,
		"-c:a", AudioCodec,
		"-shortest",
		"-f", Container,
		output,
	}
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}
