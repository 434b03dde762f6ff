package mux

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"avmux/internal/logging"
)

// GraphMuxer builds the invocation through ffmpeg-go's stream graph.
type GraphMuxer struct {
	binary string
	logger *slog.Logger
}

// NewGraphMuxer constructs the ffmpeg-go backend. An empty binary means "ffmpeg".
func NewGraphMuxer(binary string, logger *slog.Logger) *GraphMuxer {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &GraphMuxer{binary: binary, logger: logging.NewComponentLogger(logger, "mux")}
}

// Backend reports the backend name.
func (m *GraphMuxer) Backend() string { return BackendFFmpegGo }

// Mux compiles the graph for job, runs it, and moves the result into place.
func (m *GraphMuxer) Mux(ctx context.Context, job Job) error {
	return writeAtomically(ctx, m.logger, job, func(partial string) error {
		cmd := m.Command(ctx, job.VideoPath, job.AudioPath, partial)
		m.logger.Debug("executing ffmpeg graph",
			logging.String("binary", m.binary),
			logging.String("video", job.VideoPath),
			logging.String("audio", job.AudioPath),
			logging.String("args", strings.Join(cmd.Args[1:], " ")),
		)
		var stderr bytes.Buffer
		cmd.Stdout = nil
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return ffmpegError(err, stderr.String())
		}
		return nil
	})
}

// Command compiles the ffmpeg-go graph without running it.
func (m *GraphMuxer) Command(ctx context.Context, video, audio, output string) *exec.Cmd {
	streams := []*ffmpeg.Stream{
		ffmpeg.Input(video).Get("v:0"),
		ffmpeg.Input(audio).Get("a:0"),
	}
	return ffmpeg.OutputContext(ctx, streams, output, ffmpeg.KwArgs{
		"c:v":      VideoCodec,
		"c:a":      AudioCodec,
		"shortest": "",
		"format":   Container,
	}).
		GlobalArgs("-hide_banner", "-nostdin", "-loglevel", "error").
		OverWriteOutput().
		Silent(true).
		SetFfmpegPath(m.binary).
		Compile()
}
