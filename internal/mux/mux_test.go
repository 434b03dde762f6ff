package mux

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"avmux/internal/logging"
)

func TestBuildArgs(t *testing.T) {
	args := BuildArgs("/in/a.mp4", "/in/x.wav", "/out/.1.mp4.avmux-partial")

	if args[len(args)-1] != "/out/.1.mp4.avmux-partial" {
		t.Fatalf("expected output path last, got %v", args)
	}
	for _, pair := range [][2]string{
		{"-c:v", "h264"},
		{"-c:a", "aac"},
		{"-f", "mp4"},
	} {
		if !hasPair(args, pair[0], pair[1]) {
			t.Fatalf("expected %s %s in %v", pair[0], pair[1], args)
		}
	}
	if !slices.Contains(args, "-shortest") {
		t.Fatalf("expected -shortest in %v", args)
	}
	if !slices.Contains(args, "-y") {
		t.Fatalf("expected overwrite flag in %v", args)
	}

	videoInput := slices.Index(args, "/in/a.mp4")
	audioInput := slices.Index(args, "/in/x.wav")
	if videoInput < 0 || audioInput < 0 || videoInput > audioInput {
		t.Fatalf("expected video input before audio input, got %v", args)
	}
	videoMap := slices.Index(args, "0:v:0")
	audioMap := slices.Index(args, "1:a:0")
	if videoMap < 0 || audioMap < 0 {
		t.Fatalf("expected explicit stream maps, got %v", args)
	}
}

func TestExecMuxerWritesOutputAtomically(t *testing.T) {
	outDir := t.TempDir()
	job := Job{VideoPath: "/in/a.mp4", AudioPath: "/in/x.wav", OutputPath: filepath.Join(outDir, "1.mp4")}

	var gotName string
	var gotArgs []string
	m := NewExecMuxer("/usr/local/bin/ffmpeg", logging.NewNop())
	m.WithCommandRunner(func(_ context.Context, name string, args ...string) (string, error) {
		gotName = name
		gotArgs = args
		target := args[len(args)-1]
		if _, err := os.Stat(job.OutputPath); err == nil {
			t.Errorf("final output must not exist while ffmpeg runs")
		}
		return "", os.WriteFile(target, []byte("muxed"), 0o644)
	})

	if err := m.Mux(context.Background(), job); err != nil {
		t.Fatalf("Mux: %v", err)
	}
	if gotName != "/usr/local/bin/ffmpeg" {
		t.Fatalf("unexpected binary %q", gotName)
	}
	if gotArgs[len(gotArgs)-1] != PartialPath(job.OutputPath) {
		t.Fatalf("expected ffmpeg to write the partial path, got %v", gotArgs)
	}
	data, err := os.ReadFile(job.OutputPath)
	if err != nil || string(data) != "muxed" {
		t.Fatalf("expected muxed output, got %q (%v)", data, err)
	}
	if _, err := os.Stat(PartialPath(job.OutputPath)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected partial file to be gone, got %v", err)
	}
}

func TestExecMuxerOverwritesExistingOutput(t *testing.T) {
	outDir := t.TempDir()
	output := filepath.Join(outDir, "1.mp4")
	if err := os.WriteFile(output, []byte("previous run"), 0o644); err != nil {
		t.Fatalf("seed output: %v", err)
	}
	m := NewExecMuxer("", nil)
	m.WithCommandRunner(func(_ context.Context, _ string, args ...string) (string, error) {
		return "", os.WriteFile(args[len(args)-1], []byte("new"), 0o644)
	})
	if err := m.Mux(context.Background(), Job{VideoPath: "v", AudioPath: "a", OutputPath: output}); err != nil {
		t.Fatalf("Mux: %v", err)
	}
	data, _ := os.ReadFile(output)
	if string(data) != "new" {
		t.Fatalf("expected output to be replaced, got %q", data)
	}
}

func TestExecMuxerFailureLeavesNoOutput(t *testing.T) {
	outDir := t.TempDir()
	output := filepath.Join(outDir, "3.mp4")
	m := NewExecMuxer("ffmpeg", nil)
	m.WithCommandRunner(func(_ context.Context, _ string, args ...string) (string, error) {
		_ = os.WriteFile(args[len(args)-1], []byte("half"), 0o644)
		return "line one\nInvalid data found when processing input\n", errors.New("exit status 1")
	})

	err := m.Mux(context.Background(), Job{VideoPath: "v", AudioPath: "a", OutputPath: output})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected stderr tail in error, got %v", err)
	}
	for _, path := range []string{output, PartialPath(output)} {
		if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
			t.Fatalf("expected %s to be absent, got %v", path, statErr)
		}
	}
}

func TestExecMuxerMissingOutputIsError(t *testing.T) {
	m := NewExecMuxer("ffmpeg", nil)
	m.WithCommandRunner(func(context.Context, string, ...string) (string, error) { return "", nil })
	err := m.Mux(context.Background(), Job{VideoPath: "v", AudioPath: "a", OutputPath: filepath.Join(t.TempDir(), "1.mp4")})
	if err == nil || !strings.Contains(err.Error(), "did not produce output") {
		t.Fatalf("expected missing output error, got %v", err)
	}
}

func TestMuxRejectsIncompleteJob(t *testing.T) {
	m := NewExecMuxer("ffmpeg", nil)
	m.WithCommandRunner(func(context.Context, string, ...string) (string, error) {
		t.Fatal("runner must not be called")
		return "", nil
	})
	if err := m.Mux(context.Background(), Job{VideoPath: "v", OutputPath: "o"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestGraphMuxerCommand(t *testing.T) {
	m := NewGraphMuxer("/opt/ffmpeg", nil)
	cmd := m.Command(context.Background(), "/in/a.mp4", "/in/x.wav", "/out/.1.mp4.avmux-partial")

	if cmd.Args[0] != "/opt/ffmpeg" {
		t.Fatalf("expected configured binary, got %q", cmd.Args[0])
	}
	args := cmd.Args[1:]
	for _, pair := range [][2]string{
		{"-c:v", "h264"},
		{"-c:a", "aac"},
		{"-f", "mp4"},
		{"-i", "/in/a.mp4"},
		{"-i", "/in/x.wav"},
	} {
		if !hasPair(args, pair[0], pair[1]) {
			t.Fatalf("expected %s %s in %v", pair[0], pair[1], args)
		}
	}
	for _, flag := range []string{"-shortest", "-y", "/out/.1.mp4.avmux-partial"} {
		if !slices.Contains(args, flag) {
			t.Fatalf("expected %s in %v", flag, args)
		}
	}
	maps := 0
	for _, arg := range args {
		if arg == "-map" {
			maps++
		}
	}
	if maps != 2 {
		t.Fatalf("expected one video and one audio map, got %d in %v", maps, args)
	}
	if !hasPair(args, "-map", "0:v:0") || !hasPair(args, "-map", "1:a:0") {
		t.Fatalf("expected first video and first audio stream maps, got %v", args)
	}
}

func TestGraphMuxerMatchesExecStreamMaps(t *testing.T) {
	graph := NewGraphMuxer("ffmpeg", nil).Command(context.Background(), "/in/a.mp4", "/in/x.wav", "/out/o.mp4").Args[1:]
	execArgs := BuildArgs("/in/a.mp4", "/in/x.wav", "/out/o.mp4")

	mapsOf := func(args []string) []string {
		var maps []string
		for i := 0; i+1 < len(args); i++ {
			if args[i] == "-map" {
				maps = append(maps, args[i+1])
			}
		}
		return maps
	}
	if got, want := mapsOf(graph), mapsOf(execArgs); !slices.Equal(got, want) {
		t.Fatalf("graph maps %v differ from exec maps %v", got, want)
	}
}

func TestGraphMuxerRunsBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nfor a in \"$@\"; do case \"$a\" in *.avmux-partial) printf muxed > \"$a\";; esac; done\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	output := filepath.Join(dir, "1.mp4")

	m := NewGraphMuxer(stub, nil)
	if err := m.Mux(context.Background(), Job{VideoPath: "v.mp4", AudioPath: "a.wav", OutputPath: output}); err != nil {
		t.Fatalf("Mux: %v", err)
	}
	if data, err := os.ReadFile(output); err != nil || string(data) != "muxed" {
		t.Fatalf("expected output from stub, got %q (%v)", data, err)
	}
}

func TestGraphMuxerDoesNotWriteStdlibLog(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nfor a in \"$@\"; do case \"$a\" in *.avmux-partial) printf muxed > \"$a\";; esac; done\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	m := NewGraphMuxer(stub, logging.NewNop())
	if err := m.Mux(context.Background(), Job{VideoPath: "v.mp4", AudioPath: "a.wav", OutputPath: filepath.Join(dir, "1.mp4")}); err != nil {
		t.Fatalf("Mux: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no stdlib log output, got %q", buf.String())
	}
}

func TestNewSelectsBackend(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", BackendExec, false},
		{"exec", BackendExec, false},
		{"FFmpeg-Go", BackendFFmpegGo, false},
		{"moviepy", "", true},
	}
	for _, tt := range tests {
		m, err := New(tt.name, "ffmpeg", nil)
		if (err != nil) != tt.wantErr {
			t.Fatalf("New(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err == nil && m.Backend() != tt.want {
			t.Fatalf("New(%q) backend = %q, want %q", tt.name, m.Backend(), tt.want)
		}
	}
}

func TestStderrTail(t *testing.T) {
	got := stderrTail("a\nb\nc\nd\n", 2)
	if got != "c\nd" {
		t.Fatalf("stderrTail = %q", got)
	}
	if stderrTail("  \n", 3) != "" {
		t.Fatal("expected empty tail for blank output")
	}
}

func hasPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}
