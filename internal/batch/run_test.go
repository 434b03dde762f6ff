package batch_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"avmux/internal/batch"
	"avmux/internal/history"
	"avmux/internal/logging"
	"avmux/internal/pairing"
	"avmux/internal/scan"
	"avmux/internal/testsupport"
)

func TestRunPairsFilesByName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.Populate(t, cfg.Paths.MovieDir, "b.mp4", "a.mp4")
	testsupport.Populate(t, cfg.Paths.SoundDir, "y.wav", "x.wav")
	muxer := &fakeMuxer{}

	report, err := batch.Run(context.Background(), cfg, batch.Options{Muxer: muxer, Logger: logging.NewNop()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(muxer.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(muxer.calls))
	}
	want := []struct{ video, audio, output string }{
		{"a.mp4", "x.wav", "1.mp4"},
		{"b.mp4", "y.wav", "2.mp4"},
	}
	for i, w := range want {
		call := muxer.calls[i]
		if filepath.Base(call.VideoPath) != w.video || filepath.Base(call.AudioPath) != w.audio || filepath.Base(call.OutputPath) != w.output {
			t.Fatalf("call %d = %+v, want %+v", i, call, w)
		}
	}
	if got := testsupport.ListDir(t, cfg.Paths.OutputDir); !slices.Equal(got, []string{"1.mp4", "2.mp4"}) {
		t.Fatalf("unexpected outputs %v", got)
	}
	if report.RunID == "" || report.OutputDir != cfg.Paths.OutputDir {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestRunRejectsCountMismatchBeforeMuxing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.Populate(t, cfg.Paths.MovieDir, "a.mp4", "b.mp4", "c.mp4")
	testsupport.Populate(t, cfg.Paths.SoundDir, "x.wav", "y.wav")
	muxer := &fakeMuxer{}

	_, err := batch.Run(context.Background(), cfg, batch.Options{Muxer: muxer})
	var mismatch *pairing.PairCountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected PairCountMismatchError, got %v", err)
	}
	if mismatch.Movies != 3 || mismatch.Sounds != 2 {
		t.Fatalf("unexpected counts: %+v", mismatch)
	}
	if len(muxer.calls) != 0 {
		t.Fatalf("expected zero mux calls, got %d", len(muxer.calls))
	}
	if got := testsupport.ListDir(t, cfg.Paths.OutputDir); len(got) != 0 {
		t.Fatalf("output directory should be untouched, got %v", got)
	}
}

func TestRunEmptyDirectoriesSucceed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	muxer := &fakeMuxer{}
	report, err := batch.Run(context.Background(), cfg, batch.Options{Muxer: muxer})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(muxer.calls) != 0 || report.Total() != 0 {
		t.Fatalf("expected no work, got %d calls", len(muxer.calls))
	}
}

func TestRunIgnoresSubdirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.Populate(t, cfg.Paths.MovieDir, "a.mp4")
	testsupport.Populate(t, cfg.Paths.SoundDir, "x.wav")
	if err := os.Mkdir(filepath.Join(cfg.Paths.MovieDir, "extras"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	muxer := &fakeMuxer{}
	if _, err := batch.Run(context.Background(), cfg, batch.Options{Muxer: muxer}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(muxer.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(muxer.calls))
	}
}

func TestRunMissingDirectories(t *testing.T) {
	tests := []struct {
		name   string
		remove func(dirs [3]string) string
	}{
		{"movie", func(d [3]string) string { return d[0] }},
		{"sound", func(d [3]string) string { return d[1] }},
		{"output", func(d [3]string) string { return d[2] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t)
			missing := tt.remove([3]string{cfg.Paths.MovieDir, cfg.Paths.SoundDir, cfg.Paths.OutputDir})
			if err := os.Remove(missing); err != nil {
				t.Fatalf("remove: %v", err)
			}
			muxer := &fakeMuxer{}
			_, err := batch.Run(context.Background(), cfg, batch.Options{Muxer: muxer})
			var accessErr *scan.DirectoryAccessError
			if !errors.As(err, &accessErr) {
				t.Fatalf("expected DirectoryAccessError, got %v", err)
			}
			if accessErr.Dir != missing {
				t.Fatalf("unexpected dir %q, want %q", accessErr.Dir, missing)
			}
			if !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("expected error to unwrap to ErrNotExist, got %v", err)
			}
			if len(muxer.calls) != 0 {
				t.Fatalf("expected zero mux calls")
			}
		})
	}
}

func TestRunFailsWhenAnotherBatchHoldsLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.Populate(t, cfg.Paths.MovieDir, "a.mp4")
	testsupport.Populate(t, cfg.Paths.SoundDir, "x.wav")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	held := flock.New(cfg.LockPath())
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("hold lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	muxer := &fakeMuxer{}
	_, err := batch.Run(context.Background(), cfg, batch.Options{Muxer: muxer})
	if !errors.Is(err, batch.ErrBatchRunning) {
		t.Fatalf("expected ErrBatchRunning, got %v", err)
	}
	if len(muxer.calls) != 0 {
		t.Fatalf("expected zero mux calls")
	}
}

func TestRunRecordsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.Populate(t, cfg.Paths.MovieDir, "a.mp4", "b.mp4")
	testsupport.Populate(t, cfg.Paths.SoundDir, "x.wav", "y.wav")
	muxer := &fakeMuxer{failAt: map[int]error{1: errors.New("exit status 1")}}

	report, err := batch.Run(context.Background(), cfg, batch.Options{Muxer: muxer})
	if err == nil {
		t.Fatal("expected failure")
	}

	store := testsupport.MustOpenHistory(t, cfg)
	run, err := store.GetRun(context.Background(), report.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != history.StatusFailed || run.ErrorKind != "encoding" || run.PairCount != 2 || run.DoneCount != 1 {
		t.Fatalf("unexpected run: %+v", run)
	}
	results, err := store.RunResults(context.Background(), report.RunID)
	if err != nil {
		t.Fatalf("RunResults: %v", err)
	}
	if len(results) != 2 || results[0].Status != "done" || results[1].Status != "failed" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestRunRecordsRejectedRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.Populate(t, cfg.Paths.MovieDir, "a.mp4")

	report, err := batch.Run(context.Background(), cfg, batch.Options{Muxer: &fakeMuxer{}})
	if err == nil {
		t.Fatal("expected mismatch")
	}
	store := testsupport.MustOpenHistory(t, cfg)
	run, err := store.GetRun(context.Background(), report.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.ErrorKind != "validation" || run.PairCount != 0 {
		t.Fatalf("unexpected run: %+v", run)
	}
}

func TestRunWithoutHistoryLeavesNoDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutHistory())
	if _, err := batch.Run(context.Background(), cfg, batch.Options{Muxer: &fakeMuxer{}}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(cfg.HistoryPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no history database, got %v", err)
	}
}

func TestRunWithStubbedFFmpeg(t *testing.T) {
	for _, backend := range []string{"exec", "ffmpeg-go"} {
		t.Run(backend, func(t *testing.T) {
			cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithBackend(backend))
			testsupport.Populate(t, cfg.Paths.MovieDir, "a.mp4", "b.mp4", "c.mp4")
			testsupport.Populate(t, cfg.Paths.SoundDir, "x.wav", "y.wav", "z.wav")
			t.Setenv("AVMUX_STUB_FAIL", "b.mp4")

			report, err := batch.Run(context.Background(), cfg, batch.Options{})
			var encErr *batch.EncodingError
			if !errors.As(err, &encErr) || encErr.Index != 1 {
				t.Fatalf("expected encoding error at pair 1, got %v", err)
			}
			if !strings.Contains(err.Error(), "cannot decode") {
				t.Fatalf("expected ffmpeg stderr in error, got %v", err)
			}
			if report.Backend != backend {
				t.Fatalf("unexpected backend %q", report.Backend)
			}
			if got := testsupport.ListDir(t, cfg.Paths.OutputDir); !slices.Equal(got, []string{"1.mp4"}) {
				t.Fatalf("expected only the first output, got %v", got)
			}
		})
	}
}

func TestRunLogsOneComponentPerLine(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	testsupport.Populate(t, cfg.Paths.MovieDir, "a.mp4")
	testsupport.Populate(t, cfg.Paths.SoundDir, "x.wav")

	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	if _, err := batch.Run(context.Background(), cfg, batch.Options{Logger: logger}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	sawMux := false
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if n := strings.Count(line, `"component":`); n > 1 {
			t.Fatalf("expected one component per line, got %d in %s", n, line)
		}
		if strings.Contains(line, `"component":"mux"`) {
			sawMux = true
		}
	}
	if !sawMux {
		t.Fatalf("expected mux log lines, got %s", buf.String())
	}
}

func TestRunContinueOnErrorWithStubbedFFmpeg(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithContinueOnError())
	testsupport.Populate(t, cfg.Paths.MovieDir, "a.mp4", "b.mp4", "c.mp4")
	testsupport.Populate(t, cfg.Paths.SoundDir, "x.wav", "y.wav", "z.wav")
	t.Setenv("AVMUX_STUB_FAIL", "b.mp4")

	report, err := batch.Run(context.Background(), cfg, batch.Options{})
	if err == nil {
		t.Fatal("expected the run to fail")
	}
	if report.Done() != 2 || report.Failed() != 1 {
		t.Fatalf("unexpected counts done=%d failed=%d", report.Done(), report.Failed())
	}
	if got := testsupport.ListDir(t, cfg.Paths.OutputDir); !slices.Equal(got, []string{"1.mp4", "3.mp4"}) {
		t.Fatalf("unexpected outputs %v", got)
	}
}
