package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"avmux/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The movie, sound and outcome directories exist and are empty; the state
// directory is created lazily like in production.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.MovieDir = filepath.Join(base, "movie")
	cfgVal.Paths.SoundDir = filepath.Join(base, "sound")
	cfgVal.Paths.OutputDir = filepath.Join(base, "outcome")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Encoding.FFmpegBinary = "ffmpeg"
	cfgVal.Encoding.FFprobeBinary = "ffprobe"
	cfgVal.Logging.File = false

	for _, dir := range []string{cfgVal.Paths.MovieDir, cfgVal.Paths.SoundDir, cfgVal.Paths.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBackend selects the mux backend on the test config.
func WithBackend(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encoding.Backend = name
	}
}

// WithContinueOnError enables continue-on-error batches.
func WithContinueOnError() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.ContinueOnError = true
	}
}

// WithoutHistory disables the run history database.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
// The ffmpeg stub behaves like StubFFmpegScript; every other stub exits 0.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		for _, name := range names {
			script := []byte("#!/bin/sh\nexit 0\n")
			if name == "ffmpeg" {
				script = []byte(StubFFmpegScript)
			}
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// StubFFmpegScript imitates ffmpeg for tests. It writes a small payload to
// every argument ending in .avmux-partial, appends its arguments to
// $AVMUX_STUB_LOG when set, and exits 1 when any argument contains
// $AVMUX_STUB_FAIL.
const StubFFmpegScript = `#!/bin/sh
if [ -n "$AVMUX_STUB_LOG" ]; then
  echo "$*" >> "$AVMUX_STUB_LOG"
fi
if [ -n "$AVMUX_STUB_FAIL" ]; then
  for arg in "$@"; do
    case "$arg" in
      *"$AVMUX_STUB_FAIL"*) echo "stub ffmpeg: cannot decode $arg" >&2; exit 1 ;;
    esac
  done
fi
for arg in "$@"; do
  case "$arg" in
    *.avmux-partial) printf 'muxed' > "$arg" ;;
  esac
done
exit 0
`

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.MovieDir)
}
