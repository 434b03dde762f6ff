package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"avmux/internal/config"
	"avmux/internal/logging"
	"avmux/internal/mux"
	"avmux/internal/pairing"
	"avmux/internal/preflight"
	"avmux/internal/scan"
)

// Options carries the collaborators of Run that callers may replace.
type Options struct {
	Logger   *slog.Logger
	Observer Observer
	// Muxer replaces the backend named by encoding.backend.
	Muxer mux.Muxer
	// Verifier replaces the ffprobe verifier used when batch.verify_output is set.
	Verifier Verifier
}

// Plan lists, orders and pairs the configured input directories without
// touching the output directory.
func Plan(cfg *config.Config) ([]pairing.Pair, error) {
	movies, err := listOrdered(cfg, cfg.Paths.MovieDir)
	if err != nil {
		return nil, err
	}
	sounds, err := listOrdered(cfg, cfg.Paths.SoundDir)
	if err != nil {
		return nil, err
	}
	return pairing.Plan(pairing.Dirs{
		Movie:  cfg.Paths.MovieDir,
		Sound:  cfg.Paths.SoundDir,
		Output: cfg.Paths.OutputDir,
	}, movies, sounds)
}

func listOrdered(cfg *config.Config, dir string) ([]string, error) {
	names, err := scan.ListFiles(dir)
	if err != nil {
		return nil, err
	}
	ordered, err := scan.Order(names, cfg.Pairing.Order, cfg.Pairing.Collation)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", dir, err)
	}
	return ordered, nil
}

// Run executes one batch for cfg. Nothing is written to the output directory
// unless the directory checks and pair validation succeed. The report is
// recorded in run history when history is enabled, including runs rejected
// before any pair was processed.
func Run(ctx context.Context, cfg *config.Config, opts Options) (report Report, err error) {
	if cfg == nil {
		return Report{}, errors.New("batch: config is required")
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "batch"))

	report = Report{
		RunID:     runID,
		Started:   time.Now(),
		Backend:   cfg.Encoding.Backend,
		MovieDir:  cfg.Paths.MovieDir,
		SoundDir:  cfg.Paths.SoundDir,
		OutputDir: cfg.Paths.OutputDir,
	}
	defer func() {
		if report.Finished.IsZero() {
			report.Finished = time.Now()
		}
		if err != nil {
			logging.ErrorWithContext(logger, "batch failed", "batch_failed", hintFor(err),
				logging.String("error_kind", ErrorKind(err)),
				logging.Error(err),
			)
		}
		recordHistory(ctx, cfg, logger, report, err)
	}()

	if accessErr := preflight.DirectoryAccess(cfg.Paths.OutputDir, preflight.ReadWrite); accessErr != nil {
		return report, &scan.DirectoryAccessError{Dir: cfg.Paths.OutputDir, Err: accessErr}
	}

	pairs, err := Plan(cfg)
	if err != nil {
		return report, err
	}

	muxer := opts.Muxer
	if muxer == nil {
		muxer, err = mux.New(cfg.Encoding.Backend, cfg.FFmpegBinary(), logging.WithContext(ctx, opts.Logger))
		if err != nil {
			return report, err
		}
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return report, err
	}
	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return report, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !locked {
		return report, fmt.Errorf("%w (lock %s)", ErrBatchRunning, cfg.LockPath())
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			logger.Warn("failed to release batch lock", logging.Error(unlockErr))
		}
	}()

	combinerOpts := []Option{
		WithContinueOnError(cfg.Batch.ContinueOnError),
		WithObserver(opts.Observer),
	}
	if cfg.Batch.VerifyOutput {
		verifier := opts.Verifier
		if verifier == nil {
			verifier = ProbeVerifier(cfg.FFprobeBinary())
		}
		combinerOpts = append(combinerOpts, WithVerifier(verifier))
	}

	combined, err := NewCombiner(muxer, opts.Logger, combinerOpts...).Combine(ctx, pairs)
	report.Backend = combined.Backend
	report.Started = combined.Started
	report.Finished = combined.Finished
	report.Results = combined.Results
	return report, err
}

func hintFor(err error) string {
	switch ErrorKind(err) {
	case "not_found":
		return "create the directory or fix the paths in the config file"
	case "validation":
		return "add or remove files so both directories hold the same number"
	case "locked":
		return "wait for the other avmux run to finish"
	case "encoding":
		return "inspect the ffmpeg output above for the failing pair"
	default:
		return ""
	}
}
