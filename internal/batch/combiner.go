package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"avmux/internal/logging"
	"avmux/internal/media/ffprobe"
	"avmux/internal/mux"
	"avmux/internal/pairing"
)

// Observer receives progress callbacks while a batch runs. Callbacks run on
// the batch goroutine.
type Observer interface {
	PairStarted(pair pairing.Pair, total int)
	PairFinished(result PairResult, total int)
}

// Verifier inspects a finished output and returns its duration.
type Verifier func(ctx context.Context, path string) (time.Duration, error)

// ProbeVerifier returns a Verifier that runs ffprobe and requires a video
// stream, an audio stream and a positive duration.
func ProbeVerifier(binary string) Verifier {
	return func(ctx context.Context, path string) (time.Duration, error) {
		result, err := ffprobe.Inspect(ctx, binary, path)
		if err != nil {
			return 0, err
		}
		if err := result.VerifyMuxed(); err != nil {
			return 0, err
		}
		return secondsToDuration(result.DurationSeconds()), nil
	}
}

// Option customizes a Combiner.
type Option func(*Combiner)

// WithVerifier checks every output after it is written.
func WithVerifier(v Verifier) Option {
	return func(c *Combiner) { c.verify = v }
}

// WithObserver registers progress callbacks.
func WithObserver(o Observer) Option {
	return func(c *Combiner) { c.observer = o }
}

// WithContinueOnError attempts every pair even after a failure.
func WithContinueOnError(enabled bool) Option {
	return func(c *Combiner) { c.continueOnError = enabled }
}

// Combiner muxes planned pairs one at a time.
type Combiner struct {
	muxer           mux.Muxer
	verify          Verifier
	observer        Observer
	continueOnError bool
	logger          *slog.Logger
	now             func() time.Time
}

// NewCombiner constructs a Combiner around muxer.
func NewCombiner(muxer mux.Muxer, logger *slog.Logger, opts ...Option) *Combiner {
	c := &Combiner{
		muxer:  muxer,
		logger: logging.NewComponentLogger(logger, "combiner"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Combine muxes pairs in index order. The returned report has one result per
// pair. With fail-fast the first failure is returned as an *EncodingError and
// the remaining pairs are skipped; with continue-on-error every failure is
// joined into the returned error. Cancellation is checked before each pair.
func (c *Combiner) Combine(ctx context.Context, pairs []pairing.Pair) (Report, error) {
	if c.muxer == nil {
		return Report{}, errors.New("combiner: muxer is required")
	}
	logger := logging.WithContext(ctx, c.logger)
	report := Report{
		Backend: c.muxer.Backend(),
		Started: c.now(),
		Results: make([]PairResult, len(pairs)),
	}
	if id, ok := logging.RunIDFromContext(ctx); ok {
		report.RunID = id
	}
	for i, pair := range pairs {
		report.Results[i] = PairResult{Pair: pair, Status: StatusSkipped}
	}

	total := len(pairs)
	logger.Info("batch started",
		logging.Int("pairs", total),
		logging.String("backend", report.Backend),
		logging.Bool("continue_on_error", c.continueOnError),
		logging.String(logging.FieldEventType, "batch_started"),
	)

	var stopErr error
	for i, pair := range pairs {
		if err := ctx.Err(); err != nil {
			stopErr = fmt.Errorf("batch interrupted before pair %d: %w", pair.Index, err)
			logger.Warn("batch interrupted",
				logging.Int(logging.FieldPairIndex, pair.Index),
				logging.String(logging.FieldEventType, "batch_interrupted"),
			)
			break
		}

		result := c.combinePair(ctx, logger, pair, total)
		report.Results[i] = result

		if result.Status == StatusFailed {
			if ctx.Err() != nil {
				stopErr = fmt.Errorf("batch interrupted during pair %d: %w", pair.Index, ctx.Err())
				break
			}
			if !c.continueOnError {
				stopErr = result.Err
				break
			}
		}
	}

	report.Finished = c.now()
	var err error
	if stopErr != nil && !c.continueOnError {
		err = stopErr
	} else {
		err = errors.Join(report.Err(), stopErr)
	}

	logger.Info("batch finished",
		logging.Int("done", report.Done()),
		logging.Int("failed", report.Failed()),
		logging.Int("skipped", report.Skipped()),
		logging.Duration("elapsed", report.Elapsed()),
		logging.String(logging.FieldEventType, "batch_finished"),
	)
	return report, err
}

func (c *Combiner) combinePair(ctx context.Context, logger *slog.Logger, pair pairing.Pair, total int) PairResult {
	pairLogger := logger.With(logging.Int(logging.FieldPairIndex, pair.Index))
	if c.observer != nil {
		c.observer.PairStarted(pair, total)
	}
	pairLogger.Info("muxing pair",
		logging.String("video", pair.Video),
		logging.String("audio", pair.Audio),
		logging.String("output", pair.Output),
	)

	start := c.now()
	result := PairResult{Pair: pair}
	err := c.muxer.Mux(ctx, mux.Job{VideoPath: pair.Video, AudioPath: pair.Audio, OutputPath: pair.Output})
	if err == nil && c.verify != nil {
		var duration time.Duration
		duration, err = c.verify(ctx, pair.Output)
		if err != nil {
			err = fmt.Errorf("verify output: %w", err)
		}
		result.Duration = duration
	}
	result.Elapsed = c.now().Sub(start)

	if err != nil {
		result.Status = StatusFailed
		result.Err = &EncodingError{Index: pair.Index, Video: pair.Video, Audio: pair.Audio, Err: err}
		logging.ErrorWithContext(pairLogger, "pair failed", "pair_failed",
			"check that both inputs are readable media files",
			logging.String("output", pair.Output),
			logging.Error(err),
		)
	} else {
		result.Status = StatusDone
		if info, statErr := os.Stat(pair.Output); statErr == nil {
			result.OutputBytes = info.Size()
		}
		pairLogger.Info("pair complete",
			logging.String("output", pair.Output),
			logging.Duration("elapsed", result.Elapsed),
			logging.Int64("bytes", result.OutputBytes),
		)
	}

	if c.observer != nil {
		c.observer.PairFinished(result, total)
	}
	return result
}

func secondsToDuration(seconds float64) time.Duration {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
