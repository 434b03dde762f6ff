package batch

import (
	"context"
	"log/slog"

	"avmux/internal/config"
	"avmux/internal/history"
	"avmux/internal/logging"
)

// HistoryRecords converts a report into the rows stored by the history store.
func HistoryRecords(report Report, runErr error) (history.Run, []history.PairResult) {
	run := history.Run{
		ID:          report.RunID,
		StartedAt:   report.Started,
		FinishedAt:  report.Finished,
		Backend:     report.Backend,
		MovieDir:    report.MovieDir,
		SoundDir:    report.SoundDir,
		OutputDir:   report.OutputDir,
		PairCount:   report.Total(),
		DoneCount:   report.Done(),
		FailedCount: report.Failed(),
		Status:      history.StatusSucceeded,
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.ErrorKind = ErrorKind(runErr)
		run.ErrorMessage = runErr.Error()
	}

	pairs := make([]history.PairResult, 0, len(report.Results))
	for _, res := range report.Results {
		record := history.PairResult{
			RunID:           report.RunID,
			Index:           res.Pair.Index,
			VideoPath:       res.Pair.Video,
			AudioPath:       res.Pair.Audio,
			OutputPath:      res.Pair.Output,
			Status:          string(res.Status),
			Elapsed:         res.Elapsed,
			OutputBytes:     res.OutputBytes,
			DurationSeconds: res.Duration.Seconds(),
		}
		if res.Err != nil {
			record.ErrorMessage = res.Err.Error()
		}
		pairs = append(pairs, record)
	}
	return run, pairs
}

// recordHistory stores the report. History failures are logged and never
// change the outcome of the run.
func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, report Report, runErr error) {
	if !cfg.History.Enabled {
		return
	}
	if err := cfg.EnsureDirectories(); err != nil {
		logger.Warn("run history unavailable", logging.Error(err))
		return
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logger.Warn("run history unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the history database if its schema is outdated"),
		)
		return
	}
	defer store.Close()

	run, pairs := HistoryRecords(report, runErr)
	// Interrupted runs are still recorded.
	if err := store.RecordRun(context.WithoutCancel(ctx), run, pairs); err != nil {
		logger.Warn("failed to record run history", logging.Error(err))
		return
	}
	logger.Debug("run recorded", logging.String("history", store.Path()))
}
