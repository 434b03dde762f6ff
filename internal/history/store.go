package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned by GetRun when no run matches.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRunID is returned by GetRun when a prefix matches several runs.
var ErrAmbiguousRunID = errors.New("run id prefix is ambiguous")

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// RecordRun stores run and its pair results in one transaction. Recording
// the same run id twice replaces the earlier rows.
func (s *Store) RecordRun(ctx context.Context, run Run, pairs []PairResult) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("record run: empty run id")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, run.ID); err != nil {
		return fmt.Errorf("clear run: %w", err)
	}
	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO runs (
            id, started_at, finished_at, backend, movie_dir, sound_dir, output_dir,
            pair_count, done_count, failed_count, status, error_kind, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		run.Backend,
		run.MovieDir,
		run.SoundDir,
		run.OutputDir,
		run.PairCount,
		run.DoneCount,
		run.FailedCount,
		run.Status,
		nullableString(run.ErrorKind),
		nullableString(run.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, pair := range pairs {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO pair_results (
                run_id, pair_index, video_path, audio_path, output_path,
                status, error_message, elapsed_ms, output_bytes, duration_seconds
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			pair.Index,
			pair.VideoPath,
			pair.AudioPath,
			pair.OutputPath,
			pair.Status,
			nullableString(pair.ErrorMessage),
			pair.Elapsed.Milliseconds(),
			pair.OutputBytes,
			pair.DurationSeconds,
		)
		if err != nil {
			return fmt.Errorf("insert pair %d: %w", pair.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, backend, movie_dir, sound_dir, output_dir,
    pair_count, done_count, failed_count, status, error_kind, error_message`

// RecentRuns returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the run whose id equals or starts with idOrPrefix.
func (s *Store) GetRun(ctx context.Context, idOrPrefix string) (Run, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return Run{}, ErrRunNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR substr(id, 1, ?) = ? ORDER BY id LIMIT 2`,
		idOrPrefix, len(idOrPrefix), idOrPrefix,
	)
	if err != nil {
		return Run{}, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate run: %w", err)
	}
	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		if matches[0].ID == idOrPrefix {
			return matches[0], nil
		}
		return Run{}, fmt.Errorf("%w: %s", ErrAmbiguousRunID, idOrPrefix)
	}
}

// RunResults returns the pair results stored for runID in pair order.
func (s *Store) RunResults(ctx context.Context, runID string) ([]PairResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, pair_index, video_path, audio_path, output_path, status,
            error_message, elapsed_ms, output_bytes, duration_seconds
        FROM pair_results WHERE run_id = ? ORDER BY pair_index`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query pair results: %w", err)
	}
	defer rows.Close()

	var results []PairResult
	for rows.Next() {
		var (
			result    PairResult
			errMsg    sql.NullString
			elapsedMS int64
		)
		if err := rows.Scan(
			&result.RunID,
			&result.Index,
			&result.VideoPath,
			&result.AudioPath,
			&result.OutputPath,
			&result.Status,
			&errMsg,
			&elapsedMS,
			&result.OutputBytes,
			&result.DurationSeconds,
		); err != nil {
			return nil, fmt.Errorf("scan pair result: %w", err)
		}
		result.ErrorMessage = errMsg.String
		result.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pair results: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run               Run
		started, finished string
		errKind, errMsg   sql.NullString
	)
	if err := row.Scan(
		&run.ID,
		&started,
		&finished,
		&run.Backend,
		&run.MovieDir,
		&run.SoundDir,
		&run.OutputDir,
		&run.PairCount,
		&run.DoneCount,
		&run.FailedCount,
		&run.Status,
		&errKind,
		&errMsg,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	run.ErrorKind = errKind.String
	run.ErrorMessage = errMsg.String
	return run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
