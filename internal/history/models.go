package history

import "time"

// Run status values.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run summarizes one batch invocation.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	Backend      string
	MovieDir     string
	SoundDir     string
	OutputDir    string
	PairCount    int
	DoneCount    int
	FailedCount  int
	Status       string
	ErrorKind    string
	ErrorMessage string
}

// Elapsed returns the wall time of the run.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// PairResult is the stored outcome of one pair.
type PairResult struct {
	RunID           string
	Index           int
	VideoPath       string
	AudioPath       string
	OutputPath      string
	Status          string
	ErrorMessage    string
	Elapsed         time.Duration
	OutputBytes     int64
	DurationSeconds float64
}
