package batch

import (
	"errors"
	"time"

	"avmux/internal/pairing"
)

// Status is the outcome of one pair.
type Status string

const (
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// PairResult records what happened to one pair.
type PairResult struct {
	Pair        pairing.Pair
	Status      Status
	Err         error
	Elapsed     time.Duration
	OutputBytes int64
	// Duration is the probed output duration; zero unless verification ran.
	Duration time.Duration
}

// Report summarizes a batch.
type Report struct {
	RunID     string
	Started   time.Time
	Finished  time.Time
	Backend   string
	MovieDir  string
	SoundDir  string
	OutputDir string
	Results   []PairResult
}

// Done returns the number of pairs written successfully.
func (r Report) Done() int { return r.count(StatusDone) }

// Failed returns the number of pairs that were attempted and failed.
func (r Report) Failed() int { return r.count(StatusFailed) }

// Skipped returns the number of pairs that were never attempted.
func (r Report) Skipped() int { return r.count(StatusSkipped) }

// Total returns the number of planned pairs.
func (r Report) Total() int { return len(r.Results) }

// Elapsed returns the wall time of the batch.
func (r Report) Elapsed() time.Duration {
	if r.Finished.Before(r.Started) {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Err joins the errors of every failed pair, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Status == StatusFailed && res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

func (r Report) count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}
