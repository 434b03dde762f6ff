package batch

import (
	"context"
	"errors"
	"fmt"
)

// ErrBatchRunning is returned when another avmux run holds the state lock.
var ErrBatchRunning = errors.New("another avmux batch is already running")

// EncodingError reports a pair the media engine could not mux.
type EncodingError struct {
	Index int
	Video string
	Audio string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("pair %d (%s + %s): %v", e.Index, e.Video, e.Audio, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// ErrorKind classifies the failure for run history.
func (e *EncodingError) ErrorKind() string { return "encoding" }

// ErrorClassifier allows errors to declare their classification.
type ErrorClassifier interface {
	ErrorKind() string
}

// ErrorKind returns the classification of err: the kind declared by the first
// ErrorClassifier in its chain, "interrupted" for cancellation, "locked" when
// another run holds the lock, or "internal".
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	switch {
	case errors.Is(err, ErrBatchRunning):
		return "locked"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "interrupted"
	}
	return "internal"
}
