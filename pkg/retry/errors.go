package retry

import "errors"

// ErrTimeout marks an attempt abandoned by the timeout race.
var ErrTimeout = errors.New("timeout")

// ExternalServiceError is the terminal failure surfaced by Do after a
// non-retryable error or an exhausted attempt budget.
type ExternalServiceError struct {
	Label string
	Err   error
}

func (e *ExternalServiceError) Error() string {
	return e.Label + " failed: " + e.Err.Error()
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
