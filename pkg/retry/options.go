package retry

import "time"

// policy holds the resolved retry configuration for one call.
type policy struct {
	maxAttempts int
	backoffUnit time.Duration
	onRetry     func(attempt int)
}

// Option applies a configuration option to the retry policy.
type Option func(*policy)

// WithMaxAttempts sets the total attempt budget, including the first call.
func WithMaxAttempts(n int) Option {
	return func(p *policy) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithBackoffUnit sets the backoff unit; the wait before retry N is unit × N.
func WithBackoffUnit(d time.Duration) Option {
	return func(p *policy) {
		if d > 0 {
			p.backoffUnit = d
		}
	}
}

// WithOnRetry installs a hook invoked before each retry, typically for
// metrics.
func WithOnRetry(fn func(attempt int)) Option {
	return func(p *policy) {
		p.onRetry = fn
	}
}
