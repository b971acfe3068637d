package plan

import (
	"time"

	"github.com/jakedibattista/Scout/pkg/logger"
	"github.com/jakedibattista/Scout/pkg/retry"
)

// Option applies a configuration option to the Acquirer.
type Option func(*Acquirer)

// WithTimeout sets the per-attempt budget for planner calls.
func WithTimeout(d time.Duration) Option {
	return func(a *Acquirer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithRetryOptions overrides the retry policy for planner calls.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(a *Acquirer) {
		a.retryOpts = append(a.retryOpts, opts...)
	}
}

// WithLogger sets the logger for degraded-plan warnings.
func WithLogger(l logger.Logger) Option {
	return func(a *Acquirer) {
		if l != nil {
			a.logger = l
		}
	}
}
