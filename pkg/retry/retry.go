// Package retry wraps external service calls with a retry, backoff and
// timeout policy. It is a pure control-flow combinator: the only side
// effects are those of the wrapped operation.
package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// Default policy constants.
const (
	defaultMaxAttempts = 3
	defaultBackoffUnit = 800 * time.Millisecond
)

// transientSignatures are substrings that mark a failure as retryable.
// Anything else is terminal and fails fast.
var transientSignatures = []string{
	"connection reset",
	"connection refused",
	"socket hang up",
	"fetch failed",
	"no such host",
	"eai_again",
	"i/o timeout",
	"timeout",
	"503",
	"504",
}

// Retryable reports whether err looks like a transient fault.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range transientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// Do invokes op, retrying transient failures up to the configured attempt
// budget with a linear backoff of backoffUnit × attempt between attempts.
// Terminal failures and exhausted budgets surface as *ExternalServiceError.
func Do[T any](ctx context.Context, label string, op func(context.Context) (T, error), opts ...Option) (T, error) {
	var zero T

	p := policy{
		maxAttempts: defaultMaxAttempts,
		backoffUnit: defaultBackoffUnit,
	}
	for _, opt := range opts {
		opt(&p)
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !Retryable(err) || attempt == p.maxAttempts {
			return zero, &ExternalServiceError{Label: label, Err: err}
		}
		if p.onRetry != nil {
			p.onRetry(attempt)
		}
		if err := sleep(ctx, p.backoffUnit*time.Duration(attempt)); err != nil {
			return zero, &ExternalServiceError{Label: label, Err: err}
		}
	}
	return zero, &ExternalServiceError{Label: label, Err: lastErr}
}

// DoWithTimeout is Do with each attempt raced against a timer. On expiry
// the attempt fails with ErrTimeout; the in-flight operation is not
// cancelled, only abandoned, and its late result is discarded.
func DoWithTimeout[T any](ctx context.Context, label string, timeout time.Duration, op func(context.Context) (T, error), opts ...Option) (T, error) {
	return Do(ctx, label, func(ctx context.Context) (T, error) {
		return race(ctx, timeout, op)
	}, opts...)
}

type outcome[T any] struct {
	val T
	err error
}

func race[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	var zero T

	done := make(chan outcome[T], 1)
	go func() {
		v, err := op(ctx)
		done <- outcome[T]{val: v, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.val, out.err
	case <-timer.C:
		return zero, ErrTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
