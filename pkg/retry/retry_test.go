package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jakedibattista/Scout/pkg/retry"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRetryable(t *testing.T) {
	Convey("Given the transient fault classifier", t, func() {
		Convey("Then transient signatures are retryable", func() {
			for _, msg := range []string{
				"read tcp: connection reset by peer",
				"dial tcp: connection refused",
				"socket hang up",
				"fetch failed",
				"lookup planner: no such host",
				"EAI_AGAIN planner.internal",
				"request timeout exceeded",
				"upstream returned 503",
				"upstream returned 504",
			} {
				So(retry.Retryable(errors.New(msg)), ShouldBeTrue)
			}
		})

		Convey("Then other failures are terminal", func() {
			So(retry.Retryable(errors.New("invalid request payload")), ShouldBeFalse)
			So(retry.Retryable(errors.New("401 unauthorized")), ShouldBeFalse)
			So(retry.Retryable(nil), ShouldBeFalse)
		})
	})
}

func TestDo(t *testing.T) {
	Convey("Given a retried operation", t, func() {
		ctx := context.Background()
		fastBackoff := retry.WithBackoffUnit(time.Millisecond)

		Convey("When the operation succeeds first try", func() {
			calls := 0
			out, err := retry.Do(ctx, "planner", func(context.Context) (string, error) {
				calls++
				return "ok", nil
			}, fastBackoff)

			So(err, ShouldBeNil)
			So(out, ShouldEqual, "ok")
			So(calls, ShouldEqual, 1)
		})

		Convey("When the operation fails transiently then succeeds", func() {
			calls := 0
			retries := 0
			out, err := retry.Do(ctx, "planner", func(context.Context) (int, error) {
				calls++
				if calls < 3 {
					return 0, errors.New("connection reset by peer")
				}
				return 42, nil
			}, fastBackoff, retry.WithOnRetry(func(int) { retries++ }))

			So(err, ShouldBeNil)
			So(out, ShouldEqual, 42)
			So(calls, ShouldEqual, 3)
			So(retries, ShouldEqual, 2)
		})

		Convey("When every attempt fails transiently", func() {
			calls := 0
			_, err := retry.Do(ctx, "planner", func(context.Context) (int, error) {
				calls++
				return 0, errors.New("timeout")
			}, fastBackoff)

			So(err, ShouldNotBeNil)
			So(calls, ShouldEqual, 3)
			var ese *retry.ExternalServiceError
			So(errors.As(err, &ese), ShouldBeTrue)
			So(ese.Label, ShouldEqual, "planner")
		})

		Convey("When the failure is terminal there is no retry", func() {
			calls := 0
			_, err := retry.Do(ctx, "planner", func(context.Context) (int, error) {
				calls++
				return 0, errors.New("malformed request")
			}, fastBackoff)

			So(err, ShouldNotBeNil)
			So(calls, ShouldEqual, 1)
		})

		Convey("When the context is cancelled during backoff", func() {
			cancelCtx, cancel := context.WithCancel(ctx)
			calls := 0
			go func() {
				time.Sleep(5 * time.Millisecond)
				cancel()
			}()
			_, err := retry.Do(cancelCtx, "planner", func(context.Context) (int, error) {
				calls++
				return 0, errors.New("connection refused")
			}, retry.WithBackoffUnit(time.Second))

			So(err, ShouldNotBeNil)
			So(calls, ShouldEqual, 1)
		})
	})
}

func TestDoWithTimeout(t *testing.T) {
	Convey("Given a timeout budget", t, func() {
		ctx := context.Background()

		Convey("When the operation finishes in time", func() {
			out, err := retry.DoWithTimeout(ctx, "planner", 100*time.Millisecond, func(context.Context) (string, error) {
				return "plan", nil
			})
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "plan")
		})

		Convey("When the operation overruns the budget", func() {
			started := time.Now()
			_, err := retry.DoWithTimeout(ctx, "planner", 5*time.Millisecond, func(context.Context) (string, error) {
				time.Sleep(time.Second)
				return "late", nil
			}, retry.WithMaxAttempts(1))

			So(err, ShouldNotBeNil)
			So(errors.Is(err, retry.ErrTimeout), ShouldBeTrue)
			So(time.Since(started), ShouldBeLessThan, 500*time.Millisecond)
		})

		Convey("Then timeouts count as transient and retry", func() {
			calls := 0
			out, err := retry.DoWithTimeout(ctx, "planner", 5*time.Millisecond, func(context.Context) (string, error) {
				calls++
				if calls == 1 {
					time.Sleep(time.Second)
				}
				return "plan", nil
			}, retry.WithBackoffUnit(time.Millisecond))

			So(err, ShouldBeNil)
			So(out, ShouldEqual, "plan")
			So(calls, ShouldEqual, 2)
		})
	})
}
