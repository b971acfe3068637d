package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/jakedibattista/Scout/internal/adapters/mq/queue"
	"github.com/jakedibattista/Scout/internal/domain/model"
	"github.com/jakedibattista/Scout/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// recordingRunner counts refresh executions per saved-search ID.
type recordingRunner struct {
	mu      sync.Mutex
	runs    map[string]int
	matches int
	err     error
}

func newRecordingRunner(matches int) *recordingRunner {
	return &recordingRunner{runs: make(map[string]int), matches: matches}
}

func (r *recordingRunner) RefreshSavedSearch(_ context.Context, saved queue.Job) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[saved.ID]++
	return r.matches, r.err
}

func (r *recordingRunner) runsFor(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs[id]
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestRefreshWorker(t *testing.T) {
	Convey("Given a refresh worker", t, func() {
		ctx := context.Background()

		Convey("When a job is enqueued", func() {
			q := queue.NewInMemoryQueue()
			runner := newRecordingRunner(3)
			w := NewRefreshWorker(q, runner)
			go w.Run(ctx)

			So(q.Enqueue(ctx, model.SavedSearch{ID: "ss-1", ScoutID: "scout-1", Query: "fast attackers", NotifyEmail: true}), ShouldBeTrue)

			Convey("Then the runner executes it", func() {
				waitFor(t, func() bool { return runner.runsFor("ss-1") == 1 })

				shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
				defer cancel()
				So(q.Close(), ShouldBeNil)
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})

		Convey("When the runner fails", func() {
			q := queue.NewInMemoryQueue()
			runner := newRecordingRunner(0)
			runner.err = errors.New("store unavailable")
			w := NewRefreshWorker(q, runner)
			go w.Run(ctx)

			So(q.Enqueue(ctx, model.SavedSearch{ID: "ss-err"}), ShouldBeTrue)

			Convey("Then the worker keeps draining later jobs", func() {
				waitFor(t, func() bool { return runner.runsFor("ss-err") == 1 })

				runner.mu.Lock()
				runner.err = nil
				runner.mu.Unlock()

				So(q.Enqueue(ctx, model.SavedSearch{ID: "ss-ok"}), ShouldBeTrue)
				waitFor(t, func() bool { return runner.runsFor("ss-ok") == 1 })

				shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
				defer cancel()
				So(q.Close(), ShouldBeNil)
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a refresh worker pool", t, func() {
		ctx := context.Background()

		Convey("When multiple jobs are enqueued", func() {
			q := queue.NewInMemoryQueue()
			runner := newRecordingRunner(1)
			pool := NewPool(3, q, runner)
			pool.Start(ctx)

			ids := []string{"ss-1", "ss-2", "ss-3", "ss-4", "ss-5"}
			for _, id := range ids {
				So(q.Enqueue(ctx, model.SavedSearch{ID: id}), ShouldBeTrue)
			}

			Convey("Then every job runs exactly once", func() {
				waitFor(t, func() bool {
					for _, id := range ids {
						if runner.runsFor(id) != 1 {
							return false
						}
					}
					return true
				})

				So(pool.Shutdown(ctx), ShouldBeNil)
			})
		})

		Convey("When the pool shuts down with queued jobs", func() {
			q := queue.NewInMemoryQueue()
			runner := newRecordingRunner(1)
			pool := NewPool(1, q, runner)
			pool.Start(ctx)

			So(q.Enqueue(ctx, model.SavedSearch{ID: "ss-drain"}), ShouldBeTrue)

			Convey("Then shutdown drains the queue first", func() {
				So(pool.Shutdown(ctx), ShouldBeNil)
				So(runner.runsFor("ss-drain"), ShouldEqual, 1)
			})
		})
	})
}
