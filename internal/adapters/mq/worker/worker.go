// Package worker runs saved-search refreshes in the background. Workers
// drain the refresh queue, re-run each stored search through the service
// and flag notify-enabled searches that still produce matches.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jakedibattista/Scout/internal/adapters/mq/queue"
	"github.com/jakedibattista/Scout/pkg/logger"
	"github.com/jakedibattista/Scout/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 2
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Runner re-executes one stored search and reports its match count.
type Runner interface {
	RefreshSavedSearch(ctx context.Context, saved queue.Job) (int, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes refresh jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// RefreshWorker implements Worker for saved-search refresh jobs.
type RefreshWorker struct {
	queue  Queue
	runner Runner
	name   string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewRefreshWorker creates a new worker with configuration options.
func NewRefreshWorker(q Queue, runner Runner, opts ...Option) *RefreshWorker {
	w := &RefreshWorker{
		queue:    q,
		runner:   runner,
		name:     "refresh-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("refresh-worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop.
func (w *RefreshWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "refresh failed", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *RefreshWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob re-runs a single saved search.
func (w *RefreshWorker) processJob(ctx context.Context, job queue.Job) error {
	start := time.Now()
	matches, err := w.runner.RefreshSavedSearch(ctx, job)
	metrics.RecordRefreshLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordRefreshRunError()
		metrics.RecordErrorByComponent("refresh_worker", "run_failed")
		return fmt.Errorf("refresh saved search %s: %w", job.ID, err)
	}
	metrics.RecordRefreshRun()

	if job.NotifyEmail && matches > 0 {
		// Delivery is external; this side only flags the hit.
		metrics.RecordNotificationQueued()
		w.logger.Info(ctx, "saved search has matches; notification queued",
			logger.String("savedSearchID", job.ID),
			logger.String("scoutID", job.ScoutID),
			logger.Int("matches", matches),
		)
	}
	return nil
}

// Pool manages multiple refresh workers.
type Pool struct {
	workers []*RefreshWorker
	queue   Queue
	runner  Runner

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, runner Runner) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers: make([]*RefreshWorker, workerCount),
		queue:   q,
		runner:  runner,
		logger:  logger.Get().Named("refresh-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewRefreshWorker(q, runner, WithName("refresh-worker-"+strconv.Itoa(i)))
	}
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers without touching the queue.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		_ = w.Shutdown(ctx)
		cancel()
	}
}

// Shutdown closes the queue and waits for all workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
