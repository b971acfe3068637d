package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jakedibattista/Scout/internal/adapters/http/api"
	"github.com/jakedibattista/Scout/internal/adapters/http/swagger"
	"github.com/jakedibattista/Scout/internal/adapters/mq/queue"
	"github.com/jakedibattista/Scout/internal/adapters/mq/worker"
	"github.com/jakedibattista/Scout/internal/adapters/planner"
	app "github.com/jakedibattista/Scout/internal/app"
	"github.com/jakedibattista/Scout/internal/config"
	"github.com/jakedibattista/Scout/internal/domain/model"
	"github.com/jakedibattista/Scout/internal/domain/plan"
	"github.com/jakedibattista/Scout/pkg/logger"
	"github.com/jakedibattista/Scout/pkg/metrics"
	"github.com/jakedibattista/Scout/pkg/retry"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logging: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Planner client and plan acquirer.
	plannerClient := planner.NewHTTPClient(cfg.PlannerURL,
		planner.WithModel(cfg.PlannerModel),
		planner.WithRateLimit(cfg.PlannerRateLimitPerS),
	)
	acquirer := plan.New(plannerClient,
		plan.WithTimeout(time.Duration(cfg.PlannerTimeoutMS)*time.Millisecond),
		plan.WithRetryOptions(
			retry.WithMaxAttempts(cfg.RetryAttempts),
			retry.WithBackoffUnit(time.Duration(cfg.RetryBackoffMS)*time.Millisecond),
		),
		plan.WithLogger(loggerInstance.Named("planner")),
	)

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithPlanner(acquirer),
		app.WithFetchBatchSize(cfg.FetchBatchSize),
		app.WithMaxResults(cfg.MaxResults),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	if cfg.SeedFile != "" {
		if err := seedStore(ctx, svc, cfg.SeedFile); err != nil {
			loggerInstance.Error(ctx, "seeding failed", logger.String("file", cfg.SeedFile), logger.Error(err))
			return
		}
	}

	// Saved-search refresh subsystem: a scheduler feeds the queue, a small
	// worker pool re-runs stored searches off the request path.
	refreshQueue := queue.NewInMemoryQueue(queue.WithCapacity(cfg.RefreshQueueCapacity))
	refreshPool := worker.NewPool(cfg.RefreshWorkers, refreshQueue, svc)
	refreshPool.Start(ctx)
	go startRefreshScheduler(ctx, svc, refreshQueue, time.Duration(cfg.RefreshIntervalS)*time.Second)

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register API docs under /api-docs
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := refreshPool.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "refresh pool shutdown failed", logger.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// seedFixture is the JSON shape of a seed file.
type seedFixture struct {
	Scouts   []model.ScoutProfile      `json:"scouts"`
	Athletes []model.AthleteRecord     `json:"athletes"`
	Bundles  []model.DrillMetricBundle `json:"bundles"`
}

// seedStore loads scouts, athletes and drill bundles from a JSON fixture.
func seedStore(ctx context.Context, svc *app.Service, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fixture seedFixture
	if err := json.Unmarshal(raw, &fixture); err != nil {
		return err
	}

	store := svc.Store()
	for _, scout := range fixture.Scouts {
		if err := store.PutScout(ctx, scout); err != nil {
			return err
		}
	}
	for _, athlete := range fixture.Athletes {
		if err := store.PutAthlete(ctx, athlete); err != nil {
			return err
		}
	}
	for _, bundle := range fixture.Bundles {
		if err := store.RecordBundle(ctx, bundle); err != nil {
			return err
		}
	}

	logger.Get().Info(ctx, "store seeded",
		logger.String("file", path),
		logger.Int("scouts", len(fixture.Scouts)),
		logger.Int("athletes", len(fixture.Athletes)),
		logger.Int("bundles", len(fixture.Bundles)),
	)
	return nil
}

// startRefreshScheduler periodically enqueues every saved search for a
// background re-run.
func startRefreshScheduler(ctx context.Context, svc *app.Service, q queue.Queue, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			searches, err := svc.SavedSearchesForRefresh(ctx)
			if err != nil {
				logger.Get().Error(ctx, "listing saved searches for refresh failed", logger.Error(err))
				continue
			}
			for _, s := range searches {
				if !q.Enqueue(ctx, s) {
					logger.Get().Warn(ctx, "refresh queue full; skipping cycle remainder")
					break
				}
			}
		}
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if totalAthletes, ok := stats["totalAthletes"].(int); ok {
		metrics.UpdateTotalAthletes(totalAthletes)
	}
}
