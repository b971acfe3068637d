// Package metrics provides Prometheus metrics for the scout search service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Search pipeline metrics.
	searchesTotal        prometheus.Counter
	searchDuration       prometheus.Histogram
	candidatesConsidered prometheus.Counter
	candidatesMatched    prometheus.Counter
	resultsReturned      prometheus.Histogram

	// Planner metrics.
	plannerCalls     prometheus.Counter
	plannerRetries   prometheus.Counter
	plannerFallbacks prometheus.Counter
	plannerLatency   prometheus.Histogram

	// Store metrics.
	storeQueryLatency prometheus.Histogram
	bundleFetchChunks prometheus.Counter

	// Saved search metrics.
	savedSearchCreates    prometheus.Counter
	savedSearchDuplicates prometheus.Counter

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics.
	errorsByComponent *prometheus.CounterVec

	// Saved-search refresh metrics.
	refreshQueueSize     prometheus.Gauge
	refreshEnqueues      prometheus.Counter
	refreshEnqueueErrors prometheus.Counter
	refreshDequeues      prometheus.Counter
	refreshRuns          prometheus.Counter
	refreshRunErrors     prometheus.Counter
	refreshLatency       prometheus.Histogram
	notificationsQueued  prometheus.Counter

	// Pool and system metrics.
	totalAthletes     prometheus.Gauge
	systemMemoryUsage prometheus.Gauge
	systemGoroutines  prometheus.Gauge
	systemGCPause     prometheus.Histogram
}

// Global manager backed by a custom registry so the default Go collectors
// do not leak into /healthz output.
var globalManager *Manager                    //nolint:gochecknoglobals // singleton metrics manager
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scout",
		subsystem:        "search",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.searchesTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "requests_total",
		Help:      "Total number of search requests processed.",
	})
	m.searchDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duration_ms",
		Help:      "End-to-end search pipeline duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.candidatesConsidered = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_considered_total",
		Help:      "Athletes evaluated by the filter pipeline.",
	})
	m.candidatesMatched = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_matched_total",
		Help:      "Athletes that passed every filter predicate.",
	})
	m.resultsReturned = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_returned",
		Help:      "Ranked results returned per search.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})

	m.plannerCalls = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "planner",
		Name:      "calls_total",
		Help:      "Calls issued to the query planning service.",
	})
	m.plannerRetries = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "planner",
		Name:      "retries_total",
		Help:      "Retried planning service calls.",
	})
	m.plannerFallbacks = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "planner",
		Name:      "fallbacks_total",
		Help:      "Searches that fell back to the default plan.",
	})
	m.plannerLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "planner",
		Name:      "latency_ms",
		Help:      "Planning service call latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.storeQueryLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "query_latency_ms",
		Help:      "Profile store query latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.bundleFetchChunks = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "bundle_fetch_chunks_total",
		Help:      "Batched drill bundle queries issued.",
	})

	m.savedSearchCreates = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "saved_search",
		Name:      "creates_total",
		Help:      "Saved searches created.",
	})
	m.savedSearchDuplicates = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "saved_search",
		Name:      "duplicates_total",
		Help:      "Saved search creates deduplicated by (scout, query).",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "errors",
		Name:      "by_component_total",
		Help:      "Errors by component and type.",
	}, []string{"component", "error_type"})

	m.refreshQueueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "queue_size",
		Help:      "Saved-search refresh jobs waiting in the queue.",
	})
	m.refreshEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "enqueues_total",
		Help:      "Saved-search refresh jobs enqueued.",
	})
	m.refreshEnqueueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "enqueue_errors_total",
		Help:      "Refresh jobs rejected at enqueue time.",
	})
	m.refreshDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "dequeues_total",
		Help:      "Saved-search refresh jobs handed to workers.",
	})
	m.refreshRuns = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "runs_total",
		Help:      "Saved-search refresh executions completed.",
	})
	m.refreshRunErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "run_errors_total",
		Help:      "Saved-search refresh executions that failed.",
	})
	m.refreshLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "latency_ms",
		Help:      "Saved-search refresh execution latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.notificationsQueued = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "notifications_queued_total",
		Help:      "Refreshes that produced matches for a notify-enabled search.",
	})

	m.totalAthletes = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "athletes",
		Help:      "Athletes in the profile store.",
	})
	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Allocated heap bytes.",
	})
	m.systemGoroutines = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Live goroutine count.",
	})
	m.systemGCPause = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_ms",
		Help:      "Average GC pause time in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
}

// Package-level helpers record against the global manager.

func RecordSearch()                      { globalManager.searchesTotal.Inc() }
func RecordSearchDuration(ms float64)    { globalManager.searchDuration.Observe(ms) }
func RecordCandidatesConsidered(n int)   { globalManager.candidatesConsidered.Add(float64(n)) }
func RecordCandidatesMatched(n int)      { globalManager.candidatesMatched.Add(float64(n)) }
func RecordResultsReturned(n int)        { globalManager.resultsReturned.Observe(float64(n)) }
func RecordPlannerCall()                 { globalManager.plannerCalls.Inc() }
func RecordPlannerRetry()                { globalManager.plannerRetries.Inc() }
func RecordPlannerFallback()             { globalManager.plannerFallbacks.Inc() }
func RecordPlannerLatency(ms float64)    { globalManager.plannerLatency.Observe(ms) }
func RecordStoreQueryLatency(ms float64) { globalManager.storeQueryLatency.Observe(ms) }
func RecordBundleFetchChunk()            { globalManager.bundleFetchChunks.Inc() }
func RecordSavedSearchCreate()           { globalManager.savedSearchCreates.Inc() }
func RecordSavedSearchDuplicate()        { globalManager.savedSearchDuplicates.Inc() }

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

func UpdateRefreshQueueSize(n int)    { globalManager.refreshQueueSize.Set(float64(n)) }
func RecordRefreshEnqueue()           { globalManager.refreshEnqueues.Inc() }
func RecordRefreshEnqueueError()      { globalManager.refreshEnqueueErrors.Inc() }
func RecordRefreshDequeue()           { globalManager.refreshDequeues.Inc() }
func RecordRefreshRun()               { globalManager.refreshRuns.Inc() }
func RecordRefreshRunError()          { globalManager.refreshRunErrors.Inc() }
func RecordRefreshLatency(ms float64) { globalManager.refreshLatency.Observe(ms) }
func RecordNotificationQueued()       { globalManager.notificationsQueued.Inc() }

func UpdateTotalAthletes(n int)            { globalManager.totalAthletes.Set(float64(n)) }
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(n int)     { globalManager.systemGoroutines.Set(float64(n)) }
func RecordSystemGCPauseTime(ms float64)   { globalManager.systemGCPause.Observe(ms) }

func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry exposes the custom registry for the /healthz handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
