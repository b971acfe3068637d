// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New(ctx) to build a Config with defaults, Load(ctx) to layer
//     file and environment overrides on top.
//   - External errors must be wrapped via this package's sentinels.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// PlannerURL is the base URL of the external query planning service.
	PlannerURL string `koanf:"planner_url"`

	// PlannerModel names the planning model requested per call.
	PlannerModel string `koanf:"planner_model"`

	// PlannerTimeoutMS bounds a single plan acquisition end to end.
	PlannerTimeoutMS int `koanf:"planner_timeout_ms"`

	// PlannerRateLimitPerS caps outgoing planner calls per second.
	PlannerRateLimitPerS float64 `koanf:"planner_rate_limit_per_s"`

	// RetryAttempts and RetryBackoffMS govern retries against the planner.
	RetryAttempts  int `koanf:"retry_attempts"`
	RetryBackoffMS int `koanf:"retry_backoff_ms"`

	// FetchBatchSize caps athlete IDs per drill metric fetch.
	FetchBatchSize int `koanf:"fetch_batch_size"`

	// MaxResults caps the ranked results returned per search.
	MaxResults int `koanf:"max_results"`

	// SeedFile optionally points at a JSON fixture loaded into the store
	// at startup.
	SeedFile string `koanf:"seed_file"`

	// Saved-search refresh scheduling.
	RefreshIntervalS     int `koanf:"refresh_interval_s"`
	RefreshWorkers       int `koanf:"refresh_workers"`
	RefreshQueueCapacity int `koanf:"refresh_queue_capacity"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		PlannerURL:           "http://localhost:9081",
		PlannerModel:         "scout-query-v1",
		PlannerTimeoutMS:     25_000,
		PlannerRateLimitPerS: 5,
		RetryAttempts:        3,
		RetryBackoffMS:       800,
		FetchBatchSize:       10,
		MaxResults:           50,
		RefreshIntervalS:     300,
		RefreshWorkers:       2,
		RefreshQueueCapacity: 1024,
	}
}
