// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	repository "github.com/jakedibattista/Scout/internal/adapters/repository"
	"github.com/jakedibattista/Scout/internal/domain/filter"
	"github.com/jakedibattista/Scout/internal/domain/model"
	"github.com/jakedibattista/Scout/internal/domain/plan"
	"github.com/jakedibattista/Scout/internal/domain/scoring"
	"github.com/jakedibattista/Scout/pkg/logger"
	"github.com/jakedibattista/Scout/pkg/metrics"
)

// Default pipeline configuration.
const (
	defaultFetchBatchSize = repository.MaxIDBatch
	defaultMaxResults     = 50
)

// SearchResult is the full outcome of one search: the plan that drove it,
// the merged filters, and the ranked rows.
type SearchResult struct {
	Plan       model.QueryPlan
	Filters    model.EffectiveFilters
	Results    []model.RankedResult
	Considered int
	Matched    int
}

// Service implements the API dependencies for the scout search system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	planner *plan.Acquirer

	// Configuration
	fetchBatchSize int
	maxResults     int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		fetchBatchSize: defaultFetchBatchSize,
		maxResults:     defaultMaxResults,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		s.store = repository.NewMemStore()
		s.logger.Info(ctx, "using in-memory profile store")
	}
	if s.planner == nil {
		// Plan acquisition degrades to the default plan when no planner
		// client is configured.
		s.planner = plan.New(nil, plan.WithLogger(s.logger))
	}

	s.started = true
	s.logger.Info(ctx, "scout search service started",
		logger.Int("fetchBatchSize", s.fetchBatchSize),
		logger.Int("maxResults", s.maxResults),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "scout search service stopped")
}

// Search runs the full pipeline for one scout query: plan acquisition,
// filter merge, candidate filtering, metric extraction, scoring, ranking.
func (s *Service) Search(ctx context.Context, scoutUsername, query string) (*SearchResult, error) {
	start := time.Now()

	scout, err := s.store.ScoutByUsername(ctx, scoutUsername)
	if err != nil {
		return nil, fmt.Errorf("look up scout %q: %w", scoutUsername, err)
	}

	p := s.planner.Acquire(ctx, scout.Preferences, query)
	eff := filter.Merge(scout.Preferences, p.Filters)

	// The store records its own query latency.
	pool, err := s.store.AthletesBySport(ctx, eff.Sport)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "pool_load_failed")
		return nil, fmt.Errorf("load athlete pool: %w", err)
	}
	metrics.RecordCandidatesConsidered(len(pool))

	matched := filter.Apply(pool, eff)
	metrics.RecordCandidatesMatched(len(matched))

	scored, err := s.scoreCandidates(ctx, matched)
	if err != nil {
		return nil, err
	}

	results := scoring.Assemble(scored, p.Sort.By)
	if len(results) > s.maxResults {
		results = results[:s.maxResults]
	}

	metrics.RecordSearch()
	metrics.RecordResultsReturned(len(results))
	metrics.RecordSearchDuration(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "search completed",
		logger.String("scout", scoutUsername),
		logger.String("intent", string(p.Intent)),
		logger.Int("considered", len(pool)),
		logger.Int("matched", len(matched)),
		logger.Int("returned", len(results)),
	)

	return &SearchResult{
		Plan:       p,
		Filters:    eff,
		Results:    results,
		Considered: len(pool),
		Matched:    len(matched),
	}, nil
}

// scoreCandidates re-fetches the matched records in bounded ID chunks and
// attaches each athlete's latest drill bundles. Chunks run sequentially,
// never fanned out.
func (s *Service) scoreCandidates(ctx context.Context, matched []model.AthleteRecord) ([]scoring.Scored, error) {
	ids := make([]string, len(matched))
	for i, a := range matched {
		ids[i] = a.ID
	}

	scored := make([]scoring.Scored, 0, len(matched))
	for start := 0; start < len(ids); start += s.fetchBatchSize {
		end := start + s.fetchBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		metrics.RecordBundleFetchChunk()
		athletes, err := s.store.AthletesByIDs(ctx, ids[start:end])
		if err != nil {
			metrics.RecordErrorByComponent("repository", "batch_fetch_failed")
			return nil, fmt.Errorf("fetch candidate batch: %w", err)
		}

		for _, a := range athletes {
			bundles, err := s.store.LatestBundles(ctx, a.ID)
			if err != nil {
				metrics.RecordErrorByComponent("repository", "bundle_fetch_failed")
				return nil, fmt.Errorf("fetch drill bundles for %s: %w", a.ID, err)
			}
			scored = append(scored, scoring.Score(a, bundles))
		}
	}
	return scored, nil
}

// SaveSearch stores a search for later re-use, deduplicated per scout by
// the exact query text.
func (s *Service) SaveSearch(ctx context.Context, scoutUsername, query string, notifyEmail bool) (model.SavedSearch, bool, error) {
	scout, err := s.store.ScoutByUsername(ctx, scoutUsername)
	if err != nil {
		return model.SavedSearch{}, false, fmt.Errorf("look up scout %q: %w", scoutUsername, err)
	}

	p := s.planner.Acquire(ctx, scout.Preferences, query)
	eff := filter.Merge(scout.Preferences, p.Filters)

	saved, existed, err := s.store.CreateSavedSearch(ctx, model.SavedSearch{
		ScoutID:       scout.UserID,
		Query:         query,
		ParsedFilters: eff,
		NotifyEmail:   notifyEmail,
	})
	if err != nil {
		return model.SavedSearch{}, false, fmt.Errorf("save search: %w", err)
	}
	return saved, existed, nil
}

// RefreshSavedSearch re-runs a stored search and reports its match count.
// The refresh workers call this off the request path.
func (s *Service) RefreshSavedSearch(ctx context.Context, saved model.SavedSearch) (int, error) {
	scout, err := s.store.ScoutByID(ctx, saved.ScoutID)
	if err != nil {
		return 0, fmt.Errorf("look up scout %q: %w", saved.ScoutID, err)
	}
	res, err := s.Search(ctx, scout.Username, saved.Query)
	if err != nil {
		return 0, err
	}
	return len(res.Results), nil
}

// SavedSearchesForRefresh returns every saved search, oldest first, for
// the refresh scheduler.
func (s *Service) SavedSearchesForRefresh(ctx context.Context) ([]model.SavedSearch, error) {
	return s.store.AllSavedSearches(ctx)
}

// ListSavedSearches returns a scout's saved searches, newest first.
func (s *Service) ListSavedSearches(ctx context.Context, scoutUsername string) ([]model.SavedSearch, error) {
	scout, err := s.store.ScoutByUsername(ctx, scoutUsername)
	if err != nil {
		return nil, fmt.Errorf("look up scout %q: %w", scoutUsername, err)
	}
	return s.store.ListSavedSearches(ctx, scout.UserID)
}

// DeleteSavedSearch removes a saved search by id.
func (s *Service) DeleteSavedSearch(ctx context.Context, id string) error {
	return s.store.DeleteSavedSearch(ctx, id)
}

// Store exposes the underlying profile store for seeding.
func (s *Service) Store() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"fetchBatchSize": s.fetchBatchSize,
		"maxResults":     s.maxResults,
	}
	if s.started {
		stats["totalAthletes"] = s.store.CountAthletes(context.Background())
	}
	return stats
}
