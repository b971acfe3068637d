package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jakedibattista/Scout/internal/domain/model"
	"github.com/jakedibattista/Scout/pkg/metrics"
)

// savedSearchListCap bounds the saved-search listing.
const savedSearchListCap = 20

// MemStore is an in-memory Store implementation. All reads return copies;
// callers never observe later writes through a returned snapshot.
type MemStore struct {
	mu sync.RWMutex

	scouts   map[string]model.ScoutProfile // keyed by username
	athletes map[string]model.AthleteRecord

	// Latest bundle per athlete per drill kind; superseded bundles are
	// discarded on write, not merged.
	bundles map[string]map[model.DrillKind]model.DrillMetricBundle

	saved        map[string]model.SavedSearch // keyed by id
	savedByScout map[string][]string          // scoutID -> ids, insertion order

	now func() time.Time
}

// NewMemStore creates an empty in-memory profile store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		scouts:       make(map[string]model.ScoutProfile),
		athletes:     make(map[string]model.AthleteRecord),
		bundles:      make(map[string]map[model.DrillKind]model.DrillMetricBundle),
		saved:        make(map[string]model.SavedSearch),
		savedByScout: make(map[string][]string),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutScout inserts or replaces a scout profile.
func (s *MemStore) PutScout(_ context.Context, scout model.ScoutProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scouts[scout.Username] = scout
	return nil
}

// ScoutByUsername returns the scout with the given username.
func (s *MemStore) ScoutByUsername(_ context.Context, username string) (model.ScoutProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scout, ok := s.scouts[username]
	if !ok {
		return model.ScoutProfile{}, ErrScoutNotFound
	}
	return scout, nil
}

// ScoutByID returns the scout with the given user ID.
func (s *MemStore) ScoutByID(_ context.Context, userID string) (model.ScoutProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, scout := range s.scouts {
		if scout.UserID == userID {
			return scout, nil
		}
	}
	return model.ScoutProfile{}, ErrScoutNotFound
}

// PutAthlete inserts or replaces an athlete record.
func (s *MemStore) PutAthlete(_ context.Context, athlete model.AthleteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.athletes[athlete.ID] = athlete
	return nil
}

// AthletesBySport returns athletes for a sport; empty sport means all.
// Results are ordered by ID so pool iteration is deterministic.
func (s *MemStore) AthletesBySport(_ context.Context, sport string) ([]model.AthleteRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.AthleteRecord, 0, len(s.athletes))
	for _, a := range s.athletes {
		if sport == "" || strings.EqualFold(a.Sport, sport) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AthletesByIDs returns athletes for up to MaxIDBatch identifiers.
func (s *MemStore) AthletesByIDs(_ context.Context, ids []string) ([]model.AthleteRecord, error) {
	if len(ids) > MaxIDBatch {
		return nil, ErrBatchTooLarge
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.AthleteRecord, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.athletes[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// RecordBundle stores a drill bundle, keeping only the most recent per
// athlete and drill kind.
func (s *MemStore) RecordBundle(_ context.Context, bundle model.DrillMetricBundle) error {
	if bundle.AthleteID == "" {
		return ErrMissingAthleteID
	}
	if bundle.RecordedAt.IsZero() {
		bundle.RecordedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byKind, ok := s.bundles[bundle.AthleteID]
	if !ok {
		byKind = make(map[model.DrillKind]model.DrillMetricBundle)
		s.bundles[bundle.AthleteID] = byKind
	}
	if existing, ok := byKind[bundle.Drill]; ok && existing.RecordedAt.After(bundle.RecordedAt) {
		// An older analysis run arriving late never supersedes.
		return nil
	}
	byKind[bundle.Drill] = bundle
	return nil
}

// LatestBundles returns the most recent bundle per drill kind for one
// athlete.
func (s *MemStore) LatestBundles(_ context.Context, athleteID string) (map[model.DrillKind]*model.DrillMetricBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[model.DrillKind]*model.DrillMetricBundle)
	for kind, b := range s.bundles[athleteID] {
		copied := b
		out[kind] = &copied
	}
	return out, nil
}

// CreateSavedSearch stores a saved search, deduplicated by exact
// (scoutID, query).
func (s *MemStore) CreateSavedSearch(_ context.Context, search model.SavedSearch) (model.SavedSearch, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.savedByScout[search.ScoutID] {
		if existing := s.saved[id]; existing.Query == search.Query {
			metrics.RecordSavedSearchDuplicate()
			return existing, true, nil
		}
	}

	if search.ID == "" {
		search.ID = uuid.NewString()
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = s.now()
	}
	s.saved[search.ID] = search
	s.savedByScout[search.ScoutID] = append(s.savedByScout[search.ScoutID], search.ID)
	metrics.RecordSavedSearchCreate()
	return search, false, nil
}

// ListSavedSearches returns a scout's saved searches, newest first,
// capped at 20. Entries without query text are filtered out.
func (s *MemStore) ListSavedSearches(_ context.Context, scoutID string) ([]model.SavedSearch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.savedByScout[scoutID]
	out := make([]model.SavedSearch, 0, len(ids))
	for _, id := range ids {
		search := s.saved[id]
		if search.Query == "" {
			continue
		}
		out = append(out, search)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > savedSearchListCap {
		out = out[:savedSearchListCap]
	}
	return out, nil
}

// AllSavedSearches returns every saved search across scouts, oldest first.
// The refresh scheduler iterates this.
func (s *MemStore) AllSavedSearches(_ context.Context) ([]model.SavedSearch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SavedSearch, 0, len(s.saved))
	for _, search := range s.saved {
		out = append(out, search)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// DeleteSavedSearch removes a saved search by id.
func (s *MemStore) DeleteSavedSearch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	search, ok := s.saved[id]
	if !ok {
		return ErrSavedSearchNotFound
	}
	delete(s.saved, id)

	ids := s.savedByScout[search.ScoutID]
	for i, candidate := range ids {
		if candidate == id {
			s.savedByScout[search.ScoutID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// CountAthletes returns the number of athletes in the pool.
func (s *MemStore) CountAthletes(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.athletes)
}
