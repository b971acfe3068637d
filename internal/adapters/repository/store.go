// Package repository defines the profile store interface and errors.
package repository

import (
	"context"

	"github.com/jakedibattista/Scout/internal/domain/model"
)

// MaxIDBatch is the largest identifier batch a single athlete query may
// carry. Callers fetching more chunk their requests.
const MaxIDBatch = 10

// Store provides read/write access to scout, athlete, drill-bundle and
// saved-search records.
type Store interface {
	// PutScout inserts or replaces a scout profile.
	PutScout(ctx context.Context, scout model.ScoutProfile) error

	// ScoutByUsername returns the scout with the given username.
	// Returns ErrScoutNotFound if the scout is unknown.
	ScoutByUsername(ctx context.Context, username string) (model.ScoutProfile, error)

	// ScoutByID returns the scout with the given user ID.
	// Returns ErrScoutNotFound if the scout is unknown.
	ScoutByID(ctx context.Context, userID string) (model.ScoutProfile, error)

	// PutAthlete inserts or replaces an athlete record.
	PutAthlete(ctx context.Context, athlete model.AthleteRecord) error

	// AthletesBySport returns athletes for a sport (case-insensitive).
	// An empty sport returns the whole pool.
	AthletesBySport(ctx context.Context, sport string) ([]model.AthleteRecord, error)

	// AthletesByIDs returns athletes for up to MaxIDBatch identifiers.
	// Returns ErrBatchTooLarge for oversized batches; unknown IDs are
	// skipped, not errors.
	AthletesByIDs(ctx context.Context, ids []string) ([]model.AthleteRecord, error)

	// RecordBundle stores a drill metric bundle. A newer bundle for the
	// same athlete and drill kind supersedes the older one.
	RecordBundle(ctx context.Context, bundle model.DrillMetricBundle) error

	// LatestBundles returns the most recent bundle per drill kind for one
	// athlete. Athletes with no bundles get an empty map.
	LatestBundles(ctx context.Context, athleteID string) (map[model.DrillKind]*model.DrillMetricBundle, error)

	// CreateSavedSearch stores a saved search, deduplicated by exact
	// (scoutID, query). Returns the stored record and whether it already
	// existed.
	CreateSavedSearch(ctx context.Context, search model.SavedSearch) (model.SavedSearch, bool, error)

	// ListSavedSearches returns a scout's saved searches, newest first,
	// capped at 20.
	ListSavedSearches(ctx context.Context, scoutID string) ([]model.SavedSearch, error)

	// AllSavedSearches returns every saved search across scouts, oldest
	// first.
	AllSavedSearches(ctx context.Context) ([]model.SavedSearch, error)

	// DeleteSavedSearch removes a saved search by id.
	// Returns ErrSavedSearchNotFound if the id is unknown.
	DeleteSavedSearch(ctx context.Context, id string) error

	// CountAthletes returns the number of athletes in the pool.
	CountAthletes(ctx context.Context) int
}
