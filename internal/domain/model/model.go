// Package model contains domain entities passed between layers.
package model

import "time"

// DrillKind identifies the drill a metric bundle was produced from.
type DrillKind string

// Supported drill kinds.
const (
	DrillWallBall DrillKind = "wall_ball"
	DrillDash20   DrillKind = "dash_20"
	DrillShuttle  DrillKind = "shuttle_5_10_5"
)

// Intent is the coarse goal the planner derived from the query text.
type Intent string

// Plan intents.
const (
	IntentSpeed    Intent = "speed"
	IntentWallBall Intent = "wall_ball"
	IntentGeneral  Intent = "general"
)

// SortBy names the ranking key for the final result order.
type SortBy string

// Ranking keys.
const (
	SortSpeedScore    SortBy = "speed_score"
	SortWallBallScore SortBy = "wall_ball_score"
	SortRelevance     SortBy = "relevance"
)

// SortDirection is the requested ordering direction.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ScoutPreferences are the standing recruiting criteria on a scout account.
// They are read-only to the search engine and merged into every query plan.
type ScoutPreferences struct {
	Sport               string   `json:"sport,omitempty"`
	RecruitingStates    []string `json:"recruitingStates,omitempty"`
	PositionFocus       []string `json:"positionFocus,omitempty"`
	GradYearsRecruiting []int    `json:"gradYearsRecruiting,omitempty"`
}

// ScoutProfile is a scout account record.
type ScoutProfile struct {
	UserID      string           `json:"userId"`
	Username    string           `json:"username"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Program     string           `json:"program,omitempty"`
	Level       string           `json:"level,omitempty"`
	Preferences ScoutPreferences `json:"preferences"`
}

// AthleteRecord is a read-only athlete snapshot from the profile store.
// GPA stays a string: profile forms accept free text like "3.8 (weighted)",
// and the filter pipeline parses it on demand.
type AthleteRecord struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Name           string   `json:"name"`
	State          string   `json:"state"`
	RelocateStates []string `json:"relocateStates,omitempty"`
	Sport          string   `json:"sport"`
	Position       string   `json:"position"`
	GradYear       int      `json:"gradYear"`
	GPA            string   `json:"gpa,omitempty"`
	Goal           string   `json:"goal,omitempty"`
	HighSchoolTeam string   `json:"highSchoolTeam,omitempty"`
	ClubTeam       string   `json:"clubTeam,omitempty"`
	CurrentOffers  []string `json:"currentOffers,omitempty"`
}

// DrillMetricBundle is the loosely typed output of one drill analysis run.
// Key names vary across analysis versions; extraction goes through the
// alias tables in the drill package.
type DrillMetricBundle struct {
	AthleteID  string         `json:"athleteId"`
	Drill      DrillKind      `json:"drill"`
	Metrics    map[string]any `json:"metrics"`
	RecordedAt time.Time      `json:"recordedAt"`
}

// PlanFilters is the partial filter set extracted from the query text.
// Min/max and floor fields are pointers so "absent" and "zero" stay
// distinguishable after JSON decoding.
type PlanFilters struct {
	Positions           []string `json:"positions,omitempty"`
	RecruitingStates    []string `json:"recruitingStates,omitempty"`
	GradYearsRecruiting []int    `json:"gradYearsRecruiting,omitempty"`
	GradYearMin         *int     `json:"gradYearMin,omitempty"`
	GradYearMax         *int     `json:"gradYearMax,omitempty"`
	GPAMin              *float64 `json:"gpaMin,omitempty"`
	Goal                string   `json:"goal,omitempty"`
	ClubTeam            string   `json:"clubTeam,omitempty"`
	CurrentOffers       []string `json:"currentOffers,omitempty"`
}

// PlanSort is the ranking directive of a query plan.
type PlanSort struct {
	By        SortBy        `json:"by"`
	Direction SortDirection `json:"direction"`
}

// QueryPlan is the structured directive derived from one free-text query.
// It exists for the duration of a single search call.
type QueryPlan struct {
	Intent  Intent      `json:"intent"`
	Filters PlanFilters `json:"filters"`
	Sort    PlanSort    `json:"sort"`
	Notes   string      `json:"notes,omitempty"`
}

// EffectiveFilters is the per-request merge of scout preferences and plan
// filters. Every field is either absent or non-empty and deduplicated.
type EffectiveFilters struct {
	Sport            string   `json:"sport,omitempty"`
	Positions        []string `json:"positions,omitempty"`
	RecruitingStates []string `json:"recruitingStates,omitempty"`
	GradYears        []int    `json:"gradYears,omitempty"`
	GradYearMin      *int     `json:"gradYearMin,omitempty"`
	GradYearMax      *int     `json:"gradYearMax,omitempty"`
	GPAMin           *float64 `json:"gpaMin,omitempty"`
	Goal             string   `json:"goal,omitempty"`
	ClubTeam         string   `json:"clubTeam,omitempty"`
	CurrentOffers    []string `json:"currentOffers,omitempty"`
}

// RankedResult is one row of the final, explainable result set.
type RankedResult struct {
	AthleteID     string  `json:"athleteId"`
	Name          string  `json:"name"`
	Position      string  `json:"position"`
	State         string  `json:"state"`
	GradYear      int     `json:"gradYear"`
	SpeedScore    int     `json:"speedScore"`
	WallBallScore float64 `json:"wallBallScore"`
	Summary       string  `json:"summary"`
}

// SavedSearch is a stored (scout, query) tuple for later re-runs.
type SavedSearch struct {
	ID            string           `json:"id"`
	ScoutID       string           `json:"scoutId"`
	Query         string           `json:"query"`
	ParsedFilters EffectiveFilters `json:"filters"`
	NotifyEmail   bool             `json:"notifyEmail,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}
