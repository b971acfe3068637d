package smoketest

import "time"

// Config holds configuration for the search smoke test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumScouts   int           // Number of scouts to generate into the fixture
	NumAthletes int           // Number of athletes to generate into the fixture
	NumQueries  int           // Number of search queries to submit
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	SeedFile    string        // Seed fixture path (generated or reused)
	Generate    bool          // Generate the fixture and exit
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
}

// RankedRow is one row of a search response result set.
type RankedRow struct {
	AthleteID     string  `json:"athleteId"`
	Name          string  `json:"name"`
	Position      string  `json:"position"`
	State         string  `json:"state"`
	GradYear      int     `json:"gradYear"`
	SpeedScore    int     `json:"speedScore"`
	WallBallScore float64 `json:"wallBallScore"`
	Summary       string  `json:"summary"`
}

// PlanEcho is the plan portion of a search response.
type PlanEcho struct {
	Intent string `json:"intent"`
	Sort   struct {
		By        string `json:"by"`
		Direction string `json:"direction"`
	} `json:"sort"`
}

// SearchResponse is the response from a search submission.
type SearchResponse struct {
	OK         bool        `json:"ok"`
	Plan       PlanEcho    `json:"plan"`
	Results    []RankedRow `json:"results"`
	Considered int         `json:"considered"`
	Matched    int         `json:"matched"`
}

// SavedSearchResponse is the response from a saved-search create.
type SavedSearchResponse struct {
	Saved struct {
		ID      string `json:"id"`
		ScoutID string `json:"scoutId"`
		Query   string `json:"query"`
	} `json:"saved"`
	Duplicate bool `json:"duplicate"`
}

// Stats holds test statistics
type Stats struct {
	QueriesSubmitted     int
	QueriesSuccessful    int
	QueriesFailed        int
	OrderingViolations   int
	ResultsReturned      int
	SavedSearchRoundTrip bool
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
