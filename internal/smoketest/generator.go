package smoketest

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jakedibattista/Scout/internal/domain/model"
	"github.com/jakedibattista/Scout/pkg/logger"
)

// Fixture is the JSON shape the service seeds its store from.
type Fixture struct {
	Scouts   []model.ScoutProfile      `json:"scouts"`
	Athletes []model.AthleteRecord     `json:"athletes"`
	Bundles  []model.DrillMetricBundle `json:"bundles"`
}

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	athleteTierDivisor = 8
)

// Constants for drill time generation ranges, in seconds.
const (
	eliteShuttleMin   = 3.5
	eliteShuttleRange = 0.5
	goodShuttleMin    = 4.0
	goodShuttleRange  = 0.5
	slowShuttleMin    = 4.5
	slowShuttleRange  = 1.0
	eliteDashMin      = 2.2
	eliteDashRange    = 0.3
	goodDashMin       = 2.5
	goodDashRange     = 0.2
	slowDashMin       = 2.7
	slowDashRange     = 0.8
	eliteRepsMin      = 80
	eliteRepsRange    = 40
	goodRepsMin       = 60
	goodRepsRange     = 20
	lowRepsMin        = 20
	lowRepsRange      = 40
)

// Constants for athlete tier cases.
const (
	caseEliteAllRound = 0
	caseEliteSpeed    = 1
	caseEliteWallBall = 2
	caseSolid         = 3
	caseDeveloping    = 4
	caseNoShuttle     = 5
	caseNoBundles     = 6
	caseMessyMetrics  = 7
)

// File permission constants.
const (
	fixtureFilePermission = 0600
)

var fixtureStates = []string{"MD", "VA", "PA", "NY", "NJ", "TX", "CA", "FL"}

var fixturePositions = []string{"Attack", "Midfield", "Defense", "Goalie", "FOGO", "LSM"}

var fixtureGradYears = []int{2026, 2027, 2028, 2029}

// queryTemplates are the free-text queries the runner cycles through. The
// mix covers the speed, wall ball and general intents plus filter phrases.
var queryTemplates = []string{
	"fastest attackers",
	"fast midfielders in Maryland",
	"best wall ball numbers",
	"wallball machines in the 2027 class",
	"defenders with at least a 3.5 GPA",
	"2026 goalies",
	"players willing to relocate",
	"strong two way midfielders",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomIndex returns a random index below n using crypto/rand.
func getRandomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// GenerateFixture creates a seed fixture with varied scouts, athletes and
// drill bundles.
func GenerateFixture(ctx context.Context, config *Config) (*Fixture, error) {
	logger.Get().Info(ctx, "generating seed fixture",
		logger.Int("scouts", config.NumScouts),
		logger.Int("athletes", config.NumAthletes))

	fixture := &Fixture{
		Scouts:   make([]model.ScoutProfile, config.NumScouts),
		Athletes: make([]model.AthleteRecord, 0, config.NumAthletes),
		Bundles:  make([]model.DrillMetricBundle, 0, config.NumAthletes*3),
	}

	for i := 0; i < config.NumScouts; i++ {
		fixture.Scouts[i] = generateScout(i)
	}

	// Athlete generation is independent per record, so split it across a
	// worker pool the same way submission does.
	type athleteResult struct {
		index   int
		athlete model.AthleteRecord
		bundles []model.DrillMetricBundle
		err     error
	}

	resultChan := make(chan athleteResult, config.NumAthletes)
	workerCount := minInt(config.Workers, config.NumAthletes)
	perWorker := config.NumAthletes / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workerCount-1 {
			end = config.NumAthletes
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- athleteResult{index: i, err: ctx.Err()}
					return
				default:
					athlete, bundles := generateAthlete(i)
					resultChan <- athleteResult{index: i, athlete: athlete, bundles: bundles}
				}
			}
		}(start, end)
	}

	athletes := make([]model.AthleteRecord, config.NumAthletes)
	bundlesByIndex := make([][]model.DrillMetricBundle, config.NumAthletes)
	for i := 0; i < config.NumAthletes; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during fixture generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate athlete %d: %w", result.index, result.err)
			}
			athletes[result.index] = result.athlete
			bundlesByIndex[result.index] = result.bundles
		}
	}

	fixture.Athletes = athletes
	for _, bundles := range bundlesByIndex {
		fixture.Bundles = append(fixture.Bundles, bundles...)
	}

	logger.Get().Info(ctx, "generated fixture",
		logger.Int("scouts", len(fixture.Scouts)),
		logger.Int("athletes", len(fixture.Athletes)),
		logger.Int("bundles", len(fixture.Bundles)))

	return fixture, nil
}

// generateScout creates one scout profile with standing preferences.
func generateScout(index int) model.ScoutProfile {
	username := "smoke_coach_" + strconv.Itoa(index)
	state := fixtureStates[index%len(fixtureStates)]
	position := fixturePositions[index%len(fixturePositions)]

	return model.ScoutProfile{
		UserID:   uuid.New().String(),
		Username: username,
		Name:     "Smoke Coach " + strconv.Itoa(index),
		Email:    username + "@example.com",
		Program:  "Smoke University",
		Level:    "D1",
		Preferences: model.ScoutPreferences{
			Sport:               "lacrosse",
			RecruitingStates:    []string{state},
			PositionFocus:       []string{position},
			GradYearsRecruiting: []int{fixtureGradYears[index%len(fixtureGradYears)], fixtureGradYears[(index+1)%len(fixtureGradYears)]},
		},
	}
}

// generateAthlete creates one athlete record and its drill bundles. Tiers
// vary the metric distribution and deliberately leave holes so the service
// exercises its missing-data paths.
func generateAthlete(index int) (model.AthleteRecord, []model.DrillMetricBundle) {
	id := uuid.New().String()
	tier := getRandomIndex(athleteTierDivisor)

	athlete := model.AthleteRecord{
		ID:       id,
		Username: "smoke_athlete_" + strconv.Itoa(index),
		Name:     "Smoke Athlete " + strconv.Itoa(index),
		State:    fixtureStates[getRandomIndex(len(fixtureStates))],
		Sport:    "lacrosse",
		Position: fixturePositions[getRandomIndex(len(fixturePositions))],
		GradYear: fixtureGradYears[getRandomIndex(len(fixtureGradYears))],
	}

	// Roughly a third of athletes list relocation states.
	if getRandomIndex(3) == 0 {
		athlete.RelocateStates = []string{fixtureStates[getRandomIndex(len(fixtureStates))]}
	}

	// GPA is free text on real profiles; mirror that, including absences.
	switch getRandomIndex(4) {
	case 0:
		athlete.GPA = fmt.Sprintf("%.1f", 2.5+getRandomFloat()*1.5)
	case 1:
		athlete.GPA = fmt.Sprintf("%.1f (weighted)", 3.0+getRandomFloat()*1.3)
	case 2:
		athlete.GPA = fmt.Sprintf("%.2f", 2.8+getRandomFloat()*1.2)
	}

	now := time.Now().UTC()
	var bundles []model.DrillMetricBundle

	shuttle := func(seconds float64, key string) model.DrillMetricBundle {
		return model.DrillMetricBundle{
			AthleteID:  id,
			Drill:      model.DrillShuttle,
			Metrics:    map[string]any{key: seconds},
			RecordedAt: now,
		}
	}
	dash := func(seconds float64, key string) model.DrillMetricBundle {
		return model.DrillMetricBundle{
			AthleteID:  id,
			Drill:      model.DrillDash20,
			Metrics:    map[string]any{key: seconds},
			RecordedAt: now,
		}
	}
	wallBall := func(reps float64, key string) model.DrillMetricBundle {
		return model.DrillMetricBundle{
			AthleteID:  id,
			Drill:      model.DrillWallBall,
			Metrics:    map[string]any{key: reps},
			RecordedAt: now,
		}
	}

	switch tier {
	case caseEliteAllRound:
		bundles = append(bundles,
			shuttle(eliteShuttleMin+getRandomFloat()*eliteShuttleRange, "Total Time"),
			dash(eliteDashMin+getRandomFloat()*eliteDashRange, "Total Time"),
			wallBall(float64(eliteRepsMin+getRandomIndex(eliteRepsRange)), "repetitions"))
	case caseEliteSpeed:
		bundles = append(bundles,
			shuttle(eliteShuttleMin+getRandomFloat()*eliteShuttleRange, "totalTime"),
			dash(eliteDashMin+getRandomFloat()*eliteDashRange, "timeSeconds"),
			wallBall(float64(lowRepsMin+getRandomIndex(lowRepsRange)), "reps"))
	case caseEliteWallBall:
		bundles = append(bundles,
			shuttle(slowShuttleMin+getRandomFloat()*slowShuttleRange, "Total Time"),
			dash(slowDashMin+getRandomFloat()*slowDashRange, "Total Time"),
			wallBall(float64(eliteRepsMin+getRandomIndex(eliteRepsRange)), "total_reps_60s"))
	case caseSolid:
		bundles = append(bundles,
			shuttle(goodShuttleMin+getRandomFloat()*goodShuttleRange, "Total Time"),
			dash(goodDashMin+getRandomFloat()*goodDashRange, "Total Time"),
			wallBall(float64(goodRepsMin+getRandomIndex(goodRepsRange)), "repetitions"))
	case caseDeveloping:
		bundles = append(bundles,
			shuttle(slowShuttleMin+getRandomFloat()*slowShuttleRange, "Total Time"),
			dash(slowDashMin+getRandomFloat()*slowDashRange, "Total Time"),
			wallBall(float64(lowRepsMin+getRandomIndex(lowRepsRange)), "repetitions"))
	case caseNoShuttle:
		bundles = append(bundles,
			dash(goodDashMin+getRandomFloat()*goodDashRange, "Total Time"),
			wallBall(float64(goodRepsMin+getRandomIndex(goodRepsRange)), "rep_count"))
	case caseNoBundles:
		// Profile only, no drill history.
	case caseMessyMetrics:
		// String-typed values from older analysis runs.
		bundles = append(bundles,
			shuttle(0, "Finish Time"),
			wallBall(0, "count"))
		bundles[0].Metrics["Finish Time"] = fmt.Sprintf("%.2fs", goodShuttleMin+getRandomFloat()*goodShuttleRange)
		bundles[1].Metrics["count"] = strconv.Itoa(goodRepsMin + getRandomIndex(goodRepsRange))
	}

	return athlete, bundles
}

// SaveFixture writes the fixture JSON to the configured seed file.
func SaveFixture(ctx context.Context, config *Config, fixture *Fixture) error {
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal fixture: %w", err)
	}
	if err := os.WriteFile(config.SeedFile, data, fixtureFilePermission); err != nil {
		return fmt.Errorf("failed to write fixture: %w", err)
	}

	logger.Get().Info(ctx, "fixture saved", logger.String("file", config.SeedFile))
	return nil
}

// LoadFixture reads a previously generated fixture back from disk.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	var fixture Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if len(fixture.Scouts) == 0 {
		return nil, fmt.Errorf("fixture has no scouts")
	}
	return &fixture, nil
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
