package smoketest

import (
	"context"
	"fmt"
	"time"

	"github.com/jakedibattista/Scout/pkg/logger"
)

// Run executes the complete search smoke test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting scout search smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.String("seedFile", config.SeedFile),
		logger.Int("queries", config.NumQueries),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	// Generation mode only writes the fixture; the service is started
	// against it separately.
	if config.Generate {
		fixture, err := GenerateFixture(ctx, config)
		if err != nil {
			return fmt.Errorf("fixture generation failed: %w", err)
		}
		if err := SaveFixture(ctx, config, fixture); err != nil {
			return fmt.Errorf("fixture save failed: %w", err)
		}
		logger.Get().Info(ctx, "fixture ready; start the service with SCOUT_SEED_FILE pointing at it",
			logger.String("file", config.SeedFile))
		return nil
	}

	// Step 1: Load the fixture the service was seeded from
	fixture, err := LoadFixture(config.SeedFile)
	if err != nil {
		return fmt.Errorf("fixture load failed: %w", err)
	}

	// Step 2: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 3: Build the query mix
	cases := buildQueryCases(fixture, config.NumQueries)

	// Step 4: Submit queries concurrently, verifying every response
	if err := submitQueries(ctx, config, cases, stats); err != nil {
		return fmt.Errorf("query submission failed: %w", err)
	}

	// Step 5: Show the head of one representative result set
	if len(cases) > 0 {
		client := newHTTPClient(config.Timeout)
		response, err := submitSingleQuery(ctx, client, config.BaseURL+"/search", cases[0])
		if err != nil {
			logger.Get().Warn(ctx, "failed to fetch display query", logger.Error(err))
		} else {
			displayTopResults(response, cases[0].Query)
		}
	}

	// Step 6: Saved-search round trip
	if err := runSavedSearchRoundTrip(ctx, config, fixture.Scouts[0].Username, stats); err != nil {
		return fmt.Errorf("saved-search round trip failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke test completed successfully")
	return nil
}

// buildQueryCases pairs fixture scouts with query templates round-robin
// until the requested count is reached.
func buildQueryCases(fixture *Fixture, count int) []queryCase {
	cases := make([]queryCase, 0, count)
	for i := 0; i < count; i++ {
		scout := fixture.Scouts[i%len(fixture.Scouts)]
		cases = append(cases, queryCase{
			ScoutUsername: scout.Username,
			Query:         queryTemplates[i%len(queryTemplates)],
		})
	}
	return cases
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, queriesPerSecond float64

	if stats.QueriesSubmitted > 0 {
		successRate = float64(stats.QueriesSuccessful) / float64(stats.QueriesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		queriesPerSecond = float64(stats.QueriesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("queriesSubmitted", stats.QueriesSubmitted),
		logger.Int("queriesSuccessful", stats.QueriesSuccessful),
		logger.Int("queriesFailed", stats.QueriesFailed),
		logger.Int("orderingViolations", stats.OrderingViolations),
		logger.Int("resultsReturned", stats.ResultsReturned),
		logger.Any("savedSearchRoundTrip", stats.SavedSearchRoundTrip),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("queriesPerSecond", queriesPerSecond))
}
