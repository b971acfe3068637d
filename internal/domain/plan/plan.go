// Package plan turns a scout's free-text query into a structured query
// plan. Acquisition never fails: any planner outage or malformed response
// degrades to the default general plan so the search proceeds with reduced
// precision instead of an error. Availability over precision.
package plan

import (
	"context"
	"strings"
	"time"

	"github.com/jakedibattista/Scout/internal/domain/model"
	"github.com/jakedibattista/Scout/pkg/logger"
	"github.com/jakedibattista/Scout/pkg/metrics"
	"github.com/jakedibattista/Scout/pkg/retry"
)

// Default acquisition budget constants.
const (
	defaultTimeout = 25 * time.Second
)

// Client is the external query planning service. It returns free text that
// should, but is not guaranteed to, contain a JSON plan.
type Client interface {
	Plan(ctx context.Context, prefs model.ScoutPreferences, query string) (string, error)
}

// Acquirer wraps a planner client with the retry/timeout policy and the
// deterministic post-processing the pipeline depends on.
type Acquirer struct {
	client    Client
	timeout   time.Duration
	retryOpts []retry.Option
	logger    logger.Logger
}

// New constructs an Acquirer around the injected planner client.
func New(client Client, opts ...Option) *Acquirer {
	a := &Acquirer{
		client:  client,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Default returns the plan used when the planner is unavailable or its
// output is unusable.
func Default() model.QueryPlan {
	return model.QueryPlan{
		Intent:  model.IntentGeneral,
		Filters: model.PlanFilters{},
		Sort: model.PlanSort{
			By:        model.SortRelevance,
			Direction: model.SortDesc,
		},
	}
}

// Acquire produces a usable plan for the query. It never returns an error.
func (a *Acquirer) Acquire(ctx context.Context, prefs model.ScoutPreferences, query string) model.QueryPlan {
	p := a.fetch(ctx, prefs, query)
	ApplyKeywordOverrides(&p, query)
	return p
}

func (a *Acquirer) fetch(ctx context.Context, prefs model.ScoutPreferences, query string) model.QueryPlan {
	if a.client == nil {
		return Default()
	}

	retryOpts := append([]retry.Option{
		retry.WithOnRetry(func(int) { metrics.RecordPlannerRetry() }),
	}, a.retryOpts...)

	metrics.RecordPlannerCall()
	start := time.Now()
	raw, err := retry.DoWithTimeout(ctx, "scout query planner", a.timeout, func(ctx context.Context) (string, error) {
		return a.client.Plan(ctx, prefs, query)
	}, retryOpts...)
	metrics.RecordPlannerLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordPlannerFallback()
		metrics.RecordErrorByComponent("planner", "call_failed")
		if a.logger != nil {
			a.logger.Warn(ctx, "planner unavailable; using default plan", logger.Error(err))
		}
		return Default()
	}

	p, err := Parse(raw)
	if err != nil {
		metrics.RecordPlannerFallback()
		metrics.RecordErrorByComponent("planner", "malformed_response")
		if a.logger != nil {
			a.logger.Warn(ctx, "unparsable planner response; using default plan", logger.Error(err))
		}
		return Default()
	}
	return p
}

// ApplyKeywordOverrides forces the sort for unmistakable query keywords.
// The overrides always win over the planner's own sort choice; the
// planner's filter extraction stays trusted as-is.
func ApplyKeywordOverrides(p *model.QueryPlan, query string) {
	q := strings.ToLower(query)

	if strings.Contains(q, "fast") && p.Sort.By != model.SortSpeedScore {
		p.Intent = model.IntentSpeed
		p.Sort = model.PlanSort{By: model.SortSpeedScore, Direction: model.SortDesc}
	}
	if (strings.Contains(q, "wall ball") || strings.Contains(q, "wallball")) && p.Sort.By != model.SortWallBallScore {
		p.Intent = model.IntentWallBall
		p.Sort = model.PlanSort{By: model.SortWallBallScore, Direction: model.SortDesc}
	}
}
