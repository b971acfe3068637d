package plan_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jakedibattista/Scout/internal/domain/model"
	"github.com/jakedibattista/Scout/internal/domain/plan"
	"github.com/jakedibattista/Scout/pkg/retry"
	. "github.com/smartystreets/goconvey/convey"
)

type stubPlanner struct {
	response string
	err      error
	calls    int
	delay    time.Duration
}

func (s *stubPlanner) Plan(ctx context.Context, prefs model.ScoutPreferences, query string) (string, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.response, s.err
}

const validPlanJSON = `{
	"intent": "general",
	"filters": {"positions": ["Attack"], "gpaMin": 3.0},
	"sort": {"by": "relevance", "direction": "desc"}
}`

func TestParse(t *testing.T) {
	Convey("Given planner responses", t, func() {
		Convey("When the response is bare JSON", func() {
			p, err := plan.Parse(validPlanJSON)
			So(err, ShouldBeNil)
			So(p.Filters.Positions, ShouldResemble, []string{"Attack"})
			So(*p.Filters.GPAMin, ShouldEqual, 3.0)
		})

		Convey("When the JSON is fenced", func() {
			p, err := plan.Parse("Here is the plan:\n```json\n" + validPlanJSON + "\n```\nDone.")
			So(err, ShouldBeNil)
			So(p.Filters.Positions, ShouldResemble, []string{"Attack"})
		})

		Convey("When the response is empty or not JSON", func() {
			for _, raw := range []string{"", "   ", "no plan here", "{truncated", "```json\n\n```"} {
				_, err := plan.Parse(raw)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, plan.ErrMalformedPlan), ShouldBeTrue)
			}
		})

		Convey("When enum values are unrecognized they normalize", func() {
			p, err := plan.Parse(`{"intent":"dominate","filters":{},"sort":{"by":"vibes","direction":"sideways"}}`)
			So(err, ShouldBeNil)
			So(p.Intent, ShouldEqual, model.IntentGeneral)
			So(p.Sort.By, ShouldEqual, model.SortRelevance)
			So(p.Sort.Direction, ShouldEqual, model.SortDesc)
		})
	})
}

func TestAcquire(t *testing.T) {
	Convey("Given a plan acquirer", t, func() {
		ctx := context.Background()
		fastRetry := plan.WithRetryOptions(retry.WithBackoffUnit(time.Millisecond))

		Convey("When the planner answers with a usable plan", func() {
			a := plan.New(&stubPlanner{response: validPlanJSON}, fastRetry)
			p := a.Acquire(ctx, model.ScoutPreferences{}, "attackers with good grades")

			So(p.Intent, ShouldEqual, model.IntentGeneral)
			So(p.Filters.Positions, ShouldResemble, []string{"Attack"})
		})

		Convey("When the planner fails terminally, the default plan is used", func() {
			stub := &stubPlanner{err: errors.New("invalid api key")}
			a := plan.New(stub, fastRetry)
			p := a.Acquire(ctx, model.ScoutPreferences{}, "anything")

			So(p, ShouldResemble, plan.Default())
			So(stub.calls, ShouldEqual, 1)
		})

		Convey("When the planner fails transiently, the call retries then degrades", func() {
			stub := &stubPlanner{err: errors.New("connection reset by peer")}
			a := plan.New(stub, fastRetry)
			p := a.Acquire(ctx, model.ScoutPreferences{}, "anything")

			So(p, ShouldResemble, plan.Default())
			So(stub.calls, ShouldEqual, 3)
		})

		Convey("When the planner overruns the timeout budget", func() {
			stub := &stubPlanner{response: validPlanJSON, delay: time.Second}
			a := plan.New(stub, fastRetry,
				plan.WithTimeout(5*time.Millisecond),
				plan.WithRetryOptions(retry.WithMaxAttempts(1)),
			)
			p := a.Acquire(ctx, model.ScoutPreferences{}, "anything")
			So(p, ShouldResemble, plan.Default())
		})

		Convey("When the response is malformed, the default plan is used", func() {
			a := plan.New(&stubPlanner{response: "sorry, I can't help with that"}, fastRetry)
			p := a.Acquire(ctx, model.ScoutPreferences{}, "anything")
			So(p, ShouldResemble, plan.Default())
		})

		Convey("When no client is configured, the default plan is used", func() {
			a := plan.New(nil)
			p := a.Acquire(ctx, model.ScoutPreferences{}, "anything")
			So(p, ShouldResemble, plan.Default())
		})
	})
}

func TestKeywordOverrides(t *testing.T) {
	Convey("Given deterministic keyword overrides", t, func() {
		Convey("When the query mentions fast, speed sort always wins", func() {
			a := plan.New(&stubPlanner{response: `{"intent":"general","filters":{},"sort":{"by":"wall_ball_score","direction":"asc"}}`},
				plan.WithRetryOptions(retry.WithBackoffUnit(time.Millisecond)))
			p := a.Acquire(context.Background(), model.ScoutPreferences{}, "FASTEST defender in Maryland")

			So(p.Intent, ShouldEqual, model.IntentSpeed)
			So(p.Sort, ShouldResemble, model.PlanSort{By: model.SortSpeedScore, Direction: model.SortDesc})
		})

		Convey("When the query mentions wall ball", func() {
			p := plan.Default()
			plan.ApplyKeywordOverrides(&p, "best wall ball this year")

			So(p.Intent, ShouldEqual, model.IntentWallBall)
			So(p.Sort, ShouldResemble, model.PlanSort{By: model.SortWallBallScore, Direction: model.SortDesc})

			p = plan.Default()
			plan.ApplyKeywordOverrides(&p, "wallball grinders")
			So(p.Sort.By, ShouldEqual, model.SortWallBallScore)
		})

		Convey("When the sort already matches, the plan is left alone", func() {
			p := model.QueryPlan{
				Intent: model.IntentSpeed,
				Sort:   model.PlanSort{By: model.SortSpeedScore, Direction: model.SortAsc},
			}
			plan.ApplyKeywordOverrides(&p, "fast risers")
			So(p.Sort.Direction, ShouldEqual, model.SortAsc)
		})

		Convey("When the planner fails, overrides still apply to the fallback", func() {
			a := plan.New(&stubPlanner{err: errors.New("boom")},
				plan.WithRetryOptions(retry.WithBackoffUnit(time.Millisecond)))
			p := a.Acquire(context.Background(), model.ScoutPreferences{}, "who is fast")

			So(p.Intent, ShouldEqual, model.IntentSpeed)
			So(p.Sort.By, ShouldEqual, model.SortSpeedScore)
		})
	})
}
