// Package scoring computes per-candidate scores from normalized drill
// metrics and produces the final, explainable ranking.
package scoring

import (
	"sort"
	"strings"

	"github.com/jakedibattista/Scout/internal/domain/drill"
	"github.com/jakedibattista/Scout/internal/domain/model"
)

// Speed tier thresholds, in seconds. A tier of 2 is elite, 1 solid, 0 the
// rest; missing times score 0.
const (
	shuttleEliteMax = 4.0
	shuttleGoodMax  = 4.5
	dashEliteMax    = 2.5
	dashGoodMax     = 2.7

	// The shuttle is the harder, more position-relevant drill, so its
	// tier carries double weight in the composite.
	shuttleWeight = 2
)

// Scored is one candidate with extracted metrics and computed scores.
type Scored struct {
	Athlete model.AthleteRecord

	ShuttleSeconds float64
	ShuttleOK      bool
	DashSeconds    float64
	DashOK         bool

	SpeedScore   int
	WallBallReps float64
	WallBallOK   bool
}

// Score computes a candidate's scores from the latest bundle per drill
// kind. Bundles may be missing entirely; every missing metric contributes
// zero.
func Score(a model.AthleteRecord, bundles map[model.DrillKind]*model.DrillMetricBundle) Scored {
	s := Scored{Athlete: a}

	s.ShuttleSeconds, s.ShuttleOK = drill.Seconds(bundles[model.DrillShuttle])
	s.DashSeconds, s.DashOK = drill.Seconds(bundles[model.DrillDash20])
	s.WallBallReps, s.WallBallOK = drill.Reps(bundles[model.DrillWallBall])

	s.SpeedScore = shuttleWeight*ShuttleTier(s.ShuttleSeconds, s.ShuttleOK) + DashTier(s.DashSeconds, s.DashOK)
	return s
}

// ShuttleTier grades a 5-10-5 shuttle time: 2 under 4.0s, 1 up to 4.5s.
func ShuttleTier(seconds float64, ok bool) int {
	switch {
	case !ok:
		return 0
	case seconds < shuttleEliteMax:
		return 2
	case seconds <= shuttleGoodMax:
		return 1
	default:
		return 0
	}
}

// DashTier grades a 20-yard dash time: 2 under 2.5s, 1 up to 2.7s.
func DashTier(seconds float64, ok bool) int {
	switch {
	case !ok:
		return 0
	case seconds < dashEliteMax:
		return 2
	case seconds <= dashGoodMax:
		return 1
	default:
		return 0
	}
}

// Rank orders candidates for the requested sort key. Score sorts are
// descending; relevance is display name ascending. Ties always break on
// athlete ID ascending so the order is stable across store iteration
// orders.
func Rank(candidates []Scored, by model.SortBy) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		switch by {
		case model.SortSpeedScore:
			if a.SpeedScore != b.SpeedScore {
				return a.SpeedScore > b.SpeedScore
			}
		case model.SortWallBallScore:
			if a.WallBallReps != b.WallBallReps {
				return a.WallBallReps > b.WallBallReps
			}
		default:
			an, bn := strings.ToLower(a.Athlete.Name), strings.ToLower(b.Athlete.Name)
			if an != bn {
				return an < bn
			}
		}
		return a.Athlete.ID < b.Athlete.ID
	})
}
