// Package drill extracts and normalizes values from loosely typed
// drill-analysis metric bags.
//
// Analysis runs have historically used different key names for the same
// concept, so extraction goes through ordered alias lists: the first alias
// present in the bag wins, and presence is an object-key test, not a
// truthiness test.
package drill

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jakedibattista/Scout/internal/domain/model"
)

// TimeAliases covers the elapsed-time field of the shuttle and dash
// bundles, in historical priority order.
var TimeAliases = []string{"Total Time", "totalTime", "timeSeconds", "Finish Time"}

// RepAliases covers the repetition count of the wall ball bundle.
var RepAliases = []string{"repetitions", "reps", "total_reps_60s", "rep_count", "count"}

// Benchmark tiers for drill grades. Times are ceilings, rep counts floors.
const (
	ShuttleEliteSeconds = 4.0
	ShuttleGoodSeconds  = 4.5
	DashEliteSeconds    = 2.5
	DashGoodSeconds     = 2.7
	WallBallEliteReps   = 80
	WallBallGoodReps    = 60
)

// missingValue renders where no metric was extracted.
const missingValue = "—"

// Lookup returns the first aliased value present in the bag. The second
// return reports presence; a stored nil or empty string is still present.
func Lookup(bag map[string]any, aliases []string) (any, bool) {
	if bag == nil {
		return nil, false
	}
	for _, key := range aliases {
		if v, ok := bag[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// ParseNumeric converts a numeric-or-string metric value to a float64.
// Strings are stripped of every character that is not a digit or decimal
// point before parsing. This is deliberately lossy: "12.3 reps (approx)"
// only parses cleanly because the stray digits sit next to the decimal, so
// callers must scope their alias lists rather than lean on parsing to
// disambiguate.
func ParseNumeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		var b strings.Builder
		for _, r := range v {
			if (r >= '0' && r <= '9') || r == '.' {
				b.WriteRune(r)
			}
		}
		stripped := b.String()
		if stripped == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(stripped, 64)
		if err != nil {
			return 0, false
		}
		return finite(parsed)
	default:
		return 0, false
	}
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Seconds extracts and parses the elapsed time of a shuttle or dash bundle.
func Seconds(bundle *model.DrillMetricBundle) (float64, bool) {
	if bundle == nil {
		return 0, false
	}
	raw, ok := Lookup(bundle.Metrics, TimeAliases)
	if !ok {
		return 0, false
	}
	return ParseNumeric(raw)
}

// Reps extracts and parses the repetition count of a wall ball bundle.
func Reps(bundle *model.DrillMetricBundle) (float64, bool) {
	if bundle == nil {
		return 0, false
	}
	raw, ok := Lookup(bundle.Metrics, RepAliases)
	if !ok {
		return 0, false
	}
	return ParseNumeric(raw)
}

// FormatSeconds renders an extracted time as "3.92s", or "—" when missing.
func FormatSeconds(value float64, ok bool) string {
	if !ok {
		return missingValue
	}
	return fmt.Sprintf("%.2fs", value)
}

// FormatCount renders an extracted count rounded to the nearest integer,
// or "—" when missing.
func FormatCount(value float64, ok bool) string {
	if !ok {
		return missingValue
	}
	return fmt.Sprintf("%d", int(math.Round(value)))
}

// Grade is a coached benchmark tier for one extracted metric.
type Grade string

// Grade tiers.
const (
	GradeElite     Grade = "Elite"
	GradeGood      Grade = "Good"
	GradeNeedsWork Grade = "Needs work"
	GradePending   Grade = "Pending"
)

// ShuttleGrade tiers a 5-10-5 shuttle time.
func ShuttleGrade(seconds float64, ok bool) Grade {
	return timeGrade(seconds, ok, ShuttleEliteSeconds, ShuttleGoodSeconds)
}

// DashGrade tiers a 20-yard dash time.
func DashGrade(seconds float64, ok bool) Grade {
	return timeGrade(seconds, ok, DashEliteSeconds, DashGoodSeconds)
}

// WallBallGrade tiers a 60-second wall ball rep count.
func WallBallGrade(reps float64, ok bool) Grade {
	switch {
	case !ok:
		return GradePending
	case reps >= WallBallEliteReps:
		return GradeElite
	case reps >= WallBallGoodReps:
		return GradeGood
	default:
		return GradeNeedsWork
	}
}

func timeGrade(seconds float64, ok bool, elite, good float64) Grade {
	switch {
	case !ok:
		return GradePending
	case seconds < elite:
		return GradeElite
	case seconds <= good:
		return GradeGood
	default:
		return GradeNeedsWork
	}
}
