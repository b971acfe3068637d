package filter

import (
	"strings"

	"github.com/jakedibattista/Scout/internal/domain/drill"
	"github.com/jakedibattista/Scout/internal/domain/model"
)

// Apply runs the candidate pool through the merged filter set. Predicates
// are a pure conjunction; order only matters for cost, so equality checks
// run before substring scans. A predicate with no constraint configured
// always passes.
func Apply(pool []model.AthleteRecord, eff model.EffectiveFilters) []model.AthleteRecord {
	out := make([]model.AthleteRecord, 0, len(pool))
	for _, a := range pool {
		if Passes(a, eff) {
			out = append(out, a)
		}
	}
	return out
}

// Passes reports whether one athlete satisfies every configured predicate.
func Passes(a model.AthleteRecord, eff model.EffectiveFilters) bool {
	return passesSport(a, eff.Sport) &&
		passesPosition(a, eff.Positions) &&
		passesGradYears(a, eff.GradYears) &&
		passesGradYearRange(a, eff.GradYearMin, eff.GradYearMax) &&
		PassesStateFilter(a, eff.RecruitingStates) &&
		passesGPAFloor(a, eff.GPAMin) &&
		passesSubstring(a.Goal, eff.Goal) &&
		passesSubstring(a.ClubTeam, eff.ClubTeam) &&
		passesOffers(a, eff.CurrentOffers)
}

func passesSport(a model.AthleteRecord, sport string) bool {
	if sport == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(a.Sport), sport)
}

func passesPosition(a model.AthleteRecord, positions []string) bool {
	if len(positions) == 0 {
		return true
	}
	pos := CanonicalPosition(a.Position)
	for _, p := range positions {
		if pos == p {
			return true
		}
	}
	return false
}

// PassesStateFilter passes when the athlete's home state is recruited, or
// when any state they are willing to relocate to is. Willingness to
// relocate counts as a match even when the home state does not.
func PassesStateFilter(a model.AthleteRecord, states []string) bool {
	if len(states) == 0 {
		return true
	}
	home := strings.ToUpper(strings.TrimSpace(a.State))
	for _, s := range states {
		if home == s {
			return true
		}
	}
	for _, r := range a.RelocateStates {
		code := strings.ToUpper(strings.TrimSpace(r))
		for _, s := range states {
			if code == s {
				return true
			}
		}
	}
	return false
}

func passesGradYears(a model.AthleteRecord, years []int) bool {
	if len(years) == 0 {
		return true
	}
	for _, y := range years {
		if a.GradYear == y {
			return true
		}
	}
	return false
}

// passesGradYearRange applies min/max bounds independently of the
// membership predicate; both can be active at once.
func passesGradYearRange(a model.AthleteRecord, minYear, maxYear *int) bool {
	if minYear != nil && a.GradYear < *minYear {
		return false
	}
	if maxYear != nil && a.GradYear > *maxYear {
		return false
	}
	return true
}

// passesGPAFloor treats missing or unparseable GPA as disqualifying when a
// floor is configured. A floor is an explicit scout requirement, unlike
// the other optional fields where missing data passes.
func passesGPAFloor(a model.AthleteRecord, floor *float64) bool {
	if floor == nil {
		return true
	}
	gpa, ok := drill.ParseNumeric(a.GPA)
	if !ok {
		return false
	}
	return gpa >= *floor
}

func passesSubstring(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func passesOffers(a model.AthleteRecord, offers []string) bool {
	if len(offers) == 0 {
		return true
	}
	for _, want := range offers {
		for _, have := range a.CurrentOffers {
			if strings.Contains(strings.ToLower(have), strings.ToLower(want)) {
				return true
			}
		}
	}
	return false
}
