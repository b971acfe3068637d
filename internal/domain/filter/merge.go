package filter

import (
	"strings"

	"github.com/jakedibattista/Scout/internal/domain/model"
)

// Merge reconciles a scout's standing preferences with the per-query plan
// filters. The rule per set-valued field: a plan that says nothing adopts
// the standing preference; a plan that proposes values is narrowed by
// intersection with the standing preference, never widened. A scout's
// query can narrow, but not escape, their declared recruiting scope.
func Merge(prefs model.ScoutPreferences, plan model.PlanFilters) model.EffectiveFilters {
	eff := model.EffectiveFilters{
		// The plan never overrides sport.
		Sport: strings.TrimSpace(prefs.Sport),

		// No standing-preference analog; plan values pass through.
		GradYearMin:   plan.GradYearMin,
		GradYearMax:   plan.GradYearMax,
		GPAMin:        plan.GPAMin,
		Goal:          strings.TrimSpace(plan.Goal),
		ClubTeam:      strings.TrimSpace(plan.ClubTeam),
		CurrentOffers: dedupeStrings(plan.CurrentOffers),
	}

	// Positions intersect on canonical form so a plan's "defender" narrows
	// a standing "Defense" focus instead of zeroing it out.
	eff.Positions = resolveStrings(
		canonicalPositionSet(plan.Positions),
		canonicalPositionSet(prefs.PositionFocus),
	)
	eff.RecruitingStates = resolveStrings(
		normalizeStateSet(plan.RecruitingStates),
		normalizeStateSet(prefs.RecruitingStates),
	)
	eff.GradYears = resolveInts(
		dedupeInts(plan.GradYearsRecruiting),
		dedupeInts(prefs.GradYearsRecruiting),
	)

	return eff
}

// resolveStrings applies the adopt-if-plan-empty, otherwise-intersect rule.
// Both inputs are already normalized and deduplicated.
func resolveStrings(plan, standing []string) []string {
	switch {
	case len(plan) == 0:
		return standing
	case len(standing) == 0:
		return plan
	}
	keep := make(map[string]struct{}, len(standing))
	for _, s := range standing {
		keep[s] = struct{}{}
	}
	out := make([]string, 0, len(plan))
	for _, p := range plan {
		if _, ok := keep[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

func resolveInts(plan, standing []int) []int {
	switch {
	case len(plan) == 0:
		return standing
	case len(standing) == 0:
		return plan
	}
	keep := make(map[int]struct{}, len(standing))
	for _, s := range standing {
		keep[s] = struct{}{}
	}
	out := make([]int, 0, len(plan))
	for _, p := range plan {
		if _, ok := keep[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

func dedupeStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
