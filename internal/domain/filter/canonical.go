// Package filter merges scout preferences with query plan filters and
// applies the result to the candidate athlete pool.
package filter

import "strings"

// canonicalPositions maps known position synonyms to one normalized label.
// Comparisons everywhere in the pipeline assume canonical form.
var canonicalPositions = map[string]string{
	"attacker":  "attack",
	"attackman": "attack",
	"striker":   "attack",
	"forward":   "attack",

	"middie":     "midfield",
	"midfielder": "midfield",
	"mid":        "midfield",

	"defender": "defense",
	"defence":  "defense",
	"d pole":   "defense",
	"d-pole":   "defense",
	"pole":     "defense",

	"goalkeeper": "goalie",
	"keeper":     "goalie",
	"gk":         "goalie",

	"face-off": "faceoff",
	"face off": "faceoff",
	"fogo":     "faceoff",

	"long stick middie":     "lsm",
	"long-stick midfielder": "lsm",
	"long stick midfielder": "lsm",
}

// CanonicalPosition normalizes a position label: lowercase, trimmed, and
// mapped through the synonym table. Unknown labels pass through lowercased.
func CanonicalPosition(position string) string {
	key := strings.ToLower(strings.TrimSpace(position))
	if canonical, ok := canonicalPositions[key]; ok {
		return canonical
	}
	return key
}

// canonicalPositionSet canonicalizes and deduplicates a position list,
// preserving first-seen order.
func canonicalPositionSet(positions []string) []string {
	out := make([]string, 0, len(positions))
	seen := make(map[string]struct{}, len(positions))
	for _, p := range positions {
		c := CanonicalPosition(p)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// normalizeStateSet uppercases and deduplicates region codes.
func normalizeStateSet(states []string) []string {
	out := make([]string, 0, len(states))
	seen := make(map[string]struct{}, len(states))
	for _, s := range states {
		code := strings.ToUpper(strings.TrimSpace(s))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

func dedupeInts(values []int) []int {
	out := make([]int, 0, len(values))
	seen := make(map[int]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
