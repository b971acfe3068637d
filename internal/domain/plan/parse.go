package plan

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jakedibattista/Scout/internal/domain/model"
)

// jsonFence matches a ```json ... ``` block anywhere in the response.
var jsonFence = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

// Parse extracts a QueryPlan from the planner's free-text response. The
// response is untrusted input: a fenced JSON block is unwrapped if present,
// then the candidate must strict-decode as a plan object.
func Parse(raw string) (model.QueryPlan, error) {
	candidate := strings.TrimSpace(raw)
	if m := jsonFence.FindStringSubmatch(candidate); m != nil {
		candidate = strings.TrimSpace(m[1])
	}
	if candidate == "" {
		return model.QueryPlan{}, fmt.Errorf("%w: empty response", ErrMalformedPlan)
	}

	var p model.QueryPlan
	if err := json.Unmarshal([]byte(candidate), &p); err != nil {
		return model.QueryPlan{}, fmt.Errorf("%w: %s", ErrMalformedPlan, err)
	}

	normalize(&p)
	return p, nil
}

// normalize coerces unknown enum values from the planner to safe defaults.
func normalize(p *model.QueryPlan) {
	switch p.Intent {
	case model.IntentSpeed, model.IntentWallBall, model.IntentGeneral:
	default:
		p.Intent = model.IntentGeneral
	}
	switch p.Sort.By {
	case model.SortSpeedScore, model.SortWallBallScore, model.SortRelevance:
	default:
		p.Sort.By = model.SortRelevance
	}
	switch p.Sort.Direction {
	case model.SortAsc, model.SortDesc:
	default:
		p.Sort.Direction = model.SortDesc
	}
}
