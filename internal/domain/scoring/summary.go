package scoring

import (
	"fmt"

	"github.com/jakedibattista/Scout/internal/domain/drill"
	"github.com/jakedibattista/Scout/internal/domain/model"
)

// Summary renders the explainable one-liner for a ranked result, using
// only the signal relevant to the active sort. Figures are never
// fabricated: anything not extracted from a bundle renders as "—".
func Summary(s Scored, by model.SortBy) string {
	switch by {
	case model.SortSpeedScore:
		return fmt.Sprintf("Shuttle: %s · Dash: %s",
			drill.FormatSeconds(s.ShuttleSeconds, s.ShuttleOK),
			drill.FormatSeconds(s.DashSeconds, s.DashOK),
		)
	case model.SortWallBallScore:
		return fmt.Sprintf("Wall ball: %s reps (60s)", drill.FormatCount(s.WallBallReps, s.WallBallOK))
	default:
		return "Profile match."
	}
}

// Assemble ranks candidates and builds the final result rows.
func Assemble(candidates []Scored, by model.SortBy) []model.RankedResult {
	Rank(candidates, by)

	out := make([]model.RankedResult, len(candidates))
	for i, s := range candidates {
		wallBall := 0.0
		if s.WallBallOK {
			wallBall = s.WallBallReps
		}
		out[i] = model.RankedResult{
			AthleteID:     s.Athlete.ID,
			Name:          s.Athlete.Name,
			Position:      s.Athlete.Position,
			State:         s.Athlete.State,
			GradYear:      s.Athlete.GradYear,
			SpeedScore:    s.SpeedScore,
			WallBallScore: wallBall,
			Summary:       Summary(s, by),
		}
	}
	return out
}
