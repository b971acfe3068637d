package smoketest

import (
	"fmt"
	"log"
	"strings"
)

// verifyResponse checks one search response for internal consistency: the
// result order must match the plan's sort directive and every row must
// carry an explanation.
func verifyResponse(qc queryCase, response *SearchResponse) error {
	if err := verifyOrdering(response); err != nil {
		return err
	}

	for i, row := range response.Results {
		if strings.TrimSpace(row.Summary) == "" {
			return fmt.Errorf("result %d (%s) has no summary", i, row.AthleteID)
		}
	}

	if response.Matched < len(response.Results) {
		return fmt.Errorf("matched %d but returned %d results", response.Matched, len(response.Results))
	}
	if response.Considered < response.Matched {
		return fmt.Errorf("considered %d but matched %d", response.Considered, response.Matched)
	}

	return nil
}

// verifyOrdering checks the result rows against the echoed sort key.
// Score sorts rank high to low and relevance ranks by display name; ties
// on the key must fall back to ascending athlete ID.
func verifyOrdering(response *SearchResponse) error {
	results := response.Results
	by := response.Plan.Sort.By

	for i := 1; i < len(results); i++ {
		prev, curr := results[i-1], results[i]

		switch by {
		case "speed_score":
			if curr.SpeedScore > prev.SpeedScore {
				return fmt.Errorf("row %d (speed %d) outranks row %d (speed %d)", i, curr.SpeedScore, i-1, prev.SpeedScore)
			}
			if curr.SpeedScore < prev.SpeedScore {
				continue
			}
		case "wall_ball_score":
			if curr.WallBallScore > prev.WallBallScore {
				return fmt.Errorf("row %d (wall ball %.1f) outranks row %d (wall ball %.1f)", i, curr.WallBallScore, i-1, prev.WallBallScore)
			}
			if curr.WallBallScore < prev.WallBallScore {
				continue
			}
		default:
			prevName, currName := strings.ToLower(prev.Name), strings.ToLower(curr.Name)
			if currName < prevName {
				return fmt.Errorf("row %d (%q) outranks row %d (%q) under relevance", i, curr.Name, i-1, prev.Name)
			}
			if currName > prevName {
				continue
			}
		}

		if prev.AthleteID > curr.AthleteID {
			return fmt.Errorf("tied rows %d and %d not ordered by athlete ID", i-1, i)
		}
	}

	return nil
}

// displayTopResults shows the head of the last verified result set.
func displayTopResults(response *SearchResponse, query string) {
	topN := 10
	if len(response.Results) < topN {
		topN = len(response.Results)
	}

	log.Printf("🏆 Top %d results for %q (%s %s):", topN, query, response.Plan.Sort.By, response.Plan.Sort.Direction)
	for i := 0; i < topN; i++ {
		row := response.Results[i]
		log.Printf("   %d. %s (%s, %s, %d) - speed: %d, wall ball: %.1f - %s",
			i+1, row.Name, row.Position, row.State, row.GradYear, row.SpeedScore, row.WallBallScore, row.Summary)
	}
}
