package engine

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
)

// maxCaptainSuggestions caps the ranked list.
const maxCaptainSuggestions = 5

// CaptainSuggestion is one ranked captaincy candidate.
type CaptainSuggestion struct {
	Player     *fpl.Player `json:"player"`
	Score      float64     `json:"score"`
	Difficulty int         `json:"difficulty"`
	Opponent   int         `json:"opponent"`
	Home       bool        `json:"home"`
}

// SuggestCaptains ranks players with meaningful minutes by form,
// points per game and next-fixture difficulty. Players without a
// resolvable next fixture are excluded.
func SuggestCaptains(bootstrap *fpl.BootstrapStatic, index *fpl.FixtureIndex, now time.Time) []CaptainSuggestion {
	if bootstrap == nil || len(bootstrap.Elements) == 0 {
		logrus.Error("Captain suggestions skipped: missing bootstrap data")
		return nil
	}
	if index == nil {
		index = fpl.NewFixtureIndex(nil)
	}

	var suggestions []CaptainSuggestion
	for i := range bootstrap.Elements {
		player := &bootstrap.Elements[i]
		if player.Minutes <= minCandidateMinutes {
			continue
		}
		next := index.NextFixture(player.Team, now)
		if next == nil {
			continue
		}
		difficulty, home := next.DifficultyFor(player.Team)

		score := fpl.Num(player.Form)*2 +
			fpl.Num(player.PointsPerGame) -
			float64(difficulty)/2

		suggestions = append(suggestions, CaptainSuggestion{
			Player:     player,
			Score:      score,
			Difficulty: difficulty,
			Opponent:   next.Opponent(player.Team),
			Home:       home,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > maxCaptainSuggestions {
		suggestions = suggestions[:maxCaptainSuggestions]
	}
	return suggestions
}
