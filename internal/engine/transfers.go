package engine

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
)

const (
	// weakestLinkCount is how many starting-XI players are considered
	// transfer-out candidates.
	weakestLinkCount = 4
	// minCandidateMinutes filters out fringe replacements.
	minCandidateMinutes = 180
	// budgetWindow is how far above the outgoing player's price a
	// replacement may cost, in tenths.
	budgetWindow = 20
	// minProjectedGain is the strictly-positive points gain a
	// suggestion must clear over the next four gameweeks.
	minProjectedGain = 2.0
	// maxSuggestions caps the returned list.
	maxSuggestions = 5
)

// TransferSuggestion pairs a weak starter with a ranked replacement.
type TransferSuggestion struct {
	Out             *fpl.Player `json:"out"`
	In              *fpl.Player `json:"in"`
	ProjectedGain   float64     `json:"projected_gain"`
	PredictedPoints float64     `json:"predicted_points"`
	Score           float64     `json:"score"`
	PriceDiff       float64     `json:"price_diff"`
	AvgDifficulty   float64     `json:"avg_difficulty"`
}

// SuggestTransfers finds the weakest four starters and, for each,
// scans same-position replacements inside the budget window that
// project a meaningful points gain over the next four gameweeks.
// Replacements are ranked by projected gain, underlying stats,
// fixture ease and the per-match point prediction.
// An empty result means the squad needs no changes.
func SuggestTransfers(bootstrap *fpl.BootstrapStatic, index *fpl.FixtureIndex, team *fpl.ManagerTeam, now time.Time) []TransferSuggestion {
	if bootstrap == nil || team == nil || len(team.Picks) == 0 {
		logrus.Error("Transfer suggestions skipped: missing bootstrap or team data")
		return nil
	}
	if index == nil {
		index = fpl.NewFixtureIndex(nil)
	}

	type weakLink struct {
		player    *fpl.Player
		projected float64
	}

	var starters []weakLink
	for _, pick := range team.StartingXI() {
		player := bootstrap.PlayerByID(pick.Element)
		if player == nil {
			continue
		}
		starters = append(starters, weakLink{player, fpl.Num(player.PointsPerGame) * 4})
	}
	sort.SliceStable(starters, func(i, j int) bool {
		return starters[i].projected < starters[j].projected
	})
	if len(starters) > weakestLinkCount {
		starters = starters[:weakestLinkCount]
	}

	var suggestions []TransferSuggestion
	for _, weak := range starters {
		out := weak.player
		outProjection := projectFourGameweeks(out)

		for i := range bootstrap.Elements {
			candidate := &bootstrap.Elements[i]
			if candidate.ElementType != out.ElementType {
				continue
			}
			if team.HasPlayer(candidate.ID) {
				continue
			}
			if candidate.Status == "i" {
				continue
			}
			if candidate.Minutes <= minCandidateMinutes {
				continue
			}
			if candidate.NowCost > out.NowCost+budgetWindow {
				continue
			}

			gain := projectFourGameweeks(candidate) - outProjection
			if gain <= minProjectedGain {
				continue
			}

			avgDifficulty := index.AvgDifficulty(candidate.Team, now, 4)
			easeMultiplier := (5 - avgDifficulty) / 2.5
			predicted := PredictPoints(candidate, index, now)

			score := (5*gain +
				10*fpl.Num(candidate.ExpectedGoals) +
				8*fpl.Num(candidate.ExpectedAssists) +
				0.2*fpl.Chance(candidate.ChanceOfPlayingNextRound) +
				5*(5-avgDifficulty))*easeMultiplier +
				2*predicted

			suggestions = append(suggestions, TransferSuggestion{
				Out:             out,
				In:              candidate,
				ProjectedGain:   gain,
				PredictedPoints: predicted,
				Score:           score,
				PriceDiff:       candidate.Price() - out.Price(),
				AvgDifficulty:   avgDifficulty,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// projectFourGameweeks estimates points over the next four gameweeks
// from points per game with form and minutes multipliers.
func projectFourGameweeks(player *fpl.Player) float64 {
	ppg := fpl.Num(player.PointsPerGame)

	formMultiplier := 1 + (fpl.Num(player.Form)-ppg)*0.1
	if formMultiplier < 0.7 {
		formMultiplier = 0.7
	} else if formMultiplier > 1.3 {
		formMultiplier = 1.3
	}

	minutesMultiplier := 0.7
	switch {
	case player.Minutes > 450:
		minutesMultiplier = 1.1
	case player.Minutes > 270:
		minutesMultiplier = 1.0
	case player.Minutes > 90:
		minutesMultiplier = 0.9
	}

	return ppg * 4 * formMultiplier * minutesMultiplier
}
