package engine

import (
	"math"
	"time"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
)

// formWeights decay recent gameweek points, most recent first.
var formWeights = [4]float64{0.4, 0.3, 0.2, 0.1}

func movingAverage(values []float64, window int) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) > window {
		values = values[len(values)-window:]
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func weightedForm(points []float64) float64 {
	if len(points) > len(formWeights) {
		points = points[len(points)-len(formWeights):]
	}
	form := 0.0
	for i, p := range points {
		form += p * formWeights[i]
	}
	return form
}

// PredictPoints estimates a player's score over their next fixtures
// from recent scoring, minutes played and fixture difficulty with a
// home/away adjustment, scaled by a confidence factor.
func PredictPoints(player *fpl.Player, index *fpl.FixtureIndex, now time.Time) float64 {
	next := index.NextFixtures(player.Team, now, 3)
	if len(next) == 0 {
		return 0
	}

	ppg := fpl.Num(player.PointsPerGame)
	recentPoints := []float64{
		float64(player.EventPoints),
		ppg * 3,
		ppg * 2,
		ppg * 1,
	}

	baseline := movingAverage(recentPoints, 4) * 0.4
	form := weightedForm(recentPoints) * 0.3

	minutesFactor := 0.7
	switch {
	case player.Minutes > 450:
		minutesFactor = 1.1
	case player.Minutes > 270:
		minutesFactor = 1.0
	case player.Minutes > 90:
		minutesFactor = 0.9
	}
	minutesImpact := (minutesFactor - 0.7) * 2

	totalDifficulty := 0.0
	for _, f := range next {
		d, home := f.DifficultyFor(player.Team)
		factor := 1.1
		if home {
			factor = 0.9
		}
		totalDifficulty += float64(d) * factor
	}
	avgDifficulty := totalDifficulty / float64(len(next))
	difficultyImpact := (5 - avgDifficulty) / 5 * 2

	predicted := baseline + form + minutesImpact + difficultyImpact

	confidence := 0.5
	if ppg > 0 {
		confidence += 0.2
	}
	if float64(player.Minutes)/3 > 60 {
		confidence += 0.2
	}
	if fpl.Num(player.Form) > 5 {
		confidence += 0.1
	}
	if confidence > 1 {
		confidence = 1
	}

	return math.Round(predicted*(0.8+confidence*0.2)*10) / 10
}
