package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
)

func TestPredictPoints(t *testing.T) {
	player := &fpl.Player{
		ID: 1, Team: 1, PointsPerGame: "4.0", Form: "4.5",
		EventPoints: 5, Minutes: 900,
	}

	predicted := PredictPoints(player, oneFixtureEach(), testNow)
	assert.InDelta(t, 6.8, predicted, 0.001)
}

func TestPredictPointsNoUpcomingFixtures(t *testing.T) {
	player := &fpl.Player{ID: 1, Team: 1, PointsPerGame: "4.0", Minutes: 900}
	assert.Zero(t, PredictPoints(player, fpl.NewFixtureIndex(nil), testNow))
}

func TestPredictPointsHarderRunScoresLower(t *testing.T) {
	player := &fpl.Player{ID: 1, Team: 1, PointsPerGame: "4.0", Form: "4.5", EventPoints: 5, Minutes: 900}

	ko := kickoff(7)
	easy := fpl.NewFixtureIndex([]fpl.Fixture{
		{Event: 11, TeamH: 1, TeamA: 6, TeamHDifficulty: 2, TeamADifficulty: 4, KickoffTime: ko},
	})
	hard := fpl.NewFixtureIndex([]fpl.Fixture{
		{Event: 11, TeamH: 6, TeamA: 1, TeamHDifficulty: 2, TeamADifficulty: 5, KickoffTime: ko},
	})

	assert.Greater(t, PredictPoints(player, easy, testNow), PredictPoints(player, hard, testNow))
}
