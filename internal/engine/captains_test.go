package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
)

func TestSuggestCaptainsRanking(t *testing.T) {
	bootstrap := &fpl.BootstrapStatic{
		Elements: []fpl.Player{
			{ID: 1, WebName: "Banks", Team: 1, Form: "6.0", PointsPerGame: "6.0", Minutes: 600},
			{ID: 2, WebName: "Rotated", Team: 1, Form: "8.0", PointsPerGame: "8.0", Minutes: 100},
			{ID: 3, WebName: "Seasonless", Team: 6, Form: "7.0", PointsPerGame: "7.0", Minutes: 600},
			{ID: 4, WebName: "Grinder", Team: 2, Form: "4.0", PointsPerGame: "4.0", Minutes: 600},
		},
	}
	ko := kickoff(5)
	index := fpl.NewFixtureIndex([]fpl.Fixture{
		{Event: 11, TeamH: 1, TeamA: 9, TeamHDifficulty: 2, TeamADifficulty: 4, KickoffTime: ko},
		{Event: 11, TeamH: 10, TeamA: 2, TeamHDifficulty: 2, TeamADifficulty: 4, KickoffTime: ko},
	})

	suggestions := SuggestCaptains(bootstrap, index, testNow)
	require.Len(t, suggestions, 2, "low-minute and fixtureless players are excluded")

	top := suggestions[0]
	assert.Equal(t, "Banks", top.Player.WebName)
	assert.InDelta(t, 17.0, top.Score, 0.001)
	assert.Equal(t, 2, top.Difficulty)
	assert.Equal(t, 9, top.Opponent)
	assert.True(t, top.Home)

	second := suggestions[1]
	assert.Equal(t, "Grinder", second.Player.WebName)
	assert.InDelta(t, 10.0, second.Score, 0.001)
	assert.Equal(t, 4, second.Difficulty)
	assert.Equal(t, 10, second.Opponent)
	assert.False(t, second.Home)
}

func TestSuggestCaptainsCapsAtFive(t *testing.T) {
	bootstrap := steadySquadBootstrap()
	suggestions := SuggestCaptains(bootstrap, oneFixtureEach(), testNow)
	require.NotEmpty(t, suggestions)
	assert.LessOrEqual(t, len(suggestions), maxCaptainSuggestions)
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].Score, suggestions[i].Score)
	}
}

func TestSuggestCaptainsMissingData(t *testing.T) {
	assert.Nil(t, SuggestCaptains(nil, nil, testNow))
	assert.Nil(t, SuggestCaptains(&fpl.BootstrapStatic{}, nil, testNow))
}
