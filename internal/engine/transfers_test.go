package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
)

// transferScenario returns a squad with one clearly weak defender and
// a market of replacement candidates exercising each filter.
func transferScenario() (*fpl.BootstrapStatic, *fpl.ManagerTeam) {
	bootstrap := steadySquadBootstrap()

	// Element 2 (DEF, starter) is the weak link.
	bootstrap.Elements[1].PointsPerGame = "2.0"
	bootstrap.Elements[1].Form = "2.0"

	candidates := []fpl.Player{
		// Eligible upgrade.
		{ID: 100, WebName: "Upgrade", Team: 6, ElementType: fpl.PositionDEF, PointsPerGame: "4.0", Form: "4.0", Minutes: 500, NowCost: 60, Status: "a", ExpectedGoals: "1.5", ExpectedAssists: "0.8"},
		// Same stats as the upgrade but the wrong position.
		{ID: 101, WebName: "Midfielder", Team: 6, ElementType: fpl.PositionMID, PointsPerGame: "4.0", Form: "4.0", Minutes: 500, NowCost: 60, Status: "a"},
		// Injured.
		{ID: 102, WebName: "Crocked", Team: 7, ElementType: fpl.PositionDEF, PointsPerGame: "5.0", Form: "5.0", Minutes: 500, NowCost: 60, Status: "i"},
		// Not enough minutes.
		{ID: 103, WebName: "Fringe", Team: 7, ElementType: fpl.PositionDEF, PointsPerGame: "5.0", Form: "5.0", Minutes: 100, NowCost: 60, Status: "a"},
		// Too expensive.
		{ID: 104, WebName: "Premium", Team: 8, ElementType: fpl.PositionDEF, PointsPerGame: "6.0", Form: "6.0", Minutes: 500, NowCost: 90, Status: "a"},
		// Marginal gain only.
		{ID: 105, WebName: "Sideways", Team: 8, ElementType: fpl.PositionDEF, PointsPerGame: "2.2", Form: "2.2", Minutes: 500, NowCost: 60, Status: "a"},
	}
	bootstrap.Elements = append(bootstrap.Elements, candidates...)

	return bootstrap, steadyTeam()
}

func TestSuggestTransfersFilters(t *testing.T) {
	bootstrap, team := transferScenario()
	index := oneFixtureEach()

	suggestions := SuggestTransfers(bootstrap, index, team, testNow)
	require.NotEmpty(t, suggestions)

	inIDs := make(map[int]bool)
	for _, s := range suggestions {
		inIDs[s.In.ID] = true
		assert.Equal(t, s.Out.ElementType, s.In.ElementType, "suggestions must keep the position")
		assert.False(t, team.HasPlayer(s.In.ID), "suggestions must be unowned")
		assert.Greater(t, s.ProjectedGain, minProjectedGain)
		assert.LessOrEqual(t, s.In.NowCost, s.Out.NowCost+budgetWindow)
		assert.Greater(t, s.PredictedPoints, 0.0)
		assert.InDelta(t, PredictPoints(s.In, index, testNow), s.PredictedPoints, 0.001,
			"suggestion must carry the incoming player's point prediction")
	}

	assert.True(t, inIDs[100], "the eligible upgrade should be suggested")
	assert.False(t, inIDs[101], "wrong position must be filtered")
	assert.False(t, inIDs[102], "injured players must be filtered")
	assert.False(t, inIDs[103], "low-minute players must be filtered")
	assert.False(t, inIDs[104], "over-budget players must be filtered")
	assert.False(t, inIDs[105], "marginal gains must be filtered")
}

func TestSuggestTransfersCapAndOrdering(t *testing.T) {
	bootstrap, team := transferScenario()
	// Flood the market with eligible defenders of varying quality.
	for i := 0; i < 8; i++ {
		bootstrap.Elements = append(bootstrap.Elements, fpl.Player{
			ID: 200 + i, WebName: "Option", Team: 6 + i%4, ElementType: fpl.PositionDEF,
			PointsPerGame: "4.5", Form: "4.5", Minutes: 500, NowCost: 55, Status: "a",
			ExpectedGoals: "0.5",
		})
	}

	suggestions := SuggestTransfers(bootstrap, oneFixtureEach(), team, testNow)
	require.Len(t, suggestions, maxSuggestions)
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].Score, suggestions[i].Score, "results must be sorted by score")
	}
}

func TestSuggestTransfersEmptyWhenSquadStrong(t *testing.T) {
	bootstrap := steadySquadBootstrap()
	// No market outside the squad at all.
	suggestions := SuggestTransfers(bootstrap, oneFixtureEach(), steadyTeam(), testNow)
	assert.Empty(t, suggestions)
}

func TestSuggestTransfersMissingInputs(t *testing.T) {
	assert.Nil(t, SuggestTransfers(nil, nil, nil, testNow))
	assert.Nil(t, SuggestTransfers(steadySquadBootstrap(), nil, &fpl.ManagerTeam{}, testNow))
}

func TestProjectFourGameweeks(t *testing.T) {
	heavy := fpl.Player{PointsPerGame: "5.0", Form: "5.0", Minutes: 900}
	assert.InDelta(t, 22.0, projectFourGameweeks(&heavy), 0.001)

	// Form above baseline lifts the projection, low minutes drag it.
	hot := fpl.Player{PointsPerGame: "4.0", Form: "6.0", Minutes: 300}
	assert.InDelta(t, 4.0*4*1.2*1.0, projectFourGameweeks(&hot), 0.001)

	cold := fpl.Player{PointsPerGame: "4.0", Form: "0.0", Minutes: 900}
	assert.InDelta(t, 4.0*4*0.7*1.1, projectFourGameweeks(&cold), 0.001)
}
