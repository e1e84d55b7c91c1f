package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
)

// builderMarket is a flat-priced player pool with more than a full
// squad's worth of eligible players in every position. Club 1 hosts
// the four highest-value defenders so the per-club cap gets tested.
func builderMarket() *fpl.BootstrapStatic {
	bootstrap := &fpl.BootstrapStatic{
		Events: []fpl.Event{{ID: 10, IsCurrent: true}, {ID: 11, IsNext: true}},
	}
	add := func(id, club, position int, ep string) {
		bootstrap.Elements = append(bootstrap.Elements, fpl.Player{
			ID: id, WebName: "Player", Team: club, ElementType: position,
			EPNext: ep, NowCost: 50, Status: "a",
		})
	}

	add(1, 2, fpl.PositionGK, "5.0")
	add(2, 3, fpl.PositionGK, "4.5")
	add(3, 4, fpl.PositionGK, "4.0")

	add(10, 1, fpl.PositionDEF, "9.0")
	add(11, 1, fpl.PositionDEF, "8.5")
	add(12, 1, fpl.PositionDEF, "8.0")
	add(13, 1, fpl.PositionDEF, "7.5")
	add(14, 2, fpl.PositionDEF, "4.0")
	add(15, 3, fpl.PositionDEF, "3.9")
	add(16, 4, fpl.PositionDEF, "3.8")

	add(20, 5, fpl.PositionMID, "6.0")
	add(21, 5, fpl.PositionMID, "5.8")
	add(22, 5, fpl.PositionMID, "5.6")
	add(23, 6, fpl.PositionMID, "5.4")
	add(24, 6, fpl.PositionMID, "5.2")
	add(25, 6, fpl.PositionMID, "5.0")

	add(30, 7, fpl.PositionFWD, "5.5")
	add(31, 7, fpl.PositionFWD, "5.3")
	add(32, 8, fpl.PositionFWD, "5.1")
	add(33, 8, fpl.PositionFWD, "4.9")

	// Best value on paper but a doubt, so never drafted.
	bootstrap.Elements = append(bootstrap.Elements, fpl.Player{
		ID: 40, WebName: "Doubtful", Team: 9, ElementType: fpl.PositionDEF,
		EPNext: "9.9", NowCost: 50, Status: "a", ChanceOfPlayingNextRound: pf(50),
	})

	return bootstrap
}

func TestPlanSquadBuilderConstraints(t *testing.T) {
	plan := PlanSquad(builderMarket(), oneFixtureEach(), nil, testNow)

	assert.Equal(t, ModeBuilder, plan.Mode)
	require.Len(t, plan.Squad, squadSize)

	positionCounts := make(map[int]int)
	clubCounts := make(map[int]int)
	ids := make(map[int]bool)
	for _, slot := range plan.Squad {
		positionCounts[slot.Player.ElementType]++
		clubCounts[slot.Player.Team]++
		ids[slot.Player.ID] = true
	}
	assert.Equal(t, 2, positionCounts[fpl.PositionGK])
	assert.Equal(t, 5, positionCounts[fpl.PositionDEF])
	assert.Equal(t, 5, positionCounts[fpl.PositionMID])
	assert.Equal(t, 3, positionCounts[fpl.PositionFWD])

	assert.Equal(t, 3, clubCounts[1], "club cap holds even for the best-value club")
	assert.False(t, ids[13], "fourth defender from the capped club stays out")
	assert.False(t, ids[40], "players under a fitness doubt stay out")

	// 15 players at 5.0 each against the 100.0 budget.
	assert.InDelta(t, 25.0, plan.RemainingBudget, 0.001)
}

func TestPlanSquadBuilderLineup(t *testing.T) {
	plan := PlanSquad(builderMarket(), oneFixtureEach(), &fpl.ManagerTeam{}, testNow)

	require.Len(t, plan.Squad, squadSize)
	assert.Contains(t, []string{"3-4-3", "3-5-2", "4-3-3", "4-4-2", "5-3-2"}, plan.Formation)
	for i, slot := range plan.Squad {
		assert.Equal(t, i+1, slot.Position)
	}
	assert.Equal(t, fpl.PositionGK, plan.Squad[11].Player.ElementType, "reserve keeper sits first on the bench")

	assert.Equal(t, 10, plan.CaptainID, "captain is the highest expected scorer")
	assert.Equal(t, 11, plan.ViceCaptainID)
	assert.Greater(t, plan.TotalPoints, 0.0)
}

func TestPlanSquadBuilderRunsOutOfPlayers(t *testing.T) {
	bootstrap := builderMarket()
	// Keepers and defenders only, so the midfield and attack quotas
	// can never fill.
	bootstrap.Elements = bootstrap.Elements[:10]

	plan := PlanSquad(bootstrap, oneFixtureEach(), nil, testNow)
	assert.Equal(t, ModeBuilder, plan.Mode)
	assert.Len(t, plan.Squad, 7)
	assert.Empty(t, plan.Formation, "no legal shape exists for a partial squad")
}

func TestPlanSquadOptimizerHolds(t *testing.T) {
	bootstrap := steadySquadBootstrap()
	// The only market option is strictly worse than anyone in the squad.
	bootstrap.Elements = append(bootstrap.Elements, fpl.Player{
		ID: 100, WebName: "Downgrade", Team: 6, ElementType: fpl.PositionGK,
		EPNext: "1.0", NowCost: 40, Status: "a",
	})
	team := steadyTeam()
	team.Transfers.Limit = 1

	plan := PlanSquad(bootstrap, oneFixtureEach(), team, testNow)

	assert.Equal(t, ModeOptimizer, plan.Mode)
	assert.Empty(t, plan.Transfers)
	assert.Zero(t, plan.PointsDelta)
	assert.Zero(t, plan.TransferCost)
	require.Len(t, plan.Squad, squadSize)
}

func TestPlanSquadOptimizerSingleTransfer(t *testing.T) {
	bootstrap := steadySquadBootstrap()
	// The backup keeper is dead weight and a clear upgrade exists.
	bootstrap.Elements[11].EPNext = "2.0"
	bootstrap.Elements = append(bootstrap.Elements, fpl.Player{
		ID: 100, WebName: "Upgrade", Team: 6, ElementType: fpl.PositionGK,
		EPNext: "6.0", NowCost: 55, Status: "a",
	})
	team := steadyTeam()
	team.Transfers.Limit = 1

	plan := PlanSquad(bootstrap, oneFixtureEach(), team, testNow)

	assert.Equal(t, ModeOptimizer, plan.Mode)
	require.Len(t, plan.Transfers, 1)
	assert.Equal(t, 12, plan.Transfers[0].Out.ID)
	assert.Equal(t, 100, plan.Transfers[0].In.ID)
	assert.InDelta(t, 4.0, plan.PointsDelta, 0.001)
	assert.Zero(t, plan.TransferCost, "a single move rides the free transfer")

	assert.Equal(t, 100, plan.CaptainID, "the incoming keeper tops the XI on expected points")
}

func TestPlanSquadOptimizerTripleTransfer(t *testing.T) {
	bootstrap := steadySquadBootstrap()
	// The whole bench outside the reserve midfielder is dead weight.
	bootstrap.Elements[11].EPNext = "1.0"
	bootstrap.Elements[12].EPNext = "1.0"
	bootstrap.Elements[13].EPNext = "1.0"
	bootstrap.Elements = append(bootstrap.Elements,
		fpl.Player{ID: 100, WebName: "NewKeeper", Team: 6, ElementType: fpl.PositionGK, EPNext: "6.0", NowCost: 55, Status: "a"},
		fpl.Player{ID: 101, WebName: "NewBackA", Team: 7, ElementType: fpl.PositionDEF, EPNext: "6.0", NowCost: 55, Status: "a"},
		fpl.Player{ID: 102, WebName: "NewBackB", Team: 8, ElementType: fpl.PositionDEF, EPNext: "6.0", NowCost: 55, Status: "a"},
	)
	team := steadyTeam()
	team.Transfers.Limit = 1

	plan := PlanSquad(bootstrap, oneFixtureEach(), team, testNow)

	// Three +5 upgrades beat one free transfer (+5) and a double (+6)
	// even after the 8-point hit.
	require.Len(t, plan.Transfers, 3)
	assert.Equal(t, 8, plan.TransferCost)
	assert.InDelta(t, 7.0, plan.PointsDelta, 0.001)

	outs := make(map[int]bool)
	ins := make(map[int]bool)
	for _, tr := range plan.Transfers {
		outs[tr.Out.ID] = true
		ins[tr.In.ID] = true
		assert.Equal(t, tr.Out.ElementType, tr.In.ElementType)
	}
	assert.Equal(t, map[int]bool{12: true, 13: true, 14: true}, outs)
	assert.Len(t, ins, 3, "a hit plan replaces three distinct players")
}

func TestPlanSquadOptimizerPremiumNeedsThreeSales(t *testing.T) {
	bootstrap := steadySquadBootstrap()
	// One premium target worth three combined sales but far beyond any
	// single outgoing player plus the bank.
	bootstrap.Elements = append(bootstrap.Elements, fpl.Player{
		ID: 150, WebName: "Premium", Team: 6, ElementType: fpl.PositionGK,
		EPNext: "20.0", NowCost: 150, Status: "a",
	})
	team := steadyTeam()
	team.Transfers.Limit = 1

	plan := PlanSquad(bootstrap, oneFixtureEach(), team, testNow)

	// A swap is only funded by the player actually sold, so no plan
	// can afford the premium and the squad holds.
	assert.Empty(t, plan.Transfers)
	assert.Zero(t, plan.PointsDelta)
	assert.Zero(t, plan.TransferCost)
}

func TestPlanSquadOptimizerRespectsBudget(t *testing.T) {
	bootstrap := steadySquadBootstrap()
	bootstrap.Elements[11].EPNext = "2.0"
	// Upgrade exists but the bank cannot cover it.
	bootstrap.Elements = append(bootstrap.Elements, fpl.Player{
		ID: 100, WebName: "Premium", Team: 6, ElementType: fpl.PositionGK,
		EPNext: "6.0", NowCost: 90, Status: "a",
	})
	team := steadyTeam()
	team.Transfers.Limit = 1
	team.Stats.Bank = 10

	plan := PlanSquad(bootstrap, oneFixtureEach(), team, testNow)
	assert.Empty(t, plan.Transfers, "unaffordable targets are skipped")
	assert.Zero(t, plan.PointsDelta)
}

func TestPlanSquadMissingData(t *testing.T) {
	plan := PlanSquad(nil, nil, nil, testNow)
	assert.Empty(t, plan.Mode)
	assert.Empty(t, plan.Squad)
}
