package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectSquadValueSteadySquad(t *testing.T) {
	team := steadyTeam()
	team.Transfers.Limit = 2

	projection := ProjectSquadValue(steadySquadBootstrap(), team, 11)

	assert.InDelta(t, 82.5, projection.CurrentValue, 0.001)
	assert.InDelta(t, 82.5, projection.ProjectedValue, 0.001, "no movers means no drift")
	assert.Empty(t, projection.RiskPlayers)
	assert.Empty(t, projection.GrowthPlayers)
	assert.Equal(t, 2, projection.FreeTransfers)
	assert.Equal(t, 11, projection.NextGameweek)
}

func TestProjectSquadValueMovers(t *testing.T) {
	bootstrap := steadySquadBootstrap()

	// Well-owned player in form drifts up.
	bootstrap.Elements[5].Form = "6.5"
	bootstrap.Elements[5].SelectedByPercent = "25.0"

	// In-form differential rising already this gameweek.
	bootstrap.Elements[9].WebName = "Differential"
	bootstrap.Elements[9].Form = "6.5"
	bootstrap.Elements[9].SelectedByPercent = "5.0"
	bootstrap.Elements[9].CostChangeEvent = 1

	// Heavily-owned player out of form and dropping.
	bootstrap.Elements[2].WebName = "Deadweight"
	bootstrap.Elements[2].Form = "2.0"
	bootstrap.Elements[2].SelectedByPercent = "30.0"
	bootstrap.Elements[2].CostChangeEvent = -1

	projection := ProjectSquadValue(bootstrap, steadyTeam(), 11)

	assert.InDelta(t, 82.5, projection.CurrentValue, 0.001)
	assert.InDelta(t, 82.7, projection.ProjectedValue, 0.001)

	require.Len(t, projection.GrowthPlayers, 1)
	assert.Equal(t, "Differential", projection.GrowthPlayers[0].Name)
	assert.InDelta(t, 0.3, projection.GrowthPlayers[0].Change, 0.001)

	require.Len(t, projection.RiskPlayers, 1)
	assert.Equal(t, "Deadweight", projection.RiskPlayers[0].Name)
	assert.InDelta(t, -0.2, projection.RiskPlayers[0].Change, 0.001)
}

func TestProjectSquadValueMissingData(t *testing.T) {
	projection := ProjectSquadValue(nil, nil, 12)
	assert.Zero(t, projection.CurrentValue)
	assert.Zero(t, projection.ProjectedValue)
	assert.Equal(t, 12, projection.NextGameweek)
}
