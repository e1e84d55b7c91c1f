package engine

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
)

// PlayerMovement flags a squad player likely to rise or fall in
// price.
type PlayerMovement struct {
	Name   string  `json:"name"`
	Change float64 `json:"change"`
}

// ValueProjection forecasts the squad's market value drift from form,
// ownership and recent price momentum.
type ValueProjection struct {
	CurrentValue   float64          `json:"current_value"`
	ProjectedValue float64          `json:"projected_value"`
	RiskPlayers    []PlayerMovement `json:"risk_players"`
	GrowthPlayers  []PlayerMovement `json:"growth_players"`
	FreeTransfers  int              `json:"free_transfers"`
	NextGameweek   int              `json:"next_gameweek"`
}

// ProjectSquadValue estimates per-player price drift for the squad.
// High-form, well-owned players drift up; out-of-form, heavily-owned
// players are flagged as drop risks; low-owned form players as growth
// picks.
func ProjectSquadValue(bootstrap *fpl.BootstrapStatic, team *fpl.ManagerTeam, nextGameweek int) ValueProjection {
	projection := ValueProjection{NextGameweek: nextGameweek}
	if bootstrap == nil || team == nil {
		logrus.Error("Value projection skipped: missing bootstrap or team data")
		return projection
	}
	projection.FreeTransfers = team.Transfers.Limit

	for _, pick := range team.Picks {
		player := bootstrap.PlayerByID(pick.Element)
		if player == nil {
			continue
		}
		price := player.Price()
		form := fpl.Num(player.Form)
		ownership := fpl.Num(player.SelectedByPercent)

		var change float64
		if form > 6 && ownership > 20 {
			change += 0.2
		} else if form > 4 && ownership > 15 {
			change += 0.1
		}
		if player.CostChangeEvent > 0 {
			change += 0.1
		} else if player.CostChangeEvent < 0 {
			change -= 0.1
		}

		if form > 5 && ownership < 10 {
			projection.GrowthPlayers = append(projection.GrowthPlayers, PlayerMovement{
				Name:   player.WebName,
				Change: change + 0.2,
			})
		}
		if form < 3 && ownership > 20 {
			projection.RiskPlayers = append(projection.RiskPlayers, PlayerMovement{
				Name:   player.WebName,
				Change: -0.2,
			})
		}

		projection.CurrentValue += price
		projection.ProjectedValue += price + change
	}

	projection.CurrentValue = round1(projection.CurrentValue)
	projection.ProjectedValue = round1(projection.ProjectedValue)
	return projection
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
