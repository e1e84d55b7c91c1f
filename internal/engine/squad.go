package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
)

// Squad plan modes.
const (
	ModeOptimizer = "optimizer"
	ModeBuilder   = "builder"
)

// Squad building constraints.
const (
	squadSize     = 15
	builderBudget = 100.0
	maxPerClub    = 3
	// minBuilderChance is the playing-chance floor for fresh squads.
	minBuilderChance = 75.0
)

// positionQuotas is the FPL squad makeup per element type.
var positionQuotas = map[int]int{
	fpl.PositionGK:  2,
	fpl.PositionDEF: 5,
	fpl.PositionMID: 5,
	fpl.PositionFWD: 3,
}

// formations are the legal starting-XI shapes tried when splitting a
// squad into XI and bench.
var formations = []struct{ def, mid, fwd int }{
	{3, 4, 3},
	{3, 5, 2},
	{4, 3, 3},
	{4, 4, 2},
	{5, 3, 2},
}

// SquadSlot places a player at a squad position (1-11 starting XI,
// 12-15 bench).
type SquadSlot struct {
	Player   *fpl.Player `json:"player"`
	Position int         `json:"position"`
}

// RecommendedTransfer is one out/in pair in an optimizer plan.
type RecommendedTransfer struct {
	Out *fpl.Player `json:"out"`
	In  *fpl.Player `json:"in"`
}

// SquadPlan is the dream-team result. Mode selects which fields are
// meaningful: optimizer plans carry transfers and a points delta,
// builder plans carry a remaining budget.
type SquadPlan struct {
	Mode            string                `json:"mode"`
	Squad           []SquadSlot           `json:"squad"`
	Transfers       []RecommendedTransfer `json:"transfers"`
	PointsDelta     float64               `json:"points_delta"`
	TransferCost    int                   `json:"transfer_cost"`
	CaptainID       int                   `json:"captain_id"`
	ViceCaptainID   int                   `json:"vice_captain_id"`
	Formation       string                `json:"formation"`
	TotalPoints     float64               `json:"total_points"`
	RemainingBudget float64               `json:"remaining_budget,omitempty"`
}

// PlanSquad dispatches on whether the manager has a linked squad:
// with one the existing squad is optimized via transfer scenarios,
// without one a fresh squad is built from scratch.
func PlanSquad(bootstrap *fpl.BootstrapStatic, index *fpl.FixtureIndex, team *fpl.ManagerTeam, now time.Time) SquadPlan {
	if bootstrap == nil || len(bootstrap.Elements) == 0 {
		logrus.Error("Squad plan skipped: missing bootstrap data")
		return SquadPlan{}
	}
	if index == nil {
		index = fpl.NewFixtureIndex(nil)
	}
	if team != nil && len(team.Picks) > 0 {
		return optimizeSquad(bootstrap, index, team, now)
	}
	return buildSquad(bootstrap, index, now)
}

// optimizeSquad ranks the current squad by keep score, the market by
// target score, simulates single/double/triple transfer scenarios and
// keeps the one with the best net points delta. Non-positive deltas
// mean hold.
func optimizeSquad(bootstrap *fpl.BootstrapStatic, index *fpl.FixtureIndex, team *fpl.ManagerTeam, now time.Time) SquadPlan {
	type scored struct {
		player *fpl.Player
		score  float64
	}

	var squad []*fpl.Player
	var keepScores []scored
	for _, pick := range team.Picks {
		player := bootstrap.PlayerByID(pick.Element)
		if player == nil {
			continue
		}
		squad = append(squad, player)
		keep := fpl.Num(player.EPNext)*0.5 +
			fpl.Num(player.Form)*0.2 +
			fpl.Num(player.ICTIndex)*0.1 -
			index.AvgDifficulty(player.Team, now, 3)*0.2
		keepScores = append(keepScores, scored{player, keep})
	}
	sort.SliceStable(keepScores, func(i, j int) bool {
		return keepScores[i].score < keepScores[j].score
	})
	outCandidates := keepScores
	if len(outCandidates) > weakestLinkCount {
		outCandidates = outCandidates[:weakestLinkCount]
	}

	// Market targets by position, best first.
	targets := make(map[int][]scored)
	for i := range bootstrap.Elements {
		player := &bootstrap.Elements[i]
		if team.HasPlayer(player.ID) || !IsAvailable(player) {
			continue
		}
		target := fpl.Num(player.EPNext)*1.2 +
			fpl.Num(player.Form)*0.5 +
			fpl.Num(player.ICTIndex)*0.2
		targets[player.ElementType] = append(targets[player.ElementType], scored{player, target})
	}
	// Scenario search only ever needs the short list of best targets.
	const maxTargets = 5
	for et := range targets {
		list := targets[et]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].score > list[j].score
		})
		if len(list) > maxTargets {
			targets[et] = list[:maxTargets]
		}
	}

	bank := team.Stats.Bank
	freeTransfers := team.Transfers.Limit

	type scenario struct {
		transfers []RecommendedTransfer
		delta     float64
		cost      int
	}
	var scenarios []scenario

	if freeTransfers >= 1 && len(outCandidates) >= 1 {
		out := outCandidates[0].player
		budget := out.NowCost + bank
		for _, t := range targets[out.ElementType] {
			if t.player.NowCost > budget {
				continue
			}
			scenarios = append(scenarios, scenario{
				transfers: []RecommendedTransfer{{Out: out, In: t.player}},
				delta:     fpl.Num(t.player.EPNext) - fpl.Num(out.EPNext),
			})
			break
		}
	}

	if freeTransfers >= 1 && len(outCandidates) >= 2 {
		out1, out2 := outCandidates[0].player, outCandidates[1].player
		budget := out1.NowCost + out2.NowCost + bank
		bestDelta := 0.0
		var best []RecommendedTransfer
		for _, t1 := range targets[out1.ElementType] {
			for _, t2 := range targets[out2.ElementType] {
				if t1.player.ID == t2.player.ID {
					continue
				}
				if t1.player.NowCost+t2.player.NowCost > budget {
					continue
				}
				delta := fpl.Num(t1.player.EPNext) + fpl.Num(t2.player.EPNext) -
					fpl.Num(out1.EPNext) - fpl.Num(out2.EPNext) - 4
				if best == nil || delta > bestDelta {
					bestDelta = delta
					best = []RecommendedTransfer{{Out: out1, In: t1.player}, {Out: out2, In: t2.player}}
				}
			}
		}
		if best != nil {
			scenarios = append(scenarios, scenario{transfers: best, delta: bestDelta, cost: 4})
		}
	}

	if freeTransfers >= 1 && len(outCandidates) >= 3 {
		out1, out2, out3 := outCandidates[0].player, outCandidates[1].player, outCandidates[2].player
		budget := out1.NowCost + out2.NowCost + out3.NowCost + bank
		outEP := fpl.Num(out1.EPNext) + fpl.Num(out2.EPNext) + fpl.Num(out3.EPNext)
		bestDelta := 0.0
		var best []RecommendedTransfer
		for _, t1 := range targets[out1.ElementType] {
			for _, t2 := range targets[out2.ElementType] {
				if t2.player.ID == t1.player.ID {
					continue
				}
				for _, t3 := range targets[out3.ElementType] {
					if t3.player.ID == t1.player.ID || t3.player.ID == t2.player.ID {
						continue
					}
					if t1.player.NowCost+t2.player.NowCost+t3.player.NowCost > budget {
						continue
					}
					delta := fpl.Num(t1.player.EPNext) + fpl.Num(t2.player.EPNext) +
						fpl.Num(t3.player.EPNext) - outEP - 8
					if best == nil || delta > bestDelta {
						bestDelta = delta
						best = []RecommendedTransfer{
							{Out: out1, In: t1.player},
							{Out: out2, In: t2.player},
							{Out: out3, In: t3.player},
						}
					}
				}
			}
		}
		if best != nil {
			scenarios = append(scenarios, scenario{transfers: best, delta: bestDelta, cost: 8})
		}
	}

	best := scenario{delta: 0}
	hold := true
	for _, s := range scenarios {
		if s.delta > best.delta {
			best = s
			hold = false
		}
	}

	plan := SquadPlan{Mode: ModeOptimizer}
	working := squad
	if !hold {
		working = make([]*fpl.Player, len(squad))
		copy(working, squad)
		for _, tr := range best.transfers {
			for i, p := range working {
				if p.ID == tr.Out.ID {
					working[i] = tr.In
					break
				}
			}
		}
		plan.Transfers = best.transfers
		plan.PointsDelta = best.delta
		plan.TransferCost = best.cost
	}

	plan.Squad, plan.Formation, plan.TotalPoints = selectStartingXI(working)
	plan.CaptainID, plan.ViceCaptainID = pickCaptains(plan.Squad)
	return plan
}

// buildSquad greedily fills a fresh 15-man squad by three-gameweek
// value per million under the budget, club and position constraints,
// terminating early if no legal player remains.
func buildSquad(bootstrap *fpl.BootstrapStatic, index *fpl.FixtureIndex, now time.Time) SquadPlan {
	type valued struct {
		player *fpl.Player
		value  float64
	}

	var pool []valued
	for i := range bootstrap.Elements {
		player := &bootstrap.Elements[i]
		if fpl.Chance(player.ChanceOfPlayingNextRound) < minBuilderChance {
			continue
		}
		if player.NowCost <= 0 {
			continue
		}
		ep := fpl.Num(player.EPNext)
		value := (ep + 0.9*ep + 0.8*ep) / player.Price()
		pool = append(pool, valued{player, value})
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].value > pool[j].value
	})

	budget := builderBudget
	clubCounts := make(map[int]int)
	positionCounts := make(map[int]int)
	picked := make(map[int]bool)
	var squad []*fpl.Player

	for len(squad) < squadSize {
		found := false
		for _, v := range pool {
			p := v.player
			if picked[p.ID] {
				continue
			}
			if positionCounts[p.ElementType] >= positionQuotas[p.ElementType] {
				continue
			}
			if clubCounts[p.Team] >= maxPerClub {
				continue
			}
			if p.Price() > budget {
				continue
			}
			squad = append(squad, p)
			picked[p.ID] = true
			budget -= p.Price()
			clubCounts[p.Team]++
			positionCounts[p.ElementType]++
			found = true
			break
		}
		if !found {
			break
		}
	}

	plan := SquadPlan{Mode: ModeBuilder, RemainingBudget: budget}
	plan.Squad, plan.Formation, plan.TotalPoints = selectStartingXI(squad)
	plan.CaptainID, plan.ViceCaptainID = pickCaptains(plan.Squad)
	return plan
}

// selectStartingXI tries every legal formation, keeps the one whose
// XI sums the most expected points and orders the bench with the
// reserve keeper first.
func selectStartingXI(squad []*fpl.Player) ([]SquadSlot, string, float64) {
	if len(squad) == 0 {
		return nil, "", 0
	}

	byEP := make([]*fpl.Player, len(squad))
	copy(byEP, squad)
	sort.SliceStable(byEP, func(i, j int) bool {
		return fpl.Num(byEP[i].EPNext) > fpl.Num(byEP[j].EPNext)
	})

	byPosition := make(map[int][]*fpl.Player)
	for _, p := range byEP {
		byPosition[p.ElementType] = append(byPosition[p.ElementType], p)
	}

	sumEP := func(players []*fpl.Player, n int) float64 {
		total := 0.0
		for i := 0; i < n && i < len(players); i++ {
			total += fpl.Num(players[i].EPNext)
		}
		return total
	}

	bestIdx := -1
	bestScore := 0.0
	for i, f := range formations {
		if len(byPosition[fpl.PositionGK]) < 1 ||
			len(byPosition[fpl.PositionDEF]) < f.def ||
			len(byPosition[fpl.PositionMID]) < f.mid ||
			len(byPosition[fpl.PositionFWD]) < f.fwd {
			continue
		}
		score := sumEP(byPosition[fpl.PositionGK], 1) +
			sumEP(byPosition[fpl.PositionDEF], f.def) +
			sumEP(byPosition[fpl.PositionMID], f.mid) +
			sumEP(byPosition[fpl.PositionFWD], f.fwd)
		if bestIdx == -1 || score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}
	if bestIdx == -1 {
		// Not enough players for any shape; return everyone in EP order.
		slots := make([]SquadSlot, len(byEP))
		for i, p := range byEP {
			slots[i] = SquadSlot{Player: p, Position: i + 1}
		}
		return slots, "", sumEP(byEP, len(byEP))
	}

	f := formations[bestIdx]
	var slots []SquadSlot
	position := 1
	inXI := make(map[int]bool)
	appendLine := func(players []*fpl.Player, n int) {
		for i := 0; i < n; i++ {
			slots = append(slots, SquadSlot{Player: players[i], Position: position})
			inXI[players[i].ID] = true
			position++
		}
	}
	appendLine(byPosition[fpl.PositionGK], 1)
	appendLine(byPosition[fpl.PositionDEF], f.def)
	appendLine(byPosition[fpl.PositionMID], f.mid)
	appendLine(byPosition[fpl.PositionFWD], f.fwd)

	var remaining []*fpl.Player
	for _, p := range byEP {
		if !inXI[p.ID] {
			remaining = append(remaining, p)
		}
	}

	// Reserve keeper sits at slot 12, the rest follow by EP.
	benchPos := 12
	for i, p := range remaining {
		if p.ElementType == fpl.PositionGK {
			slots = append(slots, SquadSlot{Player: p, Position: benchPos})
			benchPos++
			remaining = append(remaining[:i], remaining[i+1:]...)
			break
		}
	}
	for _, p := range remaining {
		if benchPos > squadSize {
			break
		}
		slots = append(slots, SquadSlot{Player: p, Position: benchPos})
		benchPos++
	}

	formation := fmt.Sprintf("%d-%d-%d", f.def, f.mid, f.fwd)
	return slots, formation, bestScore
}

// pickCaptains takes the two highest expected scorers in the starting
// XI as captain and vice.
func pickCaptains(slots []SquadSlot) (captainID, viceCaptainID int) {
	var xi []*fpl.Player
	for _, s := range slots {
		if s.Position <= 11 {
			xi = append(xi, s.Player)
		}
	}
	sort.SliceStable(xi, func(i, j int) bool {
		return fpl.Num(xi[i].EPNext) > fpl.Num(xi[j].EPNext)
	})
	if len(xi) > 0 {
		captainID = xi[0].ID
	}
	if len(xi) > 1 {
		viceCaptainID = xi[1].ID
	}
	return captainID, viceCaptainID
}
