// Package engine contains the recommendation heuristics: chip advice,
// transfer suggestions, captain picks, squad planning and value
// projection. Every function is pure and deterministic over the
// snapshot it is handed; input problems are logged and degrade to
// zero or neutral output instead of propagating.
package engine

import (
	"strings"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
)

// Weights holds the scoring constants shared across the chip and
// transfer heuristics.
type Weights struct {
	Injury            float64
	PriceChange       float64
	DoubleGW          float64
	TransferCost      float64
	Form              float64
	FixtureDifficulty float64
	BenchMinutes      float64
	BenchForm         float64
	BenchOwnership    float64
	MinRecommendScore float64
}

// DefaultWeights are the tuned production constants.
var DefaultWeights = Weights{
	Injury:            0.8,
	PriceChange:       0.3,
	DoubleGW:          1.5,
	TransferCost:      0.4,
	Form:              0.5,
	FixtureDifficulty: 0.2,
	BenchMinutes:      1.5,
	BenchForm:         0.3,
	BenchOwnership:    0.02,
	MinRecommendScore: 4.5,
}

// positionWeights scale bench contributions by element type.
var positionWeights = map[int]float64{
	fpl.PositionGK:  0.8,
	fpl.PositionDEF: 1.2,
	fpl.PositionMID: 1.5,
	fpl.PositionFWD: 1.3,
}

// IsAvailable reports whether a player can be selected. A player is
// out when either round's playing chance is zero, when flagged
// unavailable/injured/suspended, or when the news feed mentions a
// suspension.
func IsAvailable(p *fpl.Player) bool {
	if p.ChanceOfPlayingNextRound != nil && *p.ChanceOfPlayingNextRound == 0 {
		return false
	}
	if p.ChanceOfPlayingThisRound != nil && *p.ChanceOfPlayingThisRound == 0 {
		return false
	}
	switch p.Status {
	case "u", "i", "s":
		return false
	}
	if p.News != "" && strings.Contains(strings.ToLower(p.News), "suspended") {
		return false
	}
	return true
}

func clampMax(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
