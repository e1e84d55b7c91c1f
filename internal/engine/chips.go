package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
)

// targetLookahead is how many gameweeks ahead the blank/double scan
// covers.
const targetLookahead = 10

// GameweekTarget annotates a future gameweek worth planning a chip
// around.
type GameweekTarget struct {
	Gameweek int      `json:"gameweek"`
	Type     string   `json:"type"` // "double" or "blank"
	Teams    []string `json:"teams,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// ChipRecommendation is the advisor's output: the best remaining chip
// (or "hold"), a priority tier and the per-chip score breakdown.
type ChipRecommendation struct {
	Chip            string             `json:"chip"`
	Label           string             `json:"label"`
	Reason          string             `json:"reason"`
	Priority        string             `json:"priority"` // high, medium, low, none
	Score           float64            `json:"score"`
	Scores          map[string]float64 `json:"scores"`
	TargetGameweeks []GameweekTarget   `json:"target_gameweeks"`
}

// ChipInputs bundles the snapshot the chip advisor scores against.
type ChipInputs struct {
	Bootstrap       *fpl.BootstrapStatic
	Fixtures        *fpl.FixtureIndex
	Team            *fpl.ManagerTeam
	CurrentGameweek int
	Now             time.Time
	Weights         Weights
}

func (in *ChipInputs) validate() error {
	if in.Bootstrap == nil || len(in.Bootstrap.Elements) == 0 {
		return fmt.Errorf("missing bootstrap data")
	}
	if in.Team == nil || len(in.Team.Picks) == 0 {
		return fmt.Errorf("missing team picks")
	}
	if in.CurrentGameweek < 1 || in.CurrentGameweek > 38 {
		return fmt.Errorf("invalid gameweek: %d", in.CurrentGameweek)
	}
	return nil
}

// RecommendChip scores every chip, drops the ones already played and
// returns the best opportunity, or a hold when nothing clears the
// recommendation threshold.
func RecommendChip(in ChipInputs) ChipRecommendation {
	if in.Weights == (Weights{}) {
		in.Weights = DefaultWeights
	}
	if err := in.validate(); err != nil {
		logrus.WithError(err).Error("Chip recommendation failed")
		return ChipRecommendation{Chip: "error", Label: "Error", Reason: "Missing required data", Priority: "none"}
	}
	if in.Fixtures == nil {
		in.Fixtures = fpl.NewFixtureIndex(nil)
	}

	scores := map[string]float64{
		fpl.ChipWildcard:   WildcardScore(in),
		fpl.ChipFreeHit:    FreeHitScore(in),
		fpl.ChipBenchBoost: BenchBoostScore(in),
		fpl.ChipTripleCap:  TripleCaptainScore(in),
		fpl.ChipManager:    AssistantManagerScore(in),
	}

	remaining := in.Team.RemainingChips()
	if len(remaining) == 0 {
		return ChipRecommendation{
			Chip:     "none",
			Label:    "All Used",
			Reason:   "All chips have been played. Focus on transfers and captain choices",
			Priority: "none",
			Scores:   scores,
		}
	}

	sort.SliceStable(remaining, func(i, j int) bool {
		return scores[remaining[i]] > scores[remaining[j]]
	})

	best := remaining[0]
	bestScore := scores[best]
	if bestScore < in.Weights.MinRecommendScore {
		return ChipRecommendation{
			Chip:     "hold",
			Label:    "Hold",
			Reason:   "No strong chip opportunities this week",
			Priority: "low",
			Score:    bestScore,
			Scores:   scores,
		}
	}

	gap := bestScore
	if len(remaining) > 1 {
		gap = bestScore - scores[remaining[1]]
	}
	priority := "low"
	switch {
	case gap > 2.5:
		priority = "high"
	case gap > 1.5:
		priority = "medium"
	}

	targets := chipTargets(in, best)

	return ChipRecommendation{
		Chip:            best,
		Label:           fpl.ChipLabel(best),
		Reason:          chipReason(best, targets),
		Priority:        priority,
		Score:           bestScore,
		Scores:          scores,
		TargetGameweeks: targets,
	}
}

// WildcardScore weighs injuries, price movement, squad form versus the
// league, a fixture-difficulty swing, deadwood picks and accumulated
// transfer penalties.
func WildcardScore(in ChipInputs) float64 {
	if err := in.validate(); err != nil {
		logrus.WithError(err).Error("Error calculating wildcard score")
		return 0
	}
	w := in.Weights

	injuryThreshold := 70.0
	if len(in.Team.Picks) > 15 {
		injuryThreshold = 80.0
	}

	var injured, deadwood int
	var priceChangeSum float64
	var xiForm float64
	var xiCount int
	var currentFDR, futureFDR float64

	for _, pick := range in.Team.Picks {
		player := in.Bootstrap.PlayerByID(pick.Element)
		if player == nil {
			continue
		}
		if player.ChanceOfPlayingNextRound != nil && *player.ChanceOfPlayingNextRound < injuryThreshold {
			injured++
		}
		priceChangeSum += float64(player.CostChangeEvent)

		minutesPerGame := float64(player.Minutes) / float64(in.CurrentGameweek)
		if minutesPerGame < 30 && fpl.Num(player.PointsPerGame) < 2 {
			deadwood++
		}

		next := in.Fixtures.NextFixtures(player.Team, in.Now, 5)
		var near, far float64
		var nearN, farN int
		for i, f := range next {
			d, _ := f.DifficultyFor(player.Team)
			if i < 2 {
				near += float64(d)
				nearN++
			} else {
				far += float64(d)
				farN++
			}
		}
		if nearN > 0 {
			currentFDR += near / float64(nearN)
		} else {
			currentFDR += 3
		}
		if farN > 0 {
			futureFDR += far / float64(farN)
		} else {
			futureFDR += 3
		}

		if pick.Position <= 11 {
			xiForm += fpl.Num(player.Form)
			xiCount++
		}
	}

	squadSize := float64(len(in.Team.Picks))
	currentFDR /= squadSize
	futureFDR /= squadSize

	const leagueAverageForm = 4.5
	avgForm := 0.0
	if xiCount > 0 {
		avgForm = xiForm / float64(xiCount)
	}

	transferCost := float64(in.Team.Transfers.Cost) / 10.0

	return float64(min(injured, 5))*w.Injury +
		clampMax(abs(priceChangeSum), 10)*w.PriceChange +
		nonNegative(leagueAverageForm-avgForm)*0.6 +
		nonNegative(currentFDR-futureFDR)*0.4 +
		float64(min(deadwood, 4))*0.5 +
		transferCost*w.TransferCost
}

// FreeHitScore weighs gameweek anomalies: blank and double clubs next
// gameweek and how many of the manager's own players they touch.
func FreeHitScore(in ChipInputs) float64 {
	if err := in.validate(); err != nil {
		logrus.WithError(err).Error("Error calculating freehit score")
		return 0
	}
	w := in.Weights
	nextGW := in.CurrentGameweek + 1

	blanks := in.Fixtures.BlankClubs(nextGW, in.Bootstrap.Teams)
	doubles := in.Fixtures.DoubleClubs(nextGW)
	doubleSet := make(map[int]bool, len(doubles))
	for _, c := range doubles {
		doubleSet[c] = true
	}
	blankSet := make(map[int]bool, len(blanks))
	for _, c := range blanks {
		blankSet[c] = true
	}

	var affected, boosted int
	var difficulty float64
	var withFixture int
	for _, pick := range in.Team.Picks {
		player := in.Bootstrap.PlayerByID(pick.Element)
		if player == nil {
			continue
		}
		if blankSet[player.Team] {
			affected++
		}
		if doubleSet[player.Team] {
			boosted++
		}
		if f := in.Fixtures.NextFixture(player.Team, in.Now); f != nil {
			d, _ := f.DifficultyFor(player.Team)
			difficulty += float64(d)
			withFixture++
		}
	}
	avgDifficulty := 3.0
	if withFixture > 0 {
		avgDifficulty = difficulty / float64(withFixture)
	}

	return float64(min(len(blanks), 6))*0.8 +
		float64(min(len(doubles), 4))*w.DoubleGW +
		float64(min(affected, 8))*0.5 +
		float64(boosted)*0.5 +
		avgDifficulty*w.FixtureDifficulty
}

// BenchBoostScore sums per-bench-player strength by position weight,
// form and ownership, plus a bonus for bench clubs doubling next week.
func BenchBoostScore(in ChipInputs) float64 {
	if err := in.validate(); err != nil {
		logrus.WithError(err).Error("Error calculating bench boost score")
		return 0
	}
	w := in.Weights
	nextGW := in.CurrentGameweek + 1

	var strength float64
	var doubles int
	for _, pick := range in.Team.Bench() {
		player := in.Bootstrap.PlayerByID(pick.Element)
		if player == nil {
			continue
		}
		positionWeight := positionWeights[player.ElementType]
		if positionWeight == 0 {
			positionWeight = 1
		}
		minutesLikelihood := 0.5
		if fpl.Num(player.PointsPerGame) > 2 {
			minutesLikelihood = 1.0
		}
		strength += minutesLikelihood*w.BenchMinutes*positionWeight +
			clampMax(fpl.Num(player.Form), 8)*w.BenchForm +
			clampMax(fpl.Num(player.SelectedByPercent), 50)*w.BenchOwnership

		if in.Fixtures.Appearances(nextGW, player.Team) > 1 {
			doubles++
		}
	}

	return strength*0.8 + float64(doubles)*w.DoubleGW
}

// TripleCaptainScore is the ceiling of the squad: the best per-player
// composite of form, expected involvement, fixture ease, explosive
// trait and double bonus, less rotation risk.
func TripleCaptainScore(in ChipInputs) float64 {
	if err := in.validate(); err != nil {
		logrus.WithError(err).Error("Error calculating triple captain score")
		return 0
	}
	w := in.Weights
	nextGW := in.CurrentGameweek + 1

	best := 0.0
	for _, pick := range in.Team.Picks {
		player := in.Bootstrap.PlayerByID(pick.Element)
		if player == nil {
			continue
		}

		form := clampMax(fpl.Num(player.Form), 8) * w.Form
		expected := clampMax((fpl.Num(player.ExpectedGoals)+fpl.Num(player.ExpectedAssists))*2, 5)
		explosive := clampMax((fpl.Num(player.Threat)+fpl.Num(player.Influence))/2/10, 3)

		fixtureEase := 0.0
		if f := in.Fixtures.NextFixture(player.Team, in.Now); f != nil {
			d, _ := f.DifficultyFor(player.Team)
			fixtureEase = float64(5-d) / 2
		}

		doubleBonus := 0.0
		if in.Fixtures.Appearances(nextGW, player.Team) > 1 {
			doubleBonus = w.DoubleGW
		}

		riskPenalty := (100 - fpl.Chance(player.ChanceOfPlayingNextRound)) / 100 * 2

		score := nonNegative(form + expected + explosive + fixtureEase + doubleBonus - riskPenalty)
		if score > best {
			best = score
		}
	}
	return best
}

// AssistantManagerScore is a small bonus for tight deadlines and busy
// fixture periods.
func AssistantManagerScore(in ChipInputs) float64 {
	if err := in.validate(); err != nil {
		logrus.WithError(err).Error("Error calculating assistant manager score")
		return 0
	}

	var deadlineScore float64
	for _, e := range in.Bootstrap.Events {
		if e.ID != in.CurrentGameweek+1 {
			continue
		}
		days := e.DeadlineTime.Sub(in.Now).Hours() / 24
		switch {
		case days < 3:
			deadlineScore = 2
		case days < 5:
			deadlineScore = 1
		}
		break
	}

	busyScore := 1.0
	if len(in.Fixtures.DoubleClubs(in.CurrentGameweek+1)) > 0 {
		busyScore = 2
	}

	return deadlineScore + busyScore
}

// chipTargets scans the look-ahead window for blank and double
// gameweeks, filtered to the patterns the given chip exploits.
func chipTargets(in ChipInputs, chip string) []GameweekTarget {
	all := ScanTargetGameweeks(in.Bootstrap, in.Fixtures, in.CurrentGameweek, targetLookahead)

	switch chip {
	case fpl.ChipFreeHit:
		return filterTargets(all, "blank")
	case fpl.ChipBenchBoost:
		return filterTargets(all, "double")
	case fpl.ChipTripleCap:
		doubles := filterTargets(all, "double")
		var strong []GameweekTarget
		for _, t := range doubles {
			for _, name := range t.Teams {
				if club := clubByShortName(in.Bootstrap, name); club != nil && club.Strength > 3 {
					strong = append(strong, t)
					break
				}
			}
		}
		return strong
	case fpl.ChipWildcard:
		shifted := make([]GameweekTarget, 0, len(all))
		for _, t := range all {
			s := t
			if t.Type == "double" {
				s.Gameweek = t.Gameweek - 1
				s.Reason = fmt.Sprintf("Prepare for DGW%d", t.Gameweek)
			} else {
				s.Gameweek = t.Gameweek + 1
				s.Reason = fmt.Sprintf("Recover from BGW%d", t.Gameweek)
			}
			shifted = append(shifted, s)
		}
		return shifted
	default:
		return nil
	}
}

// ScanTargetGameweeks finds every blank and double gameweek within
// weeksAhead of the current one, annotated with club short names.
func ScanTargetGameweeks(bootstrap *fpl.BootstrapStatic, fixtures *fpl.FixtureIndex, currentGameweek, weeksAhead int) []GameweekTarget {
	if bootstrap == nil || fixtures == nil || currentGameweek < 1 {
		return nil
	}

	var targets []GameweekTarget
	for _, e := range bootstrap.Events {
		if e.ID <= currentGameweek || e.ID > currentGameweek+weeksAhead {
			continue
		}

		if doubles := fixtures.DoubleClubs(e.ID); len(doubles) > 0 {
			names := clubShortNames(bootstrap, doubles)
			targets = append(targets, GameweekTarget{
				Gameweek: e.ID,
				Type:     "double",
				Teams:    names,
				Reason:   fmt.Sprintf("Double gameweek for %s", strings.Join(names, ", ")),
			})
		}

		if blanks := fixtures.BlankClubs(e.ID, bootstrap.Teams); len(blanks) > 0 {
			names := clubShortNames(bootstrap, blanks)
			targets = append(targets, GameweekTarget{
				Gameweek: e.ID,
				Type:     "blank",
				Teams:    names,
				Reason:   fmt.Sprintf("Blank gameweek for %s", strings.Join(names, ", ")),
			})
		}
	}
	return targets
}

func filterTargets(targets []GameweekTarget, kind string) []GameweekTarget {
	var out []GameweekTarget
	for _, t := range targets {
		if t.Type == kind {
			out = append(out, t)
		}
	}
	return out
}

func clubShortNames(bootstrap *fpl.BootstrapStatic, ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if c := bootstrap.ClubByID(id); c != nil {
			names = append(names, c.ShortName)
		}
	}
	return names
}

func clubByShortName(bootstrap *fpl.BootstrapStatic, shortName string) *fpl.Club {
	for i := range bootstrap.Teams {
		if bootstrap.Teams[i].ShortName == shortName {
			return &bootstrap.Teams[i]
		}
	}
	return nil
}

func chipReason(chip string, targets []GameweekTarget) string {
	var base string
	switch chip {
	case fpl.ChipWildcard:
		base = "Wildcard recommended due to high injury risk and potential price changes."
	case fpl.ChipFreeHit:
		base = "Free Hit recommended due to upcoming blank and double gameweeks."
	case fpl.ChipBenchBoost:
		base = "Bench Boost recommended due to strong bench players and upcoming doubles."
	case fpl.ChipTripleCap:
		base = "Triple Captain recommended due to a squad player's high ceiling this week."
	case fpl.ChipManager:
		base = "Assistant Manager recommended due to a busy period and tight deadline."
	}
	if len(targets) == 0 {
		return base
	}
	parts := make([]string, 0, len(targets))
	for _, t := range targets {
		kind := "DGW"
		if t.Type == "blank" {
			kind = "BGW"
		}
		parts = append(parts, fmt.Sprintf("GW%d (%s: %s)", t.Gameweek, kind, t.Reason))
	}
	return base + "\nTarget gameweeks: " + strings.Join(parts, ", ")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
