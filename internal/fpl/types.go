package fpl

import "time"

// Positions as exposed by the FPL API element_type field.
const (
	PositionGK  = 1
	PositionDEF = 2
	PositionMID = 3
	PositionFWD = 4
)

// PositionName maps an element_type to its short display name.
func PositionName(elementType int) string {
	switch elementType {
	case PositionGK:
		return "GKP"
	case PositionDEF:
		return "DEF"
	case PositionMID:
		return "MID"
	case PositionFWD:
		return "FWD"
	default:
		return "UNK"
	}
}

// Chip names as used by the FPL API.
const (
	ChipWildcard   = "wildcard"
	ChipFreeHit    = "freehit"
	ChipBenchBoost = "bboost"
	ChipTripleCap  = "3xc"
	ChipManager    = "manager"
)

// AllChips is the fixed chip vocabulary in display order.
var AllChips = []string{ChipWildcard, ChipFreeHit, ChipBenchBoost, ChipTripleCap, ChipManager}

// ChipLabel returns the human-readable name of a chip.
func ChipLabel(name string) string {
	switch name {
	case ChipWildcard:
		return "Wildcard"
	case ChipFreeHit:
		return "Free Hit"
	case ChipBenchBoost:
		return "Bench Boost"
	case ChipTripleCap:
		return "Triple Captain"
	case ChipManager:
		return "Assistant Manager"
	default:
		return name
	}
}

// Player is a single element from bootstrap-static. Several numeric
// fields arrive as strings from the API and are parsed on access via
// the Num helper.
type Player struct {
	ID                       int      `json:"id"`
	WebName                  string   `json:"web_name"`
	Team                     int      `json:"team"`
	ElementType              int      `json:"element_type"`
	SelectedByPercent        string   `json:"selected_by_percent"`
	NowCost                  int      `json:"now_cost"` // tenths of a million
	PointsPerGame            string   `json:"points_per_game"`
	TotalPoints              int      `json:"total_points"`
	Form                     string   `json:"form"`
	EPNext                   string   `json:"ep_next"`
	Status                   string   `json:"status"`
	GoalsScored              int      `json:"goals_scored"`
	Assists                  int      `json:"assists"`
	CostChangeEvent          int      `json:"cost_change_event"`
	CostChangeEventFall      int      `json:"cost_change_event_fall"`
	CostChangeStart          int      `json:"cost_change_start"`
	Minutes                  int      `json:"minutes"`
	CleanSheets              int      `json:"clean_sheets"`
	GoalsConceded            int      `json:"goals_conceded"`
	PenaltiesSaved           int      `json:"penalties_saved"`
	YellowCards              int      `json:"yellow_cards"`
	RedCards                 int      `json:"red_cards"`
	Saves                    int      `json:"saves"`
	Bonus                    int      `json:"bonus"`
	BPS                      int      `json:"bps"`
	Influence                string   `json:"influence"`
	Creativity               string   `json:"creativity"`
	Threat                   string   `json:"threat"`
	ICTIndex                 string   `json:"ict_index"`
	ExpectedGoals            string   `json:"expected_goals"`
	ExpectedAssists          string   `json:"expected_assists"`
	ExpectedGoalInvolvements string   `json:"expected_goal_involvements"`
	DreamteamCount           int      `json:"dreamteam_count"`
	EventPoints              int      `json:"event_points"`
	ChanceOfPlayingNextRound *float64 `json:"chance_of_playing_next_round"`
	ChanceOfPlayingThisRound *float64 `json:"chance_of_playing_this_round"`
	News                     string   `json:"news"`
	TransfersInEvent         int      `json:"transfers_in_event"`
	TransfersOutEvent        int      `json:"transfers_out_event"`
}

// Price returns the player's cost in millions.
func (p *Player) Price() float64 {
	return float64(p.NowCost) / 10.0
}

// Club is a Premier League team from bootstrap-static.
type Club struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	ShortName           string `json:"short_name"`
	Strength            int    `json:"strength"`
	StrengthOverallHome int    `json:"strength_overall_home"`
	StrengthOverallAway int    `json:"strength_overall_away"`
	StrengthAttackHome  int    `json:"strength_attack_home"`
	StrengthAttackAway  int    `json:"strength_attack_away"`
	StrengthDefenceHome int    `json:"strength_defence_home"`
	StrengthDefenceAway int    `json:"strength_defence_away"`
}

// Event is a gameweek.
type Event struct {
	ID                int       `json:"id"`
	Name              string    `json:"name"`
	DeadlineTime      time.Time `json:"deadline_time"`
	AverageEntryScore int       `json:"average_entry_score"`
	HighestScore      int       `json:"highest_score"`
	Finished          bool      `json:"finished"`
	IsPrevious        bool      `json:"is_previous"`
	IsCurrent         bool      `json:"is_current"`
	IsNext            bool      `json:"is_next"`
}

// Fixture is a scheduled match. Difficulty ratings run 1 (easiest)
// to 5 (hardest), per side.
type Fixture struct {
	ID              int        `json:"id"`
	Event           int        `json:"event"`
	TeamH           int        `json:"team_h"`
	TeamA           int        `json:"team_a"`
	TeamHScore      *int       `json:"team_h_score"`
	TeamAScore      *int       `json:"team_a_score"`
	TeamHDifficulty int        `json:"team_h_difficulty"`
	TeamADifficulty int        `json:"team_a_difficulty"`
	Finished        bool       `json:"finished"`
	Started         bool       `json:"started"`
	KickoffTime     *time.Time `json:"kickoff_time"`
}

// DifficultyFor returns the fixture's difficulty from the given
// club's perspective, and whether the club plays at home.
func (f *Fixture) DifficultyFor(clubID int) (difficulty int, home bool) {
	if f.TeamH == clubID {
		return f.TeamHDifficulty, true
	}
	return f.TeamADifficulty, false
}

// Opponent returns the opposing club id for the given club.
func (f *Fixture) Opponent(clubID int) int {
	if f.TeamH == clubID {
		return f.TeamA
	}
	return f.TeamH
}

// BootstrapStatic is the top-level bootstrap payload.
type BootstrapStatic struct {
	Events       []Event  `json:"events"`
	Teams        []Club   `json:"teams"`
	Elements     []Player `json:"elements"`
	TotalPlayers int      `json:"total_players"`
}

// PlayerByID returns the element with the given id, or nil.
func (b *BootstrapStatic) PlayerByID(id int) *Player {
	for i := range b.Elements {
		if b.Elements[i].ID == id {
			return &b.Elements[i]
		}
	}
	return nil
}

// ClubByID returns the club with the given id, or nil.
func (b *BootstrapStatic) ClubByID(id int) *Club {
	for i := range b.Teams {
		if b.Teams[i].ID == id {
			return &b.Teams[i]
		}
	}
	return nil
}

// CurrentEvent returns the id of the gameweek flagged is_current,
// or 0 when the season has not started.
func (b *BootstrapStatic) CurrentEvent() int {
	for i := range b.Events {
		if b.Events[i].IsCurrent {
			return b.Events[i].ID
		}
	}
	return 0
}

// Pick is a (player, squad slot) association. Slots 1-11 form the
// starting XI, 12-15 the bench in substitution order.
type Pick struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	Multiplier    int  `json:"multiplier"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
}

// Chip records a used chip and the gameweek it was played.
type Chip struct {
	Name  string `json:"name"`
	Time  string `json:"time,omitempty"`
	Event int    `json:"event"`
}

// TransferState tracks the manager's transfer allowance. Bank and
// value are in tenths, cost is the cumulative points penalty.
type TransferState struct {
	Limit int `json:"limit"`
	Made  int `json:"made"`
	Bank  int `json:"bank"`
	Value int `json:"value"`
	Cost  int `json:"cost"`
}

// GameweekResult is one row of a manager's season history.
type GameweekResult struct {
	Event              int `json:"event"`
	Points             int `json:"points"`
	Average            int `json:"average"`
	Rank               int `json:"rank,omitempty"`
	OverallRank        int `json:"overall_rank,omitempty"`
	TotalPoints        int `json:"total_points,omitempty"`
	PointsOnBench      int `json:"points_on_bench,omitempty"`
	EventTransfers     int `json:"event_transfers,omitempty"`
	EventTransfersCost int `json:"event_transfers_cost,omitempty"`
	Bank               int `json:"bank,omitempty"`
	Value              int `json:"value,omitempty"`
}

// TeamStats summarizes the manager's latest completed gameweek.
type TeamStats struct {
	EventPoints       int `json:"event_points"`
	EventRank         int `json:"event_rank"`
	PointsOnBench     int `json:"points_on_bench"`
	OverallPoints     int `json:"overall_points"`
	OverallRank       int `json:"overall_rank"`
	TotalPoints       int `json:"total_points"`
	Value             int `json:"value"`
	Bank              int `json:"bank"`
	AverageEntryScore int `json:"average_entry_score"`
}

// ManagerTeam is the merged view of a manager's entry, history and
// current picks that the rest of the system consumes.
type ManagerTeam struct {
	Picks                []Pick           `json:"picks"`
	Chips                []Chip           `json:"chips"`
	Transfers            TransferState    `json:"transfers"`
	PointsHistory        []GameweekResult `json:"points_history"`
	Stats                TeamStats        `json:"stats"`
	CurrentEvent         int              `json:"current_event"`
	LastDeadlineEvent    int              `json:"last_deadline_event"`
	SummaryOverallPoints int              `json:"summary_overall_points"`
	SummaryOverallRank   int              `json:"summary_overall_rank"`
	LastDeadlineBank     int              `json:"last_deadline_bank"`
	LastDeadlineValue    int              `json:"last_deadline_value"`
}

// UsedChips returns the set of chip names already played.
func (t *ManagerTeam) UsedChips() map[string]bool {
	used := make(map[string]bool, len(t.Chips))
	for _, c := range t.Chips {
		used[c.Name] = true
	}
	return used
}

// RemainingChips returns the chip vocabulary minus the used set.
func (t *ManagerTeam) RemainingChips() []string {
	used := t.UsedChips()
	remaining := make([]string, 0, len(AllChips))
	for _, name := range AllChips {
		if !used[name] {
			remaining = append(remaining, name)
		}
	}
	return remaining
}

// StartingXI returns picks in slots 1-11.
func (t *ManagerTeam) StartingXI() []Pick {
	xi := make([]Pick, 0, 11)
	for _, p := range t.Picks {
		if p.Position <= 11 {
			xi = append(xi, p)
		}
	}
	return xi
}

// Bench returns picks in slots 12-15.
func (t *ManagerTeam) Bench() []Pick {
	bench := make([]Pick, 0, 4)
	for _, p := range t.Picks {
		if p.Position > 11 {
			bench = append(bench, p)
		}
	}
	return bench
}

// HasPlayer reports whether the element is anywhere in the squad.
func (t *ManagerTeam) HasPlayer(elementID int) bool {
	for _, p := range t.Picks {
		if p.Element == elementID {
			return true
		}
	}
	return false
}

// Entry is the raw entry/{id} payload from the FPL API.
type Entry struct {
	ID                   int    `json:"id"`
	Name                 string `json:"name"`
	PlayerFirstName      string `json:"player_first_name"`
	PlayerLastName       string `json:"player_last_name"`
	CurrentEvent         int    `json:"current_event"`
	SummaryOverallPoints int    `json:"summary_overall_points"`
	SummaryOverallRank   int    `json:"summary_overall_rank"`
	LastDeadlineBank     int    `json:"last_deadline_bank"`
	LastDeadlineValue    int    `json:"last_deadline_value"`
}

// EntryHistory is the raw entry/{id}/history payload.
type EntryHistory struct {
	Current []GameweekResult `json:"current"`
	Chips   []Chip           `json:"chips"`
}

// EntryPicks is the raw entry/{id}/event/{gw}/picks payload.
type EntryPicks struct {
	Picks []Pick `json:"picks"`
}
