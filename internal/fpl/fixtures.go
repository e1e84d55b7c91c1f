package fpl

import (
	"sort"
	"time"
)

// FixtureIndex precomputes per-club fixture lists and per-event club
// appearance counts so callers never re-filter the full fixture list
// inside scoring loops.
type FixtureIndex struct {
	byClub  map[int][]Fixture
	byEvent map[int]map[int]int // event -> club -> appearances
	all     []Fixture
}

// NewFixtureIndex builds an index over the given fixtures. Per-club
// lists are sorted by event then kickoff time.
func NewFixtureIndex(fixtures []Fixture) *FixtureIndex {
	idx := &FixtureIndex{
		byClub:  make(map[int][]Fixture),
		byEvent: make(map[int]map[int]int),
		all:     fixtures,
	}
	for _, f := range fixtures {
		idx.byClub[f.TeamH] = append(idx.byClub[f.TeamH], f)
		idx.byClub[f.TeamA] = append(idx.byClub[f.TeamA], f)
		if f.Event > 0 {
			counts := idx.byEvent[f.Event]
			if counts == nil {
				counts = make(map[int]int)
				idx.byEvent[f.Event] = counts
			}
			counts[f.TeamH]++
			counts[f.TeamA]++
		}
	}
	for club := range idx.byClub {
		list := idx.byClub[club]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Event != list[j].Event {
				return list[i].Event < list[j].Event
			}
			ti, tj := list[i].KickoffTime, list[j].KickoffTime
			if ti == nil || tj == nil {
				return tj != nil
			}
			return ti.Before(*tj)
		})
	}
	return idx
}

// NextFixtures returns up to n upcoming fixtures for a club, relative
// to the given instant.
func (idx *FixtureIndex) NextFixtures(clubID int, now time.Time, n int) []Fixture {
	out := make([]Fixture, 0, n)
	for _, f := range idx.byClub[clubID] {
		if f.Finished {
			continue
		}
		if f.KickoffTime != nil && !f.KickoffTime.After(now) {
			continue
		}
		out = append(out, f)
		if len(out) == n {
			break
		}
	}
	return out
}

// NextFixture returns the club's next upcoming fixture, or nil.
func (idx *FixtureIndex) NextFixture(clubID int, now time.Time) *Fixture {
	next := idx.NextFixtures(clubID, now, 1)
	if len(next) == 0 {
		return nil
	}
	return &next[0]
}

// AvgDifficulty averages the difficulty of the club's next n
// fixtures, defaulting to 3 (medium) when none are scheduled.
func (idx *FixtureIndex) AvgDifficulty(clubID int, now time.Time, n int) float64 {
	next := idx.NextFixtures(clubID, now, n)
	if len(next) == 0 {
		return 3
	}
	total := 0
	for _, f := range next {
		d, _ := f.DifficultyFor(clubID)
		total += d
	}
	return float64(total) / float64(len(next))
}

// Appearances returns how many times the club plays in the event.
func (idx *FixtureIndex) Appearances(event, clubID int) int {
	return idx.byEvent[event][clubID]
}

// DoubleClubs returns ids of clubs with more than one fixture in the
// event, in ascending order.
func (idx *FixtureIndex) DoubleClubs(event int) []int {
	var doubles []int
	for club, count := range idx.byEvent[event] {
		if count > 1 {
			doubles = append(doubles, club)
		}
	}
	sort.Ints(doubles)
	return doubles
}

// BlankClubs returns ids of the given clubs that have no fixture in
// the event, in ascending order.
func (idx *FixtureIndex) BlankClubs(event int, clubs []Club) []int {
	var blanks []int
	counts := idx.byEvent[event]
	for _, c := range clubs {
		if counts[c.ID] == 0 {
			blanks = append(blanks, c.ID)
		}
	}
	sort.Ints(blanks)
	return blanks
}

// NextKickoff returns the earliest kickoff strictly after now across
// all fixtures, or nil when the season is over.
func (idx *FixtureIndex) NextKickoff(now time.Time) *time.Time {
	var earliest *time.Time
	for i := range idx.all {
		kt := idx.all[i].KickoffTime
		if kt == nil || !kt.After(now) {
			continue
		}
		if earliest == nil || kt.Before(*earliest) {
			earliest = kt
		}
	}
	return earliest
}
