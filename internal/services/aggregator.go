package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/providers"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/config"
)

// maxFreeTransfers is the rolling free-transfer cap.
const maxFreeTransfers = 5

// Aggregator reshapes upstream FPL payloads into the internal shapes
// the handlers and the recommendation engine consume, with a redis
// cache in front of every upstream call.
type Aggregator struct {
	client *providers.FPLClient
	cache  *CacheService
	logger *logrus.Logger

	ttlBootstrap time.Duration
	ttlFixtures  time.Duration
	ttlTeam      time.Duration
}

// NewAggregator creates an aggregator. The cache may be nil, in which
// case every call goes upstream.
func NewAggregator(client *providers.FPLClient, cache *CacheService, cfg *config.Config, logger *logrus.Logger) *Aggregator {
	return &Aggregator{
		client:       client,
		cache:        cache,
		logger:       logger,
		ttlBootstrap: time.Duration(cfg.CacheTTLBootstrap) * time.Minute,
		ttlFixtures:  time.Duration(cfg.CacheTTLFixtures) * time.Minute,
		ttlTeam:      time.Duration(cfg.CacheTTLTeam) * time.Minute,
	}
}

// GetBootstrap returns the bootstrap payload, cache-first. Seasons
// are cached under separate keys; the upstream only serves the
// current season, so a historical season key holds whatever payload
// was cached while it was live.
func (s *Aggregator) GetBootstrap(ctx context.Context, season string) (*fpl.BootstrapStatic, error) {
	key := BootstrapCacheKey(season)
	if s.cache != nil {
		var cached fpl.BootstrapStatic
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	bootstrap, err := s.client.GetBootstrapStatic(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, bootstrap, s.ttlBootstrap); err != nil {
			s.logger.WithError(err).Warn("Failed to cache bootstrap payload")
		}
	}
	return bootstrap, nil
}

// GetFixtures returns the season fixture list, cache-first.
func (s *Aggregator) GetFixtures(ctx context.Context, season string) ([]fpl.Fixture, error) {
	key := FixturesCacheKey(season)
	if s.cache != nil {
		var cached []fpl.Fixture
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	fixtures, err := s.client.GetFixtures(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, fixtures, s.ttlFixtures); err != nil {
			s.logger.WithError(err).Warn("Failed to cache fixtures")
		}
	}
	return fixtures, nil
}

// GetFixtureIndex fetches fixtures and builds the per-club index.
func (s *Aggregator) GetFixtureIndex(ctx context.Context, season string) (*fpl.FixtureIndex, error) {
	fixtures, err := s.GetFixtures(ctx, season)
	if err != nil {
		return nil, err
	}
	return fpl.NewFixtureIndex(fixtures), nil
}

// GetManagerTeam merges a manager's entry, history and current picks
// into one ManagerTeam, deriving the rolling free-transfer allowance
// from consecutive no-transfer gameweeks.
func (s *Aggregator) GetManagerTeam(ctx context.Context, managerID int) (*fpl.ManagerTeam, error) {
	key := TeamCacheKey(managerID)
	if s.cache != nil {
		var cached fpl.ManagerTeam
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	entry, err := s.client.GetEntry(ctx, managerID)
	if err != nil {
		return nil, err
	}

	history, err := s.client.GetEntryHistory(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	currentEvent := entry.CurrentEvent
	if currentEvent == 0 {
		currentEvent = 1
	}
	var lastGW *fpl.GameweekResult
	if n := len(history.Current); n > 0 {
		lastGW = &history.Current[n-1]
	}
	lastCompleted := currentEvent
	if lastGW != nil {
		lastCompleted = lastGW.Event
	} else if currentEvent > 1 {
		lastCompleted = currentEvent - 1
	}

	var picks []fpl.Pick
	if picksData, err := s.client.GetEntryPicks(ctx, managerID, lastCompleted); err != nil {
		s.logger.WithError(err).WithField("manager_id", managerID).Warn("Failed to fetch picks")
	} else {
		picks = picksData.Picks
	}

	team := &fpl.ManagerTeam{
		Picks:             picks,
		Chips:             history.Chips,
		PointsHistory:     history.Current,
		CurrentEvent:      currentEvent,
		LastDeadlineEvent: lastCompleted,
		LastDeadlineBank:  entry.LastDeadlineBank,
		LastDeadlineValue: entry.LastDeadlineValue,
	}
	if team.Chips == nil {
		team.Chips = []fpl.Chip{}
	}

	team.Transfers = fpl.TransferState{
		Limit: FreeTransfers(history.Current),
		Bank:  entry.LastDeadlineBank,
		Value: entry.LastDeadlineValue,
	}
	if lastGW != nil {
		team.Transfers.Made = lastGW.EventTransfers
		team.Transfers.Cost = lastGW.EventTransfersCost
		if team.Transfers.Bank == 0 {
			team.Transfers.Bank = lastGW.Bank
		}
		if team.Transfers.Value == 0 {
			team.Transfers.Value = lastGW.Value
		}
	}

	team.SummaryOverallPoints = entry.SummaryOverallPoints
	team.SummaryOverallRank = entry.SummaryOverallRank
	team.Stats = fpl.TeamStats{
		OverallPoints: entry.SummaryOverallPoints,
		OverallRank:   entry.SummaryOverallRank,
		Value:         team.Transfers.Value,
		Bank:          team.Transfers.Bank,
	}
	if lastGW != nil {
		team.Stats.EventPoints = lastGW.Points
		team.Stats.EventRank = lastGW.Rank
		team.Stats.PointsOnBench = lastGW.PointsOnBench
		team.Stats.AverageEntryScore = lastGW.Average
		if lastGW.TotalPoints > 0 {
			team.Stats.TotalPoints = lastGW.TotalPoints
			team.Stats.OverallPoints = lastGW.TotalPoints
			team.SummaryOverallPoints = lastGW.TotalPoints
		}
		if lastGW.OverallRank > 0 {
			team.Stats.OverallRank = lastGW.OverallRank
			team.SummaryOverallRank = lastGW.OverallRank
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, team, s.ttlTeam); err != nil {
			s.logger.WithError(err).Warn("Failed to cache manager team")
		}
	}
	return team, nil
}

// FreeTransfers derives the current allowance: one banked transfer
// per trailing gameweek without activity, capped at the rolling
// maximum.
func FreeTransfers(history []fpl.GameweekResult) int {
	consecutive := 0
	for i := len(history) - 1; i >= 0; i-- {
		gw := history[i]
		if gw.EventTransfers == 0 && gw.EventTransfersCost == 0 {
			consecutive++
		} else {
			break
		}
	}
	free := 1 + consecutive
	if free > maxFreeTransfers {
		free = maxFreeTransfers
	}
	return free
}

// NextDeadline returns the earliest fixture kickoff after now.
func (s *Aggregator) NextDeadline(ctx context.Context, now time.Time) (*time.Time, error) {
	index, err := s.GetFixtureIndex(ctx, "")
	if err != nil {
		return nil, err
	}
	next := index.NextKickoff(now)
	if next == nil {
		return nil, fmt.Errorf("no upcoming fixtures found")
	}
	return next, nil
}

// TopManagersTeam builds a synthetic template squad from the most
// owned players per position (2 GK / 5 DEF / 5 MID / 3 FWD). The
// captain is the most owned starter, the vice the second.
func (s *Aggregator) TopManagersTeam(ctx context.Context) (*fpl.ManagerTeam, error) {
	bootstrap, err := s.GetBootstrap(ctx, "")
	if err != nil {
		return nil, err
	}

	byPosition := make(map[int][]*fpl.Player)
	for i := range bootstrap.Elements {
		p := &bootstrap.Elements[i]
		byPosition[p.ElementType] = append(byPosition[p.ElementType], p)
	}
	for et := range byPosition {
		list := byPosition[et]
		sort.SliceStable(list, func(i, j int) bool {
			return fpl.Num(list[i].SelectedByPercent) > fpl.Num(list[j].SelectedByPercent)
		})
	}

	take := func(et, n int) []*fpl.Player {
		list := byPosition[et]
		if len(list) > n {
			list = list[:n]
		}
		return list
	}

	gks := take(fpl.PositionGK, 2)
	defs := take(fpl.PositionDEF, 5)
	mids := take(fpl.PositionMID, 5)
	fwds := take(fpl.PositionFWD, 3)

	// Starting XI in a 4-4-2, remaining players benched.
	var xi, bench []*fpl.Player
	appendSplit := func(players []*fpl.Player, starters int) {
		for i, p := range players {
			if i < starters {
				xi = append(xi, p)
			} else {
				bench = append(bench, p)
			}
		}
	}
	appendSplit(gks, 1)
	appendSplit(defs, 4)
	appendSplit(mids, 4)
	appendSplit(fwds, 2)

	var captainID, viceID int
	byOwnership := make([]*fpl.Player, len(xi))
	copy(byOwnership, xi)
	sort.SliceStable(byOwnership, func(i, j int) bool {
		return fpl.Num(byOwnership[i].SelectedByPercent) > fpl.Num(byOwnership[j].SelectedByPercent)
	})
	if len(byOwnership) > 0 {
		captainID = byOwnership[0].ID
	}
	if len(byOwnership) > 1 {
		viceID = byOwnership[1].ID
	}

	team := &fpl.ManagerTeam{CurrentEvent: bootstrap.CurrentEvent()}
	position := 1
	for _, p := range xi {
		multiplier := 1
		if p.ID == captainID {
			multiplier = 2
		}
		team.Picks = append(team.Picks, fpl.Pick{
			Element:       p.ID,
			Position:      position,
			Multiplier:    multiplier,
			IsCaptain:     p.ID == captainID,
			IsViceCaptain: p.ID == viceID,
		})
		position++
	}
	for _, p := range bench {
		team.Picks = append(team.Picks, fpl.Pick{
			Element:  p.ID,
			Position: position,
		})
		position++
	}
	team.Chips = []fpl.Chip{}
	return team, nil
}
