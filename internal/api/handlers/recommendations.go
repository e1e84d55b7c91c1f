package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/engine"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/providers"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/services"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/utils"
)

// RecommendationsHandler exposes the scoring engine over HTTP. Every
// endpoint resolves its inputs through the cached aggregator.
type RecommendationsHandler struct {
	aggregator *services.Aggregator
	logger     *logrus.Logger
}

func NewRecommendationsHandler(aggregator *services.Aggregator, logger *logrus.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{
		aggregator: aggregator,
		logger:     logger,
	}
}

type engineInputs struct {
	bootstrap *fpl.BootstrapStatic
	index     *fpl.FixtureIndex
	team      *fpl.ManagerTeam
}

// managerParam parses the required manager query parameter.
func managerParam(c *gin.Context) (int, bool) {
	raw := c.Query("manager")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		utils.SendValidationError(c, "Invalid manager ID", raw)
		return 0, false
	}
	return id, true
}

func (h *RecommendationsHandler) loadInputs(ctx context.Context, managerID int) (*engineInputs, error) {
	bootstrap, err := h.aggregator.GetBootstrap(ctx, "")
	if err != nil {
		return nil, err
	}
	index, err := h.aggregator.GetFixtureIndex(ctx, "")
	if err != nil {
		return nil, err
	}
	in := &engineInputs{bootstrap: bootstrap, index: index}
	if managerID > 0 {
		team, err := h.aggregator.GetManagerTeam(ctx, managerID)
		if err != nil {
			return nil, err
		}
		in.team = team
	}
	return in, nil
}

func (h *RecommendationsHandler) sendLoadError(c *gin.Context, err error) {
	if providers.IsNotFound(err) {
		utils.SendNotFound(c, "Manager not found")
		return
	}
	utils.SendUpstreamError(c, "Failed to fetch engine inputs", err.Error())
}

// GetChips returns the chip recommendation for a manager.
func (h *RecommendationsHandler) GetChips(c *gin.Context) {
	managerID, ok := managerParam(c)
	if !ok {
		return
	}
	in, err := h.loadInputs(c.Request.Context(), managerID)
	if err != nil {
		h.sendLoadError(c, err)
		return
	}

	gameweek := in.team.CurrentEvent
	if gameweek == 0 {
		gameweek = in.bootstrap.CurrentEvent()
	}
	rec := engine.RecommendChip(engine.ChipInputs{
		Bootstrap:       in.bootstrap,
		Fixtures:        in.index,
		Team:            in.team,
		CurrentGameweek: gameweek,
		Now:             time.Now(),
	})
	utils.SendSuccess(c, rec)
}

// GetTransfers returns ranked transfer suggestions for a manager.
func (h *RecommendationsHandler) GetTransfers(c *gin.Context) {
	managerID, ok := managerParam(c)
	if !ok {
		return
	}
	in, err := h.loadInputs(c.Request.Context(), managerID)
	if err != nil {
		h.sendLoadError(c, err)
		return
	}

	suggestions := engine.SuggestTransfers(in.bootstrap, in.index, in.team, time.Now())
	utils.SendSuccess(c, suggestions)
}

// GetCaptains returns the top captaincy picks across all players.
func (h *RecommendationsHandler) GetCaptains(c *gin.Context) {
	in, err := h.loadInputs(c.Request.Context(), 0)
	if err != nil {
		h.sendLoadError(c, err)
		return
	}

	suggestions := engine.SuggestCaptains(in.bootstrap, in.index, time.Now())
	utils.SendSuccess(c, suggestions)
}

// GetDreamTeam plans a squad: optimizer mode when a manager id is
// given, fresh-squad builder otherwise.
func (h *RecommendationsHandler) GetDreamTeam(c *gin.Context) {
	managerID := 0
	if raw := c.Query("manager"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			utils.SendValidationError(c, "Invalid manager ID", raw)
			return
		}
		managerID = id
	}

	in, err := h.loadInputs(c.Request.Context(), managerID)
	if err != nil {
		h.sendLoadError(c, err)
		return
	}

	plan := engine.PlanSquad(in.bootstrap, in.index, in.team, time.Now())
	utils.SendSuccess(c, plan)
}

// GetValue returns the squad value projection for a manager.
func (h *RecommendationsHandler) GetValue(c *gin.Context) {
	managerID, ok := managerParam(c)
	if !ok {
		return
	}
	in, err := h.loadInputs(c.Request.Context(), managerID)
	if err != nil {
		h.sendLoadError(c, err)
		return
	}

	gameweek := in.team.CurrentEvent
	if gameweek == 0 {
		gameweek = in.bootstrap.CurrentEvent()
	}
	projection := engine.ProjectSquadValue(in.bootstrap, in.team, gameweek+1)
	utils.SendSuccess(c, projection)
}
