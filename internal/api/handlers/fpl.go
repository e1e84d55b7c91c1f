package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/providers"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/services"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/utils"
)

// FPLHandler proxies the upstream FPL endpoints through the cached
// aggregation layer.
type FPLHandler struct {
	aggregator *services.Aggregator
	logger     *logrus.Logger
}

func NewFPLHandler(aggregator *services.Aggregator, logger *logrus.Logger) *FPLHandler {
	return &FPLHandler{
		aggregator: aggregator,
		logger:     logger,
	}
}

// GetBootstrapStatic returns the full bootstrap payload, optionally
// for a specific season.
func (h *FPLHandler) GetBootstrapStatic(c *gin.Context) {
	bootstrap, err := h.aggregator.GetBootstrap(c.Request.Context(), c.Query("season"))
	if err != nil {
		utils.SendUpstreamError(c, "Failed to fetch bootstrap data", err.Error())
		return
	}
	utils.SendSuccess(c, bootstrap)
}

// GetPlayers returns the player list with optional position, team and
// name filters.
func (h *FPLHandler) GetPlayers(c *gin.Context) {
	bootstrap, err := h.aggregator.GetBootstrap(c.Request.Context(), c.Query("season"))
	if err != nil {
		utils.SendUpstreamError(c, "Failed to fetch players", err.Error())
		return
	}

	position := c.Query("position")
	team := c.Query("team")
	search := strings.ToLower(c.Query("search"))

	players := make([]fpl.Player, 0, len(bootstrap.Elements))
	for _, p := range bootstrap.Elements {
		if position != "" && strconv.Itoa(p.ElementType) != position {
			continue
		}
		if team != "" && strconv.Itoa(p.Team) != team {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.WebName), search) {
			continue
		}
		players = append(players, p)
	}

	utils.SendSuccess(c, players)
}

// GetFixtures returns the season fixture list.
func (h *FPLHandler) GetFixtures(c *gin.Context) {
	fixtures, err := h.aggregator.GetFixtures(c.Request.Context(), c.Query("season"))
	if err != nil {
		utils.SendUpstreamError(c, "Failed to fetch fixtures", err.Error())
		return
	}
	utils.SendSuccess(c, fixtures)
}

// GetMyTeam returns the merged manager team for an FPL manager id.
func (h *FPLHandler) GetMyTeam(c *gin.Context) {
	managerID, err := strconv.Atoi(c.Param("managerId"))
	if err != nil || managerID <= 0 {
		utils.SendValidationError(c, "Invalid manager ID", c.Param("managerId"))
		return
	}

	team, err := h.aggregator.GetManagerTeam(c.Request.Context(), managerID)
	if err != nil {
		if providers.IsNotFound(err) {
			utils.SendNotFound(c, "Manager not found")
			return
		}
		utils.SendUpstreamError(c, "Failed to fetch manager team", err.Error())
		return
	}
	utils.SendSuccess(c, team)
}

// GetNextDeadline returns the next fixture kickoff after now.
func (h *FPLHandler) GetNextDeadline(c *gin.Context) {
	deadline, err := h.aggregator.NextDeadline(c.Request.Context(), time.Now())
	if err != nil {
		utils.SendUpstreamError(c, "Failed to resolve next deadline", err.Error())
		return
	}
	utils.SendSuccess(c, gin.H{"deadline": deadline})
}

// GetTopManagersTeam returns the template squad built from the most
// owned players.
func (h *FPLHandler) GetTopManagersTeam(c *gin.Context) {
	team, err := h.aggregator.TopManagersTeam(c.Request.Context())
	if err != nil {
		utils.SendUpstreamError(c, "Failed to build top managers team", err.Error())
		return
	}
	utils.SendSuccess(c, team)
}
