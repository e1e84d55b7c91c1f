package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/api/middleware"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/models"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/services"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/database"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/utils"
)

// devUserID is the fallback account for unauthenticated requests in
// development setups.
const devUserID = 1

// TeamHandler manages the persisted squad: saving picks, applying
// transfers and captain changes.
type TeamHandler struct {
	db         *database.DB
	aggregator *services.Aggregator
	logger     *logrus.Logger
}

func NewTeamHandler(db *database.DB, aggregator *services.Aggregator, logger *logrus.Logger) *TeamHandler {
	return &TeamHandler{
		db:         db,
		aggregator: aggregator,
		logger:     logger,
	}
}

type SaveTeamRequest struct {
	Picks     []fpl.Pick        `json:"picks" binding:"required"`
	Chips     []fpl.Chip        `json:"chips"`
	Transfers fpl.TransferState `json:"transfers"`
}

type TransferRequest struct {
	PlayerID int `json:"player_id" binding:"required"`
	OutID    int `json:"out_id" binding:"required"`
}

type CaptainRequest struct {
	CaptainID     int `json:"captain_id" binding:"required"`
	ViceCaptainID int `json:"vice_captain_id" binding:"required"`
}

func (h *TeamHandler) userID(c *gin.Context) uint {
	if id := middleware.UserID(c); id != 0 {
		return id
	}
	return devUserID
}

// loadTeam fetches the user's persisted squad row. A missing row or a
// row without picks both count as "no squad".
func (h *TeamHandler) loadTeam(userID uint) (*models.Team, []fpl.Pick, error) {
	var team models.Team
	if err := h.db.DB.Where("user_id = ?", userID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, utils.ErrNoSquad
		}
		return nil, nil, err
	}
	picks, err := team.DecodePicks()
	if err != nil {
		return nil, nil, err
	}
	if len(picks) == 0 {
		return nil, nil, utils.ErrNoSquad
	}
	return &team, picks, nil
}

// GetTeam returns the persisted squad for the current user.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	team, _, err := h.loadTeam(h.userID(c))
	if err != nil {
		if errors.Is(err, utils.ErrNoSquad) {
			utils.SendError(c, http.StatusNotFound, utils.NewAppError(utils.ErrCodeNoSquad, "No squad saved for user"))
			return
		}
		utils.SendInternalError(c, "Failed to load team")
		return
	}
	utils.SendSuccess(c, team)
}

// SaveTeam upserts the user's squad row. Last write wins.
func (h *TeamHandler) SaveTeam(c *gin.Context) {
	var req SaveTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	userID := h.userID(c)
	var team models.Team
	err := h.db.DB.Where("user_id = ?", userID).First(&team).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendInternalError(c, "Failed to load team")
		return
	}
	team.UserID = userID

	if err := team.SetPicks(req.Picks); err != nil {
		utils.SendValidationError(c, "Invalid picks", err.Error())
		return
	}
	if req.Chips == nil {
		req.Chips = []fpl.Chip{}
	}
	if err := team.SetChips(req.Chips); err != nil {
		utils.SendValidationError(c, "Invalid chips", err.Error())
		return
	}
	if err := team.SetTransfers(req.Transfers); err != nil {
		utils.SendValidationError(c, "Invalid transfer state", err.Error())
		return
	}

	if err := h.db.DB.Save(&team).Error; err != nil {
		h.logger.WithError(err).Error("Failed to save team")
		utils.SendInternalError(c, "Failed to save team")
		return
	}
	utils.SendSuccess(c, team)
}

// MakeTransfer swaps one owned player for an unowned player of the
// same position, consuming a free transfer.
func (h *TeamHandler) MakeTransfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	team, picks, err := h.loadTeam(h.userID(c))
	if err != nil {
		if errors.Is(err, utils.ErrNoSquad) {
			utils.SendError(c, http.StatusNotFound, utils.NewAppError(utils.ErrCodeNoSquad, "No squad saved for user"))
			return
		}
		utils.SendInternalError(c, "Failed to load team")
		return
	}

	state, err := team.DecodeTransfers()
	if err != nil {
		utils.SendInternalError(c, "Failed to decode transfer state")
		return
	}
	if state.Limit <= 0 {
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeNoTransfers, "No free transfers remaining"))
		return
	}

	outIndex := -1
	for i, p := range picks {
		if p.Element == req.OutID {
			outIndex = i
		}
		if p.Element == req.PlayerID {
			utils.SendValidationError(c, "Player already in squad", "")
			return
		}
	}
	if outIndex == -1 {
		utils.SendValidationError(c, "Outgoing player is not in the squad", "")
		return
	}

	bootstrap, err := h.aggregator.GetBootstrap(c.Request.Context(), "")
	if err != nil {
		utils.SendUpstreamError(c, "Failed to fetch player data", err.Error())
		return
	}
	in := bootstrap.PlayerByID(req.PlayerID)
	out := bootstrap.PlayerByID(req.OutID)
	if in == nil || out == nil {
		utils.SendValidationError(c, "Unknown player ID", "")
		return
	}
	if in.ElementType != out.ElementType {
		utils.SendValidationError(c, "Players must share a position", "")
		return
	}

	picks[outIndex].Element = req.PlayerID
	state.Limit--
	state.Made++

	if err := team.SetPicks(picks); err != nil {
		utils.SendInternalError(c, "Failed to encode picks")
		return
	}
	if err := team.SetTransfers(state); err != nil {
		utils.SendInternalError(c, "Failed to encode transfer state")
		return
	}
	if err := h.db.DB.Save(team).Error; err != nil {
		h.logger.WithError(err).Error("Failed to persist transfer")
		utils.SendInternalError(c, "Failed to persist transfer")
		return
	}

	utils.SendSuccess(c, gin.H{
		"picks":     picks,
		"transfers": state,
	})
}

// SetCaptains sets the captain and vice captain flags on the squad.
func (h *TeamHandler) SetCaptains(c *gin.Context) {
	var req CaptainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.CaptainID == req.ViceCaptainID {
		utils.SendValidationError(c, "Captain and vice captain must differ", "")
		return
	}

	team, picks, err := h.loadTeam(h.userID(c))
	if err != nil {
		if errors.Is(err, utils.ErrNoSquad) {
			utils.SendError(c, http.StatusNotFound, utils.NewAppError(utils.ErrCodeNoSquad, "No squad saved for user"))
			return
		}
		utils.SendInternalError(c, "Failed to load team")
		return
	}

	captainFound, viceFound := false, false
	for _, p := range picks {
		if p.Element == req.CaptainID {
			captainFound = true
		}
		if p.Element == req.ViceCaptainID {
			viceFound = true
		}
	}
	if !captainFound || !viceFound {
		utils.SendValidationError(c, "Captain and vice captain must be in the squad", "")
		return
	}

	for i := range picks {
		picks[i].IsCaptain = picks[i].Element == req.CaptainID
		picks[i].IsViceCaptain = picks[i].Element == req.ViceCaptainID
		switch {
		case picks[i].IsCaptain:
			picks[i].Multiplier = 2
		case picks[i].Position <= 11:
			picks[i].Multiplier = 1
		default:
			picks[i].Multiplier = 0
		}
	}

	if err := team.SetPicks(picks); err != nil {
		utils.SendInternalError(c, "Failed to encode picks")
		return
	}
	if err := h.db.DB.Save(team).Error; err != nil {
		h.logger.WithError(err).Error("Failed to persist captains")
		utils.SendInternalError(c, "Failed to persist captains")
		return
	}

	utils.SendSuccess(c, gin.H{"picks": picks})
}
