package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/api/middleware"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/models"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/config"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/database"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/utils"
)

const tokenLifetime = 24 * time.Hour

type AuthHandler struct {
	db     *database.DB
	cfg    *config.Config
	logger *logrus.Logger
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=100"`
	Password  string `json:"password" binding:"required,min=8"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	FPLTeamID *int   `json:"fpl_team_id,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func NewAuthHandler(db *database.DB, cfg *config.Config, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// RegisterRoutes registers all auth routes
func (h *AuthHandler) RegisterRoutes(group *gin.RouterGroup) {
	auth := group.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", middleware.AuthRequired(h.cfg.JWTSecret), h.GetCurrentUser)
	}
}

// Register creates a new account and returns a session token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	var existing models.User
	err := h.db.DB.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		utils.SendConflict(c, "Username already taken")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendInternalError(c, "Failed to check username")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.SendInternalError(c, "Failed to hash password")
		return
	}

	user := models.User{
		Username:  req.Username,
		Password:  string(hash),
		Email:     req.Email,
		Phone:     req.Phone,
		FPLTeamID: req.FPLTeamID,
	}
	if err := h.db.DB.Create(&user).Error; err != nil {
		h.logger.WithError(err).Error("Failed to create user")
		utils.SendInternalError(c, "Failed to create user")
		return
	}

	token, expiresAt, err := h.generateToken(&user)
	if err != nil {
		utils.SendInternalError(c, "Failed to generate token")
		return
	}

	utils.SendSuccess(c, AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      &user,
	})
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	var user models.User
	if err := h.db.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.SendUnauthorized(c, "Invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.SendUnauthorized(c, "Invalid username or password")
		return
	}

	token, expiresAt, err := h.generateToken(&user)
	if err != nil {
		utils.SendInternalError(c, "Failed to generate token")
		return
	}

	utils.SendSuccess(c, AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      &user,
	})
}

// GetCurrentUser returns the account behind the bearer token.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID := middleware.UserID(c)

	var user models.User
	if err := h.db.DB.First(&user, userID).Error; err != nil {
		utils.SendNotFound(c, "User not found")
		return
	}
	utils.SendSuccess(c, &user)
}

func (h *AuthHandler) generateToken(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(tokenLifetime)

	claims := &middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fpl-manager",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}
