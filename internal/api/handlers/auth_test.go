package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/models"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/config"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/database"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/utils"
)

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewConnection("sqlite://"+filepath.Join(t.TempDir(), "auth.db"), false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := NewAuthHandler(db, &config.Config{JWTSecret: "test-secret"}, logger)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))
	return router
}

func decodeAuthResponse(t *testing.T, env envelope) AuthResponse {
	t.Helper()
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	router := newAuthTestRouter(t)

	w, env := doJSON(router, http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: "alice",
		Password: "changeme123",
		Email:    "alice@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)

	registered := decodeAuthResponse(t, env)
	assert.NotEmpty(t, registered.Token)
	require.NotNil(t, registered.User)
	assert.Equal(t, "alice", registered.User.Username)

	w, env = doJSON(router, http.MethodPost, "/api/auth/login", LoginRequest{
		Username: "alice",
		Password: "changeme123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeAuthResponse(t, env).Token)

	// The token is accepted on the protected route.
	req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	rec := newRecorder(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	router := newAuthTestRouter(t)

	w, _ := doJSON(router, http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: "bob", Password: "changeme123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(router, http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: "bob", Password: "changeme123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.ErrCodeConflict, env.Error.Code)
}

func TestRegisterWeakPassword(t *testing.T) {
	router := newAuthTestRouter(t)

	w, env := doJSON(router, http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: "carol", Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.ErrCodeValidation, env.Error.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router := newAuthTestRouter(t)

	w, _ := doJSON(router, http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: "dave", Password: "changeme123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(router, http.MethodPost, "/api/auth/login", LoginRequest{
		Username: "dave", Password: "wrongpass123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.ErrCodeUnauthorized, env.Error.Code)
}

func TestProtectedRouteRejectsAnonymous(t *testing.T) {
	router := newAuthTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := newRecorder(router, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
