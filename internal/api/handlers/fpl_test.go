package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/providers"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/services"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/config"
)

func newFPLTestRouter(t *testing.T, mux *http.ServeMux) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(mux)
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		FPLBaseURL:              upstream.URL,
		FPLUserAgent:            "test-agent",
		FPLRateLimit:            100,
		CircuitBreakerThreshold: 5,
		ExternalAPITimeout:      5 * time.Second,
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	aggregator := services.NewAggregator(providers.NewFPLClient(cfg, logger), nil, cfg, logger)
	handler := NewFPLHandler(aggregator, logger)

	router := gin.New()
	router.GET("/fpl/bootstrap-static", handler.GetBootstrapStatic)
	router.GET("/fpl/players", handler.GetPlayers)
	router.GET("/fpl/fixtures", handler.GetFixtures)
	router.GET("/fpl/next-deadline", handler.GetNextDeadline)
	return router
}

func bootstrapMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(teamMarket()))
	})
	return mux
}

func TestGetBootstrapStaticAcceptsSeason(t *testing.T) {
	router := newFPLTestRouter(t, bootstrapMux(t))

	w, env := doJSON(router, http.MethodGet, "/fpl/bootstrap-static?season=2023-24", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)

	var bootstrap fpl.BootstrapStatic
	require.NoError(t, json.Unmarshal(env.Data, &bootstrap))
	assert.Len(t, bootstrap.Elements, 5)
}

func TestGetPlayersFilters(t *testing.T) {
	router := newFPLTestRouter(t, bootstrapMux(t))

	w, env := doJSON(router, http.MethodGet, "/fpl/players?position=2&season=2023-24", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var players []fpl.Player
	require.NoError(t, json.Unmarshal(env.Data, &players))
	require.Len(t, players, 2)
	for _, p := range players {
		assert.Equal(t, fpl.PositionDEF, p.ElementType)
	}

	_, env = doJSON(router, http.MethodGet, "/fpl/players?search=wing", nil)
	require.NoError(t, json.Unmarshal(env.Data, &players))
	require.Len(t, players, 2)
	assert.Equal(t, "Wing", players[0].WebName)
	assert.Equal(t, "NewWing", players[1].WebName)
}

func TestGetFixturesAcceptsSeason(t *testing.T) {
	ko := time.Now().Add(24 * time.Hour).UTC()
	mux := http.NewServeMux()
	mux.HandleFunc("/fixtures/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode([]fpl.Fixture{
			{ID: 1, Event: 10, TeamH: 1, TeamA: 2, KickoffTime: &ko},
		}))
	})
	router := newFPLTestRouter(t, mux)

	w, env := doJSON(router, http.MethodGet, "/fpl/fixtures?season=2023-24", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fixtures []fpl.Fixture
	require.NoError(t, json.Unmarshal(env.Data, &fixtures))
	assert.Len(t, fixtures, 1)
}

func TestGetNextDeadlinePayload(t *testing.T) {
	ko := time.Now().Add(48 * time.Hour).UTC()
	mux := http.NewServeMux()
	mux.HandleFunc("/fixtures/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode([]fpl.Fixture{
			{ID: 1, Event: 10, TeamH: 1, TeamA: 2, KickoffTime: &ko},
		}))
	})
	router := newFPLTestRouter(t, mux)

	w, env := doJSON(router, http.MethodGet, "/fpl/next-deadline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)

	var payload map[string]time.Time
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	deadline, ok := payload["deadline"]
	require.True(t, ok, "response must use the deadline key")
	assert.WithinDuration(t, ko, deadline, time.Second)
}
