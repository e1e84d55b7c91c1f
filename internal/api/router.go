package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/api/handlers"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/api/middleware"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/services"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/config"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/database"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, db *database.DB, aggregator *services.Aggregator, cfg *config.Config, logger *logrus.Logger) {
	fplHandler := handlers.NewFPLHandler(aggregator, logger)
	teamHandler := handlers.NewTeamHandler(db, aggregator, logger)
	recommendationsHandler := handlers.NewRecommendationsHandler(aggregator, logger)
	authHandler := handlers.NewAuthHandler(db, cfg, logger)

	authHandler.RegisterRoutes(group)

	fplGroup := group.Group("/fpl")
	{
		// Upstream proxy endpoints
		fplGroup.GET("/bootstrap-static", fplHandler.GetBootstrapStatic)
		fplGroup.GET("/players", fplHandler.GetPlayers)
		fplGroup.GET("/fixtures", fplHandler.GetFixtures)
		fplGroup.GET("/my-team/:managerId", fplHandler.GetMyTeam)
		fplGroup.GET("/next-deadline", fplHandler.GetNextDeadline)
		fplGroup.GET("/top-managers-team", fplHandler.GetTopManagersTeam)

		// Engine endpoints
		recs := fplGroup.Group("/recommendations")
		{
			recs.GET("/chips", recommendationsHandler.GetChips)
			recs.GET("/transfers", recommendationsHandler.GetTransfers)
			recs.GET("/captains", recommendationsHandler.GetCaptains)
			recs.GET("/dream-team", recommendationsHandler.GetDreamTeam)
			recs.GET("/value", recommendationsHandler.GetValue)
		}

		// Squad writes, scoped to the authenticated user with a dev
		// fallback for anonymous requests
		team := fplGroup.Group("")
		team.Use(middleware.OptionalAuth(cfg.JWTSecret))
		{
			team.GET("/team", teamHandler.GetTeam)
			team.POST("/team", teamHandler.SaveTeam)
			team.POST("/transfers", teamHandler.MakeTransfer)
			team.POST("/captains", teamHandler.SetCaptains)
		}
	}
}
