package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/api"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/api/handlers"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/api/middleware"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/providers"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/services"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/config"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	fplClient := providers.NewFPLClient(cfg, logger)
	aggregator := services.NewAggregator(fplClient, cacheService, cfg, logger)

	// Background cache refresh and deadline reminders
	if cfg.EnableBackgroundRefresh {
		sms := newSMSSender(cfg, logger)
		reminderWindow := time.Duration(cfg.DeadlineReminderHours) * time.Hour
		refresher := services.NewRefresherService(db, aggregator, sms, logger, cfg.RefreshSchedule, reminderWindow)
		if err := refresher.Start(); err != nil {
			logrus.Errorf("Failed to start refresher: %v", err)
		}
		defer refresher.Stop()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	// API routes
	apiGroup := router.Group("/api")
	api.SetupRoutes(apiGroup, db, aggregator, cfg, logger)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// newSMSSender picks the reminder transport from config, falling back
// to the mock sender when Twilio credentials are missing.
func newSMSSender(cfg *config.Config, logger *logrus.Logger) services.SMSSender {
	rateLimiter := services.NewSMSRateLimiter(3, time.Hour)

	switch cfg.SMSProvider {
	case "twilio":
		if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
			return services.NewTwilioSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, rateLimiter, logger)
		}
		logger.Warn("Twilio credentials missing, falling back to mock SMS sender")
		return services.NewMockSMSSender(logger)
	case "mock":
		return services.NewMockSMSSender(logger)
	default:
		logger.Warnf("Unknown SMS provider %q, using mock SMS sender", cfg.SMSProvider)
		return services.NewMockSMSSender(logger)
	}
}
