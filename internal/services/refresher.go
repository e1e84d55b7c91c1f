package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/models"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/database"
)

// RefresherService keeps the upstream caches warm on a schedule and
// sends SMS reminders ahead of the next gameweek deadline.
type RefresherService struct {
	db             *database.DB
	aggregator     *Aggregator
	sms            SMSSender
	logger         *logrus.Logger
	cron           *cron.Cron
	schedule       string
	reminderWindow time.Duration

	mu           sync.Mutex
	isRunning    bool
	lastReminded time.Time
}

// NewRefresherService creates a refresher. The db and sms sender may
// be nil, in which case deadline reminders are skipped.
func NewRefresherService(
	db *database.DB,
	aggregator *Aggregator,
	sms SMSSender,
	logger *logrus.Logger,
	schedule string,
	reminderWindow time.Duration,
) *RefresherService {
	return &RefresherService{
		db:             db,
		aggregator:     aggregator,
		sms:            sms,
		logger:         logger,
		cron:           cron.New(),
		schedule:       schedule,
		reminderWindow: reminderWindow,
	}
}

// Start schedules the refresh and reminder jobs.
func (s *RefresherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("refresher is already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, s.warmCaches); err != nil {
		return fmt.Errorf("failed to schedule cache refresh: %w", err)
	}

	if s.db != nil && s.sms != nil {
		if _, err := s.cron.AddFunc("@every 1h", s.sendDeadlineReminders); err != nil {
			return fmt.Errorf("failed to schedule deadline reminders: %w", err)
		}
	}

	s.cron.Start()
	s.isRunning = true

	// Warm caches immediately so the first request is not cold.
	go s.warmCaches()

	s.logger.Info("Refresher service started")
	return nil
}

// Stop halts the scheduled jobs, waiting for running ones to finish.
func (s *RefresherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Refresher service stopped")
}

func (s *RefresherService) warmCaches() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.aggregator.GetBootstrap(ctx, ""); err != nil {
		s.logger.WithError(err).Error("Cache refresh: bootstrap fetch failed")
	}
	if _, err := s.aggregator.GetFixtures(ctx, ""); err != nil {
		s.logger.WithError(err).Error("Cache refresh: fixtures fetch failed")
	}

	s.logger.Debug("Cache refresh completed")
}

func (s *RefresherService) sendDeadlineReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	deadline, err := s.aggregator.NextDeadline(ctx, now)
	if err != nil {
		s.logger.WithError(err).Warn("Deadline reminder: no upcoming deadline")
		return
	}

	if deadline.Sub(now) > s.reminderWindow {
		return
	}

	s.mu.Lock()
	alreadySent := s.lastReminded.Equal(*deadline)
	if !alreadySent {
		s.lastReminded = *deadline
	}
	s.mu.Unlock()
	if alreadySent {
		return
	}

	var users []models.User
	if err := s.db.DB.Where("phone <> ''").Find(&users).Error; err != nil {
		s.logger.WithError(err).Error("Deadline reminder: failed to load users")
		return
	}

	message := fmt.Sprintf("FPL deadline approaching: %s. Finalize your transfers and captain.",
		deadline.Local().Format("Mon Jan 2 15:04"))

	sent := 0
	for _, user := range users {
		if err := s.sms.SendMessage(user.Phone, message); err != nil {
			s.logger.WithError(err).WithField("user_id", user.ID).Warn("Deadline reminder failed")
			continue
		}
		sent++
	}

	s.logger.WithFields(logrus.Fields{
		"deadline": deadline,
		"sent":     sent,
	}).Info("Deadline reminders dispatched")
}
