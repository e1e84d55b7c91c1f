// Package providers holds clients for upstream data sources. The only
// one today is the public Fantasy Premier League REST API.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
	"github.com/Clementjatts/FantasyLeagueManager-sub000/pkg/config"
)

// StatusError is returned for upstream non-2xx responses so callers
// can map a missing manager id to a 404 of their own.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fpl api returned %d for %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether the error is an upstream 404.
func IsNotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.StatusCode == http.StatusNotFound
}

// FPLClient talks to the Fantasy Premier League API. Requests go
// through a shared rate limiter and a circuit breaker; the API is
// unauthenticated but rejects default Go user agents.
type FPLClient struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	logger      *logrus.Logger
}

// NewFPLClient creates a client from config.
func NewFPLClient(cfg *config.Config, logger *logrus.Logger) *FPLClient {
	settings := gobreaker.Settings{
		Name:        "fpl-api",
		MaxRequests: uint32(cfg.CircuitBreakerThreshold),
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	limit := cfg.FPLRateLimit
	if limit <= 0 {
		limit = 10
	}

	return &FPLClient{
		httpClient: &http.Client{
			Timeout: cfg.ExternalAPITimeout,
		},
		baseURL:     cfg.FPLBaseURL,
		userAgent:   cfg.FPLUserAgent,
		rateLimiter: rate.NewLimiter(rate.Limit(limit), limit),
		breaker:     gobreaker.NewCircuitBreaker(settings),
		logger:      logger,
	}
}

func (c *FPLClient) get(ctx context.Context, path string, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	url := c.baseURL + path
	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json, text/plain, */*")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		c.logger.WithError(err).WithField("url", url).Warn("FPL API request failed")
	}
	return err
}

// GetBootstrapStatic fetches the full bootstrap payload.
func (c *FPLClient) GetBootstrapStatic(ctx context.Context) (*fpl.BootstrapStatic, error) {
	var bootstrap fpl.BootstrapStatic
	if err := c.get(ctx, "/bootstrap-static/", &bootstrap); err != nil {
		return nil, err
	}
	return &bootstrap, nil
}

// GetFixtures fetches the full season fixture list.
func (c *FPLClient) GetFixtures(ctx context.Context) ([]fpl.Fixture, error) {
	var fixtures []fpl.Fixture
	if err := c.get(ctx, "/fixtures/", &fixtures); err != nil {
		return nil, err
	}
	return fixtures, nil
}

// GetEntry fetches a manager's entry summary.
func (c *FPLClient) GetEntry(ctx context.Context, managerID int) (*fpl.Entry, error) {
	var entry fpl.Entry
	if err := c.get(ctx, fmt.Sprintf("/entry/%d/", managerID), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetEntryHistory fetches a manager's season history and used chips.
func (c *FPLClient) GetEntryHistory(ctx context.Context, managerID int) (*fpl.EntryHistory, error) {
	var history fpl.EntryHistory
	if err := c.get(ctx, fmt.Sprintf("/entry/%d/history/", managerID), &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// GetEntryPicks fetches a manager's picks for a gameweek.
func (c *FPLClient) GetEntryPicks(ctx context.Context, managerID, event int) (*fpl.EntryPicks, error) {
	var picks fpl.EntryPicks
	if err := c.get(ctx, fmt.Sprintf("/entry/%d/event/%d/picks/", managerID, event), &picks); err != nil {
		return nil, err
	}
	return &picks, nil
}
