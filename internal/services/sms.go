package services

import (
	"fmt"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender delivers deadline reminder messages.
type SMSSender interface {
	SendMessage(phoneNumber, message string) error
}

// MockSMSSender logs messages instead of sending them. Used in
// development and whenever Twilio credentials are absent.
type MockSMSSender struct {
	logger *logrus.Logger
}

func NewMockSMSSender(logger *logrus.Logger) *MockSMSSender {
	return &MockSMSSender{logger: logger}
}

func (s *MockSMSSender) SendMessage(phoneNumber, message string) error {
	s.logger.WithFields(logrus.Fields{
		"phone":   phoneNumber,
		"message": message,
	}).Info("Mock SMS sent")
	return nil
}

// TwilioSMSSender implements SMSSender against the Twilio REST API,
// guarded by a circuit breaker and a per-recipient rate limit.
type TwilioSMSSender struct {
	client      *twilio.RestClient
	fromNumber  string
	logger      *logrus.Logger
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *SMSRateLimiter
}

// NewTwilioSMSSender creates a Twilio-backed sender.
func NewTwilioSMSSender(accountSID, authToken, fromNumber string, rateLimiter *SMSRateLimiter, logger *logrus.Logger) *TwilioSMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "twilio-sms",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 3 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &TwilioSMSSender{
		client:      client,
		fromNumber:  fromNumber,
		logger:      logger,
		breaker:     breaker,
		rateLimiter: rateLimiter,
	}
}

// SendMessage sends an SMS via Twilio.
func (s *TwilioSMSSender) SendMessage(phoneNumber, message string) error {
	normalized, err := normalizePhoneNumber(phoneNumber)
	if err != nil {
		return fmt.Errorf("invalid phone number: %w", err)
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.Allow(normalized); err != nil {
			s.logger.WithField("phone", normalized).Warn("SMS rate limited")
			return err
		}
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(normalized)
		params.SetFrom(s.fromNumber)
		params.SetBody(message)
		return s.client.Api.CreateMessage(params)
	})
	if err != nil {
		s.logger.WithError(err).WithField("phone", normalized).Error("Failed to send SMS")
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	s.logger.WithField("phone", normalized).Info("SMS sent")
	return nil
}

var (
	nonDialable = regexp.MustCompile(`[^\d+]`)
	usNumber    = regexp.MustCompile(`^\d{10}$`)
	e164        = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
)

// normalizePhoneNumber coerces the input into E.164 form, assuming a
// US country code for bare ten-digit numbers.
func normalizePhoneNumber(phone string) (string, error) {
	cleaned := nonDialable.ReplaceAllString(phone, "")
	if len(cleaned) == 0 || cleaned[0] != '+' {
		if usNumber.MatchString(cleaned) {
			cleaned = "+1" + cleaned
		} else {
			return "", fmt.Errorf("expected E.164 format, got %q", phone)
		}
	}
	if !e164.MatchString(cleaned) {
		return "", fmt.Errorf("expected E.164 format, got %q", phone)
	}
	return cleaned, nil
}
