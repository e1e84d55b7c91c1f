package services

import (
	"fmt"
	"sync"
	"time"
)

// SMSRateLimiter caps how many messages a single recipient can
// receive inside a sliding window.
type SMSRateLimiter struct {
	mu          sync.Mutex
	sent        map[string][]time.Time
	maxMessages int
	window      time.Duration
}

func NewSMSRateLimiter(maxMessages int, window time.Duration) *SMSRateLimiter {
	return &SMSRateLimiter{
		sent:        make(map[string][]time.Time),
		maxMessages: maxMessages,
		window:      window,
	}
}

// Allow records a send attempt for the recipient, rejecting it when
// the window is already full.
func (rl *SMSRateLimiter) Allow(phoneNumber string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	recent := rl.sent[phoneNumber][:0]
	for _, t := range rl.sent[phoneNumber] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.maxMessages {
		rl.sent[phoneNumber] = recent
		return fmt.Errorf("rate limit exceeded: maximum %d messages per %v", rl.maxMessages, rl.window)
	}

	rl.sent[phoneNumber] = append(recent, now)
	return nil
}
