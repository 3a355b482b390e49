// Package ratelimit provides an adaptive rate limiter that learns from API
// responses. It imposes no fixed rate; it reacts to 429 responses and to
// rate-limit headers on successful responses.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// window is the sliding interval over which request times are tracked.
	window = 60 * time.Second

	// Backoff fallbacks when a 429 carries no usable Retry-After header.
	backoffQuickSuccession = 30 * time.Second // prior 429 less than 10s ago
	backoffInitial         = 10 * time.Second
	backoffNonNumeric      = 60 * time.Second // Retry-After present but not numeric

	// remainingThreshold triggers proactive pacing on successful responses.
	remainingThreshold = 10
)

// Stats reports the limiter's current state.
type Stats struct {
	RequestsLastMinute int     `json:"requests_last_minute"`
	CurrentRPS         float64 `json:"current_rps"`
	InBackoff          bool    `json:"in_backoff"`
	BackoffRemaining   float64 `json:"backoff_remaining"`
}

// Limiter is an adaptive rate limiter shared by all API workers.
// All state is guarded by a single mutex.
type Limiter struct {
	mu           sync.Mutex
	requestTimes []time.Time
	backoffUntil time.Time
	last429      time.Time
	log          zerolog.Logger

	// now is replaceable for tests
	now func() time.Time
}

// New creates an adaptive rate limiter.
func New(log zerolog.Logger) *Limiter {
	return &Limiter{
		log: log.With().Str("component", "ratelimit").Logger(),
		now: time.Now,
	}
}

// Acquire blocks until any active backoff has elapsed, then records the
// request in the sliding window. It returns early when ctx is cancelled.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()
		wait := l.backoffUntil.Sub(now)
		if wait <= 0 {
			l.pruneLocked(now)
			l.requestTimes = append(l.requestTimes, now)
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		l.log.Info().Dur("wait", wait).Msg("Rate limited, waiting")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// HandleResponse adapts limiter state from an API response.
//
// A 429 schedules a backoff: the Retry-After header value when numeric,
// otherwise 30s when the previous 429 was less than 10s ago, else 10s.
// A 200 with fewer than 10 remaining requests paces the next requests so the
// remaining budget is spread over the time until the limit resets.
func (l *Limiter) HandleResponse(status int, headers http.Header) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	switch status {
	case http.StatusTooManyRequests:
		wait := l.backoffFor(headers, now)
		l.backoffUntil = now.Add(wait)
		l.last429 = now
		l.log.Warn().Dur("backoff", wait).Msg("Rate limited by API, backing off")

	case http.StatusOK:
		remaining, okRem := headerInt(headers, "X-RateLimit-Remaining")
		reset, okReset := headerInt(headers, "X-RateLimit-Reset")
		if !okRem || !okReset || remaining >= remainingThreshold {
			return
		}

		untilReset := time.Duration(reset)*time.Second - time.Duration(now.Unix())*time.Second
		if untilReset < time.Second {
			untilReset = time.Second
		}
		divisor := remaining
		if divisor < 1 {
			divisor = 1
		}
		delay := untilReset / time.Duration(divisor)

		l.backoffUntil = now.Add(delay)
		l.log.Info().
			Int("remaining", remaining).
			Dur("delay", delay).
			Msg("Approaching rate limit, pacing requests")
	}
}

// backoffFor computes the 429 backoff duration. Caller holds the lock.
func (l *Limiter) backoffFor(headers http.Header, now time.Time) time.Duration {
	if retryAfter := headers.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
		return backoffNonNumeric
	}

	if !l.last429.IsZero() && now.Sub(l.last429) < 10*time.Second {
		return backoffQuickSuccession
	}
	return backoffInitial
}

// Stats returns the limiter's current state.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)

	stats := Stats{
		RequestsLastMinute: len(l.requestTimes),
	}

	if len(l.requestTimes) > 0 {
		elapsed := now.Sub(l.requestTimes[0]).Seconds()
		if elapsed > window.Seconds() {
			elapsed = window.Seconds()
		}
		if elapsed > 0 {
			stats.CurrentRPS = float64(len(l.requestTimes)) / elapsed
		}
	}

	if remaining := l.backoffUntil.Sub(now); remaining > 0 {
		stats.InBackoff = true
		stats.BackoffRemaining = remaining.Seconds()
	}

	return stats
}

// pruneLocked drops request times older than the window. Caller holds the lock.
func (l *Limiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-window)
	idx := 0
	for idx < len(l.requestTimes) && !l.requestTimes[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		l.requestTimes = l.requestTimes[idx:]
	}
}

// headerInt reads an integer header value. Lookup is case-insensitive
// because http.Header canonicalizes names.
func headerInt(headers http.Header, name string) (int, bool) {
	value := headers.Get(name)
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}
