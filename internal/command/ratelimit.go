// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package command

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Rate limiting defaults.
const (
	// DefaultBurstCapacity is how many commands a session can issue
	// back to back before the limiter pushes back.
	DefaultBurstCapacity = 10

	// DefaultSustainedRate is the sustained commands per second (the
	// token refill rate).
	DefaultSustainedRate = 2.0

	// DefaultCleanupInterval is how often stale session buckets are
	// swept.
	DefaultCleanupInterval = 5 * time.Minute

	// DefaultSessionMaxAge is how long an idle bucket survives before
	// the sweep removes it.
	DefaultSessionMaxAge = time.Hour
)

// RateLimiterConfig configures the rate limiter. Zero values fall
// back to the defaults above.
type RateLimiterConfig struct {
	BurstCapacity   int
	SustainedRate   float64
	CleanupInterval time.Duration
	SessionMaxAge   time.Duration
}

// sessionBucket is token-bucket state for one session.
type sessionBucket struct {
	tokens    float64
	lastCheck time.Time
}

// RateLimiter applies a per-session token bucket. It is safe for
// concurrent use and runs a background sweep goroutine; call Close to
// stop it.
type RateLimiter struct {
	mu            sync.Mutex
	sessions      map[ulid.ULID]*sessionBucket
	burstCapacity int
	sustainedRate float64
	sessionMaxAge time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup

	sessionGauge prometheus.Gauge
}

// NewRateLimiter creates a rate limiter and starts its cleanup
// goroutine.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return newRateLimiter(cfg, nil)
}

// NewRateLimiterWithRegistry additionally registers a gauge of tracked
// sessions with the Prometheus registry.
func NewRateLimiterWithRegistry(cfg RateLimiterConfig, reg prometheus.Registerer) *RateLimiter {
	return newRateLimiter(cfg, reg)
}

func newRateLimiter(cfg RateLimiterConfig, reg prometheus.Registerer) *RateLimiter {
	if cfg.BurstCapacity <= 0 {
		cfg.BurstCapacity = DefaultBurstCapacity
	}
	if cfg.SustainedRate <= 0 {
		cfg.SustainedRate = DefaultSustainedRate
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if cfg.SessionMaxAge <= 0 {
		cfg.SessionMaxAge = DefaultSessionMaxAge
	}

	rl := &RateLimiter{
		sessions:      make(map[ulid.ULID]*sessionBucket),
		burstCapacity: cfg.BurstCapacity,
		sustainedRate: cfg.SustainedRate,
		sessionMaxAge: cfg.SessionMaxAge,
		stopChan:      make(chan struct{}),
	}

	if reg != nil {
		rl.sessionGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "embermud_ratelimiter_sessions",
			Help: "Current number of tracked rate limiter sessions",
		})
		reg.MustRegister(rl.sessionGauge)
	}

	rl.wg.Add(1)
	go rl.cleanupLoop(cfg.CleanupInterval)

	return rl
}

// Allow consumes one token for the session if available. When the
// bucket is empty it returns false and the milliseconds until the
// next token.
func (rl *RateLimiter) Allow(sessionID ulid.ULID) (allowed bool, cooldownMs int64) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	bucket, exists := rl.sessions[sessionID]
	if !exists {
		bucket = &sessionBucket{tokens: float64(rl.burstCapacity), lastCheck: now}
		rl.sessions[sessionID] = bucket
	}

	elapsed := now.Sub(bucket.lastCheck).Seconds()
	bucket.tokens += elapsed * rl.sustainedRate
	if bucket.tokens > float64(rl.burstCapacity) {
		bucket.tokens = float64(rl.burstCapacity)
	}
	bucket.lastCheck = now

	if bucket.tokens >= 1.0 {
		bucket.tokens -= 1.0
		return true, 0
	}

	deficit := 1.0 - bucket.tokens
	return false, int64(deficit / rl.sustainedRate * 1000)
}

// SessionCount returns the number of tracked sessions.
func (rl *RateLimiter) SessionCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.sessions)
}

// Cleanup removes buckets idle for longer than maxAge. The background
// goroutine calls this on its interval.
func (rl *RateLimiter) Cleanup(maxAge time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	threshold := time.Now().Add(-maxAge)
	for sessionID, bucket := range rl.sessions {
		if bucket.lastCheck.Before(threshold) {
			delete(rl.sessions, sessionID)
		}
	}
	if rl.sessionGauge != nil {
		rl.sessionGauge.Set(float64(len(rl.sessions)))
	}
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	defer rl.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			rl.Cleanup(rl.sessionMaxAge)
		}
	}
}

// Close stops the cleanup goroutine. It blocks until the goroutine
// has exited.
func (rl *RateLimiter) Close() {
	close(rl.stopChan)
	rl.wg.Wait()
}
