package webui

import (
	"context"
	"sync"
	"time"
)

// RateLimiter tracks failed login attempts per client IP with a sliding
// window and a block period once the limit is reached. Safe for concurrent
// use.
type RateLimiter struct {
	mu          sync.RWMutex
	attempts    map[string]attemptRecord
	maxAttempts int
	window      time.Duration
	block       time.Duration
}

type attemptRecord struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates a limiter allowing maxAttempts failures per window
// before blocking for the block duration.
func NewRateLimiter(maxAttempts int, window, block time.Duration) *RateLimiter {
	return &RateLimiter{
		attempts:    make(map[string]attemptRecord),
		maxAttempts: maxAttempts,
		window:      window,
		block:       block,
	}
}

// Allow reports whether an IP may attempt authentication. When blocked it
// also returns the time remaining until the block lifts.
func (r *RateLimiter) Allow(ip string) (bool, time.Duration) {
	r.mu.RLock()
	record, exists := r.attempts[ip]
	r.mu.RUnlock()

	if !exists || time.Now().After(record.resetAt) {
		return true, 0
	}
	if record.count >= r.maxAttempts {
		return false, time.Until(record.resetAt)
	}
	return true, 0
}

// RecordFailure counts a failed attempt. Hitting the limit extends the
// reset time to the full block duration.
func (r *RateLimiter) RecordFailure(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, exists := r.attempts[ip]
	if !exists || time.Now().After(record.resetAt) {
		r.attempts[ip] = attemptRecord{count: 1, resetAt: time.Now().Add(r.window)}
		return
	}

	record.count++
	if record.count >= r.maxAttempts {
		record.resetAt = time.Now().Add(r.block)
	}
	r.attempts[ip] = record
}

// Reset clears the counter for an IP after a successful login.
func (r *RateLimiter) Reset(ip string) {
	r.mu.Lock()
	delete(r.attempts, ip)
	r.mu.Unlock()
}

// Cleanup drops expired records and returns how many were removed.
func (r *RateLimiter) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	now := time.Now()
	for ip, record := range r.attempts {
		if now.After(record.resetAt) {
			delete(r.attempts, ip)
			removed++
		}
	}
	return removed
}

// StartCleanupTicker runs Cleanup on an interval until ctx is cancelled.
func (r *RateLimiter) StartCleanupTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Cleanup()
			}
		}
	}()
}
