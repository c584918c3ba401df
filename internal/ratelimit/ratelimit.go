// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds rate limiting configuration
type Config struct {
	WindowSize    time.Duration // Time window for rate limiting
	MaxAttempts   int           // Maximum attempts per window
	CleanupPeriod time.Duration // How often to clean up old entries
	BanDuration   time.Duration // How long to block after exceeding limit
}

// DefaultAuthConfig returns the limits applied to login and register.
func DefaultAuthConfig() *Config {
	return &Config{
		WindowSize:    15 * time.Minute,
		MaxAttempts:   10,
		CleanupPeriod: 30 * time.Minute,
		BanDuration:   15 * time.Minute,
	}
}

// attemptRecord tracks attempts for an IP/identifier
type attemptRecord struct {
	count     int
	firstSeen time.Time
	bannedAt  *time.Time
}

// RateLimitInfo contains information about rate limit status
type RateLimitInfo struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
	Banned     bool
}

// MemoryRateLimiter implements a fixed-window limiter with a temporary ban
// once the window is exhausted. State is process local.
type MemoryRateLimiter struct {
	config   *Config
	attempts map[string]*attemptRecord
	mu       sync.Mutex
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewMemoryRateLimiter creates a limiter and starts its cleanup goroutine.
// Call Close to stop it.
func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	if config == nil {
		config = DefaultAuthConfig()
	}
	limiter := &MemoryRateLimiter{
		config:   config,
		attempts: make(map[string]*attemptRecord),
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	if config.CleanupPeriod > 0 {
		go limiter.cleanupLoop()
	}

	return limiter
}

// Allow counts one attempt for identifier and reports whether it may proceed.
func (rl *MemoryRateLimiter) Allow(identifier string) (bool, *RateLimitInfo) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	record, exists := rl.attempts[identifier]

	if !exists || rl.windowReset(record, now) {
		rl.attempts[identifier] = &attemptRecord{count: 1, firstSeen: now}
		return true, rl.info(true, rl.config.MaxAttempts-1, now.Add(rl.config.WindowSize), 0, false)
	}

	if record.bannedAt != nil {
		until := record.bannedAt.Add(rl.config.BanDuration)
		return false, rl.info(false, 0, until, until.Sub(now), true)
	}

	record.count++
	if record.count > rl.config.MaxAttempts {
		banTime := now
		record.bannedAt = &banTime
		return false, rl.info(false, 0, now.Add(rl.config.BanDuration), rl.config.BanDuration, true)
	}

	return true, rl.info(true, rl.config.MaxAttempts-record.count, record.firstSeen.Add(rl.config.WindowSize), 0, false)
}

// windowReset reports whether record has aged out: the ban has expired, or
// there is no ban and the window has elapsed.
func (rl *MemoryRateLimiter) windowReset(record *attemptRecord, now time.Time) bool {
	if record.bannedAt != nil {
		return now.Sub(*record.bannedAt) >= rl.config.BanDuration
	}
	return now.Sub(record.firstSeen) > rl.config.WindowSize
}

func (rl *MemoryRateLimiter) info(allowed bool, remaining int, reset time.Time, retry time.Duration, banned bool) *RateLimitInfo {
	return &RateLimitInfo{
		Allowed:    allowed,
		Limit:      rl.config.MaxAttempts,
		Remaining:  remaining,
		ResetTime:  reset,
		RetryAfter: retry,
		Banned:     banned,
	}
}

// RecordSuccess records a successful authentication (resets attempts)
func (rl *MemoryRateLimiter) RecordSuccess(identifier string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.attempts, identifier)
}

// cleanupLoop periodically removes old records
func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for identifier, record := range rl.attempts {
		if rl.windowReset(record, now) {
			delete(rl.attempts, identifier)
		}
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (rl *MemoryRateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// GetClientIP extracts the real client IP from request
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
