package connectors

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

// DefaultRetryAfter is the backoff used when a 429 carries no Retry-After.
const DefaultRetryAfter = time.Minute

// RateLimitConfig holds rate limiting configuration for a source.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimits are conservative per-source limits. A refresh is a single
// request, so these only matter when refreshes are triggered in a tight loop.
var DefaultRateLimits = map[domain.SourceKind]RateLimitConfig{
	domain.SourceGViz:  {RequestsPerSecond: 1.0, BurstSize: 3},
	domain.SourceDrive: {RequestsPerSecond: 8.0, BurstSize: 10},
}

// RateLimiter is a token bucket with a backoff window for 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a rate limiter with the default limits for kind.
func NewRateLimiter(kind domain.SourceKind) *RateLimiter {
	cfg, ok := DefaultRateLimits[kind]
	if !ok {
		cfg = RateLimitConfig{RequestsPerSecond: 5.0, BurstSize: 10}
	}
	return NewRateLimiterWithConfig(cfg)
}

// NewRateLimiterWithConfig creates a rate limiter with custom configuration.
func NewRateLimiterWithConfig(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until the token bucket allows a request. Inside a backoff
// window it fails at once with domain.ErrRateLimited, so a refresh falls back
// to the snapshot instead of sleeping through the window.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return fmt.Errorf("%w: retry after %s", domain.ErrRateLimited, retryAt.Format(time.RFC3339))
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError opens a backoff window after a 429.
// Requests inside the window fail without reaching the source.
// A non-positive retryAfter uses DefaultRetryAfter.
func (r *RateLimiter) RecordRateLimitError(retryAfter time.Duration) {
	if retryAfter <= 0 {
		retryAfter = DefaultRetryAfter
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(retryAfter)
}

// Allow reports whether a request may be made now without blocking.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}
