package designapi

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultBackoff applies when a 429 reply has no usable Retry-After header.
const defaultBackoff = 30 * time.Second

// rateLimiter throttles requests to the design service.
// It uses a token bucket with a backoff window opened by 429 replies.
type rateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// newRateLimiter creates a limiter allowing rps requests per second.
// A non-positive rps disables the token bucket; backoff still applies.
func newRateLimiter(rps float64) *rateLimiter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &rateLimiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until a request may be sent or ctx is done.
func (r *rateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// Backoff opens a backoff window from a Retry-After header value (seconds).
func (r *rateLimiter) Backoff(retryAfter string) {
	wait := defaultBackoff
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
		wait = time.Duration(secs) * time.Second
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(wait)
}

// observe records throttling signals from a reply.
func (r *rateLimiter) observe(resp *http.Response) {
	if resp.StatusCode == http.StatusTooManyRequests {
		r.Backoff(resp.Header.Get("Retry-After"))
	}
}
