package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

type RateLimiter struct {
	mu          sync.Mutex
	remaining   int
	reset       time.Time
	lowWarn     int
	retryAfter  time.Duration
	retryStatus int
	maxWait     time.Duration
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		// * search API allows 30 req/min authenticated
		remaining:   30,
		reset:       time.Now(),
		lowWarn:     5,
		retryStatus: http.StatusTooManyRequests,
		maxWait:     time.Minute,
	}
}

func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

func (r *RateLimiter) pendingWait() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.remaining > 0 || !time.Now().Before(r.reset) {
		return 0
	}
	return min(time.Until(r.reset), r.maxWait)
}

func (r *RateLimiter) waitIfNeeded(ctx context.Context) error {
	wait := r.pendingWait()
	if wait <= 0 {
		return nil
	}

	logger.Warn("[RateLimiter] Rate limit exhausted. Waiting %v", wait)
	return sleepCtx(ctx, wait)
}

func (r *RateLimiter) updateFromHeaders(headers http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := headers.Get("X-RateLimit-Remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}

	if reset := headers.Get("X-RateLimit-Reset"); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.reset = time.Unix(val, 0)
		}
	}

	r.retryAfter = 0
	if retry := headers.Get("Retry-After"); retry != "" {
		if seconds, err := strconv.Atoi(retry); err == nil {
			r.retryAfter = time.Duration(seconds) * time.Second
		}
	}

	if r.remaining < r.lowWarn {
		logger.Warn("[RateLimiter] Low rate limit: %d remaining. Resets at %s", r.remaining, r.reset.Format(time.RFC1123))
	}
}

func (r *RateLimiter) Middleware(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if err := r.waitIfNeeded(req.Context()); err != nil {
			return nil, err
		}

		resp, err := next.RoundTrip(req)
		if err != nil {
			logger.Error("Network error in RoundTrip: %v", err)
			return nil, err
		}

		r.updateFromHeaders(resp.Header)

		// * Retry once on 429 when the server says how long to wait
		if resp.StatusCode == r.retryStatus {
			r.mu.Lock()
			wait := min(r.retryAfter, r.maxWait)
			r.mu.Unlock()
			if wait <= 0 {
				return resp, nil
			}

			logger.Warn("[RateLimiter] Received 429. Retrying after %v...", wait)
			resp.Body.Close()
			if err := sleepCtx(req.Context(), wait); err != nil {
				return nil, err
			}
			retried, err := next.RoundTrip(req)
			if err != nil {
				return nil, err
			}
			r.updateFromHeaders(retried.Header)
			return retried, nil
		}

		return resp, nil
	})
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
