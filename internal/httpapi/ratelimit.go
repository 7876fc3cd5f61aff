package httpapi

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

// rateLimiter is a per-key token bucket. Buckets refill continuously at
// max/window and are dropped once idle for two windows.
type rateLimiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens     float64
	lastUpdate time.Time
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		max:     max,
		window:  window,
		buckets: make(map[string]*bucket),
	}
}

func (rl *rateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok {
		rl.buckets[key] = &bucket{tokens: float64(rl.max) - 1, lastUpdate: now}
		return true
	}

	refill := now.Sub(b.lastUpdate).Seconds() * float64(rl.max) / rl.window.Seconds()
	b.tokens += refill
	if b.tokens > float64(rl.max) {
		b.tokens = float64(rl.max)
	}
	b.lastUpdate = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastUpdate) > rl.window*2 {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanup prunes idle buckets until ctx is cancelled.
func (rl *rateLimiter) StartCleanup(ctx context.Context) {
	t := time.NewTicker(rl.window)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-t.C:
				rl.cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// rateLimitMiddleware limits /api/ traffic per client IP. Other paths
// (root banner, health, metrics) are never limited.
func rateLimitMiddleware(rl *rateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}
		if !rl.Allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
