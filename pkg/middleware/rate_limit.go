package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/diagnosis/slotbook/pkg/logger"
	"github.com/diagnosis/slotbook/pkg/response"
)

// RateCounter is satisfied by cache.RedisStore and cache.MemoryStore.
type RateCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Requests int           // Max requests per window
	Window   time.Duration // Time window duration
	KeyFunc  func(r *http.Request) []string
}

// RateLimiter is a fixed-window limiter keyed by client. Counter errors let
// the request through.
type RateLimiter struct {
	counter RateCounter
	config  RateLimitConfig
}

func NewRateLimiter(counter RateCounter, config RateLimitConfig) *RateLimiter {
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.KeyFunc == nil {
		config.KeyFunc = ClientIPKey
	}
	return &RateLimiter{counter: counter, config: config}
}

// Middleware returns the rate limiting middleware. A non-positive Requests
// disables limiting.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.config.Requests <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			for _, key := range rl.config.KeyFunc(r) {
				if !rl.allow(r.Context(), key) {
					w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rl.config.Window.Seconds())))
					response.WriteError(w, http.StatusTooManyRequests, "Too many requests. Try again later.", response.CodeRateLimit)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	// Hash the key for privacy
	sum := sha256.Sum256([]byte(key))
	count, err := rl.counter.Incr(ctx, fmt.Sprintf("ratelimit:%x", sum), rl.config.Window)
	if err != nil {
		logger.WarnContext(ctx, "Rate limiter unavailable", "error", err)
		return true
	}
	return count <= int64(rl.config.Requests)
}

// ClientIPKey limits by the caller's address.
func ClientIPKey(r *http.Request) []string {
	if ip := clientIP(r); ip != "" {
		return []string{"ip:" + ip}
	}
	return nil
}

// clientIP extracts the real client IP from the request
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
