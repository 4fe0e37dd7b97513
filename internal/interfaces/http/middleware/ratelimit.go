package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// RateLimiter is a fixed-window request counter keyed by caller. It protects
// the unauthenticated subscriber endpoints from abuse; authenticated console
// traffic is not limited.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window per key
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
	go rl.evictLoop()
	return rl
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-2 * rl.window)
		for key, b := range rl.buckets {
			if b.windowStart.Before(cutoff) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow records a request for key and reports whether it is within the limit.
// The second return value is the number of requests left in the window.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.windowStart) >= rl.window {
		rl.buckets[key] = &bucket{count: 1, windowStart: now}
		return true, rl.limit - 1
	}
	if b.count >= rl.limit {
		return false, 0
	}
	b.count++
	return true, rl.limit - b.count
}

// RateLimit limits requests per client IP. With prefixes given only matching
// paths are limited; with none, every request is.
func RateLimit(limiter *RateLimiter, prefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(prefixes) > 0 {
			matched := false
			for _, p := range prefixes {
				if strings.HasPrefix(c.Request.URL.Path, p) {
					matched = true
					break
				}
			}
			if !matched {
				c.Next()
				return
			}
		}

		allowed, remaining := limiter.Allow(c.ClientIP())
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			requestID := c.GetString(RequestIDKey)
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse("RATE_LIMIT_EXCEEDED", "Too many requests, try again later", requestID))
			return
		}
		c.Next()
	}
}
