// Package ratelimit provides a Redis-backed fixed-window request limiter for the HTTP API.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	jwtmw "label_detection/internal/platform/jwt"
)

const (
	EnvKeyRateLimitPerMinute = "RATE_LIMIT_PER_MINUTE"

	DefaultLimit  = 60
	DefaultWindow = time.Minute
	keyPrefix     = "ratelimit"
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// FixedWindow counts requests per client in fixed windows using INCR + EXPIRE.
type FixedWindow struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewFixedWindow creates a limiter allowing limit requests per window.
// Non-positive values fall back to the defaults.
func NewFixedWindow(client redis.Cmdable, limit int, window time.Duration) *FixedWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &FixedWindow{client: client, limit: limit, window: window, now: time.Now}
}

// LimitFromEnv reads RATE_LIMIT_PER_MINUTE, falling back to DefaultLimit.
func LimitFromEnv() int {
	n, err := strconv.Atoi(os.Getenv(EnvKeyRateLimitPerMinute))
	if err != nil || n <= 0 {
		return DefaultLimit
	}
	return n
}

func (f *FixedWindow) key(clientID string, now time.Time) string {
	return fmt.Sprintf("%s:%s:%d", keyPrefix, clientID, now.UnixNano()/int64(f.window))
}

// Allow records one request for clientID and reports whether it fits the current window.
func (f *FixedWindow) Allow(ctx context.Context, clientID string) (Decision, error) {
	now := f.now()
	key := f.key(clientID, now)

	n, err := f.client.Incr(ctx, key).Result()
	if err != nil {
		return Decision{}, err
	}
	if n == 1 {
		if err := f.client.Expire(ctx, key, f.window).Err(); err != nil {
			return Decision{}, err
		}
	}

	d := Decision{Limit: f.limit, Remaining: max(f.limit-int(n), 0), Allowed: int(n) <= f.limit}
	if !d.Allowed {
		windowStart := now.Truncate(f.window)
		d.RetryAfter = windowStart.Add(f.window).Sub(now)
	}
	return d, nil
}

// Middleware rejects requests over the limit with 429. A nil limiter disables limiting,
// and Redis failures let the request through.
func Middleware(limiter *FixedWindow) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		id := jwtmw.ClientID(c)
		if id == "" {
			id = c.ClientIP()
		}

		d, err := limiter.Allow(c.Request.Context(), id)
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "client", id, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			secs := int(d.RetryAfter.Round(time.Second) / time.Second)
			c.Header("Retry-After", strconv.Itoa(max(secs, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
