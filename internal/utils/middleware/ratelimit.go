package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const (
	// RateLimitRemaining is the header for remaining requests.
	RateLimitRemaining = "X-RateLimit-Remaining"
	// RateLimitLimit is the header for the limit.
	RateLimitLimit = "X-RateLimit-Limit"
	// RateLimitReset is the header for reset time.
	RateLimitReset = "X-RateLimit-Reset"
	// RetryAfter is the header for retry time.
	RetryAfter = "Retry-After"

	rateLimitKeyPrefix = "ratelimit:"
)

// RateLimiter is a fixed-window counter backed by Redis.
type RateLimiter struct {
	redis goredis.UniversalClient
}

// NewRateLimiter creates a Redis-backed rate limiter.
func NewRateLimiter(redis goredis.UniversalClient) *RateLimiter {
	return &RateLimiter{redis: redis}
}

// Allow increments the counter for key and reports whether the request
// fits within limit for the current window.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, err error) {
	windowKey := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, key, time.Now().UnixNano()/int64(window))

	pipe := r.redis.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	count := int(incr.Val())
	remaining = limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= limit, remaining, nil
}

// RateLimitConfig holds rate limit configuration.
type RateLimitConfig struct {
	// Limit is the maximum number of requests per window.
	Limit int
	// Window is the time window.
	Window time.Duration
	// KeyFunc generates the rate limit key from the request.
	// Default uses client IP.
	KeyFunc func(*gin.Context) string
}

// RateLimit returns a middleware that limits requests using the given limiter.
// Fails open on limiter errors.
func RateLimit(limiter *RateLimiter, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string {
			return "ip:" + c.ClientIP()
		}
	}

	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		allowed, remaining, err := limiter.Allow(c.Request.Context(), cfg.KeyFunc(c), cfg.Limit, cfg.Window)
		if err != nil {
			c.Next()
			return
		}

		c.Header(RateLimitLimit, strconv.Itoa(cfg.Limit))
		c.Header(RateLimitRemaining, strconv.Itoa(remaining))
		c.Header(RateLimitReset, strconv.FormatInt(time.Now().Add(cfg.Window).Unix(), 10))

		if !allowed {
			c.Header(RetryAfter, strconv.Itoa(int(cfg.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Too many requests, please try again later",
				},
			})
			return
		}

		c.Next()
	}
}

// RateLimitByEndpoint limits by endpoint and client IP.
func RateLimitByEndpoint(limiter *RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return RateLimit(limiter, RateLimitConfig{
		Limit:  limit,
		Window: window,
		KeyFunc: func(c *gin.Context) string {
			return fmt.Sprintf("endpoint:%s:%s:%s", c.Request.Method, c.FullPath(), c.ClientIP())
		},
	})
}
