package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pageza/foodwise/backend/internal/observability"
)

// RateLimitConfig sets Limit requests per Window for each client
type RateLimitConfig struct {
	Window    time.Duration
	Limit     int
	KeyPrefix string
}

// RateLimiter is a fixed-window limiter keyed by client IP and backed by Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit:api"
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Quota is the outcome of counting one request against its window
type Quota struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Middleware enforces the limit per client IP. When Redis cannot be reached
// the request is let through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		quota, err := rl.Take(c.Request.Context(), c.ClientIP())
		if err != nil {
			logrus.WithError(err).WithField("request_id", c.GetString(RequestIDKey)).Warn("rate limit check failed")
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(quota.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(quota.Reset.Unix(), 10))

		if !quota.Allowed {
			observability.RateLimitRejectedTotal.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(time.Until(quota.Reset).Seconds()),
			})
			return
		}

		c.Next()
	}
}

// Take counts one request from client in the current fixed window
func (rl *RateLimiter) Take(ctx context.Context, client string) (Quota, error) {
	window := time.Now().Truncate(rl.config.Window)
	key := rl.config.KeyPrefix + ":" + client + ":" + strconv.FormatInt(window.Unix(), 10)

	var count *redis.IntCmd
	_, err := rl.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rl.config.Window)
		return nil
	})
	if err != nil {
		return Quota{}, fmt.Errorf("failed to count request: %w", err)
	}

	used := int(count.Val())
	return Quota{
		Allowed:   used <= rl.config.Limit,
		Remaining: max(rl.config.Limit-used, 0),
		Reset:     window.Add(rl.config.Window),
	}, nil
}
