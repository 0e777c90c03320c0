package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"disputetrack/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Redis        *redis.Client
	Requests     int
	Window       time.Duration
	KeyPrefix    string
	SkipPaths    []string
	ErrorMessage string
}

// RateLimiter enforces a per-IP sliding window limit backed by Redis.
// With no Redis client configured it is a no-op.
type RateLimiter struct {
	config RateLimitConfig
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit"
	}
	if config.ErrorMessage == "" {
		config.ErrorMessage = "Rate limit exceeded"
	}
	return &RateLimiter{config: config}
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		if rl.config.Redis == nil || shouldSkipPath(c.Request.URL.Path, rl.config.SkipPaths) {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:ip:%s", rl.config.KeyPrefix, c.ClientIP())

		allowed, resetTime, remaining, err := rl.checkRateLimit(key)
		if err != nil {
			logrus.Errorf("Rate limit check failed: %v", err)
			// Allow request to proceed on error
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:     models.ErrCodeRateLimit,
				Message:   rl.config.ErrorMessage,
				Code:      models.ErrCodeRateLimit,
				RequestID: c.GetString("request_id"),
				Timestamp: time.Now(),
			})
			c.Abort()
			return
		}

		c.Next()
	})
}

// checkRateLimit applies a sliding window log over a Redis sorted set.
func (rl *RateLimiter) checkRateLimit(key string) (allowed bool, resetTime time.Time, remaining int, err error) {
	ctx := context.Background()
	now := time.Now()
	window := rl.config.Window

	pipe := rl.config.Redis.Pipeline()

	expiredBefore := now.Add(-window).UnixNano()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", expiredBefore))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, &redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	pipe.Expire(ctx, key, window+time.Minute)

	if _, err = pipe.Exec(ctx); err != nil {
		return false, time.Time{}, 0, err
	}

	currentCount := countCmd.Val()

	remaining = rl.config.Requests - int(currentCount) - 1
	if remaining < 0 {
		remaining = 0
	}
	resetTime = now.Add(window)
	allowed = currentCount < int64(rl.config.Requests)

	if !allowed {
		rl.config.Redis.ZRem(ctx, key, fmt.Sprintf("%d", now.UnixNano()))
	}

	return allowed, resetTime, remaining, nil
}
