package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerr "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/dto"
)

// RateLimiter is a fixed-window request limiter backed by Redis, keyed by
// client IP. A nil client disables limiting. Redis failures fail open: a
// broken limiter backend must not take the API down with it.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger coreport.Logger
}

// NewRateLimiter creates a new RateLimiter
func NewRateLimiter(client *redis.Client, limit int, window time.Duration, logger coreport.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// Middleware returns the gin handler enforcing the limit under the given key
// prefix, so different route groups get independent windows
func (rl *RateLimiter) Middleware(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.client == nil || rl.limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", prefix, c.ClientIP())
		ctx := c.Request.Context()

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			rl.logger.Warn("Rate limiter backend unavailable", map[string]any{
				"error": err.Error(),
			})
			c.Next()
			return
		}
		if count == 1 {
			if err := rl.client.Expire(ctx, key, rl.window).Err(); err != nil {
				rl.logger.Warn("Failed to set rate limit window", map[string]any{
					"key":   key,
					"error": err.Error(),
				})
			}
		}

		if count > int64(rl.limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrValidation),
				Message: "Rate limit exceeded, retry later",
			})
			return
		}

		c.Next()
	}
}
