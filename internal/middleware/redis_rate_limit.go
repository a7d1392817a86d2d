package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/cache"
	"github.com/gotcha-app/backend/internal/errors"
	"github.com/gotcha-app/backend/internal/logger"
	"github.com/gotcha-app/backend/internal/metrics"
	"github.com/gotcha-app/backend/internal/ratelimit"
	"github.com/gotcha-app/backend/internal/util"
	"go.uber.org/zap"
)

// RedisRateLimit enforces the policy with a Redis INCR+EXPIRE counter so the
// limit holds across server instances. This is a fixed-window approximation
// of the in-memory sliding window; use it when running more than one replica.
func RedisRateLimit(action string, policy ratelimit.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		redisClient := cache.GetRedisClient()
		if redisClient == nil {
			logger.Log.Warn("Redis rate limiter unavailable, allowing request",
				zap.String("action", action),
			)
			c.Next()
			return
		}

		key := "rate_limit:" + rateLimitKey(c, action)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := redisClient.Incr(ctx, key)
		if err != nil {
			// Allowing requests through when the limiter is broken opens
			// write endpoints to abuse, so fail closed.
			logger.Error("Rate limit increment failed, rejecting request",
				zap.String("action", action),
				zap.Error(err),
			)
			util.RespondWithAPIError(c, errors.ServiceUnavailable("rate limiter"))
			c.Abort()
			return
		}

		if count == 1 {
			if err := redisClient.Expire(ctx, key, policy.Window); err != nil {
				logger.Warn("Failed to set rate limit expiration",
					zap.String("action", action),
					zap.Error(err),
				)
			}
		}

		if count > int64(policy.Limit) {
			retrySeconds := int(policy.Window.Seconds())
			if ttl, err := redisClient.TTL(ctx, key); err == nil && ttl > 0 {
				retrySeconds = int(ttl.Seconds()) + 1
			}

			metrics.Get().RateLimitExceededTotal.WithLabelValues(action).Inc()
			c.Header("Retry-After", strconv.Itoa(retrySeconds))
			c.Header("X-RateLimit-Limit", strconv.Itoa(policy.Limit))
			c.Header("X-RateLimit-Remaining", "0")
			util.RespondWithAPIError(c, errors.RateLimited(""))
			c.Abort()
			return
		}

		c.Next()
	}
}
