package middleware

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/errors"
	"github.com/gotcha-app/backend/internal/logger"
	"github.com/gotcha-app/backend/internal/metrics"
	"github.com/gotcha-app/backend/internal/ratelimit"
	"github.com/gotcha-app/backend/internal/util"
	"go.uber.org/zap"
)

// RateLimit wraps a route with the given policy on the shared limiter.
// Requests are keyed by authenticated user ID, falling back to client IP for
// anonymous traffic. The action name scopes keys so hitting the comment
// limit does not block likes.
func RateLimit(limiter *ratelimit.Limiter, action string, policy ratelimit.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKey(c, action)

		allowed, retryAfter := limiter.Allow(key, policy)
		if !allowed {
			retrySeconds := int(math.Ceil(retryAfter.Seconds()))

			metrics.Get().RateLimitExceededTotal.WithLabelValues(action).Inc()
			logger.Warn("Rate limit exceeded",
				zap.String("action", action),
				zap.String("key", key),
				zap.Int("retry_after", retrySeconds),
			)

			c.Header("Retry-After", strconv.Itoa(retrySeconds))
			c.Header("X-RateLimit-Limit", strconv.Itoa(policy.Limit))
			c.Header("X-RateLimit-Remaining", "0")
			util.RespondWithAPIError(c, errors.RateLimited(
				fmt.Sprintf("too many %s requests, try again in %ds", action, retrySeconds)))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(policy.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key, policy)))
		c.Next()
	}
}

func rateLimitKey(c *gin.Context, action string) string {
	if userID := c.GetString("user_id"); userID != "" {
		return action + ":user:" + userID
	}
	return action + ":ip:" + c.ClientIP()
}
