package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDMiddleware adds a unique request ID to each request. If an
// X-Request-ID header is present it is reused, otherwise a UUID is generated.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)

		// Echo back for tracing
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}
