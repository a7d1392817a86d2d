package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/logger"
	"go.uber.org/zap"
)

// GinLoggerMiddleware logs HTTP requests with structured fields, replacing
// gin.Logger.
func GinLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetString("request_id")

		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		clientIP := c.ClientIP()
		userAgent := c.Request.UserAgent()

		c.Next()

		statusCode := c.Writer.Status()
		responseSize := c.Writer.Size()
		latency := time.Since(startTime)

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("client_ip", clientIP),
			zap.Int("status", statusCode),
			zap.Int("response_size", responseSize),
			zap.Duration("latency", latency),
			zap.String("user_agent", userAgent),
		}

		if requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		switch {
		case statusCode >= 500:
			logger.Log.Error("HTTP request", fields...)
		case statusCode >= 400:
			logger.Log.Warn("HTTP request", fields...)
		default:
			logger.Log.Info("HTTP request", fields...)
		}
	}
}
