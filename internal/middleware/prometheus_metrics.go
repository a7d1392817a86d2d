package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/metrics"
)

// MetricsMiddleware collects HTTP metrics for Prometheus
func MetricsMiddleware() gin.HandlerFunc {
	m := metrics.Get()

	return func(c *gin.Context) {
		method := c.Request.Method
		// Use the route template so path labels stay low-cardinality
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.HTTPActiveConnections.WithLabelValues(method, path).Inc()
		defer m.HTTPActiveConnections.WithLabelValues(method, path).Dec()

		startTime := time.Now()
		c.Next()
		duration := time.Since(startTime).Seconds()

		// Numeric status as a string so Grafana can match status=~"5.."
		statusStr := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)
	}
}
