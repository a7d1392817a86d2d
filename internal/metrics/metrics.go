package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     prometheus.CounterVec
	HTTPRequestDuration   prometheus.HistogramVec
	HTTPActiveConnections prometheus.GaugeVec

	// Rate limiting metrics
	RateLimitExceededTotal prometheus.CounterVec

	// Content moderation metrics
	ValidationRejectedTotal prometheus.CounterVec

	// Domain counters
	AnnoyancesCreatedTotal prometheus.Counter
	CommentsCreatedTotal   prometheus.Counter
	LikesToggledTotal      prometheus.CounterVec

	// Feed metrics
	FeedGenerationTime prometheus.HistogramVec

	// Ranking service metrics
	RankingRequestsTotal prometheus.CounterVec
	RankingErrorsTotal   prometheus.Counter

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			RateLimitExceededTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Total number of rate limit violations",
				},
				[]string{"action"},
			),

			ValidationRejectedTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "validation_rejected_total",
					Help: "Total number of content submissions rejected by validation",
				},
				[]string{"field"},
			),

			AnnoyancesCreatedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "annoyances_created_total",
					Help: "Total number of annoyances posted",
				},
			),
			CommentsCreatedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "comments_created_total",
					Help: "Total number of comments posted",
				},
			),
			LikesToggledTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "likes_toggled_total",
					Help: "Total number of like toggles by direction",
				},
				[]string{"direction"},
			),

			FeedGenerationTime: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_generation_duration_seconds",
					Help:    "Time to generate a feed page in seconds",
					Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"feed_type"},
			),

			RankingRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "ranking_requests_total",
					Help: "Total number of requests to the ranking service",
				},
				[]string{"status"},
			),
			RankingErrorsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "ranking_errors_total",
					Help: "Total number of ranking service failures",
				},
			),

			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
