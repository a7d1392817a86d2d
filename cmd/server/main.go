package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/auth"
	"github.com/gotcha-app/backend/internal/cache"
	"github.com/gotcha-app/backend/internal/config"
	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/email"
	"github.com/gotcha-app/backend/internal/handlers"
	"github.com/gotcha-app/backend/internal/logger"
	"github.com/gotcha-app/backend/internal/metrics"
	"github.com/gotcha-app/backend/internal/middleware"
	"github.com/gotcha-app/backend/internal/ranking"
	"github.com/gotcha-app/backend/internal/ratelimit"
	"github.com/gotcha-app/backend/internal/storage"
	"github.com/gotcha-app/backend/internal/validation"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Running without a .env file is normal outside local dev
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Close()

	logger.Log.Info("Gotcha server starting",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	metrics.Initialize()

	if err := database.Initialize(); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	// Redis is optional: without it the rate limiter falls back to memory
	if _, err := cache.NewRedisClient(cfg.RedisURL); err != nil {
		logger.WarnWithFields("Redis unavailable", err)
		if cfg.RateLimitBackend == "redis" {
			logger.Log.Warn("RATE_LIMIT_BACKEND=redis but Redis is down, using memory limiter")
			cfg.RateLimitBackend = "memory"
		}
	}

	authService := auth.NewService([]byte(cfg.JWTSecret))

	validator := validation.New()
	if cfg.BlacklistFile != "" {
		validator = validation.NewFromFile(cfg.BlacklistFile)
	}
	h := handlers.NewHandlers(validator)

	if cfg.RankingURL != "" {
		h.SetRanker(ranking.NewRESTClient(cfg.RankingURL, cfg.RankingAPIKey))
		logger.Log.Info("Ranking service configured", zap.String("url", cfg.RankingURL))
	} else {
		logger.Log.Info("No ranking service configured, default feed is newest-first")
	}

	uploader, err := storage.NewS3Uploader(cfg.S3Region, cfg.S3Bucket, cfg.S3BaseURL)
	if err != nil {
		logger.WarnWithFields("S3 unavailable, image uploads disabled", err)
	} else {
		if err := uploader.CheckBucketAccess(context.Background()); err != nil {
			logger.WarnWithFields("S3 bucket access check failed", err)
		}
		h.SetUploader(uploader)
	}

	notifier, err := email.NewEmailService(cfg.SESRegion, cfg.SESFromEmail, "Gotcha", cfg.AppBaseURL)
	if err != nil {
		logger.WarnWithFields("SES unavailable, comment notifications disabled", err)
	} else {
		h.SetNotifier(notifier)
	}

	router := buildRouter(cfg, authService, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithFields("Server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithFields("Forced shutdown", err)
	}

	logger.Log.Info("Server exited")
}

// rateLimiter picks the configured backend for one action
func rateLimiter(cfg *config.Config, limiter *ratelimit.Limiter, action string, policy ratelimit.Policy) gin.HandlerFunc {
	if cfg.RateLimitBackend == "redis" {
		return middleware.RedisRateLimit(action, policy)
	}
	return middleware.RateLimit(limiter, action, policy)
}

func buildRouter(cfg *config.Config, authService auth.ServiceInterface, h *handlers.Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := database.Health(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"service":   "gotcha-backend",
			"timestamp": time.Now().UTC(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := ratelimit.New()

	api := r.Group("/api/v1")
	{
		// Public reads; optional auth attaches per-viewer like state
		api.GET("/annoyances", auth.OptionalMiddleware(authService), h.GetFeed)
		api.GET("/annoyances/:id", auth.OptionalMiddleware(authService), h.GetAnnoyance)
		api.GET("/annoyances/:id/comments", h.ListComments)
		api.GET("/categories", h.ListCategories)
		api.GET("/categories/:slug/annoyances", auth.OptionalMiddleware(authService), h.GetCategoryFeed)
		api.GET("/search", auth.OptionalMiddleware(authService), h.SearchAnnoyances)
		api.GET("/users/:username", h.GetUserByUsername)
		api.GET("/users/:username/annoyances", auth.OptionalMiddleware(authService), h.GetUserAnnoyances)

		authed := api.Group("", auth.Middleware(authService))
		{
			authed.POST("/profile/sync",
				rateLimiter(cfg, limiter, "sync", ratelimit.SyncPolicy()), h.SyncProfile)

			synced := authed.Group("", auth.RequireProfile())
			{
				synced.GET("/profile", h.GetMyProfile)
				synced.PATCH("/profile", h.UpdateProfile)
				synced.DELETE("/profile", h.DeleteProfile)

				synced.POST("/annoyances",
					rateLimiter(cfg, limiter, "post", ratelimit.PostPolicy()), h.CreateAnnoyance)
				synced.PUT("/annoyances/:id", h.UpdateAnnoyance)
				synced.DELETE("/annoyances/:id", h.DeleteAnnoyance)

				synced.POST("/annoyances/:id/like",
					rateLimiter(cfg, limiter, "like", ratelimit.LikePolicy()), h.ToggleLike)
				synced.POST("/annoyances/:id/comments",
					rateLimiter(cfg, limiter, "comment", ratelimit.CommentPolicy()), h.CreateComment)

				synced.POST("/images", h.UploadImage)
				synced.DELETE("/images", h.DeleteImage)
			}
		}
	}

	return r
}
