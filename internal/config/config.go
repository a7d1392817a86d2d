package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all server configuration, sourced from environment variables.
// Load .env via godotenv before calling Load.
type Config struct {
	Environment string
	Port        string

	DatabaseURL string
	RedisURL    string

	JWTSecret string

	// S3 image storage
	S3Bucket  string
	S3Region  string
	S3BaseURL string

	// SES comment notifications
	SESFromEmail string
	SESRegion    string

	// External ranking service for the default feed; empty disables ranking
	// and the default feed falls back to newest-first.
	RankingURL    string
	RankingAPIKey string

	// Public web URL used in notification email links
	AppBaseURL string

	// Optional newline-delimited blacklist file for the content moderator
	BlacklistFile string

	LogLevel string
	LogFile  string

	// Rate limiting backend: "memory" (default) or "redis"
	RateLimitBackend string
}

// Load reads configuration from the environment, applying defaults suitable
// for local development.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		Port:             getEnv("PORT", "8787"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		S3Bucket:         getEnv("S3_BUCKET", "gotcha-images"),
		S3Region:         getEnv("AWS_REGION", "us-east-1"),
		S3BaseURL:        os.Getenv("S3_BASE_URL"),
		SESFromEmail:     getEnv("SES_FROM_EMAIL", "notifications@gotcha.app"),
		SESRegion:        getEnv("SES_REGION", "us-east-1"),
		RankingURL:       os.Getenv("RANKING_URL"),
		RankingAPIKey:    os.Getenv("RANKING_API_KEY"),
		AppBaseURL:       getEnv("APP_BASE_URL", "https://gotcha.app"),
		BlacklistFile:    os.Getenv("BLACKLIST_FILE"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", "server.log"),
		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),
	}

	if cfg.Environment == "production" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt reads an integer environment variable with a default
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
