package database

import (
	"fmt"
	"os"
	"time"

	"github.com/gotcha-app/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connection
var DB *gorm.DB

// Initialize creates and configures the database connection
func Initialize() error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Fallback to individual components
		host := getEnvOrDefault("DB_HOST", "localhost")
		port := getEnvOrDefault("DB_PORT", "5432")
		user := getEnvOrDefault("DB_USER", "postgres")
		password := getEnvOrDefault("DB_PASSWORD", "")
		dbname := getEnvOrDefault("DB_NAME", "gotcha")
		sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	gormLogger := logger.Default
	if os.Getenv("ENVIRONMENT") == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	return nil
}

// Migrate runs auto-migration for all models
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	err := DB.AutoMigrate(
		&models.Profile{},
		&models.Category{},
		&models.Annoyance{},
		&models.Like{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates performance indexes beyond what AutoMigrate derives
// from struct tags.
func createIndexes() error {
	// Case-insensitive username lookups
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_profiles_username_lower ON profiles (LOWER(username))")

	// Feed queries: newest-first, per-author, and most-liked orderings
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_annoyances_created ON annoyances (created_at DESC)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_annoyances_user_created ON annoyances (user_id, created_at DESC)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_annoyances_like_count ON annoyances (like_count DESC, created_at DESC)")

	// Substring search over title and description
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_annoyances_title_lower ON annoyances (LOWER(title))")

	// Comment listing is always per-annoyance, oldest first
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_comments_annoyance_created ON comments (annoyance_id, created_at ASC)")

	// Category browsing via the join table
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_annoyance_categories_category ON annoyance_categories (category_id)")

	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Health checks database connectivity
func Health() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
