package main

import (
	"fmt"
	"log"

	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/models"
	"github.com/joho/godotenv"
)

// Verifies seeded data: prints record counts and checks that the
// denormalized counters match the underlying rows.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	fmt.Println("Verifying seed data...")
	fmt.Println()

	var profiles, annoyances, likes, comments, categories int64
	database.DB.Model(&models.Profile{}).Count(&profiles)
	database.DB.Model(&models.Annoyance{}).Count(&annoyances)
	database.DB.Model(&models.Like{}).Count(&likes)
	database.DB.Model(&models.Comment{}).Count(&comments)
	database.DB.Model(&models.Category{}).Count(&categories)

	fmt.Println("Record counts:")
	fmt.Printf("  Profiles:   %d\n", profiles)
	fmt.Printf("  Annoyances: %d\n", annoyances)
	fmt.Printf("  Likes:      %d\n", likes)
	fmt.Printf("  Comments:   %d\n", comments)
	fmt.Printf("  Categories: %d\n", categories)
	fmt.Println()

	ok := true

	var staleLikeCounts int64
	database.DB.Raw(`
		SELECT COUNT(*) FROM annoyances a
		WHERE a.deleted_at IS NULL
		AND a.like_count <> (SELECT COUNT(*) FROM likes l WHERE l.annoyance_id = a.id)
	`).Scan(&staleLikeCounts)
	if staleLikeCounts > 0 {
		ok = false
		fmt.Printf("MISMATCH: %d annoyances have a stale like_count\n", staleLikeCounts)
	}

	var staleCommentCounts int64
	database.DB.Raw(`
		SELECT COUNT(*) FROM annoyances a
		WHERE a.deleted_at IS NULL
		AND a.comment_count <> (SELECT COUNT(*) FROM comments c
			WHERE c.annoyance_id = a.id AND c.deleted_at IS NULL)
	`).Scan(&staleCommentCounts)
	if staleCommentCounts > 0 {
		ok = false
		fmt.Printf("MISMATCH: %d annoyances have a stale comment_count\n", staleCommentCounts)
	}

	var staleAnnoyanceCounts int64
	database.DB.Raw(`
		SELECT COUNT(*) FROM profiles p
		WHERE p.deleted_at IS NULL
		AND p.annoyance_count <> (SELECT COUNT(*) FROM annoyances a
			WHERE a.user_id = p.id AND a.deleted_at IS NULL)
	`).Scan(&staleAnnoyanceCounts)
	if staleAnnoyanceCounts > 0 {
		ok = false
		fmt.Printf("MISMATCH: %d profiles have a stale annoyance_count\n", staleAnnoyanceCounts)
	}

	if ok {
		fmt.Println("All denormalized counts are consistent")
	}
}
