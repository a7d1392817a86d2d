package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gotcha-app/backend/internal/logger"
	"github.com/gotcha-app/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder fills a development database with realistic demo data
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev seeds the development database: categories, profiles, annoyances
// with category tags, then likes and comments with the denormalized counts
// kept consistent.
func (s *Seeder) SeedDev() error {
	logger.Log.Info("Seeding categories...")
	categories, err := s.seedCategories()
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	logger.Log.Info("Seeding profiles...")
	profiles, err := s.seedProfiles(50)
	if err != nil {
		return fmt.Errorf("failed to seed profiles: %w", err)
	}

	logger.Log.Info("Seeding annoyances...")
	annoyances, err := s.seedAnnoyances(profiles, categories, 300)
	if err != nil {
		return fmt.Errorf("failed to seed annoyances: %w", err)
	}

	logger.Log.Info("Seeding likes...")
	if err := s.seedLikes(profiles, annoyances); err != nil {
		return fmt.Errorf("failed to seed likes: %w", err)
	}

	logger.Log.Info("Seeding comments...")
	if err := s.seedComments(profiles, annoyances, 600); err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	logger.Log.Info("Seeding complete",
		zap.Int("profiles", len(profiles)),
		zap.Int("annoyances", len(annoyances)),
		zap.Int("categories", len(categories)),
	)
	return nil
}

// Reset drops all seeded rows. Dev convenience only.
func (s *Seeder) Reset() error {
	tables := []string{"likes", "comments", "annoyance_categories", "annoyances", "categories", "profiles"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

var defaultCategories = []models.Category{
	{Name: "Technology", Slug: "technology", Emoji: "💻"},
	{Name: "Commuting", Slug: "commuting", Emoji: "🚇"},
	{Name: "Work", Slug: "work", Emoji: "💼"},
	{Name: "Food", Slug: "food", Emoji: "🍔"},
	{Name: "Neighbors", Slug: "neighbors", Emoji: "🏠"},
	{Name: "Shopping", Slug: "shopping", Emoji: "🛒"},
	{Name: "Weather", Slug: "weather", Emoji: "🌧️"},
	{Name: "Internet", Slug: "internet", Emoji: "🌐"},
}

func (s *Seeder) seedCategories() ([]models.Category, error) {
	categories := make([]models.Category, len(defaultCategories))
	copy(categories, defaultCategories)

	for i := range categories {
		err := s.db.Where("slug = ?", categories[i].Slug).
			FirstOrCreate(&categories[i]).Error
		if err != nil {
			return nil, err
		}
	}
	return categories, nil
}

func (s *Seeder) seedProfiles(count int) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0, count)
	now := time.Now().UTC()

	for i := 0; i < count; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Word()), gofakeit.Number(10, 9999))
		profile := models.Profile{
			ID:           fmt.Sprintf("did:seed:%s", gofakeit.UUID()),
			Username:     username,
			DisplayName:  gofakeit.Name(),
			Bio:          gofakeit.Sentence(8),
			LastSyncedAt: &now,
		}
		if gofakeit.Bool() {
			profile.NotificationEmail = gofakeit.Email()
		}

		if err := s.db.Create(&profile).Error; err != nil {
			// Random word + number usernames can collide; skip those
			logger.Log.Debug("Skipping profile", zap.Error(err))
			continue
		}
		profiles = append(profiles, profile)
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profiles created")
	}
	return profiles, nil
}

func (s *Seeder) seedAnnoyances(profiles []models.Profile, categories []models.Category, count int) ([]models.Annoyance, error) {
	annoyances := make([]models.Annoyance, 0, count)

	for i := 0; i < count; i++ {
		author := profiles[rand.Intn(len(profiles))]

		title := strings.TrimSuffix(gofakeit.Sentence(gofakeit.Number(3, 8)), ".")
		if len(title) > 100 {
			title = title[:100]
		}

		annoyance := models.Annoyance{
			UserID:      author.ID,
			Title:       title,
			Description: gofakeit.Paragraph(1, gofakeit.Number(2, 5), gofakeit.Number(5, 12), " "),
			CreatedAt:   gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
		}

		if gofakeit.Number(0, 4) == 0 {
			annoyance.ExternalLinks = []models.ExternalLink{
				{Title: gofakeit.BuzzWord(), URL: gofakeit.URL()},
			}
		}

		// Tag with 0-2 random categories
		for _, idx := range rand.Perm(len(categories))[:gofakeit.Number(0, 2)] {
			annoyance.Categories = append(annoyance.Categories, categories[idx])
		}

		if err := s.db.Create(&annoyance).Error; err != nil {
			return nil, err
		}
		annoyances = append(annoyances, annoyance)
	}

	// Keep the denormalized per-author counts honest
	err := s.db.Exec(`
		UPDATE profiles SET annoyance_count = (
			SELECT COUNT(*) FROM annoyances
			WHERE annoyances.user_id = profiles.id AND annoyances.deleted_at IS NULL
		)`).Error
	if err != nil {
		return nil, err
	}

	return annoyances, nil
}

func (s *Seeder) seedLikes(profiles []models.Profile, annoyances []models.Annoyance) error {
	for i := range annoyances {
		likers := rand.Perm(len(profiles))[:gofakeit.Number(0, len(profiles)/3)]
		for _, idx := range likers {
			like := models.Like{
				AnnoyanceID: annoyances[i].ID,
				UserID:      profiles[idx].ID,
				CreatedAt:   gofakeit.DateRange(annoyances[i].CreatedAt, time.Now()),
			}
			if err := s.db.Create(&like).Error; err != nil {
				return err
			}
		}

		err := s.db.Model(&annoyances[i]).
			UpdateColumn("like_count", len(likers)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedComments(profiles []models.Profile, annoyances []models.Annoyance, count int) error {
	perAnnoyance := make(map[uint]int, len(annoyances))

	for i := 0; i < count; i++ {
		annoyance := annoyances[rand.Intn(len(annoyances))]
		commenter := profiles[rand.Intn(len(profiles))]

		comment := models.Comment{
			AnnoyanceID: annoyance.ID,
			UserID:      commenter.ID,
			Content:     gofakeit.Sentence(gofakeit.Number(4, 15)),
			CreatedAt:   gofakeit.DateRange(annoyance.CreatedAt, time.Now()),
		}
		if err := s.db.Create(&comment).Error; err != nil {
			return err
		}
		perAnnoyance[annoyance.ID]++
	}

	for id, n := range perAnnoyance {
		err := s.db.Model(&models.Annoyance{}).
			Where("id = ?", id).
			UpdateColumn("comment_count", n).Error
		if err != nil {
			return err
		}
	}
	return nil
}
