package models

import (
	"time"

	"gorm.io/gorm"
)

// ExternalLink is a titled URL attached to an annoyance as supporting context.
type ExternalLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Annoyance represents a shared idea: something that bugs the author enough
// to post about it.
type Annoyance struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	UserID string  `gorm:"not null;index" json:"user_id"`
	User   Profile `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	// Optional uploaded image (S3 URL)
	ImageURL string `json:"image_url,omitempty"`

	ExternalLinks []ExternalLink `gorm:"type:jsonb;serializer:json" json:"external_links,omitempty"`

	Categories []Category `gorm:"many2many:annoyance_categories" json:"categories,omitempty"`

	// Denormalized engagement counts, maintained with atomic column updates
	LikeCount    int `gorm:"default:0" json:"like_count"`
	CommentCount int `gorm:"default:0" json:"comment_count"`

	// Viewer-specific, populated per request and never stored
	IsLiked bool `gorm:"-" json:"is_liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Category is a curated topic an annoyance can be filed under.
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex;not null" json:"name"`
	Slug  string `gorm:"uniqueIndex;not null" json:"slug"`
	Emoji string `json:"emoji,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Like records one user liking one annoyance. The pair is unique, so liking
// twice is a no-op at the database level.
type Like struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AnnoyanceID uint      `gorm:"not null;uniqueIndex:idx_likes_annoyance_user" json:"annoyance_id"`
	Annoyance   Annoyance `gorm:"foreignKey:AnnoyanceID" json:"-"`
	UserID      string    `gorm:"not null;uniqueIndex:idx_likes_annoyance_user;index" json:"user_id"`
	User        Profile   `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Comment represents a comment on an annoyance
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AnnoyanceID uint      `gorm:"not null;index" json:"annoyance_id"`
	Annoyance   Annoyance `gorm:"foreignKey:AnnoyanceID" json:"-"`
	UserID      string    `gorm:"not null;index" json:"user_id"`
	User        Profile   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Content string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
