package apiclient

import "time"

// PublicProfile is another user's profile as the API exposes it
type PublicProfile struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	BannerURL      string    `json:"banner_url"`
	AnnoyanceCount int       `json:"annoyance_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Profile is the caller's own profile, private fields included
type Profile struct {
	ID                   string     `json:"id"`
	Username             string     `json:"username"`
	DisplayName          string     `json:"display_name"`
	Bio                  string     `json:"bio"`
	AvatarURL            string     `json:"avatar_url"`
	BannerURL            string     `json:"banner_url"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	AnnoyanceCount       int        `json:"annoyance_count"`
	LastSyncedAt         *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// UserStats aggregates engagement across a user's posts
type UserStats struct {
	TotalPosts    int64 `json:"total_posts"`
	TotalLikes    int64 `json:"total_likes"`
	TotalComments int64 `json:"total_comments"`
}

// ExternalLink is a titled URL attached to an annoyance
type ExternalLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Category is a curated topic
type Category struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Emoji string `json:"emoji,omitempty"`
}

// Annoyance is a post as the API returns it
type Annoyance struct {
	ID            uint           `json:"id"`
	UserID        string         `json:"user_id"`
	User          PublicProfile  `json:"user"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	ImageURL      string         `json:"image_url,omitempty"`
	ExternalLinks []ExternalLink `json:"external_links,omitempty"`
	Categories    []Category     `json:"categories,omitempty"`
	LikeCount     int            `json:"like_count"`
	CommentCount  int            `json:"comment_count"`
	IsLiked       bool           `json:"is_liked"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Comment is a comment as the API returns it
type Comment struct {
	ID          uint          `json:"id"`
	AnnoyanceID uint          `json:"annoyance_id"`
	UserID      string        `json:"user_id"`
	User        PublicProfile `json:"user"`
	Content     string        `json:"content"`
	CreatedAt   time.Time     `json:"created_at"`
}

// FeedPage is one page of any annoyance list endpoint
type FeedPage struct {
	Annoyances []Annoyance `json:"annoyances"`
	HasMore    bool        `json:"has_more"`
}

// CommentPage is one page of an annoyance's comments
type CommentPage struct {
	Comments []Comment `json:"comments"`
	HasMore  bool      `json:"has_more"`
}

// LikeResult is the server's state after a like toggle
type LikeResult struct {
	IsLiked   bool  `json:"is_liked"`
	LikeCount int64 `json:"like_count"`
}

// CreateAnnoyanceRequest is the body for creating a post
type CreateAnnoyanceRequest struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	ImageURL      string         `json:"image_url,omitempty"`
	ExternalLinks []ExternalLink `json:"external_links,omitempty"`
	CategoryIDs   []uint         `json:"category_ids,omitempty"`
}

// UpdateProfileRequest patches profile fields; nil means leave unchanged
type UpdateProfileRequest struct {
	Username             *string `json:"username,omitempty"`
	DisplayName          *string `json:"display_name,omitempty"`
	Bio                  *string `json:"bio,omitempty"`
	NotificationEmail    *string `json:"notification_email,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
}
