package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile represents a Gotcha user account. The primary key is the decentralized
// identifier (DID) issued by the external identity provider, so profiles are
// created on first sync rather than through a local signup flow.
type Profile struct {
	ID          string `gorm:"primaryKey;type:text" json:"id"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName string `json:"display_name"`
	Bio         string `gorm:"type:text" json:"bio"`

	// S3 URLs for uploaded images
	AvatarURL string `json:"avatar_url"`
	BannerURL string `json:"banner_url"`

	// Email notifications for activity on the user's posts. The address is
	// never exposed through the public API.
	NotificationEmail    string `gorm:"type:text" json:"-"`
	NotificationsEnabled bool   `gorm:"default:true" json:"notifications_enabled"`

	// Denormalized count, maintained on post create/delete
	AnnoyanceCount int `gorm:"default:0" json:"annoyance_count"`

	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PublicProfile is the shape returned for other users: notification settings
// and soft-delete state stay private.
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

// ToPublic strips private fields from a profile
func (p *Profile) ToPublic() PublicProfile {
	return PublicProfile{
		ID:             p.ID,
		Username:       p.Username,
		DisplayName:    p.DisplayName,
		Bio:            p.Bio,
		AvatarURL:      p.AvatarURL,
		BannerURL:      p.BannerURL,
		AnnoyanceCount: p.AnnoyanceCount,
		CreatedAt:      p.CreatedAt,
	}
}
