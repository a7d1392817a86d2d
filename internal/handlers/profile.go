package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/auth"
	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/logger"
	"github.com/gotcha-app/backend/internal/models"
	"github.com/gotcha-app/backend/internal/util"
	"github.com/gotcha-app/backend/internal/validation"
	"gorm.io/gorm"
)

// SyncProfile creates or refreshes the caller's profile from their identity
// token. First sync creates the row; later syncs update the identity-derived
// fields and bump last_synced_at.
// POST /api/v1/profile/sync
func (h *Handlers) SyncProfile(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	claimsVal, exists := c.Get("claims")
	if !exists {
		util.RespondUnauthorized(c)
		return
	}
	claims, ok := claimsVal.(*auth.TokenClaims)
	if !ok {
		util.RespondInternalError(c, "invalid claims in context")
		return
	}

	var req struct {
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
	}
	// Body is optional: identity claims are the default source
	_ = c.ShouldBindJSON(&req)

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = claims.Username
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = claims.DisplayName
	}

	if err := h.validator.ValidateUsername(username); err != nil {
		util.RespondValidationError(c, "username", err.Error())
		return
	}

	now := time.Now().UTC()

	var profile models.Profile
	err := database.DB.Where("id = ?", userID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if taken, err := usernameTaken(username, userID); err != nil {
			util.RespondInternalError(c, "Failed to check username")
			return
		} else if taken {
			util.RespondConflict(c, "username is already taken")
			return
		}
		profile = models.Profile{
			ID:           userID,
			Username:     username,
			DisplayName:  displayName,
			LastSyncedAt: &now,
		}
		if err := database.DB.Create(&profile).Error; err != nil {
			util.RespondInternalError(c, "Failed to create profile")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"profile": profile})
		return
	case err != nil:
		util.RespondInternalError(c, "Failed to load profile")
		return
	}

	if !strings.EqualFold(username, profile.Username) {
		if taken, err := usernameTaken(username, userID); err != nil {
			util.RespondInternalError(c, "Failed to check username")
			return
		} else if taken {
			util.RespondConflict(c, "username is already taken")
			return
		}
	}

	profile.Username = username
	profile.DisplayName = displayName
	profile.LastSyncedAt = &now
	if err := database.DB.Save(&profile).Error; err != nil {
		util.RespondInternalError(c, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// GetMyProfile returns the caller's full profile, private fields included.
// GET /api/v1/profile
func (h *Handlers) GetMyProfile(c *gin.Context) {
	profile, ok := util.GetProfileFromContext(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":            profile,
		"notification_email": profile.NotificationEmail,
	})
}

// UpdateProfile patches the caller's editable fields. Only keys present in
// the request body change.
// PATCH /api/v1/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	profile, ok := util.GetProfileFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Username             *string `json:"username"`
		DisplayName          *string `json:"display_name"`
		Bio                  *string `json:"bio"`
		NotificationEmail    *string `json:"notification_email"`
		NotificationsEnabled *bool   `json:"notifications_enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := h.validator.ValidateUsername(username); err != nil {
			util.RespondValidationError(c, "username", err.Error())
			return
		}
		if !strings.EqualFold(username, profile.Username) {
			if taken, err := usernameTaken(username, profile.ID); err != nil {
				util.RespondInternalError(c, "Failed to check username")
				return
			} else if taken {
				util.RespondConflict(c, "username is already taken")
				return
			}
		}
		updates["username"] = username
	}
	if req.DisplayName != nil {
		name := validation.Sanitize(*req.DisplayName)
		if utf8.RuneCountInString(name) > 50 {
			util.RespondValidationError(c, "display_name", "display name must be at most 50 characters")
			return
		}
		updates["display_name"] = name
	}
	if req.Bio != nil {
		if err := h.validator.ValidateBio(*req.Bio); err != nil {
			util.RespondValidationError(c, "bio", err.Error())
			return
		}
		updates["bio"] = validation.Sanitize(*req.Bio)
	}
	if req.NotificationEmail != nil {
		email := strings.TrimSpace(*req.NotificationEmail)
		if email != "" && !strings.Contains(email, "@") {
			util.RespondValidationError(c, "notification_email", "invalid email address")
			return
		}
		updates["notification_email"] = email
	}
	if req.NotificationsEnabled != nil {
		updates["notifications_enabled"] = *req.NotificationsEnabled
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"profile": profile})
		return
	}

	if err := database.DB.Model(profile).Updates(updates).Error; err != nil {
		util.RespondInternalError(c, "Failed to update profile")
		return
	}

	var updated models.Profile
	if err := database.DB.First(&updated, "id = ?", profile.ID).Error; err != nil {
		util.RespondInternalError(c, "Failed to reload profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": updated})
}

// DeleteProfile soft-deletes the caller's account and their content.
// DELETE /api/v1/profile
func (h *Handlers) DeleteProfile(c *gin.Context) {
	profile, ok := util.GetProfileFromContext(c)
	if !ok {
		return
	}

	// Collect stored image URLs before the rows go away
	var imageURLs []string
	if err := database.DB.Model(&models.Annoyance{}).
		Where("user_id = ? AND image_url <> ''", profile.ID).
		Pluck("image_url", &imageURLs).Error; err != nil {
		logger.WarnWithFields("Failed to list images for cleanup", err)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", profile.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", profile.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", profile.ID).Delete(&models.Annoyance{}).Error; err != nil {
			return err
		}
		return tx.Delete(profile).Error
	})
	if err != nil {
		util.RespondInternalError(c, "Failed to delete profile")
		return
	}

	for _, imageURL := range append(imageURLs, profile.AvatarURL, profile.BannerURL) {
		h.deleteStoredImage(c.Request.Context(), imageURL)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func usernameTaken(username, excludeID string) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Profile{}).
		Where("LOWER(username) = LOWER(?) AND id <> ?", username, excludeID).
		Count(&count).Error
	return count > 0, err
}
