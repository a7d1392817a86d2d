package handlers

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/logger"
	"github.com/gotcha-app/backend/internal/models"
	"github.com/gotcha-app/backend/internal/util"
)

// maxImageSize caps uploads at 5 MB.
const maxImageSize = 5 << 20

// UploadImage accepts a multipart image and stores it.
// POST /api/v1/images?kind=avatar|banner|annoyance
func (h *Handlers) UploadImage(c *gin.Context) {
	profile, ok := util.GetProfileFromContext(c)
	if !ok {
		return
	}

	if h.uploader == nil {
		util.RespondInternalError(c, "image uploads are not configured")
		return
	}

	kind := c.DefaultQuery("kind", "annoyance")
	switch kind {
	case "avatar", "banner", "annoyance":
	default:
		util.RespondValidationError(c, "kind", "kind must be avatar, banner, or annoyance")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		util.RespondBadRequest(c, "image file is required")
		return
	}
	if fileHeader.Size > maxImageSize {
		util.RespondValidationError(c, "image", "image must be at most 5MB")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !util.IsValidImageContentType(contentType) {
		util.RespondValidationError(c, "image", "image must be JPEG, PNG, GIF, or WebP")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.RespondInternalError(c, "Failed to read image")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		util.RespondInternalError(c, "Failed to read image")
		return
	}
	if len(data) > maxImageSize {
		util.RespondValidationError(c, "image", "image must be at most 5MB")
		return
	}

	result, err := h.uploader.UploadImage(c.Request.Context(), data, contentType, profile.ID, kind)
	if err != nil {
		util.RespondInternalError(c, "Failed to upload image")
		return
	}

	// Avatar and banner uploads update the profile in place
	switch kind {
	case "avatar":
		if err := database.DB.Model(profile).UpdateColumn("avatar_url", result.URL).Error; err != nil {
			util.RespondInternalError(c, "Failed to save avatar")
			return
		}
	case "banner":
		if err := database.DB.Model(profile).UpdateColumn("banner_url", result.URL).Error; err != nil {
			util.RespondInternalError(c, "Failed to save banner")
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":  result.URL,
		"key":  result.Key,
		"size": result.Size,
	})
}

// DeleteImage removes a previously uploaded file, referenced by its public
// URL. Only the uploader may delete it; avatar and banner references on the
// caller's profile are cleared when they pointed at the deleted file.
// DELETE /api/v1/images?url=...
func (h *Handlers) DeleteImage(c *gin.Context) {
	profile, ok := util.GetProfileFromContext(c)
	if !ok {
		return
	}

	if h.uploader == nil {
		util.RespondInternalError(c, "image uploads are not configured")
		return
	}

	rawURL := c.Query("url")
	if rawURL == "" {
		util.RespondValidationError(c, "url", "image url is required")
		return
	}

	key := storageKeyFromURL(rawURL)
	if key == "" {
		util.RespondValidationError(c, "url", "not a stored image url")
		return
	}
	if !keyOwnedBy(key, profile.ID) {
		util.RespondForbidden(c, "you can only delete your own images")
		return
	}

	if err := h.uploader.DeleteFile(c.Request.Context(), key); err != nil {
		util.RespondInternalError(c, "Failed to delete image")
		return
	}

	var stored models.Profile
	if err := database.DB.First(&stored, "id = ?", profile.ID).Error; err == nil {
		updates := map[string]interface{}{}
		if stored.AvatarURL == rawURL {
			updates["avatar_url"] = ""
		}
		if stored.BannerURL == rawURL {
			updates["banner_url"] = ""
		}
		if len(updates) > 0 {
			if err := database.DB.Model(&stored).Updates(updates).Error; err != nil {
				logger.WarnWithFields("Failed to clear image reference", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// storageKeyFromURL recovers the storage key from a public image URL. Keys
// are slash-separated paths that embed the uploader's user id; anything that
// does not look like one returns "".
func storageKeyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	key := strings.TrimPrefix(u.Path, "/")
	if strings.Count(key, "/") < 2 {
		return ""
	}
	return key
}

// keyOwnedBy reports whether the user id appears as a path segment of the
// storage key. Both storage backends scope keys under the uploader's id.
func keyOwnedBy(key, userID string) bool {
	for _, part := range strings.Split(key, "/") {
		if part == userID {
			return true
		}
	}
	return false
}

// deleteStoredImage is the best-effort cleanup used when rows referencing an
// uploaded file go away. Failures are logged and otherwise ignored.
func (h *Handlers) deleteStoredImage(ctx context.Context, rawURL string) {
	if h.uploader == nil || rawURL == "" {
		return
	}
	key := storageKeyFromURL(rawURL)
	if key == "" {
		return
	}
	if err := h.uploader.DeleteFile(ctx, key); err != nil {
		logger.WarnWithFields("Failed to delete stored image", err)
	}
}
