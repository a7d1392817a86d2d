package util

import (
	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/models"
)

// GetProfileFromContext extracts the authenticated profile from the Gin context.
// Returns the profile and true if found, or nil and false if not authenticated.
// If the profile is not present, it automatically responds with 401 Unauthorized.
func GetProfileFromContext(c *gin.Context) (*models.Profile, bool) {
	profile, exists := c.Get("profile")
	if !exists {
		RespondUnauthorized(c)
		return nil, false
	}
	profilePtr, ok := profile.(*models.Profile)
	if !ok {
		RespondInternalError(c, "invalid profile data in context")
		return nil, false
	}
	return profilePtr, true
}

// GetUserIDFromContext extracts the authenticated user ID from the Gin context.
// Returns the user ID and true if found, or empty string and false if not
// authenticated. If no user ID is present, it responds with 401 Unauthorized.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		RespondUnauthorized(c)
		return "", false
	}
	userIDStr, ok := userID.(string)
	if !ok {
		RespondInternalError(c, "invalid user ID in context")
		return "", false
	}
	return userIDStr, true
}
