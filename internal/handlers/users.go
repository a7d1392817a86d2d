package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/models"
	"github.com/gotcha-app/backend/internal/util"
)

// GetUserByUsername returns a user's public profile with aggregate
// engagement stats across their posts.
// GET /api/v1/users/:username
func (h *Handlers) GetUserByUsername(c *gin.Context) {
	username := c.Param("username")

	var profile models.Profile
	err := database.DB.Where("LOWER(username) = LOWER(?)", username).First(&profile).Error
	if util.HandleDBError(c, err, "user") {
		return
	}

	var stats struct {
		TotalPosts    int64 `json:"total_posts"`
		TotalLikes    int64 `json:"total_likes"`
		TotalComments int64 `json:"total_comments"`
	}
	err = database.DB.Model(&models.Annoyance{}).
		Select("COUNT(*) AS total_posts, COALESCE(SUM(like_count), 0) AS total_likes, COALESCE(SUM(comment_count), 0) AS total_comments").
		Where("user_id = ?", profile.ID).
		Scan(&stats).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to load user stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  profile.ToPublic(),
		"stats": stats,
	})
}

// GetUserAnnoyances returns a user's posts, newest first.
// GET /api/v1/users/:username/annoyances
func (h *Handlers) GetUserAnnoyances(c *gin.Context) {
	username := c.Param("username")

	var profile models.Profile
	err := database.DB.Where("LOWER(username) = LOWER(?)", username).First(&profile).Error
	if util.HandleDBError(c, err, "user") {
		return
	}

	limit, offset := feedPageParams(c, maxFeedLimit)

	var annoyances []models.Annoyance
	err = database.DB.Preload("User").Preload("Categories").
		Where("user_id = ?", profile.ID).
		Order("created_at DESC").
		Limit(limit + 1).
		Offset(offset).
		Find(&annoyances).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch user annoyances")
		return
	}

	page, hasMore := trimPage(annoyances, limit)
	respondFeedPage(c, page, hasMore)
}
