package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/models"
	"github.com/gotcha-app/backend/internal/util"
)

// ListCategories returns every category, for populating pickers and filters.
// GET /api/v1/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := database.DB.Order("name ASC").Find(&categories).Error; err != nil {
		util.RespondInternalError(c, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategoryFeed returns annoyances filed under a category, newest first.
// GET /api/v1/categories/:slug/annoyances
func (h *Handlers) GetCategoryFeed(c *gin.Context) {
	slug := c.Param("slug")

	var category models.Category
	if err := database.DB.Where("slug = ?", slug).First(&category).Error; util.HandleDBError(c, err, "category") {
		return
	}

	limit, offset := feedPageParams(c, maxFeedLimit)

	var annoyances []models.Annoyance
	err := database.DB.Preload("User").Preload("Categories").
		Select("annoyances.*").
		Joins("JOIN annoyance_categories ac ON ac.annoyance_id = annoyances.id").
		Where("ac.category_id = ?", category.ID).
		Order("annoyances.created_at DESC").
		Limit(limit + 1).
		Offset(offset).
		Find(&annoyances).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch category feed")
		return
	}

	page, hasMore := trimPage(annoyances, limit)
	respondFeedPage(c, page, hasMore)
}
