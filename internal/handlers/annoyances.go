package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/logger"
	"github.com/gotcha-app/backend/internal/metrics"
	"github.com/gotcha-app/backend/internal/models"
	"github.com/gotcha-app/backend/internal/util"
	"github.com/gotcha-app/backend/internal/validation"
	"gorm.io/gorm"
)

// CreateAnnoyance posts a new annoyance.
// POST /api/v1/annoyances
func (h *Handlers) CreateAnnoyance(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Title         string                `json:"title" binding:"required"`
		Description   string                `json:"description" binding:"required"`
		ImageURL      string                `json:"image_url"`
		ExternalLinks []models.ExternalLink `json:"external_links"`
		CategoryIDs   []uint                `json:"category_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.ValidateTitle(req.Title); err != nil {
		metrics.Get().ValidationRejectedTotal.WithLabelValues("title").Inc()
		util.RespondValidationError(c, "title", err.Error())
		return
	}
	if err := h.validator.ValidateDescription(req.Description); err != nil {
		metrics.Get().ValidationRejectedTotal.WithLabelValues("description").Inc()
		util.RespondValidationError(c, "description", err.Error())
		return
	}

	annoyance := models.Annoyance{
		UserID:        userID,
		Title:         validation.Sanitize(req.Title),
		Description:   validation.Sanitize(req.Description),
		ImageURL:      req.ImageURL,
		ExternalLinks: req.ExternalLinks,
	}

	if len(req.CategoryIDs) > 0 {
		var categories []models.Category
		if err := database.DB.Where("id IN ?", req.CategoryIDs).Find(&categories).Error; err != nil {
			util.RespondInternalError(c, "Failed to load categories")
			return
		}
		if len(categories) != len(req.CategoryIDs) {
			util.RespondValidationError(c, "category_ids", "unknown category")
			return
		}
		annoyance.Categories = categories
	}

	if err := database.DB.Create(&annoyance).Error; err != nil {
		util.RespondInternalError(c, "Failed to create annoyance")
		return
	}

	if err := database.DB.Model(&models.Profile{}).
		Where("id = ?", userID).
		UpdateColumn("annoyance_count", gorm.Expr("annoyance_count + 1")).Error; err != nil {
		logger.WarnWithFields("Failed to increment annoyance count", err)
	}

	metrics.Get().AnnoyancesCreatedTotal.Inc()

	// Load the author for the response
	if err := database.DB.Preload("User").Preload("Categories").
		First(&annoyance, annoyance.ID).Error; err != nil {
		logger.WarnWithFields("Failed to reload annoyance after create", err)
	}

	c.JSON(http.StatusCreated, gin.H{"annoyance": annoyance})
}

// UpdateAnnoyance replaces the editable fields of one of the caller's posts:
// title, description, image, external links, and categories.
// PUT /api/v1/annoyances/:id
func (h *Handlers) UpdateAnnoyance(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	id, err := util.ParseUintParam(c.Param("id"))
	if err != nil {
		util.RespondBadRequest(c, "invalid annoyance id")
		return
	}

	var annoyance models.Annoyance
	if err := database.DB.First(&annoyance, id).Error; util.HandleDBError(c, err, "annoyance") {
		return
	}
	if annoyance.UserID != userID {
		util.RespondForbidden(c, "you can only edit your own posts")
		return
	}

	var req struct {
		Title         string                `json:"title" binding:"required"`
		Description   string                `json:"description" binding:"required"`
		ImageURL      string                `json:"image_url"`
		ExternalLinks []models.ExternalLink `json:"external_links"`
		CategoryIDs   []uint                `json:"category_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.ValidateTitle(req.Title); err != nil {
		metrics.Get().ValidationRejectedTotal.WithLabelValues("title").Inc()
		util.RespondValidationError(c, "title", err.Error())
		return
	}
	if err := h.validator.ValidateDescription(req.Description); err != nil {
		metrics.Get().ValidationRejectedTotal.WithLabelValues("description").Inc()
		util.RespondValidationError(c, "description", err.Error())
		return
	}

	var categories []models.Category
	if len(req.CategoryIDs) > 0 {
		if err := database.DB.Where("id IN ?", req.CategoryIDs).Find(&categories).Error; err != nil {
			util.RespondInternalError(c, "Failed to load categories")
			return
		}
		if len(categories) != len(req.CategoryIDs) {
			util.RespondValidationError(c, "category_ids", "unknown category")
			return
		}
	}

	previousImage := annoyance.ImageURL

	changes := models.Annoyance{
		Title:         validation.Sanitize(req.Title),
		Description:   validation.Sanitize(req.Description),
		ImageURL:      req.ImageURL,
		ExternalLinks: req.ExternalLinks,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Select forces the update even when a field is cleared
		if err := tx.Model(&annoyance).
			Select("Title", "Description", "ImageURL", "ExternalLinks").
			Updates(changes).Error; err != nil {
			return err
		}
		return tx.Model(&annoyance).Association("Categories").Replace(categories)
	})
	if err != nil {
		util.RespondInternalError(c, "Failed to update annoyance")
		return
	}

	if previousImage != "" && previousImage != annoyance.ImageURL {
		h.deleteStoredImage(c.Request.Context(), previousImage)
	}

	if err := database.DB.Preload("User").Preload("Categories").
		First(&annoyance, annoyance.ID).Error; err != nil {
		logger.WarnWithFields("Failed to reload annoyance after update", err)
	}

	c.JSON(http.StatusOK, gin.H{"annoyance": annoyance})
}

// DeleteAnnoyance removes one of the caller's own posts along with its likes
// and comments.
// DELETE /api/v1/annoyances/:id
func (h *Handlers) DeleteAnnoyance(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	id, err := util.ParseUintParam(c.Param("id"))
	if err != nil {
		util.RespondBadRequest(c, "invalid annoyance id")
		return
	}

	var annoyance models.Annoyance
	if err := database.DB.First(&annoyance, id).Error; util.HandleDBError(c, err, "annoyance") {
		return
	}

	if annoyance.UserID != userID {
		util.RespondForbidden(c, "you can only delete your own posts")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("annoyance_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("annoyance_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&annoyance).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).
			Where("id = ? AND annoyance_count > 0", userID).
			UpdateColumn("annoyance_count", gorm.Expr("annoyance_count - 1")).Error
	})
	if err != nil {
		util.RespondInternalError(c, "Failed to delete annoyance")
		return
	}

	if annoyance.ImageURL != "" {
		h.deleteStoredImage(c.Request.Context(), annoyance.ImageURL)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
