package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/logger"
	"github.com/gotcha-app/backend/internal/metrics"
	"github.com/gotcha-app/backend/internal/models"
	"github.com/gotcha-app/backend/internal/util"
	"github.com/gotcha-app/backend/internal/validation"
	"gorm.io/gorm"
)

// ListComments returns the comments on an annoyance, oldest first.
// GET /api/v1/annoyances/:id/comments
func (h *Handlers) ListComments(c *gin.Context) {
	id, err := util.ParseUintParam(c.Param("id"))
	if err != nil {
		util.RespondBadRequest(c, "invalid annoyance id")
		return
	}

	limit, offset := feedPageParams(c, maxListLimit)

	var comments []models.Comment
	err = database.DB.Preload("User").
		Where("annoyance_id = ?", id).
		Order("created_at ASC").
		Limit(limit + 1).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch comments")
		return
	}

	hasMore := len(comments) > limit
	if hasMore {
		comments = comments[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"has_more": hasMore,
	})
}

// CreateComment adds a comment to an annoyance.
// POST /api/v1/annoyances/:id/comments
func (h *Handlers) CreateComment(c *gin.Context) {
	profile, ok := util.GetProfileFromContext(c)
	if !ok {
		return
	}

	id, err := util.ParseUintParam(c.Param("id"))
	if err != nil {
		util.RespondBadRequest(c, "invalid annoyance id")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.ValidateComment(req.Content); err != nil {
		metrics.Get().ValidationRejectedTotal.WithLabelValues("comment").Inc()
		util.RespondValidationError(c, "content", err.Error())
		return
	}

	var annoyance models.Annoyance
	if err := database.DB.Preload("User").First(&annoyance, id).Error; util.HandleDBError(c, err, "annoyance") {
		return
	}

	comment := models.Comment{
		AnnoyanceID: id,
		UserID:      profile.ID,
		Content:     validation.Sanitize(req.Content),
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		util.RespondInternalError(c, "Failed to create comment")
		return
	}

	if err := database.DB.Model(&models.Annoyance{}).
		Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
		logger.WarnWithFields("Failed to increment comment count", err)
	}

	metrics.Get().CommentsCreatedTotal.Inc()

	h.notifyCommentAsync(&annoyance, profile, &comment)

	if h.ranker != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.ranker.RecordFeedback(ctx, "comment", profile.ID, id); err != nil {
				logger.WarnWithFields("Failed to record comment feedback", err)
			}
		}()
	}

	comment.User = *profile

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// notifyCommentAsync emails the annoyance author about a new comment. Authors
// commenting on their own posts, authors who disabled notifications, and
// authors without a notification address are skipped.
func (h *Handlers) notifyCommentAsync(annoyance *models.Annoyance, commenter *models.Profile, comment *models.Comment) {
	if h.notifier == nil {
		return
	}
	author := annoyance.User
	if author.ID == commenter.ID {
		return
	}
	if !author.NotificationsEnabled || author.NotificationEmail == "" {
		return
	}

	commenterName := commenter.DisplayName
	if commenterName == "" {
		commenterName = commenter.Username
	}

	preview := truncateRunes(comment.Content, 120)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := h.notifier.SendCommentNotification(ctx,
			author.NotificationEmail, commenterName, annoyance.Title, preview, annoyance.ID)
		if err != nil {
			logger.WarnWithFields("Failed to send comment notification", err)
		}
	}()
}

// truncateRunes shortens s to at most n runes, appending an ellipsis when
// anything was cut. Truncation never splits a multibyte character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
