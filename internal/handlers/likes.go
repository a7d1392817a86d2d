package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/logger"
	"github.com/gotcha-app/backend/internal/metrics"
	"github.com/gotcha-app/backend/internal/models"
	"github.com/gotcha-app/backend/internal/util"
	"gorm.io/gorm"
)

// ToggleLike likes an annoyance if the caller has not liked it yet, and
// removes the like otherwise.
// POST /api/v1/annoyances/:id/like
func (h *Handlers) ToggleLike(c *gin.Context) {
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

	var liked bool
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		err := tx.Where("annoyance_id = ? AND user_id = ?", id, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
			return tx.Model(&models.Annoyance{}).
				Where("id = ? AND like_count > 0", id).
				UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Like{AnnoyanceID: id, UserID: userID}).Error; err != nil {
				return err
			}
			liked = true
			return tx.Model(&models.Annoyance{}).
				Where("id = ?", id).
				UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
		default:
			return err
		}
	})
	if err != nil {
		util.RespondInternalError(c, "Failed to toggle like")
		return
	}

	if liked {
		metrics.Get().LikesToggledTotal.WithLabelValues("like").Inc()
	} else {
		metrics.Get().LikesToggledTotal.WithLabelValues("unlike").Inc()
	}

	if h.ranker != nil && liked {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.ranker.RecordFeedback(ctx, "like", userID, id); err != nil {
				logger.WarnWithFields("Failed to record like feedback", err)
			}
		}()
	}

	var likeCount int64
	if err := database.DB.Model(&models.Like{}).
		Where("annoyance_id = ?", id).Count(&likeCount).Error; err != nil {
		logger.WarnWithFields("Failed to count likes", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"is_liked":   liked,
		"like_count": likeCount,
	})
}
