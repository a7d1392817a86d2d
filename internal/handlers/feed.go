package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/logger"
	"github.com/gotcha-app/backend/internal/metrics"
	"github.com/gotcha-app/backend/internal/models"
	"github.com/gotcha-app/backend/internal/util"
	"go.uber.org/zap"
)

// GetFeed returns a page of annoyances.
// GET /api/v1/annoyances?feed=default|recent|liked&limit=10&offset=0
//
// The default feed is personalized by the ranking service when one is
// configured; it degrades to newest-first otherwise. The liked feed is the
// viewer's own liked posts and requires authentication. Pages fetch limit+1
// rows so has_more needs no COUNT query.
func (h *Handlers) GetFeed(c *gin.Context) {
	feedKind := c.DefaultQuery("feed", "default")
	limit, offset := feedPageParams(c, maxFeedLimit)

	start := time.Now()
	defer func() {
		metrics.Get().FeedGenerationTime.WithLabelValues(feedKind).Observe(time.Since(start).Seconds())
	}()

	var (
		annoyances []models.Annoyance
		hasMore    bool
		err        error
	)

	switch feedKind {
	case "default":
		annoyances, hasMore, err = h.defaultFeed(c, limit, offset)
	case "recent":
		annoyances, hasMore, err = fetchOrderedFeed("created_at DESC", limit, offset)
	case "liked":
		viewerID := c.GetString("user_id")
		if viewerID == "" {
			util.RespondUnauthorized(c)
			return
		}
		annoyances, hasMore, err = likedFeed(viewerID, limit, offset)
	default:
		util.RespondBadRequest(c, "unknown feed type: "+feedKind)
		return
	}

	if err != nil {
		logger.ErrorWithFields("Failed to build feed", err)
		util.RespondInternalError(c, "Failed to load feed")
		return
	}

	respondFeedPage(c, annoyances, hasMore)
}

// defaultFeed asks the ranking service for an ordering and falls back to
// newest-first when ranking is unavailable or empty.
func (h *Handlers) defaultFeed(c *gin.Context, limit, offset int) ([]models.Annoyance, bool, error) {
	if h.ranker == nil {
		return fetchOrderedFeed("created_at DESC", limit, offset)
	}

	viewerID := c.GetString("user_id")
	ids, err := h.ranker.Rank(c.Request.Context(), viewerID, limit+1, offset)
	if err != nil || len(ids) == 0 {
		if err != nil {
			logger.Warn("Ranking service failed, falling back to recent",
				zap.Error(err),
			)
		}
		return fetchOrderedFeed("created_at DESC", limit, offset)
	}

	annoyances, err := loadAnnoyancesByIDs(ids)
	if err != nil {
		return nil, false, err
	}

	annoyances, hasMore := trimPage(annoyances, limit)
	return annoyances, hasMore, nil
}

// likedFeed returns the posts the viewer has liked, most recent like first.
func likedFeed(viewerID string, limit, offset int) ([]models.Annoyance, bool, error) {
	var annoyances []models.Annoyance
	err := database.DB.
		Preload("User").
		Preload("Categories").
		Select("annoyances.*").
		Joins("JOIN likes ON likes.annoyance_id = annoyances.id").
		Where("likes.user_id = ?", viewerID).
		Order("likes.created_at DESC").
		Limit(limit + 1).
		Offset(offset).
		Find(&annoyances).Error
	if err != nil {
		return nil, false, err
	}

	annoyances, hasMore := trimPage(annoyances, limit)
	return annoyances, hasMore, nil
}

// fetchOrderedFeed runs the limit+1 page query with the given ordering
func fetchOrderedFeed(order string, limit, offset int) ([]models.Annoyance, bool, error) {
	var annoyances []models.Annoyance
	err := database.DB.
		Preload("User").
		Preload("Categories").
		Order(order).
		Limit(limit + 1).
		Offset(offset).
		Find(&annoyances).Error
	if err != nil {
		return nil, false, err
	}

	annoyances, hasMore := trimPage(annoyances, limit)
	return annoyances, hasMore, nil
}

// GetAnnoyance returns a single annoyance with author and categories.
// GET /api/v1/annoyances/:id
func (h *Handlers) GetAnnoyance(c *gin.Context) {
	id, err := util.ParseUintParam(c.Param("id"))
	if err != nil {
		util.RespondBadRequest(c, "invalid annoyance id")
		return
	}

	var annoyance models.Annoyance
	err = database.DB.
		Preload("User").
		Preload("Categories").
		First(&annoyance, id).Error
	if util.HandleDBError(c, err, "annoyance") {
		return
	}

	if viewerID := c.GetString("user_id"); viewerID != "" {
		single := []models.Annoyance{annoyance}
		if err := attachViewerLikes(single, viewerID); err == nil {
			annoyance = single[0]
		}
	}

	c.JSON(http.StatusOK, gin.H{"annoyance": annoyance})
}
