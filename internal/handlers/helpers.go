package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/logger"
	"github.com/gotcha-app/backend/internal/models"
	"github.com/gotcha-app/backend/internal/util"
)

// Page size caps. Feed reads cap at 20; comment and search listings allow
// up to 50.
const (
	maxFeedLimit = 20
	maxListLimit = 50
)

// feedPageParams reads limit/offset query params with the standard defaults
func feedPageParams(c *gin.Context, maxLimit int) (limit, offset int) {
	limit = util.ParseInt(c.DefaultQuery("limit", "10"), 10)
	offset = util.ParseInt(c.DefaultQuery("offset", "0"), 0)
	return util.ClampPageParams(limit, offset, maxLimit)
}

// trimPage applies the limit+1 trick: the query fetched one extra row, so
// hasMore is whether that extra row existed.
func trimPage(annoyances []models.Annoyance, limit int) ([]models.Annoyance, bool) {
	if len(annoyances) > limit {
		return annoyances[:limit], true
	}
	return annoyances, false
}

// attachViewerLikes populates IsLiked on each annoyance for the viewer.
// Anonymous viewers see everything unliked.
func attachViewerLikes(annoyances []models.Annoyance, viewerID string) error {
	if viewerID == "" || len(annoyances) == 0 {
		return nil
	}

	ids := make([]uint, len(annoyances))
	for i := range annoyances {
		ids[i] = annoyances[i].ID
	}

	var liked []uint
	err := database.DB.Model(&models.Like{}).
		Where("user_id = ? AND annoyance_id IN ?", viewerID, ids).
		Pluck("annoyance_id", &liked).Error
	if err != nil {
		return err
	}

	likedSet := make(map[uint]bool, len(liked))
	for _, id := range liked {
		likedSet[id] = true
	}
	for i := range annoyances {
		annoyances[i].IsLiked = likedSet[annoyances[i].ID]
	}
	return nil
}

// loadAnnoyancesByIDs fetches annoyances preserving the given ID order.
// IDs with no matching row (deleted posts) are silently dropped.
func loadAnnoyancesByIDs(ids []uint) ([]models.Annoyance, error) {
	if len(ids) == 0 {
		return []models.Annoyance{}, nil
	}

	var rows []models.Annoyance
	err := database.DB.
		Preload("User").
		Preload("Categories").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Annoyance, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	ordered := make([]models.Annoyance, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, nil
}

// respondFeedPage attaches viewer like state and writes the standard feed
// envelope.
func respondFeedPage(c *gin.Context, annoyances []models.Annoyance, hasMore bool) {
	viewerID := c.GetString("user_id")
	if err := attachViewerLikes(annoyances, viewerID); err != nil {
		logger.WarnWithFields("Failed to attach like status", err)
	}

	c.JSON(200, gin.H{
		"annoyances": annoyances,
		"has_more":   hasMore,
	})
}
