package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/models"
	"github.com/gotcha-app/backend/internal/util"
)

// SearchAnnoyances finds annoyances whose title, description, or author
// username contains the query, case-insensitively, newest first.
// GET /api/v1/search?q=...
func (h *Handlers) SearchAnnoyances(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if utf8.RuneCountInString(query) < 2 {
		util.RespondValidationError(c, "q", "search query must be at least 2 characters")
		return
	}
	if utf8.RuneCountInString(query) > 100 {
		util.RespondValidationError(c, "q", "search query must be at most 100 characters")
		return
	}

	limit, offset := feedPageParams(c, maxListLimit)

	pattern := "%" + escapeLike(query) + "%"

	var annoyances []models.Annoyance
	err := database.DB.Preload("User").Preload("Categories").
		Select("annoyances.*").
		Joins("JOIN profiles ON profiles.id = annoyances.user_id").
		Where(`LOWER(annoyances.title) LIKE LOWER(?) ESCAPE '\' OR LOWER(annoyances.description) LIKE LOWER(?) ESCAPE '\' OR LOWER(profiles.username) LIKE LOWER(?) ESCAPE '\'`,
			pattern, pattern, pattern).
		Order("annoyances.created_at DESC").
		Limit(limit + 1).
		Offset(offset).
		Find(&annoyances).Error
	if err != nil {
		util.RespondInternalError(c, "Search failed")
		return
	}

	page, hasMore := trimPage(annoyances, limit)
	respondFeedPage(c, page, hasMore)
}

// escapeLike neutralizes LIKE wildcards in user input so "50%" matches the
// literal string rather than everything starting with "50".
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
