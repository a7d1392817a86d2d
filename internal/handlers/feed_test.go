package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gotcha-app/backend/internal/models"
)

// fakeRanker returns a canned ordering and records feedback calls.
type fakeRanker struct {
	ids      []uint
	err      error
	feedback []string
}

func (f *fakeRanker) Rank(ctx context.Context, viewerID string, limit, offset int) ([]uint, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := f.ids
	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (f *fakeRanker) RecordFeedback(ctx context.Context, feedbackType, userID string, annoyanceID uint) error {
	f.feedback = append(f.feedback, fmt.Sprintf("%s:%s:%d", feedbackType, userID, annoyanceID))
	return nil
}

func (s *HandlersSuite) TestRecentFeedNewestFirst() {
	user := s.createUser("alice")
	for i := 1; i <= 3; i++ {
		s.createAnnoyance(user, fmt.Sprintf("post %d", i))
	}

	w := s.do(http.MethodGet, "/api/v1/annoyances?feed=recent", "", nil)
	s.Equal(http.StatusOK, w.Code)

	body := s.decode(w)
	s.Equal([]string{"post 3", "post 2", "post 1"}, s.annoyanceTitles(body))
	s.Equal(false, body["has_more"])
}

func (s *HandlersSuite) TestFeedPaginationHasMore() {
	user := s.createUser("alice")
	for i := 1; i <= 5; i++ {
		s.createAnnoyance(user, fmt.Sprintf("post %d", i))
	}

	w := s.do(http.MethodGet, "/api/v1/annoyances?feed=recent&limit=2", "", nil)
	body := s.decode(w)
	s.Equal([]string{"post 5", "post 4"}, s.annoyanceTitles(body))
	s.Equal(true, body["has_more"])

	w = s.do(http.MethodGet, "/api/v1/annoyances?feed=recent&limit=2&offset=4", "", nil)
	body = s.decode(w)
	s.Equal([]string{"post 1"}, s.annoyanceTitles(body))
	s.Equal(false, body["has_more"])
}

func (s *HandlersSuite) TestLikedFeedRequiresAuth() {
	w := s.do(http.MethodGet, "/api/v1/annoyances?feed=liked", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersSuite) TestLikedFeedReturnsOnlyViewerLikes() {
	author := s.createUser("alice")
	s.createUser("bob")
	s.createUser("carol")
	first := s.createAnnoyance(author, "liked first")
	second := s.createAnnoyance(author, "liked second")
	skipped := s.createAnnoyance(author, "never liked")

	// bob likes two posts in order; carol's like must stay out of bob's feed
	for _, annoyance := range []*models.Annoyance{first, second} {
		w := s.do(http.MethodPost, fmt.Sprintf("/api/v1/annoyances/%d/like", annoyance.ID), "token-bob", nil)
		s.Require().Equal(http.StatusOK, w.Code)
	}
	w := s.do(http.MethodPost, fmt.Sprintf("/api/v1/annoyances/%d/like", skipped.ID), "token-carol", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/annoyances?feed=liked", "token-bob", nil)
	s.Equal(http.StatusOK, w.Code)

	// Most recent like first, nothing bob never liked
	s.Equal([]string{"liked second", "liked first"}, s.annoyanceTitles(s.decode(w)))
}

func (s *HandlersSuite) TestUnlikeRemovesFromLikedFeed() {
	author := s.createUser("alice")
	s.createUser("bob")
	annoyance := s.createAnnoyance(author, "briefly liked")
	path := fmt.Sprintf("/api/v1/annoyances/%d/like", annoyance.ID)

	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, path, "token-bob", nil).Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, path, "token-bob", nil).Code)

	w := s.do(http.MethodGet, "/api/v1/annoyances?feed=liked", "token-bob", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Empty(s.annoyanceTitles(s.decode(w)))
}

func (s *HandlersSuite) TestFeedLimitCappedAtTwenty() {
	user := s.createUser("alice")
	for i := 1; i <= 25; i++ {
		s.createAnnoyance(user, fmt.Sprintf("post %d", i))
	}

	w := s.do(http.MethodGet, "/api/v1/annoyances?feed=recent&limit=50", "", nil)
	s.Equal(http.StatusOK, w.Code)

	body := s.decode(w)
	s.Len(s.annoyanceTitles(body), 20)
	s.Equal(true, body["has_more"])
}

func (s *HandlersSuite) TestUnknownFeedKindRejected() {
	w := s.do(http.MethodGet, "/api/v1/annoyances?feed=chronological", "", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestDefaultFeedUsesRankerOrdering() {
	user := s.createUser("alice")
	first := s.createAnnoyance(user, "first posted")
	second := s.createAnnoyance(user, "second posted")

	s.handlers.SetRanker(&fakeRanker{ids: []uint{first.ID, second.ID}})

	w := s.do(http.MethodGet, "/api/v1/annoyances", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal([]string{"first posted", "second posted"}, s.annoyanceTitles(s.decode(w)))
}

func (s *HandlersSuite) TestDefaultFeedFallsBackWhenRankerFails() {
	user := s.createUser("alice")
	s.createAnnoyance(user, "older")
	s.createAnnoyance(user, "newer")

	s.handlers.SetRanker(&fakeRanker{err: errors.New("ranking down")})

	w := s.do(http.MethodGet, "/api/v1/annoyances", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal([]string{"newer", "older"}, s.annoyanceTitles(s.decode(w)))
}

func (s *HandlersSuite) TestDefaultFeedDropsDeletedRankedIDs() {
	user := s.createUser("alice")
	kept := s.createAnnoyance(user, "kept")

	s.handlers.SetRanker(&fakeRanker{ids: []uint{9999, kept.ID}})

	w := s.do(http.MethodGet, "/api/v1/annoyances", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal([]string{"kept"}, s.annoyanceTitles(s.decode(w)))
}

func (s *HandlersSuite) TestGetAnnoyanceNotFound() {
	w := s.do(http.MethodGet, "/api/v1/annoyances/424242", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersSuite) TestGetAnnoyanceMarksViewerLike() {
	author := s.createUser("alice")
	s.createUser("bob")
	annoyance := s.createAnnoyance(author, "shopping cart abandonment")

	w := s.do(http.MethodPost, fmt.Sprintf("/api/v1/annoyances/%d/like", annoyance.ID), "token-bob", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/annoyances/%d", annoyance.ID), "token-bob", nil)
	s.Equal(http.StatusOK, w.Code)
	got := s.decode(w)["annoyance"].(map[string]interface{})
	s.Equal(true, got["is_liked"])

	// Anonymous viewers never see liked state
	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/annoyances/%d", annoyance.ID), "", nil)
	got = s.decode(w)["annoyance"].(map[string]interface{})
	s.Equal(false, got["is_liked"])
}
