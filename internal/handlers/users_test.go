package handlers

import (
	"fmt"
	"net/http"

	"github.com/gotcha-app/backend/internal/database"
)

func (s *HandlersSuite) TestGetUserByUsername() {
	alice := s.createUser("alice")
	s.Require().NoError(database.DB.Model(alice).Updates(map[string]interface{}{
		"display_name":       "Alice",
		"bio":                "Professional complainer.",
		"notification_email": "alice@example.com",
	}).Error)

	w := s.do(http.MethodGet, "/api/v1/users/alice", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	got := s.decode(w)["user"].(map[string]interface{})
	s.Equal("alice", got["username"])
	s.Equal("Professional complainer.", got["bio"])

	// Private fields never leak through the public shape
	s.NotContains(w.Body.String(), "alice@example.com")
	s.NotContains(got, "notification_email")
	s.NotContains(got, "notifications_enabled")
}

func (s *HandlersSuite) TestGetUserByUsernameCaseInsensitive() {
	s.createUser("alice")

	w := s.do(http.MethodGet, "/api/v1/users/ALICE", "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlersSuite) TestGetUserByUsernameNotFound() {
	w := s.do(http.MethodGet, "/api/v1/users/nobody", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersSuite) TestGetUserAnnoyances() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	for i := 1; i <= 3; i++ {
		s.createAnnoyance(alice, fmt.Sprintf("alice post %d", i))
	}
	s.createAnnoyance(bob, "bob post")

	w := s.do(http.MethodGet, "/api/v1/users/alice/annoyances?limit=2", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	body := s.decode(w)
	s.Equal([]string{"alice post 3", "alice post 2"}, s.annoyanceTitles(body))
	s.Equal(true, body["has_more"])
}

func (s *HandlersSuite) TestGetUserIncludesStats() {
	alice := s.createUser("alice")
	s.createUser("bob")
	first := s.createAnnoyance(alice, "first grievance")
	s.createAnnoyance(alice, "second grievance")

	likePath := fmt.Sprintf("/api/v1/annoyances/%d/like", first.ID)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, likePath, "token-bob", nil).Code)

	commentPath := fmt.Sprintf("/api/v1/annoyances/%d/comments", first.ID)
	w := s.do(http.MethodPost, commentPath, "token-bob", map[string]string{"content": "relatable"})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users/alice", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	stats := s.decode(w)["stats"].(map[string]interface{})
	s.Equal(float64(2), stats["total_posts"])
	s.Equal(float64(1), stats["total_likes"])
	s.Equal(float64(1), stats["total_comments"])
}
