package handlers

import (
	"fmt"
	"net/http"

	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/models"
)

func (s *HandlersSuite) TestToggleLike() {
	alice := s.createUser("alice")
	s.createUser("bob")
	annoyance := s.createAnnoyance(alice, "people who reply-all")
	path := fmt.Sprintf("/api/v1/annoyances/%d/like", annoyance.ID)

	// First toggle likes
	w := s.do(http.MethodPost, path, "token-bob", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body := s.decode(w)
	s.Equal(true, body["is_liked"])
	s.Equal(float64(1), body["like_count"])

	var stored models.Annoyance
	s.Require().NoError(database.DB.First(&stored, annoyance.ID).Error)
	s.Equal(1, stored.LikeCount)

	// Second toggle unlikes
	w = s.do(http.MethodPost, path, "token-bob", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	body = s.decode(w)
	s.Equal(false, body["is_liked"])
	s.Equal(float64(0), body["like_count"])

	s.Require().NoError(database.DB.First(&stored, annoyance.ID).Error)
	s.Equal(0, stored.LikeCount)
}

func (s *HandlersSuite) TestLikesAreIndependentPerUser() {
	alice := s.createUser("alice")
	s.createUser("bob")
	s.createUser("carol")
	annoyance := s.createAnnoyance(alice, "slow walkers in hallways")
	path := fmt.Sprintf("/api/v1/annoyances/%d/like", annoyance.ID)

	s.do(http.MethodPost, path, "token-bob", nil)
	s.do(http.MethodPost, path, "token-carol", nil)

	var stored models.Annoyance
	s.Require().NoError(database.DB.First(&stored, annoyance.ID).Error)
	s.Equal(2, stored.LikeCount)

	// bob unliking leaves carol's like intact
	w := s.do(http.MethodPost, path, "token-bob", nil)
	body := s.decode(w)
	s.Equal(false, body["is_liked"])
	s.Equal(float64(1), body["like_count"])
}

func (s *HandlersSuite) TestToggleLikeMissingAnnoyance() {
	s.createUser("bob")
	w := s.do(http.MethodPost, "/api/v1/annoyances/99999/like", "token-bob", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersSuite) TestToggleLikeRequiresAuth() {
	alice := s.createUser("alice")
	annoyance := s.createAnnoyance(alice, "loud motorcycle exhausts")

	w := s.do(http.MethodPost, fmt.Sprintf("/api/v1/annoyances/%d/like", annoyance.ID), "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}
