package handlers

import (
	"net/http"

	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/models"
)

func (s *HandlersSuite) TestSearchMatchesTitleAndDescription() {
	user := s.createUser("alice")
	s.createAnnoyance(user, "Umbrellas that flip inside out")
	s.Require().NoError(database.DB.Create(&models.Annoyance{
		UserID:      user.ID,
		Title:       "Unrelated title",
		Description: "But the description mentions umbrellas too.",
	}).Error)
	s.createAnnoyance(user, "Completely different topic")

	w := s.do(http.MethodGet, "/api/v1/search?q=umbrella", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	titles := s.annoyanceTitles(s.decode(w))
	s.Len(titles, 2)
	s.Contains(titles, "Umbrellas that flip inside out")
	s.Contains(titles, "Unrelated title")
}

func (s *HandlersSuite) TestSearchIsCaseInsensitive() {
	user := s.createUser("alice")
	s.createAnnoyance(user, "LOUD KEYBOARD warriors")

	w := s.do(http.MethodGet, "/api/v1/search?q=loud+keyboard", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(s.annoyanceTitles(s.decode(w)), 1)
}

func (s *HandlersSuite) TestSearchEscapesWildcards() {
	user := s.createUser("alice")
	s.createAnnoyance(user, "Discounts that are 50% off nothing")
	s.createAnnoyance(user, "Plain post without symbols")

	w := s.do(http.MethodGet, "/api/v1/search?q=50%25", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	titles := s.annoyanceTitles(s.decode(w))
	s.Equal([]string{"Discounts that are 50% off nothing"}, titles)
}

func (s *HandlersSuite) TestSearchRequiresQuery() {
	w := s.do(http.MethodGet, "/api/v1/search", "", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/search?q=++", "", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestSearchPaginates() {
	user := s.createUser("alice")
	for i := 0; i < 4; i++ {
		s.createAnnoyance(user, "recurring nuisance edition")
	}

	w := s.do(http.MethodGet, "/api/v1/search?q=nuisance&limit=3", "", nil)
	body := s.decode(w)
	s.Len(s.annoyanceTitles(body), 3)
	s.Equal(true, body["has_more"])
}

func (s *HandlersSuite) TestSearchMatchesAuthorUsername() {
	grumbler := s.createUser("grumbler")
	bob := s.createUser("bob")
	s.createAnnoyance(grumbler, "printer out of toner")
	s.createAnnoyance(bob, "meetings with no agenda")

	w := s.do(http.MethodGet, "/api/v1/search?q=grumb", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal([]string{"printer out of toner"}, s.annoyanceTitles(s.decode(w)))
}

func (s *HandlersSuite) TestSearchRejectsShortQuery() {
	user := s.createUser("alice")
	s.createAnnoyance(user, "a post that would match")

	w := s.do(http.MethodGet, "/api/v1/search?q=a", "", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "VALIDATION_ERROR")
}
