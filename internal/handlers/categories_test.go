package handlers

import (
	"net/http"

	"github.com/gotcha-app/backend/internal/database"
)

func (s *HandlersSuite) TestListCategoriesAlphabetical() {
	s.createCategory("Technology", "technology")
	s.createCategory("Commuting", "commuting")
	s.createCategory("Food", "food")

	w := s.do(http.MethodGet, "/api/v1/categories", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	items := s.decode(w)["categories"].([]interface{})
	s.Require().Len(items, 3)
	s.Equal("Commuting", items[0].(map[string]interface{})["name"])
	s.Equal("Food", items[1].(map[string]interface{})["name"])
	s.Equal("Technology", items[2].(map[string]interface{})["name"])
}

func (s *HandlersSuite) TestCategoryFeedFiltersBySlug() {
	user := s.createUser("alice")
	tech := s.createCategory("Technology", "technology")
	food := s.createCategory("Food", "food")

	tagged := s.createAnnoyance(user, "software updates at midnight")
	s.Require().NoError(database.DB.Model(tagged).Association("Categories").Append(tech))

	other := s.createAnnoyance(user, "soggy fries")
	s.Require().NoError(database.DB.Model(other).Association("Categories").Append(food))

	s.createAnnoyance(user, "untagged gripe")

	w := s.do(http.MethodGet, "/api/v1/categories/technology/annoyances", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal([]string{"software updates at midnight"}, s.annoyanceTitles(s.decode(w)))
}

func (s *HandlersSuite) TestCategoryFeedUnknownSlug() {
	w := s.do(http.MethodGet, "/api/v1/categories/nonexistent/annoyances", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}
