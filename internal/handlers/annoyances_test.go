package handlers

import (
	"fmt"
	"net/http"

	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/models"
)

func (s *HandlersSuite) TestCreateAnnoyance() {
	s.createUser("alice")
	category := s.createCategory("Technology", "technology")

	w := s.do(http.MethodPost, "/api/v1/annoyances", "token-alice", map[string]interface{}{
		"title":       "Printers that refuse to print",
		"description": "Every office printer develops sentience just to jam at the worst moment.",
		"external_links": []map[string]string{
			{"title": "context", "url": "https://example.com/printers"},
		},
		"category_ids": []uint{category.ID},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	got := s.decode(w)["annoyance"].(map[string]interface{})
	s.Equal("Printers that refuse to print", got["title"])
	s.Equal("did:test:alice", got["user_id"])

	categories := got["categories"].([]interface{})
	s.Require().Len(categories, 1)
	s.Equal("technology", categories[0].(map[string]interface{})["slug"])

	var profile models.Profile
	s.Require().NoError(database.DB.First(&profile, "id = ?", "did:test:alice").Error)
	s.Equal(1, profile.AnnoyanceCount)
}

func (s *HandlersSuite) TestCreateAnnoyanceSanitizesContent() {
	s.createUser("alice")

	w := s.do(http.MethodPost, "/api/v1/annoyances", "token-alice", map[string]interface{}{
		"title":       "Loud   chewing at   work",
		"description": "The open office amplifies every single bite of every single apple.",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	got := s.decode(w)["annoyance"].(map[string]interface{})
	s.Equal("Loud chewing at work", got["title"])
}

func (s *HandlersSuite) TestCreateAnnoyanceValidation() {
	s.createUser("alice")

	cases := []struct {
		name  string
		title string
		desc  string
	}{
		{"title too short", "Hi", "A perfectly reasonable description of the problem."},
		{"description too short", "A valid title here", "too short"},
		{"script injection", "Check <script>alert(1)</script> this", "A perfectly reasonable description of the problem."},
		{"blacklisted word", "This is spam honestly", "A perfectly reasonable description of the problem."},
	}

	for _, tc := range cases {
		w := s.do(http.MethodPost, "/api/v1/annoyances", "token-alice", map[string]interface{}{
			"title":       tc.title,
			"description": tc.desc,
		})
		s.Equal(http.StatusBadRequest, w.Code, "%s: %s", tc.name, w.Body.String())
		s.Contains(w.Body.String(), "VALIDATION_ERROR", tc.name)
	}
}

func (s *HandlersSuite) TestCreateAnnoyanceUnknownCategory() {
	s.createUser("alice")

	w := s.do(http.MethodPost, "/api/v1/annoyances", "token-alice", map[string]interface{}{
		"title":       "A valid title here",
		"description": "A perfectly reasonable description of the problem.",
		"category_ids": []uint{
			12345,
		},
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestCreateAnnoyanceRequiresProfile() {
	// Token is valid but the user never synced a profile
	s.auth.AddUser("ghost-token", &models.Profile{ID: "did:test:ghost", Username: "ghost"})
	delete(s.auth.Profiles, "did:test:ghost")

	w := s.do(http.MethodPost, "/api/v1/annoyances", "ghost-token", map[string]interface{}{
		"title":       "A valid title here",
		"description": "A perfectly reasonable description of the problem.",
	})
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlersSuite) TestDeleteAnnoyance() {
	alice := s.createUser("alice")
	annoyance := s.createAnnoyance(alice, "something deletable")
	s.Require().NoError(database.DB.Model(alice).UpdateColumn("annoyance_count", 1).Error)

	w := s.do(http.MethodDelete, fmt.Sprintf("/api/v1/annoyances/%d", annoyance.ID), "token-alice", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var count int64
	database.DB.Model(&models.Annoyance{}).Where("id = ?", annoyance.ID).Count(&count)
	s.Equal(int64(0), count)

	var profile models.Profile
	s.Require().NoError(database.DB.First(&profile, "id = ?", alice.ID).Error)
	s.Equal(0, profile.AnnoyanceCount)
}

func (s *HandlersSuite) TestDeleteAnnoyanceOwnerOnly() {
	alice := s.createUser("alice")
	s.createUser("bob")
	annoyance := s.createAnnoyance(alice, "not yours to delete")

	w := s.do(http.MethodDelete, fmt.Sprintf("/api/v1/annoyances/%d", annoyance.ID), "token-bob", nil)
	s.Equal(http.StatusForbidden, w.Code)

	var count int64
	database.DB.Model(&models.Annoyance{}).Where("id = ?", annoyance.ID).Count(&count)
	s.Equal(int64(1), count)
}

func (s *HandlersSuite) TestDeleteAnnoyanceRemovesEngagement() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	annoyance := s.createAnnoyance(alice, "a post with engagement")

	s.Require().NoError(database.DB.Create(&models.Like{AnnoyanceID: annoyance.ID, UserID: bob.ID}).Error)
	s.Require().NoError(database.DB.Create(&models.Comment{
		AnnoyanceID: annoyance.ID, UserID: bob.ID, Content: "agreed",
	}).Error)

	w := s.do(http.MethodDelete, fmt.Sprintf("/api/v1/annoyances/%d", annoyance.ID), "token-alice", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var likes, comments int64
	database.DB.Model(&models.Like{}).Where("annoyance_id = ?", annoyance.ID).Count(&likes)
	database.DB.Model(&models.Comment{}).Where("annoyance_id = ?", annoyance.ID).Count(&comments)
	s.Equal(int64(0), likes)
	s.Equal(int64(0), comments)
}

func (s *HandlersSuite) TestUpdateAnnoyance() {
	s.createUser("alice")
	tech := s.createCategory("Technology", "technology")
	office := s.createCategory("Office Life", "office-life")

	w := s.do(http.MethodPost, "/api/v1/annoyances", "token-alice", map[string]interface{}{
		"title":        "Printers that refuse to print",
		"description":  "Every office printer develops sentience just to jam at the worst moment.",
		"category_ids": []uint{tech.ID},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	created := s.decode(w)["annoyance"].(map[string]interface{})
	id := uint(created["id"].(float64))

	w = s.do(http.MethodPut, fmt.Sprintf("/api/v1/annoyances/%d", id), "token-alice", map[string]interface{}{
		"title":        "Printers that jam on purpose",
		"description":  "The jam always happens five minutes before the deadline, never after.",
		"category_ids": []uint{office.ID},
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	got := s.decode(w)["annoyance"].(map[string]interface{})
	s.Equal("Printers that jam on purpose", got["title"])

	categories := got["categories"].([]interface{})
	s.Require().Len(categories, 1)
	s.Equal("Office Life", categories[0].(map[string]interface{})["name"])

	var stored models.Annoyance
	s.Require().NoError(database.DB.Preload("Categories").First(&stored, id).Error)
	s.Equal("The jam always happens five minutes before the deadline, never after.", stored.Description)
	s.Require().Len(stored.Categories, 1)
	s.Equal(office.ID, stored.Categories[0].ID)
}

func (s *HandlersSuite) TestUpdateAnnoyanceClearsCategories() {
	alice := s.createUser("alice")
	tech := s.createCategory("Technology", "technology")
	annoyance := s.createAnnoyance(alice, "tagged at first")
	s.Require().NoError(database.DB.Model(annoyance).Association("Categories").Append(tech))

	w := s.do(http.MethodPut, fmt.Sprintf("/api/v1/annoyances/%d", annoyance.ID), "token-alice", map[string]interface{}{
		"title":       "tagged at first",
		"description": "something that keeps happening and should not",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var stored models.Annoyance
	s.Require().NoError(database.DB.Preload("Categories").First(&stored, annoyance.ID).Error)
	s.Empty(stored.Categories)
}

func (s *HandlersSuite) TestUpdateAnnoyanceOwnerOnly() {
	alice := s.createUser("alice")
	s.createUser("bob")
	annoyance := s.createAnnoyance(alice, "not yours to edit")

	w := s.do(http.MethodPut, fmt.Sprintf("/api/v1/annoyances/%d", annoyance.ID), "token-bob", map[string]interface{}{
		"title":       "hijacked title here",
		"description": "this should never make it into the database",
	})
	s.Equal(http.StatusForbidden, w.Code)

	var stored models.Annoyance
	s.Require().NoError(database.DB.First(&stored, annoyance.ID).Error)
	s.Equal("not yours to edit", stored.Title)
}

func (s *HandlersSuite) TestUpdateAnnoyanceValidation() {
	alice := s.createUser("alice")
	annoyance := s.createAnnoyance(alice, "a perfectly fine title")

	w := s.do(http.MethodPut, fmt.Sprintf("/api/v1/annoyances/%d", annoyance.ID), "token-alice", map[string]interface{}{
		"title":       "Hi",
		"description": "long enough to pass the description minimum easily",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "VALIDATION_ERROR")
}

func (s *HandlersSuite) TestUpdateAnnoyanceMissing() {
	s.createUser("alice")

	w := s.do(http.MethodPut, "/api/v1/annoyances/424242", "token-alice", map[string]interface{}{
		"title":       "an update for nothing",
		"description": "there is no annoyance with this identifier anywhere",
	})
	s.Equal(http.StatusNotFound, w.Code)
}
