package handlers

import (
	"net/http"

	"github.com/gotcha-app/backend/internal/auth"
	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/models"
)

func (s *HandlersSuite) TestSyncCreatesProfile() {
	s.auth.Tokens["fresh"] = &auth.TokenClaims{Sub: "did:test:fresh", Username: "freshuser", DisplayName: "Fresh User"}

	w := s.do(http.MethodPost, "/api/v1/profile/sync", "fresh", nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	got := s.decode(w)["profile"].(map[string]interface{})
	s.Equal("did:test:fresh", got["id"])
	s.Equal("freshuser", got["username"])
	s.Equal("Fresh User", got["display_name"])
	s.NotNil(got["last_synced_at"])

	var stored models.Profile
	s.Require().NoError(database.DB.First(&stored, "id = ?", "did:test:fresh").Error)
	s.Equal("freshuser", stored.Username)
}

func (s *HandlersSuite) TestSyncUpdatesExistingProfile() {
	alice := s.createUser("alice")
	s.auth.Tokens["token-alice"].DisplayName = "Alice Ives"

	w := s.do(http.MethodPost, "/api/v1/profile/sync", "token-alice", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var stored models.Profile
	s.Require().NoError(database.DB.First(&stored, "id = ?", alice.ID).Error)
	s.Equal("Alice Ives", stored.DisplayName)
	s.NotNil(stored.LastSyncedAt)
}

func (s *HandlersSuite) TestSyncRejectsTakenUsername() {
	s.createUser("alice")
	s.auth.Tokens["fresh"] = &auth.TokenClaims{Sub: "did:test:fresh", Username: "alice"}

	w := s.do(http.MethodPost, "/api/v1/profile/sync", "fresh", nil)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlersSuite) TestSyncRejectsInvalidUsername() {
	s.auth.Tokens["fresh"] = &auth.TokenClaims{Sub: "did:test:fresh", Username: "bad name!"}

	w := s.do(http.MethodPost, "/api/v1/profile/sync", "fresh", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/profile/sync", "fresh", map[string]string{"username": "admin_account"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestGetMyProfileIncludesPrivateFields() {
	alice := s.createUser("alice")
	s.Require().NoError(database.DB.Model(alice).UpdateColumn("notification_email", "alice@example.com").Error)
	alice.NotificationEmail = "alice@example.com"

	w := s.do(http.MethodGet, "/api/v1/profile", "token-alice", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	body := s.decode(w)
	s.Equal("alice@example.com", body["notification_email"])
}

func (s *HandlersSuite) TestUpdateProfilePatchesOnlyProvidedFields() {
	alice := s.createUser("alice")
	s.Require().NoError(database.DB.Model(alice).Updates(map[string]interface{}{
		"display_name": "Alice",
		"bio":          "Original bio text.",
	}).Error)

	w := s.do(http.MethodPatch, "/api/v1/profile", "token-alice", map[string]interface{}{
		"bio": "I collect minor grievances.",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var stored models.Profile
	s.Require().NoError(database.DB.First(&stored, "id = ?", alice.ID).Error)
	s.Equal("I collect minor grievances.", stored.Bio)
	s.Equal("Alice", stored.DisplayName)
}

func (s *HandlersSuite) TestUpdateProfileValidatesBio() {
	s.createUser("alice")

	w := s.do(http.MethodPatch, "/api/v1/profile", "token-alice", map[string]interface{}{
		"bio": "<script>document.cookie</script>",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestUpdateProfileNotificationSettings() {
	alice := s.createUser("alice")

	w := s.do(http.MethodPatch, "/api/v1/profile", "token-alice", map[string]interface{}{
		"notification_email":    "alice@example.com",
		"notifications_enabled": false,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var stored models.Profile
	s.Require().NoError(database.DB.First(&stored, "id = ?", alice.ID).Error)
	s.Equal("alice@example.com", stored.NotificationEmail)
	s.False(stored.NotificationsEnabled)
}

func (s *HandlersSuite) TestDeleteProfileRemovesContent() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	annoyance := s.createAnnoyance(alice, "a post that will vanish")
	s.Require().NoError(database.DB.Create(&models.Comment{
		AnnoyanceID: annoyance.ID, UserID: bob.ID, Content: "so true",
	}).Error)
	s.Require().NoError(database.DB.Create(&models.Like{
		AnnoyanceID: annoyance.ID, UserID: alice.ID,
	}).Error)

	w := s.do(http.MethodDelete, "/api/v1/profile", "token-alice", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var profiles, annoyances int64
	database.DB.Model(&models.Profile{}).Where("id = ?", alice.ID).Count(&profiles)
	database.DB.Model(&models.Annoyance{}).Where("user_id = ?", alice.ID).Count(&annoyances)
	s.Equal(int64(0), profiles)
	s.Equal(int64(0), annoyances)

	// bob's account is untouched
	var bobCount int64
	database.DB.Model(&models.Profile{}).Where("id = ?", bob.ID).Count(&bobCount)
	s.Equal(int64(1), bobCount)
}

func (s *HandlersSuite) TestUpdateProfileRenames() {
	alice := s.createUser("alice")

	w := s.do(http.MethodPatch, "/api/v1/profile", "token-alice", map[string]interface{}{
		"username": "alice_irl",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var stored models.Profile
	s.Require().NoError(database.DB.First(&stored, "id = ?", alice.ID).Error)
	s.Equal("alice_irl", stored.Username)

	// The old handle is free again
	w = s.do(http.MethodGet, "/api/v1/users/alice", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersSuite) TestUpdateProfileUsernameConflict() {
	s.createUser("alice")
	s.createUser("bob")

	w := s.do(http.MethodPatch, "/api/v1/profile", "token-alice", map[string]interface{}{
		"username": "bob",
	})
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlersSuite) TestUpdateProfileInvalidUsername() {
	s.createUser("alice")

	w := s.do(http.MethodPatch, "/api/v1/profile", "token-alice", map[string]interface{}{
		"username": "bad name!",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}
