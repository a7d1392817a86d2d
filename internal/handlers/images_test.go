package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	neturl "net/url"

	"github.com/gotcha-app/backend/internal/database"
	"github.com/gotcha-app/backend/internal/models"
	"github.com/gotcha-app/backend/internal/storage"
)

// uploadImage posts a multipart image request
func (s *HandlersSuite) uploadImage(token, kind, contentType string, data []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="upload.png"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	s.Require().NoError(err)
	_, err = part.Write(data)
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/images?kind="+kind, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersSuite) TestUploadAvatarUpdatesProfile() {
	alice := s.createUser("alice")
	uploader := storage.NewMemoryUploader()
	s.handlers.SetUploader(uploader)

	w := s.uploadImage("token-alice", "avatar", "image/png", []byte("fake png bytes"))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	body := s.decode(w)
	url, ok := body["url"].(string)
	s.Require().True(ok)
	s.Contains(url, "avatar/")

	var stored models.Profile
	s.Require().NoError(database.DB.First(&stored, "id = ?", alice.ID).Error)
	s.Equal(url, stored.AvatarURL)
	s.Len(uploader.Files, 1)
}

func (s *HandlersSuite) TestUploadAnnoyanceImageLeavesProfileAlone() {
	alice := s.createUser("alice")
	s.handlers.SetUploader(storage.NewMemoryUploader())

	w := s.uploadImage("token-alice", "annoyance", "image/jpeg", []byte("fake jpeg"))
	s.Require().Equal(http.StatusCreated, w.Code)

	var stored models.Profile
	s.Require().NoError(database.DB.First(&stored, "id = ?", alice.ID).Error)
	s.Empty(stored.AvatarURL)
	s.Empty(stored.BannerURL)
}

func (s *HandlersSuite) TestUploadRejectsBadContentType() {
	s.createUser("alice")
	s.handlers.SetUploader(storage.NewMemoryUploader())

	w := s.uploadImage("token-alice", "avatar", "application/pdf", []byte("%PDF-1.4"))
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestUploadRejectsUnknownKind() {
	s.createUser("alice")
	s.handlers.SetUploader(storage.NewMemoryUploader())

	w := s.uploadImage("token-alice", "background", "image/png", []byte("png"))
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestUploadRejectsOversizedImage() {
	s.createUser("alice")
	s.handlers.SetUploader(storage.NewMemoryUploader())

	big := make([]byte, maxImageSize+1)
	w := s.uploadImage("token-alice", "avatar", "image/png", big)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestDeleteImageRemovesFileAndReference() {
	alice := s.createUser("alice")
	uploader := storage.NewMemoryUploader()
	s.handlers.SetUploader(uploader)

	w := s.uploadImage("token-alice", "avatar", "image/png", []byte("fake png bytes"))
	s.Require().Equal(http.StatusCreated, w.Code)
	url := s.decode(w)["url"].(string)

	w = s.do(http.MethodDelete, "/api/v1/images?url="+neturl.QueryEscape(url), "token-alice", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	s.Empty(uploader.Files)

	var stored models.Profile
	s.Require().NoError(database.DB.First(&stored, "id = ?", alice.ID).Error)
	s.Empty(stored.AvatarURL)
}

func (s *HandlersSuite) TestDeleteImageOwnerOnly() {
	s.createUser("alice")
	s.createUser("bob")
	uploader := storage.NewMemoryUploader()
	s.handlers.SetUploader(uploader)

	w := s.uploadImage("token-alice", "annoyance", "image/png", []byte("alice's image"))
	s.Require().Equal(http.StatusCreated, w.Code)
	url := s.decode(w)["url"].(string)

	w = s.do(http.MethodDelete, "/api/v1/images?url="+neturl.QueryEscape(url), "token-bob", nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Len(uploader.Files, 1)
}

func (s *HandlersSuite) TestDeleteImageRejectsForeignURL() {
	s.createUser("alice")
	s.handlers.SetUploader(storage.NewMemoryUploader())

	w := s.do(http.MethodDelete, "/api/v1/images?url="+neturl.QueryEscape("https://elsewhere.test/not-ours"), "token-alice", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestDeleteAnnoyanceCleansUpStoredImage() {
	alice := s.createUser("alice")
	uploader := storage.NewMemoryUploader()
	s.handlers.SetUploader(uploader)

	w := s.uploadImage("token-alice", "annoyance", "image/jpeg", []byte("post image"))
	s.Require().Equal(http.StatusCreated, w.Code)
	url := s.decode(w)["url"].(string)

	annoyance := s.createAnnoyance(alice, "illustrated complaint")
	s.Require().NoError(database.DB.Model(annoyance).UpdateColumn("image_url", url).Error)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/annoyances/%d", annoyance.ID), "token-alice", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Empty(uploader.Files)
}
