package handlers

import (
	"github.com/gotcha-app/backend/internal/email"
	"github.com/gotcha-app/backend/internal/ranking"
	"github.com/gotcha-app/backend/internal/storage"
	"github.com/gotcha-app/backend/internal/validation"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	validator *validation.Validator
	ranker    ranking.Service
	uploader  storage.ImageUploader
	notifier  email.Notifier
}

// NewHandlers creates a new handlers instance. The validator is required;
// the other collaborators are optional and set via the setters below.
func NewHandlers(validator *validation.Validator) *Handlers {
	return &Handlers{validator: validator}
}

// SetRanker sets the ranking service used for the default feed
func (h *Handlers) SetRanker(ranker ranking.Service) {
	h.ranker = ranker
}

// SetUploader sets the image storage backend
func (h *Handlers) SetUploader(uploader storage.ImageUploader) {
	h.uploader = uploader
}

// SetNotifier sets the email notification service
func (h *Handlers) SetNotifier(notifier email.Notifier) {
	h.notifier = notifier
}
