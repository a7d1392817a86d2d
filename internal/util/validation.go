package util

import (
	"path/filepath"
	"strings"
)

// imageContentTypes lists the upload content types accepted for profile
// avatars and annoyance images.
var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsValidImageContentType checks whether an uploaded file's content type is
// an accepted image format.
func IsValidImageContentType(contentType string) bool {
	return imageContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
}

// IsValidImageFile checks if a filename has a valid image extension
func IsValidImageFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
