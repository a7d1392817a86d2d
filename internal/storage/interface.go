package storage

import (
	"context"
	"fmt"
)

// ImageUploader defines the interface for uploading images. It allows
// handlers to be tested without touching S3.
type ImageUploader interface {
	UploadImage(ctx context.Context, imageData []byte, contentType, userID, kind string) (*UploadResult, error)
	DeleteFile(ctx context.Context, key string) error
}

// Ensure S3Uploader implements ImageUploader
var _ ImageUploader = (*S3Uploader)(nil)

// MemoryUploader is an in-memory ImageUploader for tests.
type MemoryUploader struct {
	// Files maps keys to stored bytes
	Files map[string][]byte

	counter int
}

// NewMemoryUploader creates an empty in-memory uploader
func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{Files: make(map[string][]byte)}
}

func (m *MemoryUploader) UploadImage(ctx context.Context, imageData []byte, contentType, userID, kind string) (*UploadResult, error) {
	m.counter++
	key := fmt.Sprintf("%s/%s/%d%s", kind, userID, m.counter, extensionForContentType(contentType))
	m.Files[key] = imageData
	return &UploadResult{
		Key:  key,
		URL:  "https://images.test/" + key,
		Size: int64(len(imageData)),
	}, nil
}

func (m *MemoryUploader) DeleteFile(ctx context.Context, key string) error {
	delete(m.Files, key)
	return nil
}

var _ ImageUploader = (*MemoryUploader)(nil)
