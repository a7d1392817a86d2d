package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Uploader handles image uploads to AWS S3
type S3Uploader struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

// UploadResult contains the result of an S3 upload
type UploadResult struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Bucket string `json:"bucket"`
	Region string `json:"region"`
	Size   int64  `json:"size"`
}

// NewS3Uploader creates a new S3 uploader
func NewS3Uploader(region, bucket, baseURL string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		region:  region,
		baseURL: baseURL,
	}, nil
}

// UploadImage uploads an image to S3 under a kind-scoped key. kind is one of
// "avatars", "banners", or "annoyances" and becomes the top-level folder.
func (u *S3Uploader) UploadImage(ctx context.Context, imageData []byte, contentType, userID, kind string) (*UploadResult, error) {
	fileID := uuid.New().String()
	extension := extensionForContentType(contentType)

	// Organized folder structure: {kind}/{year}/{month}/{userID}/{fileID}.ext
	now := time.Now()
	key := fmt.Sprintf("%s/%d/%02d/%s/%s%s",
		kind, now.Year(), now.Month(), userID, fileID, extension)

	putObjectInput := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),

		// Uploaded images are immutable, cache aggressively
		CacheControl: aws.String("max-age=86400"),

		Metadata: map[string]string{
			"user-id":          userID,
			"upload-timestamp": now.Format(time.RFC3339),
			"file-type":        kind,
		},

		// Bucket policy handles public read access
	}

	if _, err := u.client.PutObject(ctx, putObjectInput); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("%s/%s", strings.TrimSuffix(u.baseURL, "/"), key)

	return &UploadResult{
		Key:    key,
		URL:    publicURL,
		Bucket: u.bucket,
		Region: u.region,
		Size:   int64(len(imageData)),
	}, nil
}

// DeleteFile deletes a file from S3
func (u *S3Uploader) DeleteFile(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

// CheckBucketAccess verifies that we can access the S3 bucket
func (u *S3Uploader) CheckBucketAccess(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		return fmt.Errorf("cannot access S3 bucket %s: %w", u.bucket, err)
	}

	return nil
}

// extensionForContentType maps accepted image content types to file extensions
func extensionForContentType(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
