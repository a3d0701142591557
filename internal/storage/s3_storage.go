package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
)

// MaxUploadSize caps product image and payment slip uploads.
const MaxUploadSize = 5 << 20 // 5 MiB

// AllowedImageTypes lists the content types accepted for any image upload.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{
				Region: region,
			}
		}
	}

	client := s3.NewFromConfig(cfg)

	return &S3Storage{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// Upload writes the object and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	logger.Debug("Uploading object to S3", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
	})

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("Failed to upload object to S3", err, map[string]interface{}{
			"bucket": s.bucket,
			"key":    key,
		})
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return s.PublicURL(key), nil
}

// Remove deletes the object. A missing key is not an error.
func (s *S3Storage) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Error("Failed to delete object from S3", err, map[string]interface{}{
			"bucket": s.bucket,
			"key":    key,
		})
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// PublicURL resolves a key against the CDN base URL when configured, or the
// bucket's direct S3 URL otherwise.
func (s *S3Storage) PublicURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.baseURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}

// ProductImageKey builds the deterministic key for the n-th image of a
// product, so re-uploads overwrite in place.
func ProductImageKey(productID uint, position int, filename string) string {
	return fmt.Sprintf("products/%d/%d%s", productID, position, strings.ToLower(filepath.Ext(filename)))
}

// CategoryImageKey builds the deterministic key for a category's image.
func CategoryImageKey(categoryID uint, filename string) string {
	return fmt.Sprintf("categories/%d%s", categoryID, strings.ToLower(filepath.Ext(filename)))
}

// PaymentSlipKey builds a unique key for a checkout payment slip. Slips are
// never overwritten; each upload gets a fresh timestamped name.
func PaymentSlipKey(userID uint, filename string) string {
	return fmt.Sprintf("slips/%d/%d%s", userID, time.Now().UnixNano(), strings.ToLower(filepath.Ext(filename)))
}

// SiteAssetKey builds a unique key for hero and logo assets on the site
// settings page.
func SiteAssetKey(kind, filename string) string {
	return fmt.Sprintf("site/%s-%s%s", kind, uuid.New().String(), strings.ToLower(filepath.Ext(filename)))
}

// KeyFromURL recovers the object key from a public URL produced by this
// store. Returns "" when the URL does not belong to the configured bucket
// or base URL.
func (s *S3Storage) KeyFromURL(url string) string {
	if s.baseURL != "" {
		prefix := strings.TrimRight(s.baseURL, "/") + "/"
		if strings.HasPrefix(url, prefix) {
			return strings.TrimPrefix(url, prefix)
		}
	}
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.client.Options().Region)
	if strings.HasPrefix(url, prefix) {
		return strings.TrimPrefix(url, prefix)
	}
	return ""
}

// ValidateFileSize validates the file size
func (s *S3Storage) ValidateFileSize(size int64, maxSize int64) error {
	if size > maxSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", maxSize)
	}
	return nil
}

// ValidateContentType validates the content type
func (s *S3Storage) ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}
