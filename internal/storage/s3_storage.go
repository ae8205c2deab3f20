package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/noirparfum/noir-backend/config"
	"github.com/noirparfum/noir-backend/pkg/logger"
)

// MaxImageSize is the upload limit for product and blog images
const MaxImageSize int64 = 5 << 20

const presignExpiry = 15 * time.Minute

var (
	ErrUnsupportedType = errors.New("only JPEG, PNG, WEBP and GIF images are allowed")
	ErrFileTooLarge    = errors.New("file exceeds the 5MB limit")
)

var AllowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/webp",
	"image/gif",
}

var folderPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9/_-]{0,62}$`)

// ObjectStore stores uploaded media and returns its public URL
type ObjectStore interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (*UploadResult, error)
	PresignUpload(ctx context.Context, folder, filename, contentType string) (*PresignedURLResponse, error)
}

type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type PresignedURLResponse struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

type S3Storage struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

func NewS3Storage(ctx context.Context, cfg config.S3Config) *S3Storage {
	var awsCfg aws.Config
	var err error

	// Static keys win; otherwise fall back to the default credential chain
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			logger.Warn("Falling back to region-only AWS config", map[string]interface{}{
				"error": err.Error(),
			})
			awsCfg = aws.Config{Region: cfg.Region}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// ValidateImage checks the declared content type and size of an upload
func ValidateImage(contentType string, size int64) error {
	if size > MaxImageSize {
		return ErrFileTooLarge
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	for _, allowed := range AllowedImageTypes {
		if contentType == allowed {
			return nil
		}
	}
	return ErrUnsupportedType
}

// ObjectKey places a random name under folder, keeping the file extension
func ObjectKey(folder, filename string) string {
	folder = strings.Trim(strings.ToLower(folder), "/")
	if !folderPattern.MatchString(folder) || strings.Contains(folder, "..") {
		folder = "uploads"
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)
}

// PublicURL is the CDN URL when configured, else the S3 virtual-hosted URL
func PublicURL(baseURL, bucket, region, key string) string {
	if baseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(baseURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

func (s *S3Storage) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (*UploadResult, error) {
	if err := ValidateImage(contentType, size); err != nil {
		return nil, err
	}
	key := ObjectKey(folder, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	logger.Info("Image uploaded", map[string]interface{}{
		"key":  key,
		"size": size,
	})
	return &UploadResult{
		URL:         PublicURL(s.baseURL, s.bucket, s.region, key),
		Key:         key,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// PresignUpload returns a PUT URL valid for 15 minutes
func (s *S3Storage) PresignUpload(ctx context.Context, folder, filename, contentType string) (*PresignedURLResponse, error) {
	if err := ValidateImage(contentType, 0); err != nil {
		return nil, err
	}
	key := ObjectKey(folder, filename)

	presignClient := s3.NewPresignClient(s.client)
	presignedReq, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: presignedReq.URL,
		FileURL:   PublicURL(s.baseURL, s.bucket, s.region, key),
		Key:       key,
		ExpiresAt: time.Now().Add(presignExpiry),
	}, nil
}
