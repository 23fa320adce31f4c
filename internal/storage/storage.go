package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fitzone/internal/logger"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid object key")

// Store persists public objects and returns the URL they are served from.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

type S3Store struct {
	client   *s3.S3
	uploader *s3manager.Uploader
	bucket   string
	region   string
}

func NewS3Store(region, accessKey, secretKey, bucket string) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Store{
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		bucket:   bucket,
		region:   region,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.urlFor(key), nil
}

func (s *S3Store) Delete(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, s.urlFor(""))
	if key == url || key == "" {
		return ErrInvalidKey
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Store) urlFor(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// LocalStore writes objects under dir; the server exposes dir at /uploads.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return s.baseURL + "/uploads/" + filepath.ToSlash(key), nil
}

func (s *LocalStore) Delete(_ context.Context, url string) error {
	key := strings.TrimPrefix(url, s.baseURL+"/uploads/")
	if key == url {
		return ErrInvalidKey
	}
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) pathFor(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.dir, clean), nil
}

// New picks S3 when a bucket is configured and local disk otherwise.
func New(s3Enabled bool, region, accessKey, secretKey, bucket, uploadDir, baseURL string) (Store, error) {
	if s3Enabled {
		logger.Info("avatar storage: S3", "bucket", bucket, "region", region)
		return NewS3Store(region, accessKey, secretKey, bucket)
	}
	logger.Warn("S3 not configured, storing uploads on local disk", "dir", uploadDir)
	return NewLocalStore(uploadDir, baseURL)
}

func AvatarKey(userID int) string {
	return fmt.Sprintf("avatars/%d/%s.jpg", userID, uuid.NewString())
}
