package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/deskflow/helpdesk-service/internal/config"
)

// MinioStore keeps uploads in an S3 compatible bucket.
type MinioStore struct {
	client   *minio.Client
	bucket   string
	maxBytes int64
}

// NewMinioStore connects to the configured endpoint and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg config.StorageConfig) (*MinioStore, error) {
	if cfg.MinioEndpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &MinioStore{client: client, bucket: cfg.MinioBucket, maxBytes: cfg.MaxUploadBytes}, nil
}

// Save uploads the file and returns "<bucket>/<object>".
func (s *MinioStore) Save(ctx context.Context, upload Upload) (string, error) {
	name, err := validate(upload, s.maxBytes)
	if err != nil {
		return "", err
	}

	body, size := upload.Body, upload.Size
	if size <= 0 {
		// unknown length: buffer so the ceiling can be enforced before upload
		buf, err := io.ReadAll(limitedBody(upload, s.maxBytes))
		if err != nil {
			return "", err
		}
		if s.maxBytes > 0 && int64(len(buf)) > s.maxBytes {
			return "", ErrTooLarge
		}
		body, size = bytes.NewReader(buf), int64(len(buf))
	}

	objectName := "images/" + name
	_, err = s.client.PutObject(ctx, s.bucket, objectName, body, size, minio.PutObjectOptions{
		ContentType: upload.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.bucket + "/" + objectName, nil
}

// Delete removes an object saved by this store.
func (s *MinioStore) Delete(ctx context.Context, path string) error {
	objectName, ok := strings.CutPrefix(path, s.bucket+"/")
	if !ok || objectName == "" {
		return ErrForeignPath
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}
