package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/spec-kit/complaint-service/internal/config"
)

// AttachmentStore keeps complaint attachments in object storage. Uploads
// return the object key recorded on the complaint; downloads hand out
// short-lived presigned URLs.
type AttachmentStore struct {
	client *minio.Client
	bucket string
}

// NewAttachmentStore connects to MinIO and ensures the bucket exists.
// Returns nil when no endpoint is configured; attachment uploads are then
// unavailable but the rest of the service runs.
func NewAttachmentStore(ctx context.Context, cfg config.MinIOConfig) (*AttachmentStore, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &AttachmentStore{client: client, bucket: cfg.BucketName}, nil
}

// Upload stores the attachment and returns its object key.
func (s *AttachmentStore) Upload(ctx context.Context, fileName, contentType string, size int64, reader io.Reader) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("attachments/%s%s", uuid.NewString(), filepath.Ext(fileName))
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload attachment: %w", err)
	}
	return key, nil
}

// PresignedURL returns a temporary download URL for an object key.
func (s *AttachmentStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign attachment: %w", err)
	}
	return u.String(), nil
}
