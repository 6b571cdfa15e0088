// Package storage uploads finished dump documents to S3-compatible
// object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Config holds object storage configuration.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Uploader pushes dump documents into a bucket. Upload failures are
// reported to the caller, who logs them; they never invalidate the local
// dump file.
type Uploader struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewUploader creates an uploader for the configured endpoint.
func NewUploader(cfg Config, logger *zap.Logger) (*Uploader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Uploader{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Upload stores a serialized dump under objectName.
func (u *Uploader) Upload(ctx context.Context, objectName string, data []byte) error {
	reader := bytes.NewReader(data)
	_, err := u.client.PutObject(ctx, u.bucket, objectName, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload dump to storage: %w", err)
	}

	u.logger.Info("dump uploaded",
		zap.String("bucket", u.bucket),
		zap.String("object", objectName),
		zap.Int("size", len(data)),
	)
	return nil
}
