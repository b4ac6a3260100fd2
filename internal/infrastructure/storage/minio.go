package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/speech-coach/pkg/config"
)

// ErrObjectTooLarge is returned when an object exceeds the read limit
var ErrObjectTooLarge = errors.New("object exceeds size limit")

// ErrObjectNotFound is returned for missing keys
var ErrObjectNotFound = errors.New("object not found")

// Object is a downloaded recording
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// MinIOClient wraps MinIO operations
type MinIOClient struct {
	client *minio.Client
	bucket string
}

// NewMinIOClient creates a new MinIO client and checks that the bucket exists
func NewMinIOClient(ctx context.Context, cfg *config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := minioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.BucketName)
	}

	return &MinIOClient{client: minioClient, bucket: cfg.BucketName}, nil
}

// GetObject downloads an object, refusing anything larger than maxBytes
func (m *MinIOClient) GetObject(ctx context.Context, key string, maxBytes int64) (*Object, error) {
	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}
	if maxBytes > 0 && info.Size > maxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrObjectTooLarge, info.Size, maxBytes)
	}

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	return &Object{Key: key, ContentType: info.ContentType, Data: data}, nil
}

// Bucket returns the configured bucket name
func (m *MinIOClient) Bucket() string {
	return m.bucket
}
