package storage

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOOptions configures MinIO client initialization.
type MinIOOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	UseSSL    bool
}

// MinIOAdapter implements Storage using MinIO.
type MinIOAdapter struct {
	client *minio.Client
	bucket string
}

// NewMinIO constructs a MinIO adapter. No request is made until first use.
func NewMinIO(opts MinIOOptions) (*MinIOAdapter, error) {
	if opts.Bucket == "" {
		return nil, ErrBucketRequired
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}

	return &MinIOAdapter{client: client, bucket: opts.Bucket}, nil
}

// PutObject uploads r to the configured bucket.
func (m *MinIOAdapter) PutObject(ctx context.Context, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	info, err := m.client.PutObject(ctx, m.bucket, key, r, opts.Size, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: opts.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, err
	}

	return ObjectInfo{Bucket: m.bucket, Key: key, Size: info.Size, ETag: info.ETag}, nil
}

// PresignGet returns a signed URL for downloading key.
func (m *MinIOAdapter) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Close is a no-op; the MinIO client holds no long-lived resources.
func (m *MinIOAdapter) Close() error {
	return nil
}
