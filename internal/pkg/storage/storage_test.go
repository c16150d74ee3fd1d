package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewFromDriver(t *testing.T) {
	ctx := context.Background()

	if _, err := NewFromDriver(ctx, "gcs", FactoryOptions{}); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("unknown driver err = %v", err)
	}
	if _, err := NewFromDriver(ctx, DriverMinIO, FactoryOptions{}); !errors.Is(err, ErrBucketRequired) {
		t.Errorf("minio without bucket err = %v", err)
	}
	if _, err := NewFromDriver(ctx, DriverS3, FactoryOptions{}); !errors.Is(err, ErrBucketRequired) {
		t.Errorf("s3 without bucket err = %v", err)
	}
}

func TestPresignGet(t *testing.T) {
	ctx := context.Background()

	minioStore, err := NewMinIO(MinIOOptions{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Region:    "us-east-1",
		Bucket:    "exports",
	})
	if err != nil {
		t.Fatalf("NewMinIO: %v", err)
	}

	s3Store, err := NewS3(ctx, S3Options{
		Region:       "us-east-1",
		Endpoint:     "http://localhost:9000",
		AccessKey:    "minio",
		SecretKey:    "minio123",
		Bucket:       "exports",
		UsePathStyle: true,
	})
	if err != nil {
		t.Fatalf("NewS3: %v", err)
	}

	tests := []struct {
		name  string
		store Storage
	}{
		{name: "minio", store: minioStore},
		{name: "s3", store: s3Store},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := tt.store.PresignGet(ctx, "history/2026-01-01.csv", 15*time.Minute)
			if err != nil {
				t.Fatalf("PresignGet: %v", err)
			}
			if !strings.Contains(u, "/exports/history/2026-01-01.csv") {
				t.Errorf("url %q missing bucket/key path", u)
			}
			if !strings.Contains(u, "X-Amz-Signature=") {
				t.Errorf("url %q is not signed", u)
			}
		})
	}
}
