// Package storage uploads objects to an S3-compatible bucket and hands out
// time-limited download links.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrBucketRequired is returned when a driver is configured without a bucket.
var ErrBucketRequired = errors.New("storage: bucket is required")

// Storage stores objects in one preconfigured bucket.
type Storage interface {
	io.Closer

	// PutObject uploads r under key.
	PutObject(ctx context.Context, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	// PresignGet returns a signed download URL valid for expiry.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// PutOptions configures upload behavior.
type PutOptions struct {
	// Size is the content length, or -1 when unknown.
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket string
	Key    string
	Size   int64
	ETag   string
}
