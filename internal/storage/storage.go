// Package storage holds the object store abstraction for scanned document
// copies. Implementations stream content; nothing touches local disk.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions describe the upload. Size is the exact byte count when
// known, -1 to let the backend chunk.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored scan.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the S3-compatible client the document service uploads scans to.
// Downloads go through presigned URLs, never through the API process.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL for downloading the scan without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
