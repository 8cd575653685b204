package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo describes a stored object.
type FileInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Storage is the durable store behind attachment uploads.
type Storage interface {
	// Write stores content from the reader under the given key. The size
	// parameter is the expected content size (-1 if unknown). The content
	// must be fully durable when Write returns.
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Read retrieves content for the given key.
	// The caller is responsible for closing the returned ReadCloser.
	Read(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the content with the given key. Deleting a missing
	// key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns information about objects whose keys start with prefix.
	List(ctx context.Context, prefix string) ([]FileInfo, error)

	// Exists reports whether content with the given key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns a URL for accessing the content. Local storage
	// returns a root-relative path; S3 returns a presigned URL valid for
	// the given duration.
	GetURL(ctx context.Context, key string, expires time.Duration) (string, error)
}
