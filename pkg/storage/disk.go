// Package storage is the file store for product images.
//
// Two drivers exist: "local" (filesystem under STORAGE_LOCAL_ROOT, served on
// /storage/*) and "s3" (any S3-compatible bucket). STORAGE_DISK picks the
// default.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get for a missing file.
var ErrNotFound = errors.New("storage: file not found")

// Disk is implemented by every storage driver.
type Disk interface {
	// Put writes r to path, replacing any existing file.
	Put(ctx context.Context, path string, r io.Reader) error
	// Get returns the content at path.
	Get(ctx context.Context, path string) ([]byte, error)
	// Exists reports whether path exists.
	Exists(ctx context.Context, path string) bool
	// Delete removes path. A missing file is not an error.
	Delete(ctx context.Context, path string) error
	// URL returns the public URL for path.
	URL(path string) string
}
