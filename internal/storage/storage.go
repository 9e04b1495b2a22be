// Package storage gives read access to uploaded media files, wherever they live
// (local uploads directory or an S3-compatible bucket).
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned by Stat when nothing is stored under the key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo contains basic information about a stored file.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Storage looks up stored files by key. Keys are slash-separated and relative
// to the uploads root (e.g. "2024/05/photo.jpg").
type Storage interface {
	// Stat returns the object's metadata without reading its content.
	// It returns ErrObjectNotFound (possibly wrapped) when the object does not exist.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}
