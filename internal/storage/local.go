package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// localStorage serves Stat from a directory on disk.
type localStorage struct {
	root string
}

// NewLocal returns a Storage backed by the uploads directory root.
// The directory does not need to exist; every lookup then reports ErrObjectNotFound.
func NewLocal(root string) (Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("uploads directory is required")
	}
	return &localStorage{root: root}, nil
}

func (l *localStorage) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	rel := filepath.FromSlash(key)
	if key == "" || !filepath.IsLocal(rel) {
		return ObjectInfo{}, fmt.Errorf("%w: %q", ErrObjectNotFound, key)
	}

	fi, err := os.Stat(filepath.Join(l.root, rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ObjectInfo{}, fmt.Errorf("%w: %q", ErrObjectNotFound, key)
		}
		return ObjectInfo{}, err
	}
	if fi.IsDir() {
		return ObjectInfo{}, fmt.Errorf("%w: %q is a directory", ErrObjectNotFound, key)
	}
	return ObjectInfo{
		Key:          key,
		Size:         fi.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(rel)),
		LastModified: fi.ModTime(),
	}, nil
}
