package repository

import (
	"context"

	"urlexport/internal/model"
)

// ContentRepository is read-only access to the platform's records.
// No business logic here, strictly persistence operations.
type ContentRepository interface {
	// PostIDs returns the IDs of every record of postType in any status the platform
	// treats as "any" (trash and auto-draft excluded), newest first. The result is unbounded.
	PostIDs(ctx context.Context, postType string) ([]int64, error)

	// FindPost returns a record by ID. It returns sql.ErrNoRows when the record does not exist.
	FindPost(ctx context.Context, id int64) (*model.Post, error)

	// FindAttachment returns an attachment record with its attached file key.
	// It returns sql.ErrNoRows when no attachment has that ID.
	FindAttachment(ctx context.Context, id int64) (*model.Attachment, error)

	// Ping checks connectivity to the backing store.
	Ping(ctx context.Context) error
}
