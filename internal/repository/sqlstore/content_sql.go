package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"urlexport/internal/model"
	"urlexport/internal/repository"
)

// attachedFileKey is the postmeta key holding an attachment's path relative to the uploads root.
const attachedFileKey = "_wp_attached_file"

// Options selects the placeholder dialect and table prefix.
type Options struct {
	Driver      string // "pgx" or "sqlite"
	TablePrefix string
}

// ContentSQL is a database/sql implementation of repository.ContentRepository.
// It uses parameterized queries and contains no business logic.
type ContentSQL struct {
	db *sql.DB

	qPostIDs        string
	qFindPost       string
	qFindAttachment string
}

// NewContentSQL creates a ContentSQL repository for the given dialect and table prefix.
func NewContentSQL(db *sql.DB, o Options) *ContentSQL {
	ph := func(n int) string {
		if o.Driver == "sqlite" {
			return "?"
		}
		return fmt.Sprintf("$%d", n)
	}
	posts := o.TablePrefix + "posts"
	meta := o.TablePrefix + "postmeta"

	return &ContentSQL{
		db: db,
		qPostIDs: fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE post_type = %s
		  AND post_status NOT IN ('%s', '%s')
		ORDER BY post_date DESC, id DESC
	`, posts, ph(1), model.StatusTrash, model.StatusAutoDraft),
		qFindPost: fmt.Sprintf(`
		SELECT id, post_title, post_type, post_status, post_name, post_mime_type, post_date
		FROM %s
		WHERE id = %s
	`, posts, ph(1)),
		qFindAttachment: fmt.Sprintf(`
		SELECT p.id, p.post_title, p.post_type, p.post_status, p.post_name, p.post_mime_type, p.post_date,
		       COALESCE(m.meta_value, '')
		FROM %s p
		LEFT JOIN %s m ON m.post_id = p.id AND m.meta_key = '%s'
		WHERE p.id = %s AND p.post_type = '%s'
	`, posts, meta, attachedFileKey, ph(1), model.TypeAttachment),
	}
}

var _ repository.ContentRepository = (*ContentSQL)(nil)

// PostIDs lists record IDs of one type.
func (r *ContentSQL) PostIDs(ctx context.Context, postType string) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, r.qPostIDs, postType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// FindPost fetches a single record by its ID.
func (r *ContentSQL) FindPost(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	if err := r.db.QueryRowContext(ctx, r.qFindPost, id).Scan(
		&p.ID,
		&p.Title,
		&p.Type,
		&p.Status,
		&p.Slug,
		&p.MimeType,
		&p.Date,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAttachment fetches an attachment and its attached file key.
func (r *ContentSQL) FindAttachment(ctx context.Context, id int64) (*model.Attachment, error) {
	var a model.Attachment
	if err := r.db.QueryRowContext(ctx, r.qFindAttachment, id).Scan(
		&a.ID,
		&a.Title,
		&a.Type,
		&a.Status,
		&a.Slug,
		&a.MimeType,
		&a.Date,
		&a.AttachedFile,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Ping checks database connectivity.
func (r *ContentSQL) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
