package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentRow_Record(t *testing.T) {
	row := ContentRow{ID: 42, Title: "Café", Type: "page", Status: "draft", URL: "https://example.com/?page_id=42"}

	rec := row.Record()

	assert.Len(t, rec, len(ContentHeader))
	assert.Equal(t, []string{"42", "Café", "page", "draft", "https://example.com/?page_id=42"}, rec)
}

func TestMediaRow_Record(t *testing.T) {
	row := MediaRow{
		ContentRow: ContentRow{ID: 7, Title: "logo", Type: TypeAttachment, Status: "inherit", URL: "https://example.com/?attachment_id=7"},
		FileURL:    "https://example.com/wp-content/uploads/logo.png",
		FileType:   "image/png",
		FileSize:   "Unknown",
	}

	rec := row.Record()

	assert.Len(t, rec, len(MediaHeader))
	assert.Equal(t, "https://example.com/wp-content/uploads/logo.png", rec[5])
	assert.Equal(t, "image/png", rec[6])
	assert.Equal(t, "Unknown", rec[7])
}

func TestPostType_RewriteSlug(t *testing.T) {
	assert.Equal(t, "book", PostType{Name: "book"}.RewriteSlug())
	assert.Equal(t, "library", PostType{Name: "book", Rewrite: "library"}.RewriteSlug())
}
