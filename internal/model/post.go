package model

import "time"

// Post is a single content record as stored by the platform.
// Attachments, pages, posts and custom types all share this shape; Type tells them apart.
type Post struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Type     string    `json:"type"`
	Status   string    `json:"status"`
	Slug     string    `json:"slug"`
	MimeType string    `json:"mime_type,omitempty"`
	Date     time.Time `json:"date"`
}

// Attachment is a Post of type attachment plus the storage key of its uploaded file,
// relative to the uploads root (e.g. "2024/05/photo.jpg"). AttachedFile is empty
// when the platform has no file on record.
type Attachment struct {
	Post
	AttachedFile string `json:"attached_file"`
}

// Statuses the platform leaves out of an "any" status query.
const (
	StatusTrash     = "trash"
	StatusAutoDraft = "auto-draft"
)

// TypeAttachment is the content type of uploaded media.
const TypeAttachment = "attachment"
