package model

import "strconv"

// ContentHeader is the column layout of the content export. Consumers read by position.
var ContentHeader = []string{"ID", "Title", "Post Type", "Status", "URL"}

// MediaHeader is the column layout of the media export.
var MediaHeader = []string{"ID", "Title", "Post Type", "Status", "URL", "File URL", "File Type", "File Size"}

// ContentRow is one line of the content export.
type ContentRow struct {
	ID     int64
	Title  string
	Type   string
	Status string
	URL    string
}

// Record returns the row in ContentHeader order.
func (r ContentRow) Record() []string {
	return []string{strconv.FormatInt(r.ID, 10), r.Title, r.Type, r.Status, r.URL}
}

// MediaRow is one line of the media export.
type MediaRow struct {
	ContentRow
	FileURL  string
	FileType string
	FileSize string
}

// Record returns the row in MediaHeader order.
func (r MediaRow) Record() []string {
	return append(r.ContentRow.Record(), r.FileURL, r.FileType, r.FileSize)
}
