package sync

import (
	"time"

	"github.com/fakeyudi/synctank/internal/item"
)

// Wire DTOs. Field names are snake_case on the wire and mapped to the
// camelCase data model at this boundary.

type saveRequest struct {
	ID         string             `json:"id"`
	Content    string             `json:"content"`
	Attachment *attachmentRequest `json:"attachment,omitempty"`
}

type attachmentRequest struct {
	IsImage bool           `json:"is_image"`
	FileExt string         `json:"file_ext"`
	Preview previewRequest `json:"preview"`

	// Always null on the wire: the original location is transport-excluded
	// for privacy and size.
	FileURLString *string `json:"file_url_string"`
}

type previewRequest struct {
	Type  string `json:"type"` // always "base64"
	Value string `json:"value"`
}

type saveResponse struct {
	OK bool `json:"ok"`
}

type fetchRow struct {
	ID         string           `json:"id"`
	Kind       string           `json:"kind"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	CreatedAt  time.Time        `json:"created_at,omitempty"`
	Attachment *item.Attachment `json:"attachment,omitempty"`
}
