// Package item defines the canonical data model for captured items and
// their optional attachments.
package item

import (
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a captured item for filtering on the dashboard.
type Kind string

const (
	KindPlan    Kind = "plan"
	KindInsight Kind = "insight"
)

// SourceType discriminates the preview representation of an attachment.
// The variant is explicit and never re-inferred after construction.
type SourceType string

const (
	SourceRemoteURL SourceType = "url"
	SourceBase64    SourceType = "base64"
	SourceLocalPath SourceType = "localPath"
)

// PreviewSource holds exactly one representation of an attachment's
// thumbnail/content at a time.
type PreviewSource struct {
	Type  SourceType `json:"type"`
	Value string     `json:"value"`
}

// Attachment is the canonical representation of one file or image attached
// to a capture, independent of whether it arrived by drop, paste, or from
// the remote store.
type Attachment struct {
	IsImage bool           `json:"is_image"`
	FileExt string         `json:"file_ext"` // uppercased, e.g. "PNG"; may be empty
	Preview *PreviewSource `json:"preview,omitempty"`

	// OriginalLocation is a best-effort pointer to where the file came from
	// (absolute path or URL). It is used to derive a display filename and is
	// never transmitted to the server.
	OriginalLocation string `json:"file_url_string,omitempty"`
}

// Filename derives a display name from the attachment's original location.
// Handles both file:// URLs and bare absolute paths; falls back to a
// generic label when no location is known.
func (a *Attachment) Filename() string {
	loc := a.OriginalLocation
	if loc == "" {
		return "file"
	}
	if strings.HasPrefix(loc, "file://") {
		if u, err := url.Parse(loc); err == nil && u.Path != "" {
			return path.Base(u.Path)
		}
	}
	if u, err := url.Parse(loc); err == nil && u.Scheme != "" && u.Path != "" && u.Path != "/" {
		return path.Base(u.Path)
	}
	return path.Base(loc)
}

// GuessIsImage reports whether the preview source looks like an image.
// Used for fetched rows that carry a preview but no usable extension.
func (a *Attachment) GuessIsImage() bool {
	if a.Preview == nil {
		return false
	}
	switch a.Preview.Type {
	case SourceBase64:
		return true
	case SourceRemoteURL, SourceLocalPath:
		low := strings.ToLower(a.Preview.Value)
		if strings.Contains(low, "data:image") {
			return true
		}
		for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".heic"} {
			if strings.HasSuffix(low, ext) {
				return true
			}
		}
	}
	return false
}

// ShowThumbnail reports whether a visual preview can be rendered. An image
// attachment without a preview source is tolerated and degrades to a
// generic file badge.
func (a *Attachment) ShowThumbnail() bool {
	return a.IsImage && a.Preview != nil
}

// Item is one persisted unit of user content.
type Item struct {
	ID      uuid.UUID `json:"id"`
	Kind    Kind      `json:"kind"`
	Title   string    `json:"title"`
	Content string    `json:"content"`

	// CreatedAt is assigned client-side at capture time and drives display
	// ordering (newest first). Rows fetched from a server that does not
	// store it sort after anything captured locally.
	CreatedAt time.Time `json:"created_at,omitempty"`

	Attachment *Attachment `json:"attachment,omitempty"`
}

// New builds a quick-capture item from the finalized capture tuple.
// Quick captures default to the plan kind; an empty title falls back to a
// placeholder.
func New(text string, att *Attachment) Item {
	title := strings.TrimSpace(text)
	if title == "" {
		title = "Untitled"
	}
	return Item{
		ID:         uuid.New(),
		Kind:       KindPlan,
		Title:      title,
		Content:    text,
		CreatedAt:  time.Now(),
		Attachment: att,
	}
}

// ParseKind maps a wire kind string to a Kind, defaulting to plan for
// anything unrecognized.
func ParseKind(s string) Kind {
	if Kind(s) == KindInsight {
		return KindInsight
	}
	return KindPlan
}
