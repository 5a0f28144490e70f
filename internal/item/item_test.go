package item_test

import (
	"testing"

	"github.com/fakeyudi/synctank/internal/item"
)

func TestNewQuickCaptureDefaults(t *testing.T) {
	it := item.New("Buy milk", nil)

	if it.Kind != item.KindPlan {
		t.Errorf("Kind: want %q, got %q", item.KindPlan, it.Kind)
	}
	if it.Title != "Buy milk" {
		t.Errorf("Title: want %q, got %q", "Buy milk", it.Title)
	}
	if it.Content != "Buy milk" {
		t.Errorf("Content: want %q, got %q", "Buy milk", it.Content)
	}
	if it.Attachment != nil {
		t.Errorf("Attachment: want nil, got %+v", it.Attachment)
	}
	if it.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected a non-zero client-assigned ID")
	}
	if it.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set at capture time")
	}
}

func TestNewTitleFallsBackToPlaceholder(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		it := item.New(text, &item.Attachment{FileExt: "PDF"})
		if it.Title != "Untitled" {
			t.Errorf("New(%q): Title want %q, got %q", text, "Untitled", it.Title)
		}
		if it.Content != text {
			t.Errorf("New(%q): Content want the raw text, got %q", text, it.Content)
		}
	}
}

func TestAttachmentFilename(t *testing.T) {
	tests := []struct {
		name string
		loc  string
		want string
	}{
		{"file URL", "file:///Users/demo/Documents/report.pdf", "report.pdf"},
		{"absolute path", "/tmp/shot.png", "shot.png"},
		{"http URL", "https://example.com/assets/cover.jpg", "cover.jpg"},
		{"empty", "", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &item.Attachment{OriginalLocation: tt.loc}
			if got := a.Filename(); got != tt.want {
				t.Errorf("Filename(%q): want %q, got %q", tt.loc, tt.want, got)
			}
		})
	}
}

func TestGuessIsImage(t *testing.T) {
	tests := []struct {
		name string
		att  item.Attachment
		want bool
	}{
		{"no preview", item.Attachment{}, false},
		{"base64", item.Attachment{Preview: &item.PreviewSource{Type: item.SourceBase64, Value: "aGk="}}, true},
		{"png url", item.Attachment{Preview: &item.PreviewSource{Type: item.SourceRemoteURL, Value: "https://x/y.PNG"}}, true},
		{"pdf url", item.Attachment{Preview: &item.PreviewSource{Type: item.SourceRemoteURL, Value: "https://x/y.pdf"}}, false},
		{"jpeg path", item.Attachment{Preview: &item.PreviewSource{Type: item.SourceLocalPath, Value: "/tmp/a.jpeg"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.att.GuessIsImage(); got != tt.want {
				t.Errorf("GuessIsImage: want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestShowThumbnailToleratesMissingPreview(t *testing.T) {
	// An image attachment without a preview is not an error; it just
	// degrades to the generic file badge.
	a := &item.Attachment{IsImage: true}
	if a.ShowThumbnail() {
		t.Error("expected ShowThumbnail to be false without a preview source")
	}
	a.Preview = &item.PreviewSource{Type: item.SourceLocalPath, Value: "/tmp/a.png"}
	if !a.ShowThumbnail() {
		t.Error("expected ShowThumbnail once a preview source exists")
	}
}

func TestParseKind(t *testing.T) {
	if got := item.ParseKind("insight"); got != item.KindInsight {
		t.Errorf("ParseKind(insight): got %q", got)
	}
	for _, s := range []string{"plan", "", "attachment", "bogus"} {
		if got := item.ParseKind(s); got != item.KindPlan {
			t.Errorf("ParseKind(%q): want plan, got %q", s, got)
		}
	}
}
