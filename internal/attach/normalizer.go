// Package attach converts raw capture origins (dropped files, pasted image
// data, remote URLs) into the canonical attachment representation.
package attach

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Register decoders for the formats clipboard data arrives in.
	_ "image/gif"
	_ "image/jpeg"

	"github.com/fakeyudi/synctank/internal/item"
)

// ErrMultipleFiles is returned when a drop delivers more than one item.
// The whole drop is rejected; no partial ingestion happens.
var ErrMultipleFiles = errors.New("only one file or photo can be attached")

// imageExts is the fixed set of extensions classified as images.
var imageExts = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"heic": true, "bmp": true, "tiff": true, "webp": true,
}

// Normalizer builds canonical attachments. The zero value is usable; pasted
// images are re-encoded into TempDir (os.TempDir when empty).
type Normalizer struct {
	TempDir string
}

// NormalizeDrop ingests a drag-and-drop of file-system paths. Exactly one
// path is accepted; more than one rejects the whole drop with
// ErrMultipleFiles. Unrecognized extensions degrade to a generic file
// attachment rather than erroring.
func (n *Normalizer) NormalizeDrop(paths []string) (*item.Attachment, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if len(paths) > 1 {
		return nil, ErrMultipleFiles
	}

	p := paths[0]
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(p)), ".")
	att := &item.Attachment{
		FileExt:          strings.ToUpper(ext),
		OriginalLocation: p,
	}
	if imageExts[ext] {
		att.IsImage = true
		att.Preview = &item.PreviewSource{Type: item.SourceLocalPath, Value: p}
	}
	return att, nil
}

// NormalizePaste ingests raw clipboard image bytes by decoding them and
// re-encoding to a lossless single-frame PNG in a temp file. Only one
// conversion path is attempted: if decoding or writing fails the paste is
// silently dropped and nil is returned.
func (n *Normalizer) NormalizePaste(data []byte) *item.Attachment {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	dir := n.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("synctank-paste-%d.png", time.Now().UnixNano()))

	f, err := os.Create(path)
	if err != nil {
		return nil
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return nil
	}
	if err := f.Close(); err != nil {
		return nil
	}

	return &item.Attachment{
		IsImage:          true,
		FileExt:          "PNG",
		Preview:          &item.PreviewSource{Type: item.SourceLocalPath, Value: path},
		OriginalLocation: path,
	}
}

// NormalizeRemote ingests an already-hosted file, e.g. a thumbnail URL from
// the fetched list. Normalizing the same URL twice yields structurally
// equal attachments.
func (n *Normalizer) NormalizeRemote(url string) *item.Attachment {
	trimmed := strings.SplitN(url, "?", 2)[0]
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(trimmed)), ".")
	att := &item.Attachment{
		FileExt:          strings.ToUpper(ext),
		Preview:          &item.PreviewSource{Type: item.SourceRemoteURL, Value: url},
		OriginalLocation: url,
	}
	att.IsImage = imageExts[ext] || att.GuessIsImage()
	return att
}
