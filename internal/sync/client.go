// Package sync is the only component that talks to the remote store. It
// exposes Save and FetchAll over the store's JSON/HTTP contract and
// converts attachments to their inline base64 transport form.
package sync

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/fakeyudi/synctank/internal/item"
)

// Error taxonomy. All variants are recoverable by retry from the caller's
// perspective; none are fatal to the process.
var (
	ErrInvalidEndpoint       = errors.New("invalid endpoint")
	ErrUnreachable           = errors.New("remote store unreachable")
	ErrMalformedResponse     = errors.New("malformed response")
	ErrAttachmentUnavailable = errors.New("attachment content unavailable")
)

// ServerError is returned when the remote store answers with a non-success
// status or declines a save.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server rejected request (status %d)", e.StatusCode)
}

// StatusClass returns the leading digit of the status code (4 for client
// errors, 5 for server errors).
func (e *ServerError) StatusClass() int {
	return e.StatusCode / 100
}

// Client talks to the remote persistence API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client for the given base URL, e.g. "http://host:8000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Save serializes the item and posts it to /savedocs. An attachment's
// preview is always converted to inline base64 before transport; the
// original location is never transmitted. If the source bytes cannot be
// read, Save fails with ErrAttachmentUnavailable and performs no partial
// submission.
func (c *Client) Save(ctx context.Context, it item.Item) error {
	req := saveRequest{
		ID:      it.ID.String(),
		Content: it.Content,
	}
	if it.Attachment != nil {
		ar, err := c.toRequestAttachment(ctx, it.Attachment)
		if err != nil {
			return err
		}
		req.Attachment = ar
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	u, err := c.endpoint("/savedocs")
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{StatusCode: resp.StatusCode}
	}

	var ack saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !ack.OK {
		return &ServerError{StatusCode: resp.StatusCode}
	}
	return nil
}

// FetchAll retrieves the full remote collection from /fetchdocs. There is
// no incremental fetch; every fetch is a full replace.
func (c *Client) FetchAll(ctx context.Context) ([]item.Item, error) {
	u, err := c.endpoint("/fetchdocs")
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{StatusCode: resp.StatusCode}
	}

	var rows []fetchRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	items := make([]item.Item, 0, len(rows))
	for _, r := range rows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad id %q", ErrMalformedResponse, r.ID)
		}
		items = append(items, item.Item{
			ID:         id,
			Kind:       item.ParseKind(r.Kind),
			Title:      r.Title,
			Content:    r.Content,
			CreatedAt:  r.CreatedAt,
			Attachment: r.Attachment,
		})
	}
	return items, nil
}

func (c *Client) endpoint(path string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, c.baseURL)
	}
	return u.JoinPath(path).String(), nil
}

// toRequestAttachment converts an attachment to its transport form. All
// preview variants collapse to inline base64; file_url_string is always
// null on the wire.
func (c *Client) toRequestAttachment(ctx context.Context, a *item.Attachment) (*attachmentRequest, error) {
	if a.Preview == nil {
		return nil, fmt.Errorf("%w: attachment has no preview source", ErrAttachmentUnavailable)
	}

	var value string
	switch a.Preview.Type {
	case item.SourceBase64:
		value = a.Preview.Value

	case item.SourceLocalPath:
		data, err := os.ReadFile(a.Preview.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAttachmentUnavailable, err)
		}
		value = base64.StdEncoding.EncodeToString(data)

	case item.SourceRemoteURL:
		data, err := c.fetchBytes(ctx, a.Preview.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAttachmentUnavailable, err)
		}
		value = base64.StdEncoding.EncodeToString(data)

	default:
		return nil, fmt.Errorf("%w: unknown preview source %q", ErrAttachmentUnavailable, a.Preview.Type)
	}

	return &attachmentRequest{
		IsImage: a.IsImage,
		FileExt: a.FileExt,
		Preview: previewRequest{Type: "base64", Value: value},
	}, nil
}

func (c *Client) fetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, rawURL)
	}
	return io.ReadAll(resp.Body)
}
