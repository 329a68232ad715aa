// Package client is the HTTP transport for the vault API. Every call is a
// single attempt that either returns the decoded result or an *Error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8080/api"
	// UserHeader carries the caller identity on every request.
	UserHeader = "X-User-ID"

	defaultContentType = "application/json"
	maxErrorBody       = 4 << 10
)

// Client calls the upload, approval, and records endpoints on behalf of one
// fixed user identity.
type Client struct {
	baseURL string
	userID  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a Client for baseURL that identifies every request as userID.
func New(baseURL, userID string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id required")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// UserID returns the identity sent with every request.
func (c *Client) UserID() string {
	return c.userID
}

// Upload sends f as the single "file" part of a multipart body and returns
// the quarantine descriptor.
func (c *Client) Upload(ctx context.Context, f File) (*Descriptor, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", multipart.FileContentDisposition("file", f.Name))
	header.Set("Content-Type", f.ContentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, &Error{Op: "upload", Err: err}
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, &Error{Op: "upload", Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &Error{Op: "upload", Err: err}
	}

	var d Descriptor
	if err := c.do(ctx, "upload", http.MethodPost, "/upload", &body, mw.FormDataContentType(), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Approve releases the quarantined document and triggers extraction.
// It is not idempotent.
func (c *Client) Approve(ctx context.Context, correlationID string) (*Approval, error) {
	var a Approval
	path := "/approve/" + url.PathEscape(correlationID)
	if err := c.do(ctx, "approve", http.MethodPost, path, nil, "", &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Discard deletes a quarantined document without approving it.
func (c *Client) Discard(ctx context.Context, correlationID string) error {
	path := "/quarantine/" + url.PathEscape(correlationID)
	return c.do(ctx, "discard", http.MethodDelete, path, nil, "", nil)
}

// ListRecords returns every record for the user. The slice is never nil on success.
func (c *Client) ListRecords(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := c.do(ctx, "list records", http.MethodGet, "/records", nil, "", &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// GetRecord returns a single record by id.
func (c *Client) GetRecord(ctx context.Context, id int64) (*Record, error) {
	var r Record
	path := "/records/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "get record", http.MethodGet, path, nil, "", &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Op: op, Err: err}
	}

	if contentType == "" {
		contentType = defaultContentType
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(UserHeader, c.userID)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: responseError(resp)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// responseError extracts {"error": "..."} or {"detail": "..."} from a failed
// response, falling back to the status text.
func responseError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Error != "" {
			return errors.New(payload.Error)
		}
		if payload.Detail != "" {
			return errors.New(payload.Detail)
		}
	}

	if text := strings.TrimSpace(string(data)); text != "" {
		return errors.New(text)
	}
	return errors.New(http.StatusText(resp.StatusCode))
}
