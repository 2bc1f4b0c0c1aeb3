// Package client is a typed HTTP client for the registry API. The
// source-management controller drives it, but it stands alone for
// scripting against a running portal.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tiangong-ops/opshub/pkg/apperrors"
)

// Source is the wire representation of a data source. Password travels
// on writes only; reads never include it.
type Source struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Database    string `json:"database"`
	Username    string `json:"username"`
	Password    string `json:"password,omitempty"`
	Status      string `json:"status,omitempty"`
	LastScanned string `json:"lastScanned,omitempty"`
}

// TestRequest carries connection parameters for a live probe. They need
// not match any saved source.
type TestRequest struct {
	Type     string `json:"type"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// result mirrors the server's response envelope.
type result struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// ProbeError is a failed connectivity test. Text is the server-side
// driver message, verbatim.
type ProbeError struct {
	Text string
}

func (e *ProbeError) Error() string { return e.Text }

// Client talks to the registry API over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests
// and custom transports.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New creates a client for the API at baseURL (scheme and host, no
// trailing path).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListSources retrieves all registered data sources. Secrets are never
// present in the result.
func (c *Client) ListSources(ctx context.Context) ([]Source, error) {
	var sources []Source
	if err := c.do(ctx, http.MethodGet, "/api/sources", nil, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// SaveSource creates or updates a source keyed by ID. Leave Password
// empty on an update to keep the stored secret.
func (c *Client) SaveSource(ctx context.Context, s Source) (Source, error) {
	var envelope result
	if err := c.do(ctx, http.MethodPost, "/api/sources", s, &envelope); err != nil {
		return Source{}, err
	}

	var saved Source
	if err := json.Unmarshal(envelope.Data, &saved); err != nil {
		return Source{}, fmt.Errorf("failed to decode saved source: %w", err)
	}
	return saved, nil
}

// DeleteSource removes a source. A missing ID surfaces as
// apperrors.ErrNotFound.
func (c *Client) DeleteSource(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sources/"+url.PathEscape(id), nil, nil)
}

// TestSource runs a live connectivity probe with the given parameters.
// It returns nil when the probe succeeds and a *ProbeError carrying the
// driver's message when the target rejected or timed out.
func (c *Client) TestSource(ctx context.Context, req TestRequest) error {
	var envelope result
	if err := c.do(ctx, http.MethodPost, "/api/sources/test", req, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return &ProbeError{Text: envelope.Error}
	}
	return nil
}

// do performs a request and decodes the response into out (when out is
// non-nil). Failure statuses map back onto the shared error taxonomy so
// callers can branch with errors.Is.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusErr(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusErr(resp *http.Response) error {
	var envelope result
	msg := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
		msg = envelope.Error
	}

	switch resp.StatusCode {
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", apperrors.ErrStoreUnavailable, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, msg)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
	}
}
