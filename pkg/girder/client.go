// Package girder talks to the slicer_cli_web plugin of a Girder server: it
// fetches CLI specs, submits jobs, reads and writes plugin settings and
// resolves default resources. Every call is attempted once; retry policy is
// left to callers.
package girder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenHeader carries the Girder authentication token.
const TokenHeader = "Girder-Token"

// ErrNotFound matches APIError values with a 404 status.
var ErrNotFound = errors.New("girder: not found")

// APIError is a non-2xx response. Girder encodes failures as
// {"message": ..., "type": ...}.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("girder: status %d", e.Status)
	}
	return fmt.Sprintf("girder: status %d: %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client is a thin Girder REST client.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken authenticates requests with a Girder token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets a per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http = &http.Client{Timeout: timeout}
		}
	}
}

// WithLogger routes request diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a client for the REST root at baseURL, for example
// "https://girder.example.org/api/v1".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("girder: base url is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("girder: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("girder: unsupported url scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the REST root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	rel := &url.URL{Path: strings.TrimPrefix(path, "/")}
	u := c.baseURL.ResolveReference(rel)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// raw performs a request and returns the response body. Form values are sent
// url-encoded in the body.
func (c *Client) raw(ctx context.Context, method, path string, query, form url.Values) ([]byte, error) {
	target := c.endpoint(path, query)

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("girder: create request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(TokenHeader, c.token)
	}

	c.logger.Debug("girder request", slog.String("method", method), slog.String("url", target))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("girder: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("girder: read response: %w", err)
	}

	c.logger.Debug("girder response", slog.String("url", target), slog.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(bytes.TrimSpace(data)))
		}
		return nil, apiErr
	}
	return data, nil
}

// do performs a request and decodes a JSON response into out, which may be
// nil.
func (c *Client) do(ctx context.Context, method, path string, query, form url.Values, out any) error {
	data, err := c.raw(ctx, method, path, query, form)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("girder: decode %s response: %w", path, err)
	}
	return nil
}

// jsonList encodes v for Girder parameters that take a JSON document, such
// as the `list` parameter of system/setting.
func jsonList(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("girder: encode parameter: %w", err)
	}
	return string(data), nil
}
