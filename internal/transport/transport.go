// Package transport performs the single HTTP POST behind one streaming
// call. Every call opens its own connection and tears it down when the
// response body is closed; nothing is pooled or reused.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// maxErrorBody bounds how much of a failed response is read back for
// diagnostics.
const maxErrorBody = 32 * 1024

// StatusError reports a non-2xx response. Body holds up to
// maxErrorBody bytes of what the server sent back.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Client issues streaming POST requests with JSON bodies.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	Logger     *slog.Logger
}

// PostStream sends body to url and returns the response with its body
// unread, ready for incremental decoding. The caller owns resp.Body.
// Non-2xx responses are drained, logged and returned as *StatusError.
func (c *Client) PostStream(ctx context.Context, url string, header http.Header, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	// One connection per call, closed with the response body.
	req.Close = true

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		if c.Logger != nil {
			c.Logger.DebugContext(ctx, "provider error body",
				"status", resp.StatusCode,
				"body", string(raw))
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: raw}
	}
	return resp, nil
}
