package parley

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/parleychat/parley/internal/sse"
	"github.com/parleychat/parley/internal/transport"
)

// Version is reported in the default User-Agent header.
const Version = "0.1.0"

const defaultReferrer = "https://github.com/parleychat/parley"

// family carries the per-vendor behavior: endpoint construction, auth
// headers, payload shape and frame extraction. One value is selected
// per call so the controller itself stays vendor-agnostic.
type family interface {
	endpoint(baseURL string, req *StreamRequest) string
	headers(req *StreamRequest) http.Header
	payload(req *StreamRequest) ([]byte, error)
	token(frame []byte) (string, error)
}

// Client streams completions from the providers in the registry. A
// Client is safe for concurrent use; calls share nothing beyond the
// immutable registry and the configured HTTP client.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
	referrer   string
	title      string
	middleware []Middleware
	transport  *transport.Client
}

// New creates a Client with the given options
func New(opts ...Option) *Client {
	c := &Client{
		userAgent: "parley/" + Version,
		referrer:  defaultReferrer,
		title:     "parley",
	}
	for _, opt := range opts {
		opt(c)
	}
	c.transport = &transport.Client{
		HTTPClient: c.httpClient,
		UserAgent:  c.userAgent,
		Logger:     c.logger,
	}
	return c
}

// Stream sends one completion request and delivers each extracted
// token to onToken in arrival order. The call blocks until the stream
// ends: it returns nil once the server finishes (terminator frame or
// end of body) and the first failure otherwise. Tokens delivered
// before a failure remain valid and are not retracted.
func (c *Client) Stream(ctx context.Context, req *StreamRequest, onToken TokenHandler) error {
	handler := c.buildChain()
	return handler.Stream(ctx, req, onToken)
}

// buildChain wraps the core dispatch with middleware
func (c *Client) buildChain() Streamer {
	result := Streamer(StreamerFunc(c.stream))
	// Apply middleware in reverse order so first middleware is outermost
	for i := len(c.middleware) - 1; i >= 0; i-- {
		result = c.middleware[i].Wrap(result)
	}
	return result
}

// stream is one full dispatch: resolve the provider, build the
// payload, perform the POST and drive the decode loop.
func (c *Client) stream(ctx context.Context, req *StreamRequest, onToken TokenHandler) error {
	info, ok := registry[req.Provider]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedProvider, req.Provider)
	}
	fam := c.familyFor(info)

	baseURL := req.BaseURL
	if baseURL == "" {
		baseURL = info.baseURL
	}
	if baseURL == "" {
		return fmt.Errorf("%w: %q", ErrMissingBaseURL, req.Provider)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	body, err := fam.payload(req)
	if err != nil {
		return fmt.Errorf("build %s payload: %w", req.Provider, err)
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "dispatching stream",
			"provider", req.Provider,
			"model", req.Model,
			"messages", len(req.Messages))
	}

	resp, err := c.transport.PostStream(ctx, fam.endpoint(baseURL, req), fam.headers(req), body)
	if err != nil {
		var se *transport.StatusError
		if errors.As(err, &se) {
			return newAPIError(req.Provider, se.StatusCode, se.Body)
		}
		return fmt.Errorf("%s request: %w", req.Provider, err)
	}
	defer resp.Body.Close()

	dec := sse.NewDecoder(resp.Body)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s stream: %w", req.Provider, err)
		}
		token, err := fam.token(frame)
		if err != nil {
			return fmt.Errorf("%s: %w", req.Provider, err)
		}
		if token == "" {
			continue
		}
		if err := onToken(ctx, token); err != nil {
			return err
		}
	}
}

// familyFor binds the vendor behavior for one call.
func (c *Client) familyFor(info providerInfo) family {
	switch info.family {
	case FamilyAnthropic:
		return anthropicFamily{}
	case FamilyGoogle:
		return googleFamily{}
	default:
		return openAIFamily{aggregator: info.aggregator, referrer: c.referrer, title: c.title}
	}
}

// Events runs Stream in a background goroutine and exposes the call as
// a channel for select-loop consumers. The channel carries zero or
// more EventToken items followed by one EventDone or EventError, then
// closes. Cancel ctx to release the pump when abandoning the stream
// early; if ctx is canceled before the terminal event is consumed the
// channel may close without one.
func (c *Client) Events(ctx context.Context, req *StreamRequest) <-chan Event {
	ch := make(chan Event)

	go func() {
		defer close(ch)

		err := c.Stream(ctx, req, func(ctx context.Context, token string) error {
			select {
			case ch <- Event{Type: EventToken, Token: token}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			select {
			case ch <- Event{Type: EventError, Err: err}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case ch <- Event{Type: EventDone}:
		case <-ctx.Done():
		}
	}()

	return ch
}
