package parley

import (
	"log/slog"
	"net/http"
)

// Option configures the Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Streaming requests
// still mark every connection for teardown at the end of the call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger enables debug logging of dispatches and provider error
// bodies. The default client logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithUserAgent overrides the User-Agent header sent with every call.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithReferrer overrides the referrer/title pair the aggregator
// providers (openrouter, opencode, zenmux) receive.
func WithReferrer(referrer, title string) Option {
	return func(c *Client) {
		c.referrer = referrer
		c.title = title
	}
}

// WithMiddleware adds middleware to the call chain.
// Use this with middleware from the middleware package:
//
//	import "github.com/parleychat/parley/middleware"
//
//	client := parley.New(
//	    parley.WithMiddleware(
//	        middleware.NewRetryMiddleware(3, time.Second),
//	        middleware.NewTimeoutMiddleware(60*time.Second),
//	    ),
//	)
func WithMiddleware(m ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, m...)
	}
}
