package middleware

import (
	"context"

	"github.com/parleychat/parley"
)

// FallbackMiddleware tries alternate providers when the primary call
// fails before any output reaches the caller. Each alternate names a
// provider, model and credentials; the conversation is carried over
// from the original request.
type FallbackMiddleware struct {
	alternates []parley.StreamRequest
	retryable  func(error) bool
}

// NewFallbackMiddleware creates a new fallback middleware
func NewFallbackMiddleware(alternates ...parley.StreamRequest) *FallbackMiddleware {
	return &FallbackMiddleware{
		alternates: alternates,
		retryable:  parley.IsRetryable,
	}
}

// WithRetryFunc sets a custom decision function for advancing to the
// next alternate
func (m *FallbackMiddleware) WithRetryFunc(f func(error) bool) *FallbackMiddleware {
	m.retryable = f
	return m
}

// Wrap wraps a streamer with fallback logic
func (m *FallbackMiddleware) Wrap(next parley.Streamer) parley.Streamer {
	return &fallbackStreamer{
		next:       next,
		alternates: m.alternates,
		retryable:  m.retryable,
	}
}

type fallbackStreamer struct {
	next       parley.Streamer
	alternates []parley.StreamRequest
	retryable  func(error) bool
}

func (s *fallbackStreamer) Stream(ctx context.Context, req *parley.StreamRequest, onToken parley.TokenHandler) error {
	var delivered bool
	guarded := func(ctx context.Context, token string) error {
		delivered = true
		return onToken(ctx, token)
	}

	err := s.next.Stream(ctx, req, guarded)
	if err == nil || delivered || !s.retryable(err) {
		return err
	}

	for i := range s.alternates {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		alt := s.alternates[i]
		alt.Messages = req.Messages
		err = s.next.Stream(ctx, &alt, guarded)
		if err == nil || delivered || !s.retryable(err) {
			return err
		}
	}

	return err
}
