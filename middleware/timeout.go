package middleware

import (
	"context"
	"time"

	"github.com/parleychat/parley"
)

// TimeoutMiddleware adds a timeout covering the whole call, from
// dispatch through the final token.
type TimeoutMiddleware struct {
	timeout time.Duration
}

// NewTimeoutMiddleware creates a new timeout middleware
func NewTimeoutMiddleware(timeout time.Duration) *TimeoutMiddleware {
	return &TimeoutMiddleware{
		timeout: timeout,
	}
}

// Wrap wraps a streamer with timeout
func (m *TimeoutMiddleware) Wrap(next parley.Streamer) parley.Streamer {
	return &timeoutStreamer{
		next:    next,
		timeout: m.timeout,
	}
}

type timeoutStreamer struct {
	next    parley.Streamer
	timeout time.Duration
}

func (s *timeoutStreamer) Stream(ctx context.Context, req *parley.StreamRequest, onToken parley.TokenHandler) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.next.Stream(ctx, req, onToken)
}
