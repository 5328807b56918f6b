package parley

import (
	"context"
)

// Streamer is the core streaming capability: one blocking call that
// delivers tokens to onToken in arrival order and returns once the
// stream ends or fails. Client implements it; middleware wraps it.
type Streamer interface {
	Stream(ctx context.Context, req *StreamRequest, onToken TokenHandler) error
}

// StreamerFunc adapts a function to the Streamer interface.
type StreamerFunc func(ctx context.Context, req *StreamRequest, onToken TokenHandler) error

func (f StreamerFunc) Stream(ctx context.Context, req *StreamRequest, onToken TokenHandler) error {
	return f(ctx, req, onToken)
}

// Middleware wraps a Streamer with additional functionality
type Middleware interface {
	Wrap(next Streamer) Streamer
}
