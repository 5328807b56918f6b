package middleware

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/parleychat/parley"
)

// RetryMiddleware provides retry logic with exponential backoff
type RetryMiddleware struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	retryable   func(error) bool
}

// NewRetryMiddleware creates a new retry middleware
func NewRetryMiddleware(maxAttempts int, baseDelay time.Duration) *RetryMiddleware {
	return &RetryMiddleware{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    30 * time.Second,
		retryable:   parley.IsRetryable,
	}
}

// WithMaxDelay sets the maximum delay between retries
func (m *RetryMiddleware) WithMaxDelay(d time.Duration) *RetryMiddleware {
	m.maxDelay = d
	return m
}

// WithRetryFunc sets a custom retry decision function
func (m *RetryMiddleware) WithRetryFunc(f func(error) bool) *RetryMiddleware {
	m.retryable = f
	return m
}

// Wrap wraps a streamer with retry logic
func (m *RetryMiddleware) Wrap(next parley.Streamer) parley.Streamer {
	return &retryStreamer{
		next:        next,
		maxAttempts: m.maxAttempts,
		baseDelay:   m.baseDelay,
		maxDelay:    m.maxDelay,
		retryable:   m.retryable,
	}
}

type retryStreamer struct {
	next        parley.Streamer
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	retryable   func(error) bool
}

func (s *retryStreamer) Stream(ctx context.Context, req *parley.StreamRequest, onToken parley.TokenHandler) error {
	var lastErr error

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		var delivered bool
		err := s.next.Stream(ctx, req, func(ctx context.Context, token string) error {
			delivered = true
			return onToken(ctx, token)
		})
		if err == nil {
			return nil
		}

		// Once tokens have reached the caller a retry would replay them.
		if delivered {
			return err
		}

		lastErr = err
		if !s.retryable(err) {
			return err
		}
	}

	return fmt.Errorf("%w: %v", parley.ErrMaxRetriesExceed, lastErr)
}

func (s *retryStreamer) calculateBackoff(attempt int) time.Duration {
	delay := time.Duration(float64(s.baseDelay) * math.Pow(2, float64(attempt-1)))
	if delay > s.maxDelay {
		delay = s.maxDelay
	}
	return delay
}
