package middleware

import (
	"context"
	"time"

	"github.com/parleychat/parley"
	"github.com/sony/gobreaker"
)

// CircuitBreakerMiddleware provides circuit breaker protection
type CircuitBreakerMiddleware struct {
	cb *gobreaker.CircuitBreaker
}

// NewCircuitBreakerMiddleware creates a new circuit breaker middleware
func NewCircuitBreakerMiddleware(name string, maxFailures uint32, timeout time.Duration) *CircuitBreakerMiddleware {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: maxFailures,
		Interval:    60 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > maxFailures
		},
	})

	return &CircuitBreakerMiddleware{cb: cb}
}

// Wrap wraps a streamer with circuit breaker protection
func (m *CircuitBreakerMiddleware) Wrap(next parley.Streamer) parley.Streamer {
	return &circuitBreakerStreamer{
		next: next,
		cb:   m.cb,
	}
}

// State returns the current circuit breaker state
func (m *CircuitBreakerMiddleware) State() gobreaker.State {
	return m.cb.State()
}

type circuitBreakerStreamer struct {
	next parley.Streamer
	cb   *gobreaker.CircuitBreaker
}

func (s *circuitBreakerStreamer) Stream(ctx context.Context, req *parley.StreamRequest, onToken parley.TokenHandler) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Stream(ctx, req, onToken)
	})

	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return parley.ErrCircuitOpen
	}
	return err
}
