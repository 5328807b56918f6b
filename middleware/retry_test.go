package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/parleychat/parley"
)

func serverError() error {
	return &parley.APIError{
		Provider:   "openai",
		StatusCode: http.StatusInternalServerError,
		Message:    "boom",
		Err:        parley.ErrProviderError,
	}
}

func authError() error {
	return &parley.APIError{
		Provider:   "openai",
		StatusCode: http.StatusUnauthorized,
		Message:    "bad key",
		Err:        parley.ErrAuthFailed,
	}
}

func discardTokens(ctx context.Context, token string) error { return nil }

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	next := parley.StreamerFunc(func(ctx context.Context, req *parley.StreamRequest, onToken parley.TokenHandler) error {
		calls++
		if calls < 3 {
			return serverError()
		}
		return onToken(ctx, "ok")
	})

	var got []string
	err := NewRetryMiddleware(3, time.Millisecond).Wrap(next).
		Stream(context.Background(), &parley.StreamRequest{Provider: "openai"}, func(ctx context.Context, token string) error {
			got = append(got, token)
			return nil
		})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(got) != 1 || got[0] != "ok" {
		t.Errorf("tokens = %v, want [ok]", got)
	}
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	next := parley.StreamerFunc(func(ctx context.Context, req *parley.StreamRequest, onToken parley.TokenHandler) error {
		calls++
		return authError()
	})

	err := NewRetryMiddleware(3, time.Millisecond).Wrap(next).
		Stream(context.Background(), &parley.StreamRequest{Provider: "openai"}, discardTokens)
	if !errors.Is(err, parley.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	next := parley.StreamerFunc(func(ctx context.Context, req *parley.StreamRequest, onToken parley.TokenHandler) error {
		calls++
		return serverError()
	})

	err := NewRetryMiddleware(2, time.Millisecond).Wrap(next).
		Stream(context.Background(), &parley.StreamRequest{Provider: "openai"}, discardTokens)
	if !errors.Is(err, parley.ErrMaxRetriesExceed) {
		t.Fatalf("err = %v, want ErrMaxRetriesExceed", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRetryDoesNotReplayDeliveredTokens(t *testing.T) {
	calls := 0
	next := parley.StreamerFunc(func(ctx context.Context, req *parley.StreamRequest, onToken parley.TokenHandler) error {
		calls++
		if err := onToken(ctx, "partial"); err != nil {
			return err
		}
		return serverError()
	})

	var got []string
	err := NewRetryMiddleware(3, time.Millisecond).Wrap(next).
		Stream(context.Background(), &parley.StreamRequest{Provider: "openai"}, func(ctx context.Context, token string) error {
			got = append(got, token)
			return nil
		})
	if !errors.Is(err, parley.ErrProviderError) {
		t.Fatalf("err = %v, want ErrProviderError", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(got) != 1 || got[0] != "partial" {
		t.Errorf("tokens = %v, want [partial]", got)
	}
}

func TestRetryStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	next := parley.StreamerFunc(func(ctx context.Context, req *parley.StreamRequest, onToken parley.TokenHandler) error {
		calls++
		cancel()
		return serverError()
	})

	err := NewRetryMiddleware(3, time.Millisecond).Wrap(next).
		Stream(ctx, &parley.StreamRequest{Provider: "openai"}, discardTokens)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCalculateBackoff(t *testing.T) {
	s := &retryStreamer{baseDelay: 100 * time.Millisecond, maxDelay: 300 * time.Millisecond}

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 300 * time.Millisecond},
		{10, 300 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := s.calculateBackoff(tc.attempt); got != tc.want {
			t.Errorf("calculateBackoff(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}
