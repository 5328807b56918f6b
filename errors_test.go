package parley

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Provider: "openai", StatusCode: 500, Message: "upstream exploded", Err: ErrProviderError}
	want := "openai: upstream exploded: provider error"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestAPIErrorWithoutMessage(t *testing.T) {
	err := &APIError{Provider: "google", StatusCode: 503, Err: ErrProviderError}
	want := "google: status 503: provider error"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNewAPIErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrAuthFailed},
		{http.StatusForbidden, ErrAuthFailed},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusBadRequest, ErrInvalidRequest},
		{http.StatusInternalServerError, ErrProviderError},
		{http.StatusBadGateway, ErrProviderError},
	}
	for _, tc := range cases {
		err := newAPIError("openai", tc.status, nil)
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: err = %v, want %v in chain", tc.status, err, tc.want)
		}
	}
}

func TestErrorMessageProbesEnvelopes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"nested envelope", `{"error":{"message":"bad model","type":"invalid_request_error"}}`, "bad model"},
		{"bare message", `{"message":"quota exhausted"}`, "quota exhausted"},
		{"neither", `{"detail":"nope"}`, ""},
		{"not json", `<html>502</html>`, ""},
		{"empty", ``, ""},
	}
	for _, tc := range cases {
		if got := errorMessage([]byte(tc.body)); got != tc.want {
			t.Errorf("%s: errorMessage = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"unsupported provider", ErrUnsupportedProvider, false},
		{"missing base url", ErrMissingBaseURL, false},
		{"auth failure", newAPIError("openai", http.StatusUnauthorized, nil), false},
		{"bad request", newAPIError("openai", http.StatusBadRequest, nil), false},
		{"rate limited", newAPIError("openai", http.StatusTooManyRequests, nil), true},
		{"server error", newAPIError("openai", http.StatusInternalServerError, nil), true},
		{"gateway timeout", newAPIError("openai", http.StatusGatewayTimeout, nil), true},
		{"unknown error", errors.New("connection reset"), true},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Errorf("%s: IsRetryable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsRateLimited(t *testing.T) {
	if !IsRateLimited(newAPIError("openai", http.StatusTooManyRequests, nil)) {
		t.Error("429 should read as rate limited")
	}
	if IsRateLimited(newAPIError("openai", http.StatusInternalServerError, nil)) {
		t.Error("500 is not rate limiting")
	}
	if IsRateLimited(errors.New("other")) {
		t.Error("arbitrary errors are not rate limiting")
	}
}
