package parley

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"
)

// Sentinel errors
var (
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrMissingBaseURL      = errors.New("missing provider base url")
	ErrRateLimited         = errors.New("rate limited")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrAuthFailed          = errors.New("authentication failed")
	ErrProviderError       = errors.New("provider error")
	ErrMalformedFrame      = errors.New("malformed stream frame")
	ErrCircuitOpen         = errors.New("circuit breaker is open")
	ErrMaxRetriesExceed    = errors.New("max retries exceeded")
)

// APIError represents a non-2xx response from a provider API
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "status " + strconv.Itoa(e.StatusCode)
	}
	if e.Err != nil {
		return e.Provider + ": " + msg + ": " + e.Err.Error()
	}
	return e.Provider + ": " + msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// newAPIError classifies a failed provider response. The sentinel in
// Err drives errors.Is checks and retry decisions; Message carries the
// human-readable text dug out of the vendor's error envelope.
func newAPIError(provider string, statusCode int, body []byte) *APIError {
	var cause error
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		cause = ErrAuthFailed
	case http.StatusTooManyRequests:
		cause = ErrRateLimited
	case http.StatusBadRequest:
		cause = ErrInvalidRequest
	default:
		cause = ErrProviderError
	}
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    errorMessage(body),
		Err:        cause,
	}
}

// errorMessage probes the spots the vendor families put their error
// text: OpenAI-compatible, Anthropic and Google all nest it under
// error.message; some aggregators return a bare message field.
func errorMessage(body []byte) string {
	for _, path := range []string{"error.message", "message"} {
		if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// IsRetryable returns true if the error is worth repeating the call for
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Cancellation is the caller's decision, never retried
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Dispatch failures are deterministic - not retryable
	if errors.Is(err, ErrUnsupportedProvider) || errors.Is(err, ErrMissingBaseURL) {
		return false
	}

	// Check for auth errors - not retryable
	if errors.Is(err, ErrAuthFailed) {
		return false
	}

	// Check for invalid request - not retryable
	if errors.Is(err, ErrInvalidRequest) {
		return false
	}

	// Check API errors
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests: // 429 - rate limited, retryable
			return true
		case http.StatusInternalServerError, // 500
			http.StatusBadGateway,         // 502
			http.StatusServiceUnavailable, // 503
			http.StatusGatewayTimeout:     // 504
			return true
		case http.StatusUnauthorized, // 401
			http.StatusForbidden,  // 403
			http.StatusBadRequest: // 400
			return false
		}
	}

	// Rate limit errors are retryable
	if errors.Is(err, ErrRateLimited) {
		return true
	}

	// Default to retryable for unknown errors
	return true
}

// IsRateLimited returns true if the error indicates rate limiting
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}

	return false
}
