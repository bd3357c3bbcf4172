package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	ErrNoAPIKey    = errors.New("gemini API key not set")
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
	ErrNoResponse  = errors.New("no candidates in response")
)

// APIError is a non-2xx response from the Gemini API. The status code drives
// retry classification: 429 and 5xx are transient, other 4xx are permanent
// caller errors.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini api error %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the error is server-side or a rate-limit signal
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// RateLimited reports whether the remote side signaled rate limiting
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsRetryable classifies an inference error. API errors follow their status
// code; cancellation is terminal; anything else (network failures, timeouts)
// is treated as transient.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrEmptyPrompt) || errors.Is(err, ErrNoAPIKey) {
		return false
	}
	return true
}

// IsRateLimited reports whether err carries a remote rate-limit signal
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.RateLimited()
}
