package anthropic

import (
	"errors"
	"fmt"
)

// Sentinel failures surfaced by Complete. The pipeline maps these onto
// its error taxonomy; the adapter itself never retries.
var (
	// ErrNotConfigured means no API credential is present.
	ErrNotConfigured = errors.New("anthropic client not configured")
	// ErrRateLimited means the provider returned 429.
	ErrRateLimited = errors.New("anthropic rate limit exceeded")
	// ErrConnection means the request never reached the provider.
	ErrConnection = errors.New("anthropic connection error")
	// ErrEmptyResponse means the provider returned no text content.
	ErrEmptyResponse = errors.New("empty response from anthropic")
)

// APIError carries the provider's own error message for diagnosis.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anthropic API error (status %d): %s", e.StatusCode, e.Message)
}
