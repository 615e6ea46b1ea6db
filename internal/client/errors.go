package client

import (
	"fmt"
	"time"
)

// APIError is a non-retryable (or retries-exhausted) API failure.
type APIError struct {
	Code    int
	URL     string
	Message string
	Body    map[string]any
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("%s (HTTP %d: %s)", msg, e.Code, e.URL)
}

// RateLimitError is returned when the API reports a cooldown long enough
// that retrying in-process is impractical (e.g. the post rate limit).
type RateLimitError struct {
	APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, try again in %d minute(s)", int(e.RetryAfter.Minutes()))
}

// errorMessage digs the human-readable message out of an error body.
func errorMessage(body map[string]any) string {
	for _, key := range []string{"error", "message"} {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
