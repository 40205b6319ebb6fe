package llm

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"
)

// TransportError indicates the completion endpoint could not be reached or the
// response could not be read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamError indicates the completion endpoint answered with a non-success status.
// RetryAfter is informational; the pipeline never retries.
type UpstreamError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *UpstreamError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("completion API error (status %d, retry after %s): %s", e.StatusCode, e.RetryAfter, e.Body)
	}
	return fmt.Sprintf("completion API error (status %d): %s", e.StatusCode, e.Body)
}

// NewUpstreamError creates an UpstreamError, truncating the body for log safety.
func NewUpstreamError(status int, body []byte, retryAfterSecs int) *UpstreamError {
	return &UpstreamError{
		StatusCode: status,
		Body:       truncate(string(body), 500),
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
	}
}

// MalformedResponseError indicates the completion was not valid JSON or did not match
// the expected envelope shape.
type MalformedResponseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	msg := "malformed completion: " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Raw != "" {
		msg += " (raw: " + e.Raw + ")"
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func newMalformed(reason, raw string, err error) *MalformedResponseError {
	return &MalformedResponseError{Reason: reason, Raw: truncate(raw, 200), Err: err}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}

// truncate cuts s to at most maxLen bytes without splitting a UTF-8 sequence.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
