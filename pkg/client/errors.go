package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/firecrawl/firecrawl-go/pkg/poll"
	"github.com/firecrawl/firecrawl-go/pkg/ratelimit"
)

// ErrorClass represents a classification of API failures.
type ErrorClass string

const (
	// ErrorClassAuth represents 401 responses.
	ErrorClassAuth ErrorClass = "auth"

	// ErrorClassRateLimit represents 429 responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassClient represents the remaining 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents I/O failures where no response was received.
	ErrorClassNetwork ErrorClass = "network"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrAuthentication matches any *APIError with status 401.
	ErrAuthentication = errors.New("firecrawl: authentication failed")

	// ErrRateLimited matches any *APIError with status 429.
	ErrRateLimited = errors.New("firecrawl: rate limit exceeded")

	// ErrInvalidRequest is wrapped by argument validation and body encoding
	// failures. Requests failing with it never reach the network.
	ErrInvalidRequest = errors.New("firecrawl: invalid request")

	// ErrMissingJobID is returned when a start call succeeds without a job id.
	ErrMissingJobID = errors.New("firecrawl: agent start did not return a job id")
)

// JobTimeoutError is returned by the waiting operations when a job is still
// running at the local deadline.
type JobTimeoutError = poll.TimeoutError

// APIError is a non-2xx answer from the Firecrawl API.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass

	// Code and Message come from the "code" and "error"/"message" body fields.
	Code    string
	Message string
	Details any

	// RateLimit is set on 429 responses.
	RateLimit *ratelimit.State
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("firecrawl %s error (status %d, code %s): %s",
			e.ErrorClass, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("firecrawl %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Is reports whether target is the sentinel for this error's status.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAuthentication:
		return e.StatusCode == http.StatusUnauthorized
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// NetworkError is an I/O failure that persisted through every retry.
type NetworkError struct {
	Method   string
	URL      string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("firecrawl network error: %s %s failed after %d attempt(s): %v",
		e.Method, e.URL, e.Attempts, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsAuthenticationError reports whether err is a 401 from the API.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsRateLimitError reports whether err is a 429 from the API.
func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsJobTimeoutError reports whether err is a local job wait timeout.
func IsJobTimeoutError(err error) bool {
	var timeoutErr *JobTimeoutError
	return errors.As(err, &timeoutErr)
}

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// RateLimitWait returns how long the caller should wait before retrying a
// rate-limited call. ok is false when err is not a rate-limit error.
func RateLimitWait(err error) (wait time.Duration, ok bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		return 0, false
	}
	return apiErr.RateLimit.WaitDuration(), true
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// classifyStatus maps an HTTP status to its ErrorClass.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusUnauthorized:
		return ErrorClassAuth
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

// newAPIError builds the error for a non-2xx response. The error, message,
// code and details members are read independently, so one of unexpected type
// does not hide the others. Bodies that are not JSON objects fall back to a
// generic message.
func newAPIError(status int, body []byte, header http.Header) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		ErrorClass: classifyStatus(status),
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		apiErr.Message = memberText(fields["error"])
		if apiErr.Message == "" {
			apiErr.Message = memberText(fields["message"])
		}
		apiErr.Code = memberText(fields["code"])
		if raw, ok := fields["details"]; ok {
			var details any
			if json.Unmarshal(raw, &details) == nil {
				apiErr.Details = details
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("HTTP %d error", status)
	}

	if status == http.StatusTooManyRequests {
		apiErr.RateLimit = ratelimit.FromHeaders(header, time.Now())
	}

	return apiErr
}

// memberText renders a JSON member as text: strings unquoted, any other
// value in its compact JSON form. Absent and null members are empty.
func memberText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
