// Package ratelimit extracts the rate limit advertised by the Firecrawl API on
// 429 responses, so callers that choose to retry manually know how long to wait.
//
// The SDK never retries 429 on its own. The parsed State travels on the
// rate-limit error returned to the caller.
package ratelimit

import (
	"context"
	"time"
)

// DefaultWait is used by Wait when the server gave no hint at all.
const DefaultWait = time.Second

// State is a snapshot of the rate limit headers from a single response.
type State struct {
	// Limit is the request budget of the current window (X-RateLimit-Limit).
	// Zero when absent.
	Limit int

	// Remaining is the budget left in the current window (X-RateLimit-Remaining).
	// -1 when absent.
	Remaining int

	// ResetAt is when the window resets (X-RateLimit-Reset). Zero when absent.
	ResetAt time.Time

	// RetryAfter is the wait requested via the Retry-After header.
	RetryAfter time.Duration

	// ObservedAt is when the response carrying the headers was received.
	ObservedAt time.Time
}

// Exhausted reports whether the window has no budget left.
func (s *State) Exhausted() bool {
	return s.Remaining == 0
}

// TimeUntilReset returns the time left until ResetAt, or 0 if unknown or past.
func (s *State) TimeUntilReset() time.Duration {
	if s.ResetAt.IsZero() {
		return 0
	}
	if d := time.Until(s.ResetAt); d > 0 {
		return d
	}
	return 0
}

// WaitDuration is the delay a caller should observe before retrying.
// Retry-After wins over the window reset; DefaultWait applies when neither is known.
func (s *State) WaitDuration() time.Duration {
	if s == nil {
		return DefaultWait
	}
	if s.RetryAfter > 0 {
		return s.RetryAfter
	}
	if d := s.TimeUntilReset(); d > 0 {
		return d
	}
	return DefaultWait
}

// Wait blocks for WaitDuration or until ctx is done.
func (s *State) Wait(ctx context.Context) error {
	timer := time.NewTimer(s.WaitDuration())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
