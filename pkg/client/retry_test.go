package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
)

func TestRetryPolicy_Delay(t *testing.T) {
	tests := []struct {
		name    string
		factor  float64
		attempt int
		want    time.Duration
	}{
		{"factor 0.5 attempt 1", 0.5, 1, 500 * time.Millisecond},
		{"factor 0.5 attempt 2", 0.5, 2, time.Second},
		{"factor 0.5 attempt 3", 0.5, 3, 2 * time.Second},
		{"factor 1 attempt 4", 1, 4, 8 * time.Second},
		{"factor 0 never waits", 0, 3, 0},
		{"attempt 0 is not a retry", 0.5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := RetryPolicy{MaxRetries: 3, BackoffFactor: tt.factor}
			if got := p.Delay(tt.attempt); got != tt.want {
				t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestRetryPolicy_BackOffSequence(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, BackoffFactor: 0.5}
	b := p.BackOff(context.Background())

	want := []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}
	for i, w := range want {
		got := b.NextBackOff()
		if diff := got - w; diff < 0 || diff > time.Millisecond {
			t.Errorf("NextBackOff() #%d = %v, want %v", i+1, got, w)
		}
	}
	if got := b.NextBackOff(); got != backoff.Stop {
		t.Errorf("NextBackOff() after MaxRetries = %v, want Stop", got)
	}
}

func TestRetryPolicy_BackOffZeroRetries(t *testing.T) {
	b := RetryPolicy{MaxRetries: 0, BackoffFactor: 0.5}.BackOff(context.Background())
	if got := b.NextBackOff(); got != backoff.Stop {
		t.Errorf("NextBackOff() = %v, want Stop", got)
	}
}

func TestRetryPolicy_BackOffStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := RetryPolicy{MaxRetries: 3, BackoffFactor: 0.5}.BackOff(ctx)
	if got := b.NextBackOff(); got != backoff.Stop {
		t.Errorf("NextBackOff() = %v, want Stop", got)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusPaymentRequired, false},
		{http.StatusForbidden, false},
		{http.StatusNotFound, false},
		{http.StatusRequestTimeout, true},
		{http.StatusConflict, true},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			if got := isRetryableStatus(tt.status); got != tt.want {
				t.Errorf("isRetryableStatus(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"server error", &APIError{StatusCode: 503, ErrorClass: ErrorClassServer}, true},
		{"client error", &APIError{StatusCode: 404, ErrorClass: ErrorClassClient}, false},
		{"network error", &NetworkError{Err: errors.New("reset")}, true},
		{"invalid request", invalidf("url is required"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
