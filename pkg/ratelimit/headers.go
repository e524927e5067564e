package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Response headers inspected by FromHeaders. The unprefixed IETF draft names
// are accepted as a fallback.
const (
	HeaderRetryAfter = "Retry-After"
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderReset      = "X-RateLimit-Reset"
)

// Reset values above this are unix timestamps, anything lower is seconds from now.
const epochThreshold = 1_000_000_000

var (
	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "firecrawl_rate_limited_total",
		Help: "Total number of responses rejected with 429 Too Many Requests",
	})

	rateLimitRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "firecrawl_rate_limit_remaining",
		Help: "Request budget remaining as reported by the last rate-limited response",
	})
)

// FromHeaders parses the rate limit headers of a 429 response received at now.
// It always returns a State; fields without a matching header keep their
// "absent" value.
func FromHeaders(h http.Header, now time.Time) *State {
	rateLimitedTotal.Inc()

	s := &State{Remaining: -1, ObservedAt: now}

	if v, ok := intHeader(h, HeaderLimit, "RateLimit-Limit"); ok {
		s.Limit = v
	}
	if v, ok := intHeader(h, HeaderRemaining, "RateLimit-Remaining"); ok {
		s.Remaining = v
		rateLimitRemaining.Set(float64(v))
	}
	if v, ok := intHeader(h, HeaderReset, "RateLimit-Reset"); ok {
		if v > epochThreshold {
			s.ResetAt = time.Unix(int64(v), 0)
		} else {
			s.ResetAt = now.Add(time.Duration(v) * time.Second)
		}
	}
	if d, ok := parseRetryAfter(h.Get(HeaderRetryAfter), now); ok {
		s.RetryAfter = d
	}

	return s
}

func intHeader(h http.Header, names ...string) (int, bool) {
	for _, name := range names {
		raw := strings.TrimSpace(h.Get(name))
		if raw == "" {
			continue
		}
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			return v, true
		}
	}
	return 0, false
}

// parseRetryAfter accepts both forms allowed by RFC 9110: delay-seconds and an HTTP date.
func parseRetryAfter(raw string, now time.Time) (time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := at.Sub(now); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}
