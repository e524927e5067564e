// Package metrics exposes the Prometheus metrics of the Firecrawl SDK.
// The metrics themselves are defined in the packages that record them (client,
// poll, pagination, ratelimit) and registered via promauto; this package only
// serves them.
//
// Request metrics (pkg/client):
//   - firecrawl_requests_total{endpoint, status} (Counter): Requests by endpoint template and HTTP status
//   - firecrawl_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint template
//   - firecrawl_errors_total{class} (Counter): Failed attempts by class (auth, rate_limit, client, server, network)
//
// Retry metrics (pkg/client):
//   - firecrawl_retries_total{error_class} (Counter): Retry attempts by error class
//   - firecrawl_retry_backoff_seconds{error_class} (Histogram): Backoff before each retry
//   - firecrawl_retry_exhausted_total{error_class} (Counter): Requests that failed after the last retry
//
// Job metrics (pkg/poll, pkg/pagination):
//   - firecrawl_job_polls_total{kind} (Counter): Status fetches by job kind
//   - firecrawl_job_timeouts_total{kind} (Counter): Waits that hit the local deadline
//   - firecrawl_job_wait_seconds{kind} (Histogram): Time spent waiting for a job
//   - firecrawl_pages_fetched_total (Counter): Result pages followed after completion
//
// Rate limit metrics (pkg/ratelimit):
//   - firecrawl_rate_limited_total (Counter): 429 responses
//   - firecrawl_rate_limit_remaining (Gauge): Remaining budget reported by the last 429
//
// Example queries:
//
//	# Retry ratio
//	sum(rate(firecrawl_retries_total[5m])) / sum(rate(firecrawl_requests_total[5m]))
//
//	# P95 scrape latency
//	histogram_quantile(0.95, rate(firecrawl_request_duration_seconds_bucket{endpoint="/v2/scrape"}[5m]))
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all SDK metrics are registered with.
var Registry = prometheus.DefaultRegisterer

// Handler serves the SDK metrics in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// NewServer returns an HTTP server exposing /metrics and /health on addr.
// The caller starts and shuts it down.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", healthHandler)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}
