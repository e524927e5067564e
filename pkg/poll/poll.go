// Package poll waits for a server-side job to reach a terminal state.
//
// The loop is the same for every job kind (crawl, batch scrape, agent); only the
// status fetch and the done predicate differ, so both are supplied by the caller:
//
//	job, err := poll.Until(ctx, poll.Config{
//		JobID:    id,
//		Kind:     "Crawl",
//		Interval: 2 * time.Second,
//		Timeout:  5 * time.Minute,
//	}, fetchStatus, func(j *CrawlJob) bool { return j.Status.Done() })
//
// A local timeout does not cancel the remote job.
package poll

import (
	"context"
	"fmt"
	"time"

	"github.com/firecrawl/firecrawl-go/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Defaults applied when Config leaves Interval or Timeout unset.
const (
	DefaultInterval = 2 * time.Second
	DefaultTimeout  = 300 * time.Second
)

var (
	pollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "firecrawl_job_polls_total",
		Help: "Total number of job status fetches by job kind",
	}, []string{"kind"})

	timeoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "firecrawl_job_timeouts_total",
		Help: "Total number of jobs that did not finish before the local deadline",
	}, []string{"kind"})

	waitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "firecrawl_job_wait_seconds",
		Help:    "Time spent waiting for a job to reach a terminal state",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"kind"})
)

// Config describes one wait.
type Config struct {
	// JobID and Kind label logs, metrics and the timeout error.
	JobID string
	Kind  string

	// Interval is the sleep between two status fetches.
	Interval time.Duration

	// Timeout bounds the whole wait, measured from the call to Until.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// FetchFunc returns the current state of the job.
type FetchFunc[J any] func(ctx context.Context) (J, error)

// Until fetches the job until done reports true, the deadline passes or ctx ends.
//
// Fetch errors are returned immediately. Once a job is observed done it is
// returned without further fetches. If the deadline passes first, Until returns
// a *TimeoutError; the error may surface up to one Interval after the deadline.
func Until[J any](ctx context.Context, cfg Config, fetch FetchFunc[J], done func(J) bool) (J, error) {
	cfg = cfg.withDefaults()
	logger := logging.NewLogger("firecrawl-poll").With().
		Str("job_id", cfg.JobID).
		Str("job_kind", cfg.Kind).
		Logger()

	start := time.Now()
	deadline := start.Add(cfg.Timeout)
	defer func() {
		waitSeconds.WithLabelValues(cfg.Kind).Observe(time.Since(start).Seconds())
	}()

	var zero J
	fetches := 0
	for time.Now().Before(deadline) {
		job, err := fetch(ctx)
		fetches++
		pollsTotal.WithLabelValues(cfg.Kind).Inc()
		if err != nil {
			return zero, err
		}

		if done(job) {
			logger.Debug().Int("fetches", fetches).Dur("elapsed", time.Since(start)).Msg("Job reached terminal state")
			return job, nil
		}

		logger.Debug().Int("fetches", fetches).Dur("interval", cfg.Interval).Msg("Job still running")
		if err := sleep(ctx, cfg.Interval); err != nil {
			return zero, err
		}
	}

	timeoutsTotal.WithLabelValues(cfg.Kind).Inc()
	logger.Warn().Dur("timeout", cfg.Timeout).Int("fetches", fetches).Msg("Job did not finish before deadline")
	return zero, &TimeoutError{JobID: cfg.JobID, Timeout: cfg.Timeout, Kind: cfg.Kind}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// TimeoutError is returned when a job is still running at the local deadline.
type TimeoutError struct {
	JobID   string
	Timeout time.Duration
	Kind    string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s job %s did not complete within %s", e.Kind, e.JobID, e.Timeout)
}
