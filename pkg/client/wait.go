package client

import (
	"context"
	"net/http"
	"time"

	"github.com/firecrawl/firecrawl-go/pkg/pagination"
	"github.com/firecrawl/firecrawl-go/pkg/poll"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Job kind labels used in timeout errors, logs and metrics.
const (
	KindCrawl       = "Crawl"
	KindBatchScrape = "Batch scrape"
	KindAgent       = "Agent"
)

// WaitOption overrides the client's poll interval or job timeout for one call.
type WaitOption func(*waitConfig)

type waitConfig struct {
	interval time.Duration
	timeout  time.Duration
}

// WithPollInterval sets the sleep between two status fetches.
func WithPollInterval(d time.Duration) WaitOption {
	return func(w *waitConfig) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithJobTimeout bounds the total wait. The remote job keeps running when it expires.
func WithJobTimeout(d time.Duration) WaitOption {
	return func(w *waitConfig) {
		if d > 0 {
			w.timeout = d
		}
	}
}

func (c *Client) waitConfig(opts []WaitOption) waitConfig {
	w := waitConfig{interval: c.config.PollInterval, timeout: c.config.JobTimeout}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// waitForJob polls fetch until done holds, inside a span named after the job kind.
func waitForJob[J any](ctx context.Context, c *Client, kind, id string, opts []WaitOption, fetch poll.FetchFunc[J], done func(J) bool) (J, error) {
	w := c.waitConfig(opts)

	ctx, span := tracer.Start(ctx, "wait "+kind)
	defer span.End()
	span.SetAttributes(
		attribute.String("firecrawl.job.id", id),
		attribute.String("firecrawl.job.kind", kind),
	)

	c.logger.Info().Str("job_id", id).Str("job_kind", kind).Dur("timeout", w.timeout).Msg("Waiting for job")

	job, err := poll.Until(ctx, poll.Config{
		JobID:    id,
		Kind:     kind,
		Interval: w.interval,
		Timeout:  w.timeout,
	}, fetch, done)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return job, err
	}
	return job, nil
}

// collectDocuments follows next and appends every page's documents to data.
// Pages are fetched with the same auth and retry policy as any other call.
func (c *Client) collectDocuments(ctx context.Context, endpoint, next string, data []Document) ([]Document, error) {
	fetcher := pagination.FetcherFunc[Document](func(ctx context.Context, url string) (*pagination.Page[Document], error) {
		resp, err := c.transport.execute(ctx, Request{
			Method:   http.MethodGet,
			Path:     url,
			Endpoint: endpoint,
		})
		if err != nil {
			return nil, err
		}
		return decodeJSON[pagination.Page[Document]](resp)
	})

	docs, err := pagination.Follow[Document](ctx, fetcher, next, data)
	if err != nil {
		return nil, err
	}
	if next != "" {
		c.logger.Info().Str("endpoint", endpoint).Int("documents", len(docs)).Msg("Collected paginated results")
	}
	return docs, nil
}
