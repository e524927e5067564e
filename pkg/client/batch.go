package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	batchPath = "/v2/batch/scrape"
	batchJob  = "/v2/batch/scrape/{id}"

	// HeaderIdempotencyKey deduplicates batch scrape submissions.
	HeaderIdempotencyKey = "x-idempotency-key"
)

// NewIdempotencyKey returns a random key for BatchScrapeOptions.IdempotencyKey.
func NewIdempotencyKey() string {
	return uuid.NewString()
}

// StartBatchScrape starts a batch scrape job and returns without waiting.
func (c *Client) StartBatchScrape(ctx context.Context, urls []string, opts *BatchScrapeOptions) (*BatchScrapeResponse, error) {
	if len(urls) == 0 {
		return nil, invalidf("at least one url is required")
	}
	for i, u := range urls {
		if strings.TrimSpace(u) == "" {
			return nil, invalidf("url %d is empty", i)
		}
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	body, header, err := batchRequestBody(urls, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.execute(ctx, Request{
		Method: http.MethodPost,
		Path:   batchPath,
		Header: header,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	return decodeJSON[BatchScrapeResponse](resp)
}

// batchRequestBody builds the flattened body and the extra headers of a batch start.
func batchRequestBody(urls []string, opts *BatchScrapeOptions) (map[string]any, map[string]string, error) {
	body := map[string]any{"urls": urls}
	if opts == nil {
		return body, nil, nil
	}

	var header map[string]string
	if opts.IdempotencyKey != "" {
		header = map[string]string{HeaderIdempotencyKey: opts.IdempotencyKey}
	}

	if err := mergeOptions(body, opts); err != nil {
		return nil, nil, err
	}
	return flattenBatchBody(body), header, nil
}

// GetBatchScrapeStatus returns one snapshot of a batch scrape job.
func (c *Client) GetBatchScrapeStatus(ctx context.Context, id string) (*BatchScrapeJob, error) {
	if err := requireJobID(id); err != nil {
		return nil, err
	}
	resp, err := c.transport.execute(ctx, Request{
		Method:     http.MethodGet,
		Path:       batchJob,
		PathParams: map[string]string{"id": id},
	})
	if err != nil {
		return nil, err
	}
	return decodeJSON[BatchScrapeJob](resp)
}

// BatchScrape starts a batch scrape job, waits for it and collects every result page.
func (c *Client) BatchScrape(ctx context.Context, urls []string, opts *BatchScrapeOptions, wait ...WaitOption) (*BatchScrapeJob, error) {
	started, err := c.StartBatchScrape(ctx, urls, opts)
	if err != nil {
		return nil, err
	}
	return c.WaitForBatchScrape(ctx, started.ID, wait...)
}

// WaitForBatchScrape waits for an existing batch scrape job and collects every result page.
func (c *Client) WaitForBatchScrape(ctx context.Context, id string, wait ...WaitOption) (*BatchScrapeJob, error) {
	if err := requireJobID(id); err != nil {
		return nil, err
	}

	job, err := waitForJob[*BatchScrapeJob](ctx, c, KindBatchScrape, id, wait,
		func(ctx context.Context) (*BatchScrapeJob, error) { return c.GetBatchScrapeStatus(ctx, id) },
		func(j *BatchScrapeJob) bool { return j.Status.Done() })
	if err != nil {
		return nil, err
	}

	job.Data, err = c.collectDocuments(ctx, batchJob, job.Next, job.Data)
	if err != nil {
		return nil, err
	}
	job.Next = ""
	if job.ID == "" {
		job.ID = id
	}
	return job, nil
}

// CancelBatchScrape asks the service to stop a batch scrape job.
func (c *Client) CancelBatchScrape(ctx context.Context, id string) (*CancelResponse, error) {
	if err := requireJobID(id); err != nil {
		return nil, err
	}
	resp, err := c.transport.execute(ctx, Request{
		Method:     http.MethodDelete,
		Path:       batchJob,
		PathParams: map[string]string{"id": id},
	})
	if err != nil {
		return nil, err
	}
	return decodeJSON[CancelResponse](resp)
}
