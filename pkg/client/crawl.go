package client

import (
	"context"
	"net/http"
	"strings"
)

const (
	crawlPath = "/v2/crawl"
	crawlJob  = "/v2/crawl/{id}"
)

// StartCrawl starts a crawl job and returns without waiting.
func (c *Client) StartCrawl(ctx context.Context, url string, opts *CrawlOptions) (*CrawlResponse, error) {
	if strings.TrimSpace(url) == "" {
		return nil, invalidf("url is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	body := map[string]any{"url": url}
	if opts != nil {
		if err := mergeOptions(body, opts); err != nil {
			return nil, err
		}
	}

	resp, err := c.transport.execute(ctx, Request{Method: http.MethodPost, Path: crawlPath, Body: body})
	if err != nil {
		return nil, err
	}
	return decodeJSON[CrawlResponse](resp)
}

// GetCrawlStatus returns one snapshot of a crawl job, holding at most one
// page of documents.
func (c *Client) GetCrawlStatus(ctx context.Context, id string) (*CrawlJob, error) {
	if err := requireJobID(id); err != nil {
		return nil, err
	}
	resp, err := c.transport.execute(ctx, Request{
		Method:     http.MethodGet,
		Path:       crawlJob,
		PathParams: map[string]string{"id": id},
	})
	if err != nil {
		return nil, err
	}
	return decodeJSON[CrawlJob](resp)
}

// Crawl starts a crawl job, waits for it and collects every result page.
func (c *Client) Crawl(ctx context.Context, url string, opts *CrawlOptions, wait ...WaitOption) (*CrawlJob, error) {
	started, err := c.StartCrawl(ctx, url, opts)
	if err != nil {
		return nil, err
	}
	return c.WaitForCrawl(ctx, started.ID, wait...)
}

// WaitForCrawl waits for an existing crawl job and collects every result page.
// Failed and cancelled jobs are returned without error; check Status.
func (c *Client) WaitForCrawl(ctx context.Context, id string, wait ...WaitOption) (*CrawlJob, error) {
	if err := requireJobID(id); err != nil {
		return nil, err
	}

	job, err := waitForJob[*CrawlJob](ctx, c, KindCrawl, id, wait,
		func(ctx context.Context) (*CrawlJob, error) { return c.GetCrawlStatus(ctx, id) },
		func(j *CrawlJob) bool { return j.Status.Done() })
	if err != nil {
		return nil, err
	}

	job.Data, err = c.collectDocuments(ctx, crawlJob, job.Next, job.Data)
	if err != nil {
		return nil, err
	}
	job.Next = ""
	if job.ID == "" {
		job.ID = id
	}
	return job, nil
}

// CancelCrawl asks the service to stop a crawl job.
func (c *Client) CancelCrawl(ctx context.Context, id string) (*CancelResponse, error) {
	if err := requireJobID(id); err != nil {
		return nil, err
	}
	resp, err := c.transport.execute(ctx, Request{
		Method:     http.MethodDelete,
		Path:       crawlJob,
		PathParams: map[string]string{"id": id},
	})
	if err != nil {
		return nil, err
	}
	return decodeJSON[CancelResponse](resp)
}

// GetCrawlErrors lists the pages a crawl failed to scrape.
func (c *Client) GetCrawlErrors(ctx context.Context, id string) (*CrawlErrors, error) {
	if err := requireJobID(id); err != nil {
		return nil, err
	}
	resp, err := c.transport.execute(ctx, Request{
		Method:     http.MethodGet,
		Path:       "/v2/crawl/{id}/errors",
		PathParams: map[string]string{"id": id},
	})
	if err != nil {
		return nil, err
	}
	return decodeData[CrawlErrors](resp)
}

func requireJobID(id string) error {
	if strings.TrimSpace(id) == "" {
		return invalidf("job id is required")
	}
	return nil
}
