// Package client is the Go SDK for the Firecrawl web scraping API.
//
// Every operation is a blocking call taking a context. Long-running jobs
// (crawl, batch scrape, agent) come in three flavours: Start* returns the
// job id immediately, Get*Status fetches one snapshot, and the bare verb
// (Crawl, BatchScrape, Agent) waits for the job and, where results are
// paged, collects every page before returning.
//
//	c, err := client.NewFromEnv()
//	if err != nil {
//		return err
//	}
//	doc, err := c.Scrape(ctx, "https://example.com", &client.ScrapeOptions{
//		Formats: []client.Format{client.FormatMarkdown},
//	})
package client

import (
	"context"
	"fmt"

	"github.com/firecrawl/firecrawl-go/pkg/logging"
	"github.com/rs/zerolog"
)

// Client is the Firecrawl API client. It is safe for concurrent use.
type Client struct {
	config    Config
	transport *transport
	executor  Executor
	logger    zerolog.Logger
}

// New creates a new client. Empty APIKey and APIURL fall back to the
// FIRECRAWL_API_KEY and FIRECRAWL_API_URL environment variables.
func New(cfg Config) (*Client, error) {
	cfg = cfg.resolve()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewLogger("firecrawl-client").With().Str("api_url", cfg.APIURL).Logger()

	executor := cfg.Executor
	if executor == nil {
		executor = goroutineExecutor{}
	}

	return &Client{
		config:    cfg,
		transport: newTransport(cfg, logger),
		executor:  executor,
		logger:    logger,
	}, nil
}

// NewFromEnv creates a client configured from the environment only.
func NewFromEnv() (*Client, error) {
	return New(DefaultConfig(""))
}

// Config returns the resolved configuration.
func (c *Client) Config() Config {
	return c.config
}

// Do executes a raw API request with the client's auth and retry policy.
// It is the escape hatch for endpoints without a typed wrapper.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	return c.transport.execute(ctx, req)
}
