package client

import (
	"context"
	"net/http"
	"strings"
)

// Scrape fetches one page and returns its content in the requested formats.
func (c *Client) Scrape(ctx context.Context, url string, opts *ScrapeOptions) (*Document, error) {
	if strings.TrimSpace(url) == "" {
		return nil, invalidf("url is required")
	}

	body := map[string]any{"url": url}
	if opts != nil {
		if err := mergeOptions(body, opts); err != nil {
			return nil, err
		}
	}

	resp, err := c.transport.execute(ctx, Request{Method: http.MethodPost, Path: "/v2/scrape", Body: body})
	if err != nil {
		return nil, err
	}
	return decodeData[Document](resp)
}
