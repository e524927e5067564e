package client

import (
	"context"
	"net/http"
	"strings"
)

// Map lists the urls of a site. Links returned by the service as plain
// strings are normalized to Link values.
func (c *Client) Map(ctx context.Context, url string, opts *MapOptions) (*MapData, error) {
	if strings.TrimSpace(url) == "" {
		return nil, invalidf("url is required")
	}

	body := map[string]any{"url": url}
	if opts != nil {
		if err := mergeOptions(body, opts); err != nil {
			return nil, err
		}
	}

	resp, err := c.transport.execute(ctx, Request{Method: http.MethodPost, Path: "/v2/map", Body: body})
	if err != nil {
		return nil, err
	}
	return decodeData[MapData](resp)
}

// Search runs a web search and optionally scrapes the results.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (*SearchData, error) {
	if strings.TrimSpace(query) == "" {
		return nil, invalidf("query is required")
	}

	body := map[string]any{"query": query}
	if opts != nil {
		if err := mergeOptions(body, opts); err != nil {
			return nil, err
		}
	}

	resp, err := c.transport.execute(ctx, Request{Method: http.MethodPost, Path: "/v2/search", Body: body})
	if err != nil {
		return nil, err
	}
	return decodeData[SearchData](resp)
}
