package client

import (
	"context"
	"net/http"
	"strings"
)

// Browser session list filters.
const (
	BrowserStatusActive    = "active"
	BrowserStatusDestroyed = "destroyed"
)

// CreateBrowser opens a remote browser session. opts may be nil.
func (c *Client) CreateBrowser(ctx context.Context, opts *BrowserOptions) (*BrowserCreateResponse, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &BrowserOptions{}
	}
	resp, err := c.transport.execute(ctx, Request{Method: http.MethodPost, Path: "/v2/browser", Body: opts})
	if err != nil {
		return nil, err
	}
	return decodeJSON[BrowserCreateResponse](resp)
}

// ExecuteBrowser runs code in a session. The language defaults to bash.
func (c *Client) ExecuteBrowser(ctx context.Context, sessionID, code string, opts *ExecuteOptions) (*BrowserExecuteResponse, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, invalidf("session id is required")
	}
	if strings.TrimSpace(code) == "" {
		return nil, invalidf("code is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	body := map[string]any{"code": code, "language": LanguageBash}
	if opts != nil {
		if opts.Language != "" {
			body["language"] = opts.Language
		}
		if opts.Timeout != nil {
			body["timeout"] = *opts.Timeout
		}
	}

	resp, err := c.transport.execute(ctx, Request{
		Method:     http.MethodPost,
		Path:       "/v2/browser/{id}/execute",
		PathParams: map[string]string{"id": sessionID},
		Body:       body,
	})
	if err != nil {
		return nil, err
	}
	return decodeJSON[BrowserExecuteResponse](resp)
}

// DeleteBrowser closes a session.
func (c *Client) DeleteBrowser(ctx context.Context, sessionID string) (*BrowserDeleteResponse, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, invalidf("session id is required")
	}
	resp, err := c.transport.execute(ctx, Request{
		Method:     http.MethodDelete,
		Path:       "/v2/browser/{id}",
		PathParams: map[string]string{"id": sessionID},
	})
	if err != nil {
		return nil, err
	}
	return decodeJSON[BrowserDeleteResponse](resp)
}

// ListBrowsers lists sessions, optionally filtered by BrowserStatusActive or
// BrowserStatusDestroyed. An empty status lists all sessions.
func (c *Client) ListBrowsers(ctx context.Context, status string) (*BrowserListResponse, error) {
	req := Request{Method: http.MethodGet, Path: "/v2/browser"}
	if status != "" {
		req.Query = map[string]string{"status": status}
	}
	resp, err := c.transport.execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeJSON[BrowserListResponse](resp)
}
