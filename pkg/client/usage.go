package client

import (
	"context"
	"net/http"
)

// GetConcurrency reports the team's current and maximum job concurrency.
func (c *Client) GetConcurrency(ctx context.Context) (*ConcurrencyCheck, error) {
	resp, err := c.transport.execute(ctx, Request{Method: http.MethodGet, Path: "/v2/concurrency-check"})
	if err != nil {
		return nil, err
	}
	return decodeData[ConcurrencyCheck](resp)
}

// GetCreditUsage reports the team's remaining credits.
func (c *Client) GetCreditUsage(ctx context.Context) (*CreditUsage, error) {
	resp, err := c.transport.execute(ctx, Request{Method: http.MethodGet, Path: "/v2/team/credit-usage"})
	if err != nil {
		return nil, err
	}
	return decodeData[CreditUsage](resp)
}
