package client

import (
	"context"
	"net/http"
)

const agentJob = "/v2/agent/{id}"

// StartAgent starts an agent job and returns without waiting.
func (c *Client) StartAgent(ctx context.Context, opts AgentOptions) (*AgentResponse, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	resp, err := c.transport.execute(ctx, Request{Method: http.MethodPost, Path: "/v2/agent", Body: opts})
	if err != nil {
		return nil, err
	}
	return decodeJSON[AgentResponse](resp)
}

// GetAgentStatus returns one snapshot of an agent job.
func (c *Client) GetAgentStatus(ctx context.Context, id string) (*AgentStatus, error) {
	if err := requireJobID(id); err != nil {
		return nil, err
	}
	resp, err := c.transport.execute(ctx, Request{
		Method:     http.MethodGet,
		Path:       agentJob,
		PathParams: map[string]string{"id": id},
	})
	if err != nil {
		return nil, err
	}
	return decodeJSON[AgentStatus](resp)
}

// Agent starts an agent job and waits for it. Agent results are not paged.
func (c *Client) Agent(ctx context.Context, opts AgentOptions, wait ...WaitOption) (*AgentStatus, error) {
	started, err := c.StartAgent(ctx, opts)
	if err != nil {
		return nil, err
	}
	if started.ID == "" {
		return nil, ErrMissingJobID
	}
	return c.WaitForAgent(ctx, started.ID, wait...)
}

// WaitForAgent waits for an existing agent job.
func (c *Client) WaitForAgent(ctx context.Context, id string, wait ...WaitOption) (*AgentStatus, error) {
	if err := requireJobID(id); err != nil {
		return nil, err
	}
	return waitForJob[*AgentStatus](ctx, c, KindAgent, id, wait,
		func(ctx context.Context) (*AgentStatus, error) { return c.GetAgentStatus(ctx, id) },
		func(s *AgentStatus) bool { return s.Status.Done() })
}

// CancelAgent asks the service to stop an agent job.
func (c *Client) CancelAgent(ctx context.Context, id string) (*CancelResponse, error) {
	if err := requireJobID(id); err != nil {
		return nil, err
	}
	resp, err := c.transport.execute(ctx, Request{
		Method:     http.MethodDelete,
		Path:       agentJob,
		PathParams: map[string]string{"id": id},
	})
	if err != nil {
		return nil, err
	}
	return decodeJSON[CancelResponse](resp)
}
