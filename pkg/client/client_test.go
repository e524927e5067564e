package client

import (
	"testing"
	"time"

	"github.com/firecrawl/firecrawl-go/internal/testutil"
)

// newTestClient returns a client pointed at mock with instant retries and a
// short poll interval.
func newTestClient(t *testing.T, mock *testutil.MockFirecrawl, mutate ...func(*Config)) *Client {
	t.Helper()

	cfg := DefaultConfig("fc-test-key")
	cfg.APIURL = mock.URL()
	cfg.BackoffFactor = 0
	cfg.PollInterval = 10 * time.Millisecond
	cfg.JobTimeout = 5 * time.Second
	for _, m := range mutate {
		m(&cfg)
	}

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func newMock(t *testing.T) *testutil.MockFirecrawl {
	t.Helper()
	mock := testutil.NewMockFirecrawl()
	t.Cleanup(mock.Close)
	return mock
}
