package client

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeAsync(t *testing.T) {
	mock := newMock(t)
	mock.SetJSON(http.MethodPost, "/v2/scrape", `{"success":true,"data":{"markdown":"# Hi"}}`)
	c := newTestClient(t, mock)

	fut := c.ScrapeAsync(context.Background(), "https://example.com", nil)

	select {
	case <-fut.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("future never completed")
	}
	doc, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "# Hi", doc.Markdown)
}

func TestFuture_WaitCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	fut := runAsync(goroutineExecutor{}, func() (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fut.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPoolExecutor_BoundsConcurrency(t *testing.T) {
	const limit = 2
	p := NewPoolExecutor(limit)

	var running, peak atomic.Int32
	var mu sync.Mutex
	futures := make([]*Future[int], 0, 6)
	for i := 0; i < 6; i++ {
		i := i
		futures = append(futures, runAsync(p, func() (int, error) {
			n := running.Add(1)
			mu.Lock()
			if n > peak.Load() {
				peak.Store(n)
			}
			mu.Unlock()
			time.Sleep(20 * time.Millisecond)
			running.Add(-1)
			return i, nil
		}))
	}
	p.Close()

	for i, f := range futures {
		v, err := f.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	assert.LessOrEqual(t, peak.Load(), int32(limit))
}

func TestClient_UsesConfiguredExecutor(t *testing.T) {
	mock := newMock(t)
	mock.SetJSON(http.MethodGet, "/v2/browser", `{"success":true,"sessions":[]}`)

	p := NewPoolExecutor(1)
	c := newTestClient(t, mock, func(cfg *Config) { cfg.Executor = p })

	fut := c.ListBrowsersAsync(context.Background(), "")
	p.Close()

	resp, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Success)
}
