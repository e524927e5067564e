package client

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// Executor runs the work behind the *Async operations.
type Executor interface {
	Go(func())
}

type goroutineExecutor struct{}

func (goroutineExecutor) Go(f func()) { go f() }

// PoolExecutor runs async operations on a bounded set of goroutines.
type PoolExecutor struct {
	pool *pool.Pool
}

// NewPoolExecutor returns an executor running at most n operations at once.
// Go blocks while the pool is full.
func NewPoolExecutor(n int) *PoolExecutor {
	if n < 1 {
		n = 1
	}
	return &PoolExecutor{pool: pool.New().WithMaxGoroutines(n)}
}

// Go schedules f on the pool.
func (p *PoolExecutor) Go(f func()) {
	p.pool.Go(f)
}

// Close waits for scheduled work to finish. The executor must not be used afterwards.
func (p *PoolExecutor) Close() {
	p.pool.Wait()
}

// Future is the eventual result of an async operation.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available or ctx is done. Giving up on the
// wait does not stop the operation; cancel the context passed to it instead.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func runAsync[T any](e Executor, fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	e.Go(func() {
		defer close(f.done)
		f.value, f.err = fn()
	})
	return f
}

// ScrapeAsync runs Scrape on the client's executor.
func (c *Client) ScrapeAsync(ctx context.Context, url string, opts *ScrapeOptions) *Future[*Document] {
	return runAsync(c.executor, func() (*Document, error) { return c.Scrape(ctx, url, opts) })
}

// CrawlAsync runs Crawl on the client's executor.
func (c *Client) CrawlAsync(ctx context.Context, url string, opts *CrawlOptions, wait ...WaitOption) *Future[*CrawlJob] {
	return runAsync(c.executor, func() (*CrawlJob, error) { return c.Crawl(ctx, url, opts, wait...) })
}

// BatchScrapeAsync runs BatchScrape on the client's executor.
func (c *Client) BatchScrapeAsync(ctx context.Context, urls []string, opts *BatchScrapeOptions, wait ...WaitOption) *Future[*BatchScrapeJob] {
	return runAsync(c.executor, func() (*BatchScrapeJob, error) { return c.BatchScrape(ctx, urls, opts, wait...) })
}

// MapAsync runs Map on the client's executor.
func (c *Client) MapAsync(ctx context.Context, url string, opts *MapOptions) *Future[*MapData] {
	return runAsync(c.executor, func() (*MapData, error) { return c.Map(ctx, url, opts) })
}

// SearchAsync runs Search on the client's executor.
func (c *Client) SearchAsync(ctx context.Context, query string, opts *SearchOptions) *Future[*SearchData] {
	return runAsync(c.executor, func() (*SearchData, error) { return c.Search(ctx, query, opts) })
}

// AgentAsync runs Agent on the client's executor.
func (c *Client) AgentAsync(ctx context.Context, opts AgentOptions, wait ...WaitOption) *Future[*AgentStatus] {
	return runAsync(c.executor, func() (*AgentStatus, error) { return c.Agent(ctx, opts, wait...) })
}

// CreateBrowserAsync runs CreateBrowser on the client's executor.
func (c *Client) CreateBrowserAsync(ctx context.Context, opts *BrowserOptions) *Future[*BrowserCreateResponse] {
	return runAsync(c.executor, func() (*BrowserCreateResponse, error) { return c.CreateBrowser(ctx, opts) })
}

// ExecuteBrowserAsync runs ExecuteBrowser on the client's executor.
func (c *Client) ExecuteBrowserAsync(ctx context.Context, sessionID, code string, opts *ExecuteOptions) *Future[*BrowserExecuteResponse] {
	return runAsync(c.executor, func() (*BrowserExecuteResponse, error) {
		return c.ExecuteBrowser(ctx, sessionID, code, opts)
	})
}

// DeleteBrowserAsync runs DeleteBrowser on the client's executor.
func (c *Client) DeleteBrowserAsync(ctx context.Context, sessionID string) *Future[*BrowserDeleteResponse] {
	return runAsync(c.executor, func() (*BrowserDeleteResponse, error) { return c.DeleteBrowser(ctx, sessionID) })
}

// ListBrowsersAsync runs ListBrowsers on the client's executor.
func (c *Client) ListBrowsersAsync(ctx context.Context, status string) *Future[*BrowserListResponse] {
	return runAsync(c.executor, func() (*BrowserListResponse, error) { return c.ListBrowsers(ctx, status) })
}
