package pagination

import (
	"context"
	"errors"
	"time"

	"github.com/firecrawl/firecrawl-go/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrCursorLoop is returned when a page points at a cursor that was already fetched.
var ErrCursorLoop = errors.New("pagination: next cursor already visited")

var pagesFetched = promauto.NewCounter(prometheus.CounterOpts{
	Name: "firecrawl_pages_fetched_total",
	Help: "Total number of result pages fetched by following next cursors",
})

// Page is one page of job results.
type Page[T any] struct {
	Data []T    `json:"data"`
	Next string `json:"next,omitempty"`
}

// PageFetcher fetches the page behind an absolute next URL.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, url string) (*Page[T], error)
}

// FetcherFunc adapts a function to PageFetcher.
type FetcherFunc[T any] func(ctx context.Context, url string) (*Page[T], error)

// FetchPage calls f.
func (f FetcherFunc[T]) FetchPage(ctx context.Context, url string) (*Page[T], error) {
	return f(ctx, url)
}

// Follow fetches every page reachable from next and appends its data to acc.
// A blank next returns acc unchanged.
func Follow[T any](ctx context.Context, f PageFetcher[T], next string, acc []T) ([]T, error) {
	if next == "" {
		return acc, nil
	}

	logger := logging.NewLogger("firecrawl-pagination")
	start := time.Now()
	seen := make(map[string]struct{})
	pages := 0

	for next != "" {
		if _, dup := seen[next]; dup {
			logger.Warn().Str("next", next).Int("pages", pages).Msg("Cursor loop detected")
			return acc, ErrCursorLoop
		}
		seen[next] = struct{}{}

		if err := ctx.Err(); err != nil {
			return acc, err
		}

		page, err := f.FetchPage(ctx, next)
		if err != nil {
			logger.Warn().Err(err).Int("pages", pages).Msg("Page fetch failed")
			return acc, err
		}
		pages++
		pagesFetched.Inc()

		if page == nil {
			break
		}
		acc = append(acc, page.Data...)
		next = page.Next
	}

	logger.Debug().
		Int("pages", pages).
		Int("items", len(acc)).
		Dur("duration", time.Since(start)).
		Msg("Pagination complete")

	return acc, nil
}
