// Package pagination follows the "next" cursor of paged Firecrawl job results.
//
// Crawl and batch scrape status responses carry at most one page of documents
// plus an absolute URL for the following page. Pages must be fetched in order,
// since each one names its successor:
//
//	docs, err := pagination.Follow(ctx, fetcher, job.Next, job.Data)
//
// The follower:
//   - Appends page data in arrival order, never reorders or dedupes
//   - Stops when a page has an empty next cursor
//   - Tolerates empty pages that still point further
//   - Fails with ErrCursorLoop if the server repeats a cursor
//   - Returns the first fetch error as-is, together with the data gathered so far
package pagination
