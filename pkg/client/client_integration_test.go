//go:build integration

package client

import (
	"context"
	"os"
	"testing"
	"time"
)

// liveClient returns a client for the real service, skipping when no key is set.
func liveClient(t *testing.T) *Client {
	t.Helper()

	if os.Getenv(EnvAPIKey) == "" {
		t.Skipf("%s not set", EnvAPIKey)
	}
	c, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv() error = %v", err)
	}
	return c
}

func TestIntegration_Scrape(t *testing.T) {
	c := liveClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	doc, err := c.Scrape(ctx, "https://example.com", &ScrapeOptions{Formats: []Format{FormatMarkdown}})
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if doc.Markdown == "" {
		t.Error("expected markdown content")
	}
}

func TestIntegration_CrawlSmallSite(t *testing.T) {
	c := liveClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	job, err := c.Crawl(ctx, "https://example.com", &CrawlOptions{Limit: Int(2)}, WithPollInterval(3*time.Second))
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}
	if job.Status != StatusCompleted {
		t.Errorf("Status = %s, want completed", job.Status)
	}
	if len(job.Data) == 0 {
		t.Error("expected at least one document")
	}
}

func TestIntegration_CreditUsage(t *testing.T) {
	c := liveClient(t)

	usage, err := c.GetCreditUsage(context.Background())
	if err != nil {
		t.Fatalf("GetCreditUsage() error = %v", err)
	}
	if usage.RemainingCredits < 0 {
		t.Errorf("RemainingCredits = %d", usage.RemainingCredits)
	}
}
