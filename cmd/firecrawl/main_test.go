package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firecrawl/firecrawl-go/internal/testutil"
	"github.com/firecrawl/firecrawl-go/pkg/client"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI against mock and returns stdout.
func run(t *testing.T, mock *testutil.MockFirecrawl, args ...string) (string, error) {
	t.Helper()

	// Keep the user's real config file out of the tests.
	t.Setenv("HOME", t.TempDir())

	base := []string{
		"--api-key", "fc-test-key",
		"--api-url", mock.URL(),
		"--backoff-factor", "0",
		"--poll-interval", "10ms",
		"--log-level", "disabled",
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(base, args...))

	err := cmd.Execute()
	return out.String(), err
}

func newMock(t *testing.T) *testutil.MockFirecrawl {
	t.Helper()
	mock := testutil.NewMockFirecrawl()
	t.Cleanup(mock.Close)
	return mock
}

func TestScrape_PrintsDocument(t *testing.T) {
	mock := newMock(t)
	mock.SetJSON(http.MethodPost, "/v2/scrape", `{"success":true,"data":{"markdown":"# Example","metadata":{"title":"Example"}}}`)

	out, err := run(t, mock, "scrape", "https://example.com", "-f", "markdown,links", "--only-main-content")

	require.NoError(t, err)
	var doc client.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "# Example", doc.Markdown)

	req, _ := mock.LastRequest()
	assert.JSONEq(t, `{"url":"https://example.com","formats":["markdown","links"],"onlyMainContent":true}`, string(req.Body))
	assert.Equal(t, "firecrawl-cli/"+client.Version, req.Header.Get("User-Agent"))
}

func TestScrape_ConfigDefaultsUnderFlags(t *testing.T) {
	mock := newMock(t)
	mock.SetJSON(http.MethodPost, "/v2/scrape", `{"success":true,"data":{"markdown":"ok"}}`)

	cfg := filepath.Join(t.TempDir(), "firecrawl.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
scrape:
  formats: [html]
  only-main-content: true
  wait-for: 500
`), 0o600))

	_, err := run(t, mock, "--config", cfg, "scrape", "https://example.com", "-f", "markdown")

	require.NoError(t, err)
	req, _ := mock.LastRequest()
	assert.JSONEq(t, `{"url":"https://example.com","formats":["markdown"],"onlyMainContent":true,"waitFor":500}`, string(req.Body))
}

func TestMap_Table(t *testing.T) {
	mock := newMock(t)
	mock.SetJSON(http.MethodPost, "/v2/map", `{"success":true,"links":["https://a.com",{"url":"https://b.com","title":"Bee"}]}`)

	out, err := run(t, mock, "-o", "table", "map", "https://example.com", "--limit", "10")

	require.NoError(t, err)
	assert.Contains(t, out, "https://a.com")
	assert.Contains(t, out, "Bee")
	assert.Contains(t, out, "2 LINKS")
}

func TestCrawl_NoWait(t *testing.T) {
	mock := newMock(t)
	mock.SetJSON(http.MethodPost, "/v2/crawl", `{"success":true,"id":"crawl-9"}`)

	out, err := run(t, mock, "crawl", "https://example.com", "--no-wait", "--limit", "5")

	require.NoError(t, err)
	assert.Contains(t, out, `"crawl-9"`)
	assert.Equal(t, 1, mock.RequestCount())
}

func TestCrawl_Status(t *testing.T) {
	mock := newMock(t)
	mock.SetResponse(http.MethodGet, "/v2/crawl/crawl-9", testutil.NewJobStatusResponse("scraping", ""))

	out, err := run(t, mock, "crawl", "status", "crawl-9")

	require.NoError(t, err)
	assert.Contains(t, out, `"scraping"`)
}

func TestBatchScrape_AutoIdempotencyKey(t *testing.T) {
	mock := newMock(t)
	mock.SetJSON(http.MethodPost, "/v2/batch/scrape", `{"success":true,"id":"batch-1"}`)

	_, err := run(t, mock, "batch-scrape", "https://a.com", "https://b.com", "--idempotency-key", "auto", "--no-wait")

	require.NoError(t, err)
	req, _ := mock.LastRequest()
	_, parseErr := uuid.Parse(req.Header.Get(client.HeaderIdempotencyKey))
	assert.NoError(t, parseErr)
	assert.JSONEq(t, `{"urls":["https://a.com","https://b.com"]}`, string(req.Body))
}

func TestBrowserExec_ReadsStdin(t *testing.T) {
	mock := newMock(t)
	mock.SetJSON(http.MethodPost, "/v2/browser/sess-1/execute", `{"success":true,"stdout":"hi"}`)

	var out bytes.Buffer
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("echo hi"))
	cmd.SetArgs([]string{"--api-key", "k", "--api-url", mock.URL(), "--log-level", "disabled",
		"browser", "exec", "sess-1", "-", "-l", "bash"})

	require.NoError(t, cmd.Execute())
	req, _ := mock.LastRequest()
	assert.JSONEq(t, `{"code":"echo hi","language":"bash"}`, string(req.Body))
}

func TestUsageCredits_Table(t *testing.T) {
	mock := newMock(t)
	mock.SetJSON(http.MethodGet, "/v2/team/credit-usage", `{"success":true,"data":{"remainingCredits":420,"planCredits":500}}`)

	out, err := run(t, mock, "--output", "table", "usage", "credits")

	require.NoError(t, err)
	assert.Contains(t, out, "420")
	assert.Contains(t, out, "500")
}

func TestWaitOnRateLimit_RetriesOnce(t *testing.T) {
	mock := newMock(t)
	mock.SetSequence(http.MethodGet, "/v2/concurrency-check",
		testutil.NewRateLimitResponse("0"),
		testutil.NewOKResponse(`{"success":true,"data":{"concurrency":1,"maxConcurrency":2}}`),
	)

	out, err := run(t, mock, "--wait-on-rate-limit", "usage", "concurrency")

	require.NoError(t, err)
	assert.Contains(t, out, `"maxConcurrency": 2`)
	assert.Equal(t, 2, mock.RequestCount())
}

func TestWaitOnRateLimit_CoversSubcommands(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		args   []string
	}{
		{"crawl status", http.MethodGet, "/v2/crawl/c1", `{"status":"scraping","data":[]}`, []string{"crawl", "status", "c1"}},
		{"crawl cancel", http.MethodDelete, "/v2/crawl/c1", `{"success":true}`, []string{"crawl", "cancel", "c1"}},
		{"crawl errors", http.MethodGet, "/v2/crawl/c1/errors", `{"errors":[],"robotsBlocked":[]}`, []string{"crawl", "errors", "c1"}},
		{"batch status", http.MethodGet, "/v2/batch/scrape/b1", `{"status":"completed","data":[]}`, []string{"batch-scrape", "status", "b1"}},
		{"batch cancel", http.MethodDelete, "/v2/batch/scrape/b1", `{"success":true}`, []string{"batch-scrape", "cancel", "b1"}},
		{"agent status", http.MethodGet, "/v2/agent/a1", `{"status":"processing"}`, []string{"agent", "status", "a1"}},
		{"agent cancel", http.MethodDelete, "/v2/agent/a1", `{"success":true}`, []string{"agent", "cancel", "a1"}},
		{"browser exec", http.MethodPost, "/v2/browser/s1/execute", `{"success":true}`, []string{"browser", "exec", "s1", "ls"}},
		{"browser delete", http.MethodDelete, "/v2/browser/s1", `{"success":true}`, []string{"browser", "delete", "s1"}},
		{"usage credits", http.MethodGet, "/v2/team/credit-usage", `{"data":{"remainingCredits":1}}`, []string{"usage", "credits"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.SetSequence(tt.method, tt.path,
				testutil.NewRateLimitResponse("1"),
				testutil.NewOKResponse(tt.body),
			)

			_, err := run(t, mock, append([]string{"--wait-on-rate-limit"}, tt.args...)...)

			require.NoError(t, err)
			assert.Equal(t, 2, mock.CountFor(tt.method, tt.path))
		})
	}
}

func TestRateLimit_WithoutFlagFails(t *testing.T) {
	mock := newMock(t)
	mock.SetResponse(http.MethodGet, "/v2/concurrency-check", testutil.NewRateLimitResponse("0"))

	_, err := run(t, mock, "usage", "concurrency")

	assert.True(t, client.IsRateLimitError(err))
	assert.Equal(t, 1, mock.RequestCount())
}

func TestInvalidOutputFormat(t *testing.T) {
	mock := newMock(t)

	_, err := run(t, mock, "-o", "yaml", "usage", "credits")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
	assert.Zero(t, mock.RequestCount())
}

func TestMissingAPIKey(t *testing.T) {
	t.Setenv(client.EnvAPIKey, "")
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-level", "disabled", "usage", "credits"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key is required")
}
