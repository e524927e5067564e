package client

import (
	"encoding/json"
	"fmt"
)

// JobStatus is the lifecycle state of a crawl, batch scrape or agent job.
type JobStatus string

// Known job states. Crawl and batch jobs report "scraping" while running,
// agent jobs report "processing".
const (
	StatusPending    JobStatus = "pending"
	StatusScraping   JobStatus = "scraping"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusCancelled  JobStatus = "cancelled"
)

// Done reports whether the job reached a terminal state.
func (s JobStatus) Done() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Document is the content extracted from one page.
type Document struct {
	Markdown       string           `json:"markdown,omitempty"`
	HTML           string           `json:"html,omitempty"`
	RawHTML        string           `json:"rawHtml,omitempty"`
	JSON           any              `json:"json,omitempty"`
	Summary        string           `json:"summary,omitempty"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
	Links          []string         `json:"links,omitempty"`
	Images         []string         `json:"images,omitempty"`
	Screenshot     string           `json:"screenshot,omitempty"`
	Attributes     []map[string]any `json:"attributes,omitempty"`
	Actions        map[string]any   `json:"actions,omitempty"`
	Warning        string           `json:"warning,omitempty"`
	ChangeTracking map[string]any   `json:"changeTracking,omitempty"`
	Branding       map[string]any   `json:"branding,omitempty"`
}

// Format selects one output representation of a scraped page.
// Plain formats encode as a string; the json format carries a prompt and/or schema.
type Format struct {
	Type   string
	Prompt string
	Schema map[string]any
}

// Plain output formats.
var (
	FormatMarkdown   = Format{Type: "markdown"}
	FormatHTML       = Format{Type: "html"}
	FormatRawHTML    = Format{Type: "rawHtml"}
	FormatLinks      = Format{Type: "links"}
	FormatImages     = Format{Type: "images"}
	FormatScreenshot = Format{Type: "screenshot"}
	FormatSummary    = Format{Type: "summary"}
)

// JSONFormat requests structured extraction guided by prompt and schema.
func JSONFormat(prompt string, schema map[string]any) Format {
	return Format{Type: "json", Prompt: prompt, Schema: schema}
}

// MarshalJSON implements json.Marshaler.
func (f Format) MarshalJSON() ([]byte, error) {
	if f.Prompt == "" && f.Schema == nil {
		return json.Marshal(f.Type)
	}
	return json.Marshal(struct {
		Type   string         `json:"type"`
		Prompt string         `json:"prompt,omitempty"`
		Schema map[string]any `json:"schema,omitempty"`
	}{f.Type, f.Prompt, f.Schema})
}

// UnmarshalJSON implements json.Unmarshaler and accepts both encodings.
func (f *Format) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*f = Format{Type: name}
		return nil
	}
	var obj struct {
		Type   string         `json:"type"`
		Prompt string         `json:"prompt"`
		Schema map[string]any `json:"schema"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("format must be a string or an object: %w", err)
	}
	*f = Format{Type: obj.Type, Prompt: obj.Prompt, Schema: obj.Schema}
	return nil
}

// LocationConfig sets the country and languages the page is fetched from.
type LocationConfig struct {
	Country   string   `json:"country,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

// WebhookConfig receives job events. URL is required.
type WebhookConfig struct {
	URL      string            `json:"url"`
	Headers  map[string]string `json:"headers,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Events   []string          `json:"events,omitempty"`
}

// CrawlResponse is returned when a crawl job is started.
type CrawlResponse struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// CrawlJob is a snapshot of a crawl job. After a wait completes Data holds
// the documents of every page and Next is empty.
type CrawlJob struct {
	ID          string     `json:"id,omitempty"`
	Status      JobStatus  `json:"status"`
	Total       int        `json:"total"`
	Completed   int        `json:"completed"`
	CreditsUsed int        `json:"creditsUsed,omitempty"`
	ExpiresAt   string     `json:"expiresAt,omitempty"`
	Next        string     `json:"next,omitempty"`
	Data        []Document `json:"data"`
}

// CrawlError is one failed page of a crawl.
type CrawlError struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp,omitempty"`
	URL       string `json:"url"`
	Code      string `json:"code,omitempty"`
	Error     string `json:"error"`
}

// CrawlErrors lists the pages a crawl could not scrape.
type CrawlErrors struct {
	Errors        []CrawlError `json:"errors"`
	RobotsBlocked []string     `json:"robotsBlocked"`
}

// BatchScrapeResponse is returned when a batch scrape job is started.
type BatchScrapeResponse struct {
	ID          string   `json:"id"`
	URL         string   `json:"url,omitempty"`
	InvalidURLs []string `json:"invalidURLs,omitempty"`
}

// BatchScrapeJob is a snapshot of a batch scrape job.
type BatchScrapeJob struct {
	ID          string     `json:"id,omitempty"`
	Status      JobStatus  `json:"status"`
	Total       int        `json:"total"`
	Completed   int        `json:"completed"`
	CreditsUsed int        `json:"creditsUsed,omitempty"`
	ExpiresAt   string     `json:"expiresAt,omitempty"`
	Next        string     `json:"next,omitempty"`
	Data        []Document `json:"data"`
}

// CancelResponse is returned by the cancel operations.
type CancelResponse struct {
	Success bool   `json:"success,omitempty"`
	Status  string `json:"status,omitempty"`
}

// Link is one url discovered by Map.
type Link struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts a bare url string as well as a link object.
func (l *Link) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*l = Link{URL: raw}
		return nil
	}
	type link Link
	var obj link
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("link must be a string or an object: %w", err)
	}
	*l = Link(obj)
	return nil
}

// MapData holds the urls of a site.
type MapData struct {
	Links []Link `json:"links"`
}

// SearchData groups search results by source.
type SearchData struct {
	Web    []map[string]any `json:"web,omitempty"`
	News   []map[string]any `json:"news,omitempty"`
	Images []map[string]any `json:"images,omitempty"`
}

// AgentResponse is returned when an agent job is started.
type AgentResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Error   string `json:"error,omitempty"`
}

// AgentStatus is a snapshot of an agent job. Data holds the raw result,
// shaped by the schema given at start.
type AgentStatus struct {
	Success     bool            `json:"success"`
	Status      JobStatus       `json:"status"`
	Error       string          `json:"error,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	Model       string          `json:"model,omitempty"`
	ExpiresAt   string          `json:"expiresAt,omitempty"`
	CreditsUsed int             `json:"creditsUsed,omitempty"`
}

// BrowserCreateResponse describes a new browser session.
type BrowserCreateResponse struct {
	Success     bool   `json:"success"`
	ID          string `json:"id"`
	CDPURL      string `json:"cdpUrl,omitempty"`
	LiveViewURL string `json:"liveViewUrl,omitempty"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
	Error       string `json:"error,omitempty"`
}

// BrowserExecuteResponse is the outcome of running code in a session.
type BrowserExecuteResponse struct {
	Success  bool   `json:"success"`
	Stdout   string `json:"stdout,omitempty"`
	Result   string `json:"result,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	ExitCode *int   `json:"exitCode,omitempty"`
	Killed   bool   `json:"killed,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BrowserDeleteResponse reports the billing of a closed session.
type BrowserDeleteResponse struct {
	Success           bool   `json:"success"`
	SessionDurationMs int64  `json:"sessionDurationMs,omitempty"`
	CreditsBilled     int    `json:"creditsBilled,omitempty"`
	Error             string `json:"error,omitempty"`
}

// BrowserSession is one entry of ListBrowsers.
type BrowserSession struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	CDPURL        string `json:"cdpUrl,omitempty"`
	LiveViewURL   string `json:"liveViewUrl,omitempty"`
	StreamWebView bool   `json:"streamWebView"`
	CreatedAt     string `json:"createdAt,omitempty"`
	LastActivity  string `json:"lastActivity,omitempty"`
}

// BrowserListResponse lists browser sessions.
type BrowserListResponse struct {
	Success  bool             `json:"success"`
	Sessions []BrowserSession `json:"sessions"`
	Error    string           `json:"error,omitempty"`
}

// ConcurrencyCheck reports the team's current and maximum concurrency.
type ConcurrencyCheck struct {
	Concurrency    int `json:"concurrency"`
	MaxConcurrency int `json:"maxConcurrency"`
}

// CreditUsage reports the team's credit balance.
type CreditUsage struct {
	RemainingCredits   int    `json:"remainingCredits"`
	PlanCredits        int    `json:"planCredits,omitempty"`
	BillingPeriodStart string `json:"billingPeriodStart,omitempty"`
	BillingPeriodEnd   string `json:"billingPeriodEnd,omitempty"`
}

// Bool returns a pointer to v, for optional option fields.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v, for optional option fields.
func Int(v int) *int { return &v }

// Int64 returns a pointer to v, for optional option fields.
func Int64(v int64) *int64 { return &v }
