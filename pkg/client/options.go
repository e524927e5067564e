package client

import "strings"

// Pointer fields are optional and omitted when nil; use Bool, Int and Int64.

// ScrapeOptions configure how a single page is fetched and rendered.
type ScrapeOptions struct {
	Formats             []Format          `json:"formats,omitempty"`
	Headers             map[string]string `json:"headers,omitempty"`
	IncludeTags         []string          `json:"includeTags,omitempty"`
	ExcludeTags         []string          `json:"excludeTags,omitempty"`
	OnlyMainContent     *bool             `json:"onlyMainContent,omitempty"`
	Timeout             *int              `json:"timeout,omitempty"`
	WaitFor             *int              `json:"waitFor,omitempty"`
	Mobile              *bool             `json:"mobile,omitempty"`
	Parsers             []string          `json:"parsers,omitempty"`
	Actions             []map[string]any  `json:"actions,omitempty"`
	Location            *LocationConfig   `json:"location,omitempty"`
	SkipTLSVerification *bool             `json:"skipTlsVerification,omitempty"`
	BlockAds            *bool             `json:"blockAds,omitempty"`
	Proxy               string            `json:"proxy,omitempty"`
	MaxAge              *int64            `json:"maxAge,omitempty"`
	StoreInCache        *bool             `json:"storeInCache,omitempty"`
	Integration         string            `json:"integration,omitempty"`
}

// CrawlOptions configure a crawl job.
type CrawlOptions struct {
	Prompt                 string         `json:"prompt,omitempty"`
	ExcludePaths           []string       `json:"excludePaths,omitempty"`
	IncludePaths           []string       `json:"includePaths,omitempty"`
	MaxDiscoveryDepth      *int           `json:"maxDiscoveryDepth,omitempty"`
	Sitemap                string         `json:"sitemap,omitempty"`
	IgnoreQueryParameters  *bool          `json:"ignoreQueryParameters,omitempty"`
	DeduplicateSimilarURLs *bool          `json:"deduplicateSimilarURLs,omitempty"`
	Limit                  *int           `json:"limit,omitempty"`
	CrawlEntireDomain      *bool          `json:"crawlEntireDomain,omitempty"`
	AllowExternalLinks     *bool          `json:"allowExternalLinks,omitempty"`
	AllowSubdomains        *bool          `json:"allowSubdomains,omitempty"`
	Delay                  *int           `json:"delay,omitempty"`
	MaxConcurrency         *int           `json:"maxConcurrency,omitempty"`
	Webhook                *WebhookConfig `json:"webhook,omitempty"`
	ScrapeOptions          *ScrapeOptions `json:"scrapeOptions,omitempty"`
	RegexOnFullURL         *bool          `json:"regexOnFullURL,omitempty"`
	ZeroDataRetention      *bool          `json:"zeroDataRetention,omitempty"`
	Integration            string         `json:"integration,omitempty"`
}

// BatchScrapeOptions configure a batch scrape job. Scrape options are sent
// flattened at the top level of the request; batch-level fields take precedence.
type BatchScrapeOptions struct {
	Options           *ScrapeOptions `json:"options,omitempty"`
	Webhook           *WebhookConfig `json:"webhook,omitempty"`
	AppendToID        string         `json:"appendToId,omitempty"`
	IgnoreInvalidURLs *bool          `json:"ignoreInvalidURLs,omitempty"`
	MaxConcurrency    *int           `json:"maxConcurrency,omitempty"`
	ZeroDataRetention *bool          `json:"zeroDataRetention,omitempty"`
	Integration       string         `json:"integration,omitempty"`

	// IdempotencyKey is sent as the x-idempotency-key header, never in the body.
	IdempotencyKey string `json:"-"`
}

// MapOptions configure url discovery.
type MapOptions struct {
	Search                string          `json:"search,omitempty"`
	Sitemap               string          `json:"sitemap,omitempty"`
	IncludeSubdomains     *bool           `json:"includeSubdomains,omitempty"`
	IgnoreQueryParameters *bool           `json:"ignoreQueryParameters,omitempty"`
	Limit                 *int            `json:"limit,omitempty"`
	Timeout               *int            `json:"timeout,omitempty"`
	Integration           string          `json:"integration,omitempty"`
	Location              *LocationConfig `json:"location,omitempty"`
}

// SearchOptions configure a web search.
type SearchOptions struct {
	Sources           []string       `json:"sources,omitempty"`
	Categories        []string       `json:"categories,omitempty"`
	Limit             *int           `json:"limit,omitempty"`
	TBS               string         `json:"tbs,omitempty"`
	Location          string         `json:"location,omitempty"`
	IgnoreInvalidURLs *bool          `json:"ignoreInvalidURLs,omitempty"`
	Timeout           *int           `json:"timeout,omitempty"`
	ScrapeOptions     *ScrapeOptions `json:"scrapeOptions,omitempty"`
	Integration       string         `json:"integration,omitempty"`
}

// AgentOptions configure an agent job. Prompt is required.
type AgentOptions struct {
	URLs                  []string       `json:"urls,omitempty"`
	Prompt                string         `json:"prompt"`
	Schema                map[string]any `json:"schema,omitempty"`
	Integration           string         `json:"integration,omitempty"`
	MaxCredits            *int           `json:"maxCredits,omitempty"`
	StrictConstrainToURLs *bool          `json:"strictConstrainToURLs,omitempty"`
	Model                 string         `json:"model,omitempty"`
	Webhook               *WebhookConfig `json:"webhook,omitempty"`
}

// BrowserOptions configure a new browser session.
type BrowserOptions struct {
	TTL           *int  `json:"ttl,omitempty"`         // seconds, 30-3600
	ActivityTTL   *int  `json:"activityTtl,omitempty"` // seconds, 10-3600
	StreamWebView *bool `json:"streamWebView,omitempty"`
}

// ExecuteOptions configure code execution in a browser session.
type ExecuteOptions struct {
	Language string `json:"language,omitempty"` // bash (default), node or python
	Timeout  *int   `json:"timeout,omitempty"`  // seconds, 1-300
}

// Browser execution languages.
const (
	LanguageBash   = "bash"
	LanguageNode   = "node"
	LanguagePython = "python"
)

func (w *WebhookConfig) validate() error {
	if w != nil && strings.TrimSpace(w.URL) == "" {
		return invalidf("webhook url is required")
	}
	return nil
}

func (o *CrawlOptions) validate() error {
	if o == nil {
		return nil
	}
	return o.Webhook.validate()
}

func (o *BatchScrapeOptions) validate() error {
	if o == nil {
		return nil
	}
	return o.Webhook.validate()
}

func (o *AgentOptions) validate() error {
	if strings.TrimSpace(o.Prompt) == "" {
		return invalidf("agent prompt is required")
	}
	return o.Webhook.validate()
}

func (o *BrowserOptions) validate() error {
	if o == nil {
		return nil
	}
	if o.TTL != nil && (*o.TTL < 30 || *o.TTL > 3600) {
		return invalidf("ttl must be between 30 and 3600 seconds (got %d)", *o.TTL)
	}
	if o.ActivityTTL != nil && (*o.ActivityTTL < 10 || *o.ActivityTTL > 3600) {
		return invalidf("activityTtl must be between 10 and 3600 seconds (got %d)", *o.ActivityTTL)
	}
	return nil
}

func (o *ExecuteOptions) validate() error {
	if o == nil {
		return nil
	}
	switch o.Language {
	case "", LanguageBash, LanguageNode, LanguagePython:
	default:
		return invalidf("language must be bash, node or python (got %q)", o.Language)
	}
	if o.Timeout != nil && (*o.Timeout < 1 || *o.Timeout > 300) {
		return invalidf("timeout must be between 1 and 300 seconds (got %d)", *o.Timeout)
	}
	return nil
}
