package client

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Environment variables consulted by New when the Config leaves a value empty.
const (
	EnvAPIKey = "FIRECRAWL_API_KEY"
	EnvAPIURL = "FIRECRAWL_API_URL"
)

// DefaultAPIURL is the production Firecrawl API.
const DefaultAPIURL = "https://api.firecrawl.dev"

// Version is reported in the User-Agent header.
const Version = "2.0.0"

// Config holds the client configuration. Start from DefaultConfig: New
// fills empty durations, URL and User-Agent, but a zero MaxRetries or
// BackoffFactor is taken literally (no retries, no delay between them).
type Config struct {
	// APIKey is sent as a bearer token on every request (REQUIRED).
	// Falls back to FIRECRAWL_API_KEY.
	APIKey string

	// APIURL is the API base URL. Falls back to FIRECRAWL_API_URL, then DefaultAPIURL.
	APIURL string

	// Timeout bounds a single HTTP exchange.
	Timeout time.Duration

	// Retry. Zero is a valid value for both and is not replaced by a default.
	MaxRetries    int     // Attempts after the first one
	BackoffFactor float64 // First backoff delay in seconds, doubled per retry

	// Job waiting
	PollInterval time.Duration
	JobTimeout   time.Duration

	// HTTPClient supplies the connection pool. Optional.
	HTTPClient *http.Client

	// Executor runs the *Async operations. Optional; defaults to one goroutine per call.
	Executor Executor

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// DefaultConfig returns the default configuration for apiKey.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:        apiKey,
		APIURL:        DefaultAPIURL,
		Timeout:       300 * time.Second,
		MaxRetries:    3,
		BackoffFactor: 0.5,
		PollInterval:  2 * time.Second,
		JobTimeout:    300 * time.Second,
		UserAgent:     "firecrawl-go/" + Version,
	}
}

// resolve fills empty values from the environment and the defaults.
func (c Config) resolve() Config {
	defaults := DefaultConfig("")

	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvAPIKey)
	}
	c.APIKey = strings.TrimSpace(c.APIKey)

	if c.APIURL == "" || c.APIURL == DefaultAPIURL {
		if env := strings.TrimSpace(os.Getenv(EnvAPIURL)); env != "" {
			c.APIURL = env
		}
	}
	if c.APIURL == "" {
		c.APIURL = defaults.APIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")

	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.PollInterval == 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.JobTimeout == 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaults.UserAgent
	}
	return c
}

// validate checks a resolved config.
func (c Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required (set Config.APIKey or %s)", EnvAPIKey)
	}

	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api url must be an absolute URL (got %q)", c.APIURL)
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", c.MaxRetries)
	}
	if c.BackoffFactor < 0 {
		return fmt.Errorf("backoff_factor must be >= 0 (got %g)", c.BackoffFactor)
	}
	if c.Timeout < 0 || c.PollInterval < 0 || c.JobTimeout < 0 {
		return fmt.Errorf("timeout, poll_interval and job_timeout must be positive")
	}
	return nil
}
