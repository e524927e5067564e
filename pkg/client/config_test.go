package client

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("fc-key")

	if cfg.APIKey != "fc-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.APIURL != "https://api.firecrawl.dev" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Timeout != 300*time.Second {
		t.Errorf("Timeout = %v, want 300s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.BackoffFactor != 0.5 {
		t.Errorf("BackoffFactor = %v, want 0.5", cfg.BackoffFactor)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.PollInterval)
	}
	if cfg.JobTimeout != 300*time.Second {
		t.Errorf("JobTimeout = %v, want 300s", cfg.JobTimeout)
	}
}

func TestNew_Validation(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvAPIURL, "")

	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid config",
			config: DefaultConfig("fc-key"),
		},
		{
			name:        "missing api key",
			config:      DefaultConfig(""),
			expectError: true,
			errorMsg:    "api key is required",
		},
		{
			name: "negative retries",
			config: func() Config {
				c := DefaultConfig("fc-key")
				c.MaxRetries = -1
				return c
			}(),
			expectError: true,
			errorMsg:    "max_retries must be >= 0",
		},
		{
			name: "negative backoff factor",
			config: func() Config {
				c := DefaultConfig("fc-key")
				c.BackoffFactor = -0.5
				return c
			}(),
			expectError: true,
			errorMsg:    "backoff_factor must be >= 0",
		},
		{
			name: "relative api url",
			config: func() Config {
				c := DefaultConfig("fc-key")
				c.APIURL = "api.firecrawl.dev"
				return c
			}(),
			expectError: true,
			errorMsg:    "api url must be an absolute URL",
		},
		{
			name: "negative poll interval",
			config: func() Config {
				c := DefaultConfig("fc-key")
				c.PollInterval = -time.Second
				return c
			}(),
			expectError: true,
			errorMsg:    "must be positive",
		},
		{
			name: "zero retries allowed",
			config: func() Config {
				c := DefaultConfig("fc-key")
				c.MaxRetries = 0
				c.BackoffFactor = 0
				return c
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errorMsg)
				} else if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNew_EnvironmentFallback(t *testing.T) {
	t.Setenv(EnvAPIKey, "fc-from-env")
	t.Setenv(EnvAPIURL, "https://self-hosted.example.com/")

	c, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv() error = %v", err)
	}

	cfg := c.Config()
	if cfg.APIKey != "fc-from-env" {
		t.Errorf("APIKey = %q, want fc-from-env", cfg.APIKey)
	}
	if cfg.APIURL != "https://self-hosted.example.com" {
		t.Errorf("APIURL = %q, want trailing slash trimmed", cfg.APIURL)
	}
}

func TestNew_ExplicitValuesWinOverEnvironment(t *testing.T) {
	t.Setenv(EnvAPIKey, "fc-from-env")
	t.Setenv(EnvAPIURL, "https://self-hosted.example.com")

	cfg := DefaultConfig("fc-explicit")
	cfg.APIURL = "http://localhost:3002/"

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := c.Config().APIKey; got != "fc-explicit" {
		t.Errorf("APIKey = %q, want fc-explicit", got)
	}
	if got := c.Config().APIURL; got != "http://localhost:3002" {
		t.Errorf("APIURL = %q, want http://localhost:3002", got)
	}
}

func TestNew_ZeroValuesGetDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")

	c, err := New(Config{APIKey: "fc-key"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	cfg := c.Config()
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want default", cfg.APIURL)
	}
	if cfg.Timeout != 300*time.Second || cfg.PollInterval != 2*time.Second || cfg.JobTimeout != 300*time.Second {
		t.Errorf("durations not defaulted: %+v", cfg)
	}
	if !strings.HasPrefix(cfg.UserAgent, "firecrawl-go/") {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	// Zero retry settings are explicit choices, not missing values.
	if cfg.MaxRetries != 0 || cfg.BackoffFactor != 0 {
		t.Errorf("retry settings = %d/%v, want 0/0 kept", cfg.MaxRetries, cfg.BackoffFactor)
	}
}
