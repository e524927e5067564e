package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/firecrawl/firecrawl-go/pkg/client"
	"github.com/firecrawl/firecrawl-go/pkg/logging"
	"github.com/firecrawl/firecrawl-go/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	out     io.Writer
	client  *client.Client
	logger  zerolog.Logger
	metrics *http.Server
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "firecrawl",
		Short:         "Scrape, crawl and search the web through the Firecrawl API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	defaults := client.DefaultConfig("")
	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default is $HOME/.firecrawl.yaml)")
	pf.String("api-key", "", "Firecrawl API key (env FIRECRAWL_API_KEY)")
	pf.String("api-url", "", "Firecrawl API base URL (env FIRECRAWL_API_URL)")
	pf.Duration("timeout", defaults.Timeout, "per-request timeout")
	pf.Int("max-retries", defaults.MaxRetries, "retries after a failed attempt")
	pf.Float64("backoff-factor", defaults.BackoffFactor, "base of the exponential backoff, in seconds")
	pf.Duration("poll-interval", defaults.PollInterval, "sleep between two job status fetches")
	pf.Duration("job-timeout", defaults.JobTimeout, "how long to wait for a job before giving up")
	pf.String("log-level", string(logging.LevelWarn), "log level (debug, info, warn, error, disabled)")
	pf.Bool("pretty", false, "human-readable logs instead of JSON lines")
	pf.StringP("output", "o", outputJSON, "output format (json or table)")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	pf.Bool("wait-on-rate-limit", false, "retry once after the advertised wait when rate limited")
	cobra.CheckErr(a.v.BindPFlags(pf))

	root.AddCommand(
		newScrapeCmd(a),
		newCrawlCmd(a),
		newBatchScrapeCmd(a),
		newMapCmd(a),
		newSearchCmd(a),
		newAgentCmd(a),
		newBrowserCmd(a),
		newUsageCmd(a),
	)
	return root
}

// init layers flags over FIRECRAWL_* env vars over the config file, then sets
// up logging, metrics and the API client.
func (a *app) init(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()

	if err := a.readConfig(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.logger = logging.Setup(logging.Config{
		Level:  level,
		Pretty: a.v.GetBool("pretty"),
		Output: cmd.ErrOrStderr(),
	}).With().Str("component", "firecrawl-cli").Logger()

	switch a.v.GetString("output") {
	case outputJSON, outputTable:
	default:
		return fmt.Errorf("unknown output format %q (want json or table)", a.v.GetString("output"))
	}

	cfg := client.DefaultConfig(a.v.GetString("api-key"))
	if u := a.v.GetString("api-url"); u != "" {
		cfg.APIURL = u
	}
	cfg.Timeout = a.v.GetDuration("timeout")
	cfg.MaxRetries = a.v.GetInt("max-retries")
	cfg.BackoffFactor = a.v.GetFloat64("backoff-factor")
	cfg.PollInterval = a.v.GetDuration("poll-interval")
	cfg.JobTimeout = a.v.GetDuration("job-timeout")
	cfg.UserAgent = "firecrawl-cli/" + client.Version

	a.client, err = client.New(cfg)
	if err != nil {
		return err
	}

	if addr := a.v.GetString("metrics-addr"); addr != "" {
		a.serveMetrics(addr)
	}
	return nil
}

func (a *app) readConfig() error {
	a.v.SetEnvPrefix("FIRECRAWL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if file := a.v.GetString("config"); file != "" {
		a.v.SetConfigFile(file)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", file, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	a.v.AddConfigPath(home)
	a.v.SetConfigType("yaml")
	a.v.SetConfigName(".firecrawl")
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", filepath.Join(home, ".firecrawl.yaml"), err)
	}
	return nil
}

func (a *app) serveMetrics(addr string) {
	a.metrics = metrics.NewServer(addr)
	go func() {
		a.logger.Info().Str("addr", addr).Msg("Serving metrics")
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error().Err(err).Str("addr", addr).Msg("Metrics server failed")
		}
	}()
}

func (a *app) close() error {
	if a.metrics == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.metrics.Shutdown(ctx)
}

// rateLimited runs fn and, with --wait-on-rate-limit, runs it once more after
// the wait advertised by a rate-limit error.
func rateLimited[T any](ctx context.Context, a *app, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if err == nil || !a.v.GetBool("wait-on-rate-limit") {
		return v, err
	}
	wait, ok := client.RateLimitWait(err)
	if !ok {
		return v, err
	}

	a.logger.Warn().Dur("wait", wait).Msg("Rate limited, waiting before retry")
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return v, ctx.Err()
	case <-timer.C:
	}
	return fn(ctx)
}
