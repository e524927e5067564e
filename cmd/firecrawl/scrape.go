package main

import (
	"context"
	"encoding/json"
	"fmt"

	"dario.cat/mergo"
	"github.com/firecrawl/firecrawl-go/pkg/client"
	"github.com/spf13/cobra"
)

// scrapeDefaults is the scrape section of the config file. Values set here
// apply to every scrape, crawl and batch-scrape unless a flag overrides them.
type scrapeDefaults struct {
	Formats         []string          `mapstructure:"formats"`
	OnlyMainContent *bool             `mapstructure:"only-main-content"`
	IncludeTags     []string          `mapstructure:"include-tags"`
	ExcludeTags     []string          `mapstructure:"exclude-tags"`
	WaitFor         *int              `mapstructure:"wait-for"`
	Timeout         *int              `mapstructure:"timeout"`
	Mobile          *bool             `mapstructure:"mobile"`
	BlockAds        *bool             `mapstructure:"block-ads"`
	Proxy           string            `mapstructure:"proxy"`
	Headers         map[string]string `mapstructure:"headers"`
}

func (d scrapeDefaults) options() client.ScrapeOptions {
	return client.ScrapeOptions{
		Formats:         formats(d.Formats),
		OnlyMainContent: d.OnlyMainContent,
		IncludeTags:     d.IncludeTags,
		ExcludeTags:     d.ExcludeTags,
		WaitFor:         d.WaitFor,
		Timeout:         d.Timeout,
		Mobile:          d.Mobile,
		BlockAds:        d.BlockAds,
		Proxy:           d.Proxy,
		Headers:         d.Headers,
	}
}

// scrapeFlags are the scrape option flags shared by scrape, crawl and batch-scrape.
type scrapeFlags struct {
	formats         []string
	onlyMainContent bool
	includeTags     []string
	excludeTags     []string
	waitFor         int
	timeoutMs       int
	mobile          bool
	blockAds        bool
	proxy           string
	jsonPrompt      string
}

func (f *scrapeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringSliceVarP(&f.formats, "format", "f", nil, "output formats (markdown, html, rawHtml, links, images, screenshot, summary)")
	fs.BoolVar(&f.onlyMainContent, "only-main-content", false, "strip headers, navigation and footers")
	fs.StringSliceVar(&f.includeTags, "include-tags", nil, "only keep these tags")
	fs.StringSliceVar(&f.excludeTags, "exclude-tags", nil, "drop these tags")
	fs.IntVar(&f.waitFor, "wait-for", 0, "milliseconds to wait for the page before scraping")
	fs.IntVar(&f.timeoutMs, "scrape-timeout", 0, "server-side scrape timeout in milliseconds")
	fs.BoolVar(&f.mobile, "mobile", false, "emulate a mobile device")
	fs.BoolVar(&f.blockAds, "block-ads", false, "block ads and cookie popups")
	fs.StringVar(&f.proxy, "proxy", "", "proxy type (basic, stealth, auto)")
	fs.StringVar(&f.jsonPrompt, "json-prompt", "", "add a json format extracted with this prompt")
}

// fromFlags returns the options whose flags were set on the command line.
func (f *scrapeFlags) fromFlags(cmd *cobra.Command) client.ScrapeOptions {
	changed := cmd.Flags().Changed
	var opts client.ScrapeOptions

	opts.Formats = formats(f.formats)
	if f.jsonPrompt != "" {
		opts.Formats = append(opts.Formats, client.JSONFormat(f.jsonPrompt, nil))
	}
	opts.IncludeTags = f.includeTags
	opts.ExcludeTags = f.excludeTags
	opts.Proxy = f.proxy
	if changed("only-main-content") {
		opts.OnlyMainContent = client.Bool(f.onlyMainContent)
	}
	if changed("wait-for") {
		opts.WaitFor = client.Int(f.waitFor)
	}
	if changed("scrape-timeout") {
		opts.Timeout = client.Int(f.timeoutMs)
	}
	if changed("mobile") {
		opts.Mobile = client.Bool(f.mobile)
	}
	if changed("block-ads") {
		opts.BlockAds = client.Bool(f.blockAds)
	}
	return opts
}

// scrapeOptions merges the command line flags over the config file defaults.
// It returns nil when neither sets anything.
func (a *app) scrapeOptions(cmd *cobra.Command, f *scrapeFlags) (*client.ScrapeOptions, error) {
	var defaults scrapeDefaults
	if err := a.v.UnmarshalKey("scrape", &defaults); err != nil {
		return nil, fmt.Errorf("config scrape section: %w", err)
	}

	opts := f.fromFlags(cmd)
	if err := mergo.Merge(&opts, defaults.options()); err != nil {
		return nil, fmt.Errorf("merge scrape defaults: %w", err)
	}

	return nonEmpty(opts), nil
}

func nonEmpty(opts client.ScrapeOptions) *client.ScrapeOptions {
	if b, err := json.Marshal(opts); err == nil && string(b) == "{}" {
		return nil
	}
	return &opts
}

func formats(names []string) []client.Format {
	if len(names) == 0 {
		return nil
	}
	out := make([]client.Format, len(names))
	for i, n := range names {
		out[i] = client.Format{Type: n}
	}
	return out
}

func newScrapeCmd(a *app) *cobra.Command {
	sf := &scrapeFlags{}
	cmd := &cobra.Command{
		Use:   "scrape URL",
		Short: "Scrape a single page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.scrapeOptions(cmd, sf)
			if err != nil {
				return err
			}
			doc, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.Document, error) {
				return a.client.Scrape(ctx, args[0], opts)
			})
			if err != nil {
				return err
			}
			return a.printJSON(doc)
		},
	}
	sf.register(cmd)
	return cmd
}
