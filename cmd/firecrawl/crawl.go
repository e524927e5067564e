package main

import (
	"context"

	"github.com/firecrawl/firecrawl-go/pkg/client"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newCrawlCmd(a *app) *cobra.Command {
	var (
		noWait          bool
		limit           int
		maxDepth        int
		prompt          string
		includePaths    []string
		excludePaths    []string
		allowSubdomains bool
		allowExternal   bool
		entireDomain    bool
	)
	sf := &scrapeFlags{}

	cmd := &cobra.Command{
		Use:   "crawl URL",
		Short: "Crawl a site and print every scraped page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			opts := &client.CrawlOptions{
				Prompt:       prompt,
				IncludePaths: includePaths,
				ExcludePaths: excludePaths,
			}
			if changed("limit") {
				opts.Limit = client.Int(limit)
			}
			if changed("max-depth") {
				opts.MaxDiscoveryDepth = client.Int(maxDepth)
			}
			if changed("allow-subdomains") {
				opts.AllowSubdomains = client.Bool(allowSubdomains)
			}
			if changed("allow-external-links") {
				opts.AllowExternalLinks = client.Bool(allowExternal)
			}
			if changed("entire-domain") {
				opts.CrawlEntireDomain = client.Bool(entireDomain)
			}

			so, err := a.scrapeOptions(cmd, sf)
			if err != nil {
				return err
			}
			opts.ScrapeOptions = so

			if noWait {
				started, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.CrawlResponse, error) {
					return a.client.StartCrawl(ctx, args[0], opts)
				})
				if err != nil {
					return err
				}
				return a.printJSON(started)
			}

			job, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.CrawlJob, error) {
				return a.client.Crawl(ctx, args[0], opts)
			})
			if err != nil {
				return err
			}
			a.logger.Info().Str("job_id", job.ID).Str("job_status", string(job.Status)).Int("documents", len(job.Data)).Msg("Crawl finished")
			return a.printJSON(job)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&noWait, "no-wait", false, "print the job id instead of waiting for the crawl")
	fs.IntVar(&limit, "limit", 0, "maximum number of pages")
	fs.IntVar(&maxDepth, "max-depth", 0, "maximum discovery depth")
	fs.StringVar(&prompt, "prompt", "", "natural language crawl instructions")
	fs.StringSliceVar(&includePaths, "include-paths", nil, "only crawl paths matching these patterns")
	fs.StringSliceVar(&excludePaths, "exclude-paths", nil, "skip paths matching these patterns")
	fs.BoolVar(&allowSubdomains, "allow-subdomains", false, "follow links to subdomains")
	fs.BoolVar(&allowExternal, "allow-external-links", false, "follow links to other sites")
	fs.BoolVar(&entireDomain, "entire-domain", false, "crawl the whole domain, not just below the url path")
	sf.register(cmd)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status ID",
			Short: "Show one snapshot of a crawl job",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				job, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.CrawlJob, error) {
					return a.client.GetCrawlStatus(ctx, args[0])
				})
				if err != nil {
					return err
				}
				return a.printJSON(job)
			},
		},
		&cobra.Command{
			Use:   "cancel ID",
			Short: "Cancel a crawl job",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				resp, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.CancelResponse, error) {
					return a.client.CancelCrawl(ctx, args[0])
				})
				if err != nil {
					return err
				}
				return a.printJSON(resp)
			},
		},
		&cobra.Command{
			Use:   "errors ID",
			Short: "List the pages a crawl could not scrape",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				errs, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.CrawlErrors, error) {
					return a.client.GetCrawlErrors(ctx, args[0])
				})
				if err != nil {
					return err
				}
				if !a.wantTable() {
					return a.printJSON(errs)
				}

				t := a.newTable(table.Row{"URL", "Code", "Error"})
				for _, e := range errs.Errors {
					t.AppendRow(table.Row{e.URL, e.Code, e.Error})
				}
				for _, u := range errs.RobotsBlocked {
					t.AppendRow(table.Row{u, "ROBOTS", "blocked by robots.txt"})
				}
				t.Render()
				return nil
			},
		},
	)
	return cmd
}
