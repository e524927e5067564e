package main

import (
	"context"
	"fmt"

	"github.com/firecrawl/firecrawl-go/pkg/client"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newMapCmd(a *app) *cobra.Command {
	var (
		search            string
		sitemap           string
		limit             int
		includeSubdomains bool
	)

	cmd := &cobra.Command{
		Use:   "map URL",
		Short: "List the urls of a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &client.MapOptions{Search: search, Sitemap: sitemap}
			if cmd.Flags().Changed("limit") {
				opts.Limit = client.Int(limit)
			}
			if cmd.Flags().Changed("include-subdomains") {
				opts.IncludeSubdomains = client.Bool(includeSubdomains)
			}

			data, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.MapData, error) {
				return a.client.Map(ctx, args[0], opts)
			})
			if err != nil {
				return err
			}
			if !a.wantTable() {
				return a.printJSON(data)
			}

			t := a.newTable(table.Row{"URL", "Title", "Description"})
			for _, l := range data.Links {
				t.AppendRow(table.Row{l.URL, l.Title, l.Description})
			}
			t.AppendFooter(table.Row{fmt.Sprintf("%d links", len(data.Links))})
			t.Render()
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&search, "search", "", "order links by relevance to this query")
	fs.StringVar(&sitemap, "sitemap", "", "sitemap mode (include, skip, only)")
	fs.IntVar(&limit, "limit", 0, "maximum number of links")
	fs.BoolVar(&includeSubdomains, "include-subdomains", false, "include links on subdomains")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		limit    int
		sources  []string
		tbs      string
		location string
	)
	sf := &scrapeFlags{}

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search the web and optionally scrape the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &client.SearchOptions{Sources: sources, TBS: tbs, Location: location}
			if cmd.Flags().Changed("limit") {
				opts.Limit = client.Int(limit)
			}
			// Config file scrape defaults do not apply; results are only
			// scraped when asked for on the command line.
			opts.ScrapeOptions = nonEmpty(sf.fromFlags(cmd))

			data, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.SearchData, error) {
				return a.client.Search(ctx, args[0], opts)
			})
			if err != nil {
				return err
			}
			if !a.wantTable() {
				return a.printJSON(data)
			}

			t := a.newTable(table.Row{"Source", "Title", "URL"})
			appendResults(t, "web", data.Web)
			appendResults(t, "news", data.News)
			appendResults(t, "images", data.Images)
			t.Render()
			return nil
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&limit, "limit", 0, "maximum results per source")
	fs.StringSliceVar(&sources, "sources", nil, "result sources (web, news, images)")
	fs.StringVar(&tbs, "tbs", "", "time filter, e.g. qdr:w")
	fs.StringVar(&location, "location", "", "search from this location")
	sf.register(cmd)
	return cmd
}

func appendResults(t table.Writer, source string, results []map[string]any) {
	for _, r := range results {
		url := r["url"]
		if url == nil {
			url = r["imageUrl"]
		}
		t.AppendRow(table.Row{source, valueOrEmpty(r["title"]), valueOrEmpty(url)})
	}
}

func valueOrEmpty(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
