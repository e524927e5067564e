package main

import (
	"context"

	"github.com/firecrawl/firecrawl-go/pkg/client"
	"github.com/spf13/cobra"
)

func newBatchScrapeCmd(a *app) *cobra.Command {
	var (
		noWait         bool
		idempotencyKey string
		maxConcurrency int
		ignoreInvalid  bool
	)
	sf := &scrapeFlags{}

	cmd := &cobra.Command{
		Use:   "batch-scrape URL...",
		Short: "Scrape many pages in one job",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &client.BatchScrapeOptions{IdempotencyKey: idempotencyKey}
			if idempotencyKey == "auto" {
				opts.IdempotencyKey = client.NewIdempotencyKey()
				a.logger.Info().Str("idempotency_key", opts.IdempotencyKey).Msg("Generated idempotency key")
			}
			if cmd.Flags().Changed("max-concurrency") {
				opts.MaxConcurrency = client.Int(maxConcurrency)
			}
			if cmd.Flags().Changed("ignore-invalid-urls") {
				opts.IgnoreInvalidURLs = client.Bool(ignoreInvalid)
			}

			so, err := a.scrapeOptions(cmd, sf)
			if err != nil {
				return err
			}
			opts.Options = so

			if noWait {
				started, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.BatchScrapeResponse, error) {
					return a.client.StartBatchScrape(ctx, args, opts)
				})
				if err != nil {
					return err
				}
				return a.printJSON(started)
			}

			job, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.BatchScrapeJob, error) {
				return a.client.BatchScrape(ctx, args, opts)
			})
			if err != nil {
				return err
			}
			return a.printJSON(job)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&noWait, "no-wait", false, "print the job id instead of waiting for the batch")
	fs.StringVar(&idempotencyKey, "idempotency-key", "", `deduplication key, or "auto" to generate one`)
	fs.IntVar(&maxConcurrency, "max-concurrency", 0, "maximum pages scraped at once")
	fs.BoolVar(&ignoreInvalid, "ignore-invalid-urls", false, "skip invalid urls instead of failing the batch")
	sf.register(cmd)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status ID",
			Short: "Show one snapshot of a batch scrape job",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				job, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.BatchScrapeJob, error) {
					return a.client.GetBatchScrapeStatus(ctx, args[0])
				})
				if err != nil {
					return err
				}
				return a.printJSON(job)
			},
		},
		&cobra.Command{
			Use:   "cancel ID",
			Short: "Cancel a batch scrape job",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				resp, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.CancelResponse, error) {
					return a.client.CancelBatchScrape(ctx, args[0])
				})
				if err != nil {
					return err
				}
				return a.printJSON(resp)
			},
		},
	)
	return cmd
}
