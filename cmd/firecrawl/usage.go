package main

import (
	"context"

	"github.com/firecrawl/firecrawl-go/pkg/client"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newUsageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show team credits and concurrency",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "credits",
			Short: "Show the remaining credits",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				usage, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.CreditUsage, error) {
					return a.client.GetCreditUsage(ctx)
				})
				if err != nil {
					return err
				}
				if !a.wantTable() {
					return a.printJSON(usage)
				}
				t := a.newTable(table.Row{"Remaining", "Plan", "Period start", "Period end"})
				t.AppendRow(table.Row{usage.RemainingCredits, usage.PlanCredits, usage.BillingPeriodStart, usage.BillingPeriodEnd})
				t.Render()
				return nil
			},
		},
		&cobra.Command{
			Use:   "concurrency",
			Short: "Show current and maximum job concurrency",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cc, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.ConcurrencyCheck, error) {
					return a.client.GetConcurrency(ctx)
				})
				if err != nil {
					return err
				}
				if !a.wantTable() {
					return a.printJSON(cc)
				}
				t := a.newTable(table.Row{"Concurrency", "Max"})
				t.AppendRow(table.Row{cc.Concurrency, cc.MaxConcurrency})
				t.Render()
				return nil
			},
		},
	)
	return cmd
}
