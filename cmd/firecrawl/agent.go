package main

import (
	"context"

	"github.com/firecrawl/firecrawl-go/pkg/client"
	"github.com/spf13/cobra"
)

func newAgentCmd(a *app) *cobra.Command {
	var (
		noWait     bool
		urls       []string
		model      string
		maxCredits int
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "agent PROMPT",
		Short: "Let the agent research a prompt across the web",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := client.AgentOptions{Prompt: args[0], URLs: urls, Model: model}
			if cmd.Flags().Changed("max-credits") {
				opts.MaxCredits = client.Int(maxCredits)
			}
			if cmd.Flags().Changed("strict") {
				opts.StrictConstrainToURLs = client.Bool(strict)
			}

			if noWait {
				started, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.AgentResponse, error) {
					return a.client.StartAgent(ctx, opts)
				})
				if err != nil {
					return err
				}
				return a.printJSON(started)
			}

			status, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.AgentStatus, error) {
				return a.client.Agent(ctx, opts)
			})
			if err != nil {
				return err
			}
			return a.printJSON(status)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&noWait, "no-wait", false, "print the job id instead of waiting for the agent")
	fs.StringSliceVar(&urls, "url", nil, "start from these urls")
	fs.StringVar(&model, "model", "", "agent model")
	fs.IntVar(&maxCredits, "max-credits", 0, "stop after spending this many credits")
	fs.BoolVar(&strict, "strict", false, "never leave the given urls")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status ID",
			Short: "Show one snapshot of an agent job",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				status, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.AgentStatus, error) {
					return a.client.GetAgentStatus(ctx, args[0])
				})
				if err != nil {
					return err
				}
				return a.printJSON(status)
			},
		},
		&cobra.Command{
			Use:   "cancel ID",
			Short: "Cancel an agent job",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				resp, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.CancelResponse, error) {
					return a.client.CancelAgent(ctx, args[0])
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
