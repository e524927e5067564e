package main

import (
	"context"
	"fmt"
	"io"

	"github.com/firecrawl/firecrawl-go/pkg/client"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newBrowserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browser",
		Short: "Manage remote browser sessions",
	}
	cmd.AddCommand(
		newBrowserCreateCmd(a),
		newBrowserExecCmd(a),
		newBrowserDeleteCmd(a),
		newBrowserListCmd(a),
	)
	return cmd
}

func newBrowserCreateCmd(a *app) *cobra.Command {
	var (
		ttl         int
		activityTTL int
		stream      bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a browser session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &client.BrowserOptions{}
			if cmd.Flags().Changed("ttl") {
				opts.TTL = client.Int(ttl)
			}
			if cmd.Flags().Changed("activity-ttl") {
				opts.ActivityTTL = client.Int(activityTTL)
			}
			if cmd.Flags().Changed("stream-web-view") {
				opts.StreamWebView = client.Bool(stream)
			}
			resp, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.BrowserCreateResponse, error) {
				return a.client.CreateBrowser(ctx, opts)
			})
			if err != nil {
				return err
			}
			return a.printJSON(resp)
		},
	}
	cmd.Flags().IntVar(&ttl, "ttl", 0, "session lifetime in seconds (30-3600)")
	cmd.Flags().IntVar(&activityTTL, "activity-ttl", 0, "idle timeout in seconds (10-3600)")
	cmd.Flags().BoolVar(&stream, "stream-web-view", false, "enable the live view stream")
	return cmd
}

func newBrowserExecCmd(a *app) *cobra.Command {
	var (
		language string
		timeout  int
	)
	cmd := &cobra.Command{
		Use:   "exec SESSION CODE",
		Short: `Run code in a session; CODE "-" reads it from stdin`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[1]
			if code == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read code from stdin: %w", err)
				}
				code = string(b)
			}

			opts := &client.ExecuteOptions{Language: language}
			if cmd.Flags().Changed("exec-timeout") {
				opts.Timeout = client.Int(timeout)
			}
			resp, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.BrowserExecuteResponse, error) {
				return a.client.ExecuteBrowser(ctx, args[0], code, opts)
			})
			if err != nil {
				return err
			}
			return a.printJSON(resp)
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", client.LanguageBash, "bash, node or python")
	cmd.Flags().IntVar(&timeout, "exec-timeout", 0, "execution timeout in seconds (1-300)")
	return cmd
}

func newBrowserDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete SESSION",
		Short: "Close a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.BrowserDeleteResponse, error) {
				return a.client.DeleteBrowser(ctx, args[0])
			})
			if err != nil {
				return err
			}
			return a.printJSON(resp)
		},
	}
}

func newBrowserListCmd(a *app) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List browser sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := rateLimited(cmd.Context(), a, func(ctx context.Context) (*client.BrowserListResponse, error) {
				return a.client.ListBrowsers(ctx, status)
			})
			if err != nil {
				return err
			}
			if !a.wantTable() {
				return a.printJSON(resp)
			}

			t := a.newTable(table.Row{"ID", "Status", "Created", "Last activity", "Live view"})
			for _, s := range resp.Sessions {
				t.AppendRow(table.Row{s.ID, s.Status, s.CreatedAt, s.LastActivity, s.LiveViewURL})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (active, destroyed)")
	return cmd
}
