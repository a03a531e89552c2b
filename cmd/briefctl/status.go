package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/briefctl/internal/api"
	"github.com/example/briefctl/internal/poller"
	"github.com/example/briefctl/internal/textfmt"
)

func newStatusCommand(r *root) *cobra.Command {
	var wait bool
	var interactive bool
	cmd := &cobra.Command{
		Use:   "status REQUEST_ID",
		Short: "Show the state of a brief generation job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID := args[0]
			if _, err := uuid.Parse(requestID); err != nil {
				return fmt.Errorf("invalid request id %q: %w", requestID, err)
			}
			client := r.client()
			ctx := cmd.Context()

			if interactive {
				return runInteractiveDashboard(cmd, r, requestID, client)
			}
			if wait {
				p := poller.New(client, r.pollerOptions(), r.logger).
					OnSnapshot(func(snap *api.StatusSnapshot) {
						r.logger.Info("poll", zap.String("status", snap.Status))
					}).
					OnPollError(func(err error) {
						r.logger.Warn("poll failed", zap.Error(err))
					})
				report, err := p.Run(ctx, requestID)
				if err != nil {
					return err
				}
				renderReport(cmd, r, report)
				return nil
			}

			snap, err := client.Status(ctx, requestID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Request ID: %s\n", snap.RequestID)
			fmt.Fprintf(out, "Status: %s\n", snap.Status)
			if snap.LastUpdated != "" {
				fmt.Fprintf(out, "Last updated: %s\n", textfmt.FormatTimestamp(snap.LastUpdated))
			}
			if len(snap.Logs) > 0 {
				fmt.Fprintln(out, "\nGeneration log:")
				for _, line := range snap.Logs {
					fmt.Fprintf(out, "  %s\n", line)
				}
			}
			if snap.Status == api.StatusCompleted && snap.Report != nil {
				fmt.Fprintln(out)
				renderReport(cmd, r, snap.Report)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "Poll until the job reaches a terminal state, then render the report")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Open the interactive dashboard for this job")
	return cmd
}
