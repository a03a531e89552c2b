package main

import (
	"github.com/spf13/cobra"

	"github.com/example/briefctl/internal/dbstatus"
)

func newDBCommand(r *root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect the backend's persistence layer",
	}
	cmd.AddCommand(newDBStatusCommand(r))
	return cmd
}

func newDBStatusCommand(r *root) *cobra.Command {
	opts := dbstatus.Options{RunLimit: 20, ReportLimit: 20, BulletLimit: 50}
	render := dbstatus.RenderOptions{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Summarize stored workflow runs, reports and bullet points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := dbstatus.Collect(cmd.Context(), r.client(), opts)
			if err != nil {
				return err
			}
			dbstatus.Print(cmd.OutOrStdout(), summary, render)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.BoolVar(&render.ShowReports, "reports", false, "Include the stored reports table")
	fs.BoolVar(&render.ShowBullets, "bullets", false, "Include the stored bullet points table")
	fs.IntVar(&opts.RunLimit, "run-limit", opts.RunLimit, "Maximum workflow runs to show")
	fs.IntVar(&opts.ReportLimit, "report-limit", opts.ReportLimit, "Maximum reports to show")
	fs.IntVar(&opts.BulletLimit, "bullet-limit", opts.BulletLimit, "Maximum bullet points to show")
	return cmd
}
