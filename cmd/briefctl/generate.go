package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/briefctl/internal/api"
	"github.com/example/briefctl/internal/brief"
	"github.com/example/briefctl/internal/dashboard"
	"github.com/example/briefctl/internal/poller"
	"github.com/example/briefctl/internal/store"
	"github.com/example/briefctl/internal/tabs"
	"github.com/example/briefctl/internal/views"
)

type generateOptions struct {
	watchlist       string
	companies       []string
	startDate       string
	endDate         string
	topics          []string
	novelty         bool
	sources         []string
	sourceRankBoost int
	freshnessBoost  int
	interactive     bool
	noWait          bool
}

const companyPlaceholder = "{company}"

func newGenerateCommand(r *root) *cobra.Command {
	opts := &generateOptions{novelty: true, sourceRankBoost: -1, freshnessBoost: -1}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Submit a brief generation job and follow it to completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return runGenerate(cmd, r, opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.watchlist, "watchlist", "", "Watchlist id to generate the brief for")
	fs.StringSliceVar(&opts.companies, "company", nil, "Company entity id (repeat for multiple; mutually exclusive with --watchlist)")
	fs.StringVar(&opts.startDate, "start", "", "Report period start (YYYY-MM-DD)")
	fs.StringVar(&opts.endDate, "end", "", "Report period end (YYYY-MM-DD)")
	fs.StringSliceVar(&opts.topics, "topic", nil, "Topic template applied per company; must contain the {company} placeholder")
	fs.BoolVar(&opts.novelty, "novelty", opts.novelty, "Filter out bullet points already covered by previous briefs")
	fs.StringSliceVar(&opts.sources, "source", nil, "Restrict retrieval to these source keys")
	fs.IntVar(&opts.sourceRankBoost, "source-rank-boost", opts.sourceRankBoost, "Boost high-rank sources during retrieval (0-10)")
	fs.IntVar(&opts.freshnessBoost, "freshness-boost", opts.freshnessBoost, "Boost recent documents during retrieval (0-10)")
	fs.BoolVarP(&opts.interactive, "interactive", "i", false, "Open the interactive dashboard while the brief generates")
	fs.BoolVar(&opts.noWait, "no-wait", false, "Submit the job and print the request id without polling")
	return cmd
}

func (o *generateOptions) validate() error {
	if o.watchlist == "" && len(o.companies) == 0 {
		return fmt.Errorf("either --watchlist or at least one --company is required")
	}
	if o.watchlist != "" && len(o.companies) > 0 {
		return fmt.Errorf("cannot combine --watchlist with explicit --company values")
	}
	for _, field := range []struct{ name, value string }{
		{"--start", o.startDate},
		{"--end", o.endDate},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", field.value); err != nil {
			return fmt.Errorf("invalid %s value %q (expected YYYY-MM-DD)", field.name, field.value)
		}
	}
	if o.startDate != "" && o.endDate != "" && o.startDate > o.endDate {
		return fmt.Errorf("--start %s is after --end %s", o.startDate, o.endDate)
	}
	for _, topic := range o.topics {
		if !strings.Contains(topic, companyPlaceholder) {
			return fmt.Errorf("topic %q must contain the %s placeholder", topic, companyPlaceholder)
		}
	}
	for _, boost := range []struct {
		name  string
		value int
	}{
		{"--source-rank-boost", o.sourceRankBoost},
		{"--freshness-boost", o.freshnessBoost},
	} {
		if boost.value != -1 && (boost.value < 0 || boost.value > 10) {
			return fmt.Errorf("%s must be between 0 and 10, got %d", boost.name, boost.value)
		}
	}
	return nil
}

func (o *generateOptions) request() api.CreateRequest {
	req := api.CreateRequest{
		Companies:   o.companies,
		WatchlistID: o.watchlist,
		StartDate:   o.startDate,
		EndDate:     o.endDate,
		Topics:      o.topics,
		Novelty:     o.novelty,
		Sources:     o.sources,
	}
	if o.sourceRankBoost != -1 {
		v := o.sourceRankBoost
		req.SourceRankBoost = &v
	}
	if o.freshnessBoost != -1 {
		v := o.freshnessBoost
		req.FreshnessBoost = &v
	}
	return req
}

func runGenerate(cmd *cobra.Command, r *root, opts *generateOptions) error {
	ctx := cmd.Context()
	client := r.client()

	accepted, err := client.Create(ctx, opts.request())
	if err != nil {
		return err
	}
	r.logger.Info("brief generation accepted",
		zap.String("request_id", accepted.RequestID),
		zap.String("status", accepted.Status))
	fmt.Fprintf(cmd.OutOrStdout(), "Request ID: %s\n", accepted.RequestID)
	if opts.noWait {
		return nil
	}

	if opts.interactive {
		return runInteractiveDashboard(cmd, r, accepted.RequestID, client)
	}

	p := poller.New(client, r.pollerOptions(), r.logger).
		OnSnapshot(func(snap *api.StatusSnapshot) {
			r.logger.Info("poll",
				zap.String("status", snap.Status),
				zap.Int("log_lines", len(snap.Logs)))
		}).
		OnPollError(func(err error) {
			r.logger.Warn("poll failed", zap.Error(err))
		})
	report, err := p.Run(ctx, accepted.RequestID)
	if err != nil {
		return err
	}
	renderReport(cmd, r, report)
	return nil
}

func runInteractiveDashboard(cmd *cobra.Command, r *root, requestID string, client *api.Client) error {
	st := store.New()
	tc := tabs.NewController()
	d := dashboard.New(cmd.OutOrStdout(), st, tc, dashboard.Options{
		Width:    r.opts.Width,
		Markdown: r.opts.Markdown,
	}, r.logger)
	d.Render()

	p := poller.New(client, r.pollerOptions(), r.logger).
		OnSnapshot(d.OnSnapshot).
		OnPollError(d.OnPollError)

	return d.RunInteractive(cmd.Context(), os.Stdin, func(ctx context.Context) error {
		report, err := p.Run(ctx, requestID)
		if err != nil {
			return err
		}
		st.Set(report, requestID)
		data, debugErr := client.Debug(ctx, requestID)
		d.SetDebug(data, debugErr)
		return nil
	})
}

// renderReport prints the finished brief once, overview first, then the
// company browser and the audit trail.
func renderReport(cmd *cobra.Command, r *root, report *brief.Report) {
	out := cmd.OutOrStdout()
	overview := &views.Overview{Markdown: r.opts.Markdown, Width: r.opts.Width}
	overview.Render(out, report)
	fmt.Fprintln(out)
	views.NewCompanyBrowser().Render(out, report)
	fmt.Fprintln(out)
	views.NewAuditTable().Render(out, report)
}
