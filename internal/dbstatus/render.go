// render.go formats the database summary into tables.
package dbstatus

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/briefctl/internal/textfmt"
)

// RenderOptions controls output toggles.
type RenderOptions struct {
	ShowReports bool
	ShowBullets bool
}

// Print renders the database summary.
func Print(w io.Writer, summary *Summary, opts RenderOptions) {
	if summary == nil {
		fmt.Fprintln(w, "No data available.")
		return
	}
	fmt.Fprintf(w, "%s | %s | %s\n\n",
		textfmt.Plural(summary.TotalRuns, "run"),
		textfmt.Plural(summary.TotalReports, "report"),
		textfmt.Plural(summary.TotalBullets, "bullet point"),
	)
	printRuns(w, summary.Runs)
	if opts.ShowReports {
		printReports(w, summary.Reports)
	}
	if opts.ShowBullets {
		printBullets(w, summary.Bullets)
	}
}

func printRuns(w io.Writer, runs []RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No workflow runs recorded.")
		return
	}
	fmt.Fprintln(w, "Workflow runs (most recent first):")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTATUS\tLAST UPDATED\tLOGS")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
			run.ID,
			formatStatus(run.Status),
			textfmt.FormatTimestamp(run.LastUpdated),
			run.LogCount,
		)
	}
	_ = tw.Flush()
}

func printReports(w io.Writer, reports []ReportSummary) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "\nNo reports stored.")
		return
	}
	fmt.Fprintln(w, "\nReports:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REPORT\tWATCHLIST\tCREATED\tPERIOD\tNOVELTY\tEMPTY")
	for _, report := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s - %s\t%s\t%s\n",
			report.ID,
			dashIfEmpty(report.WatchlistID),
			textfmt.FormatTimestamp(report.CreatedAt),
			textfmt.DateOnly(report.PeriodStart),
			textfmt.DateOnly(report.PeriodEnd),
			onOff(report.Novelty),
			onOff(report.IsEmpty),
		)
	}
	_ = tw.Flush()
}

func printBullets(w io.Writer, bullets []BulletSummary) {
	if len(bullets) == 0 {
		fmt.Fprintln(w, "\nNo bullet points stored.")
		return
	}
	fmt.Fprintln(w, "\nBullet points:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tENTITY\tDATE\tTEXT")
	for _, bp := range bullets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			bp.ID,
			bp.EntityID,
			textfmt.DateOnly(bp.Date),
			textfmt.Truncate(bp.Text, 80),
		)
	}
	_ = tw.Flush()
}

func formatStatus(status string) string {
	if color.NoColor {
		return status
	}
	switch status {
	case "failed":
		return color.New(color.FgHiRed).Sprint(status)
	case "queued", "in_progress":
		return color.New(color.FgYellow).Sprint(status)
	case "completed":
		return color.New(color.FgHiGreen).Sprint(status)
	default:
		return status
	}
}

func onOff(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func dashIfEmpty(val string) string {
	if val == "" {
		return "-"
	}
	return val
}
