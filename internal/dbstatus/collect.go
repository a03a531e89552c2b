// collect.go fetches the backend database summary powering 'briefctl db status'.
package dbstatus

import (
	"context"
	"sort"

	"github.com/example/briefctl/internal/api"
)

// Options controls how much detail is collected.
type Options struct {
	RunLimit    int
	ReportLimit int
	BulletLimit int
}

// Summary groups the persisted workflow, report and bullet point insights.
type Summary struct {
	TotalRuns    int
	TotalReports int
	TotalBullets int
	Runs         []RunSummary
	Reports      []ReportSummary
	Bullets      []BulletSummary
}

// RunSummary captures the status bits for one workflow run.
type RunSummary struct {
	ID          string
	Status      string
	LastUpdated string
	LogCount    int
}

// ReportSummary highlights one persisted brief.
type ReportSummary struct {
	ID          string
	WatchlistID string
	CreatedAt   string
	PeriodStart string
	PeriodEnd   string
	Novelty     bool
	IsEmpty     bool
}

// BulletSummary captures one stored bullet point embedding row.
type BulletSummary struct {
	ID       string
	EntityID string
	Date     string
	Text     string
}

// StatusClient fetches the raw database status payload.
type StatusClient interface {
	DatabaseStatus(ctx context.Context) (*api.DatabaseStatus, error)
}

// Collect builds a Summary from the backend's database status endpoint.
// Runs sort most recent first; reports and bullets keep server order, which
// is already newest first.
func Collect(ctx context.Context, client StatusClient, opts Options) (*Summary, error) {
	status, err := client.DatabaseStatus(ctx)
	if err != nil {
		return nil, err
	}
	summary := &Summary{
		TotalRuns:    status.TotalWorkflowRuns,
		TotalReports: status.TotalReports,
		TotalBullets: status.TotalBulletPoints,
	}
	for _, run := range status.WorkflowRuns {
		summary.Runs = append(summary.Runs, RunSummary{
			ID:          run.ID,
			Status:      run.Status,
			LastUpdated: run.LastUpdated,
			LogCount:    run.LogCount,
		})
	}
	sort.SliceStable(summary.Runs, func(i, j int) bool {
		return summary.Runs[i].LastUpdated > summary.Runs[j].LastUpdated
	})
	if opts.RunLimit > 0 && len(summary.Runs) > opts.RunLimit {
		summary.Runs = summary.Runs[:opts.RunLimit]
	}
	for _, report := range status.Reports {
		summary.Reports = append(summary.Reports, ReportSummary{
			ID:          report.ID,
			WatchlistID: report.WatchlistID,
			CreatedAt:   report.CreatedAt,
			PeriodStart: report.ReportPeriodStart,
			PeriodEnd:   report.ReportPeriodEnd,
			Novelty:     report.NoveltyEnabled,
			IsEmpty:     report.IsEmpty,
		})
	}
	if opts.ReportLimit > 0 && len(summary.Reports) > opts.ReportLimit {
		summary.Reports = summary.Reports[:opts.ReportLimit]
	}
	for _, bp := range status.BulletPoints {
		summary.Bullets = append(summary.Bullets, BulletSummary{
			ID:       bp.ID,
			EntityID: bp.EntityID,
			Date:     bp.Date,
			Text:     bp.OriginalText,
		})
	}
	if opts.BulletLimit > 0 && len(summary.Bullets) > opts.BulletLimit {
		summary.Bullets = summary.Bullets[:opts.BulletLimit]
	}
	return summary, nil
}
