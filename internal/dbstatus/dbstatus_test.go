package dbstatus

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/briefctl/internal/api"
)

func init() {
	color.NoColor = true
}

type stubClient struct {
	status *api.DatabaseStatus
	err    error
}

func (c *stubClient) DatabaseStatus(ctx context.Context) (*api.DatabaseStatus, error) {
	return c.status, c.err
}

func sampleStatus() *api.DatabaseStatus {
	return &api.DatabaseStatus{
		TotalWorkflowRuns: 3,
		TotalReports:      2,
		TotalBulletPoints: 5,
		WorkflowRuns: []api.WorkflowRunInfo{
			{ID: "run-a", Status: "completed", LastUpdated: "2025-08-01T10:00:00", LogCount: 7},
			{ID: "run-b", Status: "failed", LastUpdated: "2025-08-02T10:00:00", LogCount: 3},
			{ID: "run-c", Status: "in_progress", LastUpdated: "2025-08-03T10:00:00", LogCount: 1},
		},
		Reports: []api.ReportInfo{
			{ID: "rep-1", WatchlistID: "wl-1", CreatedAt: "2025-08-02T11:00:00", ReportPeriodStart: "2025-07-01", ReportPeriodEnd: "2025-07-31", NoveltyEnabled: true},
			{ID: "rep-2", CreatedAt: "2025-08-01T11:00:00", IsEmpty: true},
		},
		BulletPoints: []api.BulletPointInfo{
			{ID: "bp-1", EntityID: "E1", Date: "2025-07-15", OriginalText: "Entity one did a thing"},
		},
	}
}

func TestCollectSortsRunsMostRecentFirst(t *testing.T) {
	summary, err := Collect(context.Background(), &stubClient{status: sampleStatus()}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.TotalRuns != 3 || summary.TotalReports != 2 || summary.TotalBullets != 5 {
		t.Fatalf("totals = %d/%d/%d", summary.TotalRuns, summary.TotalReports, summary.TotalBullets)
	}
	if summary.Runs[0].ID != "run-c" || summary.Runs[2].ID != "run-a" {
		t.Fatalf("runs not sorted most recent first: %v", summary.Runs)
	}
}

func TestCollectAppliesLimits(t *testing.T) {
	summary, err := Collect(context.Background(), &stubClient{status: sampleStatus()}, Options{RunLimit: 1, ReportLimit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(summary.Runs) != 1 || summary.Runs[0].ID != "run-c" {
		t.Fatalf("run limit not applied: %v", summary.Runs)
	}
	if len(summary.Reports) != 1 || summary.Reports[0].ID != "rep-1" {
		t.Fatalf("report limit not applied: %v", summary.Reports)
	}
}

func TestCollectPropagatesError(t *testing.T) {
	wantErr := errors.New("connection refused")
	if _, err := Collect(context.Background(), &stubClient{err: wantErr}, Options{}); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
}

func TestPrintSummaryLineAndTables(t *testing.T) {
	summary, err := Collect(context.Background(), &stubClient{status: sampleStatus()}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	Print(&buf, summary, RenderOptions{ShowReports: true, ShowBullets: true})
	out := buf.String()
	for _, want := range []string{
		"3 runs | 2 reports | 5 bullet points",
		"LAST UPDATED",
		"run-b",
		"PERIOD",
		"2025-07-01 - 2025-07-31",
		"Entity one did a thing",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintEmptySummary(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, &Summary{}, RenderOptions{})
	out := buf.String()
	if !strings.Contains(out, "0 runs | 0 reports | 0 bullet points") {
		t.Errorf("missing zero summary:\n%s", out)
	}
	if !strings.Contains(out, "No workflow runs recorded.") {
		t.Errorf("missing empty runs state:\n%s", out)
	}
}
