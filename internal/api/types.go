package api

import (
	"encoding/json"

	"github.com/example/briefctl/internal/brief"
)

// Workflow statuses reported by GET /briefs/status.
const (
	StatusQueued     = "queued"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// IsTerminal reports whether a workflow status stops the poll loop.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// CreateRequest is the body for POST /briefs/create. Companies is either an
// explicit entity-id list or a single watchlist id; the backend accepts both
// shapes under the same field.
type CreateRequest struct {
	Companies       []string
	WatchlistID     string
	StartDate       string
	EndDate         string
	Topics          []string
	Novelty         bool
	Sources         []string
	SourceRankBoost *int
	FreshnessBoost  *int
}

func (r CreateRequest) MarshalJSON() ([]byte, error) {
	payload := map[string]any{
		"report_start_date": r.StartDate,
		"report_end_date":   r.EndDate,
		"novelty":           r.Novelty,
	}
	if r.WatchlistID != "" {
		payload["companies"] = r.WatchlistID
	} else {
		payload["companies"] = r.Companies
	}
	if len(r.Topics) > 0 {
		payload["topics"] = r.Topics
	}
	if len(r.Sources) > 0 {
		payload["sources"] = r.Sources
	}
	if r.SourceRankBoost != nil {
		payload["source_rank_boost"] = *r.SourceRankBoost
	}
	if r.FreshnessBoost != nil {
		payload["freshness_boost"] = *r.FreshnessBoost
	}
	return json.Marshal(payload)
}

// Accepted is the 202 response of POST /briefs/create.
type Accepted struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// StatusSnapshot is one poll of GET /briefs/status/{id}. Logs replace the
// previous set on every snapshot; Report is present only on completion.
type StatusSnapshot struct {
	RequestID   string        `json:"request_id"`
	LastUpdated string        `json:"last_updated"`
	Status      string        `json:"status"`
	Logs        []string      `json:"logs"`
	Report      *brief.Report `json:"report,omitempty"`
}

// DebugData is the novelty-filter trace of one generation run, keyed by
// entity id. Only available when novelty filtering was enabled.
type DebugData struct {
	Entities map[string]DebugEntity `json:"entities"`
}

// DebugEntity holds the four decision bins for one entity.
type DebugEntity struct {
	EntityName     string           `json:"entity_name"`
	GeneratedTexts []string         `json:"generated_texts"`
	ComparedWith   []string         `json:"compared_with"`
	Discarded      []DebugDiscarded `json:"discarded"`
	KeptTexts      []string         `json:"kept_texts"`
}

// DebugDiscarded is one text rejected by novelty filtering together with its
// nearest prior match.
type DebugDiscarded struct {
	Text            string  `json:"text"`
	MaxSimilarity   float64 `json:"max_similarity"`
	MostSimilarText string  `json:"most_similar_text"`
}

// DatabaseStatus is the administrative snapshot of GET /briefs/database-status.
type DatabaseStatus struct {
	TotalWorkflowRuns int               `json:"total_workflow_runs"`
	TotalReports      int               `json:"total_reports"`
	TotalBulletPoints int               `json:"total_bullet_points"`
	WorkflowRuns      []WorkflowRunInfo `json:"workflow_runs"`
	Reports           []ReportInfo      `json:"reports"`
	BulletPoints      []BulletPointInfo `json:"bullet_points"`
}

// WorkflowRunInfo summarizes one stored generation run.
type WorkflowRunInfo struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	LastUpdated string `json:"last_updated"`
	LogCount    int    `json:"log_count"`
}

// ReportInfo summarizes one stored report.
type ReportInfo struct {
	ID                string `json:"id"`
	WatchlistID       string `json:"watchlist_id"`
	CreatedAt         string `json:"created_at"`
	ReportPeriodStart string `json:"report_period_start"`
	ReportPeriodEnd   string `json:"report_period_end"`
	NoveltyEnabled    bool   `json:"novelty_enabled"`
	IsEmpty           bool   `json:"is_empty"`
}

// BulletPointInfo summarizes one stored bullet point.
type BulletPointInfo struct {
	ID           string `json:"id"`
	EntityID     string `json:"entity_id"`
	Date         string `json:"date"`
	OriginalText string `json:"original_text"`
}
