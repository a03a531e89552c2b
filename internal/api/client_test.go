package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateSendsPayloadAndToken(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(Accepted{RequestID: "r1", Status: StatusQueued})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	accepted, err := client.Create(context.Background(), CreateRequest{
		Companies: []string{"AAPL_ID"},
		StartDate: "2025-01-01",
		EndDate:   "2025-01-07",
		Novelty:   true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if accepted.RequestID != "r1" {
		t.Fatalf("request id = %q", accepted.RequestID)
	}
	if gotPath != "/briefs/create" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery != "token=secret" {
		t.Fatalf("query = %q", gotQuery)
	}
	companies, ok := gotBody["companies"].([]any)
	if !ok || len(companies) != 1 || companies[0] != "AAPL_ID" {
		t.Fatalf("companies = %v", gotBody["companies"])
	}
	if gotBody["report_start_date"] != "2025-01-01" || gotBody["report_end_date"] != "2025-01-07" {
		t.Fatalf("dates = %v / %v", gotBody["report_start_date"], gotBody["report_end_date"])
	}
	if gotBody["novelty"] != true {
		t.Fatalf("novelty = %v", gotBody["novelty"])
	}
}

func TestCreateMarshalsWatchlistAsString(t *testing.T) {
	raw, err := json.Marshal(CreateRequest{WatchlistID: "wl-1", StartDate: "a", EndDate: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"companies":"wl-1"`) {
		t.Fatalf("payload %s", raw)
	}
}

func TestCreateSurfacesServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "companies field is required"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Create(context.Background(), CreateRequest{})
	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %T %v", err, err)
	}
	if !strings.Contains(subErr.Error(), "companies field is required") {
		t.Fatalf("error = %v", subErr)
	}
}

func TestCreateFallsBackToGenericHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream broke"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Create(context.Background(), CreateRequest{})
	if err == nil || !strings.Contains(err.Error(), "HTTP error 502") {
		t.Fatalf("error = %v", err)
	}
}

func TestCreateRejectsMissingRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Create(context.Background(), CreateRequest{})
	if err == nil || !strings.Contains(err.Error(), "no request_id") {
		t.Fatalf("error = %v", err)
	}
}

func TestStatusReturnsPollErrorOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Status(context.Background(), "r1")
	var pollErr *PollError
	if !errors.As(err, &pollErr) {
		t.Fatalf("expected PollError, got %T", err)
	}
	if pollErr.RequestID != "r1" {
		t.Fatalf("request id = %q", pollErr.RequestID)
	}
}

func TestStatusDecodesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/briefs/status/r1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"request_id": "r1", "status": "in_progress", "logs": ["info: starting"]}`))
	}))
	defer srv.Close()

	snap, err := NewClient(srv.URL, "").Status(context.Background(), "r1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if snap.Status != StatusInProgress || len(snap.Logs) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Report != nil {
		t.Fatal("report should be absent while in progress")
	}
}

func TestDebugDistinguishesNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Debug(context.Background(), "r1")
	if !errors.Is(err, ErrDebugNotFound) {
		t.Fatalf("expected ErrDebugNotFound, got %v", err)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer down.Close()

	_, err = NewClient(down.URL, "").Debug(context.Background(), "r1")
	if err == nil || errors.Is(err, ErrDebugNotFound) {
		t.Fatalf("transport failure must not map to not-found, got %v", err)
	}
}

func TestDatabaseStatusDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_workflow_runs": 2, "total_reports": 1, "total_bullet_points": 9,
			"workflow_runs": [{"id": "w1", "status": "completed", "log_count": 4}]}`))
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL, "").DatabaseStatus(context.Background())
	if err != nil {
		t.Fatalf("database status: %v", err)
	}
	if status.TotalWorkflowRuns != 2 || status.TotalBulletPoints != 9 {
		t.Fatalf("status = %+v", status)
	}
	if len(status.WorkflowRuns) != 1 || status.WorkflowRuns[0].LogCount != 4 {
		t.Fatalf("runs = %+v", status.WorkflowRuns)
	}
}

func TestIsTerminal(t *testing.T) {
	for status, want := range map[string]bool{
		StatusQueued:     false,
		StatusInProgress: false,
		StatusCompleted:  true,
		StatusFailed:     true,
		"weird":          false,
	} {
		if got := IsTerminal(status); got != want {
			t.Errorf("IsTerminal(%q) = %v, want %v", status, got, want)
		}
	}
}
