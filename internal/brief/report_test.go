package brief

import (
	"encoding/json"
	"testing"
)

func TestSourceMapUnwrapsRootEnvelope(t *testing.T) {
	raw := []byte(`{"source_metadata": {"root": {"s1": {"text": "body", "headline": "hl"}}}}`)
	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	meta, ok := report.SourceMeta["s1"]
	if !ok {
		t.Fatalf("expected s1 in source metadata, got %v", report.SourceMeta)
	}
	if meta.Text != "body" || meta.Headline != "hl" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestSourceMapAcceptsDirectMap(t *testing.T) {
	raw := []byte(`{"source_metadata": {"s2": {"text": "direct"}}}`)
	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.SourceMeta["s2"].Text != "direct" {
		t.Fatalf("unexpected metadata: %v", report.SourceMeta)
	}
}

func TestMetadataStatsExcludesComparedWith(t *testing.T) {
	report := Report{
		EntityReports: []EntityReport{
			{
				EntityID: "E1",
				Kept: []BulletPoint{
					{BulletPoint: "kept", Sources: []string{"s1", "s2"}},
				},
				Discarded: []DiscardedBullet{
					{BulletPoint: BulletPoint{BulletPoint: "dropped", Sources: []string{"s3"}}},
				},
				Compared: []ComparedBulletPoint{
					{BulletPoint: "old", CreationDate: "2024-12-01"},
				},
			},
		},
		SourceMeta: SourceMap{"s1": {Text: "t"}},
	}
	stats := report.MetadataStats()
	if stats.TotalSources != 3 {
		t.Fatalf("total sources = %d, want 3", stats.TotalSources)
	}
	if stats.MissingCount != 2 {
		t.Fatalf("missing count = %d, want 2", stats.MissingCount)
	}
	if stats.MissingIDs[0] != "s2" || stats.MissingIDs[1] != "s3" {
		t.Fatalf("missing ids = %v", stats.MissingIDs)
	}
	if pct := stats.MissingPercent(); pct < 66 || pct > 67 {
		t.Fatalf("missing percent = %f", pct)
	}
}

func TestMetadataStatsEmptyReport(t *testing.T) {
	var report Report
	stats := report.MetadataStats()
	if stats.TotalSources != 0 || stats.MissingCount != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.MissingPercent() != 0 {
		t.Fatalf("percent should be 0 for empty report")
	}
}

func TestBulletCountPrefersLegacyContent(t *testing.T) {
	e := EntityReport{
		Content: []BulletPoint{{BulletPoint: "a"}, {BulletPoint: "b"}},
		Kept:    []BulletPoint{{BulletPoint: "c"}},
	}
	if got := e.BulletCount(); got != 2 {
		t.Fatalf("got %d, want legacy content length 2", got)
	}
	e.Content = nil
	if got := e.BulletCount(); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}

func TestEntityLookupAndName(t *testing.T) {
	report := Report{EntityReports: []EntityReport{
		{EntityID: "E1", EntityInfo: map[string]any{"name": "Acme Corp"}},
		{EntityID: "E2"},
	}}
	e, ok := report.Entity("E2")
	if !ok {
		t.Fatal("expected to find E2")
	}
	if e.Name() != "E2" {
		t.Fatalf("fallback name = %q", e.Name())
	}
	e, _ = report.Entity("E1")
	if e.Name() != "Acme Corp" {
		t.Fatalf("name = %q", e.Name())
	}
	if _, ok := report.Entity("missing"); ok {
		t.Fatal("unexpected hit for missing entity")
	}
}
