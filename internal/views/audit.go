package views

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/briefctl/internal/brief"
	"github.com/example/briefctl/internal/textfmt"
)

const metadataMissing = "metadata not available"

// AuditTable renders the per-source evidence breakdown for one selected
// entity. Local UI state: the selected entity id and the open/closed flag of
// each details cell.
type AuditTable struct {
	selected string
	open     map[string]bool
}

func NewAuditTable() *AuditTable {
	return &AuditTable{open: map[string]bool{}}
}

// Select picks the entity whose tables are shown.
func (t *AuditTable) Select(entityID string) {
	t.selected = entityID
}

// Selected returns the selected entity id, defaulting to the report's first
// entity when nothing was picked yet or the pick no longer exists.
func (t *AuditTable) Selected(r *brief.Report) string {
	if r == nil || len(r.EntityReports) == 0 {
		return ""
	}
	if t.selected != "" {
		if _, ok := r.Entity(t.selected); ok {
			return t.selected
		}
	}
	return r.EntityReports[0].EntityID
}

// ToggleDetails flips one details cell open or closed.
func (t *AuditTable) ToggleDetails(detailsID string) {
	t.open[detailsID] = !t.open[detailsID]
}

// DetailsID derives the deterministic key of a details cell.
func DetailsID(sourceID string, bulletIndex, sourceIndex int) string {
	return fmt.Sprintf("details-%s-%d-%d", textfmt.SanitizeID(sourceID), bulletIndex, sourceIndex)
}

// Render writes the audit tab: the missing-metadata banner, the entity
// selector, and one table per bullet group. Each bullet produces one row per
// source; entity and bullet cells appear only on the first of those rows.
func (t *AuditTable) Render(w io.Writer, r *brief.Report) {
	if r == nil || len(r.EntityReports) == 0 {
		fmt.Fprintln(w, "No audit data available")
		return
	}

	fmt.Fprintln(w, color.New(color.Bold).Sprint("Audit Trail"))
	fmt.Fprintln(w, "Detailed evidence breakdown for each bullet point and its sources")
	fmt.Fprintln(w)

	stats := r.MetadataStats()
	if stats.MissingCount > 0 {
		warn := color.New(color.FgYellow)
		fmt.Fprintln(w, warn.Sprint("Missing Metadata Warning"))
		fmt.Fprintf(w, "%d out of %d source references (%s) in kept and discarded bullet points are missing metadata.\n",
			stats.MissingCount, stats.TotalSources, textfmt.Percent(stats.MissingCount, stats.TotalSources))
		fmt.Fprintln(w, "This typically happens when sources are used during processing but not marked as")
		fmt.Fprintln(w, "referenced in the final report serialization. Affected rows are marked with (!).")
		fmt.Fprintln(w, "Compared With sources are excluded from this count as they're from previous briefs.")
		fmt.Fprintln(w)
	}

	selected := t.Selected(r)
	t.renderEntitySelector(w, r, selected)
	entity, _ := r.Entity(selected)
	if entity == nil {
		fmt.Fprintln(w, "Entity not found")
		return
	}

	rendered := false
	if len(entity.Kept) > 0 {
		t.renderTable(w, r, entity, "Kept Bullet Points (After Novelty Filtering)", keptRows(entity))
		rendered = true
	}
	if len(entity.Discarded) > 0 {
		t.renderTable(w, r, entity, "Discarded Bullet Points (By Novelty Filtering)", discardedRows(entity))
		rendered = true
	}
	if len(entity.Compared) > 0 {
		t.renderComparedTable(w, entity)
		rendered = true
	}
	if !rendered {
		fmt.Fprintln(w, "No bullet points available for this entity.")
	}
}

func (t *AuditTable) renderEntitySelector(w io.Writer, r *brief.Report, selected string) {
	fmt.Fprintln(w, "Entities:")
	for _, e := range r.EntityReports {
		marker := " "
		if e.EntityID == selected {
			marker = ">"
		}
		label := e.Name()
		if ticker := e.InfoString("ticker"); ticker != "" {
			label += " (" + ticker + ")"
		}
		fmt.Fprintf(w, " %s %s\n", marker, label)
	}
	fmt.Fprintln(w)
}

// auditRow is one bullet point flattened into table rows. Extra carries the
// group-specific annotation shown under the bullet text.
type auditRow struct {
	bullet  string
	sources []string
	extra   []string
}

func keptRows(e *brief.EntityReport) []auditRow {
	rows := make([]auditRow, 0, len(e.Kept))
	for _, bp := range e.Kept {
		rows = append(rows, auditRow{bullet: bp.BulletPoint, sources: bp.Sources})
	}
	return rows
}

func discardedRows(e *brief.EntityReport) []auditRow {
	rows := make([]auditRow, 0, len(e.Discarded))
	for _, bp := range e.Discarded {
		row := auditRow{bullet: bp.BulletPoint.BulletPoint, sources: bp.Sources}
		if bp.ComparisonSentence != "" {
			row.extra = append(row.extra, fmt.Sprintf("Comparison: %q", bp.ComparisonSentence))
		}
		if bp.ComparisonSimilarity != nil {
			row.extra = append(row.extra, fmt.Sprintf("Similarity: %.2f%%", *bp.ComparisonSimilarity*100))
		}
		rows = append(rows, row)
	}
	return rows
}

func (t *AuditTable) renderTable(w io.Writer, r *brief.Report, e *brief.EntityReport, title string, rows []auditRow) {
	totalSources := 0
	for _, row := range rows {
		totalSources += len(row.sources)
	}
	fmt.Fprintln(w, color.New(color.Bold).Sprint(title))
	fmt.Fprintf(w, "%s, %s\n", textfmt.Plural(len(rows), "bullet point"), textfmt.Plural(totalSources, "source"))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tBULLET POINT\tSOURCE ID\tSOURCE TEXT\tHEADLINE\tDETAILS")
	for bulletIdx, row := range rows {
		bulletCell := textfmt.Truncate(row.bullet, 60)
		if len(row.extra) > 0 {
			bulletCell += " | " + strings.Join(row.extra, " | ")
		}
		if len(row.sources) == 0 {
			fmt.Fprintf(tw, "%s\t%s\tNo sources available\t\t\t\n", e.Name(), bulletCell)
			continue
		}
		for sourceIdx, sourceID := range row.sources {
			entityCell := ""
			bullet := ""
			if sourceIdx == 0 {
				entityCell = e.Name()
				bullet = bulletCell
			}
			meta, ok := r.SourceMeta[sourceID]
			idCell := sourceID
			textCell := metadataMissing
			headlineCell := metadataMissing
			detailsCell := metadataMissing
			if ok {
				textCell = textfmt.Truncate(meta.Text, 60)
				headlineCell = textfmt.Truncate(meta.Headline, 40)
				detailsCell = t.detailsCell(&meta, sourceID, bulletIdx, sourceIdx)
			} else {
				idCell = missingMarker(sourceID)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", entityCell, bullet, idCell, textCell, headlineCell, detailsCell)
		}
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func (t *AuditTable) renderComparedTable(w io.Writer, e *brief.EntityReport) {
	fmt.Fprintln(w, color.New(color.Bold).Sprint("Compared With (From Previous Briefs)"))
	fmt.Fprintf(w, "%s\n", textfmt.Plural(len(e.Compared), "bullet point"))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tBULLET POINT\tFROM BRIEF DATED")
	for _, bp := range e.Compared {
		dated := bp.CreationDate
		if dated == "" {
			dated = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name(), textfmt.Truncate(bp.BulletPoint, 60), dated)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func (t *AuditTable) detailsCell(meta *brief.SourceMetadata, sourceID string, bulletIdx, sourceIdx int) string {
	if !meta.HasDetails() {
		return "no additional details"
	}
	if !t.open[DetailsID(sourceID, bulletIdx, sourceIdx)] {
		return "[+]"
	}
	var parts []string
	if meta.Timestamp != "" {
		parts = append(parts, textfmt.FormatTimestamp(meta.Timestamp))
	}
	if meta.SourceName != "" {
		parts = append(parts, meta.SourceName)
	}
	if meta.SourceKey != "" {
		parts = append(parts, meta.SourceKey)
	}
	if meta.SourceRank != nil {
		parts = append(parts, fmt.Sprintf("rank %d", *meta.SourceRank))
	}
	if meta.DocumentID != "" {
		parts = append(parts, "doc "+meta.DocumentID)
	}
	if meta.ChunkID != nil {
		parts = append(parts, fmt.Sprintf("chunk %d", *meta.ChunkID))
	}
	return strings.Join(parts, " | ")
}

// missingMarker tags a source id whose metadata is absent from the report.
func missingMarker(sourceID string) string {
	if color.NoColor {
		return sourceID + " (!)"
	}
	return sourceID + " " + color.New(color.FgYellow).Sprint("(!)")
}
