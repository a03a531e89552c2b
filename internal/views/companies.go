package views

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/example/briefctl/internal/brief"
	"github.com/example/briefctl/internal/textfmt"
)

// CompanyBrowser renders the searchable company list. Local UI state: the
// search term, the single expanded entity, and an open/closed flag per
// nested section, keyed by a deterministic id derived from the entity id and
// section type so sections never interfere with each other.
type CompanyBrowser struct {
	search   string
	expanded string
	open     map[string]bool
}

func NewCompanyBrowser() *CompanyBrowser {
	return &CompanyBrowser{open: map[string]bool{}}
}

// SetFilter updates the search term. Matching is a case-insensitive
// substring test against name, ticker, sector and entity id; the empty term
// matches everything.
func (b *CompanyBrowser) SetFilter(term string) {
	b.search = strings.ToLower(strings.TrimSpace(term))
}

// Filter returns the current search term.
func (b *CompanyBrowser) Filter() string {
	return b.search
}

// ToggleEntity expands the entity, or collapses it when it is already the
// expanded one. At most one entity is expanded at a time.
func (b *CompanyBrowser) ToggleEntity(entityID string) {
	if b.expanded == entityID {
		b.expanded = ""
	} else {
		b.expanded = entityID
	}
}

// Expanded returns the currently expanded entity id, or "".
func (b *CompanyBrowser) Expanded() string {
	return b.expanded
}

// ToggleSection flips one nested section's visibility.
func (b *CompanyBrowser) ToggleSection(sectionID string) {
	b.open[sectionID] = !b.open[sectionID]
}

// SectionOpen reports a nested section's visibility.
func (b *CompanyBrowser) SectionOpen(sectionID string) bool {
	return b.open[sectionID]
}

// SectionID derives the deterministic key for a section of an entity.
func SectionID(sectionType, entityID string) string {
	return sectionType + "-" + textfmt.SanitizeID(entityID)
}

// Matches reports whether an entity passes the current filter.
func (b *CompanyBrowser) Matches(e *brief.EntityReport) bool {
	if b.search == "" {
		return true
	}
	for _, field := range []string{e.InfoString("name"), e.InfoString("ticker"), e.InfoString("sector"), e.EntityID} {
		if strings.Contains(strings.ToLower(field), b.search) {
			return true
		}
	}
	return false
}

// Filtered returns the entities passing the current filter, in report order.
func (b *CompanyBrowser) Filtered(r *brief.Report) []*brief.EntityReport {
	if r == nil {
		return nil
	}
	var out []*brief.EntityReport
	for i := range r.EntityReports {
		if b.Matches(&r.EntityReports[i]) {
			out = append(out, &r.EntityReports[i])
		}
	}
	return out
}

// Render writes the company browser tab.
func (b *CompanyBrowser) Render(w io.Writer, r *brief.Report) {
	if r == nil || len(r.EntityReports) == 0 {
		fmt.Fprintln(w, "No company reports available.")
		return
	}
	filtered := b.Filtered(r)
	if b.search != "" {
		fmt.Fprintf(w, "Filter: %q\n", b.search)
	}
	fmt.Fprintf(w, "Showing %d of %d companies\n\n", len(filtered), len(r.EntityReports))
	if len(filtered) == 0 {
		fmt.Fprintf(w, "No companies found matching %q\n", b.search)
		return
	}
	for _, entity := range filtered {
		b.renderCompany(w, r, entity)
	}
}

func (b *CompanyBrowser) renderCompany(w io.Writer, r *brief.Report, e *brief.EntityReport) {
	marker := "+"
	if b.expanded == e.EntityID {
		marker = "-"
	}
	var badges []string
	if ticker := e.InfoString("ticker"); ticker != "" {
		badges = append(badges, ticker)
	}
	if sector := e.InfoString("sector"); sector != "" {
		badges = append(badges, sector)
	}
	badge := ""
	if len(badges) > 0 {
		badge = " [" + strings.Join(badges, " · ") + "]"
	}
	fmt.Fprintf(w, "[%s] %s%s  (%s)\n", marker, color.New(color.Bold).Sprint(e.Name()), badge,
		textfmt.Plural(e.BulletCount(), "bullet point"))
	if b.expanded == e.EntityID {
		b.renderDetails(w, r, e)
	}
}

func (b *CompanyBrowser) renderDetails(w io.Writer, r *brief.Report, e *brief.EntityReport) {
	b.renderAdditionalDetails(w, e)
	b.renderBulletPointSections(w, r, e)
	fmt.Fprintln(w)
}

// renderAdditionalDetails lists every entity_info field except the name,
// rendered generically by key so unknown fields survive.
func (b *CompanyBrowser) renderAdditionalDetails(w io.Writer, e *brief.EntityReport) {
	keys := make([]string, 0, len(e.EntityInfo))
	for key, value := range e.EntityInfo {
		if key == "name" || value == nil || value == "" {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return
	}
	sort.Strings(keys)
	sectionID := SectionID("additional-details", e.EntityID)
	if !b.open[sectionID] {
		fmt.Fprintln(w, "    [+] Additional company details")
		return
	}
	fmt.Fprintln(w, "    [-] Additional company details")
	for _, key := range keys {
		value := textfmt.SpaceCommas(fmt.Sprintf("%v", e.EntityInfo[key]))
		fmt.Fprintf(w, "        %s: %s\n", textfmt.KeyLabel(key), value)
	}
}

func (b *CompanyBrowser) renderBulletPointSections(w io.Writer, r *brief.Report, e *brief.EntityReport) {
	total := len(e.Kept) + len(e.Discarded) + len(e.Compared)
	if total == 0 && len(e.Content) == 0 {
		fmt.Fprintln(w, "    No bullet points available for this company.")
		return
	}
	if total == 0 {
		// Legacy flat report shape.
		for i := range e.Content {
			b.renderBullet(w, r, &e.Content[i], i, "        ")
		}
		return
	}
	mainID := SectionID("report-bullets", e.EntityID)
	if !b.open[mainID] {
		fmt.Fprintln(w, "    [+] Report Bullet Points")
		return
	}
	fmt.Fprintln(w, "    [-] Report Bullet Points")
	if len(e.Kept) > 0 {
		b.renderGroup(w, r, e, "kept", fmt.Sprintf("Kept (After Novelty Filtering) (%d)", len(e.Kept)), func() {
			for i := range e.Kept {
				b.renderBullet(w, r, &e.Kept[i], i, "            ")
			}
		})
	}
	if len(e.Discarded) > 0 {
		b.renderGroup(w, r, e, "discarded", fmt.Sprintf("Discarded (By Novelty Filtering) (%d)", len(e.Discarded)), func() {
			for i := range e.Discarded {
				b.renderDiscarded(w, r, &e.Discarded[i], i)
			}
		})
	}
	if len(e.Compared) > 0 {
		b.renderGroup(w, r, e, "compared", fmt.Sprintf("Compared With (%d)", len(e.Compared)), func() {
			for i := range e.Compared {
				b.renderCompared(w, &e.Compared[i], i)
			}
		})
	}
}

func (b *CompanyBrowser) renderGroup(w io.Writer, r *brief.Report, e *brief.EntityReport, sectionType, title string, body func()) {
	sectionID := SectionID(sectionType, e.EntityID)
	if !b.open[sectionID] {
		fmt.Fprintf(w, "        [+] %s\n", title)
		return
	}
	fmt.Fprintf(w, "        [-] %s\n", title)
	body()
}

func (b *CompanyBrowser) renderBullet(w io.Writer, r *brief.Report, bp *brief.BulletPoint, index int, prefix string) {
	fmt.Fprintf(w, "%s%d. %s\n", prefix, index+1, bp.BulletPoint)
	if len(bp.Sources) == 0 {
		return
	}
	fmt.Fprintf(w, "%s   Sources:\n", prefix)
	for _, sourceID := range bp.Sources {
		b.renderSource(w, r, sourceID, prefix+"   ")
	}
}

func (b *CompanyBrowser) renderDiscarded(w io.Writer, r *brief.Report, bp *brief.DiscardedBullet, index int) {
	b.renderBullet(w, r, &bp.BulletPoint, index, "            ")
	if bp.ComparisonSentence != "" || bp.ComparisonSimilarity != nil {
		fmt.Fprintln(w, "               Comparison details:")
		if bp.ComparisonSentence != "" {
			fmt.Fprintf(w, "                 Sentence: %q\n", bp.ComparisonSentence)
		}
		if bp.ComparisonSimilarity != nil {
			fmt.Fprintf(w, "                 Similarity: %.2f%%\n", *bp.ComparisonSimilarity*100)
		}
	}
}

func (b *CompanyBrowser) renderCompared(w io.Writer, bp *brief.ComparedBulletPoint, index int) {
	fmt.Fprintf(w, "            %d. %s\n", index+1, bp.BulletPoint)
	if bp.CreationDate != "" {
		fmt.Fprintf(w, "               From brief dated: %s\n", bp.CreationDate)
	}
}

func (b *CompanyBrowser) renderSource(w io.Writer, r *brief.Report, sourceID, prefix string) {
	meta, ok := r.SourceMeta[sourceID]
	if !ok {
		fmt.Fprintf(w, "%s- Source ID: %s\n", prefix, sourceID)
		fmt.Fprintf(w, "%s  No metadata available\n", prefix)
		return
	}
	fmt.Fprintf(w, "%s- Source ID: %s\n", prefix, sourceID)
	text := meta.Text
	if text == "" {
		text = "No text available"
	}
	fmt.Fprintf(w, "%s  %s\n", prefix, textfmt.Truncate(text, 160))
	panelID := SectionID("source", sourceID)
	if !b.open[panelID] {
		fmt.Fprintf(w, "%s  [+] Additional chunk details\n", prefix)
		return
	}
	fmt.Fprintf(w, "%s  [-] Additional chunk details\n", prefix)
	for _, line := range sourceMetadataLines(&meta) {
		fmt.Fprintf(w, "%s      %s\n", prefix, line)
	}
}

// sourceMetadataLines lists the populated metadata fields of a source chunk.
func sourceMetadataLines(meta *brief.SourceMetadata) []string {
	var lines []string
	if meta.Headline != "" {
		lines = append(lines, "Headline: "+meta.Headline)
	}
	if meta.Timestamp != "" {
		lines = append(lines, "Date: "+textfmt.FormatTimestamp(meta.Timestamp))
	}
	if meta.SourceName != "" {
		lines = append(lines, "Source: "+meta.SourceName)
	}
	if meta.SourceKey != "" {
		lines = append(lines, "Source Key: "+meta.SourceKey)
	}
	if meta.URL != "" {
		lines = append(lines, "URL: "+meta.URL)
	}
	if meta.SourceRank != nil {
		lines = append(lines, fmt.Sprintf("Source Rank: %d", *meta.SourceRank))
	}
	if meta.DocumentScope != "" && meta.DocumentScope != "Unknown" {
		lines = append(lines, "Document Type: "+meta.DocumentScope)
	}
	if meta.Language != "" && meta.Language != "Unknown" {
		lines = append(lines, "Language: "+meta.Language)
	}
	if meta.DocumentID != "" {
		lines = append(lines, "Document ID: "+meta.DocumentID)
	}
	if meta.ChunkID != nil {
		lines = append(lines, fmt.Sprintf("Chunk ID: %d", *meta.ChunkID))
	}
	if len(lines) == 0 {
		lines = append(lines, "No additional metadata available")
	}
	return lines
}
