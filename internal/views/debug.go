package views

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/example/briefctl/internal/api"
)

// DebugView renders the novelty-filter trace. Sections default to collapsed;
// local UI state is the per-entity open flag.
type DebugView struct {
	open map[string]bool
}

func NewDebugView() *DebugView {
	return &DebugView{open: map[string]bool{}}
}

// ToggleEntity flips one entity section open or closed.
func (v *DebugView) ToggleEntity(entityID string) {
	v.open[entityID] = !v.open[entityID]
}

// RenderError writes the failure state for a debug fetch: a 404 means the
// feature was not enabled for this run, anything else is a transient
// transport problem.
func (v *DebugView) RenderError(w io.Writer, err error) {
	if errors.Is(err, api.ErrDebugNotFound) {
		fmt.Fprintln(w, "Debug Data Not Available")
		fmt.Fprintln(w, err.Error())
		fmt.Fprintln(w, "Debug data is only collected when novelty filtering is enabled.")
		return
	}
	fmt.Fprintln(w, "Failed to load debug data")
	fmt.Fprintln(w, err.Error())
	fmt.Fprintln(w, "This looks like a temporary failure; try again.")
}

// Render writes the debug tab: one collapsible section per entity with the
// four decision bins.
func (v *DebugView) Render(w io.Writer, data *api.DebugData) {
	if data == nil || len(data.Entities) == 0 {
		fmt.Fprintln(w, "No debug data available (novelty filtering may have been disabled)")
		return
	}
	ids := make([]string, 0, len(data.Entities))
	for id := range data.Entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		v.renderEntity(w, id, data.Entities[id])
	}
}

func (v *DebugView) renderEntity(w io.Writer, entityID string, e api.DebugEntity) {
	name := e.EntityName
	if name == "" {
		name = entityID
	}
	marker := "+"
	if v.open[entityID] {
		marker = "-"
	}
	fmt.Fprintf(w, "[%s] %s (%s)  Generated: %d | Compared: %d | Discarded: %d | Kept: %d\n",
		marker, color.New(color.Bold).Sprint(name), entityID,
		len(e.GeneratedTexts), len(e.ComparedWith), len(e.Discarded), len(e.KeptTexts))
	if !v.open[entityID] {
		return
	}

	renderBin(w, fmt.Sprintf("Generated Texts (%d)", len(e.GeneratedTexts)), e.GeneratedTexts, "No generated texts")
	renderBin(w, fmt.Sprintf("Compared With (%d)", len(e.ComparedWith)), e.ComparedWith, "No previous embeddings found in database")
	v.renderDiscardedBin(w, e.Discarded)
	renderBin(w, fmt.Sprintf("Kept (%d)", len(e.KeptTexts)), e.KeptTexts, "No texts survived filtering")
	fmt.Fprintln(w)
}

func renderBin(w io.Writer, title string, texts []string, empty string) {
	fmt.Fprintf(w, "    %s\n", title)
	if len(texts) == 0 {
		fmt.Fprintf(w, "        %s\n", empty)
		return
	}
	for i, text := range texts {
		fmt.Fprintf(w, "        %d. %s\n", i+1, text)
	}
}

func (v *DebugView) renderDiscardedBin(w io.Writer, discarded []api.DebugDiscarded) {
	fmt.Fprintf(w, "    Discarded (%d)\n", len(discarded))
	if len(discarded) == 0 {
		fmt.Fprintln(w, "        All generated texts were novel!")
		return
	}
	for i, d := range discarded {
		fmt.Fprintf(w, "        %d. %s\n", i+1, d.Text)
		fmt.Fprintf(w, "           Similarity: %.2f%%\n", d.MaxSimilarity*100)
		if d.MostSimilarText != "" {
			fmt.Fprintf(w, "           Closest match: %s\n", d.MostSimilarText)
		}
	}
}
