// Package views renders the dashboard tabs. Every renderer derives its whole
// output from the current report plus its own small UI state; rendering twice
// with the same inputs produces identical output.
package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/example/briefctl/internal/brief"
	"github.com/example/briefctl/internal/textfmt"
)

// Overview is a pure projection of the report header: title, introduction
// and the novelty flag. It keeps no local UI state.
type Overview struct {
	// Markdown renders the introduction through a terminal markdown
	// renderer instead of the plain formatter.
	Markdown bool
	Width    int
}

// Render writes the overview tab.
func (v *Overview) Render(w io.Writer, r *brief.Report) {
	if r == nil {
		fmt.Fprintln(w, "No report loaded.")
		return
	}
	if r.ReportTitle != "" {
		fmt.Fprintln(w, color.New(color.Bold).Sprint(r.ReportTitle))
		fmt.Fprintln(w)
	}
	if r.WatchlistName != "" || r.StartDate != "" {
		var parts []string
		if r.WatchlistName != "" {
			parts = append(parts, r.WatchlistName)
		}
		if r.StartDate != "" || r.EndDate != "" {
			parts = append(parts, fmt.Sprintf("%s - %s", textfmt.DateOnly(r.StartDate), textfmt.DateOnly(r.EndDate)))
		}
		fmt.Fprintln(w, color.New(color.Faint).Sprint(strings.Join(parts, " · ")))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Summary")
	if r.Introduction == "" {
		fmt.Fprintln(w, "  No summary available for this brief.")
	} else {
		fmt.Fprintln(w, indent(v.renderIntroduction(r.Introduction), "  "))
	}
	fmt.Fprintln(w)

	novelty := "Disabled"
	if r.Novelty {
		novelty = "Enabled"
	}
	fmt.Fprintf(w, "Novelty filter: %s\n", novelty)
}

func (v *Overview) renderIntroduction(text string) string {
	if v.Markdown && !color.NoColor {
		width := v.Width
		if width <= 0 {
			width = 100
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			if out, err := renderer.Render(text); err == nil {
				return strings.TrimRight(out, "\n")
			}
		}
	}
	return textfmt.FormatIntroduction(text)
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
