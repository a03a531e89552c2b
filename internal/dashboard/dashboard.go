// Package dashboard composes the report store, the tab controller and the
// view renderers into a single full-replace terminal console.
package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/example/briefctl/internal/api"
	"github.com/example/briefctl/internal/brief"
	"github.com/example/briefctl/internal/store"
	"github.com/example/briefctl/internal/tabs"
	"github.com/example/briefctl/internal/views"
)

type Options struct {
	Width    int
	Markdown bool
}

type consoleSection struct {
	name  string
	lines []string
}

// Dashboard owns the terminal surface. All state changes funnel through its
// mutex and end in a section-diff redraw, so a render at any point is a pure
// function of the loaded report plus the local view state.
type Dashboard struct {
	out  io.Writer
	opts Options
	log  *zap.Logger

	store *store.Store
	tabs  *tabs.Controller

	overview  *views.Overview
	companies *views.CompanyBrowser
	audit     *views.AuditTable
	debug     *views.DebugView
	logs      *LogPanel

	mu         sync.Mutex
	bodies     map[string]string
	debugData  *api.DebugData
	debugErr   error
	status     string
	requestID  string
	cursor     int
	sections   []consoleSection
	totalLines int
}

func New(out io.Writer, st *store.Store, tc *tabs.Controller, opts Options, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dashboard{
		out:       out,
		opts:      opts,
		log:       logger,
		store:     st,
		tabs:      tc,
		overview:  &views.Overview{Markdown: opts.Markdown, Width: opts.Width},
		companies: views.NewCompanyBrowser(),
		audit:     views.NewAuditTable(),
		debug:     views.NewDebugView(),
		logs:      NewLogPanel(0),
		bodies:    map[string]string{},
	}
	st.Subscribe(d.onReport)
	tc.Subscribe(d.onTab)
	return d
}

func (d *Dashboard) Logs() *LogPanel { return d.logs }

// onReport repaints the report-driven views in a fixed order whenever the
// store replaces the report. The debug body stays untouched: it is fed by
// its own endpoint, not by the report.
func (d *Dashboard) onReport(ev store.Event) {
	d.mu.Lock()
	d.requestID = ev.RequestID
	if ev.Report != nil {
		d.log.Debug("report loaded",
			zap.String("request_id", ev.RequestID),
			zap.Int("entities", len(ev.Report.EntityReports)))
	}
	d.paintLocked(tabs.Overview, ev.Report)
	d.paintLocked(tabs.Companies, ev.Report)
	d.paintLocked(tabs.Audit, ev.Report)
	d.renderLocked()
	d.mu.Unlock()
}

// onTab repaints the newly active view from current state. A view whose
// first paint was skipped (no report yet, or debug data still loading)
// gets its retry here.
func (d *Dashboard) onTab(tab string) {
	d.mu.Lock()
	report, _ := d.store.Current()
	d.paintLocked(tab, report)
	d.renderLocked()
	d.mu.Unlock()
}

// OnSnapshot feeds poll progress into the log panel while a brief is being
// generated. New backend log lines append; the terminal status line updates
// in place.
func (d *Dashboard) OnSnapshot(snap *api.StatusSnapshot) {
	d.mu.Lock()
	d.status = snap.Status
	d.requestID = snap.RequestID
	d.logs.Replace(snap.Logs)
	d.renderLocked()
	d.mu.Unlock()
}

// OnPollError surfaces a transient poll failure without disturbing the rest
// of the console.
func (d *Dashboard) OnPollError(err error) {
	d.mu.Lock()
	d.logs.Append(fmt.Sprintf("poll error: %v", err))
	d.renderLocked()
	d.mu.Unlock()
}

// SetDebug records the debug endpoint result and repaints the debug tab if
// it is the one on screen.
func (d *Dashboard) SetDebug(data *api.DebugData, err error) {
	d.mu.Lock()
	d.debugData = data
	d.debugErr = err
	if d.tabs.Current() == tabs.Debug {
		d.paintLocked(tabs.Debug, nil)
		d.renderLocked()
	}
	d.mu.Unlock()
}

// Activate switches tabs; the controller notification triggers the repaint.
func (d *Dashboard) Activate(tab string) error {
	return d.tabs.Activate(tab)
}

// SetFilter narrows the companies list and clamps the cursor back into the
// filtered range.
func (d *Dashboard) SetFilter(term string) {
	d.mu.Lock()
	d.companies.SetFilter(term)
	d.cursor = 0
	report, _ := d.store.Current()
	d.paintLocked(tabs.Companies, report)
	d.renderLocked()
	d.mu.Unlock()
}

// MoveCursor advances the selection on the active tab: the company cursor on
// Companies, the entity selector on Audit.
func (d *Dashboard) MoveCursor(delta int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	report, _ := d.store.Current()
	switch d.tabs.Current() {
	case tabs.Companies:
		if report == nil {
			return
		}
		filtered := d.companies.Filtered(report)
		if len(filtered) == 0 {
			return
		}
		d.cursor = ((d.cursor+delta)%len(filtered) + len(filtered)) % len(filtered)
		d.paintLocked(tabs.Companies, report)
	case tabs.Audit:
		if report == nil {
			return
		}
		ids := entityIDs(report)
		if len(ids) == 0 {
			return
		}
		cur := d.audit.Selected(report)
		idx := 0
		for i, id := range ids {
			if id == cur {
				idx = i
				break
			}
		}
		d.audit.Select(ids[(idx+delta+len(ids))%len(ids)])
		d.paintLocked(tabs.Audit, report)
	case tabs.Debug:
		if d.debugData == nil {
			return
		}
		ids := debugEntityIDs(d.debugData)
		if len(ids) == 0 {
			return
		}
		d.cursor = ((d.cursor+delta)%len(ids) + len(ids)) % len(ids)
		d.paintLocked(tabs.Debug, nil)
	default:
		return
	}
	d.renderLocked()
}

// ToggleCurrent expands or collapses whatever the cursor points at.
func (d *Dashboard) ToggleCurrent() {
	d.mu.Lock()
	defer d.mu.Unlock()
	report, _ := d.store.Current()
	switch d.tabs.Current() {
	case tabs.Companies:
		if report == nil {
			return
		}
		filtered := d.companies.Filtered(report)
		if d.cursor < len(filtered) {
			d.companies.ToggleEntity(filtered[d.cursor].EntityID)
			d.paintLocked(tabs.Companies, report)
		}
	case tabs.Debug:
		if d.debugData == nil {
			return
		}
		ids := debugEntityIDs(d.debugData)
		if len(ids) == 0 {
			return
		}
		// The cursor may still point past this list after a tab switch.
		if d.cursor >= len(ids) {
			d.cursor = 0
		}
		d.debug.ToggleEntity(ids[d.cursor])
		d.paintLocked(tabs.Debug, nil)
	default:
		return
	}
	d.renderLocked()
}

// Render forces a full repaint from current state.
func (d *Dashboard) Render() {
	d.mu.Lock()
	report, _ := d.store.Current()
	d.paintLocked(d.tabs.Current(), report)
	d.renderLocked()
	d.mu.Unlock()
}

// Done clears the console region, leaving the scrollback untouched.
func (d *Dashboard) Done() {
	d.mu.Lock()
	if d.totalLines > 0 {
		fmt.Fprintf(d.out, "\x1b[%dF\x1b[J", d.totalLines)
		d.totalLines = 0
		d.sections = nil
	}
	d.mu.Unlock()
}

func (d *Dashboard) paintLocked(tab string, report *brief.Report) {
	var buf bytes.Buffer
	switch tab {
	case tabs.Overview:
		if report == nil {
			return
		}
		d.overview.Render(&buf, report)
	case tabs.Companies:
		if report == nil {
			return
		}
		d.companies.Render(&buf, report)
	case tabs.Audit:
		if report == nil {
			return
		}
		d.audit.Render(&buf, report)
	case tabs.Debug:
		if d.debugErr != nil {
			d.debug.RenderError(&buf, d.debugErr)
		} else if d.debugData != nil {
			d.debug.Render(&buf, d.debugData)
		} else {
			fmt.Fprintln(&buf, "Loading debug data...")
		}
	default:
		return
	}
	d.bodies[tab] = buf.String()
}

func (d *Dashboard) renderLocked() {
	if d.out == nil {
		return
	}
	d.applyDiffLocked(d.buildSectionsLocked())
}

func (d *Dashboard) buildSectionsLocked() []consoleSection {
	sections := []consoleSection{
		{name: "header", lines: d.headerLines()},
		{name: "tabs", lines: []string{d.tabBarLine()}},
	}
	body := d.bodies[d.tabs.Current()]
	if body == "" {
		body = "Waiting for report...\n"
	}
	sections = append(sections, consoleSection{name: "body", lines: splitLines(body)})
	if lines := d.logs.Lines(); len(lines) > 0 {
		sections = append(sections, consoleSection{name: "logs", lines: append([]string{"Generation Log"}, lines...)})
	}
	return sections
}

func (d *Dashboard) headerLines() []string {
	title := color.New(color.Bold).Sprint("Brief Dashboard")
	sub := []string{}
	if d.requestID != "" {
		sub = append(sub, fmt.Sprintf("Request=%s", d.requestID))
	}
	if d.status != "" {
		sub = append(sub, fmt.Sprintf("Status=%s", d.status))
	}
	lines := []string{title}
	if len(sub) > 0 {
		lines = append(lines, color.New(color.Faint).Sprint(strings.Join(sub, " · ")))
	}
	return lines
}

func (d *Dashboard) tabBarLine() string {
	names := d.tabs.Names()
	parts := make([]string, 0, len(names))
	for i, name := range names {
		label := fmt.Sprintf("[%d] %s", i+1, titleCase(name))
		if name == d.tabs.Current() {
			label = color.New(color.Bold, color.Underline).Sprint(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func (d *Dashboard) applyDiffLocked(newSections []consoleSection) {
	newTotal := countLines(newSections)
	if len(d.sections) == 0 {
		d.writeSections(newSections)
		d.sections = cloneSections(newSections)
		d.totalLines = newTotal
		return
	}
	idx := diffIndex(d.sections, newSections)
	if idx == -1 && newTotal == d.totalLines {
		return
	}
	if idx == -1 {
		idx = len(newSections)
	}
	linesBelow := d.totalLines - countLines(d.sections[:idx])
	if linesBelow > 0 {
		fmt.Fprintf(d.out, "\x1b[%dF", linesBelow)
	}
	fmt.Fprint(d.out, "\x1b[J")
	d.writeSections(newSections[idx:])
	d.sections = cloneSections(newSections)
	d.totalLines = newTotal
}

func (d *Dashboard) writeSections(sections []consoleSection) {
	for _, section := range sections {
		for _, line := range section.lines {
			fmt.Fprintf(d.out, "%s\x1b[K\n", line)
		}
	}
}

func entityIDs(r *brief.Report) []string {
	ids := make([]string, 0, len(r.EntityReports))
	for _, e := range r.EntityReports {
		ids = append(ids, e.EntityID)
	}
	return ids
}

func debugEntityIDs(data *api.DebugData) []string {
	ids := make([]string, 0, len(data.Entities))
	for id := range data.Entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func countLines(sections []consoleSection) int {
	n := 0
	for _, s := range sections {
		n += len(s.lines)
	}
	return n
}

func cloneSections(sections []consoleSection) []consoleSection {
	out := make([]consoleSection, len(sections))
	for i, s := range sections {
		out[i] = consoleSection{name: s.name, lines: append([]string(nil), s.lines...)}
	}
	return out
}

// diffIndex returns the first section whose content differs, or -1 when the
// two snapshots are identical.
func diffIndex(prev, next []consoleSection) int {
	for i, section := range next {
		if i >= len(prev) || !sameSection(prev[i], section) {
			return i
		}
	}
	if len(prev) > len(next) {
		return len(next)
	}
	return -1
}

func sameSection(a, b consoleSection) bool {
	if a.name != b.name || len(a.lines) != len(b.lines) {
		return false
	}
	for i := range a.lines {
		if a.lines[i] != b.lines[i] {
			return false
		}
	}
	return true
}
