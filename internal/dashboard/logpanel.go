package dashboard

import (
	"strings"
	"sync"

	"github.com/fatih/color"
)

const defaultLogCapacity = 200

// LogPanel keeps the backend's generation log lines plus any locally
// appended notes, colorized by a keyword sniff the way the backend itself
// classifies them. The backend resends the whole log on every poll, so
// Replace is the normal feed and Append only carries local events.
type LogPanel struct {
	mu     sync.Mutex
	server []string
	local  []string
	max    int
}

func NewLogPanel(max int) *LogPanel {
	if max <= 0 {
		max = defaultLogCapacity
	}
	return &LogPanel{max: max}
}

// Replace swaps in the full server-side log from the latest poll.
func (p *LogPanel) Replace(lines []string) {
	p.mu.Lock()
	p.server = append([]string(nil), lines...)
	if len(p.server) > p.max {
		p.server = p.server[len(p.server)-p.max:]
	}
	p.mu.Unlock()
}

// Append adds a client-side line, such as a transient poll failure.
func (p *LogPanel) Append(line string) {
	p.mu.Lock()
	p.local = append(p.local, line)
	if len(p.local) > p.max {
		p.local = p.local[len(p.local)-p.max:]
	}
	p.mu.Unlock()
}

// Lines returns the colorized panel content, server log first.
func (p *LogPanel) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.server)+len(p.local))
	for _, line := range p.server {
		out = append(out, colorizeLogLine(line))
	}
	for _, line := range p.local {
		out = append(out, colorizeLogLine(line))
	}
	return out
}

func colorizeLogLine(line string) string {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "error") || strings.Contains(lower, "failed"):
		return color.New(color.FgRed).Sprint(line)
	case strings.Contains(lower, "complete") || strings.Contains(lower, "success") || strings.Contains(lower, "finished"):
		return color.New(color.FgGreen).Sprint(line)
	case strings.Contains(lower, "info") || strings.Contains(lower, "starting") || strings.Contains(lower, "generating"):
		return color.New(color.FgBlue).Sprint(line)
	default:
		return line
	}
}
