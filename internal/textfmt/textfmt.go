// textfmt.go holds the small string transforms shared by every brief renderer.
package textfmt

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// FormatIntroduction normalizes the free-text introduction of a brief:
// leading '*' bullet markers are stripped per line and **bold** spans are
// rendered with terminal emphasis.
func FormatIntroduction(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimLeft(strings.TrimPrefix(strings.TrimLeft(line, " \t"), "*"), " ")
		out = append(out, RenderBold(trimmed))
	}
	return strings.Join(out, "\n")
}

// RenderBold replaces **span** markup with ANSI bold. Unbalanced markers are
// left untouched.
func RenderBold(text string) string {
	var b strings.Builder
	rest := text
	for {
		start := strings.Index(rest, "**")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+2:], "**")
		if end < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		b.WriteString(color.New(color.Bold).Sprint(rest[start+2 : start+2+end]))
		rest = rest[start+2+end+2:]
	}
	return b.String()
}

// FormatTimestamp renders a backend timestamp for display. Values that do not
// parse as RFC 3339 are passed through unchanged.
func FormatTimestamp(ts string) string {
	if ts == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, ts); err == nil {
			return parsed.Format("2006-01-02 15:04")
		}
	}
	return ts
}

// DateOnly trims an ISO timestamp down to its date part.
func DateOnly(ts string) string {
	if idx := strings.IndexByte(ts, 'T'); idx >= 0 {
		return ts[:idx]
	}
	return ts
}

// KeyLabel turns a snake_case or camelCase field key into a display label.
// "id" is special-cased because it reads as the entity identifier.
func KeyLabel(key string) string {
	if key == "id" {
		return "Entity ID"
	}
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range key {
		switch {
		case r == '_' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// SpaceCommas inserts a space after bare commas so packed values like
// "a,b,c" read naturally.
func SpaceCommas(v string) string {
	if !strings.Contains(v, ",") {
		return v
	}
	return strings.ReplaceAll(strings.ReplaceAll(v, ", ", ","), ",", ", ")
}

// SanitizeID reduces an arbitrary identifier to [a-zA-Z0-9-] so it can be
// used as a deterministic section key.
func SanitizeID(id string) string {
	var b strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) && r < 128 {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Truncate clips text to the given display width, appending "..." when it
// had to cut.
func Truncate(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= 3 {
		return runewidth.Truncate(text, width, "")
	}
	return runewidth.Truncate(text, width, "...")
}

// Percent renders a ratio as a rounded percentage string.
func Percent(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(part)/float64(total)*100)
}

// Plural appends "s" to a noun unless the count is exactly one.
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
