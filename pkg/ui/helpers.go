package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// FormatTimeRel returns a relative time string (e.g., "2h ago", "3d ago")
func FormatTimeRel(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	d := time.Since(t)
	if d < 0 {
		// Future timestamps treated as now
		return "now"
	}
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	default:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	}
}

// FormatValue renders a cent amount as dollars, e.g. 123456 -> "$1,234.56".
// Zero renders as blank.
func FormatValue(cents int64) string {
	if cents == 0 {
		return ""
	}
	neg := cents < 0
	if neg {
		cents = -cents
	}
	dollars := cents / 100
	rem := cents % 100

	s := fmt.Sprintf("%d", dollars)
	var grouped strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	out := fmt.Sprintf("$%s.%02d", grouped.String(), rem)
	if neg {
		return "-" + out
	}
	return out
}

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		// Even suffix is too wide, truncate suffix
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	targetWidth := maxWidth - suffixWidth
	return runewidth.Truncate(s, targetWidth, "") + suffix
}

// padRight pads string s with spaces on the right to length width
func padRight(s string, width int) string {
	runeCount := utf8.RuneCountInString(s)
	if runeCount >= width {
		return s
	}
	return s + strings.Repeat(" ", width-runeCount)
}

// truncate truncates string s to maxRunes
func truncate(s string, maxRunes int) string {
	return truncateRunesHelper(s, maxRunes, "…")
}

// highlightMatch styles the first case-insensitive occurrence of query inside
// name. The comparison is byte-offset safe for ASCII queries against UTF-8
// names because strings.Index on the lowered copies returns an offset valid
// in the original when the lowering is length-preserving; for the rare
// length-changing fold we fall back to the unstyled name.
func highlightMatch(name, query string, matchStyle func(string) string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return name
	}
	lowerName := strings.ToLower(name)
	lowerQ := strings.ToLower(q)
	if len(lowerName) != len(name) {
		return name
	}
	idx := strings.Index(lowerName, lowerQ)
	if idx < 0 {
		return name
	}
	end := idx + len(lowerQ)
	return name[:idx] + matchStyle(name[idx:end]) + name[end:]
}
