package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/folio/internal/borrowing"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given display width. Wide runes
// count as two cells.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// orDash returns value, or "-" when it is blank.
func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return strings.TrimSpace(value)
}

// formatDate renders a service date as "Jan 2, 2006", or the raw string when
// it cannot be parsed.
func formatDate(raw string) string {
	t, ok := borrowing.ParseDue(raw)
	if !ok {
		return orDash(raw)
	}
	return t.Format("Jan 2, 2006")
}

// relativeDue renders due relative to now ("3 days ago", "2 weeks from now").
func relativeDue(due, now time.Time) string {
	return humanize.RelTime(due, now, "ago", "from now")
}

// clampIndex keeps a selection inside [0, n).
func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// windowStart returns the first visible row so that selected stays inside a
// window of height rows.
func windowStart(selected, total, height int) int {
	if height <= 0 || total <= height {
		return 0
	}
	start := selected - height/2
	if start < 0 {
		start = 0
	}
	if start > total-height {
		start = total - height
	}
	return start
}
