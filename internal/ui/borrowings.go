package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/apperr"
	"github.com/five82/folio/internal/borrowing"
	"github.com/five82/folio/internal/intent"
	"github.com/five82/folio/internal/library"
)

// borrowingsState holds the borrowings page. Only raw records are kept;
// classification happens against the clock on every use.
type borrowingsState struct {
	records  []library.Borrowing
	scope    borrowing.Scope
	selected int
	loading  bool
	loaded   bool
	err      string
}

func (s borrowingsState) entries(now time.Time) []borrowing.Entry {
	return borrowing.View(s.records, s.scope, now)
}

func (m Model) selectedEntry() (borrowing.Entry, bool) {
	entries := m.borrowings.entries(m.now())
	if len(entries) == 0 {
		return borrowing.Entry{}, false
	}
	return entries[clampIndex(m.borrowings.selected, len(entries))], true
}

func (m Model) handleBorrowingsLoaded(msg borrowingsLoadedMsg) (Model, tea.Cmd) {
	if m.stale(msg.gen, "borrowings") {
		return m, nil
	}
	m.borrowings.loading = false
	if msg.err != nil {
		m.borrowings.err = apperr.UserMessage(msg.err, "Failed to load borrowings")
		return m.handleRemoteError(msg.err, "Failed to load borrowings")
	}
	m.borrowings.err = ""
	m.borrowings.loaded = true
	m.borrowings.records = msg.records
	m.borrowings.selected = clampIndex(m.borrowings.selected, len(m.borrowings.entries(m.now())))
	return m, nil
}

func (m Model) handleBorrowingsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	count := len(m.borrowings.entries(m.now()))
	perms := m.permissions()

	switch {
	case key.Matches(msg, m.keys.Down):
		m.borrowings.selected = clampIndex(m.borrowings.selected+1, count)
	case key.Matches(msg, m.keys.Up):
		m.borrowings.selected = clampIndex(m.borrowings.selected-1, count)
	case key.Matches(msg, m.keys.Top):
		m.borrowings.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.borrowings.selected = clampIndex(count-1, count)

	case key.Matches(msg, m.keys.CycleScope):
		m.borrowings.scope = m.borrowings.scope.Next()
		m.borrowings.selected = 0
		m.prefs.Scope = m.borrowings.scope
		m.savePrefs()

	case key.Matches(msg, m.keys.Reload):
		return m.reload()

	case key.Matches(msg, m.keys.Renew):
		entry, ok := m.selectedEntry()
		if !ok || !perms.ViewOwnBorrowings {
			return m, nil
		}
		if entry.Status == borrowing.StatusReturned {
			m.setFlash(flashInfo, "This book has already been returned")
			return m, nil
		}
		return m.requestIntent(intent.Key{Action: intent.Renew, ID: entry.Record.ID}, entry.Record.Title())

	case key.Matches(msg, m.keys.Return):
		entry, ok := m.selectedEntry()
		if !ok || !(perms.ViewOwnBorrowings || perms.ForceReturnCopy) {
			return m, nil
		}
		if entry.Status == borrowing.StatusReturned {
			m.setFlash(flashInfo, "This book has already been returned")
			return m, nil
		}
		return m.requestIntent(intent.Key{Action: intent.Return, ID: entry.Record.ID}, entry.Record.Title())
	}
	return m, nil
}

func (m Model) renderBorrowings(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	now := m.now()
	perms := m.permissions()
	entries := m.borrowings.entries(now)

	title := "My Borrowings"
	if perms.ViewAllBorrowings {
		title = "All Borrowings"
	}
	title = fmt.Sprintf("%s (%d) · %s", title, len(entries), m.borrowings.scope.Label())

	rows := height - 2
	var lines []string
	switch {
	case !m.borrowings.loaded && m.borrowings.err != "":
		lines = append(lines, styles.DangerText.Render(m.borrowings.err))
	case !m.borrowings.loaded:
		lines = append(lines, styles.MutedText.Render("Loading borrowings..."))
	case len(entries) == 0:
		lines = append(lines, styles.MutedText.Render("No borrowings found"))
	default:
		lines = m.borrowingRows(styles, entries, now, width-2, rows-1, perms.ViewAllBorrowings)
	}

	sum := borrowing.Summarize(m.borrowings.records, now)
	footer := fmt.Sprintf("%d total · %d active · %d overdue · %d returned", sum.Total, sum.Active, sum.Overdue, sum.Returned)
	if m.borrowings.loading && m.borrowings.loaded {
		footer += " · refreshing..."
	}
	return m.renderTitledBox(title, strings.Join(fitLines(lines, rows, styles.MutedText.Render(footer)), "\n"), width, height, true)
}

func (m Model) borrowingRows(styles Styles, entries []borrowing.Entry, now time.Time, width, height int, showBorrower bool) []string {
	showBorrower = showBorrower && m.width >= LayoutWideWidth
	titleW := max(width/3, 16)
	dueW := 36

	start := windowStart(m.borrowings.selected, len(entries), height)
	end := min(start+height, len(entries))
	var out []string
	for i := start; i < end; i++ {
		e := entries[i]
		rec := e.Record

		marker := "  "
		if i == m.borrowings.selected {
			marker = "▸ "
		}

		book := truncate(rec.Title()+" by "+rec.Author(), titleW)
		due := "No due date"
		if e.HasDue {
			due = fmt.Sprintf("Due %s (%s)", e.Due.Format("Jan 2, 2006"), relativeDue(e.Due, now))
		}
		text := padRight(book, titleW) + "  " + padRight(due, dueW)
		if showBorrower {
			text += "  " + padRight(truncate(rec.Borrower(), 20), 20)
		}

		line := styles.AccentText.Render(marker)
		if i == m.borrowings.selected {
			line += styles.Selected.Render(text)
		} else {
			line += styles.Text.Render(text)
		}
		line += " " + styles.StatusStyle(string(e.Status)).Render(e.Status.Label())
		if rec.Renewed() {
			line += " " + styles.InfoText.Render("renewed")
		}
		switch {
		case m.tracker.Pending(intent.Key{Action: intent.Renew, ID: rec.ID}):
			line += " " + styles.WarningText.Render("renewing...")
		case m.tracker.Pending(intent.Key{Action: intent.Return, ID: rec.ID}):
			line += " " + styles.WarningText.Render("returning...")
		}
		out = append(out, line)
	}
	return out
}
