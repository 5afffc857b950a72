package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/apperr"
	"github.com/five82/folio/internal/borrowing"
	"github.com/five82/folio/internal/library"
)

// dashboardState holds the dashboard page. Members see the service's
// dashboard; librarians see a summary of every borrowing.
type dashboardState struct {
	librarian bool
	data      library.Dashboard
	records   []library.Borrowing
	loading   bool
	loaded    bool
	err       string
	viewport  viewport.Model
}

func newDashboardState() dashboardState {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle()
	return dashboardState{viewport: vp}
}

func (m Model) handleDashboardLoaded(msg dashboardLoadedMsg) (Model, tea.Cmd) {
	if m.stale(msg.gen, "dashboard") {
		return m, nil
	}
	m.dashboard.loading = false
	if msg.err != nil {
		m.dashboard.err = apperr.UserMessage(msg.err, "Failed to load dashboard")
		return m.handleRemoteError(msg.err, "Failed to load dashboard")
	}
	m.dashboard.err = ""
	m.dashboard.loaded = true
	m.dashboard.librarian = msg.librarian
	m.dashboard.data = msg.dashboard
	m.dashboard.records = msg.records
	m.syncDashboard()
	return m, nil
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	case key.Matches(msg, m.keys.Down):
		m.dashboard.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.dashboard.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.dashboard.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.dashboard.viewport.GotoBottom()
	}
	return m, nil
}

// syncDashboard sizes the viewport to the screen and re-renders its content.
func (m *Model) syncDashboard() {
	m.dashboard.viewport.Width = max(m.width-4, 0)
	m.dashboard.viewport.Height = max(m.height-chromeHeight-2, 0)
	m.dashboard.viewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.dashboard.viewport.SetContent(m.dashboardBody())
}

func (m Model) dashboardBody() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	d := m.dashboard
	switch {
	case !d.loaded && d.err != "":
		return styles.DangerText.Render(d.err)
	case !d.loaded:
		return styles.MutedText.Render("Loading dashboard...")
	case d.librarian:
		return m.librarianDashboard(styles)
	default:
		return m.memberDashboard(styles)
	}
}

func (m Model) memberDashboard(styles Styles) string {
	d := m.dashboard.data
	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render("Your borrowed books"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%d borrowed · %d overdue", len(d.BorrowedBooks), d.TotalOverdue)))
	b.WriteString("\n\n")

	if len(d.BorrowedBooks) == 0 {
		b.WriteString(styles.MutedText.Render("You have no borrowed books."))
		return b.String()
	}
	for _, entry := range d.BorrowedBooks {
		b.WriteString(styles.Text.Render("• " + padRight(truncate(entry.Title, 40), 42)))
		b.WriteString(styles.MutedText.Render("due " + formatDate(entry.DueDate)))
		switch {
		case entry.Returned:
			b.WriteString(" " + styles.StatusStyle(string(borrowing.StatusReturned)).Render(borrowing.StatusReturned.Label()))
		case entry.Overdue:
			b.WriteString(" " + styles.StatusStyle(string(borrowing.StatusOverdue)).Render(borrowing.StatusOverdue.Label()))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) librarianDashboard(styles Styles) string {
	now := m.now()
	sum := borrowing.Summarize(m.dashboard.records, now)
	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render("Library overview"))
	b.WriteString("\n\n")
	stat := func(label string, value int, style lipgloss.Style) {
		b.WriteString(styles.MutedText.Render(padRight(label, 12)))
		b.WriteString(style.Render(fmt.Sprintf("%d", value)))
		b.WriteString("\n")
	}
	stat("Borrowings", sum.Total, styles.Text)
	stat("Active", sum.Active, styles.InfoText)
	stat("Overdue", sum.Overdue, styles.DangerText)
	stat("Returned", sum.Returned, styles.MutedText)
	b.WriteString("\n")

	overdue := borrowing.View(m.dashboard.records, borrowing.ScopeOverdue, now)
	b.WriteString(styles.AccentText.Bold(true).Render("Overdue"))
	b.WriteString("\n")
	if len(overdue) == 0 {
		b.WriteString(styles.MutedText.Render("Nothing is overdue."))
		return b.String()
	}
	for _, e := range overdue {
		line := "• " + padRight(truncate(e.Record.Title(), 36), 38) + padRight(truncate(e.Record.Borrower(), 24), 26)
		b.WriteString(styles.Text.Render(line))
		b.WriteString(styles.DangerText.Render(fmt.Sprintf("due %s (%s)", e.Due.Format("Jan 2, 2006"), relativeDue(e.Due, now))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDashboard(width, height int) string {
	title := "Dashboard"
	if m.dashboard.loading && m.dashboard.loaded {
		title += " · refreshing"
	}
	return m.renderTitledBox(title, m.dashboard.viewport.View(), width, height, true)
}
