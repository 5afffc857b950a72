package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/intent"
	"github.com/five82/folio/internal/library"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmMsg carries the answer to a confirmation modal.
type confirmMsg struct {
	key intent.Key
	ok  bool
}

// filterMsg carries catalog filters applied from the filter modal.
type filterMsg struct {
	query library.BookQuery
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// confirmWidth fits the longest confirm prompt on one line inside the
// modal padding.
const confirmWidth = 56

// confirmModal asks before a destructive intent is issued.
type confirmModal struct {
	key    intent.Key
	detail string
}

func newConfirmModal(k intent.Key, detail string) confirmModal {
	return confirmModal{key: k, detail: strings.TrimSpace(detail)}
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Yes):
		return c, emit(confirmMsg{key: c.key, ok: true}), true
	case key.Matches(km, keys.No):
		return c, emit(confirmMsg{key: c.key}), true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.WarningText.Bold(true).Render("Confirm"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 36)))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(c.key.Action.ConfirmPrompt()))
	if c.detail != "" {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(truncate(c.detail, confirmWidth-8)))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("y") + styles.MutedText.Render(" confirm   "))
	b.WriteString(styles.AccentText.Render("n/esc") + styles.MutedText.Render(" cancel"))

	return placeModal(theme, b.String(), confirmWidth, width, height, theme.Danger)
}

// filterModal edits the catalog filters.
type filterModal struct {
	form form
}

func newFilterModal(current library.BookQuery) filterModal {
	f := newForm(
		newTextField("title", "Title", "e.g. dune", false),
		newTextField("author", "Author", "e.g. herbert", false),
		newTextField("genre", "Genre", "e.g. science fiction", false),
	)
	f.set("title", current.Title)
	f.set("author", current.Author)
	f.set("genre", current.Genre)
	return filterModal{form: f}
}

func (m filterModal) query() library.BookQuery {
	return library.BookQuery{
		Title:  m.form.value("title"),
		Author: m.form.value("author"),
		Genre:  m.form.value("genre"),
	}
}

func (m filterModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}
	switch {
	case key.Matches(km, keys.Escape):
		return m, nil, true
	case key.Matches(km, keys.Submit):
		return m, emit(filterMsg{query: m.query()}), true
	}
	cmd := m.form.update(km, keys)
	return m, cmd, false
}

func (m filterModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Catalog Filters"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 48)))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Leave blank to disable a filter."))
	b.WriteString("\n\n")
	b.WriteString(m.form.view(styles, 10))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("enter") + styles.MutedText.Render(" apply   "))
	b.WriteString(styles.AccentText.Render("tab") + styles.MutedText.Render(" next   "))
	b.WriteString(styles.AccentText.Render("esc") + styles.MutedText.Render(" cancel"))

	return placeModal(theme, b.String(), 56, width, height, theme.Accent)
}

// placeModal centers content in a rounded border over the screen.
func placeModal(theme Theme, content string, modalWidth, width, height int, border string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(modalWidth)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
