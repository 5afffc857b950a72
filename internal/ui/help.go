package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	items []key.Binding
}

// renderHelp renders the help overlay. Librarian-only sections are listed
// only for sessions that may use them.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	perms := m.permissions()
	k := m.keys

	sections := []helpSection{
		{title: "Navigation", items: []key.Binding{k.PageBooks, k.PageBorrowings, k.PageDashboard, k.Up, k.Down, k.Top, k.Bottom, k.Open, k.Escape}},
		{title: "Catalog", items: []key.Binding{k.Filter, k.ClearFilter, k.NextPage, k.PrevPage, k.Borrow}},
		{title: "Borrowings", items: []key.Binding{k.CycleScope, k.Renew, k.Return, k.Reload}},
	}
	if perms.MutateCatalog {
		sections = append(sections, helpSection{
			title: "Librarian",
			items: []key.Binding{k.Add, k.Edit, k.Delete, k.EditBook, k.DelBook},
		})
	}
	sections = append(sections, helpSection{
		title: "General",
		items: []key.Binding{k.Session, k.CycleTheme, k.Help, k.Quit},
	})

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			h := item.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	return placeModal(m.theme, b.String(), 40, m.width, m.height, m.theme.Accent)
}
