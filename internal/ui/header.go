package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: logo, page, session and flash.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{
		bg.Render("folio", styles.Logo),
		bg.Render(m.page.String(), styles.Text.Bold(true)),
	}

	sess := m.session.Current()
	if sess.Authenticated() {
		who := sess.Name
		if who == "" {
			who = sess.Email
		}
		if who == "" {
			who = "Signed in"
		}
		parts = append(parts,
			bg.Render("●", styles.SuccessText)+bg.Space()+
				bg.Render(truncate(who, 24), styles.Text)+bg.Space()+
				bg.Render(m.subject().Role.String(), styles.MutedText))
	} else {
		parts = append(parts, bg.Render("○ Guest", styles.MutedText))
	}

	if n := m.tracker.Count(); n > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("⟳ %d in flight", n), styles.WarningText))
	}

	if f, ok := m.activeFlash(); ok {
		style := styles.InfoText
		switch f.level {
		case flashSuccess:
			style = styles.SuccessText
		case flashError:
			style = styles.DangerText
		}
		limit := max(m.width-lipgloss.Width(bg.Join(parts, "  "))-6, 12)
		parts = append(parts, bg.Render(truncate(f.text, limit), style))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the key hints for the current page. Controls the
// session may not use are not shown.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	perms := m.permissions()

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.page {
	case PageBook:
		commands = []cmd{{"j/k", "Navigate"}}
		if perms.BorrowCopy {
			commands = append(commands, cmd{"b", "Borrow"})
		}
		if perms.MutateCatalog {
			commands = append(commands, cmd{"a", "Add copy"}, cmd{"e", "Edit copy"})
		}
		if perms.DeleteCopy {
			commands = append(commands, cmd{"x", "Delete copy"})
		}
		if perms.MutateCatalog {
			commands = append(commands, cmd{"E", "Edit book"}, cmd{"D", "Delete book"})
		}
		commands = append(commands, cmd{"esc", "Books"})
	case PageBorrowings:
		commands = []cmd{
			{"f", "Scope: " + m.borrowings.scope.Label()},
			{"j/k", "Navigate"},
			{"r", "Renew"},
			{"x", "Return"},
			{"R", "Reload"},
		}
	case PageDashboard:
		commands = []cmd{{"j/k", "Scroll"}, {"R", "Reload"}}
	case PageBookForm, PageCopyForm:
		commands = []cmd{{"enter", "Save"}, {"tab", "Next field"}, {"esc", "Cancel"}}
	case PageLogin:
		commands = []cmd{{"enter", "Sign in"}, {"tab", "Next field"}, {"ctrl+r", "Register"}, {"esc", "Cancel"}}
	case PageRegister:
		commands = []cmd{{"enter", "Register"}, {"tab", "Next field"}, {"esc", "Back"}}
	default:
		commands = []cmd{{"enter", "Open"}, {"/", "Filter"}, {"n/p", "Page"}}
		if perms.MutateCatalog {
			commands = append(commands, cmd{"a", "Add"}, cmd{"e", "Edit"}, cmd{"x", "Delete"})
		}
	}

	if !m.page.isForm() {
		commands = append(commands, cmd{"1/2/3", "Pages"})
		if m.session.Current().Authenticated() {
			commands = append(commands, cmd{"L", "Logout"})
		} else {
			commands = append(commands, cmd{"L", "Login"})
		}
		commands = append(commands, cmd{"?", "More"})
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands))
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(segments, "  "))
}
