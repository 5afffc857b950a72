package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/apperr"
	"github.com/five82/folio/internal/intent"
	"github.com/five82/folio/internal/library"
)

// detailState holds the book detail page.
type detailState struct {
	bookID    int64
	book      library.Book
	copies    []library.Copy
	copiesErr string
	selected  int
	loading   bool
	loaded    bool
	notFound  bool
	err       string
}

func (s detailState) selectedCopy() (library.Copy, bool) {
	if len(s.copies) == 0 {
		return library.Copy{}, false
	}
	return s.copies[clampIndex(s.selected, len(s.copies))], true
}

func (m Model) handleBookLoaded(msg bookLoadedMsg) (Model, tea.Cmd) {
	if m.stale(msg.gen, "book") {
		return m, nil
	}
	m.detail.loading = false
	if msg.err != nil {
		if apperr.Is(msg.err, apperr.CodeNotFound) {
			m.logger.Info("book not found", "book_id", m.detail.bookID)
			m.detail.notFound = true
			m.detail.loaded = true
			return m, nil
		}
		m.detail.err = apperr.UserMessage(msg.err, "Failed to load book")
		return m.handleRemoteError(msg.err, "Failed to load book")
	}

	m.detail.loaded = true
	m.detail.notFound = false
	m.detail.err = ""
	m.detail.book = msg.book
	m.detail.copiesErr = ""
	if msg.copiesErr != nil {
		m.logger.Warn("failed to load copies", "book_id", m.detail.bookID, "error", msg.copiesErr)
		m.detail.copiesErr = apperr.UserMessage(msg.copiesErr, "Failed to load copies")
	}
	m.detail.copies = msg.copies
	m.detail.selected = clampIndex(m.detail.selected, len(msg.copies))
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	count := len(m.detail.copies)
	perms := m.permissions()

	switch {
	case key.Matches(msg, m.keys.Down):
		m.detail.selected = clampIndex(m.detail.selected+1, count)
	case key.Matches(msg, m.keys.Up):
		m.detail.selected = clampIndex(m.detail.selected-1, count)
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	}

	if !m.detail.loaded || m.detail.notFound {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Borrow):
		c, ok := m.detail.selectedCopy()
		if !ok {
			return m, nil
		}
		if !perms.BorrowCopy {
			if !m.subject().Authenticated {
				m.setFlash(flashError, "Log in to borrow books")
			} else {
				m.setFlash(flashError, "Your role cannot borrow books")
			}
			return m, nil
		}
		if !c.Available() {
			m.setFlash(flashError, "This copy is not available")
			return m, nil
		}
		return m.requestIntent(intent.Key{Action: intent.Borrow, ID: c.ID}, "")

	case key.Matches(msg, m.keys.Add):
		if perms.MutateCatalog {
			m.copyForm = newCopyFormState(m.detail.bookID, library.Copy{})
			return m.navigate(PageCopyForm)
		}

	case key.Matches(msg, m.keys.Edit):
		if c, ok := m.detail.selectedCopy(); ok && perms.MutateCatalog {
			m.copyForm = newCopyFormState(m.detail.bookID, c)
			return m.navigate(PageCopyForm)
		}

	case key.Matches(msg, m.keys.Delete):
		if c, ok := m.detail.selectedCopy(); ok && perms.DeleteCopy {
			return m.requestIntent(intent.Key{Action: intent.DeleteCopy, ID: c.ID}, fmt.Sprintf("Copy #%d of %s", c.ID, m.detail.book.Title))
		}

	case key.Matches(msg, m.keys.EditBook):
		if perms.MutateCatalog {
			m.bookForm = newBookFormState(m.detail.bookID, m.detail.book)
			return m.navigate(PageBookForm)
		}

	case key.Matches(msg, m.keys.DelBook):
		if perms.MutateCatalog {
			return m.requestIntent(intent.Key{Action: intent.DeleteBook, ID: m.detail.bookID}, m.detail.book.Title)
		}
	}
	return m, nil
}

func (m Model) renderDetail(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	d := m.detail

	title := "Book"
	switch {
	case d.notFound:
		return m.renderTitledBox(title, styles.DangerText.Render("Book not found"), width, height, true)
	case !d.loaded && d.err != "":
		return m.renderTitledBox(title, styles.DangerText.Render(d.err), width, height, true)
	case !d.loaded:
		return m.renderTitledBox(title, styles.MutedText.Render("Loading book..."), width, height, true)
	}
	title = truncate(d.book.Title, max(width-10, 10))

	label := func(name, value string) string {
		return styles.MutedText.Render(padRight(name, 10)) + styles.Text.Render(orDash(value))
	}
	lines := []string{
		label("Title", d.book.Title),
		label("Author", d.book.Author),
		label("Genre", d.book.Genre),
		label("ISBN", d.book.ISBN),
		"",
		styles.AccentText.Bold(true).Render(fmt.Sprintf("Copies (%d)", len(d.copies))),
	}

	switch {
	case d.copiesErr != "":
		lines = append(lines, styles.DangerText.Render(d.copiesErr))
	case len(d.copies) == 0:
		lines = append(lines, styles.MutedText.Render("No copies in inventory"))
	default:
		lines = append(lines, m.copyRows(styles, height-2-len(lines)-1)...)
	}

	footer := styles.FaintText.Render(fmt.Sprintf("Book #%d", d.bookID))
	if d.loading {
		footer = styles.FaintText.Render("refreshing...")
	}
	return m.renderTitledBox(title, strings.Join(fitLines(lines, height-2, footer), "\n"), width, height, true)
}

func (m Model) copyRows(styles Styles, height int) []string {
	copies := m.detail.copies
	perms := m.permissions()

	start := windowStart(m.detail.selected, len(copies), height)
	end := min(start+height, len(copies))
	var out []string
	for i := start; i < end; i++ {
		c := copies[i]
		status := c.EffectiveStatus()
		badge := styles.StatusStyle(status).Render(padRight(status, 11))

		var note string
		switch {
		case m.tracker.Pending(intent.Key{Action: intent.Borrow, ID: c.ID}):
			note = "borrowing..."
		case m.tracker.Pending(intent.Key{Action: intent.DeleteCopy, ID: c.ID}):
			note = "deleting..."
		case c.Available() && perms.BorrowCopy:
			note = "b to borrow"
		}

		marker := "  "
		if i == m.detail.selected {
			marker = "▸ "
		}
		text := padRight(fmt.Sprintf("#%d", c.ID), 7) + padRight(truncate(orDash(c.Condition), 24), 25)
		line := styles.AccentText.Render(marker) + badge + " "
		if i == m.detail.selected {
			line += styles.Selected.Render(text)
		} else {
			line += styles.Text.Render(text)
		}
		if note != "" {
			line += styles.FaintText.Render(note)
		}
		out = append(out, line)
	}
	return out
}
