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

// booksState holds the catalog page.
type booksState struct {
	filter   library.BookQuery
	page     int
	result   library.BookPage
	selected int
	loading  bool
	err      string
}

func (s booksState) query() library.BookQuery {
	q := s.filter
	q.Page = max(s.page, 1)
	return q
}

func (s booksState) filtered() bool {
	return s.filter.Title != "" || s.filter.Author != "" || s.filter.Genre != ""
}

func (s booksState) selectedBook() (library.Book, bool) {
	if len(s.result.Books) == 0 {
		return library.Book{}, false
	}
	return s.result.Books[clampIndex(s.selected, len(s.result.Books))], true
}

func (s booksState) totalPages() int {
	return max(s.result.Meta.TotalPages, 1)
}

func (m Model) handleBooksLoaded(msg booksLoadedMsg) (Model, tea.Cmd) {
	if m.stale(msg.gen, "books") {
		return m, nil
	}
	m.books.loading = false
	if msg.err != nil {
		m.books.err = apperr.UserMessage(msg.err, "Failed to load books")
		return m.handleRemoteError(msg.err, "Failed to load books")
	}
	m.books.err = ""
	m.books.result = msg.page
	if msg.page.Meta.CurrentPage > 0 {
		m.books.page = msg.page.Meta.CurrentPage
	}
	m.books.selected = clampIndex(m.books.selected, len(msg.page.Books))
	return m, nil
}

func (m Model) handleBooksKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	count := len(m.books.result.Books)
	perms := m.permissions()

	switch {
	case key.Matches(msg, m.keys.Down):
		m.books.selected = clampIndex(m.books.selected+1, count)
	case key.Matches(msg, m.keys.Up):
		m.books.selected = clampIndex(m.books.selected-1, count)
	case key.Matches(msg, m.keys.Top):
		m.books.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.books.selected = clampIndex(count-1, count)

	case key.Matches(msg, m.keys.Open):
		if book, ok := m.books.selectedBook(); ok {
			m.detail = detailState{bookID: book.ID}
			return m.navigate(PageBook)
		}

	case key.Matches(msg, m.keys.Filter):
		m.modal = newFilterModal(m.books.filter)

	case key.Matches(msg, m.keys.ClearFilter):
		if m.books.filtered() {
			m.books.filter = library.BookQuery{}
			m.books.page = 1
			m.books.selected = 0
			return m.reload()
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.books.page < m.books.totalPages() {
			m.books.page++
			m.books.selected = 0
			return m.reload()
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.books.page > 1 {
			m.books.page--
			m.books.selected = 0
			return m.reload()
		}

	case key.Matches(msg, m.keys.Reload):
		return m.reload()

	case key.Matches(msg, m.keys.Add):
		if perms.MutateCatalog {
			m.bookForm = newBookFormState(0, library.Book{})
			return m.navigate(PageBookForm)
		}

	case key.Matches(msg, m.keys.Edit):
		if book, ok := m.books.selectedBook(); ok && perms.MutateCatalog {
			m.bookForm = newBookFormState(book.ID, book)
			return m.navigate(PageBookForm)
		}

	case key.Matches(msg, m.keys.Delete):
		if book, ok := m.books.selectedBook(); ok && perms.MutateCatalog {
			return m.requestIntent(intent.Key{Action: intent.DeleteBook, ID: book.ID}, book.Title)
		}
	}
	return m, nil
}

func (m Model) renderBooks(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	inner := width - 2
	rows := height - 2

	title := "Books"
	if total := m.books.result.Meta.TotalEntries; total > 0 {
		title = fmt.Sprintf("Books (%d)", total)
	}

	var lines []string
	switch {
	case m.books.loading && len(m.books.result.Books) == 0:
		lines = append(lines, styles.MutedText.Render("Loading books..."))
	case m.books.err != "" && len(m.books.result.Books) == 0:
		lines = append(lines, styles.DangerText.Render(m.books.err))
	case len(m.books.result.Books) == 0:
		lines = append(lines, styles.MutedText.Render("No books found"))
	default:
		lines = append(lines, m.bookRows(styles, inner, rows-2)...)
	}

	lines = fitLines(lines, rows, m.booksFooter(styles))
	return m.renderTitledBox(title, strings.Join(lines, "\n"), width, height, true)
}

func (m Model) bookRows(styles Styles, width, height int) []string {
	books := m.books.result.Books
	compact := m.width < LayoutCompactWidth

	idW, copiesW := 6, 8
	authorW := width / 4
	genreW := width / 6
	if compact {
		genreW = 0
	}
	titleW := max(width-idW-authorW-genreW-copiesW-4, 10)

	header := padRight("ID", idW) + " " + padRight("Title", titleW) + " " + padRight("Author", authorW)
	if genreW > 0 {
		header += " " + padRight("Genre", genreW)
	}
	header += " " + padRight("Copies", copiesW)
	out := []string{styles.FaintText.Render(header)}

	start := windowStart(m.books.selected, len(books), height)
	end := min(start+height, len(books))
	for i := start; i < end; i++ {
		b := books[i]
		row := padRight(fmt.Sprintf("#%d", b.ID), idW) + " " +
			padRight(truncate(b.Title, titleW), titleW) + " " +
			padRight(truncate(b.Author, authorW), authorW)
		if genreW > 0 {
			row += " " + padRight(truncate(orDash(b.Genre), genreW), genreW)
		}
		row += " " + padRight(fmt.Sprintf("%d", b.CopiesCount), copiesW)
		if m.tracker.Pending(intent.Key{Action: intent.DeleteBook, ID: b.ID}) {
			row += " deleting..."
		}
		if i == m.books.selected {
			out = append(out, styles.Selected.Width(width).Render(row))
			continue
		}
		out = append(out, styles.Text.Render(row))
	}
	return out
}

func (m Model) booksFooter(styles Styles) string {
	parts := []string{fmt.Sprintf("Page %d/%d", max(m.books.page, 1), m.books.totalPages())}
	if m.books.filtered() {
		var f []string
		if v := m.books.filter.Title; v != "" {
			f = append(f, "title="+v)
		}
		if v := m.books.filter.Author; v != "" {
			f = append(f, "author="+v)
		}
		if v := m.books.filter.Genre; v != "" {
			f = append(f, "genre="+v)
		}
		parts = append(parts, "filter: "+strings.Join(f, " "))
	}
	if m.books.loading {
		parts = append(parts, "refreshing...")
	}
	return styles.MutedText.Render(strings.Join(parts, " · "))
}
