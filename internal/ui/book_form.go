package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/apperr"
	"github.com/five82/folio/internal/intent"
	"github.com/five82/folio/internal/library"
)

// bookFormState holds the create/edit book page. bookID is zero when
// creating.
type bookFormState struct {
	bookID  int64
	form    form
	loading bool
	err     string
}

func newBookFormState(id int64, book library.Book) bookFormState {
	f := newForm(
		newTextField("title", "Title", "Book title", true),
		newTextField("author", "Author", "Author name", true),
		newTextField("genre", "Genre", "Optional", false),
		newTextField("isbn", "ISBN", "Optional", false),
	)
	s := bookFormState{bookID: id, form: f}
	s.fill(book)
	return s
}

func (s *bookFormState) fill(book library.Book) {
	s.form.set("title", book.Title)
	s.form.set("author", book.Author)
	s.form.set("genre", book.Genre)
	s.form.set("isbn", book.ISBN)
}

func (s bookFormState) input() library.BookInput {
	return library.BookInput{
		Title:  s.form.value("title"),
		Author: s.form.value("author"),
		Genre:  s.form.value("genre"),
		ISBN:   s.form.value("isbn"),
	}
}

func (s bookFormState) key() intent.Key {
	if s.bookID == 0 {
		return intent.Key{Action: intent.CreateBook}
	}
	return intent.Key{Action: intent.UpdateBook, ID: s.bookID}
}

func (m Model) handleBookFormLoaded(msg bookFormLoadedMsg) (Model, tea.Cmd) {
	if m.stale(msg.gen, "book form") {
		return m, nil
	}
	m.bookForm.loading = false
	if msg.err != nil {
		m.bookForm.err = apperr.UserMessage(msg.err, "Failed to load book")
		if apperr.Is(msg.err, apperr.CodeNotFound) {
			m.bookForm.err = "Book not found"
			return m, nil
		}
		return m.handleRemoteError(msg.err, "Failed to load book")
	}
	m.bookForm.fill(msg.book)
	return m, nil
}

func (m Model) handleBookFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		return m.submitBookForm()
	}
	cmd := m.bookForm.form.update(msg, m.keys)
	return m, cmd
}

// submitBookForm validates locally and, when the required fields are
// present, issues the create or update.
func (m Model) submitBookForm() (Model, tea.Cmd) {
	if m.bookForm.loading {
		return m, nil
	}
	if err := m.bookForm.form.validate(); err != nil {
		m.bookForm.err = apperr.UserMessage(err, "Title and author are required")
		return m, nil
	}
	m.bookForm.err = ""

	svc, input, id := m.service, m.bookForm.input(), m.bookForm.bookID
	return m.startMutation(m.bookForm.key(), func(ctx context.Context) (int64, error) {
		if id == 0 {
			b, err := svc.CreateBook(ctx, input)
			return b.ID, err
		}
		b, err := svc.UpdateBook(ctx, id, input)
		return b.ID, err
	})
}

func (m Model) renderBookForm(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	title := "New Book"
	if m.bookForm.bookID > 0 {
		title = "Edit Book"
	}

	var b strings.Builder
	if m.bookForm.loading {
		b.WriteString(styles.MutedText.Render("Loading book..."))
		b.WriteString("\n\n")
	}
	b.WriteString(m.bookForm.form.view(styles, 10))
	b.WriteString("\n\n")
	b.WriteString(m.formStatus(styles, m.bookForm.key(), m.bookForm.err))

	return m.renderTitledBox(title, b.String(), width, height, true)
}

// formStatus renders the save state line under a form.
func (m Model) formStatus(styles Styles, k intent.Key, errText string) string {
	switch {
	case m.tracker.Pending(k):
		return styles.WarningText.Render("Saving...")
	case errText != "":
		return styles.DangerText.Render(errText)
	default:
		return styles.FaintText.Render("enter to save · tab to move · esc to cancel")
	}
}
