package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/five82/folio/internal/library"
)

// Messages

type tickMsg time.Time

type booksLoadedMsg struct {
	gen  int
	page library.BookPage
	err  error
}

type bookLoadedMsg struct {
	gen       int
	book      library.Book
	copies    []library.Copy
	copiesErr error
	err       error
}

type bookFormLoadedMsg struct {
	gen  int
	book library.Book
	err  error
}

type copyLoadedMsg struct {
	gen  int
	copy library.Copy
	err  error
}

type borrowingsLoadedMsg struct {
	gen     int
	records []library.Borrowing
	err     error
}

type dashboardLoadedMsg struct {
	gen       int
	librarian bool
	dashboard library.Dashboard
	records   []library.Borrowing
	err       error
}

type authDoneMsg struct {
	register bool
	resp     library.LoginResponse
	err      error
}

type logoutDoneMsg struct {
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// request runs fn with the model's context bounded by the fetch timeout.
func (m Model) request(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	parent, timeout := m.ctx, m.fetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		return fn(ctx)
	}
}

func (m Model) fetchBooksCmd(gen int, query library.BookQuery) tea.Cmd {
	svc := m.service
	return m.request(func(ctx context.Context) tea.Msg {
		page, err := svc.FetchBooks(ctx, query)
		return booksLoadedMsg{gen: gen, page: page, err: err}
	})
}

// fetchBookCmd loads a book and its copies concurrently. A failed copies
// fetch is reported separately and does not hide the book.
func (m Model) fetchBookCmd(gen int, id int64) tea.Cmd {
	svc := m.service
	return m.request(func(ctx context.Context) tea.Msg {
		var (
			book      library.Book
			copies    []library.Copy
			copiesErr error
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			b, err := svc.FetchBook(gctx, id)
			if err != nil {
				return err
			}
			book = b
			return nil
		})
		g.Go(func() error {
			copies, copiesErr = svc.FetchCopies(gctx, id)
			return nil
		})
		err := g.Wait()
		return bookLoadedMsg{gen: gen, book: book, copies: copies, copiesErr: copiesErr, err: err}
	})
}

func (m Model) fetchBookFormCmd(gen int, id int64) tea.Cmd {
	svc := m.service
	return m.request(func(ctx context.Context) tea.Msg {
		book, err := svc.FetchBook(ctx, id)
		return bookFormLoadedMsg{gen: gen, book: book, err: err}
	})
}

func (m Model) fetchCopyCmd(gen int, id int64) tea.Cmd {
	svc := m.service
	return m.request(func(ctx context.Context) tea.Msg {
		c, err := svc.FetchCopy(ctx, id)
		return copyLoadedMsg{gen: gen, copy: c, err: err}
	})
}

func (m Model) fetchBorrowingsCmd(gen int) tea.Cmd {
	svc := m.service
	return m.request(func(ctx context.Context) tea.Msg {
		records, err := svc.FetchBorrowings(ctx)
		return borrowingsLoadedMsg{gen: gen, records: records, err: err}
	})
}

// fetchDashboardCmd loads the member dashboard, or for librarians the full
// borrowing list the summary is computed from.
func (m Model) fetchDashboardCmd(gen int, librarian bool) tea.Cmd {
	svc := m.service
	return m.request(func(ctx context.Context) tea.Msg {
		if librarian {
			records, err := svc.FetchBorrowings(ctx)
			return dashboardLoadedMsg{gen: gen, librarian: true, records: records, err: err}
		}
		d, err := svc.FetchDashboard(ctx)
		return dashboardLoadedMsg{gen: gen, dashboard: d, err: err}
	})
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	svc := m.service
	return m.request(func(ctx context.Context) tea.Msg {
		resp, err := svc.Login(ctx, email, password)
		return authDoneMsg{resp: resp, err: err}
	})
}

func (m Model) registerCmd(reg library.Registration) tea.Cmd {
	svc := m.service
	return m.request(func(ctx context.Context) tea.Msg {
		resp, err := svc.Register(ctx, reg)
		return authDoneMsg{register: true, resp: resp, err: err}
	})
}

func (m Model) logoutCmd() tea.Cmd {
	svc := m.service
	return m.request(func(ctx context.Context) tea.Msg {
		return logoutDoneMsg{err: svc.Logout(ctx)}
	})
}
