package ui

import (
	"context"
	"sync"

	"github.com/five82/folio/internal/library"
)

// fakeService is an in-memory library.Service that records every call in
// order.
type fakeService struct {
	mu  sync.Mutex
	log []string

	books     library.BookPage
	lastQuery library.BookQuery
	book      library.Book
	bookErr   error
	copies    []library.Copy
	copiesErr error
	copy      library.Copy

	borrowings    []library.Borrowing
	borrowingsErr error
	afterReturn   []library.Borrowing
	renewErr      error
	returnErr     error
	borrowErr     error

	dashboard library.Dashboard

	createdBook library.BookInput
	createErr   error

	loginResp library.LoginResponse
	loginErr  error
	logoutErr error
}

func newFakeService() *fakeService {
	return &fakeService{}
}

func (f *fakeService) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log = append(f.log, name)
}

func (f *fakeService) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.log...)
}

func (f *fakeService) count(name string) int {
	n := 0
	for _, c := range f.calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeService) Login(_ context.Context, _, _ string) (library.LoginResponse, error) {
	f.record("Login")
	return f.loginResp, f.loginErr
}

func (f *fakeService) Register(_ context.Context, _ library.Registration) (library.LoginResponse, error) {
	f.record("Register")
	return f.loginResp, f.loginErr
}

func (f *fakeService) Logout(context.Context) error {
	f.record("Logout")
	return f.logoutErr
}

func (f *fakeService) FetchBooks(_ context.Context, query library.BookQuery) (library.BookPage, error) {
	f.record("FetchBooks")
	f.mu.Lock()
	f.lastQuery = query
	f.mu.Unlock()
	return f.books, nil
}

func (f *fakeService) FetchBook(_ context.Context, id int64) (library.Book, error) {
	f.record("FetchBook")
	if f.bookErr != nil {
		return library.Book{}, f.bookErr
	}
	b := f.book
	b.ID = id
	return b, nil
}

func (f *fakeService) CreateBook(_ context.Context, input library.BookInput) (library.Book, error) {
	f.record("CreateBook")
	f.mu.Lock()
	f.createdBook = input
	f.mu.Unlock()
	if f.createErr != nil {
		return library.Book{}, f.createErr
	}
	return library.Book{ID: 42, Title: input.Title, Author: input.Author}, nil
}

func (f *fakeService) UpdateBook(_ context.Context, id int64, input library.BookInput) (library.Book, error) {
	f.record("UpdateBook")
	return library.Book{ID: id, Title: input.Title, Author: input.Author}, nil
}

func (f *fakeService) DeleteBook(context.Context, int64) error {
	f.record("DeleteBook")
	return nil
}

func (f *fakeService) FetchCopies(context.Context, int64) ([]library.Copy, error) {
	f.record("FetchCopies")
	return f.copies, f.copiesErr
}

func (f *fakeService) FetchCopy(_ context.Context, id int64) (library.Copy, error) {
	f.record("FetchCopy")
	c := f.copy
	c.ID = id
	return c, nil
}

func (f *fakeService) CreateCopy(_ context.Context, bookID int64, input library.CopyInput) (library.Copy, error) {
	f.record("CreateCopy")
	return library.Copy{ID: 99, BookID: bookID, Condition: input.Condition, Status: input.Status}, nil
}

func (f *fakeService) UpdateCopy(_ context.Context, id int64, input library.CopyInput) (library.Copy, error) {
	f.record("UpdateCopy")
	return library.Copy{ID: id, Condition: input.Condition, Status: input.Status}, nil
}

func (f *fakeService) DeleteCopy(context.Context, int64) error {
	f.record("DeleteCopy")
	return nil
}

func (f *fakeService) FetchBorrowings(context.Context) ([]library.Borrowing, error) {
	f.record("FetchBorrowings")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]library.Borrowing(nil), f.borrowings...), f.borrowingsErr
}

func (f *fakeService) Borrow(_ context.Context, copyID int64) (library.Borrowing, error) {
	f.record("Borrow")
	return library.Borrowing{ID: 500, CopyID: copyID}, f.borrowErr
}

func (f *fakeService) Renew(context.Context, int64) error {
	f.record("Renew")
	return f.renewErr
}

func (f *fakeService) Return(context.Context, int64) error {
	f.record("Return")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.returnErr != nil {
		return f.returnErr
	}
	if f.afterReturn != nil {
		f.borrowings = f.afterReturn
	}
	return nil
}

func (f *fakeService) FetchDashboard(context.Context) (library.Dashboard, error) {
	f.record("FetchDashboard")
	return f.dashboard, nil
}
