package library

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/five82/folio/internal/apperr"
)

// FetchBooks retrieves one page of the catalog.
func (c *Client) FetchBooks(ctx context.Context, query BookQuery) (BookPage, error) {
	values := url.Values{}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}
	if title := strings.TrimSpace(query.Title); title != "" {
		values.Set("title", title)
	}
	if author := strings.TrimSpace(query.Author); author != "" {
		values.Set("author", author)
	}
	if genre := strings.TrimSpace(query.Genre); genre != "" {
		values.Set("genre", genre)
	}

	raw, err := c.send(ctx, http.MethodGet, "/books", values, nil)
	if err != nil {
		return BookPage{}, err
	}
	books, err := decodeCollection[Book](raw, "books")
	if err != nil {
		return BookPage{}, err
	}

	page := BookPage{Books: books}
	var envelope struct {
		Meta *PageMeta `json:"meta"`
	}
	if trimmed := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return BookPage{}, fmt.Errorf("decode meta: %w", err)
		}
	}
	if envelope.Meta != nil {
		page.Meta = *envelope.Meta
	} else {
		page.Meta = PageMeta{CurrentPage: 1, TotalPages: 1, TotalEntries: len(books)}
	}
	if page.Meta.CurrentPage <= 0 {
		page.Meta.CurrentPage = 1
	}
	if page.Meta.TotalPages < page.Meta.CurrentPage {
		page.Meta.TotalPages = page.Meta.CurrentPage
	}
	return page, nil
}

// FetchBook retrieves a single book. An empty payload is reported as NotFound.
func (c *Client) FetchBook(ctx context.Context, id int64) (Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodGet, bookPath(id), nil, nil, &book); err != nil {
		return Book{}, err
	}
	if book.ID == 0 {
		return Book{}, apperr.NotFoundf("book %d not found", id)
	}
	return book, nil
}

// CreateBook adds a book to the catalog.
func (c *Client) CreateBook(ctx context.Context, input BookInput) (Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodPost, "/books", nil, input.payload(), &book); err != nil {
		return Book{}, err
	}
	return book, nil
}

// UpdateBook edits an existing book.
func (c *Client) UpdateBook(ctx context.Context, id int64, input BookInput) (Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodPatch, bookPath(id), nil, input.payload(), &book); err != nil {
		return Book{}, err
	}
	return book, nil
}

// DeleteBook removes a book from the catalog.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, bookPath(id), nil, nil, nil)
}

func bookPath(id int64) string {
	return "/books/" + strconv.FormatInt(id, 10)
}
