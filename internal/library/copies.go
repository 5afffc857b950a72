package library

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/five82/folio/internal/apperr"
)

// FetchCopies lists the copies of a book.
func (c *Client) FetchCopies(ctx context.Context, bookID int64) ([]Copy, error) {
	raw, err := c.send(ctx, http.MethodGet, bookPath(bookID)+"/copies", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeCollection[Copy](raw, "copies")
}

// FetchCopy retrieves a single copy.
func (c *Client) FetchCopy(ctx context.Context, id int64) (Copy, error) {
	var cp Copy
	if err := c.do(ctx, http.MethodGet, copyPath(id), nil, nil, &cp); err != nil {
		return Copy{}, err
	}
	if cp.ID == 0 {
		return Copy{}, apperr.NotFoundf("copy %d not found", id)
	}
	return cp, nil
}

// CreateCopy adds a copy to a book's inventory.
func (c *Client) CreateCopy(ctx context.Context, bookID int64, input CopyInput) (Copy, error) {
	var cp Copy
	body := map[string]CopyInput{"copy": normalizeCopyInput(input)}
	if err := c.do(ctx, http.MethodPost, bookPath(bookID)+"/copies", nil, body, &cp); err != nil {
		return Copy{}, err
	}
	return cp, nil
}

// UpdateCopy edits a copy's condition or status.
func (c *Client) UpdateCopy(ctx context.Context, id int64, input CopyInput) (Copy, error) {
	var cp Copy
	body := map[string]CopyInput{"copy": normalizeCopyInput(input)}
	if err := c.do(ctx, http.MethodPatch, copyPath(id), nil, body, &cp); err != nil {
		return Copy{}, err
	}
	return cp, nil
}

// DeleteCopy removes a copy from the inventory.
func (c *Client) DeleteCopy(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, copyPath(id), nil, nil, nil)
}

func copyPath(id int64) string {
	return "/copies/" + strconv.FormatInt(id, 10)
}

func normalizeCopyInput(in CopyInput) CopyInput {
	in.Condition = strings.TrimSpace(in.Condition)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = CopyAvailable
	}
	return in
}
