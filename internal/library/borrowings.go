package library

import (
	"context"
	"net/http"
	"strconv"
)

// FetchBorrowings lists the borrowings visible to the current session.
func (c *Client) FetchBorrowings(ctx context.Context) ([]Borrowing, error) {
	raw, err := c.send(ctx, http.MethodGet, "/borrowings", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeCollection[Borrowing](raw, "borrowings")
}

// Borrow creates a borrowing of the given copy for the current session.
func (c *Client) Borrow(ctx context.Context, copyID int64) (Borrowing, error) {
	var b Borrowing
	body := map[string]int64{"copy_id": copyID}
	if err := c.do(ctx, http.MethodPost, "/borrowings", nil, body, &b); err != nil {
		return Borrowing{}, err
	}
	return b, nil
}

// Renew extends a borrowing's due date.
func (c *Client) Renew(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPatch, borrowingPath(id)+"/renew", nil, nil, nil)
}

// Return marks a borrowing as returned.
func (c *Client) Return(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPatch, borrowingPath(id)+"/return", nil, nil, nil)
}

// FetchDashboard retrieves the member dashboard summary.
func (c *Client) FetchDashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, nil, &d); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

func borrowingPath(id int64) string {
	return "/borrowings/" + strconv.FormatInt(id, 10)
}
