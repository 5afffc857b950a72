package library

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// User is the account embedded in authentication responses.
type User struct {
	ID       int64    `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	LastName string   `json:"last_name"`
	Roles    RoleList `json:"roles"`
}

// DisplayName returns the best human-readable name for the user.
func (u User) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(u.Name) + " " + strings.TrimSpace(u.LastName))
	if full != "" {
		return full
	}
	return strings.TrimSpace(u.Email)
}

// RoleList decodes a roles array whose elements are either plain strings or
// objects with a name field.
type RoleList []string

// UnmarshalJSON implements json.Unmarshaler.
func (r *RoleList) UnmarshalJSON(data []byte) error {
	var raw []jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(RoleList, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			out = append(out, name)
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return err
		}
		out = append(out, obj.Name)
	}
	*r = out
	return nil
}

// LoginResponse mirrors POST /login and POST /users.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	User  *User  `json:"user"`
}

// Registration is the payload for creating an account.
type Registration struct {
	Email                string `json:"email"`
	Name                 string `json:"name"`
	LastName             string `json:"last_name"`
	BirthDate            string `json:"birth_date"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Book is a catalog entry.
type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	ISBN        string `json:"isbn"`
	CopiesCount int    `json:"copies_count"`
}

// BookQuery filters and pages GET /books.
type BookQuery struct {
	Title  string
	Author string
	Genre  string
	Page   int
}

// PageMeta describes a page of results.
type PageMeta struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalEntries int `json:"total_entries"`
}

// BookPage is one page of the catalog.
type BookPage struct {
	Books []Book
	Meta  PageMeta
}

// BookInput carries the editable fields of a book.
type BookInput struct {
	Title  string
	Author string
	Genre  string
	ISBN   string
}

type bookPayload struct {
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Genre      *string `json:"genre"`
	ISBN       *string `json:"isbn"`
	Type       string  `json:"type"`
	ItemTypeID *int64  `json:"item_type_id"`
}

func (in BookInput) payload() map[string]bookPayload {
	return map[string]bookPayload{
		"book": {
			Title:  strings.TrimSpace(in.Title),
			Author: strings.TrimSpace(in.Author),
			Genre:  optional(in.Genre),
			ISBN:   optional(in.ISBN),
			Type:   "Book",
		},
	}
}

// Copy statuses understood by the service.
const (
	CopyAvailable   = "available"
	CopyBorrowed    = "borrowed"
	CopyMaintenance = "maintenance"
)

// CopyStatuses lists the accepted copy statuses in display order.
var CopyStatuses = []string{CopyAvailable, CopyBorrowed, CopyMaintenance}

// Copy is one borrowable instance of a book.
type Copy struct {
	ID        int64  `json:"id"`
	BookID    int64  `json:"book_id"`
	Condition string `json:"condition"`
	Status    string `json:"status"`
}

// EffectiveStatus returns the copy status, treating a blank status as available.
func (c Copy) EffectiveStatus() string {
	if s := strings.ToLower(strings.TrimSpace(c.Status)); s != "" {
		return s
	}
	return CopyAvailable
}

// Available reports whether the copy can be borrowed.
func (c Copy) Available() bool {
	return c.EffectiveStatus() == CopyAvailable
}

// CopyInput carries the editable fields of a copy.
type CopyInput struct {
	Condition string `json:"condition"`
	Status    string `json:"status"`
}

// BookRef is the book summary embedded in borrowing records.
type BookRef struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// CopyRef is the copy summary embedded in borrowing records.
type CopyRef struct {
	ID   int64    `json:"id"`
	Book *BookRef `json:"book"`
}

// UserRef is the borrower summary embedded in borrowing records.
type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Borrowing is a raw borrowing record. Dates are kept as the strings the
// service sent; the borrowing package parses them.
type Borrowing struct {
	ID         int64    `json:"id"`
	CopyID     int64    `json:"copy_id"`
	Copy       *CopyRef `json:"copy"`
	Book       *BookRef `json:"book"`
	User       *UserRef `json:"user"`
	CreatedAt  string   `json:"created_at"`
	BorrowedAt string   `json:"borrowed_at"`
	DueAt      string   `json:"due_at"`
	DueDate    string   `json:"due_date"`
	ReturnedAt string   `json:"returned_at"`
	RenewedAt  string   `json:"renewed_at"`
}

// DueRaw returns the due date as sent, preferring due_at over due_date.
func (b Borrowing) DueRaw() string {
	if due := strings.TrimSpace(b.DueAt); due != "" {
		return due
	}
	return strings.TrimSpace(b.DueDate)
}

// BorrowedRaw returns the borrow timestamp as sent.
func (b Borrowing) BorrowedRaw() string {
	if at := strings.TrimSpace(b.BorrowedAt); at != "" {
		return at
	}
	return strings.TrimSpace(b.CreatedAt)
}

// Returned reports whether the record carries a return timestamp.
func (b Borrowing) Returned() bool {
	return strings.TrimSpace(b.ReturnedAt) != ""
}

// Renewed reports whether the record carries a renewal timestamp.
func (b Borrowing) Renewed() bool {
	return strings.TrimSpace(b.RenewedAt) != ""
}

// Title returns the borrowed book's title.
func (b Borrowing) Title() string {
	if ref := b.bookRef(); ref != nil && strings.TrimSpace(ref.Title) != "" {
		return ref.Title
	}
	return "Unknown Book"
}

// Author returns the borrowed book's author.
func (b Borrowing) Author() string {
	if ref := b.bookRef(); ref != nil && strings.TrimSpace(ref.Author) != "" {
		return ref.Author
	}
	return "Unknown"
}

// CopyRefID returns the borrowed copy id, or zero when unknown.
func (b Borrowing) CopyRefID() int64 {
	if b.Copy != nil && b.Copy.ID != 0 {
		return b.Copy.ID
	}
	return b.CopyID
}

// Borrower returns the borrower's display name, or "" when not embedded.
func (b Borrowing) Borrower() string {
	if b.User == nil {
		return ""
	}
	if name := strings.TrimSpace(b.User.Name); name != "" {
		return name
	}
	return strings.TrimSpace(b.User.Email)
}

func (b Borrowing) bookRef() *BookRef {
	if b.Book != nil && (b.Book.Title != "" || b.Book.Author != "") {
		return b.Book
	}
	if b.Copy != nil && b.Copy.Book != nil {
		return b.Copy.Book
	}
	return b.Book
}

// DashboardEntry is one borrowed book on the member dashboard.
type DashboardEntry struct {
	BorrowingID int64  `json:"borrowing_id"`
	Title       string `json:"title"`
	DueDate     string `json:"due_date"`
	Overdue     bool   `json:"overdue"`
	Returned    bool   `json:"returned"`
}

// Dashboard mirrors GET /dashboard.
type Dashboard struct {
	BorrowedBooks []DashboardEntry `json:"borrowed_books"`
	TotalOverdue  int              `json:"total_overdue"`
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
