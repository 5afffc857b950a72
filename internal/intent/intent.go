// Package intent models user-triggered mutations: which actions exist, which
// need confirmation, what to say when they fail, and which are in flight.
package intent

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/five82/folio/internal/apperr"
)

// Action is a mutation the user can trigger.
type Action int

const (
	Borrow Action = iota
	Renew
	Return
	CreateBook
	UpdateBook
	DeleteBook
	CreateCopy
	UpdateCopy
	DeleteCopy
)

func (a Action) String() string {
	switch a {
	case Borrow:
		return "borrow"
	case Renew:
		return "renew"
	case Return:
		return "return"
	case CreateBook:
		return "create-book"
	case UpdateBook:
		return "update-book"
	case DeleteBook:
		return "delete-book"
	case CreateCopy:
		return "create-copy"
	case UpdateCopy:
		return "update-copy"
	case DeleteCopy:
		return "delete-copy"
	default:
		return "action-" + strconv.Itoa(int(a))
	}
}

// Destructive reports whether the action needs explicit confirmation.
func (a Action) Destructive() bool {
	switch a {
	case Return, DeleteBook, DeleteCopy:
		return true
	default:
		return false
	}
}

// ConfirmPrompt returns the question asked before a destructive action.
func (a Action) ConfirmPrompt() string {
	switch a {
	case Return:
		return "Are you sure you want to return this book?"
	case DeleteBook:
		return "Are you sure you want to delete this book?"
	case DeleteCopy:
		return "Are you sure you want to delete this copy?"
	default:
		return ""
	}
}

// FallbackMessage is shown when a failed action carries no server message.
func (a Action) FallbackMessage() string {
	switch a {
	case Borrow:
		return "Failed to borrow book"
	case Renew:
		return "Failed to renew borrowing"
	case Return:
		return "Failed to return book"
	case CreateBook, UpdateBook:
		return "Failed to save book"
	case DeleteBook:
		return "Failed to delete book"
	case CreateCopy, UpdateCopy:
		return "Failed to save copy"
	case DeleteCopy:
		return "Failed to delete copy"
	default:
		return "Request failed"
	}
}

// SuccessMessage is shown once the service acknowledges the action.
func (a Action) SuccessMessage() string {
	switch a {
	case Borrow:
		return "Book borrowed successfully!"
	case Renew:
		return "Borrowing renewed"
	case Return:
		return "Book returned"
	case CreateBook:
		return "Book created"
	case UpdateBook:
		return "Book updated"
	case DeleteBook:
		return "Book deleted"
	case CreateCopy:
		return "Copy added"
	case UpdateCopy:
		return "Copy updated"
	case DeleteCopy:
		return "Copy deleted"
	default:
		return "Done"
	}
}

// ErrorMessage returns the user-facing message for a failed action,
// preferring the server-supplied one.
func ErrorMessage(a Action, err error) string {
	return apperr.UserMessage(err, a.FallbackMessage())
}

// Key identifies one in-flight mutation. ID is the record the action targets;
// creates use the parent id (or zero).
type Key struct {
	Action Action
	ID     int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.Action, k.ID)
}

// Tracker records which mutations are in flight. A key can be pending at
// most once; distinct keys are independent.
type Tracker struct {
	mu      sync.Mutex
	pending map[Key]struct{}
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{pending: make(map[Key]struct{})}
}

// Begin marks key in flight. It returns false, and changes nothing, when the
// key is already pending.
func (t *Tracker) Begin(key Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == nil {
		t.pending = make(map[Key]struct{})
	}
	if _, busy := t.pending[key]; busy {
		return false
	}
	t.pending[key] = struct{}{}
	return true
}

// End clears key, returning the control to idle.
func (t *Tracker) End(key Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, key)
}

// Pending reports whether key is in flight.
func (t *Tracker) Pending(key Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, busy := t.pending[key]
	return busy
}

// Count returns the number of in-flight mutations.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}
