package borrowing

import (
	"slices"
	"time"

	"github.com/five82/folio/internal/library"
)

// Status is the display status of a borrowing.
type Status string

const (
	StatusActive   Status = "active"
	StatusOverdue  Status = "overdue"
	StatusReturned Status = "returned"
)

// Label returns the display tag for the status.
func (s Status) Label() string {
	switch s {
	case StatusOverdue:
		return "Overdue"
	case StatusReturned:
		return "Returned"
	default:
		return "Active"
	}
}

// Classify derives the status of rec at now. A return timestamp wins over
// the due date; an unparseable due date never makes a record overdue.
func Classify(rec library.Borrowing, now time.Time) Status {
	if rec.Returned() {
		return StatusReturned
	}
	if due, ok := ParseDue(rec.DueRaw()); ok && due.Before(now) {
		return StatusOverdue
	}
	return StatusActive
}

// Entry is a classified borrowing ready for display.
type Entry struct {
	Record library.Borrowing
	Status Status
	Due    time.Time
	HasDue bool
}

// View classifies records at now, sorts them ascending by due date with
// undated records last, and keeps those admitted by scope. Ties keep their
// input order. The input slice is not modified.
func View(records []library.Borrowing, scope Scope, now time.Time) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		due, ok := ParseDue(rec.DueRaw())
		entries = append(entries, Entry{
			Record: rec,
			Status: Classify(rec, now),
			Due:    due,
			HasDue: ok,
		})
	}

	slices.SortStableFunc(entries, compareDue)

	filtered := entries[:0]
	for _, e := range entries {
		if scope.Admits(e.Status) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// compareDue orders present due dates ascending and missing ones last.
func compareDue(a, b Entry) int {
	switch {
	case !a.HasDue && !b.HasDue:
		return 0
	case !a.HasDue:
		return 1
	case !b.HasDue:
		return -1
	default:
		return a.Due.Compare(b.Due)
	}
}

// Summary counts entries per status.
type Summary struct {
	Total    int
	Active   int
	Overdue  int
	Returned int
}

// Summarize classifies records at now and counts them per status.
func Summarize(records []library.Borrowing, now time.Time) Summary {
	s := Summary{Total: len(records)}
	for _, rec := range records {
		switch Classify(rec, now) {
		case StatusReturned:
			s.Returned++
		case StatusOverdue:
			s.Overdue++
		default:
			s.Active++
		}
	}
	return s
}
