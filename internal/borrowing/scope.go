package borrowing

import (
	"fmt"
	"strings"
)

// Scope filters a borrowing list by status.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeActive   Scope = "active"
	ScopeOverdue  Scope = "overdue"
	ScopeReturned Scope = "returned"
)

// Scopes lists every scope in cycling order.
var Scopes = []Scope{ScopeAll, ScopeActive, ScopeOverdue, ScopeReturned}

// ParseScope parses a scope name case-insensitively. Blank input yields ScopeAll.
func ParseScope(value string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(value))) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeActive:
		return ScopeActive, nil
	case ScopeOverdue:
		return ScopeOverdue, nil
	case ScopeReturned:
		return ScopeReturned, nil
	default:
		return ScopeAll, fmt.Errorf("unknown scope %q (want all, active, overdue or returned)", value)
	}
}

// String implements fmt.Stringer and pflag.Value.
func (s Scope) String() string {
	if s == "" {
		return string(ScopeAll)
	}
	return string(s)
}

// Set implements pflag.Value.
func (s *Scope) Set(value string) error {
	parsed, err := ParseScope(value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Type implements pflag.Value.
func (s *Scope) Type() string {
	return "scope"
}

// Next returns the scope after s in cycling order.
func (s Scope) Next() Scope {
	for i, scope := range Scopes {
		if scope == s {
			return Scopes[(i+1)%len(Scopes)]
		}
	}
	return ScopeAll
}

// Label returns the display label for the scope.
func (s Scope) Label() string {
	switch s {
	case ScopeActive:
		return "Active"
	case ScopeOverdue:
		return "Overdue"
	case ScopeReturned:
		return "Returned"
	default:
		return "All"
	}
}

// Admits reports whether a record with the given status passes the scope.
func (s Scope) Admits(status Status) bool {
	switch s {
	case ScopeActive:
		return status == StatusActive || status == StatusOverdue
	case ScopeOverdue:
		return status == StatusOverdue
	case ScopeReturned:
		return status == StatusReturned
	default:
		return true
	}
}
