package access

import "strings"

// Role is the role claim carried by an authenticated session.
type Role string

const (
	// RoleNone is the absent role of an unauthenticated session.
	RoleNone Role = ""
	// RoleLibrarian may mutate the catalog and see every borrowing.
	RoleLibrarian Role = "Librarian"
	// RoleMember may borrow copies and see their own borrowings.
	RoleMember Role = "Member"
)

// ParseRole normalizes a role claim. Matching is case-insensitive and
// unknown values map to RoleNone.
func ParseRole(value string) Role {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "librarian":
		return RoleLibrarian
	case "member":
		return RoleMember
	default:
		return RoleNone
	}
}

// String returns the display form of the role.
func (r Role) String() string {
	if r == RoleNone {
		return "Guest"
	}
	return string(r)
}

// Subject is the authentication state a decision is made for.
type Subject struct {
	Authenticated bool
	Role          Role
}

// Guest is the unauthenticated subject.
var Guest = Subject{}

// IsLibrarian reports whether the subject is an authenticated librarian.
func (s Subject) IsLibrarian() bool {
	return s.Authenticated && s.Role == RoleLibrarian
}
