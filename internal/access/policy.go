package access

// Policy holds the product knobs that change access rules.
type Policy struct {
	// StrictBorrow limits borrowing to the Member role. When false any
	// authenticated session may borrow.
	StrictBorrow bool
}

// Permissions is the set of actions a subject may perform.
type Permissions struct {
	ViewCatalog       bool
	MutateCatalog     bool
	BorrowCopy        bool
	ViewOwnBorrowings bool
	ViewAllBorrowings bool
	ForceReturnCopy   bool
	DeleteCopy        bool
}

// Evaluate computes the permissions of subject under the policy.
func (p Policy) Evaluate(subject Subject) Permissions {
	authed := subject.Authenticated
	librarian := subject.Role == RoleLibrarian

	borrow := authed
	if p.StrictBorrow {
		borrow = authed && subject.Role == RoleMember
	}

	return Permissions{
		ViewCatalog:       true,
		MutateCatalog:     authed && librarian,
		BorrowCopy:        borrow,
		ViewOwnBorrowings: authed,
		ViewAllBorrowings: authed && librarian,
		ForceReturnCopy:   librarian,
		DeleteCopy:        librarian,
	}
}

// Labels lists the granted permissions by name, in declaration order.
func (p Permissions) Labels() []string {
	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}
	add(p.ViewCatalog, "view catalog")
	add(p.MutateCatalog, "mutate catalog")
	add(p.BorrowCopy, "borrow copy")
	add(p.ViewOwnBorrowings, "view own borrowings")
	add(p.ViewAllBorrowings, "view all borrowings")
	add(p.ForceReturnCopy, "force return copy")
	add(p.DeleteCopy, "delete copy")
	return out
}
