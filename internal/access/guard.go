package access

// Requirement is the access level a page declares.
type Requirement int

const (
	// Public pages render for everyone.
	Public Requirement = iota
	// GuestOnly pages (login, registration) are for unauthenticated users.
	GuestOnly
	// Authenticated pages require a session.
	Authenticated
	// LibrarianOnly pages require a librarian session.
	LibrarianOnly
)

// Decision is the outcome of guarding a page.
type Decision int

const (
	// Allow renders the requested page.
	Allow Decision = iota
	// RedirectLogin sends the user to the login page.
	RedirectLogin
	// RedirectCatalog sends the user to the catalog.
	RedirectCatalog
	// RedirectDashboard sends the user to the dashboard.
	RedirectDashboard
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectCatalog:
		return "redirect-catalog"
	case RedirectDashboard:
		return "redirect-dashboard"
	default:
		return "unknown"
	}
}

// Guard decides whether subject may open a page with the given requirement.
// A missing session always leads to login; a session lacking the librarian
// role is sent to the catalog instead.
func Guard(req Requirement, subject Subject) Decision {
	switch req {
	case GuestOnly:
		if subject.Authenticated {
			return RedirectDashboard
		}
		return Allow
	case Authenticated:
		if !subject.Authenticated {
			return RedirectLogin
		}
		return Allow
	case LibrarianOnly:
		if !subject.Authenticated {
			return RedirectLogin
		}
		if subject.Role != RoleLibrarian {
			return RedirectCatalog
		}
		return Allow
	default:
		return Allow
	}
}
