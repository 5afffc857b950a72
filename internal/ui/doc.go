// Package ui provides the Bubble Tea terminal interface for folio.
//
// # Architecture Overview
//
// Model is the single Bubble Tea model. Every network call runs as a tea.Cmd
// and reports back as a message, so all state changes happen in Update on
// the program's goroutine.
//
// # Pages
//
//   - Books: paged catalog with filters; librarians add, edit and delete
//   - Book: one book with its copies; borrow an available copy
//   - Book Form / Copy Form: librarian create and edit
//   - Borrowings: the caller's (or, for librarians, every) borrowing,
//     classified and sorted by due date, with renew and return
//   - Dashboard: member summary from the service, or a librarian overview
//   - Login / Register
//
// # Access
//
// Each page declares an access.Requirement. navigate consults access.Guard
// before entering a page and renderContent checks it again on every render,
// so signing out (or a rejected credential) never leaves protected content
// on screen. Controls are drawn from access.Policy permissions.
//
// # Requests
//
// Loads carry a generation number; a response from an earlier generation
// is dropped. Mutations go through an intent.Tracker keyed by action and
// record id: a key already in flight is not sent again, and the page is
// refetched only after the service acknowledges the mutation. Destructive
// intents open a confirmation modal first.
//
// # Key Bindings
//
//   - 1/2/3: Books, Borrowings, Dashboard
//   - j/k, g/G: Move selection
//   - enter: Open book
//   - /: Catalog filters; n/p: next/previous page
//   - b: Borrow copy; r: Renew; x: Return or delete
//   - f: Cycle borrowing scope
//   - L: Log in or out
//   - T: Cycle theme
//   - h/?: Help
//   - q or Ctrl+C: Quit
package ui
