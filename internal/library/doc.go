// Package library is the HTTP client for the library service REST API.
//
// Client covers authentication, catalog books, copy inventory, borrowings
// and the member dashboard. It attaches the session's bearer token to every
// request when one is present and maps non-2xx responses to *APIError, which
// unwraps to an *apperr.Error carrying the server-supplied message.
package library
