// Package logtail reads the tail of folio's JSON log file and renders its
// records as plain text for `folio logs`.
//
// Read keeps a ring buffer of the last N lines, so memory stays bounded
// by N regardless of file size. A missing file is not an error: nothing has
// been logged yet.
//
// Parse decodes the slog JSON records written by the logging package; lines
// that are not JSON pass through untouched.
package logtail
