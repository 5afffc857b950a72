// Package config loads folio's configuration.
//
// # Resolution order
//
//  1. Built-in defaults
//  2. The TOML file at the given path, or ~/.config/folio/config.toml
//  3. FOLIO_* environment variables (optionally seeded from .env via LoadDotEnv)
//
// Command-line flags are applied by the caller on top of the result.
//
// # TOML Format
//
//	api_url = "http://localhost:3000/api/v1"
//	log_file = "~/.local/state/folio/folio.log"
//	log_level = "info"
//	session_file = "~/.local/state/folio/session.toml"
//	prefs_file = "~/.config/folio/prefs.toml"
//	strict_borrow = false
//	request_timeout_seconds = 10
//
// Every field is optional. Blank values fall back to defaults and path
// fields get tilde expansion.
//
// # Environment
//
// Each field has a FOLIO_ counterpart: FOLIO_API_URL, FOLIO_LOG_FILE,
// FOLIO_LOG_LEVEL, FOLIO_SESSION_FILE, FOLIO_PREFS_FILE,
// FOLIO_STRICT_BORROW and FOLIO_REQUEST_TIMEOUT_SECONDS.
//
// A missing config file is not an error; an unreadable or malformed one is.
package config
