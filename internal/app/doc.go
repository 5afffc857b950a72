// Package app is the composition root for folio.
//
// # Overview
//
// Bootstrap wires configuration, logging, the session store, the library
// client and user preferences into an Env. Run hands an Env to the
// terminal UI; the CLI commands in cmd/folio use the same Env directly.
//
// # Initialization
//
//  1. Load an optional .env file into the environment
//  2. Read ~/.config/folio/config.toml and apply FOLIO_* overrides
//  3. Apply command-line overrides (API URL, log file)
//  4. Open the JSON log file
//  5. Restore the stored session, if any
//  6. Build the HTTP client with the session as its token source
//  7. Load preferences (theme, borrowings scope)
//
// # Data Flow
//
//	┌──────────────┐
//	│ Bootstrap()  │
//	└──────┬───────┘
//	       ├─────> config.LoadDotEnv() / config.Load()
//	       ├─────> logging.Open()
//	       ├─────> session.Open()
//	       ├─────> library.NewClient()
//	       └─────> prefs.Load()
//
//	┌──────────────┐
//	│   Run()      │ Bootstrap, then ui.Run() (blocks)
//	└──────────────┘
//
// # Error Handling
//
// Fatal (returned from Bootstrap): an unparseable config file or
// environment, an invalid API URL, or a log file that cannot be opened.
// A missing config file, a corrupt session file and unreadable preferences
// all fall back to defaults.
package app
