package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliHarness struct {
	t      *testing.T
	dir    string
	server *httptest.Server
}

func newHarness(t *testing.T, handler http.Handler) *cliHarness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("FOLIO_SESSION_FILE", filepath.Join(dir, "session.toml"))
	t.Setenv("FOLIO_PREFS_FILE", filepath.Join(dir, "prefs.toml"))
	t.Setenv("FOLIO_LOG_FILE", filepath.Join(dir, "folio.log"))
	t.Setenv("FOLIO_API_URL", "")
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &cliHarness{t: t, dir: dir, server: srv}
}

func (h *cliHarness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	base := []string{
		"--config", filepath.Join(h.dir, "config.toml"),
		"--env-file", filepath.Join(h.dir, "absent.env"),
		"--api-url", h.server.URL,
	}
	cmd.SetArgs(append(args, base...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func libraryServer(t *testing.T) http.Handler {
	t.Helper()
	now := time.Now().UTC()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "tok-123",
			"role":  "Librarian",
			"user":  map[string]any{"email": body["email"], "name": "Ana"},
		})
	})
	mux.HandleFunc("DELETE /logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /books", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dune", r.URL.Query().Get("title"))
		writeJSON(w, http.StatusOK, map[string]any{
			"books": []map[string]any{{"id": 1, "title": "Dune", "author": "Frank Herbert", "copies_count": 2}},
			"meta":  map[string]any{"current_page": 1, "total_pages": 1, "total_entries": 1},
		})
	})
	mux.HandleFunc("GET /borrowings", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 7, "book": map[string]any{"title": "Dune", "author": "Frank Herbert"}, "due_at": now.Add(-48 * time.Hour).Format(time.RFC3339)},
			{"id": 8, "book": map[string]any{"title": "Emma", "author": "Jane Austen"}, "due_at": now.Add(72 * time.Hour).Format(time.RFC3339)},
		})
	})
	return mux
}

func TestWhoamiSignedOut(t *testing.T) {
	h := newHarness(t, libraryServer(t))

	out, err := h.run("", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
	assert.Contains(t, out, "view catalog")
	assert.NotContains(t, out, "mutate catalog")
}

func TestLoginStoresSessionForLaterCommands(t *testing.T) {
	h := newHarness(t, libraryServer(t))

	out, err := h.run("secret\n", "login", "--email", "ana@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Ana (Librarian)")

	out, err = h.run("", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ana@example.com")
	assert.Contains(t, out, "mutate catalog")

	out, err = h.run("", "borrowings", "--scope", "overdue")
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Overdue")
	assert.NotContains(t, out, "Emma")
	assert.Contains(t, out, "2 total, 1 active, 1 overdue, 0 returned")

	out, err = h.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = h.run("", "borrowings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestLoginRejected(t *testing.T) {
	h := newHarness(t, libraryServer(t))

	_, err := h.run("wrong\n", "login", "--email", "ana@example.com")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
}

func TestBorrowingsScopeFlagRejectsUnknown(t *testing.T) {
	h := newHarness(t, libraryServer(t))

	_, err := h.run("", "borrowings", "--scope", "late")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scope")
}

func TestBooksTable(t *testing.T) {
	h := newHarness(t, libraryServer(t))

	out, err := h.run("", "books", "--title", "dune")
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Frank Herbert")
	assert.Contains(t, out, "Page 1 of 1 (1 books)")
}

func TestLogsPrintsRequests(t *testing.T) {
	h := newHarness(t, libraryServer(t))

	_, err := h.run("", "books", "--title", "dune")
	require.NoError(t, err)

	out, err := h.run("", "logs", "--level", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "folio started")
}
