package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(" DEBUG "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_WritesJSONAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("dropped")
	logger.Warn("kept", slog.Int("status", 500))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "folio", record["app"])
	assert.EqualValues(t, 500, record["status"])
}

func TestOpen_CreatesDirectoryAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "folio.log")

	logger, cleanup, err := Open(path, "info")
	require.NoError(t, err)
	logger.Info("first")
	cleanup()

	logger, cleanup, err = Open(path, "info")
	require.NoError(t, err)
	logger.Info("second")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
}

func TestOpen_EmptyPathDiscards(t *testing.T) {
	logger, cleanup, err := Open("  ", "debug")
	require.NoError(t, err)
	defer cleanup()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}
