package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/folio/internal/apperr"
)

func TestFormValidateReportsFirstMissingField(t *testing.T) {
	f := newForm(
		newTextField("title", "Title", "", true),
		newTextField("author", "Author", "", true),
		newTextField("genre", "Genre", "", false),
	)
	f.set("author", "Herbert")

	err := f.validate()
	require.Error(t, err)

	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	assert.Equal(t, "title", ae.Field)
	assert.Equal(t, "Title is required", f.fields[0].err)
	assert.Empty(t, f.fields[1].err)

	f.set("title", "Dune")
	assert.NoError(t, f.validate())
	assert.Empty(t, f.fields[0].err)
}

func TestFormFieldMovementWraps(t *testing.T) {
	keys := DefaultKeyMap()
	f := newForm(
		newTextField("a", "A", "", false),
		newTextField("b", "B", "", false),
	)

	f.update(tea.KeyMsg{Type: tea.KeyTab}, keys)
	assert.Equal(t, 1, f.focus)
	f.update(tea.KeyMsg{Type: tea.KeyTab}, keys)
	assert.Equal(t, 0, f.focus)
	f.update(tea.KeyMsg{Type: tea.KeyShiftTab}, keys)
	assert.Equal(t, 1, f.focus)
}

func TestFormChoiceCycles(t *testing.T) {
	keys := DefaultKeyMap()
	f := newForm(newChoiceField("status", "Status", []string{"available", "borrowed", "maintenance"}))
	assert.Equal(t, "available", f.value("status"))

	f.update(tea.KeyMsg{Type: tea.KeyRight}, keys)
	assert.Equal(t, "borrowed", f.value("status"))
	f.update(tea.KeyMsg{Type: tea.KeyLeft}, keys)
	f.update(tea.KeyMsg{Type: tea.KeyLeft}, keys)
	assert.Equal(t, "maintenance", f.value("status"))

	f.set("status", "borrowed")
	assert.Equal(t, "borrowed", f.value("status"))
}

func TestFormTypingClearsFieldError(t *testing.T) {
	keys := DefaultKeyMap()
	f := newForm(newTextField("title", "Title", "", true))
	require.Error(t, f.validate())

	f.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("D")}, keys)
	assert.Equal(t, "D", f.value("title"))
	assert.Empty(t, f.fields[0].err)
}
