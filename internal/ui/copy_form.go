package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/apperr"
	"github.com/five82/folio/internal/intent"
	"github.com/five82/folio/internal/library"
)

// copyFormState holds the create/edit copy page. copyID is zero when
// creating.
type copyFormState struct {
	bookID  int64
	copyID  int64
	form    form
	loading bool
	err     string
}

func newCopyFormState(bookID int64, c library.Copy) copyFormState {
	f := newForm(
		newTextField("condition", "Condition", "e.g. good, worn", false),
		newChoiceField("status", "Status", library.CopyStatuses),
	)
	s := copyFormState{bookID: bookID, copyID: c.ID, form: f}
	s.fill(c)
	return s
}

func (s *copyFormState) fill(c library.Copy) {
	s.form.set("condition", c.Condition)
	s.form.set("status", c.EffectiveStatus())
}

func (s copyFormState) input() library.CopyInput {
	return library.CopyInput{
		Condition: s.form.value("condition"),
		Status:    s.form.value("status"),
	}
}

func (s copyFormState) key() intent.Key {
	if s.copyID == 0 {
		return intent.Key{Action: intent.CreateCopy, ID: s.bookID}
	}
	return intent.Key{Action: intent.UpdateCopy, ID: s.copyID}
}

func (m Model) handleCopyLoaded(msg copyLoadedMsg) (Model, tea.Cmd) {
	if m.stale(msg.gen, "copy") {
		return m, nil
	}
	m.copyForm.loading = false
	if msg.err != nil {
		if apperr.Is(msg.err, apperr.CodeNotFound) {
			m.copyForm.err = "Copy not found"
			return m, nil
		}
		m.copyForm.err = apperr.UserMessage(msg.err, "Failed to load copy")
		return m.handleRemoteError(msg.err, "Failed to load copy")
	}
	if msg.copy.BookID > 0 {
		m.copyForm.bookID = msg.copy.BookID
	}
	m.copyForm.fill(msg.copy)
	return m, nil
}

func (m Model) handleCopyFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		return m.submitCopyForm()
	}
	cmd := m.copyForm.form.update(msg, m.keys)
	return m, cmd
}

func (m Model) submitCopyForm() (Model, tea.Cmd) {
	if m.copyForm.loading {
		return m, nil
	}
	if err := m.copyForm.form.validate(); err != nil {
		m.copyForm.err = apperr.UserMessage(err, "Check the highlighted fields")
		return m, nil
	}
	m.copyForm.err = ""

	svc, input := m.service, m.copyForm.input()
	bookID, copyID := m.copyForm.bookID, m.copyForm.copyID
	return m.startMutation(m.copyForm.key(), func(ctx context.Context) (int64, error) {
		if copyID == 0 {
			c, err := svc.CreateCopy(ctx, bookID, input)
			return c.ID, err
		}
		c, err := svc.UpdateCopy(ctx, copyID, input)
		return c.ID, err
	})
}

func (m Model) renderCopyForm(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	title := fmt.Sprintf("New Copy · Book #%d", m.copyForm.bookID)
	if m.copyForm.copyID > 0 {
		title = fmt.Sprintf("Edit Copy #%d", m.copyForm.copyID)
	}

	var b strings.Builder
	if m.copyForm.loading {
		b.WriteString(styles.MutedText.Render("Loading copy..."))
		b.WriteString("\n\n")
	}
	b.WriteString(m.copyForm.form.view(styles, 12))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("←/→ change status"))
	b.WriteString("\n")
	b.WriteString(m.formStatus(styles, m.copyForm.key(), m.copyForm.err))

	return m.renderTitledBox(title, b.String(), width, height, true)
}
