package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/apperr"
	"github.com/five82/folio/internal/intent"
)

// mutationDoneMsg acknowledges a mutation. ref is the id of the record the
// service created or updated, when it returned one.
type mutationDoneMsg struct {
	key intent.Key
	nav int
	ref int64
	err error
}

// requestIntent starts key, asking for confirmation first when the action is
// destructive. A key that is already in flight is ignored.
func (m Model) requestIntent(key intent.Key, detail string) (Model, tea.Cmd) {
	if m.tracker.Pending(key) {
		m.logger.Debug("intent already in flight", "intent", key.String())
		return m, nil
	}
	if key.Action.Destructive() {
		m.modal = newConfirmModal(key, detail)
		return m, nil
	}
	return m.mutate(key)
}

// mutate issues the request for an id-only intent.
func (m Model) mutate(key intent.Key) (Model, tea.Cmd) {
	svc, id := m.service, key.ID
	switch key.Action {
	case intent.Borrow:
		return m.startMutation(key, func(ctx context.Context) (int64, error) {
			b, err := svc.Borrow(ctx, id)
			return b.ID, err
		})
	case intent.Renew:
		return m.startMutation(key, func(ctx context.Context) (int64, error) {
			return id, svc.Renew(ctx, id)
		})
	case intent.Return:
		return m.startMutation(key, func(ctx context.Context) (int64, error) {
			return id, svc.Return(ctx, id)
		})
	case intent.DeleteBook:
		return m.startMutation(key, func(ctx context.Context) (int64, error) {
			return id, svc.DeleteBook(ctx, id)
		})
	case intent.DeleteCopy:
		return m.startMutation(key, func(ctx context.Context) (int64, error) {
			return id, svc.DeleteCopy(ctx, id)
		})
	}
	m.logger.Warn("intent needs a form payload", "intent", key.String())
	return m, nil
}

// startMutation marks key in flight and runs fn as a command. It returns no
// command when key is already pending.
func (m Model) startMutation(key intent.Key, fn func(ctx context.Context) (int64, error)) (Model, tea.Cmd) {
	if !m.tracker.Begin(key) {
		m.logger.Debug("intent already in flight", "intent", key.String())
		return m, nil
	}
	m.logger.Info("intent issued", "intent", key.String())

	nav := m.nav
	return m, m.request(func(ctx context.Context) tea.Msg {
		ref, err := fn(ctx)
		return mutationDoneMsg{key: key, nav: nav, ref: ref, err: err}
	})
}

// handleMutationDone returns the control to idle and, on success, refetches
// the page. The refetch is only issued here, after the acknowledgment, and
// only when the user is still on the page that issued the intent.
func (m Model) handleMutationDone(msg mutationDoneMsg) (Model, tea.Cmd) {
	m.tracker.End(msg.key)
	action := msg.key.Action

	if msg.err != nil {
		m.logger.Warn("intent failed", "intent", msg.key.String(), "error", msg.err)
		if apperr.Is(msg.err, apperr.CodeAuthRequired) {
			return m.expireSession()
		}
		text := intent.ErrorMessage(action, msg.err)
		m.setFlash(flashError, text)
		if msg.nav == m.nav {
			m.formError(msg.err, text)
		}
		return m, nil
	}

	m.logger.Info("intent acknowledged", "intent", msg.key.String(), "ref", msg.ref)
	m.setFlash(flashSuccess, action.SuccessMessage())
	if msg.nav != m.nav {
		return m, nil
	}

	switch action {
	case intent.CreateBook, intent.UpdateBook:
		id := msg.ref
		if id == 0 {
			id = msg.key.ID
		}
		if id == 0 {
			return m.navigate(PageBooks)
		}
		m.detail = detailState{bookID: id}
		return m.navigate(PageBook)

	case intent.DeleteBook:
		if m.page == PageBooks {
			return m.reload()
		}
		return m.navigate(PageBooks)

	case intent.CreateCopy, intent.UpdateCopy:
		m.detail = detailState{bookID: m.copyForm.bookID}
		return m.navigate(PageBook)
	}
	return m.reload()
}

// formError shows a failed save on the form that issued it.
func (m *Model) formError(err error, text string) {
	field := ""
	var ae *apperr.Error
	if errors.As(err, &ae) {
		field = ae.Field
	}
	switch m.page {
	case PageBookForm:
		m.bookForm.err = text
		if field != "" {
			m.bookForm.form.setError(field, text)
		}
	case PageCopyForm:
		m.copyForm.err = text
		if field != "" {
			m.copyForm.form.setError(field, text)
		}
	}
}
