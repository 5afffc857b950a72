package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/apperr"
	"github.com/five82/folio/internal/library"
)

type loginState struct {
	form       form
	submitting bool
	err        string
}

func newLoginState() loginState {
	return loginState{form: newForm(
		newTextField("email", "Email", "you@example.com", true),
		newPasswordField("password", "Password"),
	)}
}

type registerState struct {
	form       form
	submitting bool
	err        string
}

func newRegisterState() registerState {
	return registerState{form: newForm(
		newTextField("email", "Email", "you@example.com", true),
		newTextField("name", "Name", "", false),
		newTextField("last_name", "Last name", "", false),
		newTextField("birth_date", "Birth date", "YYYY-MM-DD", false),
		newPasswordField("password", "Password"),
		newPasswordField("password_confirmation", "Confirm"),
	)}
}

func (s registerState) registration() library.Registration {
	return library.Registration{
		Email:                s.form.value("email"),
		Name:                 s.form.value("name"),
		LastName:             s.form.value("last_name"),
		BirthDate:            s.form.value("birth_date"),
		Password:             s.form.value("password"),
		PasswordConfirmation: s.form.value("password_confirmation"),
	}
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Register):
		return m.navigate(PageRegister)
	case key.Matches(msg, m.keys.Submit):
		if m.login.submitting {
			return m, nil
		}
		if err := m.login.form.validate(); err != nil {
			m.login.err = apperr.UserMessage(err, "Email and password are required")
			return m, nil
		}
		m.login.err = ""
		m.login.submitting = true
		email := m.login.form.value("email")
		m.logger.Info("login requested", "email", email)
		return m, m.loginCmd(email, m.login.form.value("password"))
	}
	cmd := m.login.form.update(msg, m.keys)
	return m, cmd
}

func (m Model) handleRegisterKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Submit) {
		cmd := m.register.form.update(msg, m.keys)
		return m, cmd
	}
	if m.register.submitting {
		return m, nil
	}
	if err := m.register.form.validate(); err != nil {
		m.register.err = apperr.UserMessage(err, "Fill in the required fields")
		return m, nil
	}
	reg := m.register.registration()
	if reg.Password != reg.PasswordConfirmation {
		m.register.form.setError("password_confirmation", "Passwords do not match")
		m.register.err = "Passwords do not match"
		return m, nil
	}
	m.register.err = ""
	m.register.submitting = true
	m.logger.Info("registration requested", "email", reg.Email)
	return m, m.registerCmd(reg)
}

// handleAuthDone stores a new session, or shows why login or registration
// failed. A registration that returns no token sends the user to log in.
func (m Model) handleAuthDone(msg authDoneMsg) (Model, tea.Cmd) {
	m.login.submitting = false
	m.register.submitting = false

	if msg.err != nil {
		fallback := "Login failed"
		if msg.register {
			fallback = "Registration failed"
		}
		m.logger.Warn("authentication failed", "register", msg.register, "error", msg.err)
		text := apperr.UserMessage(msg.err, fallback)
		if msg.register {
			m.register.err = text
		} else {
			m.login.err = text
		}
		m.setFlash(flashError, text)
		return m, nil
	}

	if msg.register && strings.TrimSpace(msg.resp.Token) == "" {
		next, cmd := m.navigate(PageLogin)
		next.setFlash(flashSuccess, "Account created, please log in")
		return next, cmd
	}

	sess, err := m.session.Login(msg.resp)
	if err != nil {
		m.logger.Error("failed to store session", "error", err)
		m.setFlash(flashError, "Could not save session")
		return m, nil
	}
	m.logger.Info("signed in", "role", sess.Role.String())
	m.resetUserData()

	name := sess.Name
	if name == "" {
		name = sess.Email
	}
	next, cmd := m.navigate(PageDashboard)
	next.setFlash(flashSuccess, strings.TrimSpace("Welcome "+name))
	return next, cmd
}

// logout asks the service to drop the session. The local session is cleared
// when the call returns, whatever its outcome.
func (m Model) logout() (Model, tea.Cmd) {
	if m.loggingOut {
		return m, nil
	}
	m.loggingOut = true
	return m, m.logoutCmd()
}

func (m Model) handleLogoutDone(msg logoutDoneMsg) (Model, tea.Cmd) {
	m.loggingOut = false
	if msg.err != nil {
		m.logger.Warn("remote logout failed", "error", msg.err)
	}
	if err := m.session.Logout(); err != nil {
		m.logger.Error("failed to clear session", "error", err)
		m.setFlash(flashError, "Could not clear session")
		return m, nil
	}
	m.logger.Info("signed out")
	m.resetUserData()
	next, cmd := m.navigate(PageBooks)
	next.setFlash(flashInfo, "Logged out")
	return next, cmd
}

// resetUserData drops pages that belong to the previous session.
func (m *Model) resetUserData() {
	m.borrowings = borrowingsState{scope: m.borrowings.scope}
	m.dashboard = newDashboardState()
	m.syncDashboard()
}

func (m Model) renderLogin(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	var b strings.Builder
	b.WriteString(styles.MutedText.Render("Sign in to borrow books and manage your loans."))
	b.WriteString("\n\n")
	b.WriteString(m.login.form.view(styles, 12))
	b.WriteString("\n\n")
	b.WriteString(authStatus(styles, m.login.submitting, m.login.err, "Signing in..."))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter to sign in · ctrl+r to register · esc to cancel"))
	return m.renderTitledBox("Login", b.String(), width, height, true)
}

func (m Model) renderRegister(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	var b strings.Builder
	b.WriteString(m.register.form.view(styles, 13))
	b.WriteString("\n\n")
	b.WriteString(authStatus(styles, m.register.submitting, m.register.err, "Creating account..."))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter to register · esc to go back"))
	return m.renderTitledBox("Register", b.String(), width, height, true)
}

func authStatus(styles Styles, busy bool, errText, busyText string) string {
	switch {
	case busy:
		return styles.WarningText.Render(busyText)
	case errText != "":
		return styles.DangerText.Render(errText)
	default:
		return ""
	}
}
