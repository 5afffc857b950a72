package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/access"
	"github.com/five82/folio/internal/apperr"
	"github.com/five82/folio/internal/intent"
	"github.com/five82/folio/internal/library"
	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/session"
)

// Page identifies a screen.
type Page int

const (
	PageBooks Page = iota
	PageBook
	PageBookForm
	PageCopyForm
	PageBorrowings
	PageDashboard
	PageLogin
	PageRegister
)

func (p Page) String() string {
	switch p {
	case PageBook:
		return "Book"
	case PageBookForm:
		return "Book Form"
	case PageCopyForm:
		return "Copy Form"
	case PageBorrowings:
		return "Borrowings"
	case PageDashboard:
		return "Dashboard"
	case PageLogin:
		return "Login"
	case PageRegister:
		return "Register"
	default:
		return "Books"
	}
}

// Requirement is the access level the page declares.
func (p Page) Requirement() access.Requirement {
	switch p {
	case PageBookForm, PageCopyForm:
		return access.LibrarianOnly
	case PageBorrowings, PageDashboard:
		return access.Authenticated
	case PageLogin, PageRegister:
		return access.GuestOnly
	default:
		return access.Public
	}
}

// isForm reports whether the page captures typed keys.
func (p Page) isForm() bool {
	switch p {
	case PageBookForm, PageCopyForm, PageLogin, PageRegister:
		return true
	default:
		return false
	}
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Service      library.Service
	Session      *session.Store
	Policy       access.Policy
	Logger       *slog.Logger
	Prefs        prefs.Prefs
	PrefsPath    string
	FetchTimeout time.Duration
	// Now overrides the clock used to classify borrowings.
	Now func() time.Time
}

type flashLevel int

const (
	flashInfo flashLevel = iota
	flashSuccess
	flashError
)

type flash struct {
	text  string
	level flashLevel
	at    time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	service      library.Service
	session      *session.Store
	policy       access.Policy
	logger       *slog.Logger
	prefs        prefs.Prefs
	prefsPath    string
	fetchTimeout time.Duration
	now          func() time.Time

	// UI state
	keys     keyMap
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal
	flash    flash

	// Navigation. nav changes on every page change; gen on every load.
	page Page
	nav  int
	gen  int

	tracker    *intent.Tracker
	loggingOut bool

	// Per-page state
	books      booksState
	detail     detailState
	bookForm   bookFormState
	copyForm   copyFormState
	borrowings borrowingsState
	dashboard  dashboardState
	login      loginState
	register   registerState
}

// New creates a new Bubble Tea model starting on the catalog.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	store := opts.Session
	if store == nil {
		store, _ = session.Open("")
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	p := opts.Prefs
	if p.Theme == "" {
		p.Theme = prefs.Defaults().Theme
	}
	if p.Scope == "" {
		p.Scope = prefs.Defaults().Scope
	}

	return Model{
		ctx:          ctx,
		service:      opts.Service,
		session:      store,
		policy:       opts.Policy,
		logger:       logger,
		prefs:        p,
		prefsPath:    opts.PrefsPath,
		fetchTimeout: timeout,
		now:          now,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(p.Theme),
		page:         PageBooks,
		nav:          1,
		gen:          1,
		tracker:      intent.NewTracker(),
		books:        booksState{page: 1, loading: true},
		borrowings:   borrowingsState{scope: p.Scope},
		dashboard:    newDashboardState(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(DefaultUIInterval),
		m.fetchBooksCmd(m.gen, m.books.query()),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.syncDashboard()
		return m, nil

	case tickMsg:
		if m.page == PageDashboard {
			m.syncDashboard()
		}
		return m, tickCmd(DefaultUIInterval)

	case booksLoadedMsg:
		return m.handleBooksLoaded(msg)

	case bookLoadedMsg:
		return m.handleBookLoaded(msg)

	case bookFormLoadedMsg:
		return m.handleBookFormLoaded(msg)

	case copyLoadedMsg:
		return m.handleCopyLoaded(msg)

	case borrowingsLoadedMsg:
		return m.handleBorrowingsLoaded(msg)

	case dashboardLoadedMsg:
		return m.handleDashboardLoaded(msg)

	case confirmMsg:
		if !msg.ok {
			m.logger.Debug("intent cancelled", "intent", msg.key.String())
			return m, nil
		}
		return m.mutate(msg.key)

	case filterMsg:
		if m.page != PageBooks {
			return m, nil
		}
		m.books.filter = msg.query
		m.books.page = 1
		m.books.selected = 0
		return m.reload()

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case authDoneMsg:
		return m.handleAuthDone(msg)

	case logoutDoneMsg:
		return m.handleLogoutDone(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input. Overlays take keys first, then form
// pages, then global bindings, then the current page.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if m.page.isForm() {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.syncDashboard()
		return m, nil

	case key.Matches(msg, m.keys.PageBooks):
		return m.navigate(PageBooks)

	case key.Matches(msg, m.keys.PageBorrowings):
		return m.navigate(PageBorrowings)

	case key.Matches(msg, m.keys.PageDashboard):
		return m.navigate(PageDashboard)

	case key.Matches(msg, m.keys.Session):
		if m.session.Current().Authenticated() {
			return m.logout()
		}
		return m.navigate(PageLogin)

	case key.Matches(msg, m.keys.Escape):
		if m.page == PageBook {
			return m.navigate(PageBooks)
		}
		return m, nil
	}

	switch m.page {
	case PageBooks:
		return m.handleBooksKey(msg)
	case PageBook:
		return m.handleDetailKey(msg)
	case PageBorrowings:
		return m.handleBorrowingsKey(msg)
	case PageDashboard:
		return m.handleDashboardKey(msg)
	}
	return m, nil
}

// handleFormKey routes keys on pages that capture typing.
func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		return m.leaveForm()
	}
	switch m.page {
	case PageBookForm:
		return m.handleBookFormKey(msg)
	case PageCopyForm:
		return m.handleCopyFormKey(msg)
	case PageLogin:
		return m.handleLoginKey(msg)
	case PageRegister:
		return m.handleRegisterKey(msg)
	}
	return m, nil
}

// leaveForm returns from a form page to where it was opened.
func (m Model) leaveForm() (Model, tea.Cmd) {
	switch m.page {
	case PageBookForm:
		if m.bookForm.bookID > 0 {
			m.detail = detailState{bookID: m.bookForm.bookID}
			return m.navigate(PageBook)
		}
	case PageCopyForm:
		m.detail = detailState{bookID: m.copyForm.bookID}
		return m.navigate(PageBook)
	case PageRegister:
		return m.navigate(PageLogin)
	}
	return m.navigate(PageBooks)
}

// subject returns the access subject of the current session.
func (m Model) subject() access.Subject {
	return m.session.Subject()
}

// permissions evaluates the access policy for the current session. It is
// recomputed on every call so a session change is visible immediately.
func (m Model) permissions() access.Permissions {
	return m.policy.Evaluate(m.subject())
}

// navigate guards and enters page p, redirecting when the session does not
// satisfy the page's requirement.
func (m Model) navigate(p Page) (Model, tea.Cmd) {
	switch access.Guard(p.Requirement(), m.subject()) {
	case access.RedirectLogin:
		m.logger.Debug("page requires login", "page", p.String())
		m.setFlash(flashError, "Please log in to continue")
		p = PageLogin
	case access.RedirectCatalog:
		m.logger.Debug("page requires librarian", "page", p.String())
		m.setFlash(flashError, "Librarian access required")
		p = PageBooks
	case access.RedirectDashboard:
		p = PageDashboard
	}

	m.page = p
	m.nav++
	m.modal = nil

	switch p {
	case PageBooks:
		m.books.selected = 0
	case PageBorrowings:
		m.borrowings.selected = 0
	case PageDashboard:
		m.dashboard.viewport.GotoTop()
		m.syncDashboard()
	case PageLogin:
		m.login = newLoginState()
	case PageRegister:
		m.register = newRegisterState()
	}
	return m.reload()
}

// reload issues the fetch for the current page. Responses carrying an older
// generation are discarded.
func (m Model) reload() (Model, tea.Cmd) {
	m.gen++
	switch m.page {
	case PageBooks:
		m.books.loading = true
		return m, m.fetchBooksCmd(m.gen, m.books.query())

	case PageBook:
		m.detail.loading = true
		return m, m.fetchBookCmd(m.gen, m.detail.bookID)

	case PageBookForm:
		if m.bookForm.bookID > 0 {
			m.bookForm.loading = true
			return m, m.fetchBookFormCmd(m.gen, m.bookForm.bookID)
		}

	case PageCopyForm:
		if m.copyForm.copyID > 0 {
			m.copyForm.loading = true
			return m, m.fetchCopyCmd(m.gen, m.copyForm.copyID)
		}

	case PageBorrowings:
		m.borrowings.loading = true
		return m, m.fetchBorrowingsCmd(m.gen)

	case PageDashboard:
		m.dashboard.loading = true
		return m, m.fetchDashboardCmd(m.gen, m.subject().IsLibrarian())
	}
	return m, nil
}

// stale reports whether a load response belongs to an earlier generation.
func (m Model) stale(gen int, what string) bool {
	if gen == m.gen {
		return false
	}
	m.logger.Debug("discarding stale response", "what", what, "gen", gen, "current", m.gen)
	return true
}

// handleRemoteError logs a failed request and applies its session-level
// consequences: AuthRequired signs out, Forbidden returns to the catalog.
// Anything else becomes a flash message.
func (m Model) handleRemoteError(err error, fallback string) (Model, tea.Cmd) {
	m.logger.Warn("library request failed", "page", m.page.String(), "error", err)
	switch apperr.CodeOf(err) {
	case apperr.CodeAuthRequired:
		return m.expireSession()
	case apperr.CodeForbidden:
		next, cmd := m.navigate(PageBooks)
		next.setFlash(flashError, apperr.UserMessage(err, "You are not allowed to do that"))
		return next, cmd
	}
	m.setFlash(flashError, apperr.UserMessage(err, fallback))
	return m, nil
}

// expireSession drops a credential the service rejected and asks the user to
// log in again.
func (m Model) expireSession() (Model, tea.Cmd) {
	if err := m.session.Logout(); err != nil {
		m.logger.Error("failed to clear session", "error", err)
	}
	m.resetUserData()
	next, cmd := m.navigate(PageLogin)
	next.setFlash(flashError, "Session expired, please log in again")
	return next, cmd
}

func (m *Model) setFlash(level flashLevel, text string) {
	m.flash = flash{text: strings.TrimSpace(text), level: level, at: m.now()}
}

// activeFlash returns the flash message while it is still fresh.
func (m Model) activeFlash() (flash, bool) {
	if m.flash.text == "" || m.now().Sub(m.flash.at) > FlashDuration {
		return flash{}, false
	}
	return m.flash, true
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("failed to save preferences", "path", m.prefsPath, "error", err)
	}
}

// renderMain renders the header, command bar and current page.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent renders the current page. The page guard is evaluated again
// here so a session change never shows content the session may not see.
func (m Model) renderContent() string {
	width, height := m.width, m.height-chromeHeight
	if access.Guard(m.page.Requirement(), m.subject()) != access.Allow {
		return m.renderTitledBox(m.page.String(), m.theme.Styles().MutedText.Render("Redirecting..."), width, height, false)
	}

	switch m.page {
	case PageBook:
		return m.renderDetail(width, height)
	case PageBookForm:
		return m.renderBookForm(width, height)
	case PageCopyForm:
		return m.renderCopyForm(width, height)
	case PageBorrowings:
		return m.renderBorrowings(width, height)
	case PageDashboard:
		return m.renderDashboard(width, height)
	case PageLogin:
		return m.renderLogin(width, height)
	case PageRegister:
		return m.renderRegister(width, height)
	default:
		return m.renderBooks(width, height)
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	return err
}
