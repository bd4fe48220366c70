package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/seaholm/wpec/internal/bulk"
	"github.com/seaholm/wpec/internal/catalog"
	"github.com/seaholm/wpec/internal/history"
	"github.com/seaholm/wpec/internal/shared"
	"github.com/seaholm/wpec/internal/wpe"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	LoadingView
	BrowserView
	WizardView
)

// browserTab enumerates the tabbed tables of [BrowserView].
type browserTab int

const (
	accountsTab browserTab = iota
	sitesTab
	usersTab
)

func (t browserTab) String() string {
	switch t {
	case sitesTab:
		return "Sites"
	case usersTab:
		return "Users"
	default:
		return "Accounts"
	}
}

// Deps carries everything the model needs injected. Client may be nil
// when no credentials are configured; the login form builds one.
type Deps struct {
	Config  *shared.Config
	Client  *wpe.Client
	History *history.Repository
	Logger  *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	cfg      *shared.Config
	client   *wpe.Client
	histRepo *history.Repository
	logger   *log.Logger

	view   ViewState
	width  int
	height int

	login loginForm

	cat           *catalog.Catalog
	sites         []wpe.Site
	tab           browserTab
	accountsTable table.Model
	sitesTable    table.Model
	usersTable    table.Model

	session      *bulk.Session
	wiz          wizardState
	progressBar  progress.Model
	progressChan chan bulk.ProgressUpdate
	lastProgress bulk.ProgressUpdate
	running      bool
	batchStart   time.Time

	err  error
	help help.Model
	keys keyMap
}

type loginResultMsg struct {
	client *wpe.Client
	user   *wpe.CurrentUser
	err    error
}

type catalogLoadedMsg struct {
	cat   *catalog.Catalog
	sites []wpe.Site
	err   error
}

type progressMsg bulk.ProgressUpdate

type batchDoneMsg struct {
	results []bulk.OperationResult
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = shared.NewLogger(nil)
	}
	return &Model{
		ctx:         ctx,
		cfg:         deps.Config,
		client:      deps.Client,
		histRepo:    deps.History,
		logger:      deps.Logger,
		view:        LoginView,
		login:       newLoginForm(deps.Config),
		session:     bulk.NewSession(),
		wiz:         newWizardState(),
		progressBar: progress.New(progress.WithDefaultGradient()),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init probes configured credentials, or shows the login form when none
// are present.
func (m *Model) Init() tea.Cmd {
	if m.client != nil && m.cfg != nil && m.cfg.HasCredentials() {
		return m.probeLogin(m.client)
	}
	return m.login.focusCmd()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTables()
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case BrowserView:
			return m.handleBrowserKeys(msg)
		case WizardView:
			return m.handleWizardKeys(msg)
		default:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
		}
		return m, nil

	case loginResultMsg:
		if msg.err != nil {
			m.login.err = msg.err
			m.view = LoginView
			return m, m.login.focusCmd()
		}
		m.client = msg.client
		m.logger.Info("authenticated", "user", msg.user.Email)
		m.view = LoadingView
		return m, m.loadCatalog()

	case catalogLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.cat = msg.cat
		m.sites = msg.sites
		m.buildTables()
		m.view = BrowserView
		return m, nil

	case progressMsg:
		m.lastProgress = bulk.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case batchDoneMsg:
		m.running = false
		m.progressChan = nil
		return m, nil
	}

	return m.updateFocused(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoginView:
		return m.login.view()
	case LoadingView:
		return styles.title.Render("wpec") + "\n\nLoading accounts and users..."
	case BrowserView:
		return m.renderBrowser()
	case WizardView:
		return m.renderWizard()
	default:
		return ""
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		if cmd := m.login.advance(); cmd != nil {
			return m, cmd
		}
		user, pass := m.login.values()
		client := wpe.NewClient(wpe.ClientOpts{
			BaseURL:  m.cfg.API.BaseURL,
			Username: user,
			Password: pass,
			Logger:   m.logger,
		})
		m.view = LoadingView
		return m, m.probeLogin(client)
	}

	var cmd tea.Cmd
	m.login, cmd = m.login.update(msg)
	return m, cmd
}

func (m *Model) handleBrowserKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.tab):
		m.tab = (m.tab + 1) % 3
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.view = LoadingView
		return m, m.loadCatalog()
	case key.Matches(msg, m.keys.wizard):
		m.view = WizardView
		m.wiz = newWizardState()
		m.session = bulk.NewSession()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.tab {
	case sitesTab:
		m.sitesTable, cmd = m.sitesTable.Update(msg)
	case usersTab:
		m.usersTable, cmd = m.usersTable.Update(msg)
	default:
		m.accountsTable, cmd = m.accountsTable.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case LoginView:
		m.login, cmd = m.login.update(msg)
	case BrowserView:
		switch m.tab {
		case sitesTab:
			m.sitesTable, cmd = m.sitesTable.Update(msg)
		case usersTab:
			m.usersTable, cmd = m.usersTable.Update(msg)
		default:
			m.accountsTable, cmd = m.accountsTable.Update(msg)
		}
	case WizardView:
		return m.updateWizard(msg)
	}
	return m, cmd
}

func (m *Model) probeLogin(client *wpe.Client) tea.Cmd {
	return func() tea.Msg {
		user, err := client.Whoami(m.ctx)
		return loginResultMsg{client: client, user: user, err: err}
	}
}

func (m *Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		cat, err := catalog.Load(m.ctx, m.client, catalog.Opts{
			RateLimit: m.cfg.API.RateLimit,
			Logger:    m.logger,
		})
		if err != nil {
			return catalogLoadedMsg{err: err}
		}

		// Sites feed the browser only; a failure degrades to an empty tab.
		sites, err := m.client.ListSites(m.ctx, "")
		if err != nil {
			m.logger.Warn("failed to list sites", "error", err)
			sites = nil
		}
		return catalogLoadedMsg{cat: cat, sites: sites}
	}
}

// startBatch launches the executor in its own goroutine. The batch owns
// the channel lifecycle: it is closed when the run finishes, which is
// how waitForProgress learns the batch is done. The goroutine also owns
// the session until then; while running is set, key handling and
// rendering stay off the session and use lastProgress instead.
func (m *Model) startBatch() tea.Cmd {
	m.progressChan = make(chan bulk.ProgressUpdate, 50)
	m.running = true
	m.batchStart = time.Now()
	m.lastProgress = bulk.ProgressUpdate{}

	session, ch := m.session, m.progressChan
	go func() {
		executor := bulk.NewExecutor(m.client, m.logger)
		results := executor.Run(m.ctx, session, ch)

		if m.histRepo != nil {
			if _, err := m.histRepo.Record(session.Action, results, m.batchStart, time.Now()); err != nil {
				m.logger.Error("failed to record batch", "error", err)
			}
		}
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	return func() tea.Msg {
		if ch == nil {
			return batchDoneMsg{results: m.session.Results}
		}

		update, ok := <-ch
		if !ok {
			return batchDoneMsg{results: m.session.Results}
		}
		return progressMsg(update)
	}
}

func (m *Model) renderBrowser() string {
	tabs := ""
	for t := accountsTab; t <= usersTab; t++ {
		name := t.String()
		if t == m.tab {
			name = styles.active.Render(name)
		} else {
			name = styles.label.Render(name)
		}
		if tabs != "" {
			tabs += "  "
		}
		tabs += name
	}

	var body string
	switch m.tab {
	case sitesTab:
		body = m.sitesTable.View()
	case usersTab:
		body = m.usersTable.View()
	default:
		body = m.accountsTable.View()
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.tab, m.keys.wizard, m.keys.reload, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s\n\n%s", tabs, body, helpView)
}
