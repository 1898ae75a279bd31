package tui

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-client/internal/app"
	"github.com/MKhiriev/go-vault-client/internal/events"
	"github.com/MKhiriev/go-vault-client/internal/logger"
	"github.com/MKhiriev/go-vault-client/internal/service"
	"github.com/MKhiriev/go-vault-client/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenStartup screen = iota
	screenAuth
	screenList
	screenDetail
	screenForm
	screenBuildInfo
)

const statusTTL = 3 * time.Second

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

type appModel struct {
	ctx       context.Context
	session   service.ClientSessionService
	vault     service.ClientVaultService
	events    <-chan events.Event
	buildInfo models.AppBuildInfo
	logger    *logger.Logger

	screen   screen
	previous screen
	spinner  spinner.Model

	auth   authModel
	list   listModel
	detail detailModel
	form   formModel

	// confirmID is the item waiting for a delete confirmation, 0 when none.
	confirmID int64
	errMsg    string
	status    string
	width     int
}

func newAppModel(
	ctx context.Context,
	session service.ClientSessionService,
	vault service.ClientVaultService,
	eventsCh <-chan events.Event,
	buildInfo models.AppBuildInfo,
	log *logger.Logger,
) appModel {
	if log == nil {
		log = logger.Nop()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return appModel{
		ctx:       ctx,
		session:   session,
		vault:     vault,
		events:    eventsCh,
		buildInfo: buildInfo,
		logger:    log,
		screen:    screenStartup,
		spinner:   sp,
		auth:      newAuthModel(authModeLogin),
		list:      newListModel(),
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.cmdBootstrap(), waitForEvent(m.events), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case spinner.TickMsg:
		if m.screen != screenStartup && !m.auth.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case bootstrapDoneMsg:
		if msg.err != nil {
			m.errMsg = app.UserMessage(msg.err)
		}
		return m.route()
	case vaultEventMsg:
		if msg.closed {
			return m, nil
		}
		m.reload()
		next, cmd := m.route()
		return next, tea.Batch(cmd, waitForEvent(m.events))
	case authDoneMsg:
		m.auth.busy = false
		if msg.err != nil {
			m.auth.setError(msg.err)
			return m, nil
		}
		m.auth = newAuthModel(m.auth.mode)
		return m.route()
	case mutationDoneMsg:
		if msg.err != nil {
			m.errMsg = app.UserMessage(msg.err)
			return m.route()
		}
		return m.flash(msg.action)
	case refreshDoneMsg:
		if msg.err != nil {
			m.errMsg = app.UserMessage(msg.err)
			return m.route()
		}
		return m.flash("Vault refreshed")
	case logoutDoneMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("logout finished with error")
		}
		return m.route()
	case copiedMsg:
		if msg.err != nil {
			m.errMsg = "Clipboard is not available: " + msg.err.Error()
			return m, nil
		}
		return m.flash(msg.what + " copied")
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.forceQuit) {
		return m, tea.Quit
	}
	if m.errMsg != "" {
		if key.Matches(msg, keys.enter, keys.esc) {
			m.errMsg = ""
		}
		return m, nil
	}
	if m.confirmID != 0 {
		return m.handleConfirmKey(msg)
	}

	switch m.screen {
	case screenAuth:
		return m.handleAuthKey(msg)
	case screenList:
		return m.handleListKey(msg)
	case screenDetail:
		return m.handleDetailKey(msg)
	case screenForm:
		return m.handleFormKey(msg)
	case screenBuildInfo:
		if key.Matches(msg, keys.esc, keys.enter, keys.quit) {
			m.screen = m.previous
		}
	}
	return m, nil
}

func (m appModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		id := m.confirmID
		m.confirmID = 0
		m.screen = screenList
		return m, m.cmdMutation("Item deleted", func(ctx context.Context) error {
			return m.vault.Delete(ctx, id)
		})
	case key.Matches(msg, keys.no):
		m.confirmID = 0
	}
	return m, nil
}

// updateInputs forwards cursor blink and similar messages to the focused
// input of the active screen.
func (m appModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case screenAuth:
		cmd = m.auth.inputs.update(msg)
	case screenForm:
		cmd = m.form.inputs.update(msg)
	case screenList:
		if m.list.searching {
			m.list.search, cmd = m.list.search.Update(msg)
		}
	}
	return m, cmd
}

// route moves the model to the screen that matches the session state.
func (m appModel) route() (tea.Model, tea.Cmd) {
	if !m.session.Bootstrapped() {
		return m, nil
	}
	if m.session.State() != models.StateAuthenticated {
		if m.screen == screenAuth || (m.screen == screenBuildInfo && m.previous == screenAuth) {
			return m, nil
		}
		m.screen = screenAuth
		m.detail = detailModel{}
		m.confirmID = 0
		m.list = newListModel()
		return m, m.auth.inputs.focusAt(0)
	}
	if m.screen == screenStartup || m.screen == screenAuth {
		m.screen = screenList
		m.reload()
	}
	return m, nil
}

// reload re-reads everything the screens display from the vault.
func (m *appModel) reload() {
	m.list.items = m.vault.Items(m.list.filter(), m.list.sort())
	m.list.stats = m.vault.Stats()
	m.list.pending = make(map[int64]bool)
	for _, item := range m.list.items {
		if _, ok := m.vault.Pending(item.ID); ok {
			m.list.pending[item.ID] = true
		}
	}
	m.list.clamp()

	if m.screen == screenDetail {
		item, ok := m.vault.Get(m.detail.item.ID)
		if !ok {
			m.screen = screenList
			m.detail = detailModel{}
			return
		}
		m.detail.item = item
	}
}

func (m appModel) flash(status string) (tea.Model, tea.Cmd) {
	m.status = status
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m appModel) View() string {
	if m.errMsg != "" {
		return appStyle.Render(overlayBoxStyle.Render("Error\n\n" + m.errMsg + "\n\n" + helpStyle.Render("enter / esc: close")))
	}
	if m.confirmID != 0 {
		title := "this item"
		if item, ok := m.vault.Get(m.confirmID); ok {
			title = "\"" + item.Title + "\""
		}
		return appStyle.Render(overlayBoxStyle.Render("Delete " + title + "?\n\n" + helpStyle.Render("y: delete  n / esc: cancel")))
	}

	var body string
	switch m.screen {
	case screenStartup:
		body = renderPage("VAULT", m.spinner.View()+" Restoring session...", "")
	case screenAuth:
		body = m.auth.view(m.spinner.View())
	case screenList:
		body = m.list.view(m.session, m.width)
	case screenDetail:
		body = m.detail.view()
	case screenForm:
		body = m.form.view()
	case screenBuildInfo:
		body = renderBuildInfoWindow(m.buildInfo)
	}
	if m.status != "" {
		body += "\n" + appStyle.Render(statusStyle.Render(m.status))
	}
	return body
}

func waitForEvent(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return vaultEventMsg{closed: true}
		}
		return vaultEventMsg{event: ev}
	}
}

func (m appModel) cmdBootstrap() tea.Cmd {
	return func() tea.Msg {
		return bootstrapDoneMsg{err: m.session.Bootstrap(m.ctx)}
	}
}

func (m appModel) cmdMutation(action string, run func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{action: action, err: run(m.ctx)}
	}
}

func (m appModel) cmdRefresh() tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: m.vault.Refresh(m.ctx)}
	}
}

func (m appModel) cmdLogout() tea.Cmd {
	return func() tea.Msg {
		return logoutDoneMsg{err: m.session.Logout(m.ctx)}
	}
}

func cmdCopy(what, value string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{what: what, err: clipboardWrite(value)}
	}
}
