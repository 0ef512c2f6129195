package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/views/agenda"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/views/birds"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/views/detail"
	"github.com/custodia-labs/palomar/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	birdsView  *birds.View
	detailView *detail.View
	agendaView *agenda.View
	statusbar  *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// history holds the views to return to on Back.
	history []messages.ViewType

	// refreshing is true while a user-requested refresh runs.
	refreshing bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		help:        help.New(),
		birdsView:   birds.NewView(s, km),
		detailView:  detail.NewView(s, km),
		agendaView:  agenda.NewView(s, km),
		statusbar:   status.NewBar(s, km),
		currentView: messages.ViewList,
	}
	a.statusbar.SetBindings(km.ListHelp())
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It fetches the sheet once and starts the reload ticker.
func (a *App) Init() tea.Cmd {
	a.refreshing = true
	return tea.Batch(
		tea.SetWindowTitle("palomar"),
		a.refreshCmd(),
		a.tickCmd(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.RefreshRequested:
		if a.refreshing || a.ports.Catalog.Refreshing() {
			return a, nil
		}
		a.refreshing = true
		a.statusbar.SetState(status.StateLoading)
		return a, a.refreshCmd()

	case messages.RefreshCompleted:
		a.refreshing = false
		a.statusbar.SetRefresh(msg.Result, msg.Err)
		if msg.Err != nil {
			a.err = msg.Err
			a.birdsView, _ = a.birdsView.Update(messages.BirdsLoaded{Err: msg.Err})
			return a, nil
		}
		a.err = nil
		return a, a.loadBirdsCmd()

	case messages.BirdsLoaded:
		a.birdsView, cmd = a.birdsView.Update(msg)
		if msg.Err == nil {
			a.statusbar.SetCount(len(msg.Birds))
		}
		return a, cmd

	case messages.Tick:
		cmds := []tea.Cmd{a.tickCmd()}
		// Reads would trigger a fetch before the first refresh lands
		if !a.refreshing {
			cmds = append(cmds, a.loadBirdsCmd())
		}
		return a, tea.Batch(cmds...)

	case messages.BirdSelected:
		a.detailView.Clear()
		a.navigate(messages.ViewDetail)
		return a, a.loadDetailCmd(msg.Identifier)

	case messages.DetailLoaded:
		a.detailView, cmd = a.detailView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.navigate(msg.View)
		if msg.View == messages.ViewAgenda {
			return a, a.loadAgendaCmd(a.agendaView.Query())
		}
		return a, nil

	case messages.AgendaRequested:
		return a, a.loadAgendaCmd(msg.Query)

	case messages.AgendaLoaded:
		a.agendaView, cmd = a.agendaView.Update(msg)
		return a, cmd

	case messages.Back:
		a.back()
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

// handleKeyMsg forwards keys to the active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Global quit with ctrl+c
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewList:
		a.birdsView, cmd = a.birdsView.Update(msg)
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewAgenda:
		a.agendaView, cmd = a.agendaView.Update(msg)
	case messages.ViewHelp:
		switch {
		case keymap.Matches(msg.String(), a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(msg.String(), a.keymap.Back), keymap.Matches(msg.String(), a.keymap.Help):
			a.back()
		}
	}
	return a, cmd
}

// navigate switches to view, remembering the current one.
func (a *App) navigate(view messages.ViewType) {
	if view == a.currentView {
		return
	}
	a.history = append(a.history, a.currentView)
	a.setView(view)
}

// back returns to the previous view, or the list when there is none.
func (a *App) back() {
	view := messages.ViewList
	if n := len(a.history); n > 0 {
		view = a.history[n-1]
		a.history = a.history[:n-1]
	}
	a.setView(view)
}

func (a *App) setView(view messages.ViewType) {
	a.currentView = view
	switch view {
	case messages.ViewList:
		a.statusbar.SetBindings(a.keymap.ListHelp())
	case messages.ViewDetail:
		a.statusbar.SetBindings(a.keymap.DetailHelp())
	case messages.ViewAgenda:
		a.statusbar.SetBindings(a.keymap.AgendaHelp())
	case messages.ViewHelp:
		a.statusbar.SetBindings(a.keymap.ShortHelp())
	}
}

func (a *App) refreshCmd() tea.Cmd {
	catalog := a.ports.Catalog
	ctx := a.ctx
	return func() tea.Msg {
		res, err := catalog.Refresh(ctx)
		return messages.RefreshCompleted{Result: res, Err: err}
	}
}

func (a *App) loadBirdsCmd() tea.Cmd {
	catalog := a.ports.Catalog
	ctx := a.ctx
	return func() tea.Msg {
		list, err := catalog.Birds(ctx)
		return messages.BirdsLoaded{Birds: list, Err: err}
	}
}

func (a *App) loadDetailCmd(identifier string) tea.Cmd {
	catalog := a.ports.Catalog
	ctx := a.ctx
	return func() tea.Msg {
		d, err := catalog.Detail(ctx, identifier)
		return messages.DetailLoaded{Detail: d, Err: err}
	}
}

func (a *App) loadAgendaCmd(query domain.AgendaQuery) tea.Cmd {
	catalog := a.ports.Catalog
	ctx := a.ctx
	return func() tea.Msg {
		ag, err := catalog.Agenda(ctx, query)
		return messages.AgendaLoaded{Agenda: ag, Err: err}
	}
}

func (a *App) tickCmd() tea.Cmd {
	interval := a.ports.reloadInterval()
	if interval < 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return messages.Tick{}
	})
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewList:
		body = a.birdsView.View()
	case messages.ViewDetail:
		body = a.detailView.View()
	case messages.ViewAgenda:
		body = a.agendaView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	}

	// Keep the status bar on the last line
	bodyHeight := a.height - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusbar.View())
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render("Help"),
		"",
		a.help.FullHelpView(a.keymap.FullHelp()),
		"",
		a.styles.Help.Render("[esc] back"),
	)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.birdsView.SetDimensions(width, height)
	a.detailView.SetDimensions(width, height)
	a.agendaView.SetDimensions(width, height)
	a.statusbar.SetWidth(width)
}
