package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/views/briefing"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/views/index"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView     *menu.View
	searchView   *search.View
	briefingView *briefing.View
	indexView    *index.View
	settingsView *settings.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		searchView:   search.NewView(s, nil, ports.Retrieval, ports.Defaults),
		briefingView: briefing.NewView(s, ports.Briefing, domain.BriefingOptions{TopK: ports.Defaults.TopK, FastMode: ports.FastMode}),
		indexView:    index.NewView(s, ports.Index),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.briefingView.WithContext(ctx)
	a.indexView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("treatyrag"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSearch:
			// Returning from a briefing keeps the results.
			if len(a.searchView.Results()) == 0 {
				a.searchView.Reset()
			}
			return a, a.searchView.Init()
		case messages.ViewIndex:
			return a, a.indexView.Init()
		case messages.ViewSettings:
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewBriefing, messages.ViewHelp:
		}
		return a, nil

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = msg.Err
		return a, cmd

	case messages.BriefingRequested:
		a.currentView = messages.ViewBriefing
		return a, a.briefingView.Generate(msg.Query)

	case messages.BriefingCompleted:
		a.briefingView, cmd = a.briefingView.Update(msg)
		a.err = msg.Err
		return a, cmd

	case messages.StatsLoaded:
		a.indexView, cmd = a.indexView.Update(msg)
		a.err = msg.Err
		return a, cmd

	case messages.SettingsLoaded:
		a.settingsView, cmd = a.settingsView.Update(msg)
		a.err = msg.Err
		return a, cmd

	case messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		a.err = msg.Err
		if msg.Settings != nil {
			a.applySettings(msg.Settings)
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// applySettings carries changed defaults into the search and briefing views.
func (a *App) applySettings(s *domain.AppSettings) {
	opts := s.Retrieval.Options()
	a.searchView.SetOptions(opts)
	a.briefingView.SetOptions(domain.BriefingOptions{TopK: opts.TopK, FastMode: s.Evaluation.FastMode})
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewBriefing:
		a.briefingView, cmd = a.briefingView.Update(msg)
	case messages.ViewIndex:
		a.indexView, cmd = a.indexView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewBriefing:
		return a.briefingView.View()
	case messages.ViewIndex:
		return a.indexView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc           Back
  ctrl+c        Quit

Scenario form:
  tab/↓         Next field
  shift+tab/↑   Previous field
  enter         Search

  Fill in all three countries for a scenario search with signatory
  boosting. With only the scenario, the text is searched as is.

Results:
  j/k, ↑/↓      Navigate treaties
  enter         Show full text
  b             Generate briefing
  n             New search

Briefing:
  j/k, PgUp/PgDn  Scroll
  esc           Back to results

Settings:
  j/k, ↑/↓      Select
  enter         Toggle or cycle
  ←/→           Adjust top K

[esc] back to menu`
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

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.briefingView.SetDimensions(width, height)
	a.indexView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
