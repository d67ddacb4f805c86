// Package search provides the scenario search view for the TUI.
package search

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
)

// View is the scenario form with its treaty results and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	form      *input.ScenarioForm
	list      *list.ResultList
	statusbar *status.Bar

	retrieval driving.RetrievalService
	options   domain.RetrievalOptions
	ctx       context.Context

	// lastQuery is the scenario the current results belong to.
	lastQuery domain.RetrievalQuery

	width     int
	height    int
	ready     bool
	err       error
	focusForm bool // true = editing the form, false = navigating results
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	retrieval driving.RetrievalService,
	opts domain.RetrievalOptions,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		form:      input.NewScenarioForm(s),
		list:      list.NewResultList(s),
		statusbar: status.NewBar(s, km),
		retrieval: retrieval,
		options:   opts.Normalised(),
		ctx:       context.Background(),
		width:     80,
		height:    24,
		focusForm: true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.form.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	if v.focusForm {
		var cmd tea.Cmd
		v.form, cmd = v.form.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		// Esc closes an expanded treaty before leaving the view.
		if !v.focusForm && v.list.Expanded() {
			v.list.ToggleExpanded()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusForm {
		if msg.Type == tea.KeyEnter {
			return v, v.submit()
		}
		var cmd tea.Cmd
		v.form, cmd = v.form.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.NewSearch):
		v.focusForm = true
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("")
		return v, v.form.Focus()

	case keymap.Matches(msg.String(), v.keymap.Briefing):
		return v, v.requestBriefing()
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// submit starts a search for the form's contents.
func (v *View) submit() tea.Cmd {
	q := v.form.Query()
	if q.Scenario == "" {
		return nil
	}
	if v.form.HasParties() {
		if err := q.Validate(); err != nil {
			v.setError(err)
			return nil
		}
	}

	v.err = nil
	v.lastQuery = q
	v.statusbar.SetState(status.StateSearching)
	v.statusbar.SetMessage("")
	v.focusForm = false
	v.form.Blur()
	return v.performSearch(q, v.form.HasParties())
}

func (v *View) performSearch(q domain.RetrievalQuery, scenario bool) tea.Cmd {
	retrieval, ctx, opts := v.retrieval, v.ctx, v.options
	return func() tea.Msg {
		if retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}

		var (
			result domain.RetrievalResult
			err    error
		)
		if scenario {
			result, err = retrieval.Search(ctx, q, opts)
		} else {
			result, err = retrieval.SearchText(ctx, q.Scenario, opts)
		}
		return messages.SearchCompleted{Result: result, Err: err}
	}
}

func (v *View) requestBriefing() tea.Cmd {
	if err := v.lastQuery.Validate(); err != nil {
		v.statusbar.SetMessage("Briefings need the scenario and all three countries")
		return nil
	}
	q := v.lastQuery
	return func() tea.Msg {
		return messages.BriefingRequested{Query: q}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		v.focusForm = true
		v.form.Focus()
		return
	}

	v.err = nil
	v.list.SetResults(msg.Result.Documents)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetResult(msg.Result)
	v.focusForm = false
	v.form.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("treatyrag"), "", v.form.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.form.SetWidth(width)
	// Form rows, header and status bar take about 20 lines.
	v.list.SetDimensions(width, height-20)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Form exposes the scenario form.
func (v *View) Form() *input.ScenarioForm {
	return v.form
}

// Results returns the current treaties.
func (v *View) Results() []domain.RetrievedDocument {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// LastQuery returns the scenario of the current results.
func (v *View) LastQuery() domain.RetrievalQuery {
	return v.lastQuery
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// SetOptions replaces the retrieval options used by later searches.
func (v *View) SetOptions(opts domain.RetrievalOptions) {
	v.options = opts.Normalised()
}

// Options returns the retrieval options used for searches.
func (v *View) Options() domain.RetrievalOptions {
	return v.options
}

// Reset clears the form and results.
func (v *View) Reset() {
	v.focusForm = true
	v.form.Reset()
	v.list.SetResults(nil)
	v.lastQuery = domain.RetrievalQuery{}
	v.err = nil
	v.statusbar.Clear()
}

// FormFocused returns whether the form has focus.
func (v *View) FormFocused() bool {
	return v.focusForm
}
