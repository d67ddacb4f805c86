package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/treatyrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/services"
)

func newTestApp(t *testing.T) (*App, *mockBriefingService) {
	t.Helper()
	briefing := &mockBriefingService{}
	app, err := NewApp(&Ports{
		Retrieval: &mockRetrievalService{result: domain.RetrievalResult{
			Documents: []domain.RetrievedDocument{{
				Chunk: domain.Chunk{Metadata: domain.ChunkMetadata{Title: "Charter of the United Nations"}},
			}},
		}},
		Briefing: briefing,
		Index:    &mockIndexService{},
		Defaults: domain.RetrievalOptions{TopK: 7},
		FastMode: true,
	})
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app, briefing
}

// drain runs cmd and feeds resulting messages back until none remain.
func drain(app *App, cmd tea.Cmd) {
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if _, ok := msg.(tea.BatchMsg); ok {
			return
		}
		_, cmd = app.Update(msg)
	}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingRetrievalService)
	assert.Nil(t, app)

	app, _ = newTestApp(t)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.True(t, app.Ready())
	assert.NotNil(t, app.Init())
}

func TestApp_WithContext(t *testing.T) {
	app, _ := newTestApp(t)
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("k"), "v")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_ViewBeforeReady(t *testing.T) {
	app, err := NewApp(&Ports{Retrieval: &mockRetrievalService{}})
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Contains(t, app.View(), "Scenario search")
}

func TestApp_CtrlCQuits(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_SearchToBriefingFlow(t *testing.T) {
	app, briefing := newTestApp(t)

	app.Update(messages.ViewChanged{View: messages.ViewSearch})
	require.Equal(t, messages.ViewSearch, app.CurrentView())

	form := app.searchView.Form()
	form.SetValue(input.FieldScenario, "naval blockade")
	form.SetValue(input.FieldSelected, "Gammaria")
	form.SetValue(input.FieldOffensive, "Alphaland")
	form.SetValue(input.FieldDefensive, "Betavia")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(app, cmd)
	require.Len(t, app.searchView.Results(), 1)
	assert.Contains(t, app.View(), "Charter of the United Nations")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	drain(app, cmd)

	assert.Equal(t, messages.ViewBriefing, app.CurrentView())
	assert.Contains(t, app.View(), "Briefing: naval blockade")
	assert.Equal(t, 7, briefing.lastOpts.TopK)
	assert.True(t, briefing.lastOpts.FastMode)

	// Esc returns to the results rather than a blank form.
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	drain(app, cmd)
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Len(t, app.searchView.Results(), 1)
}

func TestApp_IndexView(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewIndex})
	drain(app, cmd)

	assert.Equal(t, messages.ViewIndex, app.CurrentView())
	assert.Contains(t, app.View(), "Treaty Index")
	assert.NoError(t, app.Err())
}

func TestApp_SettingsChangeAppliesToSession(t *testing.T) {
	app, _ := newTestApp(t)
	app.ports.Settings = services.NewSettingsService(memory.NewConfigStore(), nil)
	app.settingsView = settings.NewView(app.styles, app.ports.Settings)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewSettings})
	drain(app, cmd)
	require.Equal(t, messages.ViewSettings, app.CurrentView())
	assert.Contains(t, app.View(), "Fusion")
	assert.Equal(t, domain.FusionLinear, app.searchView.Options().Strategy)

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(app, cmd)

	require.NoError(t, app.Err())
	assert.Equal(t, domain.FusionRRF, app.searchView.Options().Strategy)
	assert.False(t, app.briefingView.Options().FastMode, "fast mode follows the saved settings")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	drain(app, cmd)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_HelpView(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Contains(t, app.View(), "Generate briefing")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewSearch})

	app.Update(messages.ErrorOccurred{Err: domain.ErrIndexNotReady})

	assert.ErrorIs(t, app.Err(), domain.ErrIndexNotReady)
	assert.ErrorIs(t, app.searchView.Err(), domain.ErrIndexNotReady)
}

func TestApp_QuitMessage(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
