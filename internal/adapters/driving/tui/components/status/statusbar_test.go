package status

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Equal(t, 80, bar.Width())
	assert.Nil(t, bar.Init())
}

func TestNewBar_NilDependencies(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestBar_Setters(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetState(StateResults)
	bar.SetMessage("done")
	bar.SetResult(domain.RetrievalResult{Documents: make([]domain.RetrievedDocument, 4)})
	bar.SetWidth(120)

	assert.Equal(t, StateResults, bar.State())
	assert.Equal(t, "done", bar.Message())
	assert.Equal(t, 4, bar.ResultCount())
	assert.Equal(t, 120, bar.Width())

	bar.Clear()
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Bar)
		want    []string
		notWant []string
	}{
		{
			name:  "ready shows form hints",
			setup: func(*Bar) {},
			want:  []string{"Ready", "tab: next field", "enter: search"},
		},
		{
			name:  "searching",
			setup: func(b *Bar) { b.SetState(StateSearching) },
			want:  []string{"Searching..."},
		},
		{
			name:  "generating",
			setup: func(b *Bar) { b.SetState(StateGenerating) },
			want:  []string{"Generating briefing..."},
		},
		{
			name: "error with message",
			setup: func(b *Bar) {
				b.SetState(StateError)
				b.SetMessage("index not ready")
			},
			want: []string{"Error: index not ready"},
		},
		{
			name: "results show result hints",
			setup: func(b *Bar) {
				b.SetState(StateResults)
				b.SetResult(domain.RetrievalResult{
					Documents:           make([]domain.RetrievedDocument, 5),
					Strategy:            domain.FusionRRF,
					TotalChunksSearched: 40,
					Timing:              domain.RetrievalTiming{Total: 1234567 * time.Nanosecond},
				})
			},
			want:    []string{"5 treaties · rrf fusion · 40 chunks · 1ms", "b: briefing"},
			notWant: []string{"tab: next field"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			tt.setup(bar)

			view := bar.View()

			for _, w := range tt.want {
				assert.Contains(t, view, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, view, w)
			}
		})
	}
}
