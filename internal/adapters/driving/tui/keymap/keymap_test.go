package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Keys(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"back", km.Back, []string{"esc"}},
		{"submit", km.Submit, []string{"enter"}},
		{"next field", km.NextField, []string{"tab"}},
		{"previous field", km.PrevField, []string{"shift+tab"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"briefing", km.Briefing, []string{"b"}},
		{"new search", km.NewSearch, []string{"n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.keys {
				assert.Contains(t, tt.binding.Keys(), k)
			}
			assert.NotEmpty(t, tt.binding.Help().Key)
		})
	}
}

func TestHelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.FormHelp(), 3)
	assert.Contains(t, km.ResultsHelp(), km.Briefing)

	full := km.FullHelp()
	assert.Len(t, full, 4)
	assert.Equal(t, []key.Binding{km.Help, km.Quit}, full[3])
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("tab", km.NextField))
	assert.True(t, Matches("b", km.Briefing))

	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("down", km.Up))
}
