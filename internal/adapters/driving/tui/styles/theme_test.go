package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

func TestDefaultTheme_ColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()
	require.NotNil(t, theme)

	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{theme.Primary, theme.Secondary, theme.Success, theme.Warning, theme.Error} {
		assert.NotEmpty(t, string(c))
		assert.False(t, seen[c], "duplicate colour %s", c)
		seen[c] = true
	}
}

func TestNewStyles(t *testing.T) {
	theme := DefaultTheme()
	assert.Equal(t, theme, NewStyles(theme).Theme())

	s := NewStyles(nil)
	require.NotNil(t, s.Theme())
	assert.NotEqual(t, lipgloss.Style{}, s.Title)
	assert.NotEqual(t, lipgloss.Style{}, s.ActiveField)
	assert.NotEqual(t, s.InputField, s.ActiveField)
}

func TestStyles_Score(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.Success, s.Score(0.91))
	assert.Equal(t, s.Warning, s.Score(0.5))
	assert.Equal(t, s.Muted, s.Score(0.1))
}

func TestStyles_Signing(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.Success, s.Signing(domain.SigningBoth))
	assert.Equal(t, s.Warning, s.Signing(domain.SigningAggressorOnly))
	assert.Equal(t, s.Warning, s.Signing(domain.SigningVictimOnly))
	assert.Equal(t, s.Muted, s.Signing(domain.SigningNeither))
	assert.Equal(t, s.Muted, s.Signing(""))
}

func TestStyles_Render(t *testing.T) {
	s := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"title":    s.Title,
		"label":    s.Label,
		"selected": s.Selected,
		"help":     s.Help,
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotEmpty(t, style.Render("text"))
		})
	}
}
