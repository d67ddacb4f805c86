package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

func sampleResults() []domain.RetrievedDocument {
	doc := func(title, section string, score float64) domain.RetrievedDocument {
		return domain.RetrievedDocument{
			Chunk: domain.Chunk{
				Content:  title + "\nFull text of " + title,
				Metadata: domain.ChunkMetadata{Title: title, Section: section},
			},
			RelevanceScore: score,
		}
	}
	results := []domain.RetrievedDocument{
		doc("Charter of the United Nations", "Peace and Security", 0.91),
		doc("Convention on the Law of the Sea", "Law of the Sea", 0.72),
		doc("Outer Space Treaty", "Outer Space", 0.40),
	}
	results[0].Participation = &domain.Participation{SigningStatus: domain.SigningBoth}
	results[1].Reason = "Both parties border the strait"
	return results
}

func TestNewResultList(t *testing.T) {
	l := NewResultList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.Equal(t, 0, l.Count())
	assert.Nil(t, l.SelectedResult())
	assert.Nil(t, l.Init())
	assert.Contains(t, l.View(), "No treaties found")
}

func TestResultList_Navigation(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(sampleResults())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, "Convention on the Law of the Sea", l.SelectedResult().Chunk.Metadata.Title)
}

func TestResultList_View(t *testing.T) {
	l := NewResultList(nil)
	l.SetDimensions(100, 30)
	l.SetResults(sampleResults())

	view := l.View()

	assert.Contains(t, view, "Treaties (3)")
	assert.Contains(t, view, "Charter of the United Nations")
	assert.Contains(t, view, "0.91")
	assert.Contains(t, view, "both signed")
	assert.Contains(t, view, "Both parties border the strait")
}

func TestResultList_Expand(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(sampleResults())

	l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, l.Expanded())
	assert.Contains(t, l.View(), "Full text of Charter of the United Nations")

	l.ToggleExpanded()
	assert.False(t, l.Expanded())

	l.ToggleExpanded()
	l.SetResults(nil)
	assert.False(t, l.Expanded(), "new results collapse the list")
	l.ToggleExpanded()
	assert.False(t, l.Expanded(), "empty list cannot expand")
}

func TestResultList_SmallHeightShowsSelected(t *testing.T) {
	l := NewResultList(nil)
	l.SetDimensions(80, 5)
	l.SetResults(sampleResults())
	l.MoveDown()
	l.MoveDown()

	view := l.View()

	assert.Contains(t, view, "Outer Space Treaty")
	assert.False(t, strings.Contains(view, "Charter of the United Nations"))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcd...", clip("abcdefghij", 7))
}
