// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// Field indexes of the scenario form.
const (
	FieldScenario = iota
	FieldSelected
	FieldOffensive
	FieldDefensive
	FieldConflict
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Scenario", "Analyst for", "Aggressor", "Victim", "Conflict",
}

var fieldPlaceholders = [fieldCount]string{
	"Describe the situation...",
	"Country the analysis is for",
	"Offensive country",
	"Defensive country",
	"territorial, trade, nuclear, cyber, ...",
}

// ScenarioForm collects a scenario and the countries involved.
// Leaving all three countries empty turns the form into a plain text search.
type ScenarioForm struct {
	fields  [fieldCount]textinput.Model
	focused int
	styles  *styles.Styles
	width   int
}

// NewScenarioForm creates a form with the scenario field focused.
func NewScenarioForm(s *styles.Styles) *ScenarioForm {
	if s == nil {
		s = styles.DefaultStyles()
	}

	f := &ScenarioForm{styles: s, width: 80}
	for i := range f.fields {
		ti := textinput.New()
		ti.Placeholder = fieldPlaceholders[i]
		ti.CharLimit = 64
		ti.Width = 40
		f.fields[i] = ti
	}
	f.fields[FieldScenario].CharLimit = 512
	f.fields[FieldScenario].Focus()
	return f
}

// Init initialises the form.
func (f *ScenarioForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes tab navigation and keystrokes to the focused field.
func (f *ScenarioForm) Update(msg tea.Msg) (*ScenarioForm, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f, f.FocusField((f.focused + 1) % fieldCount)
		case "shift+tab", "up":
			return f, f.FocusField((f.focused + fieldCount - 1) % fieldCount)
		}
	}

	var cmd tea.Cmd
	f.fields[f.focused], cmd = f.fields[f.focused].Update(msg)
	return f, cmd
}

// View renders one labelled row per field.
func (f *ScenarioForm) View() string {
	rows := make([]string, 0, fieldCount)
	for i := range f.fields {
		frame := f.styles.InputField
		if i == f.focused && f.fields[i].Focused() {
			frame = f.styles.ActiveField
		}
		//nolint:misspell // lipgloss.Center is the correct constant from the library
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center,
			f.styles.Label.Render(fieldLabels[i]),
			frame.Render(f.fields[i].View()),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// FocusField moves focus to field i.
func (f *ScenarioForm) FocusField(i int) tea.Cmd {
	if i < 0 || i >= fieldCount {
		return nil
	}
	f.fields[f.focused].Blur()
	f.focused = i
	return f.fields[i].Focus()
}

// FocusedField returns the index of the focused field.
func (f *ScenarioForm) FocusedField() int {
	return f.focused
}

// Focus re-focuses the last focused field.
func (f *ScenarioForm) Focus() tea.Cmd {
	return f.fields[f.focused].Focus()
}

// Blur removes focus from every field.
func (f *ScenarioForm) Blur() {
	for i := range f.fields {
		f.fields[i].Blur()
	}
}

// Focused returns whether any field has focus.
func (f *ScenarioForm) Focused() bool {
	return f.fields[f.focused].Focused()
}

// Value returns the trimmed value of field i.
func (f *ScenarioForm) Value(i int) string {
	if i < 0 || i >= fieldCount {
		return ""
	}
	return strings.TrimSpace(f.fields[i].Value())
}

// SetValue sets the value of field i.
func (f *ScenarioForm) SetValue(i int, value string) {
	if i >= 0 && i < fieldCount {
		f.fields[i].SetValue(value)
	}
}

// HasParties reports whether any country was entered.
func (f *ScenarioForm) HasParties() bool {
	return f.Value(FieldSelected) != "" || f.Value(FieldOffensive) != "" || f.Value(FieldDefensive) != ""
}

// Query builds a retrieval query from the form.
func (f *ScenarioForm) Query() domain.RetrievalQuery {
	return domain.RetrievalQuery{
		Scenario:         f.Value(FieldScenario),
		SelectedCountry:  f.Value(FieldSelected),
		OffensiveCountry: f.Value(FieldOffensive),
		DefensiveCountry: f.Value(FieldDefensive),
		ConflictType:     domain.ConflictType(strings.ToLower(f.Value(FieldConflict))),
	}
}

// SetWidth sets the width of the form.
func (f *ScenarioForm) SetWidth(width int) {
	f.width = width
	// Label column plus frame and padding
	inputWidth := width - 18
	if inputWidth < 20 {
		inputWidth = 20
	}
	for i := range f.fields {
		f.fields[i].Width = inputWidth
	}
}

// Width returns the current width.
func (f *ScenarioForm) Width() int {
	return f.width
}

// Reset clears every field and focuses the scenario.
func (f *ScenarioForm) Reset() {
	for i := range f.fields {
		f.fields[i].Reset()
	}
	f.FocusField(FieldScenario)
}
