// Package menu provides the start screen of the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/styles"
)

// Entry is one selectable line of the menu.
type Entry struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

var entries = []Entry{
	{Label: "Scenario search", Hint: "describe a situation, find the treaties that govern it", View: messages.ViewSearch},
	{Label: "Treaty index", Hint: "corpus records, chunks and embedding coverage", View: messages.ViewIndex},
	{Label: "Settings", Hint: "retrieval and evaluation defaults", View: messages.ViewSettings},
	{Label: "Help", Hint: "key bindings", View: messages.ViewHelp},
	{Label: "Quit", Quit: true},
}

// View is the menu model.
type View struct {
	styles *styles.Styles
	cursor int
	width  int
	height int
	ready  bool
}

// NewView creates a menu with the cursor on the first entry.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80, height: 24}
}

// Init implements tea.Model.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor and emits ViewChanged on selection.
// Digits select an entry directly.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "up", "k":
			v.cursor = max(v.cursor-1, 0)
		case "down", "j":
			v.cursor = min(v.cursor+1, len(entries)-1)
		case "enter":
			return v, v.choose(v.cursor)
		case "q":
			return v, tea.Quit
		default:
			if len(key) == 1 && key[0] >= '1' && int(key[0]-'0') <= len(entries) {
				v.cursor = int(key[0] - '1')
				return v, v.choose(v.cursor)
			}
		}
	}
	return v, nil
}

func (v *View) choose(i int) tea.Cmd {
	e := entries[i]
	if e.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: e.View}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("treatyrag"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Treaty retrieval and scenario briefings"))
	b.WriteString("\n\n")

	for i, e := range entries {
		label := fmt.Sprintf("%d. %s", i+1, e.Label)
		if i != v.cursor {
			b.WriteString("  " + v.styles.Normal.Render(label) + "\n")
			continue
		}
		b.WriteString("> " + v.styles.Subtitle.Render(label))
		if e.Hint != "" && v.width > len(label)+len(e.Hint)+6 {
			b.WriteString("  " + v.styles.Muted.Render(e.Hint))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(fmt.Sprintf("[j/k] Navigate  [1-%d/Enter] Select  [q] Quit", len(entries))))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the cursor position.
func (v *View) Selected() int {
	return v.cursor
}
