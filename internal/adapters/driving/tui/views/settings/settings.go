// Package settings provides the settings view for the TUI.
//
// Retrieval and evaluation defaults can be changed in place; every change is
// persisted through the settings service and applied to the running session.
// Providers and API keys are shown read-only and configured with
// `treatyrag settings set`.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
)

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service is required")

// fusionCycle is the order enter steps through fusion strategies.
var fusionCycle = []domain.FusionStrategy{
	domain.FusionLinear, domain.FusionRRF, domain.FusionSemantic, domain.FusionKeyword,
}

// field is one editable row.
type field struct {
	label string
	key   string
	value func(*domain.AppSettings) string
	// next returns the value enter (delta 0) or left/right (delta ±1) stores.
	next func(s *domain.AppSettings, delta int) (string, bool)
}

var fields = []field{
	{
		label: "Fusion",
		key:   "retrieval.fusion",
		value: func(s *domain.AppSettings) string { return string(s.Retrieval.Fusion) },
		next: func(s *domain.AppSettings, delta int) (string, bool) {
			if delta == 0 {
				delta = 1
			}
			i := 0
			for j, f := range fusionCycle {
				if f == s.Retrieval.Fusion {
					i = j
				}
			}
			i = (i + delta + len(fusionCycle)) % len(fusionCycle)
			return string(fusionCycle[i]), true
		},
	},
	{
		label: "Top K",
		key:   "retrieval.top_k",
		value: func(s *domain.AppSettings) string { return strconv.Itoa(s.Retrieval.TopK) },
		next: func(s *domain.AppSettings, delta int) (string, bool) {
			n := s.Retrieval.TopK + delta
			if delta == 0 || n < 1 || n > domain.MaxTopK {
				return "", false
			}
			return strconv.Itoa(n), true
		},
	},
	boolField("Scenario boost", "retrieval.scenario_boost", func(s *domain.AppSettings) bool { return s.Retrieval.ScenarioBoost }),
	boolField("LLM rerank", "retrieval.rerank", func(s *domain.AppSettings) bool { return s.Retrieval.Rerank }),
	boolField("Fast mode", "evaluation.fast_mode", func(s *domain.AppSettings) bool { return s.Evaluation.FastMode }),
}

func boolField(label, key string, get func(*domain.AppSettings) bool) field {
	return field{
		label: label,
		key:   key,
		value: func(s *domain.AppSettings) string {
			if get(s) {
				return "on"
			}
			return "off"
		},
		next: func(s *domain.AppSettings, _ int) (string, bool) {
			return strconv.FormatBool(!get(s)), true
		},
	}
}

// View shows the current settings and edits the retrieval defaults.
type View struct {
	styles   *styles.Styles
	service  driving.SettingsService
	settings *domain.AppSettings
	selected int
	err      error
	width    int
	height   int
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, service driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, service: service, width: 80, height: 24}
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := service.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Settings != nil {
			v.settings = msg.Settings
		}

	case messages.SettingsSaved:
		v.err = msg.Err
		if msg.Settings != nil {
			v.settings = msg.Settings
		}

	case tea.KeyMsg:
		return v, v.handleKey(msg.String())
	}
	return v, nil
}

func (v *View) handleKey(key string) tea.Cmd {
	switch key {
	case "esc":
		return func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		v.selected = max(v.selected-1, 0)
	case "down", "j":
		v.selected = min(v.selected+1, len(fields)-1)
	case "enter", " ":
		return v.change(0)
	case "left", "h", "-":
		return v.change(-1)
	case "right", "l", "+":
		return v.change(1)
	case "r":
		return v.Init()
	}
	return nil
}

// change stores the selected field's next value and reloads the settings.
func (v *View) change(delta int) tea.Cmd {
	if v.settings == nil || v.service == nil {
		return nil
	}
	f := fields[v.selected]
	value, ok := f.next(v.settings, delta)
	if !ok {
		return nil
	}
	service := v.service
	return func() tea.Msg {
		if err := service.Set(f.key, value); err != nil {
			return messages.SettingsSaved{Err: err}
		}
		settings, err := service.Get()
		return messages.SettingsSaved{Settings: settings, Err: err}
	}
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		b.WriteString("\n")
	} else {
		v.renderEditable(&b, v.settings)
		b.WriteString("\n")
		v.renderProviders(&b, v.settings)
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Select  [enter] Toggle  [←/→] Adjust  [r] Reload  [esc] Back"))
	return b.String()
}

func (v *View) renderEditable(b *strings.Builder, s *domain.AppSettings) {
	b.WriteString(v.styles.Subtitle.Render("Retrieval and evaluation"))
	b.WriteString("\n")
	for i, f := range fields {
		prefix := "  "
		label := v.styles.Label.Render(f.label)
		if i == v.selected {
			prefix = "> "
			label = v.styles.Selected.Render(f.label)
		}
		fmt.Fprintf(b, "%s%s %s\n", prefix, label, v.styles.Normal.Render(f.value(s)))
	}
}

func (v *View) renderProviders(b *strings.Builder, s *domain.AppSettings) {
	row := func(label, value string) {
		fmt.Fprintf(b, "  %s %s\n", v.styles.Label.Render(label), v.styles.Muted.Render(value))
	}
	provider := func(p domain.AIProvider, model string) string {
		if p == "" {
			return "not configured"
		}
		if model == "" {
			return string(p)
		}
		return string(p) + " / " + model
	}

	b.WriteString(v.styles.Subtitle.Render("Providers"))
	b.WriteString("\n")
	row("Corpus", s.Corpus.Path)
	row("Embedding", provider(s.Embedding.Provider, s.Embedding.Model))
	row("LLM", provider(s.LLM.Provider, s.LLM.Model))
	row("Vector", string(s.Vector))
	b.WriteString(v.styles.Muted.Render("  Change providers with `treatyrag settings set`."))
	b.WriteString("\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Selected returns the index of the selected field.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
