// Package index provides the index statistics view for the TUI.
package index

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
)

// maxWarnings caps the parse warnings listed.
const maxWarnings = 8

// ErrNoIndexService indicates that no index service was provided.
var ErrNoIndexService = errors.New("index service is required")

// View shows index statistics and the corpus parse report.
type View struct {
	styles  *styles.Styles
	index   driving.IndexService
	ctx     context.Context
	stats   *domain.IndexStats
	loading bool
	err     error
	width   int
	height  int
}

// NewView creates a new index view.
func NewView(s *styles.Styles, index driving.IndexService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, index: index, ctx: context.Background(), width: 80, height: 24}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init builds the index if needed and loads its statistics.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.err = nil
	index, ctx := v.index, v.ctx
	return func() tea.Msg {
		if index == nil {
			return messages.StatsLoaded{Err: ErrNoIndexService}
		}
		if err := index.Initialize(ctx); err != nil {
			return messages.StatsLoaded{Stats: index.Stats(), Err: err}
		}
		return messages.StatsLoaded{Stats: index.Stats()}
	}
}

// Update handles messages for the index view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case messages.StatsLoaded:
		v.loading = false
		v.err = msg.Err
		stats := msg.Stats
		v.stats = &stats
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case "r":
			return v, v.Init()
		}
	}
	return v, nil
}

// View renders the index view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Treaty Index"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading corpus and embeddings..."))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}

	if v.stats != nil && !v.loading {
		v.renderStats(&b, v.stats)
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[r] reload  [esc] back to menu"))
	return b.String()
}

func (v *View) renderStats(b *strings.Builder, s *domain.IndexStats) {
	row := func(label, value string) {
		fmt.Fprintf(b, "%s %s\n", v.styles.Label.Render(label), v.styles.Normal.Render(value))
	}

	ready := v.styles.Warning.Render("not ready")
	if s.Initialized {
		ready = v.styles.Success.Render("ready")
	}
	fmt.Fprintf(b, "%s %s\n", v.styles.Label.Render("Status"), ready)
	row("Records", fmt.Sprintf("%d", s.Records))
	row("Chunks", fmt.Sprintf("%d (avg %.0f chars)", s.Chunks, s.AvgChunkLength))
	if s.Embedded > 0 {
		row("Embedded", fmt.Sprintf("%d × %d dims", s.Embedded, s.Dimensions))
	} else {
		row("Embedded", "none (keyword search only)")
	}
	row("Load time", s.LoadDuration.String())

	p := s.Parse
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Corpus parse"))
	b.WriteString("\n")
	row("Lines", fmt.Sprintf("%d", p.TotalLines))
	row("Skipped", fmt.Sprintf("%d", p.Skipped))

	for i, w := range p.Warnings {
		if i == maxWarnings {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  ... %d more", len(p.Warnings)-maxWarnings)))
			b.WriteString("\n")
			break
		}
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("  line %d: %s", w.Line, w.Reason)))
		b.WriteString("\n")
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Stats returns the loaded statistics.
func (v *View) Stats() *domain.IndexStats {
	return v.stats
}

// Loading reports whether statistics are being loaded.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
