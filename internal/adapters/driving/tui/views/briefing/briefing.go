// Package briefing provides the scrolling briefing view for the TUI.
package briefing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/report"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
)

// ErrNoBriefingService indicates that no briefing service was provided.
var ErrNoBriefingService = errors.New("briefing service is required")

// View generates and displays a briefing.
type View struct {
	styles   *styles.Styles
	service  driving.BriefingService
	options  domain.BriefingOptions
	ctx      context.Context
	briefing *domain.Briefing

	lines        []string
	scrollOffset int
	width        int
	height       int
	loading      bool
	err          error
}

// NewView creates a new briefing view.
func NewView(s *styles.Styles, service driving.BriefingService, opts domain.BriefingOptions) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		service: service,
		options: opts,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetOptions replaces the options used by later briefings.
func (v *View) SetOptions(opts domain.BriefingOptions) {
	v.options = opts
}

// Options returns the briefing options.
func (v *View) Options() domain.BriefingOptions {
	return v.options
}

// Generate clears the view and returns a command producing the briefing.
func (v *View) Generate(q domain.RetrievalQuery) tea.Cmd {
	v.briefing = nil
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true

	service, ctx, opts := v.service, v.ctx, v.options
	return func() tea.Msg {
		if service == nil {
			return messages.BriefingCompleted{Err: ErrNoBriefingService}
		}
		b, err := service.Generate(ctx, q, opts)
		return messages.BriefingCompleted{Briefing: b, Err: err}
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the briefing view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.BriefingCompleted:
		v.loading = false
		v.err = msg.Err
		v.briefing = msg.Briefing
		v.wrapContent()
		return v, nil

	case messages.ErrorOccurred:
		v.loading = false
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.scrollTo(v.scrollOffset - 1)
	case "down", "j":
		v.scrollTo(v.scrollOffset + 1)
	case "pgup", "ctrl+u":
		v.scrollTo(v.scrollOffset - v.visibleLines())
	case "pgdown", "ctrl+d", " ":
		v.scrollTo(v.scrollOffset + v.visibleLines())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	}
	return v, nil
}

func (v *View) scrollTo(offset int) {
	v.scrollOffset = max(0, min(offset, v.maxScrollOffset()))
}

// wrapContent renders the briefing as Markdown and hard-wraps it to the view width.
func (v *View) wrapContent() {
	v.lines = nil
	if v.briefing == nil {
		return
	}

	contentWidth := max(v.width-4, 20)
	for _, line := range strings.Split(report.Markdown(v.briefing), "\n") {
		runes := []rune(line)
		for len(runes) > contentWidth {
			v.lines = append(v.lines, string(runes[:contentWidth]))
			runes = runes[contentWidth:]
		}
		v.lines = append(v.lines, string(runes))
	}
}

// visibleLines reserves room for the title, warnings and footer.
func (v *View) visibleLines() int {
	return max(v.height-7, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the briefing view.
func (v *View) View() string {
	var b strings.Builder

	title := "Briefing"
	if v.briefing != nil {
		title = fmt.Sprintf("%s  [%s]", v.briefing.Title, v.briefing.Classification)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 1), 60)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Generating briefing..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No briefing)"))
	default:
		v.renderLines(&b)
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back to results"))
	return b.String()
}

func (v *View) renderLines(b *strings.Builder) {
	if v.briefing != nil && !v.briefing.Success {
		b.WriteString(v.styles.Warning.Render("Partial briefing: some sections used fallback content"))
		b.WriteString("\n")
	}

	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(v.lines))
	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(v.styles.Normal.Render(v.lines[i]))
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		percentage := 0
		if m := v.maxScrollOffset(); m > 0 {
			percentage = v.scrollOffset * 100 / m
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("\n  [%d%%] Line %d-%d of %d",
			percentage, v.scrollOffset+1, end, len(v.lines))))
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.wrapContent()
}

// Briefing returns the displayed briefing.
func (v *View) Briefing() *domain.Briefing {
	return v.briefing
}

// Loading reports whether a briefing is being generated.
func (v *View) Loading() bool {
	return v.loading
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
