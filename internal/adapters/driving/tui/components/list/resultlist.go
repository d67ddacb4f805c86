// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// ResultList displays retrieved treaties in a navigable list.
type ResultList struct {
	results  []domain.RetrievedDocument
	selected int
	expanded bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "enter":
			r.ToggleExpanded()
		}
	}
	return r, nil
}

// View renders the result list, or the full text of the selected treaty when expanded.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No treaties found")
	}
	if r.expanded {
		return r.viewExpanded()
	}

	lines := make([]string, 0, len(r.results)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Treaties (%d)", len(r.results))), "")

	// Each result renders as three lines.
	visibleCount := (r.height - 4) / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.results) {
		end = len(r.results)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ResultList) renderResult(index int, doc *domain.RetrievedDocument) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := doc.Chunk.Metadata.Title
	if title == "" {
		title = "(Untitled)"
	}
	maxTitleLen := r.width - 20
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title = clip(title, maxTitleLen)

	score := fmt.Sprintf("%.2f", doc.RelevanceScore)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitleLen, title, score))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitleLen, title)) +
			r.styles.Score(doc.RelevanceScore).Render(score)
	}

	meta := make([]string, 0, 3)
	if s := doc.Chunk.Metadata.Section; s != "" {
		meta = append(meta, r.styles.Subtitle.Render(s))
	}
	if d := doc.Chunk.Metadata.AdoptionDate; d != "" {
		meta = append(meta, r.styles.Muted.Render(d))
	}
	if doc.Participation != nil {
		status := doc.Participation.SigningStatus
		meta = append(meta, r.styles.Signing(status).Render(strings.ReplaceAll(string(status), "_", " ")))
	}
	metaLine := "    " + strings.Join(meta, r.styles.Muted.Render(" · "))

	reason := doc.Reason
	if reason == "" {
		reason = firstLine(doc.Chunk.Content)
	}
	maxPreviewLen := r.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	previewLine := r.styles.Muted.Render("    " + clip(reason, maxPreviewLen))

	return titleLine + "\n" + metaLine + "\n" + previewLine
}

func (r *ResultList) viewExpanded() string {
	doc := &r.results[r.selected]
	var b strings.Builder
	b.WriteString(r.styles.Subtitle.Render(doc.Chunk.Metadata.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s\n\n", r.styles.Muted.Render(fmt.Sprintf(
		"semantic %.2f · keyword %.2f · relevance %.2f",
		doc.Similarity, doc.KeywordScore, doc.RelevanceScore)))
	b.WriteString(doc.Chunk.Content)
	return b.String()
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// SetResults replaces the results and collapses the list.
func (r *ResultList) SetResults(results []domain.RetrievedDocument) {
	r.results = results
	r.selected = 0
	r.expanded = false
}

// Results returns the current results.
func (r *ResultList) Results() []domain.RetrievedDocument {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.RetrievedDocument {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// ToggleExpanded switches between the list and the selected treaty's full text.
func (r *ResultList) ToggleExpanded() {
	if len(r.results) > 0 {
		r.expanded = !r.expanded
	}
}

// Expanded reports whether the full text is shown.
func (r *ResultList) Expanded() bool {
	return r.expanded
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}
