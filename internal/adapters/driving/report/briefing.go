// Package report renders briefings for human readers.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// Markdown renders a briefing as a Markdown document.
func Markdown(b *domain.Briefing) string {
	if b == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", b.Title)
	fmt.Fprintf(&sb, "**Classification:** %s  \n", b.Classification)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", b.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))

	section(&sb, "Summary", b.Summary)
	list(&sb, "Key Points", b.KeyPoints)
	list(&sb, "Recommendations", b.Recommendations)
	section(&sb, "Reasoning", b.Reasoning)
	section(&sb, "Legal Analysis", b.LegalAnalysis)
	section(&sb, "Strategic Options", b.StrategicOptions)

	if len(b.Treaties) > 0 {
		sb.WriteString("## Treaties\n\n")
		sb.WriteString("| # | Title | Section | Adopted | Relevance | Signing |\n")
		sb.WriteString("|---|---|---|---|---|---|\n")
		for i, t := range b.Treaties {
			signing := "-"
			if t.Participation != nil {
				signing = string(t.Participation.SigningStatus)
			}
			fmt.Fprintf(&sb, "| %d | %s | %s | %s | %.2f | %s |\n",
				i+1, cell(t.Title), cell(t.Section), cell(t.AdoptionDate), t.RelevanceScore, signing)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Quality Metrics\n\n")
	fmt.Fprintf(&sb, "- Faithfulness: %.2f\n", b.Metrics.Faithfulness)
	fmt.Fprintf(&sb, "- Answer relevancy: %.2f\n", b.Metrics.AnswerRelevancy)
	fmt.Fprintf(&sb, "- Context precision: %.2f\n", b.Metrics.ContextPrecision)
	fmt.Fprintf(&sb, "- Context recall: %.2f\n\n", b.Metrics.ContextRecall)

	list(&sb, "Warnings", b.Warnings)
	return sb.String()
}

// HTML renders a briefing as an HTML fragment.
func HTML(b *domain.Briefing) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(b)), &buf); err != nil {
		return "", fmt.Errorf("render briefing: %w", err)
	}
	return buf.String(), nil
}

func section(sb *strings.Builder, heading, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(sb, "## %s\n\n%s\n\n", heading, body)
}

func list(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", strings.TrimSpace(item))
	}
	sb.WriteString("\n")
}

// cell keeps table rows intact.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
