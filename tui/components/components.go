package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/carbon/tui/theme"
)

// RenderHeader renders a title with an optional muted subtitle.
func RenderHeader(t *theme.Theme, title string, subtitle ...string) string {
	header := t.Title.Render(title)
	if len(subtitle) > 0 && subtitle[0] != "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, t.Muted.Render(subtitle[0]))
	}
	return header
}

// RenderFooter renders content centered under a top border.
func RenderFooter(t *theme.Theme, content string, width int) string {
	style := lipgloss.NewStyle().
		Foreground(t.Colors.MutedText).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(t.Colors.Border).
		MarginTop(1)
	if width > 0 {
		style = style.Width(width).Align(lipgloss.Center)
	}
	return style.Render(content)
}

// RenderDivider renders a horizontal rule.
func RenderDivider(t *theme.Theme, width int) string {
	if width <= 0 {
		width = 40
	}
	return t.Muted.Render(strings.Repeat("─", width))
}

// RenderKeyValue renders "key: value" with the key muted.
func RenderKeyValue(t *theme.Theme, key, value string) string {
	return t.Muted.Render(key+":") + " " + value
}
