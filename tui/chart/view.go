package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/carbon/pkg/models"
	"github.com/grovetools/carbon/tui/components"
	"github.com/grovetools/carbon/tui/theme"
)

const maxNameWidth = 24

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(components.RenderHeader(m.theme, "Carbon footprint per capita", m.subtitle()))
	b.WriteString("\n\n")

	switch {
	case m.engine.Loading():
		b.WriteString(m.spinner.View() + " Loading emissions data...")
	case len(m.engine.Visible()) == 0:
		b.WriteString(m.theme.Muted.Render("No emissions data to show."))
	default:
		b.WriteString(m.theme.Year.Render(fmt.Sprintf("%d", m.engine.CurrentYear())))
		b.WriteString("\n\n")
		b.WriteString(m.renderBars())
	}

	b.WriteString("\n")
	b.WriteString(components.RenderFooter(m.theme, m.status(), m.width))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) subtitle() string {
	if m.engine.Loading() || m.engine.Store().Len() == 0 {
		return ""
	}
	return fmt.Sprintf("%d countries, %d-%d", m.engine.Store().Len(), m.engine.MinYear(), m.engine.MaxYear())
}

func (m *Model) status() string {
	switch {
	case m.err != nil:
		return m.theme.Error.Render("Could not load the country list")
	case m.failed == 1:
		return m.theme.Warning.Render("1 country failed to load")
	case m.failed > 1:
		return m.theme.Warning.Render(fmt.Sprintf("%d countries failed to load", m.failed))
	}
	return m.engine.State().String()
}

// renderBars draws the snapshot in on-screen order.
func (m *Model) renderBars() string {
	return RenderBars(m.theme, m.engine.Visible(), m.surface.Order(), m.engine.Color, m.engine.MaxCarbon(), m.barWidth)
}

// RenderBars draws one row per entry of visible, in the given row order.
// The bar color follows the entry's rank, not its row, so a sliding row
// keeps its color. Ids in order that are not visible are skipped.
func RenderBars(t *theme.Theme, visible []models.VisibleEntry, order []string, color func(rank int) string, maxCarbon float64, barWidth int) string {
	rank := make(map[string]int, len(visible))
	nameWidth := 0
	for i, e := range visible {
		rank[e.Country] = i
		nameWidth = max(nameWidth, min(lipgloss.Width(e.Country), maxNameWidth))
	}

	lines := make([]string, 0, len(visible))
	for _, id := range order {
		r, ok := rank[id]
		if !ok {
			continue
		}
		lines = append(lines, renderBar(t, visible[r], color(r), nameWidth, maxCarbon, barWidth))
	}
	return strings.Join(lines, "\n")
}

func renderBar(t *theme.Theme, e models.VisibleEntry, color string, nameWidth int, maxCarbon float64, barWidth int) string {
	name := truncate(e.Country, nameWidth)
	name += strings.Repeat(" ", max(0, nameWidth-lipgloss.Width(name)))

	bar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Render(strings.Repeat("█", barCells(e.Carbon, maxCarbon, barWidth)))

	return fmt.Sprintf("%s %s %s", t.Normal.Render(name), bar, t.Muted.Render(fmt.Sprintf("%.2f", e.Carbon)))
}

// barCells scales value against maxValue onto width cells. Values above
// maxValue, which happen while the scale is still catching up, are clamped.
func barCells(value, maxValue float64, width int) int {
	if maxValue <= 0 || value <= 0 {
		return 0
	}
	n := int(value / maxValue * float64(width))
	return min(max(n, 0), width)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
