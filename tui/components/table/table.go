package table

import (
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/carbon/tui/theme"
)

// Options configures a styled table.
type Options struct {
	Bordered bool
	// RightAligned lists column indexes rendered flush right, for numbers.
	RightAligned []int
	Theme        *theme.Theme
}

// DefaultOptions returns bordered options with the default theme.
func DefaultOptions() Options {
	return Options{
		Bordered: true,
		Theme:    theme.DefaultTheme,
	}
}

// New creates a lipgloss table styled with the given options. Row 0 of
// StyleFunc is the header row.
func New(opts Options) *ltable.Table {
	if opts.Theme == nil {
		opts.Theme = theme.DefaultTheme
	}
	t := opts.Theme

	right := make(map[int]bool, len(opts.RightAligned))
	for _, col := range opts.RightAligned {
		right[col] = true
	}

	tbl := ltable.New()
	if opts.Bordered {
		tbl = tbl.
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.Border))
	}

	return tbl.StyleFunc(func(row, col int) lipgloss.Style {
		style := t.TableRow.Padding(0, 1)
		if row == ltable.HeaderRow {
			style = t.Bold.Padding(0, 1)
		}
		if right[col] {
			style = style.Align(lipgloss.Right)
		}
		return style
	})
}

// Render builds and renders a table in one call.
func Render(headers []string, rows [][]string, opts Options) string {
	return New(opts).Headers(headers...).Rows(rows...).Render()
}
