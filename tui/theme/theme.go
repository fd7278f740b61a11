package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultThemeName = "kanagawa"

// Status glyphs shared by the CLI output helpers.
const (
	IconSuccess = "✓"
	IconWarning = "⚠"
	IconError   = "✗"
	IconBullet  = "•"
)

// palette is one theme's raw color values. Light and Dark are picked by
// lipgloss based on the terminal background.
type palette struct {
	green, yellow, red, orange, cyan, blue, violet, pink [2]string
	text, muted, border, subtle                          [2]string
	// bars cycles by rank. Plain strings so the race engine can hand them
	// to non-terminal consumers such as the websocket overlay.
	bars []string
}

var kanagawa = palette{
	green:  [2]string{"#4E7C5A", "#98BB6C"},
	yellow: [2]string{"#A68A64", "#FF9E3B"},
	red:    [2]string{"#C34043", "#FF5D62"},
	orange: [2]string{"#CC6B4E", "#FFA066"},
	cyan:   [2]string{"#5B8BBE", "#7E9CD8"},
	blue:   [2]string{"#4F7CAC", "#7FB4CA"},
	violet: [2]string{"#674D7A", "#957FB8"},
	pink:   [2]string{"#B35C74", "#D27E99"},
	text:   [2]string{"#2B2F42", "#DCD7BA"},
	muted:  [2]string{"#6C7086", "#727169"},
	border: [2]string{"#B5BDC5", "#363646"},
	subtle: [2]string{"#F7F7FB", "#1F1F28"},
	bars: []string{
		"#7E9CD8", "#98BB6C", "#FFA066", "#957FB8", "#FF5D62",
		"#7FB4CA", "#D27E99", "#E6C384", "#6A9589", "#C0A36E",
		"#A3D4D5", "#E46876", "#938AA9", "#76946A", "#DCA561",
	},
}

var gruvbox = palette{
	green:  [2]string{"#98971A", "#B8BB26"},
	yellow: [2]string{"#D79921", "#FABD2F"},
	red:    [2]string{"#CC241D", "#FB4934"},
	orange: [2]string{"#D65D0E", "#FE8019"},
	cyan:   [2]string{"#458588", "#83A598"},
	blue:   [2]string{"#076678", "#458588"},
	violet: [2]string{"#8F3F71", "#B16286"},
	pink:   [2]string{"#B57679", "#D3869B"},
	text:   [2]string{"#3C3836", "#EBDBB2"},
	muted:  [2]string{"#928374", "#BDAE93"},
	border: [2]string{"#D5C4A1", "#504945"},
	subtle: [2]string{"#FBF1C7", "#282828"},
	bars: []string{
		"#83A598", "#B8BB26", "#FE8019", "#D3869B", "#FB4934",
		"#8EC07C", "#FABD2F", "#B16286", "#689D6A", "#D65D0E",
		"#458588", "#98971A", "#CC241D", "#D79921", "#A89984",
	},
}

// terminal uses ANSI indices so the user's own terminal scheme applies.
var terminal = palette{
	green:  [2]string{"2", "2"},
	yellow: [2]string{"3", "3"},
	red:    [2]string{"1", "1"},
	orange: [2]string{"208", "208"},
	cyan:   [2]string{"6", "6"},
	blue:   [2]string{"4", "4"},
	violet: [2]string{"5", "5"},
	pink:   [2]string{"13", "13"},
	text:   [2]string{"7", "7"},
	muted:  [2]string{"8", "8"},
	border: [2]string{"8", "8"},
	subtle: [2]string{"0", "0"},
	bars: []string{
		"6", "2", "208", "5", "1",
		"4", "13", "3", "14", "10",
		"12", "9", "11", "172", "7",
	},
}

var themeRegistry = map[string]palette{
	"kanagawa": kanagawa,
	"gruvbox":  gruvbox,
	"terminal": terminal,
}

var themeAliases = map[string]string{
	"kanagawa-dark":   "kanagawa",
	"kanagawa-dragon": "kanagawa",
	"kanagawa-wave":   "kanagawa",
	"gruvbox-dark":    "gruvbox",
	"gruvbox-light":   "gruvbox",
}

// Colors encapsulates the palette used by a theme.
type Colors struct {
	Green     lipgloss.TerminalColor
	Yellow    lipgloss.TerminalColor
	Red       lipgloss.TerminalColor
	Orange    lipgloss.TerminalColor
	Cyan      lipgloss.TerminalColor
	Blue      lipgloss.TerminalColor
	Violet    lipgloss.TerminalColor
	Pink      lipgloss.TerminalColor
	LightText lipgloss.TerminalColor
	MutedText lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Subtle    lipgloss.TerminalColor
}

// Theme holds the pre-configured styles used across carbon's output.
type Theme struct {
	Name   string
	Colors Colors

	Header lipgloss.Style
	Title  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold   lipgloss.Style
	Normal lipgloss.Style
	Muted  lipgloss.Style

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	TableBorder lipgloss.Style

	Box lipgloss.Style

	Highlight lipgloss.Style
	Accent    lipgloss.Style

	// Year is the large current-year label of the race.
	Year lipgloss.Style

	// BarColors is the rank palette, cycled by modulo.
	BarColors []string
}

// DefaultTheme is selected from CARBON_THEME, falling back to kanagawa.
// Commands that have loaded a config replace it through SetDefault.
var DefaultTheme = NewThemeWithName(os.Getenv("CARBON_THEME"))

// SetDefault replaces DefaultTheme.
func SetDefault(t *Theme) {
	DefaultTheme = t
}

// NewThemeWithName constructs a theme from a palette name. Unknown names
// resolve to the default palette.
func NewThemeWithName(name string) *Theme {
	key := Normalize(name)
	if alias, ok := themeAliases[key]; ok {
		key = alias
	}
	p, ok := themeRegistry[key]
	if !ok {
		key = defaultThemeName
		p = themeRegistry[key]
	}
	return newTheme(key, p)
}

// Names lists the registered palettes.
func Names() []string {
	return []string{"kanagawa", "gruvbox", "terminal"}
}

// Normalize lower-cases a theme name and folds spaces and underscores to dashes.
func Normalize(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return normalized
}

func adaptive(pair [2]string) lipgloss.TerminalColor {
	if pair[0] == pair[1] {
		return lipgloss.Color(pair[0])
	}
	return lipgloss.AdaptiveColor{Light: pair[0], Dark: pair[1]}
}

func newTheme(name string, p palette) *Theme {
	colors := Colors{
		Green:     adaptive(p.green),
		Yellow:    adaptive(p.yellow),
		Red:       adaptive(p.red),
		Orange:    adaptive(p.orange),
		Cyan:      adaptive(p.cyan),
		Blue:      adaptive(p.blue),
		Violet:    adaptive(p.violet),
		Pink:      adaptive(p.pink),
		LightText: adaptive(p.text),
		MutedText: adaptive(p.muted),
		Border:    adaptive(p.border),
		Subtle:    adaptive(p.subtle),
	}

	bars := make([]string, len(p.bars))
	copy(bars, p.bars)

	return &Theme{
		Name:   name,
		Colors: colors,

		Header: lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			MarginBottom(1),

		Success: lipgloss.NewStyle().Foreground(colors.Green).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(colors.Red).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(colors.Yellow).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(colors.Cyan).Bold(true),

		Bold:   lipgloss.NewStyle().Bold(true),
		Normal: lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Faint(true),

		TableHeader: lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colors.Border),

		TableRow: lipgloss.NewStyle(),

		TableBorder: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(1, 2).
			Margin(1, 0),

		Highlight: lipgloss.NewStyle().Foreground(colors.Orange).Bold(true),
		Accent:    lipgloss.NewStyle().Foreground(colors.Violet).Bold(true),

		Year: lipgloss.NewStyle().
			Foreground(colors.Orange).
			Bold(true).
			Padding(0, 1),

		BarColors: bars,
	}
}

// BarColor returns the palette entry for a zero-based rank.
func (t *Theme) BarColor(rank int) string {
	if len(t.BarColors) == 0 {
		return ""
	}
	if rank < 0 {
		rank = -rank
	}
	return t.BarColors[rank%len(t.BarColors)]
}

// RenderHeader renders a header with the default styling.
func RenderHeader(title string) string {
	return DefaultTheme.Header.Render(title)
}

// RenderStatus renders text with the appropriate status style.
func RenderStatus(status, text string) string {
	switch status {
	case "success":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	default:
		return text
	}
}
