package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// InitializeTUI prepares the terminal before the race starts. It forces a
// true-color profile when CLICOLOR_FORCE=1 or COLORTERM=truecolor is set, so
// bar colors survive non-interactive runs such as recordings and CI.
// Otherwise lipgloss detects the profile itself.
//
// Call it once, before tea.NewProgram.
func InitializeTUI() {
	if os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
