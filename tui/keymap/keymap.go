package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/grovetools/carbon/config"
)

// Base contains the bindings every carbon TUI understands.
type Base struct {
	Quit key.Binding
	Help key.Binding
}

// NewBase returns the default bindings.
func NewBase() Base {
	return Base{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// Load returns the default bindings with the overrides from the
// "tui.keybindings" section of carbon.yml applied.
func Load(cfg *config.Config) Base {
	base := NewBase()
	if cfg == nil {
		return base
	}
	ApplyOverrides(&base, cfg.TUI().Keybindings)
	return base
}

// ShortHelp implements help.KeyMap.
func (k Base) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k Base) FullHelp() [][]key.Binding {
	var rows [][]key.Binding
	for _, s := range k.Sections() {
		rows = append(rows, s.Bindings)
	}
	return rows
}

// Sections groups the bindings for the help view.
func (k Base) Sections() []Section {
	return []Section{
		SystemSection(k.Help, k.Quit),
	}
}
