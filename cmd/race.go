package cmd

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/grovetools/carbon/cli"
	"github.com/grovetools/carbon/config"
	"github.com/grovetools/carbon/logging"
	"github.com/grovetools/carbon/race"
	"github.com/grovetools/carbon/tui"
	"github.com/grovetools/carbon/tui/chart"
	"github.com/grovetools/carbon/tui/keymap"
	"github.com/grovetools/carbon/tui/theme"
)

// NewRaceCmd creates the interactive bar chart race command.
func NewRaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "race",
		Short: "Animate the carbon footprint race in the terminal",
		Long: `Loads up to 15 countries (from the cache when it is fresh) and cycles
through the years, re-ranking the bars every tick. Edits to the theme in
carbon.yml are picked up while the race runs.`,
		Example: `# Start the race
carbon race

# Use a specific configuration
carbon race --config ./carbon.yml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRace(cmd)
		},
	}
}

func runRace(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	d, err := loadDeps(ctx, cmd, "race")
	if err != nil {
		return err
	}
	defer d.Close()

	// Log lines would tear the alt screen.
	previous := logging.SetGlobalOutput(io.Discard)
	defer logging.SetGlobalOutput(previous)

	tui.InitializeTUI()
	tuiCfg := d.cfg.TUI()

	themes := make(chan string, 1)
	if cwd, err := os.Getwd(); err == nil {
		if path := cli.ConfigPath(cmd, cwd); path != "" {
			go watchTheme(ctx, path, d, themes)
		}
	}

	model := chart.New(ctx, chart.Options{
		Engine:        race.NewEngine(d.engineOptions()),
		Loader:        d.loader,
		Keys:          keymap.Load(d.cfg),
		Theme:         theme.DefaultTheme,
		BarWidth:      tuiCfg.BarWidth,
		FrameInterval: d.cfg.Race.FrameInterval.Duration,
		Themes:        themes,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

// watchTheme forwards the configured theme name on every valid reload.
// Only the latest name matters, so a pending one is replaced.
func watchTheme(ctx context.Context, path string, d *deps, themes chan string) {
	err := config.Watch(ctx, path, config.DefaultDebounce, d.logger, func(cfg *config.Config) {
		name := cfg.TUI().Theme
		select {
		case <-themes:
		default:
		}
		select {
		case themes <- name:
		default:
		}
	})
	if err != nil && ctx.Err() == nil {
		d.logger.WithError(err).Warn("Config watcher stopped")
	}
}
