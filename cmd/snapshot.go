package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/carbon/cli"
	"github.com/grovetools/carbon/errors"
	"github.com/grovetools/carbon/race"
	"github.com/grovetools/carbon/tui/chart"
	"github.com/grovetools/carbon/tui/components"
	"github.com/grovetools/carbon/tui/theme"
)

// NewSnapshotCmd creates the command printing the ranking of a single year.
func NewSnapshotCmd() *cobra.Command {
	var (
		year  int
		width int
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print the ranked chart for a single year",
		Example: `# The latest year
carbon snapshot

# A given year with 40-cell bars
carbon snapshot --year 1995 --width 40`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, cmd, "snapshot")
			if err != nil {
				return err
			}
			defer d.Close()

			result, err := d.loader.Load(ctx)
			if err != nil {
				return err
			}

			if year == 0 {
				year = result.MaxYear
			}
			if year < result.MinYear || year > result.MaxYear {
				return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("year %d is outside %d-%d", year, result.MinYear, result.MaxYear)).
					WithDetail("year", year)
			}
			if width <= 0 {
				width = min(d.cfg.TUI().BarWidth, cli.TerminalWidth()-40)
				width = max(width, 10)
			}

			t := theme.DefaultTheme
			visible := race.BuildSnapshot(result.Store, year)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, components.RenderHeader(t, "Carbon footprint per capita", fmt.Sprintf("%d", year)))
			if len(visible) == 0 {
				fmt.Fprintln(out, t.Muted.Render("No emissions data for this year."))
				return nil
			}
			fmt.Fprintln(out, chart.RenderBars(t, visible, race.IDs(visible), t.BarColor, race.MaxTarget(visible), width))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year to render (defaults to the latest)")
	cmd.Flags().IntVar(&width, "width", 0, "Length of the longest bar in cells")
	return cmd
}
