package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/grovetools/carbon/cli"
	"github.com/grovetools/carbon/logging"
	"github.com/grovetools/carbon/pkg/models"
	"github.com/grovetools/carbon/race"
	"github.com/grovetools/carbon/tui/components/table"
	"github.com/grovetools/carbon/tui/theme"
)

// countrySummary is one row of the fetch report.
type countrySummary struct {
	Country string   `json:"country"`
	Records int      `json:"records"`
	First   int      `json:"firstYear,omitempty"`
	Last    int      `json:"lastYear,omitempty"`
	Latest  *float64 `json:"latestCarbon"`
}

type fetchReport struct {
	FromCache bool             `json:"fromCache"`
	MinYear   int              `json:"minYear"`
	MaxYear   int              `json:"maxYear"`
	Failed    []string         `json:"failed,omitempty"`
	Countries []countrySummary `json:"countries"`
}

// NewFetchCmd creates the command that loads the data and warms the cache.
func NewFetchCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Load the emissions data and report what was fetched",
		Long: `Runs the same load as the race: the cache is used while fresh, otherwise
the roster and every country series are fetched and the cache is refilled.`,
		Example: `# Warm the cache
carbon fetch

# Ignore the cache and fetch again
carbon fetch --refresh`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, cmd, "fetch")
			if err != nil {
				return err
			}
			defer d.Close()

			if refresh {
				if err := d.gateway.Clear(ctx); err != nil {
					return err
				}
			}

			result, err := d.loader.Load(ctx)
			if err != nil {
				return err
			}
			report := summarize(result)

			out := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			rows := make([][]string, 0, len(report.Countries))
			for _, c := range report.Countries {
				rows = append(rows, []string{c.Country, strconv.Itoa(c.Records), yearSpan(c), carbonText(c.Latest)})
			}
			fmt.Fprintln(out, table.Render(
				[]string{"Country", "Records", "Years", "Latest"},
				rows,
				table.Options{Bordered: true, RightAligned: []int{1, 3}, Theme: theme.DefaultTheme},
			))

			pretty := logging.NewPrettyLogger().WithWriter(out)
			source := "the Footprint API"
			if report.FromCache {
				source = "the cache"
			}
			pretty.Success(fmt.Sprintf("Loaded %d countries from %s, %d-%d", len(report.Countries), source, report.MinYear, report.MaxYear))
			if len(report.Failed) > 0 {
				pretty.WarnPretty(fmt.Sprintf("%d countries failed to load and will show no bars", len(report.Failed)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Clear the cache before loading")
	return cmd
}

func summarize(result *race.LoadResult) fetchReport {
	report := fetchReport{
		FromCache: result.FromCache,
		MinYear:   result.MinYear,
		MaxYear:   result.MaxYear,
		Failed:    result.Failed,
	}
	for _, entry := range result.Store.Entries() {
		report.Countries = append(report.Countries, summarizeSeries(entry.Name, entry.Series))
	}
	return report
}

func summarizeSeries(name string, series models.Series) countrySummary {
	s := countrySummary{Country: name, Records: len(series)}
	for _, r := range series {
		if s.First == 0 || r.Year < s.First {
			s.First = r.Year
		}
		if r.Year > s.Last {
			s.Last = r.Year
			s.Latest = r.Carbon
		}
	}
	return s
}

func yearSpan(c countrySummary) string {
	if c.Records == 0 {
		return "-"
	}
	return fmt.Sprintf("%d-%d", c.First, c.Last)
}

func carbonText(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
