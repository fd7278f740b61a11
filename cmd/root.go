package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/carbon/cli"
	"github.com/grovetools/carbon/pkg/profiling"
	"github.com/grovetools/carbon/version"
)

// NewRootCmd builds the carbon command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"carbon",
		"Per-capita carbon footprint bar chart race",
	)
	rootCmd.Long = `Fetches per-capita carbon footprint series from the Global Footprint
Network API and animates them as a ranked bar chart, one year at a time.`
	cli.SetVersionTemplate(rootCmd, version.GetInfo())
	profiling.NewCobraProfiler(nil).Attach(rootCmd)

	rootCmd.AddCommand(
		NewRaceCmd(),
		NewFetchCmd(),
		NewSnapshotCmd(),
		NewCacheCmd(),
		NewServeCmd(),
		NewConfigCmd(),
		NewPathsCmd(),
		cli.NewVersionCommand("carbon", version.GetInfo()),
	)

	cli.ApplyStyledHelpRecursive(rootCmd)
	return rootCmd
}
