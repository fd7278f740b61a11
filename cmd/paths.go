package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/carbon/config"
	"github.com/grovetools/carbon/pkg/paths"
)

// PathsOutput lists the directories carbon reads and writes.
type PathsOutput struct {
	ConfigDir    string `json:"config_dir"`
	GlobalConfig string `json:"global_config"`
	StateDir     string `json:"state_dir"`
	LogsDir      string `json:"logs_dir"`
	CacheDir     string `json:"cache_dir"`
}

// NewPathsCmd creates the command that prints the resolved directories.
func NewPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the directories used by carbon",
		Long: `Prints the directories as JSON. CARBON_HOME moves all of them under a
single root; otherwise the XDG base directories are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := PathsOutput{
				ConfigDir:    paths.ConfigDir(),
				GlobalConfig: config.GlobalConfigPath(),
				StateDir:     paths.StateDir(),
				LogsDir:      paths.LogsDir(),
				CacheDir:     paths.CacheDir(),
			}

			data, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
