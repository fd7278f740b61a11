package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/carbon/cli"
	"github.com/grovetools/carbon/errors"
	"github.com/grovetools/carbon/logging"
	"github.com/grovetools/carbon/tui/components"
	"github.com/grovetools/carbon/tui/theme"
)

// NewCacheCmd creates the cache command group.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the cached emissions data",
	}
	cmd.AddCommand(newCacheShowCmd(), newCacheClearCmd())
	return cmd
}

func newCacheShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the age and size of the cached data",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, cmd, "cache")
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			t := theme.DefaultTheme

			info, err := d.gateway.Stat(ctx)
			if errors.Is(err, errors.ErrCodeCacheMiss) {
				fmt.Fprintln(out, t.Muted.Render("Nothing cached under "+d.gateway.Key()))
				return nil
			}
			if err != nil {
				return err
			}

			if cli.GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(map[string]interface{}{
					"key":      info.Key,
					"backend":  d.cfg.Cache.Backend,
					"size":     info.Size,
					"storedAt": info.StoredAt.UTC().Format(time.RFC3339),
					"ageMs":    info.Age.Milliseconds(),
					"ttlMs":    d.gateway.TTL().Milliseconds(),
					"expired":  info.Expired,
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			state := t.Success.Render("fresh")
			if info.Expired {
				state = t.Warning.Render("expired")
			}
			fmt.Fprintln(out, components.RenderKeyValue(t, "Key", info.Key))
			fmt.Fprintln(out, components.RenderKeyValue(t, "Backend", d.cfg.Cache.Backend))
			fmt.Fprintln(out, components.RenderKeyValue(t, "Size", fmt.Sprintf("%d bytes", info.Size)))
			fmt.Fprintln(out, components.RenderKeyValue(t, "Stored", info.StoredAt.Local().Format(time.DateTime)))
			fmt.Fprintln(out, components.RenderKeyValue(t, "Age", info.Age.Round(time.Second).String()))
			fmt.Fprintln(out, components.RenderKeyValue(t, "TTL", d.gateway.TTL().String()))
			fmt.Fprintln(out, components.RenderKeyValue(t, "State", state))
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the cached data so the next run fetches again",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, cmd, "cache")
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.gateway.Clear(ctx); err != nil {
				return err
			}
			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).Success("Cache cleared")
			return nil
		},
	}
}
