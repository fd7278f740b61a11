package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/carbon/cli"
	"github.com/grovetools/carbon/config"
	"github.com/grovetools/carbon/pkg/cache"
	"github.com/grovetools/carbon/pkg/footprint"
	"github.com/grovetools/carbon/pkg/profiling"
	"github.com/grovetools/carbon/race"
	"github.com/grovetools/carbon/tui/theme"
)

// deps are the collaborators shared by the commands that load data.
type deps struct {
	cfg     *config.Config
	logger  *logrus.Entry
	gateway *cache.Gateway
	loader  *race.Loader
}

func loadDeps(ctx context.Context, cmd *cobra.Command, component string) (*deps, error) {
	span := profiling.Start("config")
	cfg, err := cli.LoadConfig(cmd)
	span.Stop()
	if err != nil {
		return nil, err
	}
	theme.SetDefault(theme.NewThemeWithName(cfg.TUI().Theme))

	logger := cli.GetLogger(cmd, component)

	span = profiling.Start("cache.open")
	gateway, err := cache.Open(ctx, cfg.Cache, logger)
	span.Stop()
	if err != nil {
		return nil, err
	}

	client := footprint.NewClient(footprint.Options{
		BaseURL:           cfg.Source.BaseURL,
		Username:          cfg.Source.Username,
		APIKey:            cfg.Source.APIKey,
		RequestsPerSecond: cfg.Source.RequestsPerSecond,
	})

	loader := race.NewLoader(client, gateway, race.LoaderOptions{
		MaxEntities:    cfg.Source.MaxEntities,
		DefaultMinYear: cfg.Race.DefaultMinYear,
		DefaultMaxYear: cfg.Race.DefaultMaxYear,
		Logger:         logger,
	})

	return &deps{cfg: cfg, logger: logger, gateway: gateway, loader: loader}, nil
}

func (d *deps) engineOptions() race.Options {
	r := d.cfg.Race
	return race.Options{
		TickInterval: r.TickInterval.Duration,
		Smoothing:    r.Smoothing,
		Epsilon:      r.Epsilon,
		Transition:   r.Transition.Duration,
		SettleDelay:  r.SettleDelay.Duration,
		Palette:      theme.DefaultTheme.BarColors,
		Logger:       d.logger,
	}
}

// Close releases the cache backend.
func (d *deps) Close() {
	if err := d.gateway.Close(); err != nil {
		d.logger.WithError(err).Warn("Failed to close cache")
	}
}
