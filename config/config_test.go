package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/carbon/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points CARBON_HOME at a temp dir so the user's global config
// never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("CARBON_HOME", home)
	t.Setenv("FOOTPRINT_API_KEY", "")
	return home
}

func TestDefaultsWithoutAnyFile(t *testing.T) {
	home := isolate(t)

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.Source.BaseURL)
	assert.Equal(t, 15, cfg.Source.MaxEntities)
	assert.Equal(t, "badger", cfg.Cache.Backend)
	assert.Equal(t, "carbon_data", cfg.Cache.Key)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL.Duration)
	assert.Equal(t, filepath.Join(home, "cache", "emissions"), cfg.Cache.Path)
	assert.Equal(t, time.Second, cfg.Race.TickInterval.Duration)
	assert.Equal(t, 1970, cfg.Race.DefaultMinYear)
	assert.Equal(t, 2020, cfg.Race.DefaultMaxYear)
	assert.InDelta(t, 0.1, cfg.Race.Smoothing, 1e-9)
	assert.Equal(t, 900*time.Millisecond, cfg.Race.SettleDelay.Duration)
}

func TestLoadYAMLWithEnvExpansion(t *testing.T) {
	isolate(t)
	t.Setenv("TEST_FOOTPRINT_KEY", "secret")

	dir := t.TempDir()
	content := `
version: "1.0"
source:
  api_key: ${TEST_FOOTPRINT_KEY}
  username: ${TEST_MISSING_USER:-someone}
  max_entities: 5
cache:
  ttl: 10m
race:
  tick_interval: 500ms
tui:
  theme: gruvbox
  bar_width: 40
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "carbon.yml"), []byte(content), 0644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Source.APIKey)
	assert.Equal(t, "someone", cfg.Source.Username)
	assert.Equal(t, 5, cfg.Source.MaxEntities)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL.Duration)
	assert.Equal(t, 500*time.Millisecond, cfg.Race.TickInterval.Duration)

	tuiCfg := cfg.TUI()
	assert.Equal(t, "gruvbox", tuiCfg.Theme)
	assert.Equal(t, 40, tuiCfg.BarWidth)

	var logCfg struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
}

func TestLoadTOML(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	content := `
version = "1.0"

[source]
max_entities = 3

[race]
tick_interval = "2s"
smoothing = 0.2

[tui]
theme = "terminal"
`
	path := filepath.Join(dir, "carbon.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Source.MaxEntities)
	assert.Equal(t, 2*time.Second, cfg.Race.TickInterval.Duration)
	assert.InDelta(t, 0.2, cfg.Race.Smoothing, 1e-9)
	assert.Equal(t, "terminal", cfg.TUI().Theme)
}

func TestProjectOverridesGlobal(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0755))
	global := "source:\n  max_entities: 4\n  username: global-user\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "config", "carbon.yml"), []byte(global), 0644))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "carbon.yml"), []byte("source:\n  max_entities: 7\n"), 0644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Source.MaxEntities)
	assert.Equal(t, "global-user", cfg.Source.Username)
}

func TestValidation(t *testing.T) {
	isolate(t)

	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"too many entities", "source:\n  max_entities: 16\n", "source.max_entities"},
		{"unknown backend", "cache:\n  backend: memcached\n", "cache.backend"},
		{"redis without url", "cache:\n  backend: redis\n", "cache.redis_url"},
		{"inverted year defaults", "race:\n  default_min_year: 2030\n  default_max_year: 2000\n", "race.default_min_year"},
		{"settle shorter than transition", "race:\n  transition: 1s\n  settle_delay: 500ms\n", "race.settle_delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			require.Error(t, err)

			code := errors.GetCode(err)
			assert.Contains(t, []errors.ErrorCode{errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation}, code)
			if code == errors.ErrCodeConfigValidation {
				carbonErr := err.(*errors.CarbonError)
				assert.Equal(t, tt.field, carbonErr.Details["field"])
			}
		})
	}
}

func TestBadDuration(t *testing.T) {
	isolate(t)
	_, err := LoadFromBytes([]byte("cache:\n  ttl: soon\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"max_entities"`)
	assert.Contains(t, string(data), `"tick_interval"`)
	assert.NotContains(t, string(data), `"Extensions"`)
}

func TestWatchReloads(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "carbon.yml")
	require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: kanagawa\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	logger := logrus.New().WithField("component", "test")
	go func() {
		_ = Watch(ctx, path, 20*time.Millisecond, logger, func(cfg *Config) { changes <- cfg })
	}()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: gruvbox\n"), 0644))

	select {
	case cfg := <-changes:
		assert.Equal(t, "gruvbox", cfg.TUI().Theme)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestCachePathIsExpanded(t *testing.T) {
	home := isolate(t)

	cfg, err := LoadFromBytes([]byte("cache:\n  path: $CARBON_HOME/db\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "db"), cfg.Cache.Path)
}
