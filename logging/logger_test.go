package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/carbon/tui/theme"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerIsCachedPerComponent(t *testing.T) {
	t.Setenv("CARBON_HOME", t.TempDir())

	a := NewLogger("loader")
	b := NewLogger("loader")
	c := NewLogger("cache")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "loader", a.Data["component"])
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		want    []string
		notWant []string
	}{
		{
			name:   "default",
			config: FormatConfig{},
			want:   []string{"[WARN]", "loader", "roster empty", "count=0", "source=api"},
		},
		{
			name:    "no component",
			config:  FormatConfig{DisableComponent: true},
			want:    []string{"[WARN]", "roster empty"},
			notWant: []string{"loader"},
		},
		{
			name:    "no timestamp",
			config:  FormatConfig{DisableTimestamp: true},
			notWant: []string{"2025-01-02"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logrus.New()
			entry := logrus.NewEntry(logger).WithFields(logrus.Fields{
				"component": "loader",
				"source":    "api",
				"count":     0,
			})
			entry.Time = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
			entry.Level = logrus.WarnLevel
			entry.Message = "roster empty"

			out, err := (&TextFormatter{Config: tt.config}).Format(entry)
			require.NoError(t, err)

			for _, w := range tt.want {
				assert.Contains(t, string(out), w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, string(out), nw)
			}
			assert.True(t, strings.HasSuffix(string(out), "\n"))
		})
	}
}

func TestFieldsAreSorted(t *testing.T) {
	entry := logrus.NewEntry(logrus.New()).WithFields(logrus.Fields{"b": 2, "a": 1, "c": 3})
	entry.Message = "m"

	out, err := (&TextFormatter{Config: FormatConfig{DisableTimestamp: true}}).Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(out), "a=1 b=2 c=3")
}

func TestFileSink(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CARBON_HOME", home)
	t.Setenv("CARBON_LOG_LEVEL", "debug")

	now := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	log := newLoggerWithConfig("race", Config{Format: FormatConfig{StructuredToStderr: "never"}}, now)
	log.Debug("ticker started")

	data, err := os.ReadFile(filepath.Join(home, "state", "logs", "race-2025-03-04.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ticker started")
	assert.Equal(t, logrus.DebugLevel, log.Logger.GetLevel())
}

func TestJSONPresetAndExplicitPath(t *testing.T) {
	t.Setenv("CARBON_HOME", t.TempDir())
	t.Setenv("CARBON_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "out", "carbon.log")

	cfg := Config{
		Level:  "warn",
		File:   FileSinkConfig{Enabled: true, Path: path},
		Format: FormatConfig{Preset: "json", StructuredToStderr: "never"},
	}
	log := newLoggerWithConfig("cache", cfg, time.Now())
	log.Info("hidden")
	log.WithField("key", "carbon_data").Warn("Malformed cache entry")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"msg":"Malformed cache entry"`)
	assert.Contains(t, string(data), `"component":"cache"`)
}

func TestGlobalOutputRedirect(t *testing.T) {
	var buf bytes.Buffer
	previous := SetGlobalOutput(&buf)
	defer SetGlobalOutput(previous)

	t.Setenv("CARBON_HOME", t.TempDir())
	log := newLoggerWithConfig("serve", Config{Format: FormatConfig{StructuredToStderr: "always", Preset: "simple"}}, time.Now())
	log.Info("listening")

	assert.Contains(t, buf.String(), "[INFO] listening")
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLogger().WithWriter(&buf).WithTheme(theme.NewThemeWithName("terminal"))

	p.Success("cache cleared")
	p.Field("entities", 15)
	p.ErrorPretty("fetch failed", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "cache cleared")
	assert.Contains(t, out, "entities")
	assert.Contains(t, out, "15")
	assert.Contains(t, out, "boom")
}
