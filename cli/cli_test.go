package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/carbon/errors"
	"github.com/grovetools/carbon/tui/theme"
	"github.com/grovetools/carbon/version"
)

func TestStandardFlags(t *testing.T) {
	cmd := NewStandardCommand("carbon", "Race")
	require.NoError(t, cmd.ParseFlags([]string{"-v", "--json", "-c", "x.yml"}))

	assert.Equal(t, CommandOptions{ConfigFile: "x.yml", Verbose: true, JSONOutput: true}, GetOptions(cmd))
}

func TestLoadConfigFromFlag(t *testing.T) {
	t.Setenv("CARBON_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "carbon.yml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  max_entities: 4\n"), 0o644))

	cmd := NewStandardCommand("carbon", "Race")
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))

	cfg, err := LoadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Source.MaxEntities)
	assert.Equal(t, path, ConfigPath(cmd, t.TempDir()))
}

func TestLoadConfigMissingFlagFile(t *testing.T) {
	cmd := NewStandardCommand("carbon", "Race")
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "nope.yml")}))

	_, err := LoadConfig(cmd)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestErrorHandlerHints(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"roster", errors.RosterFetchFailed(fmt.Errorf("dial tcp")), "FOOTPRINT_API_KEY"},
		{"unauthorized", errors.UpstreamStatus("http://x/countries", 401), "rejected the credentials"},
		{"rate limited", errors.UpstreamStatus("http://x/countries", 429), "requests_per_second"},
		{"validation", errors.ConfigValidation("cache.ttl", "must be positive"), "cache.ttl"},
		{"wrapped", fmt.Errorf("fetch: %w", errors.CacheBackend("write", fmt.Errorf("disk full"))), "carbon cache clear"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			h := &ErrorHandler{Out: &out}
			assert.Equal(t, tc.err, h.Handle(tc.err))
			assert.Contains(t, out.String(), tc.want)
		})
	}
}

func TestErrorHandlerVerboseDetails(t *testing.T) {
	var out bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &out}
	_ = h.Handle(errors.EntityFetchFailed("33", fmt.Errorf("boom")))

	assert.Contains(t, out.String(), `"code": "ENTITY_FETCH_FAILED"`)
	assert.Contains(t, out.String(), `"identifier": "33"`)
}

func TestErrorHandlerPlainError(t *testing.T) {
	var out bytes.Buffer
	h := &ErrorHandler{Out: &out}
	assert.Nil(t, h.Handle(nil))
	_ = h.Handle(fmt.Errorf("plain"))
	assert.Contains(t, out.String(), "plain")
}

func TestRenderHelp(t *testing.T) {
	root := NewStandardCommand("carbon", "Carbon footprint race")
	sub := &cobra.Command{
		Use:     "snapshot",
		Short:   "Print one year",
		Example: "# 1999\ncarbon snapshot --year 1999",
		Run:     func(*cobra.Command, []string) {},
	}
	sub.Flags().Int("year", 0, "Year to render")
	root.AddCommand(sub)

	var out bytes.Buffer
	RenderHelp(&out, root, theme.NewThemeWithName("terminal"), 60)
	assert.Contains(t, out.String(), "CARBON")
	assert.Contains(t, out.String(), "snapshot")
	assert.Contains(t, out.String(), "--verbose")

	out.Reset()
	RenderHelp(&out, sub, theme.NewThemeWithName("terminal"), 60)
	assert.Contains(t, out.String(), "--year")
	assert.Contains(t, out.String(), "carbon snapshot --year 1999")
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"aaa bbb", "ccc"}, wrapText("aaa bbb ccc", 7))
	assert.Equal(t, []string{"one", "two"}, wrapText("one\ntwo", 20))
}

func TestVersionCommandJSON(t *testing.T) {
	root := NewStandardCommand("carbon", "Race")
	root.AddCommand(NewVersionCommand("carbon", version.Info{Version: "1.2.3", Commit: "abc"}))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), `"version": "1.2.3"`)
}
