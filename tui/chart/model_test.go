package chart

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/carbon/pkg/models"
	"github.com/grovetools/carbon/race"
	"github.com/grovetools/carbon/tui/theme"
)

type fakeLoader struct {
	result *race.LoadResult
	err    error
}

func (f fakeLoader) Load(ctx context.Context) (*race.LoadResult, error) {
	return f.result, f.err
}

func rec(year int, carbon float64) models.YearRecord {
	return models.YearRecord{Year: year, Carbon: models.Float(carbon)}
}

// swapResult has France ahead in 2000 and Brazil ahead in 2001.
func swapResult() *race.LoadResult {
	store := race.NewStore()
	store.Set("France", models.Series{rec(2000, 5), rec(2001, 1)})
	store.Set("Brazil", models.Series{rec(2000, 2), rec(2001, 3)})
	return &race.LoadResult{Store: store, MinYear: 2000, MaxYear: 2001}
}

func newModel(t *testing.T, loader Loader) (*Model, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	logger, _ := logtest.NewNullLogger()
	engine := race.NewEngine(race.Options{Clock: clock, Logger: logrus.NewEntry(logger)})
	m := New(context.Background(), Options{
		Engine: engine,
		Loader: loader,
		Clock:  clock,
		Theme:  theme.NewThemeWithName("terminal"),
	})
	t.Cleanup(m.shutdown)
	return m, clock
}

func press(m *Model, k string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return cmd
}

func TestLoadingView(t *testing.T) {
	m, _ := newModel(t, fakeLoader{result: swapResult()})
	require.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Loading emissions data")
}

func TestLoadCommandCallsLoader(t *testing.T) {
	result := swapResult()
	m, _ := newModel(t, fakeLoader{result: result})

	msg := m.load()()
	loaded, ok := msg.(loadedMsg)
	require.True(t, ok)
	assert.Same(t, result, loaded.result)
	assert.NoError(t, loaded.err)
}

func TestLoadedStartsRace(t *testing.T) {
	m, _ := newModel(t, nil)

	_, cmd := m.Update(loadedMsg{result: swapResult()})
	assert.NotNil(t, cmd)
	assert.Equal(t, race.Running, m.Engine().State())
	assert.Equal(t, []string{"France", "Brazil"}, m.surface.IDs())

	view := m.View()
	assert.Contains(t, view, "2000")
	assert.Contains(t, view, "France")
	assert.Contains(t, view, "Brazil")
	assert.Contains(t, view, "5.00")
	assert.Contains(t, view, "2 countries, 2000-2001")
}

func TestYearTickAnimatesReorder(t *testing.T) {
	m, clock := newModel(t, nil)
	m.Update(loadedMsg{result: swapResult()})

	_, cmd := m.Update(yearTickMsg(clock.Now()))
	require.NotNil(t, cmd)
	assert.Equal(t, 2001, m.Engine().CurrentYear())
	assert.Equal(t, []string{"Brazil", "France"}, m.surface.IDs())
	assert.True(t, m.Engine().Flip().Animating())

	// Rows are still drawn in the old order until the slide plays out.
	assert.Equal(t, []string{"France", "Brazil"}, m.surface.Order())

	_, cmd = m.Update(flipPlayMsg{})
	assert.NotNil(t, cmd)
	clock.Advance(time.Second)
	assert.Equal(t, []string{"Brazil", "France"}, m.surface.Order())

	_, cmd = m.Update(flipFrameMsg{})
	assert.Nil(t, cmd)

	m.Update(settleMsg{})
	assert.False(t, m.Engine().Flip().Animating())
}

func TestYearTickWrapsAround(t *testing.T) {
	m, clock := newModel(t, nil)
	m.Update(loadedMsg{result: swapResult()})

	m.Update(yearTickMsg(clock.Now()))
	m.Update(settleMsg{})
	m.Update(yearTickMsg(clock.Now()))
	assert.Equal(t, 2000, m.Engine().CurrentYear())
}

func TestYearTickIgnoredBeforeLoad(t *testing.T) {
	m, clock := newModel(t, nil)
	_, cmd := m.Update(yearTickMsg(clock.Now()))
	assert.Nil(t, cmd)
	assert.Equal(t, race.Idle, m.Engine().State())
}

func TestFailedLoadShowsEmptyChart(t *testing.T) {
	m, _ := newModel(t, nil)

	_, cmd := m.Update(loadedMsg{err: fmt.Errorf("roster down")})
	assert.Nil(t, cmd)
	assert.False(t, m.Engine().Loading())
	assert.Equal(t, race.Idle, m.Engine().State())
	assert.Error(t, m.Err())

	view := m.View()
	assert.Contains(t, view, "No emissions data to show")
	assert.Contains(t, view, "Could not load the country list")
}

func TestFailedCountriesInFooter(t *testing.T) {
	m, _ := newModel(t, nil)
	result := swapResult()
	result.Failed = []string{"33"}

	m.Update(loadedMsg{result: result})
	assert.Contains(t, m.View(), "1 country failed to load")
}

func TestQuitStopsEngine(t *testing.T) {
	m, _ := newModel(t, nil)
	m.Update(loadedMsg{result: swapResult()})

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, race.Stopped, m.Engine().State())
	assert.Error(t, m.ctx.Err())
}

func TestHelpToggle(t *testing.T) {
	m, _ := newModel(t, nil)
	press(m, "?")
	assert.True(t, m.help.ShowAll)
	press(m, "?")
	assert.False(t, m.help.ShowAll)
}

func TestThemeMessageSwapsPalette(t *testing.T) {
	m, _ := newModel(t, nil)

	_, cmd := m.Update(themeMsg("gruvbox"))
	assert.Nil(t, cmd)
	gruvbox := theme.NewThemeWithName("gruvbox")
	assert.Equal(t, gruvbox.BarColors[0], m.Engine().Color(0))
	assert.Equal(t, "gruvbox", m.theme.Name)
}

func TestThemeChannel(t *testing.T) {
	themes := make(chan string, 1)
	clock := clockwork.NewFakeClock()
	m := New(context.Background(), Options{
		Engine: race.NewEngine(race.Options{Clock: clock}),
		Clock:  clock,
		Themes: themes,
	})
	defer m.shutdown()

	themes <- "kanagawa"
	assert.Equal(t, themeMsg("kanagawa"), m.waitForTheme()())
}

func TestBarCells(t *testing.T) {
	tests := []struct {
		name       string
		value, max float64
		want       int
	}{
		{"full", 10, 10, 60},
		{"half", 5, 10, 30},
		{"zero max", 5, 0, 0},
		{"negative", -1, 10, 0},
		{"overshoot clamps", 20, 10, 60},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, barCells(tc.value, tc.max, 60))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "France", truncate("France", 10))
	assert.Equal(t, "Unit…", truncate("United States", 5))
}

func TestRenderBarsFollowsOrder(t *testing.T) {
	visible := []models.VisibleEntry{{Country: "France", Carbon: 4}, {Country: "Brazil", Carbon: 2}}
	colors := func(rank int) string { return race.DefaultPalette[rank] }

	out := RenderBars(theme.NewThemeWithName("terminal"), visible, []string{"Brazil", "Chile", "France"}, colors, 4, 8)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Brazil"))
	assert.Contains(t, lines[0], "████ 2.00")
	assert.Contains(t, lines[1], "████████ 4.00")
}
