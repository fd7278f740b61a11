package race

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/carbon/pkg/models"
)

func newTestEngine(clock clockwork.Clock) *Engine {
	logger, _ := testLogger()
	return NewEngine(Options{Clock: clock, Logger: logger})
}

func TestEngineStartsOnlyAfterLoad(t *testing.T) {
	e := newTestEngine(clockwork.NewFakeClock())

	assert.True(t, e.Loading())
	assert.Equal(t, Idle, e.State())
	assert.Nil(t, e.Ticks())
	assert.Equal(t, FrameHandle(0), e.Tick(), "ticks before start are ignored")
	assert.Equal(t, 1.0, e.MaxCarbon())
}

func TestEngineApplyError(t *testing.T) {
	e := newTestEngine(clockwork.NewFakeClock())

	_, ok := e.Apply(nil, errors.New("roster failed"))
	assert.False(t, ok)
	assert.False(t, e.Loading())
	assert.Equal(t, Idle, e.State())
	assert.Empty(t, e.Visible())

	// Loading flips once; a later result is not applied.
	_, ok = e.Apply(&LoadResult{Store: NewStore(), MinYear: 2000, MaxYear: 2001}, nil)
	assert.False(t, ok)
	assert.Equal(t, Idle, e.State())
}

func TestEngineCachedLoadStartsAtFirstYear(t *testing.T) {
	e := newTestEngine(clockwork.NewFakeClock())

	result := &LoadResult{
		Store:     storeOf("US", models.Series{rec(2000, 5)}),
		MinYear:   2000,
		MaxYear:   2010,
		FromCache: true,
	}
	h, ok := e.Apply(result, nil)
	require.True(t, ok)
	assert.False(t, e.Loading())
	assert.Equal(t, Running, e.State())
	assert.Equal(t, 2000, e.CurrentYear())
	assert.Equal(t, []models.VisibleEntry{{Country: "US", Carbon: 5}}, e.Visible())
	assert.NotZero(t, h, "scale animates from 1 toward 5")
	assert.NotNil(t, e.Ticks())
}

func TestEngineTickAdvancesAndWraps(t *testing.T) {
	e := newTestEngine(clockwork.NewFakeClock())
	store := storeOf(
		"US", models.Series{rec(2000, 10), rec(2001, 30)},
		"FR", models.Series{rec(2000, 20), rec(2001, 5), nullRec(2002)},
	)
	_, ok := e.Apply(&LoadResult{Store: store, MinYear: 2000, MaxYear: 2002}, nil)
	require.True(t, ok)
	assert.Equal(t, []string{"FR", "US"}, IDs(e.Visible()))

	e.Tick()
	assert.Equal(t, 2001, e.CurrentYear())
	assert.Equal(t, []string{"US", "FR"}, IDs(e.Visible()))

	e.Tick()
	assert.Equal(t, 2002, e.CurrentYear())
	assert.Empty(t, e.Visible())

	e.Tick()
	assert.Equal(t, 2000, e.CurrentYear())
	assert.Equal(t, []string{"FR", "US"}, IDs(e.Visible()))
}

func TestEngineScaleChasesSnapshot(t *testing.T) {
	e := newTestEngine(clockwork.NewFakeClock())
	store := storeOf("US", models.Series{rec(2000, 40), rec(2001, 2)})
	h, _ := e.Apply(&LoadResult{Store: store, MinYear: 2000, MaxYear: 2001}, nil)

	// A tick supersedes the in-flight animation.
	h2 := e.Tick()
	assert.False(t, e.StepScale(h))
	for e.StepScale(h2) {
	}
	assert.Equal(t, 2.0, e.MaxCarbon())
}

func TestEngineTickerDrivesTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	e := newTestEngine(clock)
	_, ok := e.Apply(&LoadResult{Store: NewStore(), MinYear: 1990, MaxYear: 1995}, nil)
	require.True(t, ok)

	clock.Advance(time.Second)
	select {
	case <-e.Ticks():
		e.Tick()
	case <-time.After(time.Second):
		t.Fatal("expected tick")
	}
	assert.Equal(t, 1991, e.CurrentYear())
}

func TestEngineStop(t *testing.T) {
	e := newTestEngine(clockwork.NewFakeClock())
	store := storeOf("US", models.Series{rec(2000, 100)})
	h, _ := e.Apply(&LoadResult{Store: store, MinYear: 2000, MaxYear: 2005}, nil)

	e.Stop()
	assert.Equal(t, Stopped, e.State())
	assert.False(t, e.StepScale(h))
	assert.Equal(t, FrameHandle(0), e.Tick())
	assert.Equal(t, 2000, e.CurrentYear())
}

func TestEngineColor(t *testing.T) {
	e := newTestEngine(clockwork.NewFakeClock())
	n := len(DefaultPalette)
	assert.Equal(t, DefaultPalette[0], e.Color(0))
	assert.Equal(t, DefaultPalette[1], e.Color(n+1))

	e.SetPalette([]string{"red", "blue"})
	assert.Equal(t, "red", e.Color(2))
	assert.Equal(t, "blue", e.Color(3))

	e.SetPalette(nil)
	assert.Equal(t, DefaultPalette[0], e.Color(0))
}
