package race

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerLifecycle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ticker := NewTicker(clock, time.Second)

	assert.Equal(t, Idle, ticker.State())
	assert.Nil(t, ticker.C())

	require.True(t, ticker.Start())
	assert.Equal(t, Running, ticker.State())
	assert.False(t, ticker.Start(), "timer is created once")

	clock.Advance(time.Second)
	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Fatal("expected a tick after one period")
	}

	ticker.Stop()
	assert.Equal(t, Stopped, ticker.State())
	assert.False(t, ticker.Start())

	clock.Advance(5 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("stopped ticker must not fire")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTickerStopWhileIdle(t *testing.T) {
	ticker := NewTicker(clockwork.NewFakeClock(), time.Second)
	ticker.Stop()
	assert.Equal(t, Stopped, ticker.State())
	assert.Equal(t, "stopped", ticker.State().String())
}
