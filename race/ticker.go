package race

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// State is the lifecycle of the year ticker.
type State int

const (
	// Idle: the store is not populated yet and no timer exists.
	Idle State = iota
	// Running: the timer fires every period.
	Running
	// Stopped: torn down. Terminal.
	Stopped
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Ticker is the periodic year timer. It only produces ticks; whoever owns
// the engine reads C and calls Engine.Tick on its own goroutine.
type Ticker struct {
	clock  clockwork.Clock
	period time.Duration
	state  State
	ticker clockwork.Ticker
}

// NewTicker creates an Idle ticker.
func NewTicker(clock clockwork.Clock, period time.Duration) *Ticker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Ticker{clock: clock, period: period}
}

// Start moves Idle to Running. It reports false in any other state, so the
// timer is created at most once.
func (t *Ticker) Start() bool {
	if t.state != Idle {
		return false
	}
	t.ticker = t.clock.NewTicker(t.period)
	t.state = Running
	return true
}

// C delivers ticks while Running. It is nil before Start.
func (t *Ticker) C() <-chan time.Time {
	if t.ticker == nil {
		return nil
	}
	return t.ticker.Chan()
}

// Stop cancels the timer. Safe to call in any state.
func (t *Ticker) Stop() {
	if t.ticker != nil {
		t.ticker.Stop()
	}
	t.state = Stopped
}

// State returns the lifecycle state.
func (t *Ticker) State() State { return t.state }

// Period is the time between ticks.
func (t *Ticker) Period() time.Duration { return t.period }
