package race

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/carbon/pkg/models"
)

// DefaultPalette is used when no palette is configured.
var DefaultPalette = []string{
	"#7E9CD8", "#98BB6C", "#FFA066", "#957FB8", "#FF5D62",
	"#7FB4CA", "#D27E99", "#E6C384", "#6A9589", "#C0A36E",
	"#A3D4D5", "#E46876", "#938AA9", "#76946A", "#DCA561",
}

// Options configures an Engine. Zero values take the defaults.
type Options struct {
	Clock        clockwork.Clock
	TickInterval time.Duration
	Smoothing    float64
	Epsilon      float64
	Transition   time.Duration
	SettleDelay  time.Duration
	Palette      []string
	Logger       *logrus.Entry
}

func (o *Options) setDefaults() {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.Smoothing <= 0 {
		o.Smoothing = 0.1
	}
	if o.Epsilon <= 0 {
		o.Epsilon = 0.01
	}
	if o.Transition <= 0 {
		o.Transition = 800 * time.Millisecond
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = 900 * time.Millisecond
	}
	if len(o.Palette) == 0 {
		o.Palette = DefaultPalette
	}
	if o.Logger == nil {
		o.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
}

// Engine holds the race state: the store, the year cursor and its ticker,
// the ranked snapshot and the animators.
//
// An Engine is not safe for concurrent use. It belongs to one event loop
// (the bubbletea Update function, or the serve loop) which feeds it the
// load result, ticks and animation frames as messages.
type Engine struct {
	store   *Store
	cursor  Cursor
	ticker  *Ticker
	scale   *ScaleAnimator
	flip    *FlipAnimator
	visible []models.VisibleEntry
	palette []string
	loading bool
	logger  *logrus.Entry
}

// NewEngine returns an Idle engine that is loading.
func NewEngine(opts Options) *Engine {
	opts.setDefaults()
	return &Engine{
		store:   NewStore(),
		ticker:  NewTicker(opts.Clock, opts.TickInterval),
		scale:   NewScaleAnimator(opts.Smoothing, opts.Epsilon),
		flip:    NewFlipAnimator(opts.Transition, opts.SettleDelay),
		palette: opts.Palette,
		loading: true,
		logger:  opts.Logger,
	}
}

// Apply consumes the outcome of Loader.Load. The loading flag is cleared on
// the first call only. On success the store is installed, the cursor set to
// the first year, the first snapshot computed and the ticker started. The
// returned handle drives the scale animation; ok reports whether the race
// started.
func (e *Engine) Apply(result *LoadResult, err error) (FrameHandle, bool) {
	if !e.loading {
		return 0, false
	}
	e.loading = false

	if err != nil || result == nil {
		return 0, false
	}
	if e.ticker.State() != Idle {
		return 0, false
	}

	e.store = result.Store
	e.cursor = NewCursor(result.MinYear, result.MaxYear)
	h := e.recompute()

	e.ticker.Start()
	e.logger.WithFields(logrus.Fields{
		"countries":  e.store.Len(),
		"min_year":   e.cursor.Min(),
		"max_year":   e.cursor.Max(),
		"from_cache": result.FromCache,
	}).Debug("Year ticker started")
	return h, true
}

// Tick advances the year, wrapping at the upper bound, and recomputes the
// snapshot. It is a no-op unless the ticker is running.
func (e *Engine) Tick() FrameHandle {
	if e.ticker.State() != Running {
		return 0
	}
	e.cursor.Advance()
	return e.recompute()
}

// StepScale advances the scale animation identified by h by one frame and
// reports whether another frame is wanted.
func (e *Engine) StepScale(h FrameHandle) bool {
	return e.scale.Step(h)
}

// Stop tears the race down: the ticker is cancelled and any in-flight
// animation is dropped.
func (e *Engine) Stop() {
	if e.ticker.State() == Running {
		e.logger.Debug("Year ticker stopped")
	}
	e.ticker.Stop()
	e.scale.Cancel()
	e.flip.Reset()
}

func (e *Engine) recompute() FrameHandle {
	e.visible = BuildSnapshot(e.store, e.cursor.Current())
	return e.scale.Retarget(MaxTarget(e.visible))
}

// SetPalette replaces the bar colors.
func (e *Engine) SetPalette(palette []string) {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	e.palette = palette
}

// Ticks delivers timer ticks while Running; nil otherwise.
func (e *Engine) Ticks() <-chan time.Time { return e.ticker.C() }

// Visible is the ranked snapshot for the current year.
func (e *Engine) Visible() []models.VisibleEntry { return e.visible }

// MaxCarbon is the current interpolated scale maximum.
func (e *Engine) MaxCarbon() float64 { return e.scale.Value() }

// Color cycles through the palette by rank.
func (e *Engine) Color(rank int) string {
	if rank < 0 {
		rank = -rank
	}
	return e.palette[rank%len(e.palette)]
}

// CurrentYear is the year of the visible snapshot.
func (e *Engine) CurrentYear() int { return e.cursor.Current() }

// MinYear is the first year of the race. Zero before a load.
func (e *Engine) MinYear() int { return e.cursor.Min() }

// MaxYear is the last year before the cursor wraps. Zero before a load.
func (e *Engine) MaxYear() int { return e.cursor.Max() }

// Loading reports whether the load result has not arrived yet.
func (e *Engine) Loading() bool { return e.loading }

// State is the ticker state.
func (e *Engine) State() State { return e.ticker.State() }

// Store returns the installed emissions store.
func (e *Engine) Store() *Store { return e.store }

// Flip is the rank transition animator the rendering layer drives.
func (e *Engine) Flip() *FlipAnimator { return e.flip }

// TickInterval is the year period.
func (e *Engine) TickInterval() time.Duration { return e.ticker.Period() }
