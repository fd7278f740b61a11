// Package chart renders the emissions race in the terminal with bubbletea.
// The Model is the single owner of the race engine: load results, year
// ticks and animation frames all arrive as messages through Update.
package chart

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/grovetools/carbon/race"
	"github.com/grovetools/carbon/tui/keymap"
	"github.com/grovetools/carbon/tui/theme"
)

// Loader produces the store for a session. *race.Loader implements it.
type Loader interface {
	Load(ctx context.Context) (*race.LoadResult, error)
}

// Options configures a Model.
type Options struct {
	Engine *race.Engine
	Loader Loader
	Keys   keymap.Base
	Theme  *theme.Theme
	// BarWidth is the length in cells of the longest bar.
	BarWidth      int
	FrameInterval time.Duration
	// Clock drives the row slide animation. Defaults to the real clock.
	Clock clockwork.Clock
	// Themes delivers theme names picked up from config reloads.
	Themes <-chan string
}

type loadedMsg struct {
	result *race.LoadResult
	err    error
}

type yearTickMsg time.Time

type scaleFrameMsg struct{ handle race.FrameHandle }

type flipPlayMsg struct{}

type flipFrameMsg struct{}

type settleMsg struct{}

type themeMsg string

// Model is the race screen.
type Model struct {
	engine  *race.Engine
	loader  Loader
	surface *TerminalSurface
	keys    keymap.Base
	help    help.Model
	spinner spinner.Model
	theme   *theme.Theme
	themes  <-chan string

	barWidth      int
	frameInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	width, height int
	failed        int
	err           error
}

// New creates the race model. Cancelling ctx aborts an in-flight load.
func New(ctx context.Context, opts Options) *Model {
	if opts.Engine == nil {
		opts.Engine = race.NewEngine(race.Options{})
	}
	if opts.Theme == nil {
		opts.Theme = theme.DefaultTheme
	}
	if opts.BarWidth <= 0 {
		opts.BarWidth = 60
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 16 * time.Millisecond
	}
	if opts.Keys.Quit.Keys() == nil {
		opts.Keys = keymap.NewBase()
	}

	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = opts.Theme.Accent

	m := &Model{
		engine:        opts.Engine,
		loader:        opts.Loader,
		surface:       NewTerminalSurface(opts.Clock),
		keys:          opts.Keys,
		help:          help.New(),
		spinner:       s,
		theme:         opts.Theme,
		themes:        opts.Themes,
		barWidth:      opts.BarWidth,
		frameInterval: opts.FrameInterval,
		ctx:           ctx,
		cancel:        cancel,
	}
	m.engine.SetPalette(opts.Theme.BarColors)
	return m
}

// Init starts the spinner, the load and the theme listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.load(),
		m.waitForTheme(),
	)
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		if m.loader == nil {
			return loadedMsg{}
		}
		result, err := m.loader.Load(m.ctx)
		return loadedMsg{result: result, err: err}
	}
}

func (m *Model) waitForYear() tea.Cmd {
	ticks := m.engine.Ticks()
	if ticks == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case t := <-ticks:
			return yearTickMsg(t)
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) waitForTheme() tea.Cmd {
	if m.themes == nil {
		return nil
	}
	themes, ctx := m.themes, m.ctx
	return func() tea.Msg {
		select {
		case name, ok := <-themes:
			if !ok {
				return nil
			}
			return themeMsg(name)
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) scaleFrame(h race.FrameHandle) tea.Cmd {
	if h == 0 {
		return nil
	}
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg {
		return scaleFrameMsg{handle: h}
	})
}

func (m *Model) flipFrame() tea.Cmd {
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg {
		return flipFrameMsg{}
	})
}

// Update implements tea.Model. It is the only place the engine is mutated.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.shutdown()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.engine.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		return m, m.applyLoad(msg)

	case yearTickMsg:
		return m, m.advance()

	case scaleFrameMsg:
		if m.engine.StepScale(msg.handle) {
			return m, m.scaleFrame(msg.handle)
		}
		return m, nil

	case flipPlayMsg:
		if !m.engine.Flip().Animating() {
			return m, nil
		}
		m.engine.Flip().Play(m.surface)
		return m, m.flipFrame()

	case flipFrameMsg:
		if m.surface.Animating() {
			return m, m.flipFrame()
		}
		return m, nil

	case settleMsg:
		m.engine.Flip().Settle()
		return m, nil

	case themeMsg:
		m.SetTheme(theme.NewThemeWithName(string(msg)))
		return m, m.waitForTheme()
	}

	return m, nil
}

func (m *Model) applyLoad(msg loadedMsg) tea.Cmd {
	m.err = msg.err
	if msg.result != nil {
		m.failed = len(msg.result.Failed)
	}

	h, ok := m.engine.Apply(msg.result, msg.err)
	if !ok {
		return nil
	}
	m.surface.Layout(race.IDs(m.engine.Visible()))
	return tea.Batch(m.scaleFrame(h), m.waitForYear())
}

// advance runs one year step wrapped in the rank transition: positions are
// captured, the snapshot recomputed, the new order laid out, and moved rows
// inverted so they can slide on the next frame.
func (m *Model) advance() tea.Cmd {
	if m.engine.State() != race.Running {
		return nil
	}
	flip := m.engine.Flip()

	flip.OnBeforeUpdate(m.surface, m.surface.IDs())
	h := m.engine.Tick()
	ids := race.IDs(m.engine.Visible())
	m.surface.Layout(ids)

	cmds := []tea.Cmd{m.waitForYear(), m.scaleFrame(h)}
	if flip.OnAfterUpdate(m.surface, ids) {
		cmds = append(cmds,
			tea.Tick(m.frameInterval, func(time.Time) tea.Msg { return flipPlayMsg{} }),
			tea.Tick(flip.SettleDelay(), func(time.Time) tea.Msg { return settleMsg{} }),
		)
	}
	return tea.Batch(cmds...)
}

func (m *Model) shutdown() {
	m.engine.Stop()
	m.cancel()
}

// SetTheme restyles the chart and swaps the bar palette.
func (m *Model) SetTheme(t *theme.Theme) {
	m.theme = t
	m.spinner.Style = t.Accent
	m.engine.SetPalette(t.BarColors)
}

// Engine exposes the race engine, for commands that report on it after the
// program exits.
func (m *Model) Engine() *race.Engine { return m.engine }

// Err is the load error, if any.
func (m *Model) Err() error { return m.err }
