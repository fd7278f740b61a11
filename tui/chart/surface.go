package chart

import (
	"math"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/grovetools/carbon/race"
)

// offset is a vertical displacement sliding from -> to over duration.
type offset struct {
	from, to float64
	start    time.Time
	duration time.Duration
}

// TerminalSurface lays ranked bars out one per row and animates vertical
// offsets applied through race.Surface. Rows are addressed in row units, so
// an item at rank r sits at Y = r*rowHeight.
type TerminalSurface struct {
	clock     clockwork.Clock
	rowHeight float64
	rows      map[string]int
	order     []string
	offsets   map[string]offset
}

var _ race.Surface = (*TerminalSurface)(nil)

// NewTerminalSurface creates an empty surface.
func NewTerminalSurface(clock clockwork.Clock) *TerminalSurface {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TerminalSurface{
		clock:     clock,
		rowHeight: 1,
		rows:      make(map[string]int),
		offsets:   make(map[string]offset),
	}
}

// Layout installs a new natural order. Offsets of items that left the
// layout are dropped; the others keep animating from where they are.
func (s *TerminalSurface) Layout(ids []string) {
	clear(s.rows)
	s.order = append(s.order[:0], ids...)
	for i, id := range ids {
		s.rows[id] = i
	}
	for id := range s.offsets {
		if _, ok := s.rows[id]; !ok {
			delete(s.offsets, id)
		}
	}
}

// Measure returns the natural box of id.
func (s *TerminalSurface) Measure(id string) (race.Rect, bool) {
	row, ok := s.rows[id]
	if !ok {
		return race.Rect{}, false
	}
	return race.Rect{
		Y:      float64(row) * s.rowHeight,
		Width:  1,
		Height: s.rowHeight,
	}, true
}

// ApplyTransform moves id towards a dy offset. Bars never move
// horizontally, so dx is ignored. An animated move starts from the offset
// currently shown, which keeps motion continuous when a slide is replaced.
func (s *TerminalSurface) ApplyTransform(id string, dx, dy float64, t race.Transition) {
	if _, ok := s.rows[id]; !ok {
		return
	}
	if t.Duration <= 0 {
		s.offsets[id] = offset{from: dy, to: dy}
		return
	}
	s.offsets[id] = offset{
		from:     s.OffsetY(id),
		to:       dy,
		start:    s.clock.Now(),
		duration: t.Duration,
	}
}

// OffsetY is the vertical offset of id at the current instant.
func (s *TerminalSurface) OffsetY(id string) float64 {
	o, ok := s.offsets[id]
	if !ok {
		return 0
	}
	if o.duration <= 0 {
		return o.to
	}
	elapsed := s.clock.Since(o.start)
	if elapsed >= o.duration {
		return o.to
	}
	p := float64(elapsed) / float64(o.duration)
	return o.from + (o.to-o.from)*ease(p)
}

// EffectiveY is where id is drawn: natural position plus offset.
func (s *TerminalSurface) EffectiveY(id string) float64 {
	r, ok := s.Measure(id)
	if !ok {
		return 0
	}
	return r.Y + s.OffsetY(id)
}

// Animating reports whether any item is displaced from its natural row.
func (s *TerminalSurface) Animating() bool {
	for id := range s.offsets {
		if s.OffsetY(id) != 0 {
			return true
		}
	}
	return false
}

// IDs returns the natural order.
func (s *TerminalSurface) IDs() []string {
	return slices.Clone(s.order)
}

// Order returns the items sorted by where they are drawn right now. Items
// passing each other keep their natural order when level.
func (s *TerminalSurface) Order() []string {
	out := slices.Clone(s.order)
	ys := make(map[string]float64, len(out))
	for _, id := range out {
		ys[id] = s.EffectiveY(id)
	}
	slices.SortStableFunc(out, func(a, b string) int {
		switch ya, yb := ys[a], ys[b]; {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		}
		return 0
	})
	return out
}

// ease is the cubic-bezier(0.25, 0.1, 0.25, 1) timing curve.
func ease(p float64) float64 {
	const x1, y1, x2, y2 = 0.25, 0.1, 0.25, 1.0
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}

	bezier := func(t, a, b float64) float64 {
		u := 1 - t
		return 3*u*u*t*a + 3*u*t*t*b + t*t*t
	}
	slope := func(t, a, b float64) float64 {
		u := 1 - t
		return 3*u*u*a + 6*u*t*(b-a) + 3*t*t*(1-b)
	}

	// Solve x(t) = p with Newton steps, falling back to bisection.
	t := p
	for range 8 {
		d := slope(t, x1, x2)
		if math.Abs(d) < 1e-6 {
			break
		}
		x := bezier(t, x1, x2) - p
		if math.Abs(x) < 1e-7 {
			return bezier(t, y1, y2)
		}
		t -= x / d
	}
	lo, hi := 0.0, 1.0
	t = p
	for range 32 {
		x := bezier(t, x1, x2)
		if math.Abs(x-p) < 1e-7 {
			break
		}
		if x < p {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return bezier(t, y1, y2)
}
