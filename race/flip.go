package race

import "time"

// Rect is an item's on-screen box in surface units.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Transition says how a surface moves an item to a new offset. A zero
// Duration snaps.
type Transition struct {
	Duration time.Duration
	Easing   string
}

// Surface is the rendering layer's view of ranked items. The animator
// reads positions and writes offsets through it and never draws itself.
type Surface interface {
	// Measure reports where the item currently sits, without any offset
	// applied. ok is false when the item is not rendered.
	Measure(id string) (Rect, bool)
	// ApplyTransform offsets the item by (dx, dy) from its natural
	// position, moving there as described by t.
	ApplyTransform(id string, dx, dy float64, t Transition)
}

// EaseTransition is the slide back to natural layout.
const EaseTransition = "ease"

// FlipAnimator slides reordered items from their old rank to their new one
// (First, Last, Invert, Play). The owner drives it around each layout
// change:
//
//	OnBeforeUpdate  while the previous order is still laid out
//	OnAfterUpdate   once the new order is laid out; true means a pass started
//	Play            on the next frame after a pass started
//	Settle          SettleDelay after a pass started
type FlipAnimator struct {
	transition  time.Duration
	settleDelay time.Duration

	previous  map[string]Rect
	inverted  []string
	animating bool
}

// NewFlipAnimator creates an animator. settleDelay should exceed transition
// so a pass finishes before the next may start.
func NewFlipAnimator(transition, settleDelay time.Duration) *FlipAnimator {
	return &FlipAnimator{
		transition:  transition,
		settleDelay: settleDelay,
		previous:    make(map[string]Rect),
	}
}

// OnBeforeUpdate records where the given items are before the layout
// changes, discarding positions from any earlier update.
func (f *FlipAnimator) OnBeforeUpdate(s Surface, ids []string) {
	clear(f.previous)
	for _, id := range ids {
		if r, ok := s.Measure(id); ok {
			f.previous[id] = r
		}
	}
}

// OnAfterUpdate measures the new layout and snaps every item present in
// both layouts back to its old position. While a pass is animating the
// update is skipped. With nothing rendered yet it does nothing.
func (f *FlipAnimator) OnAfterUpdate(s Surface, ids []string) bool {
	if f.animating {
		return false
	}
	f.animating = true

	if len(ids) == 0 || len(f.previous) == 0 {
		clear(f.previous)
		f.animating = false
		return false
	}

	f.inverted = f.inverted[:0]
	for _, id := range ids {
		newRect, ok := s.Measure(id)
		if !ok {
			continue
		}
		oldRect, ok := f.previous[id]
		if !ok {
			continue
		}
		dx := oldRect.X - newRect.X
		dy := oldRect.Y - newRect.Y
		s.ApplyTransform(id, dx, dy, Transition{})
		f.inverted = append(f.inverted, id)
	}

	clear(f.previous)
	return true
}

// Play releases the inverted items so they slide to their natural position.
func (f *FlipAnimator) Play(s Surface) {
	for _, id := range f.inverted {
		s.ApplyTransform(id, 0, 0, Transition{Duration: f.transition, Easing: EaseTransition})
	}
	f.inverted = f.inverted[:0]
}

// Settle ends the pass so the next update may animate.
func (f *FlipAnimator) Settle() {
	f.animating = false
}

// Reset drops all state, for teardown.
func (f *FlipAnimator) Reset() {
	clear(f.previous)
	f.inverted = f.inverted[:0]
	f.animating = false
}

// Animating reports whether a pass is in flight and later passes are skipped.
func (f *FlipAnimator) Animating() bool { return f.animating }

// SettleDelay is how long after a pass the gate reopens.
func (f *FlipAnimator) SettleDelay() time.Duration { return f.settleDelay }

// TransitionDuration is the length of the slide back to natural layout.
func (f *FlipAnimator) TransitionDuration() time.Duration { return f.transition }
