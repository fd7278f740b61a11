package race

import "math"

// FrameHandle identifies one run of the scale animation. Zero means no
// frame is wanted.
type FrameHandle uint64

// ScaleAnimator eases the displayed scale maximum toward its target by a
// fixed fraction of the remaining gap per frame.
type ScaleAnimator struct {
	displayed float64
	target    float64
	smoothing float64
	epsilon   float64

	current FrameHandle
	active  bool
}

// NewScaleAnimator starts with a displayed value of 1.
func NewScaleAnimator(smoothing, epsilon float64) *ScaleAnimator {
	return &ScaleAnimator{
		displayed: 1,
		target:    1,
		smoothing: smoothing,
		epsilon:   epsilon,
	}
}

// Retarget cancels the running animation, sets a new target (floored at 1)
// and takes the first step immediately. It returns the handle the next
// frame must present, or zero when the value already converged.
func (a *ScaleAnimator) Retarget(target float64) FrameHandle {
	a.Cancel()
	a.target = math.Max(target, 1)
	a.current++
	a.active = true
	if !a.step() {
		return 0
	}
	return a.current
}

// Step advances one frame of the animation identified by h. Frames from a
// superseded or cancelled run are ignored. It reports whether another frame
// is wanted.
func (a *ScaleAnimator) Step(h FrameHandle) bool {
	if h == 0 || h != a.current || !a.active {
		return false
	}
	return a.step()
}

// Cancel stops the running animation where it is.
func (a *ScaleAnimator) Cancel() {
	a.active = false
}

func (a *ScaleAnimator) step() bool {
	diff := a.target - a.displayed
	if math.Abs(diff) < a.epsilon {
		a.displayed = a.target
		a.active = false
		return false
	}
	a.displayed += diff * a.smoothing
	return true
}

// Value is the displayed maximum.
func (a *ScaleAnimator) Value() float64 { return a.displayed }

// Target is the value being converged to.
func (a *ScaleAnimator) Target() float64 { return a.target }

// Active reports whether frames are still wanted.
func (a *ScaleAnimator) Active() bool { return a.active }
