package join

import (
	"time"
)

// Lerp interpolates between two values at t in [0, 1].
type Lerp[V any] func(a, b V, t float64) V

// Float interpolates a single number.
func Float(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Transition animates marks linearly from From to To over Duration.
// A zero Duration jumps straight to To.
type Transition[V any] struct {
	Duration time.Duration
	Lerp     Lerp[V]
}

// Progress converts elapsed time into a clamped fraction of the transition.
func (tr Transition[V]) Progress(elapsed time.Duration) float64 {
	if tr.Duration <= 0 {
		return 1
	}
	return Clamp(float64(elapsed) / float64(tr.Duration))
}

// At samples a mark elapsed time into the transition.
func (tr Transition[V]) At(from, to V, elapsed time.Duration) V {
	return tr.Sample(from, to, tr.Progress(elapsed))
}

// Sample interpolates at fraction t, clamped to [0, 1].
func (tr Transition[V]) Sample(from, to V, t float64) V {
	t = Clamp(t)
	if t == 1 || tr.Lerp == nil {
		return to
	}
	if t == 0 {
		return from
	}
	return tr.Lerp(from, to, t)
}

// Clamp limits t to [0, 1]. NaN clamps to 1.
func Clamp(t float64) float64 {
	switch {
	case t != t:
		return 1
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// ExitPolicy decides how exiting marks leave the scene.
type ExitPolicy struct {
	Fade time.Duration
}

// Remove deletes exiting marks immediately.
var Remove = ExitPolicy{}

// Fade fades exiting marks out over d before removing them.
func Fade(d time.Duration) ExitPolicy {
	return ExitPolicy{Fade: d}
}

// Opacity is the opacity of an exiting mark elapsed time after the pass.
// It returns 0 once the mark should be gone.
func (p ExitPolicy) Opacity(elapsed time.Duration) float64 {
	if p.Fade <= 0 {
		return 0
	}
	return 1 - Clamp(float64(elapsed)/float64(p.Fade))
}

// Done reports whether an exiting mark can be deleted.
func (p ExitPolicy) Done(elapsed time.Duration) bool {
	return elapsed >= p.Fade
}
