package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/easing"
)

// KeyframeAnimatorBuilderOption is a functional option for configuring a KeyframeAnimator.
type KeyframeAnimatorBuilderOption func(*keyframeAnimator)

// WithLoop makes the animation restart every time it ends.
//
// Parameters:
//   - loop: true to loop
//
// Returns:
//   - KeyframeAnimatorBuilderOption: option function to apply
func WithLoop(loop bool) KeyframeAnimatorBuilderOption {
	return func(a *keyframeAnimator) {
		a.loop = loop
	}
}

// WithAllowDiscrete lets tracks that cannot be interpolated snap between values over time
// instead of jumping straight to their final value on Start.
//
// Parameters:
//   - allow: true to play discrete tracks
//
// Returns:
//   - KeyframeAnimatorBuilderOption: option function to apply
func WithAllowDiscrete(allow bool) KeyframeAnimatorBuilderOption {
	return func(a *keyframeAnimator) {
		a.allowDiscrete = allow
	}
}

// WithAdditiveTo makes the animator additive on top of the given base animators. Its tracks
// start from the bases' final values and add their change onto the live target value.
// When several bases animate the same property the last one wins.
//
// Parameters:
//   - bases: the animators this one adds onto
//
// Returns:
//   - KeyframeAnimatorBuilderOption: option function to apply
func WithAdditiveTo(bases ...KeyframeAnimator) KeyframeAnimatorBuilderOption {
	return func(a *keyframeAnimator) {
		for _, b := range bases {
			if b != nil {
				a.additive = append(a.additive, b)
			}
		}
	}
}

// WithScheduler sets the scheduler the animator's clip is registered with on Start.
//
// Parameters:
//   - s: the scheduler, usually a Timeline
//
// Returns:
//   - KeyframeAnimatorBuilderOption: option function to apply
func WithScheduler(s clip.Scheduler) KeyframeAnimatorBuilderOption {
	return func(a *keyframeAnimator) {
		a.scheduler = s
	}
}

// WithSpline interpolates numeric tracks with Catmull-Rom splines instead of straight lines.
//
// Parameters:
//   - spline: true for spline interpolation
//
// Returns:
//   - KeyframeAnimatorBuilderOption: option function to apply
func WithSpline(spline bool) KeyframeAnimatorBuilderOption {
	return func(a *keyframeAnimator) {
		a.spline = spline
	}
}

// WithDelay sets the delay before the clip starts progressing.
//
// Parameters:
//   - ms: delay in milliseconds
//
// Returns:
//   - KeyframeAnimatorBuilderOption: option function to apply
func WithDelay(ms float64) KeyframeAnimatorBuilderOption {
	return func(a *keyframeAnimator) {
		a.delay = ms
	}
}

// WithDefaultEasing sets the easing used when Start is called with a nil easing.
//
// Parameters:
//   - fn: the easing
//
// Returns:
//   - KeyframeAnimatorBuilderOption: option function to apply
func WithDefaultEasing(fn easing.Func) KeyframeAnimatorBuilderOption {
	return func(a *keyframeAnimator) {
		a.defaultEasing = fn
	}
}
