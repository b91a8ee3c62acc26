package clip

import "github.com/Carmen-Shannon/oxy-anim/engine/animation/easing"

// ClipBuilderOption is a functional option for configuring a Clip.
type ClipBuilderOption func(*Clip)

// WithLife sets the life span of the clip in milliseconds.
// Values <= 0 are treated as DefaultLife.
//
// Parameters:
//   - life: the life span in milliseconds
//
// Returns:
//   - ClipBuilderOption: option function to apply
func WithLife(life float64) ClipBuilderOption {
	return func(c *Clip) {
		c.SetLife(life)
	}
}

// WithDelay sets how long the clip waits after its first step before progress starts.
//
// Parameters:
//   - delay: the delay in milliseconds
//
// Returns:
//   - ClipBuilderOption: option function to apply
func WithDelay(delay float64) ClipBuilderOption {
	return func(c *Clip) {
		c.delay = delay
	}
}

// WithLoop makes the clip restart every time it reaches the end.
//
// Parameters:
//   - loop: true to loop forever
//
// Returns:
//   - ClipBuilderOption: option function to apply
func WithLoop(loop bool) ClipBuilderOption {
	return func(c *Clip) {
		c.SetLoop(loop)
	}
}

// WithLoopCount makes the clip restart n times before finishing.
// n <= 0 disables looping.
//
// Parameters:
//   - n: number of restarts
//
// Returns:
//   - ClipBuilderOption: option function to apply
func WithLoopCount(n int) ClipBuilderOption {
	return func(c *Clip) {
		c.loop = n > 0
		c.finiteLoop = n > 0
		c.loopCount = n
		c.loopsLeft = n
	}
}

// WithGap holds a looping clip at progress 0 for gap milliseconds after every restart.
// Negative values are treated as 0.
//
// Parameters:
//   - gap: the pause between loops in milliseconds
//
// Returns:
//   - ClipBuilderOption: option function to apply
func WithGap(gap float64) ClipBuilderOption {
	return func(c *Clip) {
		c.gap = max(gap, 0)
	}
}

// WithPlaybackRate scales how fast the clip consumes the global clock.
// Values <= 0 are treated as 1.
//
// Parameters:
//   - rate: the playback rate multiplier
//
// Returns:
//   - ClipBuilderOption: option function to apply
func WithPlaybackRate(rate float64) ClipBuilderOption {
	return func(c *Clip) {
		if rate <= 0 {
			rate = 1
		}
		c.rate = rate
	}
}

// WithEasing sets the easing applied to progress.
//
// Parameters:
//   - fn: the easing function, nil for linear
//
// Returns:
//   - ClipBuilderOption: option function to apply
func WithEasing(fn easing.Func) ClipBuilderOption {
	return func(c *Clip) {
		c.easing = fn
	}
}

// WithOnFrame sets the callback invoked once per step with the eased progress.
//
// Parameters:
//   - fn: the frame callback
//
// Returns:
//   - ClipBuilderOption: option function to apply
func WithOnFrame(fn FrameFunc) ClipBuilderOption {
	return func(c *Clip) {
		c.onFrame = fn
	}
}

// WithOnRestart sets the callback invoked every time a looping clip restarts.
//
// Parameters:
//   - fn: the restart callback
//
// Returns:
//   - ClipBuilderOption: option function to apply
func WithOnRestart(fn func()) ClipBuilderOption {
	return func(c *Clip) {
		c.onRestart = fn
	}
}

// WithOnDestroy sets the callback invoked once the scheduler discards the finished clip.
//
// Parameters:
//   - fn: the destroy callback
//
// Returns:
//   - ClipBuilderOption: option function to apply
func WithOnDestroy(fn func()) ClipBuilderOption {
	return func(c *Clip) {
		c.onDestroy = fn
	}
}

// WithName sets a descriptive name used in logs.
//
// Parameters:
//   - name: the clip name
//
// Returns:
//   - ClipBuilderOption: option function to apply
func WithName(name string) ClipBuilderOption {
	return func(c *Clip) {
		c.name = name
	}
}
