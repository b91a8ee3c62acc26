// Package clip provides the time driver shared by every animation: a Clip turns an
// absolute timeline clock into eased, normalized progress and reports loop restarts
// and completion.
package clip

import (
	"math"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation/easing"
)

// DefaultLife is the life span in milliseconds used when a clip is built without a positive life.
const DefaultLife = 1000.0

// Scheduler owns the set of clips stepped by a shared clock.
// A Timeline is the canonical implementation.
type Scheduler interface {
	// AddClip registers c for stepping. Adding a clip twice has no effect.
	AddClip(c *Clip)

	// RemoveClip unregisters c. Unknown clips are ignored.
	RemoveClip(c *Clip)
}

// FrameFunc receives the eased progress of a clip and the elapsed time in milliseconds.
type FrameFunc func(schedule, elapsed float64)

// Clip is a single timed progress driver with a life span, an optional start delay,
// optional looping and a pause state. It knows nothing about what it animates.
//
// A Clip is not safe for concurrent use; it is stepped by exactly one scheduler.
type Clip struct {
	name string

	life  float64
	delay float64
	rate  float64

	loop       bool
	loopCount  int
	loopsLeft  int
	finiteLoop bool
	gap        float64

	easing easing.Func

	inited    bool
	startTime float64
	paused    bool
	pausedFor float64
	elapsed   float64

	finished  bool
	destroyed bool

	onFrame   FrameFunc
	onRestart func()
	onDestroy func()
}

// New creates a new Clip configured by the provided options.
//
// Parameters:
//   - options: variadic list of ClipBuilderOption functions to configure the clip
//
// Returns:
//   - *Clip: the configured clip, unstarted
func New(options ...ClipBuilderOption) *Clip {
	c := &Clip{
		life: DefaultLife,
		rate: 1,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Step advances the clip to globalTime. The first call fixes the start time at
// globalTime plus the delay. While paused the delta is banked so progress does not
// advance. Progress is clamped to [0, 1], so a clip still inside its delay reports 0.
// The frame callback fires at most once per call.
//
// Parameters:
//   - globalTime: the scheduler clock in milliseconds
//   - deltaTime: milliseconds elapsed since the previous tick
//
// Returns:
//   - bool: true once the clip has finished and can be removed
func (c *Clip) Step(globalTime, deltaTime float64) bool {
	if c.finished {
		return true
	}
	if !c.inited {
		c.startTime = globalTime + c.delay
		c.inited = true
	}
	if c.paused {
		c.pausedFor += deltaTime
		return false
	}

	elapsed := (globalTime - c.startTime - c.pausedFor) * c.rate
	c.elapsed = elapsed
	percent := math.Min(math.Max(elapsed/c.life, 0), 1)

	if c.onFrame != nil {
		c.onFrame(easing.Apply(c.easing, percent), elapsed)
	}

	if percent < 1 {
		return false
	}
	if c.loop && (!c.finiteLoop || c.loopsLeft > 0) {
		remainder := math.Mod(elapsed, c.life)
		c.startTime = globalTime - remainder/c.rate + c.gap
		c.pausedFor = 0
		if c.finiteLoop {
			c.loopsLeft--
		}
		if c.onRestart != nil {
			c.onRestart()
		}
		return false
	}
	c.finished = true
	return true
}

// Fire invokes the frame callback directly with the given progress, bypassing the clock.
//
// Parameters:
//   - percent: the progress value handed to the callback
//   - elapsed: the elapsed milliseconds handed to the callback
func (c *Clip) Fire(percent, elapsed float64) {
	if c.onFrame != nil {
		c.onFrame(percent, elapsed)
	}
}

// Destroy fires the destroy callback. Only the first call has an effect.
func (c *Clip) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	if c.onDestroy != nil {
		c.onDestroy()
	}
}

// Reset returns the clip to its unstarted state so it can be scheduled again.
// The configuration and callbacks are kept.
func (c *Clip) Reset() {
	c.inited = false
	c.startTime = 0
	c.paused = false
	c.pausedFor = 0
	c.elapsed = 0
	c.finished = false
	c.destroyed = false
	if c.finiteLoop {
		c.loopsLeft = c.loopCount
	}
}

// Clone returns an unstarted copy of the clip with the same configuration and callbacks.
func (c *Clip) Clone() *Clip {
	return &Clip{
		name:       c.name,
		life:       c.life,
		delay:      c.delay,
		rate:       c.rate,
		loop:       c.loop,
		loopCount:  c.loopCount,
		loopsLeft:  c.loopCount,
		finiteLoop: c.finiteLoop,
		gap:        c.gap,
		easing:     c.easing,
		onFrame:    c.onFrame,
		onRestart:  c.onRestart,
		onDestroy:  c.onDestroy,
	}
}

// Pause stops progress from advancing until Resume is called.
func (c *Clip) Pause() {
	c.paused = true
}

// Resume continues a paused clip from where it was paused.
func (c *Clip) Resume() {
	c.paused = false
}

// Paused reports whether the clip is paused.
func (c *Clip) Paused() bool {
	return c.paused
}

// Name returns the optional clip name.
func (c *Clip) Name() string {
	return c.name
}

// Life returns the life span in milliseconds.
func (c *Clip) Life() float64 {
	return c.life
}

// SetLife sets the life span in milliseconds. Non-positive values fall back to DefaultLife.
func (c *Clip) SetLife(life float64) {
	if life <= 0 {
		life = DefaultLife
	}
	c.life = life
}

// Delay returns the start delay in milliseconds.
func (c *Clip) Delay() float64 {
	return c.delay
}

// SetDelay sets the start delay. It only has an effect before the first step.
func (c *Clip) SetDelay(delay float64) {
	c.delay = delay
}

// Loop reports whether the clip restarts when it reaches the end.
func (c *Clip) Loop() bool {
	return c.loop
}

// Gap returns the pause in milliseconds inserted before every loop restart.
func (c *Clip) Gap() float64 {
	return c.gap
}

// SetLoop enables or disables unbounded looping.
func (c *Clip) SetLoop(loop bool) {
	c.loop = loop
	c.finiteLoop = false
}

// PlaybackRate returns the playback rate multiplier.
func (c *Clip) PlaybackRate() float64 {
	return c.rate
}

// SetEasing sets the easing applied to progress before it reaches the frame callback.
// A nil easing means linear.
func (c *Clip) SetEasing(fn easing.Func) {
	c.easing = fn
}

// SetOnFrame replaces the frame callback.
func (c *Clip) SetOnFrame(fn FrameFunc) {
	c.onFrame = fn
}

// ElapsedTime returns the elapsed milliseconds computed by the last unpaused step.
func (c *Clip) ElapsedTime() float64 {
	return c.elapsed
}

// Finished reports whether a non-looping run has reached its end.
func (c *Clip) Finished() bool {
	return c.finished
}
