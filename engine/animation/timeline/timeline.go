// Package timeline schedules clips against a shared clock advanced by explicit ticks.
package timeline

import (
	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/track"
)

// FrameCallback is called at the end of every tick with the tick delta in milliseconds.
type FrameCallback func(deltaTime float64)

type entry struct {
	clip    *clip.Clip
	removed bool
}

// timeline is the implementation of the Timeline interface.
type timeline struct {
	time   float64
	paused bool

	entries []*entry
	index   map[*clip.Clip]*entry
	ticking bool

	render  func()
	onFrame []FrameCallback
}

// Timeline owns the animation clock and the ordered set of active clips.
type Timeline interface {
	clip.Scheduler

	// Tick advances the clock by deltaTime and steps every clip that was registered before
	// the tick, once, in registration order. Finished clips are removed and then destroyed.
	// The render callback runs once if any clip was stepped and the frame callbacks run on
	// every tick. A paused timeline does nothing.
	//
	// Parameters:
	//   - deltaTime: milliseconds since the previous tick
	Tick(deltaTime float64)

	// HasClip reports whether c is scheduled.
	//
	// Parameters:
	//   - c: the clip
	//
	// Returns:
	//   - bool: true if c is scheduled
	HasClip(c *clip.Clip) bool

	// ClipCount returns the number of scheduled clips.
	//
	// Returns:
	//   - int: the clip count
	ClipCount() int

	// Clear removes every clip without destroying it.
	Clear()

	// Time returns the clock in milliseconds.
	//
	// Returns:
	//   - float64: the global time
	Time() float64

	// Pause stops the clock.
	Pause()

	// Resume restarts the clock.
	Resume()

	// Paused reports whether the clock is stopped.
	//
	// Returns:
	//   - bool: true if paused
	Paused() bool

	// SetRenderCallback sets the function called after a tick that stepped at least one clip.
	//
	// Parameters:
	//   - fn: the render callback, nil to clear
	SetRenderCallback(fn func())

	// Animate creates a KeyframeAnimator scheduled on this timeline.
	//
	// Parameters:
	//   - target: the object to animate
	//   - options: animator options
	//
	// Returns:
	//   - animator.KeyframeAnimator: the animator, not started
	Animate(target track.Target, options ...animator.KeyframeAnimatorBuilderOption) animator.KeyframeAnimator
}

var _ Timeline = &timeline{}

// New creates a Timeline with the specified options applied.
//
// Parameters:
//   - options: variadic list of TimelineBuilderOption functions
//
// Returns:
//   - Timeline: the timeline, with its clock at the configured start time
func New(options ...TimelineBuilderOption) Timeline {
	t := &timeline{
		index: make(map[*clip.Clip]*entry),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *timeline) AddClip(c *clip.Clip) {
	if c == nil {
		return
	}
	if _, ok := t.index[c]; ok {
		return
	}
	e := &entry{clip: c}
	t.entries = append(t.entries, e)
	t.index[c] = e
}

func (t *timeline) RemoveClip(c *clip.Clip) {
	e, ok := t.index[c]
	if !ok {
		return
	}
	delete(t.index, c)
	e.removed = true
	if !t.ticking {
		t.compact()
	}
}

func (t *timeline) compact() {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if !e.removed {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(t.entries); i++ {
		t.entries[i] = nil
	}
	t.entries = kept
}

func (t *timeline) Tick(deltaTime float64) {
	if t.paused {
		return
	}
	t.time += deltaTime

	t.ticking = true
	count := len(t.entries)
	stepped := 0
	var finished []*entry
	for i := 0; i < count; i++ {
		e := t.entries[i]
		if e.removed {
			continue
		}
		stepped++
		if e.clip.Step(t.time, deltaTime) {
			finished = append(finished, e)
		}
	}
	t.ticking = false

	// A finished clip may have been removed and added again by a callback during the
	// tick; only the entry that finished is dropped, and a re-added clip is not destroyed.
	var destroy []*clip.Clip
	for _, e := range finished {
		e.removed = true
		cur, ok := t.index[e.clip]
		if ok && cur != e {
			continue
		}
		if ok {
			delete(t.index, e.clip)
		}
		destroy = append(destroy, e.clip)
	}
	t.compact()
	for _, c := range destroy {
		c.Destroy()
	}

	if stepped > 0 && t.render != nil {
		t.render()
	}
	for _, fn := range t.onFrame {
		fn(deltaTime)
	}
}

func (t *timeline) HasClip(c *clip.Clip) bool {
	_, ok := t.index[c]
	return ok
}

func (t *timeline) ClipCount() int {
	return len(t.index)
}

func (t *timeline) Clear() {
	for _, e := range t.entries {
		e.removed = true
	}
	t.index = make(map[*clip.Clip]*entry)
	if !t.ticking {
		t.compact()
	}
	log.Debug().Float64("time", t.time).Msg("timeline cleared")
}

func (t *timeline) Time() float64 {
	return t.time
}

func (t *timeline) Pause() {
	t.paused = true
}

func (t *timeline) Resume() {
	t.paused = false
}

func (t *timeline) Paused() bool {
	return t.paused
}

func (t *timeline) SetRenderCallback(fn func()) {
	t.render = fn
}

func (t *timeline) Animate(target track.Target, options ...animator.KeyframeAnimatorBuilderOption) animator.KeyframeAnimator {
	opts := append([]animator.KeyframeAnimatorBuilderOption{animator.WithScheduler(t)}, options...)
	return animator.NewKeyframeAnimator(target, opts...)
}
