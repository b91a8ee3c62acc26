// Package animator drives keyframe tracks and joint tracks from a single clip.
//
// KeyframeAnimator animates named properties of an arbitrary target with the fluent
// When/Then/Start API. TrackAnimator plays a set of joint tracks and exposes the pose
// blending operations used by blend trees.
package animator

import (
	"errors"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/easing"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/track"
)

var (
	// ErrAdditiveLoop is returned by Start for an animator that is both looping and additive.
	ErrAdditiveLoop = errors.New("additive animation cannot loop")

	// ErrNoTracks is returned when starting an animator that has nothing to play.
	ErrNoTracks = errors.New("animator has no tracks")

	// ErrAnimationNotFound is returned by FromModel when the model has no clip of that name.
	ErrAnimationNotFound = errors.New("animation not found")
)

// FrameFunc is called after every frame of a KeyframeAnimator with the target and the
// eased progress.
type FrameFunc func(target track.Target, percent float64)

// keyframeAnimator is the implementation of the KeyframeAnimator interface.
type keyframeAnimator struct {
	target    track.Target
	scheduler clip.Scheduler

	tracks    map[string]*track.Track
	trackKeys []string

	loop          bool
	allowDiscrete bool
	spline        bool
	inert         bool
	defaultEasing easing.Func

	delay    float64
	maxTime  float64
	lastTime float64
	force    bool

	paused   bool
	started  int
	finished bool

	additive []KeyframeAnimator

	doneCbs    []func()
	abortedCbs []func()
	frameCbs   []FrameFunc

	clip *clip.Clip
}

// KeyframeAnimator animates named properties of a target through keyframes.
//
// Keyframes are authored with When and Then, then Start binds every track to one clip
// scheduled on the configured Scheduler. Each property first referenced gets an implicit
// keyframe at time 0 holding its current value, unless the first keyframe is itself at 0.
type KeyframeAnimator interface {
	// When adds keyframes at time for every property in props. Properties are registered in
	// sorted key order; use WhenWithKeys to control the order.
	//
	// Parameters:
	//   - time: keyframe time in milliseconds
	//   - props: property values at time
	//   - ease: easing of the segments arriving at these keyframes, nil for linear
	//
	// Returns:
	//   - KeyframeAnimator: the animator, for chaining
	When(time float64, props map[string]any, ease easing.Func) KeyframeAnimator

	// WhenWithKeys adds keyframes at time for the listed properties, in the listed order.
	// Keys missing from props are ignored.
	//
	// Parameters:
	//   - time: keyframe time in milliseconds
	//   - props: property values at time
	//   - keys: the properties to read from props
	//   - ease: easing of the segments arriving at these keyframes, nil for linear
	//
	// Returns:
	//   - KeyframeAnimator: the animator, for chaining
	WhenWithKeys(time float64, props map[string]any, keys []string, ease easing.Func) KeyframeAnimator

	// Then adds keyframes duration milliseconds after the previously added keyframe time.
	//
	// Parameters:
	//   - duration: offset from the previous keyframe time in milliseconds
	//   - props: property values at that time
	//   - ease: easing of the arriving segments, nil for linear
	//
	// Returns:
	//   - KeyframeAnimator: the animator, for chaining
	Then(duration float64, props map[string]any, ease easing.Func) KeyframeAnimator

	// Start prepares the tracks and schedules the clip. Tracks whose keyframes are all equal
	// are resolved immediately, as are discrete tracks unless discrete animation is allowed.
	// With nothing left to animate and no forced Duration the done callbacks fire before
	// Start returns and no clip is scheduled. Start on a running animator does nothing; on a
	// finished one it plays the keyframes again.
	//
	// Parameters:
	//   - ease: easing applied to the overall progress, nil for the default easing
	//
	// Returns:
	//   - error: ErrAdditiveLoop for a looping additive animator
	Start(ease easing.Func) error

	// Stop removes the clip from the scheduler and fires the aborted callbacks.
	//
	// Parameters:
	//   - forwardToLast: if true, the final frame is written before stopping
	Stop(forwardToLast bool)

	// StopTracks stops only the named tracks. When every track has stopped the clip is
	// removed as with Stop.
	//
	// Parameters:
	//   - names: the properties to stop
	//   - forwardToLast: if true, the stopped tracks jump to their final value
	//
	// Returns:
	//   - bool: true if the animator has no running track left
	StopTracks(names []string, forwardToLast bool) bool

	// Pause pauses the clip.
	Pause()

	// Resume resumes a paused clip.
	Resume()

	// IsPaused reports whether the animator is paused.
	//
	// Returns:
	//   - bool: true if paused
	IsPaused() bool

	// Delay sets the delay applied before the clip starts progressing.
	//
	// Parameters:
	//   - ms: delay in milliseconds
	//
	// Returns:
	//   - KeyframeAnimator: the animator, for chaining
	Delay(ms float64) KeyframeAnimator

	// Duration forces the clip length and makes Start schedule a clip even without tracks.
	//
	// Parameters:
	//   - ms: the clip life in milliseconds
	//
	// Returns:
	//   - KeyframeAnimator: the animator, for chaining
	Duration(ms float64) KeyframeAnimator

	// During registers a callback invoked after the tracks are stepped on every frame.
	//
	// Parameters:
	//   - fn: the frame callback
	//
	// Returns:
	//   - KeyframeAnimator: the animator, for chaining
	During(fn FrameFunc) KeyframeAnimator

	// Done registers a callback invoked when the animation completes.
	//
	// Parameters:
	//   - fn: the done callback
	//
	// Returns:
	//   - KeyframeAnimator: the animator, for chaining
	Done(fn func()) KeyframeAnimator

	// Aborted registers a callback invoked when the animation is stopped early.
	//
	// Parameters:
	//   - fn: the aborted callback
	//
	// Returns:
	//   - KeyframeAnimator: the animator, for chaining
	Aborted(fn func()) KeyframeAnimator

	// ChangeTarget swaps the animated object. Running tracks write to the new target from
	// the next frame on.
	//
	// Parameters:
	//   - target: the new target
	ChangeTarget(target track.Target)

	// Target returns the animated object.
	//
	// Returns:
	//   - track.Target: the target
	Target() track.Target

	// Track returns the track of the named property.
	//
	// Parameters:
	//   - name: the property name
	//
	// Returns:
	//   - *track.Track: the track, or nil
	Track(name string) *track.Track

	// Tracks returns the tracks in registration order.
	//
	// Returns:
	//   - []*track.Track: the tracks
	Tracks() []*track.Track

	// Clip returns the scheduled clip, nil before Start and after the animation ends.
	//
	// Returns:
	//   - *clip.Clip: the running clip
	Clip() *clip.Clip

	// MaxTime returns the latest keyframe time, or the forced Duration.
	//
	// Returns:
	//   - float64: the animation length in milliseconds
	MaxTime() float64

	// Loop reports whether the animation restarts when it ends.
	//
	// Returns:
	//   - bool: true if looping
	Loop() bool
}

var _ KeyframeAnimator = &keyframeAnimator{}

// NewKeyframeAnimator creates an animator for target with the specified options applied.
// Combining WithLoop and WithAdditiveTo is a usage error: it is logged and the animator
// refuses to start.
//
// Parameters:
//   - target: the object whose properties are animated
//   - options: variadic list of KeyframeAnimatorBuilderOption functions
//
// Returns:
//   - KeyframeAnimator: the configured animator
func NewKeyframeAnimator(target track.Target, options ...KeyframeAnimatorBuilderOption) KeyframeAnimator {
	a := &keyframeAnimator{
		target: target,
		tracks: make(map[string]*track.Track),
	}
	for _, opt := range options {
		opt(a)
	}
	if a.loop && len(a.additive) > 0 {
		log.Error().Err(ErrAdditiveLoop).Int("bases", len(a.additive)).Msg("animator disabled")
		a.inert = true
		a.additive = nil
	}
	return a
}

func (a *keyframeAnimator) When(time float64, props map[string]any, ease easing.Func) KeyframeAnimator {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return a.WhenWithKeys(time, props, keys, ease)
}

func (a *keyframeAnimator) WhenWithKeys(time float64, props map[string]any, keys []string, ease easing.Func) KeyframeAnimator {
	for _, name := range keys {
		value, ok := props[name]
		if !ok {
			continue
		}
		tr := a.tracks[name]
		if tr == nil {
			initial, ok := a.initialValue(name)
			if !ok {
				log.Debug().Str("property", name).Msg("skipping property missing on target")
				continue
			}
			tr = track.New(name)
			tr.SetSpline(a.spline)
			if time > 0 {
				tr.AddKeyframe(0, track.CloneValue(initial), ease)
			}
			a.tracks[name] = tr
			a.trackKeys = append(a.trackKeys, name)
		}
		tr.AddKeyframe(time, track.CloneValue(value), ease)
	}
	a.maxTime = max(a.maxTime, time)
	a.lastTime = time
	return a
}

// initialValue is the value a new track starts from: the final value of the additive base
// when there is one, the current target value otherwise.
func (a *keyframeAnimator) initialValue(name string) (any, bool) {
	if base := a.additiveTrack(name); base != nil {
		v := base.FinalValue()
		return v, v != nil
	}
	if a.target == nil {
		return nil, false
	}
	v, ok := a.target.Get(name)
	return v, ok && v != nil
}

func (a *keyframeAnimator) Then(duration float64, props map[string]any, ease easing.Func) KeyframeAnimator {
	return a.When(a.lastTime+duration, props, ease)
}

// additiveTrack returns the track of name in the latest base animator that has one.
func (a *keyframeAnimator) additiveTrack(name string) *track.Track {
	var found *track.Track
	for _, base := range a.additive {
		if tr := base.Track(name); tr != nil {
			found = tr
		}
	}
	return found
}

func (a *keyframeAnimator) Start(ease easing.Func) error {
	if a.inert {
		return ErrAdditiveLoop
	}
	if a.started > 0 && !a.finished {
		return nil
	}
	if a.finished {
		for _, tr := range a.tracks {
			tr.Reset()
		}
		a.finished = false
	}
	a.started = 1
	if ease == nil {
		ease = a.defaultEasing
	}

	maxTime := a.maxTime
	active := make([]*track.Track, 0, len(a.trackKeys))
	for _, name := range a.trackKeys {
		tr := a.tracks[name]
		if !tr.NeedsAnimate() {
			continue
		}
		base := a.additiveTrack(name)

		if tr.AllValuesEqual() {
			tr.Prepare(maxTime, nil)
			if base == nil {
				a.target.Set(name, tr.FinalValue())
			}
			tr.SetFinished()
			continue
		}

		tr.Prepare(maxTime, base)
		if tr.Discrete() && !a.allowDiscrete {
			a.target.Set(name, tr.FinalValue())
			tr.SetFinished()
			continue
		}
		active = append(active, tr)
	}

	if maxTime <= 0 && !a.force {
		for _, tr := range active {
			tr.Step(a.target, 1)
		}
		active = active[:0]
	}

	if len(active) == 0 && !a.force {
		a.doneCallback()
		return nil
	}

	c := clip.New(
		clip.WithLife(maxTime),
		clip.WithLoop(a.loop),
		clip.WithDelay(a.delay),
		clip.WithEasing(ease),
		clip.WithOnFrame(func(percent, _ float64) {
			a.frame(active, percent)
		}),
		clip.WithOnDestroy(a.doneCallback),
	)
	if a.paused {
		c.Pause()
	}
	a.clip = c
	if a.scheduler != nil {
		a.scheduler.AddClip(c)
	}
	log.Debug().Int("tracks", len(active)).Float64("life", c.Life()).Bool("loop", a.loop).Msg("animator started")
	return nil
}

func (a *keyframeAnimator) frame(active []*track.Track, percent float64) {
	a.started = 2

	if len(a.additive) > 0 {
		running := false
		for _, base := range a.additive {
			if base.Clip() != nil {
				running = true
				break
			}
		}
		if !running {
			a.additive = nil
		}
	}

	for _, tr := range active {
		tr.Step(a.target, percent)
	}
	for _, fn := range a.frameCbs {
		fn(a.target, percent)
	}
}

func (a *keyframeAnimator) setTracksFinished() {
	for _, name := range a.trackKeys {
		a.tracks[name].SetFinished()
	}
}

func (a *keyframeAnimator) doneCallback() {
	a.setTracksFinished()
	a.clip = nil
	a.finished = true
	for _, fn := range a.doneCbs {
		fn()
	}
}

func (a *keyframeAnimator) abortedCallback() {
	a.setTracksFinished()
	if a.scheduler != nil && a.clip != nil {
		a.scheduler.RemoveClip(a.clip)
	}
	a.clip = nil
	a.finished = true
	for _, fn := range a.abortedCbs {
		fn()
	}
}

func (a *keyframeAnimator) Stop(forwardToLast bool) {
	if a.clip == nil {
		return
	}
	if forwardToLast {
		a.clip.Fire(1, a.clip.Life())
	}
	a.abortedCallback()
}

func (a *keyframeAnimator) StopTracks(names []string, forwardToLast bool) bool {
	if len(names) == 0 || a.clip == nil {
		return true
	}
	for _, name := range names {
		tr := a.tracks[name]
		if tr == nil || tr.Finished() {
			continue
		}
		if forwardToLast {
			tr.Step(a.target, 1)
		} else if a.started == 1 {
			// Never stepped: put the property back at its start value.
			tr.Step(a.target, 0)
		}
		tr.SetFinished()
	}

	for _, name := range a.trackKeys {
		if !a.tracks[name].Finished() {
			return false
		}
	}
	a.abortedCallback()
	return true
}

func (a *keyframeAnimator) Pause() {
	if a.clip != nil {
		a.clip.Pause()
	}
	a.paused = true
}

func (a *keyframeAnimator) Resume() {
	if a.clip != nil {
		a.clip.Resume()
	}
	a.paused = false
}

func (a *keyframeAnimator) IsPaused() bool {
	return a.paused
}

func (a *keyframeAnimator) Delay(ms float64) KeyframeAnimator {
	a.delay = ms
	return a
}

func (a *keyframeAnimator) Duration(ms float64) KeyframeAnimator {
	a.maxTime = ms
	a.force = true
	return a
}

func (a *keyframeAnimator) During(fn FrameFunc) KeyframeAnimator {
	if fn != nil {
		a.frameCbs = append(a.frameCbs, fn)
	}
	return a
}

func (a *keyframeAnimator) Done(fn func()) KeyframeAnimator {
	if fn != nil {
		a.doneCbs = append(a.doneCbs, fn)
	}
	return a
}

func (a *keyframeAnimator) Aborted(fn func()) KeyframeAnimator {
	if fn != nil {
		a.abortedCbs = append(a.abortedCbs, fn)
	}
	return a
}

func (a *keyframeAnimator) ChangeTarget(target track.Target) {
	a.target = target
}

func (a *keyframeAnimator) Target() track.Target {
	return a.target
}

func (a *keyframeAnimator) Track(name string) *track.Track {
	return a.tracks[name]
}

func (a *keyframeAnimator) Tracks() []*track.Track {
	out := make([]*track.Track, len(a.trackKeys))
	for i, name := range a.trackKeys {
		out[i] = a.tracks[name]
	}
	return out
}

func (a *keyframeAnimator) Clip() *clip.Clip {
	return a.clip
}

func (a *keyframeAnimator) MaxTime() float64 {
	return a.maxTime
}

func (a *keyframeAnimator) Loop() bool {
	return a.loop
}
