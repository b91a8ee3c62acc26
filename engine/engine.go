package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-anim/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/timeline"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/track"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
)

// ErrAlreadyRunning is returned by Run when the engine loop is already running.
var ErrAlreadyRunning = errors.New("engine is already running")

// engine implements the Engine interface.
// Owns the timeline and the goroutine that ticks it.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	queueMu sync.Mutex
	queue   []func()

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	timeline       timeline.Timeline
	config         *config.Config
}

// Engine drives a Timeline at a fixed tick rate.
//
// Timelines, clips and animators are not safe for concurrent use. Everything touching them
// while the engine runs must go through Do, which executes on the tick goroutine.
type Engine interface {
	// Timeline returns the timeline ticked by the engine.
	//
	// Returns:
	//   - timeline.Timeline: the timeline
	Timeline() timeline.Timeline

	// Animate creates a KeyframeAnimator on the engine timeline with the configured
	// default easing and discrete policy. Call it from within Do while the engine runs.
	//
	// Parameters:
	//   - target: the object to animate
	//   - options: animator options, applied after the configured defaults
	//
	// Returns:
	//   - animator.KeyframeAnimator: the animator, not started
	Animate(target track.Target, options ...animator.KeyframeAnimatorBuilderOption) animator.KeyframeAnimator

	// Do queues fn to run on the tick goroutine before the next timeline tick.
	//
	// Parameters:
	//   - fn: the work to run
	Do(fn func())

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetRenderCallback registers the function called after every tick that stepped a clip.
	//
	// Parameters:
	//   - callback: the render callback
	SetRenderCallback(callback func())

	// Run ticks the timeline until ctx is done or Quit is called. Deltas are measured
	// wall-clock milliseconds between ticks.
	//
	// Parameters:
	//   - ctx: bounds the lifetime of the loop
	//
	// Returns:
	//   - error: ctx.Err() when the context ended the loop, ErrAlreadyRunning, or nil after Quit
	Run(ctx context.Context) error

	// Quit signals the engine loop to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Without WithTimeline the engine creates its own timeline.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
		config:          config.Default(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.timeline == nil {
		e.timeline = timeline.New()
	}
	return e
}

func (e *engine) Timeline() timeline.Timeline {
	return e.timeline
}

func (e *engine) Animate(target track.Target, options ...animator.KeyframeAnimatorBuilderOption) animator.KeyframeAnimator {
	opts := append([]animator.KeyframeAnimatorBuilderOption{
		animator.WithAllowDiscrete(e.config.AllowDiscrete),
		animator.WithDefaultEasing(e.config.Easing()),
	}, options...)
	return e.timeline.Animate(target, opts...)
}

func (e *engine) Do(fn func()) {
	if fn == nil {
		return
	}
	e.queueMu.Lock()
	e.queue = append(e.queue, fn)
	e.queueMu.Unlock()
}

// drain runs the queued work on the calling goroutine.
func (e *engine) drain() {
	e.queueMu.Lock()
	work := e.queue
	e.queue = nil
	e.queueMu.Unlock()

	for _, fn := range work {
		fn()
	}
}

func (e *engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	log.Info().Dur("tick", e.engineTickRate).Msg("engine started")
	lastTick := time.Now()

	for {
		select {
		case <-ctx.Done():
			log.Info().Err(ctx.Err()).Float64("time", e.timeline.Time()).Msg("engine stopped")
			return ctx.Err()
		case <-e.quitChannel:
			log.Info().Float64("time", e.timeline.Time()).Msg("engine stopped")
			return nil
		case <-ticker.C:
			now := time.Now()
			dt := float64(now.Sub(lastTick)) / float64(time.Millisecond)
			lastTick = now

			e.drain()
			e.timeline.Tick(dt)

			if e.profilingEnabled.Load() && e.profiler != nil {
				e.profiler.Tick(e.timeline.ClipCount())
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// Quit signals the engine loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	if e.running.Load() {
		// Replace any pending update with the newest rate.
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetRenderCallback registers the function called after every tick that stepped a clip.
func (e *engine) SetRenderCallback(callback func()) {
	if e.running.Load() {
		e.Do(func() { e.timeline.SetRenderCallback(callback) })
		return
	}
	e.timeline.SetRenderCallback(callback)
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
