package engine

import (
	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-anim/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/timeline"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickInterval(fps)
	}
}

// WithTimeline sets the timeline the engine ticks instead of letting it create one.
//
// Parameters:
//   - tl: a pre-configured Timeline instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTimeline(tl timeline.Timeline) EngineBuilderOption {
	return func(e *engine) {
		e.timeline = tl
	}
}

// WithConfig applies a loaded configuration: tick rate, profiling, the global log level and
// the animator defaults used by Animate. An invalid log level is logged and ignored.
//
// Parameters:
//   - c: the configuration
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(c *config.Config) EngineBuilderOption {
	return func(e *engine) {
		if c == nil {
			return
		}
		e.config = c
		e.engineTickRate = tickInterval(c.TickRate)
		e.profilingEnabled.Store(c.Profiling)
		if err := c.ApplyLogLevel(); err != nil {
			log.Error().Err(err).Msg("keeping current log level")
		}
	}
}
