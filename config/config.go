// Package config holds the YAML engine configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation/easing"
)

var (
	// ErrInvalidTickRate is returned by Validate for a zero or negative tick rate.
	ErrInvalidTickRate = errors.New("tick rate must be positive")

	// ErrInvalidLogLevel is returned when LogLevel is not a zerolog level name.
	ErrInvalidLogLevel = errors.New("unknown log level")

	// ErrInvalidEasing is returned when DefaultEasing names no easing and is not a valid
	// cubic-bezier string.
	ErrInvalidEasing = errors.New("unknown easing")
)

// Config is the engine configuration as stored on disk.
type Config struct {
	// TickRate is the number of timeline ticks per second.
	TickRate float64 `yaml:"tick_rate"`

	// Profiling logs profiler stats every second.
	Profiling bool `yaml:"profiling"`

	// LogLevel is a zerolog level name. Empty means info.
	LogLevel string `yaml:"log_level"`

	// DefaultEasing is an easing name or a cubic-bezier(...) string used by animators
	// started without one. Empty means linear.
	DefaultEasing string `yaml:"default_easing"`

	// AllowDiscrete plays non-interpolable tracks instead of snapping them to their final value.
	AllowDiscrete bool `yaml:"allow_discrete"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - *Config: a 60 tick per second, info level configuration
func Default() *Config {
	return &Config{
		TickRate: 60,
		LogLevel: zerolog.LevelInfoValue,
	}
}

// Load reads a YAML configuration. Keys missing from the file keep their default value.
//
// Parameters:
//   - path: the YAML file to read
//
// Returns:
//   - *Config: the validated configuration
//   - error: a read, parse or validation error
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

// Save writes c as YAML.
//
// Parameters:
//   - path: the destination file, created or truncated
//   - c: the configuration to write
//
// Returns:
//   - error: a marshal or write error
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks the tick rate, the log level and the default easing.
//
// Returns:
//   - error: ErrInvalidTickRate, ErrInvalidLogLevel or ErrInvalidEasing, wrapped with the
//     offending value
func (c *Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTickRate, c.TickRate)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.DefaultEasing != "" && easing.Resolve(c.DefaultEasing) == nil {
		return fmt.Errorf("%w: %q", ErrInvalidEasing, c.DefaultEasing)
	}
	return nil
}

// Level parses LogLevel. An empty level means info.
//
// Returns:
//   - zerolog.Level: the parsed level
//   - error: ErrInvalidLogLevel for an unknown name
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return lvl, nil
}

// ApplyLogLevel sets the global zerolog level from LogLevel.
//
// Returns:
//   - error: ErrInvalidLogLevel for an unknown name; the global level is left unchanged
func (c *Config) ApplyLogLevel() error {
	lvl, err := c.Level()
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// Easing resolves DefaultEasing.
//
// Returns:
//   - easing.Func: the easing, nil for linear
func (c *Config) Easing() easing.Func {
	if c.DefaultEasing == "" {
		return nil
	}
	return easing.Resolve(c.DefaultEasing)
}
