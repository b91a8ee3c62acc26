// Package blend implements 1D and 2D blend tree nodes over TrackAnimator poses.
//
// A node samples its inputs at the node time and writes the blended joint poses into an
// output TrackAnimator. Nodes are inputs themselves, so trees of any depth can be built by
// feeding one node into another.
package blend

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/clip"
)

var (
	// ErrNoOutput is returned when a node without an output is started or used as an input.
	ErrNoOutput = errors.New("blend node has no output")

	// ErrNoInputs is returned when starting a node without inputs.
	ErrNoInputs = errors.New("blend node has no inputs")

	// ErrUnsupportedInput is returned by AddInput for inputs that expose no pose.
	ErrUnsupportedInput = errors.New("blend input has no pose")
)

// Input is anything a blend node can sample: a *animator.TrackAnimator or another node.
type Input interface {
	// SetTime samples the input at time.
	SetTime(time float64)

	// Life returns the input length in milliseconds.
	Life() float64
}

// Node is a blend tree node. Its output holds the blended pose after SetTime.
type Node interface {
	Input

	// Output returns the animator receiving the blended pose.
	Output() *animator.TrackAnimator
}

var (
	_ Input = &animator.TrackAnimator{}
	_ Node  = &Blend1D{}
	_ Node  = &Blend2D{}
)

// source pairs an input with the animator holding its pose, resolved when it is added.
type source struct {
	input  Input
	pose   *animator.TrackAnimator
	offset float64
}

func resolve(input Input, offset float64) (source, error) {
	switch in := input.(type) {
	case *animator.TrackAnimator:
		return source{input: in, pose: in, offset: offset}, nil
	case Node:
		out := in.Output()
		if out == nil {
			return source{}, ErrNoOutput
		}
		return source{input: in, pose: out, offset: offset}, nil
	}
	return source{}, ErrUnsupportedInput
}

// sample advances the input to time, wrapped into its own life.
func (s *source) sample(time float64) {
	s.input.SetTime(common.Mod(time+s.offset, s.input.Life()))
}

// node holds the state shared by the 1D and 2D nodes.
type node struct {
	name   string
	output *animator.TrackAnimator

	scheduler clip.Scheduler
	clip      *clip.Clip
}

// BlendBuilderOption is a functional option for configuring a blend node.
type BlendBuilderOption func(*node)

// WithOutput sets the animator receiving the blended pose.
//
// Parameters:
//   - output: the output animator, with joints in the same order as the inputs
//
// Returns:
//   - BlendBuilderOption: option function to apply
func WithOutput(output *animator.TrackAnimator) BlendBuilderOption {
	return func(n *node) {
		n.output = output
	}
}

// WithName sets the node name used for its clip and in logs.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - BlendBuilderOption: option function to apply
func WithName(name string) BlendBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// Output returns the animator receiving the blended pose.
func (n *node) Output() *animator.TrackAnimator {
	return n.output
}

// SetOutput sets the animator receiving the blended pose.
func (n *node) SetOutput(output *animator.TrackAnimator) {
	n.output = output
}

// Clip returns the clip driving the node, nil unless started.
func (n *node) Clip() *clip.Clip {
	return n.clip
}

// start schedules a looping clip that calls setTime with the elapsed time.
func (n *node) start(scheduler clip.Scheduler, count int, life float64, setTime func(float64)) error {
	if count == 0 {
		return ErrNoInputs
	}
	if n.output == nil {
		return ErrNoOutput
	}
	n.scheduler = scheduler
	n.clip = clip.New(
		clip.WithName(n.name),
		clip.WithLife(life),
		clip.WithLoop(true),
		clip.WithOnFrame(func(_, elapsed float64) {
			setTime(elapsed)
		}),
	)
	if scheduler != nil {
		scheduler.AddClip(n.clip)
	}
	log.Debug().Str("node", n.name).Int("inputs", count).Float64("life", life).Msg("blend node started")
	return nil
}

// Stop removes the node's clip from its scheduler.
func (n *node) Stop() {
	if n.clip == nil {
		return
	}
	if n.scheduler != nil {
		n.scheduler.RemoveClip(n.clip)
	}
	n.clip = nil
}

func maxLife(sources []source) float64 {
	life := 0.0
	for i := range sources {
		life = max(life, sources[i].input.Life())
	}
	return life
}
