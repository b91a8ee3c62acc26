package blend

import (
	"math"
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation/clip"
)

type input1D struct {
	source
	position float64
}

// Blend1D blends between the two inputs bracketing a scalar blend position.
// Outside the input range the nearest boundary input is copied to the output.
type Blend1D struct {
	node

	position float64
	inputs   []input1D

	cacheKey      int
	cachePosition float64
}

// NewBlend1D creates a 1D blend node.
//
// Parameters:
//   - options: variadic list of BlendBuilderOption functions
//
// Returns:
//   - *Blend1D: the node, without inputs
func NewBlend1D(options ...BlendBuilderOption) *Blend1D {
	b := &Blend1D{cachePosition: math.Inf(-1)}
	for _, opt := range options {
		opt(&b.node)
	}
	return b
}

// AddInput adds an input at a blend position. Inputs stay sorted by position.
//
// Parameters:
//   - position: where on the blend axis the input is fully weighted
//   - input: a *animator.TrackAnimator or a node with an output
//   - offset: time offset applied to the input in milliseconds
//
// Returns:
//   - error: ErrNoOutput for a node without output, ErrUnsupportedInput for other inputs
func (b *Blend1D) AddInput(position float64, input Input, offset float64) error {
	src, err := resolve(input, offset)
	if err != nil {
		return err
	}
	b.inputs = append(b.inputs, input1D{source: src, position: position})
	sort.SliceStable(b.inputs, func(i, j int) bool {
		return b.inputs[i].position < b.inputs[j].position
	})
	b.cacheKey = 0
	b.cachePosition = math.Inf(-1)
	return nil
}

// SetPosition moves the blend position.
func (b *Blend1D) SetPosition(position float64) {
	b.position = position
}

// Position returns the blend position.
func (b *Blend1D) Position() float64 {
	return b.position
}

// Life returns the longest input life.
func (b *Blend1D) Life() float64 {
	return maxLife(b.sources())
}

func (b *Blend1D) sources() []source {
	out := make([]source, len(b.inputs))
	for i := range b.inputs {
		out[i] = b.inputs[i].source
	}
	return out
}

// SetTime samples the inputs around the blend position and writes the result to the
// output. Each input time wraps around its own life.
//
// Parameters:
//   - time: the node time in milliseconds
func (b *Blend1D) SetTime(time float64) {
	n := len(b.inputs)
	if n == 0 {
		return
	}
	pos := b.position
	if pos <= b.inputs[0].position || pos >= b.inputs[n-1].position {
		in := &b.inputs[n-1]
		if pos <= b.inputs[0].position {
			in = &b.inputs[0]
		}
		in.sample(time)
		if b.output != nil {
			b.output.Copy(in.pose)
			b.output.UpdateTargets()
		}
		return
	}

	key := b.findKey(pos)
	if key < 0 {
		return
	}
	in1, in2 := &b.inputs[key], &b.inputs[key+1]
	in1.sample(time)
	in2.sample(time)
	if b.output != nil {
		w := (pos - in1.position) / (in2.position - in1.position)
		b.output.Blend1D(in1.pose, in2.pose, float32(w))
		b.output.UpdateTargets()
	}
}

// findKey returns the index i with inputs[i].position <= pos < inputs[i+1].position,
// scanning from the previous result in the direction the position moved.
func (b *Blend1D) findKey(pos float64) int {
	n := len(b.inputs)
	key := -1
	if b.cachePosition < pos {
		for i := min(b.cacheKey, n-2); i < n-1; i++ {
			if pos >= b.inputs[i].position && pos < b.inputs[i+1].position {
				key = i
				break
			}
		}
	} else {
		for i := min(b.cacheKey, n-2); i >= 0; i-- {
			if pos >= b.inputs[i].position && pos < b.inputs[i+1].position {
				key = i
				break
			}
		}
	}
	if key >= 0 {
		b.cacheKey = key
		b.cachePosition = pos
	}
	return key
}

// Start drives the node from a looping clip on scheduler, with the longest input life.
//
// Parameters:
//   - scheduler: the scheduler to register the clip with
//
// Returns:
//   - error: ErrNoInputs or ErrNoOutput
func (b *Blend1D) Start(scheduler clip.Scheduler) error {
	return b.start(scheduler, len(b.inputs), b.Life(), b.SetTime)
}
