package blend

import (
	"github.com/fogleman/delaunay"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation/clip"
)

// barycentricEpsilon lets positions on a triangle edge count as inside.
const barycentricEpsilon = 1e-5

type input2D struct {
	source
	position mgl32.Vec2
}

type triangle [3]int

// Blend2D blends the three inputs of the Delaunay triangle containing a 2D blend position,
// weighted by the barycentric coordinates of the position.
//
// A position outside the convex hull of the inputs leaves the output untouched.
type Blend2D struct {
	node

	position  mgl32.Vec2
	inputs    []input2D
	triangles []triangle
	cached    int
}

// NewBlend2D creates a 2D blend node.
//
// Parameters:
//   - options: variadic list of BlendBuilderOption functions
//
// Returns:
//   - *Blend2D: the node, without inputs
func NewBlend2D(options ...BlendBuilderOption) *Blend2D {
	b := &Blend2D{cached: -1}
	for _, opt := range options {
		opt(&b.node)
	}
	return b
}

// AddInput adds an input at a 2D blend position and re-triangulates the inputs.
//
// Parameters:
//   - position: where in the blend space the input is fully weighted
//   - input: a *animator.TrackAnimator or a node with an output
//   - offset: time offset applied to the input in milliseconds
//
// Returns:
//   - error: ErrNoOutput for a node without output, ErrUnsupportedInput for other inputs
func (b *Blend2D) AddInput(position mgl32.Vec2, input Input, offset float64) error {
	src, err := resolve(input, offset)
	if err != nil {
		return err
	}
	b.inputs = append(b.inputs, input2D{source: src, position: position})
	b.triangulate()
	return nil
}

func (b *Blend2D) triangulate() {
	b.triangles = b.triangles[:0]
	b.cached = -1
	if len(b.inputs) < 3 {
		return
	}
	points := make([]delaunay.Point, len(b.inputs))
	for i, in := range b.inputs {
		points[i] = delaunay.Point{X: float64(in.position.X()), Y: float64(in.position.Y())}
	}
	tri, err := delaunay.Triangulate(points)
	if err != nil {
		log.Debug().Err(err).Str("node", b.name).Int("inputs", len(points)).Msg("blend space has no triangles")
		return
	}
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		b.triangles = append(b.triangles, triangle{tri.Triangles[i], tri.Triangles[i+1], tri.Triangles[i+2]})
	}
}

// Triangles returns the input index triples of the current triangulation.
func (b *Blend2D) Triangles() [][3]int {
	out := make([][3]int, len(b.triangles))
	for i, t := range b.triangles {
		out[i] = t
	}
	return out
}

// SetPosition moves the blend position.
func (b *Blend2D) SetPosition(position mgl32.Vec2) {
	b.position = position
}

// Position returns the blend position.
func (b *Blend2D) Position() mgl32.Vec2 {
	return b.position
}

// Life returns the longest input life.
func (b *Blend2D) Life() float64 {
	sources := make([]source, len(b.inputs))
	for i := range b.inputs {
		sources[i] = b.inputs[i].source
	}
	return maxLife(sources)
}

// contains returns the barycentric weights of p for the second and third vertex of t.
func (b *Blend2D) contains(t triangle, p mgl32.Vec2) (u, v float32, ok bool) {
	a := b.inputs[t[0]].position
	e1 := b.inputs[t[1]].position.Sub(a)
	e2 := b.inputs[t[2]].position.Sub(a)
	ep := p.Sub(a)

	d00, d01, d11 := e1.Dot(e1), e1.Dot(e2), e2.Dot(e2)
	d20, d21 := ep.Dot(e1), ep.Dot(e2)
	denom := d00*d11 - d01*d01
	if denom == 0 {
		return 0, 0, false
	}
	u = (d11*d20 - d01*d21) / denom
	v = (d00*d21 - d01*d20) / denom
	if u < -barycentricEpsilon || v < -barycentricEpsilon || u+v > 1+barycentricEpsilon {
		return 0, 0, false
	}
	return u, v, true
}

func (b *Blend2D) findTriangle(p mgl32.Vec2) (int, float32, float32) {
	if b.cached >= 0 {
		if u, v, ok := b.contains(b.triangles[b.cached], p); ok {
			return b.cached, u, v
		}
	}
	for i, t := range b.triangles {
		if u, v, ok := b.contains(t, p); ok {
			b.cached = i
			return i, u, v
		}
	}
	return -1, 0, 0
}

// SetTime samples the three inputs of the triangle containing the blend position and writes
// their barycentric blend to the output. Outside the triangulated area nothing happens.
//
// Parameters:
//   - time: the node time in milliseconds
func (b *Blend2D) SetTime(time float64) {
	idx, u, v := b.findTriangle(b.position)
	if idx < 0 {
		return
	}
	t := b.triangles[idx]
	in1, in2, in3 := &b.inputs[t[0]], &b.inputs[t[1]], &b.inputs[t[2]]
	in1.sample(time)
	in2.sample(time)
	in3.sample(time)
	if b.output != nil {
		b.output.Blend2D(in1.pose, in2.pose, in3.pose, u, v)
		b.output.UpdateTargets()
	}
}

// Start drives the node from a looping clip on scheduler, with the longest input life.
//
// Parameters:
//   - scheduler: the scheduler to register the clip with
//
// Returns:
//   - error: ErrNoInputs or ErrNoOutput
func (b *Blend2D) Start(scheduler clip.Scheduler) error {
	return b.start(scheduler, len(b.inputs), b.Life(), b.SetTime)
}
