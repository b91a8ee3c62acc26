package blend

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/sampler"
)

// moving returns a one-joint animator whose X goes from 0 to dist over length ms.
func moving(length float64, dist float32) *animator.TrackAnimator {
	from, to := mgl32.Vec3{}, mgl32.Vec3{dist, 0, 0}
	return animator.NewTrackAnimator("", true, sampler.NewTransformTrack("hip",
		sampler.TransformKeyframe{Time: 0, Position: &from},
		sampler.TransformKeyframe{Time: length, Position: &to},
	))
}

// still returns a one-joint animator holding X at x for length ms.
func still(length float64, x float32) *animator.TrackAnimator {
	at := mgl32.Vec3{x, 0, 0}
	return animator.NewTrackAnimator("", true, sampler.NewTransformTrack("hip",
		sampler.TransformKeyframe{Time: 0, Position: &at},
		sampler.TransformKeyframe{Time: length, Position: &at},
	))
}

func outputX(out *animator.TrackAnimator) float32 {
	return out.Tracks()[0].Pose().Position.X()
}

type listScheduler struct {
	clips []*clip.Clip
	now   float64
}

func (s *listScheduler) AddClip(c *clip.Clip) {
	s.clips = append(s.clips, c)
}

func (s *listScheduler) RemoveClip(c *clip.Clip) {
	for i := range s.clips {
		if s.clips[i] == c {
			s.clips = append(s.clips[:i], s.clips[i+1:]...)
			return
		}
	}
}

func (s *listScheduler) tick(delta float64) {
	s.now += delta
	for _, c := range append([]*clip.Clip(nil), s.clips...) {
		c.Step(s.now, delta)
	}
}

func TestBlend1DBoundariesAndInterior(t *testing.T) {
	out := still(1000, 0)
	b := NewBlend1D(WithOutput(out))
	require.NoError(t, b.AddInput(2, still(1000, 20), 0))
	require.NoError(t, b.AddInput(0, still(1000, 0), 0))
	require.NoError(t, b.AddInput(1, still(1000, 10), 0))

	cases := []struct {
		position float64
		want     float32
	}{
		{-1, 0},
		{0, 0},
		{0.5, 5},
		{1.5, 15},
		{0.25, 2.5},
		{2, 20},
		{3, 20},
		{1, 10},
	}
	for _, c := range cases {
		b.SetPosition(c.position)
		b.SetTime(100)
		assert.InDelta(t, c.want, outputX(out), 1e-4, "position %v", c.position)
	}
}

func TestBlend1DWrapsEachInputByItsOwnLife(t *testing.T) {
	out := still(1000, 0)
	b := NewBlend1D(WithOutput(out))
	short := moving(500, 10)
	long := moving(2000, 10)
	require.NoError(t, b.AddInput(0, short, 0))
	require.NoError(t, b.AddInput(1, long, 0))
	assert.Equal(t, 2000.0, b.Life())

	b.SetPosition(0)
	b.SetTime(750)
	assert.InDelta(t, 5, outputX(out), 1e-4)

	b.SetPosition(1)
	b.SetTime(750)
	assert.InDelta(t, 3.75, outputX(out), 1e-4)
}

func TestBlend1DOffset(t *testing.T) {
	out := still(1000, 0)
	b := NewBlend1D(WithOutput(out))
	require.NoError(t, b.AddInput(0, moving(1000, 10), 250))
	b.SetTime(900)
	assert.InDelta(t, 1.5, outputX(out), 1e-4)
}

func TestBlend1DWithoutInputsIsNoOp(t *testing.T) {
	out := still(1000, 3)
	out.SetTime(0)
	b := NewBlend1D(WithOutput(out))
	b.SetTime(100)
	assert.InDelta(t, 3, outputX(out), 1e-4)
}

func TestNestedNodes(t *testing.T) {
	inner := NewBlend1D()
	require.NoError(t, inner.AddInput(0, still(1000, 0), 0))
	require.NoError(t, inner.AddInput(1, still(1000, 10), 0))

	outer := NewBlend1D(WithOutput(still(1000, 0)))
	assert.ErrorIs(t, outer.AddInput(0, inner, 0), ErrNoOutput)

	inner.SetOutput(still(1000, 0))
	require.NoError(t, outer.AddInput(0, inner, 0))
	require.NoError(t, outer.AddInput(1, still(1000, 30), 0))

	inner.SetPosition(0.5)
	outer.SetPosition(0.5)
	outer.SetTime(10)
	assert.InDelta(t, 17.5, outputX(outer.Output()), 1e-4)
}

type opaque struct{}

func (opaque) SetTime(float64) {}

func (opaque) Life() float64 { return 0 }

func TestUnsupportedInput(t *testing.T) {
	b := NewBlend1D()
	assert.ErrorIs(t, b.AddInput(0, opaque{}, 0), ErrUnsupportedInput)
	assert.ErrorIs(t, NewBlend2D().AddInput(mgl32.Vec2{}, opaque{}, 0), ErrUnsupportedInput)
}

func TestStartErrors(t *testing.T) {
	s := &listScheduler{}
	b := NewBlend1D()
	assert.ErrorIs(t, b.Start(s), ErrNoInputs)
	require.NoError(t, b.AddInput(0, still(1000, 0), 0))
	assert.ErrorIs(t, b.Start(s), ErrNoOutput)
	assert.Empty(t, s.clips)
}

func TestStartDrivesNode(t *testing.T) {
	s := &listScheduler{}
	out := still(1000, 0)
	b := NewBlend1D(WithOutput(out), WithName("locomotion"))
	require.NoError(t, b.AddInput(0, moving(1000, 10), 0))
	require.NoError(t, b.AddInput(1, moving(1000, 30), 0))
	b.SetPosition(0.5)
	require.NoError(t, b.Start(s))
	require.Len(t, s.clips, 1)
	assert.Equal(t, "locomotion", b.Clip().Name())
	assert.True(t, b.Clip().Loop())

	s.tick(0)
	s.tick(500)
	assert.InDelta(t, 10, outputX(out), 1e-4)
	s.tick(750)
	assert.InDelta(t, 5, outputX(out), 1e-4)

	b.Stop()
	assert.Empty(t, s.clips)
	assert.Nil(t, b.Clip())
}

func newTriangleNode(t *testing.T) (*Blend2D, *animator.TrackAnimator) {
	out := still(1000, 0)
	b := NewBlend2D(WithOutput(out))
	require.NoError(t, b.AddInput(mgl32.Vec2{0, 0}, still(1000, 0), 0))
	require.NoError(t, b.AddInput(mgl32.Vec2{1, 0}, still(1000, 10), 0))
	assert.Empty(t, b.Triangles())
	require.NoError(t, b.AddInput(mgl32.Vec2{0, 1}, still(1000, 40), 0))
	require.Len(t, b.Triangles(), 1)
	return b, out
}

func TestBlend2DBarycentricSum(t *testing.T) {
	b, out := newTriangleNode(t)

	b.SetPosition(mgl32.Vec2{0.5, 0.25})
	b.SetTime(0)
	assert.InDelta(t, 15, outputX(out), 1e-4)

	b.SetPosition(mgl32.Vec2{0, 0})
	b.SetTime(0)
	assert.InDelta(t, 0, outputX(out), 1e-4)

	b.SetPosition(mgl32.Vec2{0, 1})
	b.SetTime(0)
	assert.InDelta(t, 40, outputX(out), 1e-4)
}

func TestBlend2DOutsideHullIsNoOp(t *testing.T) {
	b, out := newTriangleNode(t)
	b.SetPosition(mgl32.Vec2{0.25, 0.25})
	b.SetTime(0)
	before := outputX(out)

	b.SetPosition(mgl32.Vec2{2, 2})
	b.SetTime(0)
	assert.Equal(t, before, outputX(out))
}

func TestBlend2DSquare(t *testing.T) {
	out := still(1000, 0)
	b := NewBlend2D(WithOutput(out))
	corners := []struct {
		at mgl32.Vec2
		x  float32
	}{
		{mgl32.Vec2{0, 0}, 0},
		{mgl32.Vec2{1, 0}, 10},
		{mgl32.Vec2{1, 1}, 20},
		{mgl32.Vec2{0, 1}, 10},
	}
	for _, c := range corners {
		require.NoError(t, b.AddInput(c.at, still(1000, c.x), 0))
	}
	require.Len(t, b.Triangles(), 2)

	b.SetPosition(mgl32.Vec2{0.5, 0.5})
	b.SetTime(0)
	assert.InDelta(t, 10, outputX(out), 1e-4)

	b.SetPosition(mgl32.Vec2{0.9, 0.2})
	b.SetTime(0)
	assert.InDelta(t, 11, outputX(out), 1e-4)
}
