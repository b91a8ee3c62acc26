package sampler

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestPoseBlend2DBarycentricSum(t *testing.T) {
	a := IdentityPose()
	b := IdentityPose()
	c := IdentityPose()
	a.Position = mgl32.Vec3{1, 0, 0}
	b.Position = mgl32.Vec3{10, 0, 0}
	c.Position = mgl32.Vec3{100, 0, 0}

	var out Pose
	f, g := float32(0.2), float32(0.3)
	out.Blend2D(&a, &b, &c, f, g)
	assert.InDelta(t, 0.5*1+0.2*10+0.3*100, out.Position.X(), 1e-4)
	assert.InDelta(t, 1, out.Scale.X(), 1e-6)
}

func TestPoseBlend2DDegenerateCopiesFirstRotation(t *testing.T) {
	a := IdentityPose()
	a.Rotation = quarterTurn
	b := IdentityPose()
	c := IdentityPose()

	var out Pose
	out.Blend2D(&a, &b, &c, 0, 0)
	assert.Equal(t, quarterTurn, out.Rotation)
}

func TestPoseBlend1D(t *testing.T) {
	a := IdentityPose()
	b := IdentityPose()
	b.Position = mgl32.Vec3{0, 0, 8}
	b.Rotation = quarterTurn

	var out Pose
	out.Blend1D(&a, &b, 0.25)
	assert.InDelta(t, 2, out.Position.Z(), 1e-6)
	want := mgl32.QuatRotate(mgl32.DegToRad(22.5), mgl32.Vec3{0, 1, 0})
	assert.True(t, out.Rotation.ApproxEqualThreshold(want, 1e-5))
}

func TestAdditiveThenSubtractiveRoundTrips(t *testing.T) {
	base := IdentityPose()
	base.Position = mgl32.Vec3{1, 2, 3}
	base.Rotation = mgl32.QuatRotate(0.3, mgl32.Vec3{1, 0, 0})
	layer := IdentityPose()
	layer.Position = mgl32.Vec3{0.5, 0, 0}
	layer.Scale = mgl32.Vec3{0, 0, 0}
	layer.Rotation = quarterTurn

	var sum, diff Pose
	sum.AdditiveBlend(&base, &layer)
	assert.True(t, sum.Rotation.ApproxEqualThreshold(quarterTurn.Mul(base.Rotation), 1e-6))

	diff.SubtractiveBlend(&sum, &layer)
	assert.True(t, diff.Position.ApproxEqualThreshold(base.Position, 1e-6))
	assert.True(t, diff.Rotation.ApproxEqualThreshold(base.Rotation, 1e-5))
	assert.Equal(t, base.Scale, diff.Scale)
}
