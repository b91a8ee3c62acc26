// Package sampler samples rigid joint transforms (position, rotation, scale) from keyframe
// data and combines the sampled poses of several sources.
package sampler

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// Pose is a decomposed joint transform.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// IdentityPose returns a pose at the origin with no rotation and unit scale.
func IdentityPose() Pose {
	return Pose{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Copy sets p to src.
func (p *Pose) Copy(src *Pose) {
	*p = *src
}

// Blend1D interpolates between two poses: vectors linearly, rotation along the shortest arc.
//
// Parameters:
//   - a: the pose at w = 0
//   - b: the pose at w = 1
//   - w: the blend weight
func (p *Pose) Blend1D(a, b *Pose, w float32) {
	p.Position = common.Vec3Lerp(a.Position, b.Position, w)
	p.Scale = common.Vec3Lerp(a.Scale, b.Scale, w)
	p.Rotation = common.QuatSlerp(a.Rotation, b.Rotation, w)
}

// Blend2D combines three poses with barycentric weights (1-f-g, f, g).
// Rotation is blended as slerp(slerp(a, b, f+g), slerp(a, c, f+g), g/(f+g)); when f+g is
// zero the rotation of a is used as is.
//
// Parameters:
//   - a: the pose weighted by 1-f-g
//   - b: the pose weighted by f
//   - c: the pose weighted by g
//   - f: weight of b
//   - g: weight of c
func (p *Pose) Blend2D(a, b, c *Pose, f, g float32) {
	wa := 1 - f - g
	p.Position = a.Position.Mul(wa).Add(b.Position.Mul(f)).Add(c.Position.Mul(g))
	p.Scale = a.Scale.Mul(wa).Add(b.Scale.Mul(f)).Add(c.Scale.Mul(g))

	s := f + g
	if s == 0 {
		p.Rotation = a.Rotation
		return
	}
	q1 := common.QuatSlerp(a.Rotation, b.Rotation, s)
	q2 := common.QuatSlerp(a.Rotation, c.Rotation, s)
	p.Rotation = common.QuatSlerp(q1, q2, g/s)
}

// AdditiveBlend layers b on top of a: vectors are summed and rotation composes as b*a.
func (p *Pose) AdditiveBlend(a, b *Pose) {
	p.Position = a.Position.Add(b.Position)
	p.Scale = a.Scale.Add(b.Scale)
	p.Rotation = b.Rotation.Mul(a.Rotation)
}

// SubtractiveBlend removes b from a: vectors are subtracted and rotation composes as inv(b)*a.
func (p *Pose) SubtractiveBlend(a, b *Pose) {
	p.Position = a.Position.Sub(b.Position)
	p.Scale = a.Scale.Sub(b.Scale)
	p.Rotation = b.Rotation.Inverse().Mul(a.Rotation)
}
