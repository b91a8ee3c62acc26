package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

// Number is any integer or floating point type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Clamp limits v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - T: v clamped to [lo, hi]
func Clamp[T Number](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b by t. t is not clamped.
//
// Parameters:
//   - a: the value at t = 0
//   - b: the value at t = 1
//   - t: the interpolation weight
//
// Returns:
//   - T: a + (b - a) * t
func Lerp[T constraints.Float](a, b, t T) T {
	return (b-a)*t + a
}

// Mod returns x modulo m, keeping the sign of x like the % operator on floats.
// A non-positive or non-finite m returns x unchanged so callers never divide by zero
// when an input has no length.
//
// Parameters:
//   - x: the dividend
//   - m: the divisor
//
// Returns:
//   - float64: the remainder of x / m, or x when m <= 0
func Mod(x, m float64) float64 {
	if m <= 0 || math.IsInf(m, 0) || math.IsNaN(m) {
		return x
	}
	return math.Mod(x, m)
}

// Vec3Lerp linearly interpolates two vectors component-wise.
//
// Parameters:
//   - a: the vector at t = 0
//   - b: the vector at t = 1
//   - t: the interpolation weight
//
// Returns:
//   - mgl32.Vec3: the interpolated vector
func Vec3Lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// QuatSlerp spherically interpolates between two unit quaternions along the shortest arc.
// The second quaternion is negated when the pair lies in opposite hemispheres, then the
// interpolation is delegated to mgl32.QuatSlerp. Endpoints are returned exactly.
//
// Parameters:
//   - a: the rotation at t = 0
//   - b: the rotation at t = 1
//   - t: the interpolation weight in [0, 1]
//
// Returns:
//   - mgl32.Quat: the interpolated rotation
func QuatSlerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if t <= 0 {
		return a
	}
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	if t >= 1 {
		return b
	}
	return mgl32.QuatSlerp(a, b, t)
}

// QuatFromSlice reads an (x, y, z, w) quaternion from a flat buffer at the given offset.
//
// Parameters:
//   - buf: the flat rotation buffer (4 floats per key)
//   - offset: index of the x component
//
// Returns:
//   - mgl32.Quat: the quaternion stored at offset
func QuatFromSlice(buf []float32, offset int) mgl32.Quat {
	return mgl32.Quat{
		W: buf[offset+3],
		V: mgl32.Vec3{buf[offset], buf[offset+1], buf[offset+2]},
	}
}

// QuatToSlice writes q into a flat buffer at the given offset in (x, y, z, w) order.
//
// Parameters:
//   - buf: the destination buffer
//   - offset: index of the x component
//   - q: the quaternion to store
func QuatToSlice(buf []float32, offset int, q mgl32.Quat) {
	buf[offset] = q.V[0]
	buf[offset+1] = q.V[1]
	buf[offset+2] = q.V[2]
	buf[offset+3] = q.W
}

// Vec3FromSlice reads a 3-component vector from a flat buffer at the given offset.
//
// Parameters:
//   - buf: the flat vector buffer (3 floats per key)
//   - offset: index of the x component
//
// Returns:
//   - mgl32.Vec3: the vector stored at offset
func Vec3FromSlice(buf []float32, offset int) mgl32.Vec3 {
	return mgl32.Vec3{buf[offset], buf[offset+1], buf[offset+2]}
}
