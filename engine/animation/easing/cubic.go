package easing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const epsilon = 1e-8

var (
	cubicBezierPattern = regexp.MustCompile(`cubic-bezier\(([0-9,.e ]+)\)`)
	threeSqrt          = math.Sqrt(3)
)

// CubicBezier builds an easing from a CSS style "cubic-bezier(x1, y1, x2, y2)" string.
// The curve runs from (0, 0) to (1, 1); for a progress p the bezier parameter whose x
// equals p is solved in closed form and the matching y is returned.
//
// Parameters:
//   - s: the cubic-bezier description
//
// Returns:
//   - Func: the easing, or nil when s is not a well formed cubic-bezier string
func CubicBezier(s string) Func {
	m := cubicBezierPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	parts := strings.Split(m[1], ",")
	if len(parts) != 4 {
		return nil
	}
	var pts [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) {
			return nil
		}
		pts[i] = v
	}
	x1, y1, x2, y2 := pts[0], pts[1], pts[2], pts[3]

	var roots [3]float64
	return func(p float64) float64 {
		if p <= 0 {
			return 0
		}
		if p >= 1 {
			return 1
		}
		if cubicRootAt(0, x1, x2, 1, p, roots[:]) == 0 {
			return p
		}
		return cubicAt(0, y1, y2, 1, roots[0])
	}
}

func aroundZero(v float64) bool {
	return v > -epsilon && v < epsilon
}

// cubicAt evaluates a one dimensional cubic bezier at t.
func cubicAt(p0, p1, p2, p3, t float64) float64 {
	onet := 1 - t
	return onet*onet*(onet*p0+3*t*p1) + t*t*(t*p3+3*onet*p2)
}

// cubicRootAt writes into roots every t in [0, 1] where the cubic bezier equals val and
// returns how many were found. Uses the Shengjin discriminant to pick between the
// repeated-root, Cardano and trigonometric cases.
func cubicRootAt(p0, p1, p2, p3, val float64, roots []float64) int {
	a := p3 + 3*(p1-p2) - p0
	b := 3 * (p2 - p1*2 + p0)
	c := 3 * (p1 - p0)
	d := p0 - val

	A := b*b - 3*a*c
	B := b*c - 9*a*d
	C := c*c - 3*b*d

	n := 0
	push := func(t float64) {
		if t >= 0 && t <= 1 {
			roots[n] = t
			n++
		}
	}

	if aroundZero(A) && aroundZero(B) {
		if aroundZero(b) {
			// a, b and c all vanish only for a constant curve; with b == 0 the
			// remaining linear term gives the root.
			if aroundZero(c) {
				roots[0] = 0
				return 1
			}
			push(-d / c)
		} else {
			push(-c / b)
		}
		return n
	}

	if aroundZero(a) {
		// quadratic: b*t^2 + c*t + d = 0
		qd := c*c - 4*b*d
		if qd < 0 {
			return 0
		}
		qs := math.Sqrt(qd)
		push((-c + qs) / (2 * b))
		push((-c - qs) / (2 * b))
		return n
	}

	disc := B*B - 4*A*C
	switch {
	case aroundZero(disc):
		k := B / A
		push(-b/a + k)
		push(-k / 2)
	case disc > 0:
		ds := math.Sqrt(disc)
		y1 := math.Cbrt(A*b + 1.5*a*(-B+ds))
		y2 := math.Cbrt(A*b + 1.5*a*(-B-ds))
		push((-b - (y1 + y2)) / (3 * a))
	default:
		t := (2*A*b - 3*a*B) / (2 * math.Sqrt(A*A*A))
		theta := math.Acos(math.Max(-1, math.Min(1, t))) / 3
		as := math.Sqrt(A)
		ct, st := math.Cos(theta), math.Sin(theta)
		push((-b - 2*as*ct) / (3 * a))
		push((-b + as*(ct+threeSqrt*st)) / (3 * a))
		push((-b + as*(ct-threeSqrt*st)) / (3 * a))
	}
	return n
}
