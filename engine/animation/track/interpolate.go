package track

import "github.com/Carmen-Shannon/oxy-anim/common"

// lerpVec writes the component-wise interpolation of a and b into out, reusing its backing
// array when it is large enough.
func lerpVec(out, a, b []float64, w float64) []float64 {
	n := min(len(a), len(b))
	out = resize(out, n)
	for i := 0; i < n; i++ {
		out[i] = common.Lerp(a[i], b[i], w)
	}
	return out
}

func lerpMat(out, a, b [][]float64, w float64) [][]float64 {
	n := min(len(a), len(b))
	out = resizeMat(out, n)
	for i := 0; i < n; i++ {
		out[i] = lerpVec(out[i], a[i], b[i], w)
	}
	return out
}

// catmullRom evaluates a uniform Catmull-Rom segment between p1 and p2.
func catmullRom(p0, p1, p2, p3, t, t2, t3 float64) float64 {
	v0 := (p2 - p0) * 0.5
	v1 := (p3 - p1) * 0.5
	return (2*(p1-p2)+v0+v1)*t3 + (-3*(p1-p2)-2*v0-v1)*t2 + v0*t + p1
}

func catmullRomVec(out, p0, p1, p2, p3 []float64, t float64) []float64 {
	n := min(len(p0), len(p1), len(p2), len(p3))
	out = resize(out, n)
	t2 := t * t
	t3 := t2 * t
	for i := 0; i < n; i++ {
		out[i] = catmullRom(p0[i], p1[i], p2[i], p3[i], t, t2, t3)
	}
	return out
}

func catmullRomMat(out, p0, p1, p2, p3 [][]float64, t float64) [][]float64 {
	n := min(len(p0), len(p1), len(p2), len(p3))
	out = resizeMat(out, n)
	for i := 0; i < n; i++ {
		out[i] = catmullRomVec(out[i], p0[i], p1[i], p2[i], p3[i], t)
	}
	return out
}

// addVec writes a + b*sign into out.
func addVec(out, a, b []float64, sign float64) []float64 {
	n := min(len(a), len(b))
	out = resize(out, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] + b[i]*sign
	}
	return out
}

func addMat(out, a, b [][]float64, sign float64) [][]float64 {
	n := min(len(a), len(b))
	out = resizeMat(out, n)
	for i := 0; i < n; i++ {
		out[i] = addVec(out[i], a[i], b[i], sign)
	}
	return out
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}

func resizeMat(s [][]float64, n int) [][]float64 {
	if cap(s) < n {
		grown := make([][]float64, n)
		copy(grown, s)
		return grown
	}
	return s[:n]
}
