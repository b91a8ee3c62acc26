// Package track holds keyframe tracks for single named properties and the interpolation
// rules for numbers, numeric arrays, colors and discrete values.
package track

import (
	"math"
	"reflect"
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/easing"
)

// Keyframe is a value a property reaches at a given time.
type Keyframe struct {
	// Time is the keyframe time in milliseconds.
	Time float64

	// Percent is Time normalized by the animation length. Set by Track.Prepare.
	Percent float64

	// Raw is the value as it was given, used verbatim by discrete playback.
	Raw any

	// Easing shapes the segment arriving at this keyframe. Nil means linear.
	Easing easing.Func

	value    parsed
	additive parsed
}

// Track is the ordered keyframe sequence of one property of one target.
//
// The value type is inferred from the first keyframe. A later keyframe of a different type,
// or any value that cannot be interpolated, degrades the whole track to discrete playback.
type Track struct {
	prop      string
	keyframes []*Keyframe
	valType   ValueType
	discrete  bool
	needsSort bool
	spline    bool
	finished  bool

	additiveTrack *Track

	lastFrame   int
	lastPercent float64

	outVec []float64
	outMat [][]float64
	addVec []float64
	addMat [][]float64
}

// New creates an empty track for the named property.
//
// Parameters:
//   - prop: the property name on the target
//
// Returns:
//   - *Track: the new track
func New(prop string) *Track {
	return &Track{prop: prop}
}

// Prop returns the animated property name.
func (t *Track) Prop() string {
	return t.prop
}

// AddKeyframe appends a keyframe. Keyframes may be added in any order; Prepare sorts them.
//
// Parameters:
//   - time: the keyframe time in milliseconds
//   - raw: the property value at that time
//   - ease: easing of the segment arriving at this keyframe, nil for linear
//
// Returns:
//   - *Keyframe: the stored keyframe
func (t *Track) AddKeyframe(time float64, raw any, ease easing.Func) *Keyframe {
	t.needsSort = true

	vt, p, discrete := classify(raw)
	if vt == ValueUnknown {
		discrete = true
	}
	if len(t.keyframes) == 0 {
		t.valType = vt
	} else if vt != t.valType {
		discrete = true
	}
	t.discrete = t.discrete || discrete

	kf := &Keyframe{
		Time:   time,
		Raw:    raw,
		Easing: ease,
		value:  p,
	}
	t.keyframes = append(t.keyframes, kf)
	return kf
}

// Prepare readies the track for playback over maxTime milliseconds. Keyframes are sorted
// by time, array values are aligned with the final keyframe and NaN components are
// replaced by the final value. When additive names an interpolable, unfinished track of the
// same value type, keyframe deltas relative to the first keyframe are precomputed and
// Step adds them onto the live target value.
//
// Parameters:
//   - maxTime: the animation length in milliseconds
//   - additive: the base track to add onto, or nil
func (t *Track) Prepare(maxTime float64, additive *Track) {
	kfs := t.keyframes
	n := len(kfs)
	t.additiveTrack = nil
	if n == 0 {
		return
	}
	if t.needsSort {
		sort.SliceStable(kfs, func(i, j int) bool {
			return kfs[i].Time < kfs[j].Time
		})
		t.needsSort = false
	}

	last := kfs[n-1]
	for i, kf := range kfs {
		kf.Percent = 0
		if maxTime > 0 {
			kf.Percent = kf.Time / maxTime
		}
		if t.discrete || i == n-1 {
			continue
		}
		switch {
		case t.valType.isArray():
			fillArray(&kf.value, last.value, t.valType)
		case t.valType == ValueNumber && math.IsNaN(kf.value.num):
			kf.value.num = last.value.num
		}
	}

	if t.discrete || additive == nil || !additive.NeedsAnimate() ||
		additive.valType != t.valType || additive.finished {
		return
	}
	t.additiveTrack = additive
	start := kfs[0].value
	for _, kf := range kfs {
		switch t.valType {
		case ValueNumber:
			kf.additive.num = kf.value.num - start.num
		case Value1DArray, ValueColor:
			kf.additive.vec = addVec(nil, kf.value.vec, start.vec, -1)
		case Value2DArray:
			kf.additive.mat = addMat(nil, kf.value.mat, start.mat, -1)
		}
	}
}

// Step writes the value of the property at percent onto target.
//
// The bracketing keyframes are found from the cached position of the previous step,
// scanning backward when percent decreased. The arrival keyframe's easing shapes the
// local weight, except for discrete tracks which snap to the departure value until the
// arrival keyframe is reached.
//
// Parameters:
//   - target: the object to write
//   - percent: the normalized animation progress
func (t *Track) Step(target Target, percent float64) {
	kfs := t.keyframes
	n := len(kfs)
	if t.finished || n == 0 {
		return
	}
	if t.additiveTrack != nil && t.additiveTrack.finished {
		t.additiveTrack = nil
	}
	isAdditive := t.additiveTrack != nil

	idx := 0
	if n > 1 {
		if percent < t.lastPercent {
			for idx = min(t.lastFrame+1, n-1); idx >= 0; idx-- {
				if kfs[idx].Percent <= percent {
					break
				}
			}
			idx = min(idx, n-2)
		} else {
			for idx = t.lastFrame; idx < n; idx++ {
				if kfs[idx].Percent > percent {
					break
				}
			}
			idx = min(idx-1, n-2)
		}
		idx = max(idx, 0)
	}
	frame := kfs[idx]
	next := kfs[min(idx+1, n-1)]

	t.lastFrame = idx
	t.lastPercent = percent

	w := 1.0
	if interval := next.Percent - frame.Percent; interval != 0 {
		w = math.Min(math.Max((percent-frame.Percent)/interval, 0), 1)
	}

	if t.discrete {
		if w < 1 {
			target.Set(t.prop, frame.Raw)
		} else {
			target.Set(t.prop, next.Raw)
		}
		return
	}
	w = easing.Apply(next.Easing, w)

	val := func(i int) *parsed {
		kf := kfs[max(0, min(i, n-1))]
		if isAdditive {
			return &kf.additive
		}
		return &kf.value
	}
	p1, p2 := val(idx), val(idx+1)

	switch t.valType {
	case ValueNumber:
		var v float64
		if t.spline {
			v = catmullRom(val(idx-1).num, p1.num, p2.num, val(idx+2).num, w, w*w, w*w*w)
		} else {
			v = common.Lerp(p1.num, p2.num, w)
		}
		if isAdditive {
			cur, _ := target.Get(t.prop)
			f, _ := toFloat(cur)
			v += f
		}
		target.Set(t.prop, v)

	case Value1DArray, ValueColor:
		if t.spline {
			t.outVec = catmullRomVec(t.outVec, val(idx-1).vec, p1.vec, p2.vec, val(idx+2).vec, w)
		} else {
			t.outVec = lerpVec(t.outVec, p1.vec, p2.vec, w)
		}
		if t.valType == ValueColor {
			if isAdditive {
				t.addVec = addVec(t.addVec, t.currentColor(target), t.outVec, 1)
				target.Set(t.prop, FormatRGBA(t.addVec))
			} else {
				target.Set(t.prop, FormatRGBA(t.outVec))
			}
			return
		}
		if isAdditive {
			cur := t.currentVec(target)
			target.Set(t.prop, addVec(cur, cur, t.outVec, 1))
		} else {
			target.Set(t.prop, t.outVec)
		}

	case Value2DArray:
		if t.spline {
			t.outMat = catmullRomMat(t.outMat, val(idx-1).mat, p1.mat, p2.mat, val(idx+2).mat, w)
		} else {
			t.outMat = lerpMat(t.outMat, p1.mat, p2.mat, w)
		}
		if isAdditive {
			cur := t.currentMat(target)
			target.Set(t.prop, addMat(cur, cur, t.outMat, 1))
		} else {
			target.Set(t.prop, t.outMat)
		}
	}
}

// currentVec returns the live 1D array of the property, reusing it in place when the
// target already holds a []float64.
func (t *Track) currentVec(target Target) []float64 {
	cur, _ := target.Get(t.prop)
	if v, ok := cur.([]float64); ok {
		return v
	}
	_, p, _ := classify(cur)
	t.addVec = append(t.addVec[:0], p.vec...)
	return t.addVec
}

func (t *Track) currentMat(target Target) [][]float64 {
	cur, _ := target.Get(t.prop)
	if m, ok := cur.([][]float64); ok {
		return m
	}
	_, p, _ := classify(cur)
	t.addMat = p.mat
	return t.addMat
}

func (t *Track) currentColor(target Target) []float64 {
	cur, _ := target.Get(t.prop)
	s, _ := cur.(string)
	c, _ := ParseColor(s)
	return c[:]
}

// SetSpline switches between linear and Catmull-Rom interpolation of numeric values.
func (t *Track) SetSpline(spline bool) {
	t.spline = spline
}

// NeedsAnimate reports whether the track has any keyframe to play.
func (t *Track) NeedsAnimate() bool {
	return len(t.keyframes) >= 1
}

// AllValuesEqual reports whether every keyframe holds the same value, in which case
// playing the track would never change the target.
func (t *Track) AllValuesEqual() bool {
	if len(t.keyframes) == 0 {
		return true
	}
	first := t.keyframes[0]
	for _, kf := range t.keyframes[1:] {
		if !t.sameValue(first, kf) {
			return false
		}
	}
	return true
}

func (t *Track) sameValue(a, b *Keyframe) bool {
	if t.discrete {
		return reflect.DeepEqual(a.Raw, b.Raw)
	}
	switch t.valType {
	case ValueNumber:
		return a.value.num == b.value.num
	case Value1DArray, ValueColor:
		return equalVec(a.value.vec, b.value.vec)
	case Value2DArray:
		if len(a.value.mat) != len(b.value.mat) {
			return false
		}
		for i := range a.value.mat {
			if !equalVec(a.value.mat[i], b.value.mat[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func equalVec(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Discrete reports whether the track snaps between values instead of interpolating.
func (t *Track) Discrete() bool {
	return t.discrete
}

// ValueType returns the value type inferred from the first keyframe.
func (t *Track) ValueType() ValueType {
	return t.valType
}

// Finished reports whether the track has stopped writing to its target.
func (t *Track) Finished() bool {
	return t.finished
}

// SetFinished stops the track, and its additive base, from writing to the target.
func (t *Track) SetFinished() {
	t.finished = true
	if t.additiveTrack != nil {
		t.additiveTrack.SetFinished()
	}
}

// Reset clears the finished flag and the playback cache so the track can run again.
func (t *Track) Reset() {
	t.finished = false
	t.lastFrame = 0
	t.lastPercent = 0
}

// Keyframes returns the keyframes, sorted once Prepare has run.
func (t *Track) Keyframes() []*Keyframe {
	return t.keyframes
}

// AdditiveTrack returns the base track this track adds onto, or nil.
func (t *Track) AdditiveTrack() *Track {
	return t.additiveTrack
}

// FinalValue returns the value of the last keyframe in the form Step writes to a target:
// float64, a copied []float64 or [][]float64, an "rgba(...)" string, or the raw value of a
// discrete track.
//
// Returns:
//   - any: the final value, nil when the track is empty
func (t *Track) FinalValue() any {
	n := len(t.keyframes)
	if n == 0 {
		return nil
	}
	last := t.keyframes[n-1]
	if t.needsSort {
		for _, kf := range t.keyframes {
			if kf.Time >= last.Time {
				last = kf
			}
		}
	}
	if t.discrete {
		return last.Raw
	}
	switch t.valType {
	case ValueNumber:
		return last.value.num
	case Value1DArray:
		return append([]float64(nil), last.value.vec...)
	case Value2DArray:
		return CloneValue(last.value.mat)
	case ValueColor:
		return FormatRGBA(last.value.vec)
	}
	return last.Raw
}
