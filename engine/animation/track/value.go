package track

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ValueType classifies the values of a track. It is inferred from the first keyframe.
type ValueType int

const (
	// ValueNumber is a single float.
	ValueNumber ValueType = iota
	// Value1DArray is a flat numeric array.
	Value1DArray
	// Value2DArray is an array of numeric arrays.
	Value2DArray
	// ValueColor is a color string interpolated as four rgba components.
	ValueColor
	// ValueUnknown is anything that cannot be interpolated.
	ValueUnknown
)

func (v ValueType) String() string {
	switch v {
	case ValueNumber:
		return "number"
	case Value1DArray:
		return "array1d"
	case Value2DArray:
		return "array2d"
	case ValueColor:
		return "color"
	default:
		return "unknown"
	}
}

func (v ValueType) isArray() bool {
	return v == Value1DArray || v == Value2DArray
}

// parsed is the interpolable form of a keyframe value. Colors use vec.
type parsed struct {
	num float64
	vec []float64
	mat [][]float64
}

// classify infers the value type of raw and converts it to its interpolable form.
// discrete is set for arrays whose elements are not numeric.
func classify(raw any) (vt ValueType, p parsed, discrete bool) {
	if s, ok := raw.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return ValueNumber, parsed{num: f}, false
		}
		if rgba, ok := ParseColor(s); ok {
			return ValueColor, parsed{vec: rgba[:]}, false
		}
		return ValueUnknown, p, false
	}
	if f, ok := toFloat(raw); ok {
		return ValueNumber, parsed{num: f}, false
	}

	rv := reflect.ValueOf(raw)
	if !isList(rv) {
		return ValueUnknown, p, false
	}
	if rv.Len() > 0 && isList(elem(rv.Index(0))) {
		mat, ok := toMatrix(rv)
		return Value2DArray, parsed{mat: mat}, !ok
	}
	vec, ok := toVector(rv)
	return Value1DArray, parsed{vec: vec}, !ok || len(vec) == 0
}

// toFloat converts any Go numeric kind to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func isList(rv reflect.Value) bool {
	return rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array)
}

// elem unwraps interface values held in []any.
func elem(rv reflect.Value) reflect.Value {
	for rv.IsValid() && rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv
}

func toVector(rv reflect.Value) ([]float64, bool) {
	out := make([]float64, rv.Len())
	for i := range out {
		e := elem(rv.Index(i))
		if !e.IsValid() || !e.CanInterface() {
			return out, false
		}
		f, ok := toFloat(e.Interface())
		if !ok {
			return out, false
		}
		out[i] = f
	}
	return out, true
}

func toMatrix(rv reflect.Value) ([][]float64, bool) {
	out := make([][]float64, rv.Len())
	valid := true
	for i := range out {
		row := elem(rv.Index(i))
		if !isList(row) {
			valid = false
			continue
		}
		vec, ok := toVector(row)
		if !ok || len(vec) == 0 {
			valid = false
		}
		out[i] = vec
	}
	return out, valid
}

// CloneValue deep copies slices so a captured value does not alias the live target.
// Other values are returned as is.
//
// Parameters:
//   - v: the value to copy
//
// Returns:
//   - any: a copy of v safe to keep as keyframe data
func CloneValue(v any) any {
	switch s := v.(type) {
	case []float64:
		return append([]float64(nil), s...)
	case [][]float64:
		out := make([][]float64, len(s))
		for i := range s {
			out[i] = append([]float64(nil), s[i]...)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.Slice {
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			e := rv.Index(i)
			if e.CanInterface() {
				if c := CloneValue(e.Interface()); c != nil {
					out.Index(i).Set(reflect.ValueOf(c))
					continue
				}
			}
			out.Index(i).Set(e)
		}
		return out.Interface()
	}
	return v
}

// fillArray aligns a non-final keyframe array with the final keyframe: missing trailing
// entries are copied from last, extra entries are dropped, NaN entries take the final value.
func fillArray(p *parsed, last parsed, vt ValueType) {
	if vt == Value1DArray {
		if len(p.vec) > len(last.vec) {
			p.vec = p.vec[:len(last.vec)]
		}
		for i := len(p.vec); i < len(last.vec); i++ {
			p.vec = append(p.vec, last.vec[i])
		}
		for i := range p.vec {
			if math.IsNaN(p.vec[i]) {
				p.vec[i] = last.vec[i]
			}
		}
		return
	}

	if len(p.mat) > len(last.mat) {
		p.mat = p.mat[:len(last.mat)]
	}
	for i := len(p.mat); i < len(last.mat); i++ {
		p.mat = append(p.mat, append([]float64(nil), last.mat[i]...))
	}
	for i := range p.mat {
		for j := range p.mat[i] {
			if math.IsNaN(p.mat[i][j]) && j < len(last.mat[i]) {
				p.mat[i][j] = last.mat[i][j]
			}
		}
	}
}
