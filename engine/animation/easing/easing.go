// Package easing maps a normalized progress value in [0, 1] to an eased value.
//
// The named family is backed by github.com/tanema/gween/ease. Easings are addressed
// by the names used by keyframe data ("linear", "quadraticIn", "bounceInOut", ...)
// or by a CSS style "cubic-bezier(x1, y1, x2, y2)" string.
package easing

import (
	"sort"

	"github.com/tanema/gween/ease"
)

// Func maps a progress value k in [0, 1] to an eased value. Some curves (elastic, back)
// overshoot the unit range in between the endpoints.
type Func func(k float64) float64

// Linear is the identity easing.
func Linear(k float64) float64 {
	return k
}

// fromTween adapts a gween TweenFunc to a normalized Func by evaluating it with
// begin 0, change 1 and duration 1. The endpoints are pinned so every curve starts
// at exactly 0 and lands on exactly 1.
func fromTween(fn ease.TweenFunc) Func {
	return func(k float64) float64 {
		switch k {
		case 0:
			return 0
		case 1:
			return 1
		}
		return float64(fn(float32(k), 0, 1, 1))
	}
}

var named = map[string]Func{
	"linear": Linear,

	"quadraticIn":    fromTween(ease.InQuad),
	"quadraticOut":   fromTween(ease.OutQuad),
	"quadraticInOut": fromTween(ease.InOutQuad),

	"cubicIn":    fromTween(ease.InCubic),
	"cubicOut":   fromTween(ease.OutCubic),
	"cubicInOut": fromTween(ease.InOutCubic),

	"quarticIn":    fromTween(ease.InQuart),
	"quarticOut":   fromTween(ease.OutQuart),
	"quarticInOut": fromTween(ease.InOutQuart),

	"quinticIn":    fromTween(ease.InQuint),
	"quinticOut":   fromTween(ease.OutQuint),
	"quinticInOut": fromTween(ease.InOutQuint),

	"sinusoidalIn":    fromTween(ease.InSine),
	"sinusoidalOut":   fromTween(ease.OutSine),
	"sinusoidalInOut": fromTween(ease.InOutSine),

	"exponentialIn":    fromTween(ease.InExpo),
	"exponentialOut":   fromTween(ease.OutExpo),
	"exponentialInOut": fromTween(ease.InOutExpo),

	"circularIn":    fromTween(ease.InCirc),
	"circularOut":   fromTween(ease.OutCirc),
	"circularInOut": fromTween(ease.InOutCirc),

	"elasticIn":    fromTween(ease.InElastic),
	"elasticOut":   fromTween(ease.OutElastic),
	"elasticInOut": fromTween(ease.InOutElastic),

	"backIn":    fromTween(ease.InBack),
	"backOut":   fromTween(ease.OutBack),
	"backInOut": fromTween(ease.InOutBack),

	"bounceIn":    fromTween(ease.InBounce),
	"bounceOut":   fromTween(ease.OutBounce),
	"bounceInOut": fromTween(ease.InOutBounce),
}

// Named looks up an easing by name.
//
// Parameters:
//   - name: the easing name, e.g. "linear" or "cubicInOut"
//
// Returns:
//   - Func: the easing function, nil when unknown
//   - bool: true if the name is known
func Named(name string) (Func, bool) {
	fn, ok := named[name]
	return fn, ok
}

// Names returns every registered easing name in sorted order.
func Names() []string {
	names := make([]string, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve turns an easing description into a Func. Named easings win, then cubic-bezier strings.
//
// Parameters:
//   - s: an easing name or a "cubic-bezier(...)" string
//
// Returns:
//   - Func: the easing, or nil when s describes nothing usable (callers treat nil as linear)
func Resolve(s string) Func {
	if fn, ok := named[s]; ok {
		return fn
	}
	return CubicBezier(s)
}

// Apply evaluates fn at k, treating a nil fn as linear.
func Apply(fn Func, k float64) float64 {
	if fn == nil {
		return k
	}
	return fn(k)
}
