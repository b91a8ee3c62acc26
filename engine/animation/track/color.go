package track

import (
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor parses a CSS color into rgba components, r, g and b in [0, 255] and alpha in [0, 1].
// Accepted forms are "#rgb", "#rrggbb", "rgb(r, g, b)", "rgba(r, g, b, a)",
// "hsl(h, s%, l%)", "hsla(h, s%, l%, a)", "transparent" and the CSS named colors.
//
// Parameters:
//   - s: the color string
//
// Returns:
//   - [4]float64: the rgba components
//   - bool: false when s is not a recognizable color
func ParseColor(s string) ([4]float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return [4]float64{}, false
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return [4]float64{}, false
		}
		r, g, b := c.RGB255()
		return [4]float64{float64(r), float64(g), float64(b), 1}, true
	}

	if open := strings.IndexByte(s, '('); open > 0 && strings.HasSuffix(s, ")") {
		fn := s[:open]
		args := strings.Split(s[open+1:len(s)-1], ",")
		switch fn {
		case "rgb", "rgba":
			return parseRGBFunc(args, fn == "rgba")
		case "hsl", "hsla":
			return parseHSLFunc(args, fn == "hsla")
		}
		return [4]float64{}, false
	}

	if s == "transparent" {
		return [4]float64{0, 0, 0, 0}, true
	}
	if c, ok := colornames.Map[s]; ok {
		return [4]float64{float64(c.R), float64(c.G), float64(c.B), float64(c.A) / 255}, true
	}
	return [4]float64{}, false
}

func parseRGBFunc(args []string, alpha bool) ([4]float64, bool) {
	if (alpha && len(args) != 4) || (!alpha && len(args) != 3) {
		return [4]float64{}, false
	}
	out := [4]float64{0, 0, 0, 1}
	for i := 0; i < 3; i++ {
		v, pct, ok := parseComponent(args[i])
		if !ok {
			return [4]float64{}, false
		}
		if pct {
			v = v / 100 * 255
		}
		out[i] = clampByte(v)
	}
	if alpha {
		a, ok := parseAlpha(args[3])
		if !ok {
			return [4]float64{}, false
		}
		out[3] = a
	}
	return out, true
}

func parseHSLFunc(args []string, alpha bool) ([4]float64, bool) {
	if (alpha && len(args) != 4) || (!alpha && len(args) != 3) {
		return [4]float64{}, false
	}
	h, _, ok := parseComponent(args[0])
	if !ok {
		return [4]float64{}, false
	}
	sat, _, ok := parseComponent(args[1])
	if !ok {
		return [4]float64{}, false
	}
	light, _, ok := parseComponent(args[2])
	if !ok {
		return [4]float64{}, false
	}
	h = math.Mod(math.Mod(h, 360)+360, 360)
	c := colorful.Hsl(h, math.Min(math.Max(sat/100, 0), 1), math.Min(math.Max(light/100, 0), 1))
	r, g, b := c.Clamped().RGB255()
	out := [4]float64{float64(r), float64(g), float64(b), 1}
	if alpha {
		a, ok := parseAlpha(args[3])
		if !ok {
			return [4]float64{}, false
		}
		out[3] = a
	}
	return out, true
}

func parseComponent(s string) (v float64, pct bool, ok bool) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		pct = true
		s = strings.TrimSuffix(s, "%")
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, pct, err == nil
}

func parseAlpha(s string) (float64, bool) {
	v, pct, ok := parseComponent(s)
	if !ok {
		return 0, false
	}
	if pct {
		v /= 100
	}
	return math.Min(math.Max(v, 0), 1), true
}

func clampByte(v float64) float64 {
	return math.Min(math.Max(math.Round(v), 0), 255)
}

// FormatRGBA serializes rgba components as "rgba(r,g,b,a)". r, g and b are floored and
// NaN components become 0.
//
// Parameters:
//   - c: the rgba components
//
// Returns:
//   - string: the CSS rgba string
func FormatRGBA(c []float64) string {
	var b strings.Builder
	b.WriteString("rgba(")
	for i := 0; i < 3; i++ {
		v := math.Floor(c[i])
		if math.IsNaN(v) {
			v = 0
		}
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		b.WriteByte(',')
	}
	a := 1.0
	if len(c) > 3 {
		a = c[3]
	}
	b.WriteString(strconv.FormatFloat(a, 'f', -1, 64))
	b.WriteByte(')')
	return b.String()
}
