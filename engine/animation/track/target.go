package track

// Target is the object whose named properties a track animates.
// Values handed to Set are float64, []float64, [][]float64, an "rgba(...)" string,
// or the raw value of a discrete keyframe.
type Target interface {
	// Get returns the current value of the named property and whether it exists.
	Get(name string) (any, bool)

	// Set writes the named property.
	Set(name string, value any)
}

// Properties is a map backed Target.
type Properties map[string]any

var _ Target = Properties{}

// Get returns the value stored under name.
func (p Properties) Get(name string) (any, bool) {
	v, ok := p[name]
	return v, ok
}

// Set stores value under name.
func (p Properties) Set(name string, value any) {
	p[name] = value
}

// Float returns the named property as a float64, or 0 when it is missing or not numeric.
func (p Properties) Float(name string) float64 {
	f, _ := toFloat(p[name])
	return f
}
