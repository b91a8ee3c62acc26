package timeline

// TimelineBuilderOption is a functional option for configuring a Timeline.
type TimelineBuilderOption func(*timeline)

// WithRenderCallback sets the function called after a tick that stepped at least one clip.
//
// Parameters:
//   - fn: the render callback
//
// Returns:
//   - TimelineBuilderOption: option function to apply
func WithRenderCallback(fn func()) TimelineBuilderOption {
	return func(t *timeline) {
		t.render = fn
	}
}

// WithFrameCallback adds a function called at the end of every tick.
//
// Parameters:
//   - fn: the frame callback
//
// Returns:
//   - TimelineBuilderOption: option function to apply
func WithFrameCallback(fn FrameCallback) TimelineBuilderOption {
	return func(t *timeline) {
		if fn != nil {
			t.onFrame = append(t.onFrame, fn)
		}
	}
}

// WithStartTime sets the initial clock value.
//
// Parameters:
//   - ms: the start time in milliseconds
//
// Returns:
//   - TimelineBuilderOption: option function to apply
func WithStartTime(ms float64) TimelineBuilderOption {
	return func(t *timeline) {
		t.time = ms
	}
}
