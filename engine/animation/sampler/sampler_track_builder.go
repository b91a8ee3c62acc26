package sampler

// SamplerTrackBuilderOption is a functional option for configuring a SamplerTrack.
type SamplerTrackBuilderOption func(*SamplerTrack)

// WithName sets the name of the animated joint.
//
// Parameters:
//   - name: the joint name
//
// Returns:
//   - SamplerTrackBuilderOption: option function to apply
func WithName(name string) SamplerTrackBuilderOption {
	return func(s *SamplerTrack) {
		s.name = name
	}
}

// WithChannels sets the keyframe buffers. The buffers are used as is, not copied.
//
// Parameters:
//   - ch: the channel buffers
//
// Returns:
//   - SamplerTrackBuilderOption: option function to apply
func WithChannels(ch Channels) SamplerTrackBuilderOption {
	return func(s *SamplerTrack) {
		s.channels = ch
	}
}

// WithTarget sets the object receiving pose updates.
//
// Parameters:
//   - target: the pose receiver
//
// Returns:
//   - SamplerTrackBuilderOption: option function to apply
func WithTarget(target Target) SamplerTrackBuilderOption {
	return func(s *SamplerTrack) {
		s.target = target
	}
}
