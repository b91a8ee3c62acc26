package sampler

import "github.com/go-gl/mathgl/mgl32"

// Target receives the sampled transform of a joint, typically a scene node or bone.
type Target interface {
	SetPosition(p mgl32.Vec3)
	SetRotation(q mgl32.Quat)
	SetScale(s mgl32.Vec3)
}

// JointTrack samples the transform of a single joint over time.
// SamplerTrack and TransformTrack are the two implementations.
type JointTrack interface {
	// Name returns the joint name.
	//
	// Returns:
	//   - string: the name of the animated joint
	Name() string

	// SetTime samples the track at time and pushes the result to the target, if any.
	//
	// Parameters:
	//   - time: the sample time in milliseconds
	SetTime(time float64)

	// MaxTime returns the time of the last keyframe.
	//
	// Returns:
	//   - float64: the track length in milliseconds
	MaxTime() float64

	// Pose returns the current sampled pose. Blend operations write it in place.
	//
	// Returns:
	//   - *Pose: the live pose of the track
	Pose() *Pose

	// SubTrack extracts the [start, end) range as a new track whose time starts at zero.
	//
	// Parameters:
	//   - start: range start in milliseconds
	//   - end: range end in milliseconds
	//
	// Returns:
	//   - JointTrack: the extracted track
	SubTrack(start, end float64) JointTrack

	// Clone returns a track sharing the keyframe data with its own pose and cache.
	//
	// Returns:
	//   - JointTrack: the copy
	Clone() JointTrack

	// UpdateTarget pushes the current pose to the target.
	UpdateTarget()

	// SetTarget sets the object receiving pose updates. Nil detaches the track.
	//
	// Parameters:
	//   - target: the pose receiver
	SetTarget(target Target)
}
