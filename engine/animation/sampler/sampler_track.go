package sampler

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// Channels holds the keyframe data of a SamplerTrack in flat buffers, one entry per key:
// Time in milliseconds, Position and Scale with 3 floats per key, Rotation with 4 floats per
// key in (x, y, z, w) order. Missing transform channels are left nil.
type Channels struct {
	Time     []float32
	Position []float32
	Rotation []float32
	Scale    []float32
}

// SamplerTrack samples a joint transform from glTF style flat channel buffers.
// Keys are expected in ascending time order.
type SamplerTrack struct {
	name     string
	channels Channels
	pose     Pose
	target   Target

	cacheKey int
}

var _ JointTrack = &SamplerTrack{}

// NewSamplerTrack creates a new SamplerTrack with the specified options applied.
//
// Parameters:
//   - options: variadic list of SamplerTrackBuilderOption functions
//
// Returns:
//   - *SamplerTrack: the configured track, posed at identity until the first SetTime
func NewSamplerTrack(options ...SamplerTrackBuilderOption) *SamplerTrack {
	s := &SamplerTrack{pose: IdentityPose()}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *SamplerTrack) Name() string {
	return s.name
}

// Channels returns the keyframe buffers. They are shared with clones and must not be modified.
func (s *SamplerTrack) Channels() Channels {
	return s.channels
}

func (s *SamplerTrack) Pose() *Pose {
	return &s.pose
}

func (s *SamplerTrack) SetTarget(target Target) {
	s.target = target
}

func (s *SamplerTrack) MaxTime() float64 {
	if n := len(s.channels.Time); n > 0 {
		return float64(s.channels.Time[n-1])
	}
	return 0
}

// SetTime samples the channels at time. Times outside the key range clamp to the first or
// last key. The interval found by the previous call is checked before falling back to a
// binary search.
func (s *SamplerTrack) SetTime(time float64) {
	ts := s.channels.Time
	n := len(ts)
	if n == 0 {
		return
	}
	if n == 1 {
		s.sampleInto(&s.pose, 0, 0)
		s.UpdateTarget()
		return
	}

	t := float32(time)
	var key int
	switch {
	case t <= ts[0]:
		t, key = ts[0], 0
	case t >= ts[n-1]:
		t, key = ts[n-1], n-2
	case s.cacheKey < n-1 && ts[s.cacheKey] <= t && t < ts[s.cacheKey+1]:
		key = s.cacheKey
	default:
		key = s.search(t)
	}
	s.cacheKey = key

	s.sampleInto(&s.pose, key, percentIn(ts, key, t))
	s.UpdateTarget()
}

// search returns the index of the interval containing t, for t strictly inside the key range.
func (s *SamplerTrack) search(t float32) int {
	ts := s.channels.Time
	return sort.Search(len(ts), func(i int) bool { return ts[i] > t }) - 1
}

func percentIn(ts []float32, key int, t float32) float32 {
	if key+1 >= len(ts) {
		return 0
	}
	span := ts[key+1] - ts[key]
	if span == 0 {
		return 0
	}
	return (t - ts[key]) / span
}

// sampleInto interpolates between key and key+1 by w into out. Channels that are too short
// for the key are skipped.
func (s *SamplerTrack) sampleInto(out *Pose, key int, w float32) {
	next := key + 1
	if next >= len(s.channels.Time) {
		next = key
	}
	if r := s.channels.Rotation; len(r) >= (next+1)*4 {
		out.Rotation = common.QuatSlerp(common.QuatFromSlice(r, key*4), common.QuatFromSlice(r, next*4), w)
	}
	if p := s.channels.Position; len(p) >= (next+1)*3 {
		out.Position = common.Vec3Lerp(common.Vec3FromSlice(p, key*3), common.Vec3FromSlice(p, next*3), w)
	}
	if sc := s.channels.Scale; len(sc) >= (next+1)*3 {
		out.Scale = common.Vec3Lerp(common.Vec3FromSlice(sc, key*3), common.Vec3FromSlice(sc, next*3), w)
	}
}

// sampleAt evaluates the track at t without touching the cache, the pose or the target.
func (s *SamplerTrack) sampleAt(t float32) Pose {
	out := IdentityPose()
	ts := s.channels.Time
	n := len(ts)
	switch {
	case n == 0:
	case n == 1 || t <= ts[0]:
		s.sampleInto(&out, 0, 0)
	case t >= ts[n-1]:
		s.sampleInto(&out, n-1, 0)
	default:
		key := s.search(t)
		s.sampleInto(&out, key, percentIn(ts, key, t))
	}
	return out
}

// UpdateTarget pushes the sampled pose to the target. Only channels with data are written.
func (s *SamplerTrack) UpdateTarget() {
	if s.target == nil {
		return
	}
	if s.channels.Position != nil {
		s.target.SetPosition(s.pose.Position)
	}
	if s.channels.Rotation != nil {
		s.target.SetRotation(s.pose.Rotation)
	}
	if s.channels.Scale != nil {
		s.target.SetScale(s.pose.Scale)
	}
}

// SubTrack extracts [start, end) into an independent track whose time starts at zero.
// The range is clamped to the key range; the new track begins and ends with keys sampled
// at start and end and keeps every original key strictly in between.
func (s *SamplerTrack) SubTrack(start, end float64) JointTrack {
	sub := NewSamplerTrack(WithName(s.name))
	ts := s.channels.Time
	n := len(ts)
	if n == 0 {
		return sub
	}
	lo, hi := float64(ts[0]), float64(ts[n-1])
	start = common.Clamp(start, lo, hi)
	end = common.Clamp(end, start, hi)

	s0, s1 := float32(start), float32(end)
	var inner []int
	for i, t := range ts {
		if t > s0 && t < s1 {
			inner = append(inner, i)
		}
	}
	count := len(inner) + 2
	if s1 == s0 {
		count = 1
	}

	ch := Channels{Time: make([]float32, 0, count)}
	if s.channels.Position != nil {
		ch.Position = make([]float32, 0, count*3)
	}
	if s.channels.Rotation != nil {
		ch.Rotation = make([]float32, 0, count*4)
	}
	if s.channels.Scale != nil {
		ch.Scale = make([]float32, 0, count*3)
	}
	appendPose := func(time float32, p Pose) {
		ch.Time = append(ch.Time, time)
		if ch.Position != nil {
			ch.Position = append(ch.Position, p.Position[:]...)
		}
		if ch.Rotation != nil {
			ch.Rotation = append(ch.Rotation, 0, 0, 0, 0)
			common.QuatToSlice(ch.Rotation, len(ch.Rotation)-4, p.Rotation)
		}
		if ch.Scale != nil {
			ch.Scale = append(ch.Scale, p.Scale[:]...)
		}
	}

	appendPose(0, s.sampleAt(s0))
	if count > 1 {
		for _, i := range inner {
			var p Pose
			s.sampleInto(&p, i, 0)
			appendPose(ts[i]-s0, p)
		}
		appendPose(s1-s0, s.sampleAt(s1))
	}
	sub.channels = ch
	return sub
}

// Clone returns a track sharing the channel buffers, with its own pose and cache and no target.
func (s *SamplerTrack) Clone() JointTrack {
	return &SamplerTrack{
		name:     s.name,
		channels: s.channels,
		pose:     s.pose,
	}
}
