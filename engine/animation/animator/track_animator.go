package animator

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/sampler"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// TrackAnimator plays a set of joint tracks from a single looping or one-shot clip and
// exposes the per-joint blend operations used by blend trees.
//
// Blend operations pair joints by index, so every animator taking part in a blend must
// hold its tracks in the same joint order.
type TrackAnimator struct {
	name   string
	tracks []sampler.JointTrack
	life   float64
	loop   bool

	hasRange   bool
	rangeStart float64
	rangeEnd   float64

	scheduler clip.Scheduler
	clip      *clip.Clip
}

// NewTrackAnimator creates a TrackAnimator over the given tracks. Its life is the longest
// track length.
//
// Parameters:
//   - name: the animator name, usually the source animation name
//   - loop: whether the clip restarts when it ends
//   - tracks: the joint tracks to play
//
// Returns:
//   - *TrackAnimator: the animator
func NewTrackAnimator(name string, loop bool, tracks ...sampler.JointTrack) *TrackAnimator {
	a := &TrackAnimator{
		name:   name,
		loop:   loop,
		tracks: append([]sampler.JointTrack(nil), tracks...),
	}
	a.calcLife()
	return a
}

// FromModelClip builds a TrackAnimator with one TransformTrack per channel of an imported
// animation. The life is the longer of the clip duration and its longest channel.
//
// Parameters:
//   - c: the imported animation
//   - skeleton: the skeleton used to name channels by bone, may be nil
//   - loop: whether the clip restarts when it ends
//
// Returns:
//   - *TrackAnimator: the animator, nil if c is nil
func FromModelClip(c *model.AnimationClip, skeleton *model.Skeleton, loop bool) *TrackAnimator {
	if c == nil {
		return nil
	}
	tracks := make([]sampler.JointTrack, 0, len(c.Channels))
	for _, ch := range c.Channels {
		tracks = append(tracks, sampler.FromChannel(ch, skeleton))
	}
	a := NewTrackAnimator(c.Name, loop, tracks...)
	a.life = max(a.life, c.DurationMs())
	return a
}

// FromModel builds a TrackAnimator from the named animation of m, naming channels by the
// model skeleton.
//
// Parameters:
//   - m: the model holding the imported animations
//   - name: the animation name
//   - loop: whether the clip restarts when it ends
//
// Returns:
//   - *TrackAnimator: the animator
//   - error: ErrAnimationNotFound wrapped with the model and animation names
func FromModel(m model.Model, name string, loop bool) (*TrackAnimator, error) {
	if m == nil {
		return nil, fmt.Errorf("nil model: %w", ErrAnimationNotFound)
	}
	c := m.Animation(name)
	if c == nil {
		return nil, fmt.Errorf("model %q has no animation %q (have %v): %w", m.Name(), name, m.AnimationNames(), ErrAnimationNotFound)
	}
	var skeleton *model.Skeleton
	if m.Skinned() {
		skeleton = m.Skeleton()
	}
	a := FromModelClip(c, skeleton, loop)
	if len(a.tracks) == 0 {
		return nil, fmt.Errorf("animation %q of model %q: %w", name, m.Name(), ErrNoTracks)
	}
	return a, nil
}

func (a *TrackAnimator) calcLife() {
	a.life = 0
	for _, t := range a.tracks {
		a.life = max(a.life, t.MaxTime())
	}
}

// Name returns the animator name.
func (a *TrackAnimator) Name() string {
	return a.name
}

// Tracks returns the joint tracks in joint order.
func (a *TrackAnimator) Tracks() []sampler.JointTrack {
	return a.tracks
}

// AddTrack appends a joint track and recomputes the life.
func (a *TrackAnimator) AddTrack(t sampler.JointTrack) {
	a.tracks = append(a.tracks, t)
	a.calcLife()
}

// RemoveTrack removes t from the animator.
//
// Parameters:
//   - t: the track to remove
//
// Returns:
//   - bool: true if the track was found
func (a *TrackAnimator) RemoveTrack(t sampler.JointTrack) bool {
	i := common.IndexOf(a.tracks, t)
	if i < 0 {
		return false
	}
	a.tracks = append(a.tracks[:i], a.tracks[i+1:]...)
	return true
}

// SetScheduler sets the scheduler the clip is registered with on Start.
func (a *TrackAnimator) SetScheduler(s clip.Scheduler) {
	a.scheduler = s
}

// Start creates the playback clip and registers it with the scheduler. Each frame samples
// every track at the elapsed time, offset by the range start when a range is set.
//
// Returns:
//   - error: ErrNoTracks if the animator has no tracks
func (a *TrackAnimator) Start() error {
	if len(a.tracks) == 0 {
		return ErrNoTracks
	}
	life := a.life
	if a.hasRange {
		life = a.rangeEnd - a.rangeStart
	}
	a.clip = clip.New(
		clip.WithName(a.name),
		clip.WithLife(life),
		clip.WithLoop(a.loop),
		clip.WithOnFrame(func(_, elapsed float64) {
			offset := 0.0
			if a.hasRange {
				offset = a.rangeStart
			}
			a.SetTime(elapsed + offset)
		}),
	)
	if a.scheduler != nil {
		a.scheduler.AddClip(a.clip)
	}
	log.Debug().Str("animator", a.name).Int("tracks", len(a.tracks)).Float64("life", life).Msg("track animator started")
	return nil
}

// Stop removes the clip from the scheduler.
func (a *TrackAnimator) Stop() {
	if a.clip == nil {
		return
	}
	if a.scheduler != nil {
		a.scheduler.RemoveClip(a.clip)
	}
	a.clip = nil
}

// Pause pauses playback.
func (a *TrackAnimator) Pause() {
	if a.clip != nil {
		a.clip.Pause()
	}
}

// Resume resumes playback.
func (a *TrackAnimator) Resume() {
	if a.clip != nil {
		a.clip.Resume()
	}
}

// SetTime samples every track at time.
//
// Parameters:
//   - time: the sample time in milliseconds
func (a *TrackAnimator) SetTime(time float64) {
	for _, t := range a.tracks {
		t.SetTime(time)
	}
}

// SetRange restricts playback to [start, end]. Both ends are clamped to the track life and
// the running clip, if any, is shortened to the range length.
//
// Parameters:
//   - start: range start in milliseconds
//   - end: range end in milliseconds
func (a *TrackAnimator) SetRange(start, end float64) {
	a.calcLife()
	a.hasRange = true
	a.rangeStart = min(start, a.life)
	a.rangeEnd = min(end, a.life)
	if a.clip != nil {
		a.clip.SetLife(a.rangeEnd - a.rangeStart)
	}
}

// ClearRange restores full-length playback.
func (a *TrackAnimator) ClearRange() {
	a.calcLife()
	a.hasRange = false
	if a.clip != nil {
		a.clip.SetLife(a.life)
	}
}

// Life returns the animation length in milliseconds.
func (a *TrackAnimator) Life() float64 {
	return a.life
}

// SetLife overrides the animation length.
func (a *TrackAnimator) SetLife(life float64) {
	a.life = life
}

// Clip returns the playback clip, nil before Start or after Stop.
func (a *TrackAnimator) Clip() *clip.Clip {
	return a.clip
}

// SubAnimator extracts [start, end] of every track into a new animator whose time starts
// at zero.
//
// Parameters:
//   - start: range start in milliseconds
//   - end: range end in milliseconds
//   - loop: whether the new animator loops
//
// Returns:
//   - *TrackAnimator: the extracted animator
func (a *TrackAnimator) SubAnimator(start, end float64, loop bool) *TrackAnimator {
	sub := &TrackAnimator{
		name:   a.name,
		loop:   loop,
		tracks: make([]sampler.JointTrack, 0, len(a.tracks)),
	}
	for _, t := range a.tracks {
		sub.tracks = append(sub.tracks, t.SubTrack(start, end))
	}
	sub.life = end - start
	return sub
}

// Clone returns an animator with cloned tracks. The clone has no clip and no scheduler.
func (a *TrackAnimator) Clone() *TrackAnimator {
	c := &TrackAnimator{
		name:   a.name,
		loop:   a.loop,
		tracks: make([]sampler.JointTrack, 0, len(a.tracks)),
		life:   a.life,
	}
	for _, t := range a.tracks {
		c.tracks = append(c.tracks, t.Clone())
	}
	return c
}

// jointCount is the number of joints shared by a and every other animator.
func (a *TrackAnimator) jointCount(others ...*TrackAnimator) int {
	n := len(a.tracks)
	for _, o := range others {
		n = min(n, len(o.tracks))
	}
	return n
}

// Blend1D writes the per-joint interpolation of x and y by w into this animator's poses.
//
// Parameters:
//   - x: the pose source at w = 0
//   - y: the pose source at w = 1
//   - w: the blend weight
func (a *TrackAnimator) Blend1D(x, y *TrackAnimator, w float32) {
	for i := range a.jointCount(x, y) {
		a.tracks[i].Pose().Blend1D(x.tracks[i].Pose(), y.tracks[i].Pose(), w)
	}
}

// Blend2D writes the barycentric blend of x, y and z into this animator's poses. y is
// weighted by f, z by g and x by 1 - f - g.
//
// Parameters:
//   - x: the first triangle vertex
//   - y: the second triangle vertex
//   - z: the third triangle vertex
//   - f: the weight of y
//   - g: the weight of z
func (a *TrackAnimator) Blend2D(x, y, z *TrackAnimator, f, g float32) {
	for i := range a.jointCount(x, y, z) {
		a.tracks[i].Pose().Blend2D(x.tracks[i].Pose(), y.tracks[i].Pose(), z.tracks[i].Pose(), f, g)
	}
}

// AdditiveBlend writes the per-joint sum of x and y into this animator's poses.
func (a *TrackAnimator) AdditiveBlend(x, y *TrackAnimator) {
	for i := range a.jointCount(x, y) {
		a.tracks[i].Pose().AdditiveBlend(x.tracks[i].Pose(), y.tracks[i].Pose())
	}
}

// SubtractiveBlend writes the per-joint difference x - y into this animator's poses.
func (a *TrackAnimator) SubtractiveBlend(x, y *TrackAnimator) {
	for i := range a.jointCount(x, y) {
		a.tracks[i].Pose().SubtractiveBlend(x.tracks[i].Pose(), y.tracks[i].Pose())
	}
}

// Copy copies every joint pose of src.
func (a *TrackAnimator) Copy(src *TrackAnimator) {
	for i := range a.jointCount(src) {
		a.tracks[i].Pose().Copy(src.tracks[i].Pose())
	}
}

// UpdateTargets pushes every joint pose to its target. Blend nodes call it after writing
// the output poses.
func (a *TrackAnimator) UpdateTargets() {
	for _, t := range a.tracks {
		t.UpdateTarget()
	}
}
