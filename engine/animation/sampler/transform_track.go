package sampler

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// TransformKeyframe is a sparse transform key. Nil fields leave that component to the
// neighbouring keys that do set it.
type TransformKeyframe struct {
	Time     float64
	Position *mgl32.Vec3
	Rotation *mgl32.Quat
	Scale    *mgl32.Vec3
}

type fieldKey[T any] struct {
	time  float64
	value T
}

// field is the keyed sequence of one transform component with its own lookup cache.
type field[T any] struct {
	keys     []fieldKey[T]
	cacheKey int
}

// sample returns the component at time, clamped to the first and last key.
func (f *field[T]) sample(time float64, mix func(a, b T, w float32) T) (T, bool) {
	var zero T
	n := len(f.keys)
	switch {
	case n == 0:
		return zero, false
	case n == 1 || time <= f.keys[0].time:
		return f.keys[0].value, true
	case time >= f.keys[n-1].time:
		return f.keys[n-1].value, true
	}

	k := f.cacheKey
	if k >= n-1 || f.keys[k].time > time || f.keys[k+1].time <= time {
		k = sort.Search(n, func(i int) bool { return f.keys[i].time > time }) - 1
		f.cacheKey = k
	}
	a, b := f.keys[k], f.keys[k+1]
	w := float32(common.Clamp((time-a.time)/(b.time-a.time), 0, 1))
	return mix(a.value, b.value, w), true
}

// slice returns the keys of [start, end] rebased to start, with sampled endpoint keys.
func (f *field[T]) slice(start, end float64, mix func(a, b T, w float32) T) field[T] {
	var out field[T]
	if len(f.keys) == 0 {
		return out
	}
	probe := field[T]{keys: f.keys}
	v, _ := probe.sample(start, mix)
	out.keys = append(out.keys, fieldKey[T]{0, v})
	if end <= start {
		return out
	}
	for _, k := range f.keys {
		if k.time > start && k.time < end {
			out.keys = append(out.keys, fieldKey[T]{k.time - start, k.value})
		}
	}
	v, _ = probe.sample(end, mix)
	out.keys = append(out.keys, fieldKey[T]{end - start, v})
	return out
}

// TransformTrack samples a joint transform from sparse keyframes. Each transform component
// is interpolated between the nearest keys that define it.
type TransformTrack struct {
	name      string
	keyframes []TransformKeyframe

	position field[mgl32.Vec3]
	rotation field[mgl32.Quat]
	scale    field[mgl32.Vec3]

	pose   Pose
	target Target
}

var _ JointTrack = &TransformTrack{}

// NewTransformTrack creates a TransformTrack from keyframes in any order.
//
// Parameters:
//   - name: the joint name
//   - keyframes: the initial keyframes
//
// Returns:
//   - *TransformTrack: the new track
func NewTransformTrack(name string, keyframes ...TransformKeyframe) *TransformTrack {
	t := &TransformTrack{name: name, pose: IdentityPose()}
	t.AddKeyframes(keyframes...)
	return t
}

// FromChannel builds a TransformTrack from an imported animation channel, converting key
// times from seconds to milliseconds.
//
// Parameters:
//   - ch: the imported channel
//   - skeleton: used to name the track when the channel has no name; may be nil
//
// Returns:
//   - *TransformTrack: the track for the channel's bone
func FromChannel(ch model.AnimationChannel, skeleton *model.Skeleton) *TransformTrack {
	name := common.Coalesce(ch.Name, skeleton.BoneName(ch.BoneIndex))
	kfs := make([]TransformKeyframe, 0, len(ch.PositionKeys)+len(ch.RotationKeys)+len(ch.ScaleKeys))
	for _, k := range ch.PositionKeys {
		v := mgl32.Vec3(k.Value)
		kfs = append(kfs, TransformKeyframe{Time: float64(k.Time) * 1000, Position: &v})
	}
	for _, k := range ch.RotationKeys {
		q := common.QuatFromSlice(k.Value[:], 0)
		kfs = append(kfs, TransformKeyframe{Time: float64(k.Time) * 1000, Rotation: &q})
	}
	for _, k := range ch.ScaleKeys {
		v := mgl32.Vec3(k.Value)
		kfs = append(kfs, TransformKeyframe{Time: float64(k.Time) * 1000, Scale: &v})
	}
	return NewTransformTrack(name, kfs...)
}

// AddKeyframe inserts a keyframe, keeping keys sorted by time.
func (t *TransformTrack) AddKeyframe(kf TransformKeyframe) {
	t.AddKeyframes(kf)
}

// AddKeyframes inserts keyframes, keeping keys sorted by time. Keys with equal times keep
// their insertion order.
func (t *TransformTrack) AddKeyframes(kfs ...TransformKeyframe) {
	if len(kfs) == 0 {
		return
	}
	t.keyframes = append(t.keyframes, kfs...)
	sort.SliceStable(t.keyframes, func(i, j int) bool {
		return t.keyframes[i].Time < t.keyframes[j].Time
	})
	t.rebuild()
}

func (t *TransformTrack) rebuild() {
	t.position = field[mgl32.Vec3]{}
	t.rotation = field[mgl32.Quat]{}
	t.scale = field[mgl32.Vec3]{}
	for _, kf := range t.keyframes {
		if kf.Position != nil {
			t.position.keys = append(t.position.keys, fieldKey[mgl32.Vec3]{kf.Time, *kf.Position})
		}
		if kf.Rotation != nil {
			t.rotation.keys = append(t.rotation.keys, fieldKey[mgl32.Quat]{kf.Time, *kf.Rotation})
		}
		if kf.Scale != nil {
			t.scale.keys = append(t.scale.keys, fieldKey[mgl32.Vec3]{kf.Time, *kf.Scale})
		}
	}
}

// Keyframes returns the sorted keyframes. They are shared with clones and must not be modified.
func (t *TransformTrack) Keyframes() []TransformKeyframe {
	return t.keyframes
}

func (t *TransformTrack) Name() string {
	return t.name
}

func (t *TransformTrack) Pose() *Pose {
	return &t.pose
}

func (t *TransformTrack) SetTarget(target Target) {
	t.target = target
}

func (t *TransformTrack) MaxTime() float64 {
	if n := len(t.keyframes); n > 0 {
		return t.keyframes[n-1].Time
	}
	return 0
}

// SetTime samples every keyed component at time.
func (t *TransformTrack) SetTime(time float64) {
	if v, ok := t.position.sample(time, common.Vec3Lerp); ok {
		t.pose.Position = v
	}
	if q, ok := t.rotation.sample(time, common.QuatSlerp); ok {
		t.pose.Rotation = q
	}
	if v, ok := t.scale.sample(time, common.Vec3Lerp); ok {
		t.pose.Scale = v
	}
	t.UpdateTarget()
}

// UpdateTarget pushes the components that have keys to the target.
func (t *TransformTrack) UpdateTarget() {
	if t.target == nil {
		return
	}
	if len(t.position.keys) > 0 {
		t.target.SetPosition(t.pose.Position)
	}
	if len(t.rotation.keys) > 0 {
		t.target.SetRotation(t.pose.Rotation)
	}
	if len(t.scale.keys) > 0 {
		t.target.SetScale(t.pose.Scale)
	}
}

// SubTrack extracts [start, end) with time rebased to zero and sampled endpoint keys.
func (t *TransformTrack) SubTrack(start, end float64) JointTrack {
	sub := &TransformTrack{name: t.name, pose: IdentityPose()}
	if len(t.keyframes) == 0 {
		return sub
	}
	start = common.Clamp(start, t.keyframes[0].Time, t.MaxTime())
	end = common.Clamp(end, start, t.MaxTime())

	sub.position = t.position.slice(start, end, common.Vec3Lerp)
	sub.rotation = t.rotation.slice(start, end, common.QuatSlerp)
	sub.scale = t.scale.slice(start, end, common.Vec3Lerp)

	times := map[float64]int{}
	for _, k := range sub.position.keys {
		p := k.value
		sub.keyframes = mergeKey(sub.keyframes, times, k.time, func(kf *TransformKeyframe) { kf.Position = &p })
	}
	for _, k := range sub.rotation.keys {
		q := k.value
		sub.keyframes = mergeKey(sub.keyframes, times, k.time, func(kf *TransformKeyframe) { kf.Rotation = &q })
	}
	for _, k := range sub.scale.keys {
		s := k.value
		sub.keyframes = mergeKey(sub.keyframes, times, k.time, func(kf *TransformKeyframe) { kf.Scale = &s })
	}
	sort.SliceStable(sub.keyframes, func(i, j int) bool {
		return sub.keyframes[i].Time < sub.keyframes[j].Time
	})
	return sub
}

func mergeKey(kfs []TransformKeyframe, index map[float64]int, time float64, set func(*TransformKeyframe)) []TransformKeyframe {
	i, ok := index[time]
	if !ok {
		i = len(kfs)
		index[time] = i
		kfs = append(kfs, TransformKeyframe{Time: time})
	}
	set(&kfs[i])
	return kfs
}

// Clone returns a track sharing the keyframes, with its own pose and caches and no target.
func (t *TransformTrack) Clone() JointTrack {
	return &TransformTrack{
		name:      t.name,
		keyframes: t.keyframes,
		position:  field[mgl32.Vec3]{keys: t.position.keys},
		rotation:  field[mgl32.Quat]{keys: t.rotation.keys},
		scale:     field[mgl32.Vec3]{keys: t.scale.keys},
		pose:      t.pose,
	}
}
