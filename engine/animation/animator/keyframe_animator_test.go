package animator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation/track"
)

func TestAnimatorEndToEnd(t *testing.T) {
	s := &manualScheduler{}
	target := track.Properties{"x": 0.0}
	done := 0
	a := NewKeyframeAnimator(target, WithScheduler(s)).
		When(1000, map[string]any{"x": 100}, nil).
		Done(func() { done++ })
	require.NoError(t, a.Start(nil))
	require.Len(t, s.clips, 1)

	s.tick(0)
	assert.InDelta(t, 0, target.Float("x"), 1e-9)
	s.tick(250)
	assert.InDelta(t, 25, target.Float("x"), 1e-9)
	s.tick(250)
	assert.InDelta(t, 50, target.Float("x"), 1e-9)
	assert.Equal(t, 0, done)
	s.tick(500)
	assert.InDelta(t, 100, target.Float("x"), 1e-9)

	assert.Equal(t, 1, done)
	assert.Empty(t, s.clips)
	assert.Nil(t, a.Clip())
	assert.True(t, a.Track("x").Finished())
}

func TestIdentityAnimationIsPruned(t *testing.T) {
	s := &manualScheduler{}
	target := track.Properties{"x": 5.0}
	done := 0
	a := NewKeyframeAnimator(target, WithScheduler(s)).
		When(1000, map[string]any{"x": 5}, nil).
		Done(func() { done++ })
	require.NoError(t, a.Start(nil))

	assert.Equal(t, 1, done, "done fires before Start returns")
	assert.Empty(t, s.clips)
	assert.Nil(t, a.Clip())
}

func TestThenIsRelativeToLastKeyframe(t *testing.T) {
	target := track.Properties{"x": 0.0}
	a := NewKeyframeAnimator(target).
		When(100, map[string]any{"x": 1}, nil).
		Then(100, map[string]any{"x": 2}, nil)

	assert.Equal(t, 200.0, a.MaxTime())
	kfs := a.Track("x").Keyframes()
	require.Len(t, kfs, 3)
	assert.Equal(t, 0.0, kfs[0].Time)
	assert.Equal(t, 0.0, kfs[0].Raw)
	assert.Equal(t, 200.0, kfs[2].Time)
}

func TestNoImplicitKeyframeAtZero(t *testing.T) {
	target := track.Properties{"x": 3.0}
	a := NewKeyframeAnimator(target).
		When(0, map[string]any{"x": 5}, nil).
		When(100, map[string]any{"x": 10}, nil)
	assert.Len(t, a.Track("x").Keyframes(), 2)
}

func TestImplicitKeyframeIsCopied(t *testing.T) {
	pos := []float64{1, 2}
	target := track.Properties{"pos": pos}
	a := NewKeyframeAnimator(target).When(100, map[string]any{"pos": []float64{3, 4}}, nil)
	pos[0] = 99
	assert.Equal(t, []float64{1, 2}, a.Track("pos").Keyframes()[0].Raw)
}

func TestWhenWithKeysOrder(t *testing.T) {
	target := track.Properties{"a": 0.0, "b": 0.0, "c": 0.0}
	a := NewKeyframeAnimator(target).WhenWithKeys(100, map[string]any{"a": 1, "b": 1, "c": 1}, []string{"c", "a", "missing"}, nil)
	tracks := a.Tracks()
	require.Len(t, tracks, 2)
	assert.Equal(t, "c", tracks[0].Prop())
	assert.Equal(t, "a", tracks[1].Prop())
}

func TestMissingPropertyIsSkipped(t *testing.T) {
	s := &manualScheduler{}
	done := false
	a := NewKeyframeAnimator(track.Properties{}, WithScheduler(s)).
		When(100, map[string]any{"y": 1}, nil).
		Done(func() { done = true })
	assert.Nil(t, a.Track("y"))
	require.NoError(t, a.Start(nil))
	assert.True(t, done)
	assert.Empty(t, s.clips)
}

func TestDiscreteResolvesImmediately(t *testing.T) {
	s := &manualScheduler{}
	target := track.Properties{"state": "idle", "x": 0.0}
	a := NewKeyframeAnimator(target, WithScheduler(s)).
		When(100, map[string]any{"state": "run", "x": 10}, nil)
	require.NoError(t, a.Start(nil))

	assert.Equal(t, "run", target["state"])
	assert.True(t, a.Track("state").Finished())
	require.Len(t, s.clips, 1)
	s.tick(0)
	assert.Equal(t, "run", target["state"])
}

func TestAllowDiscreteSnaps(t *testing.T) {
	s := &manualScheduler{}
	target := track.Properties{"state": "idle"}
	a := NewKeyframeAnimator(target, WithScheduler(s), WithAllowDiscrete(true)).
		When(100, map[string]any{"state": "run"}, nil)
	require.NoError(t, a.Start(nil))

	s.tick(0)
	assert.Equal(t, "idle", target["state"])
	s.tick(50)
	assert.Equal(t, "idle", target["state"])
	s.tick(50)
	assert.Equal(t, "run", target["state"])
}

func TestStopForwardToLast(t *testing.T) {
	s := &manualScheduler{}
	target := track.Properties{"x": 0.0}
	done, aborted := 0, 0
	a := NewKeyframeAnimator(target, WithScheduler(s), WithLoop(true)).
		When(1000, map[string]any{"x": 100}, nil).
		Done(func() { done++ }).
		Aborted(func() { aborted++ })
	require.NoError(t, a.Start(nil))
	s.tick(0)
	s.tick(300)

	a.Stop(true)
	assert.InDelta(t, 100, target.Float("x"), 1e-9)
	assert.Empty(t, s.clips, "stop removes the looping clip")
	assert.Equal(t, 1, aborted)
	assert.Equal(t, 0, done)

	s.tick(300)
	assert.InDelta(t, 100, target.Float("x"), 1e-9)
	a.Stop(true)
	assert.Equal(t, 1, aborted)
}

func TestStopTracks(t *testing.T) {
	s := &manualScheduler{}
	target := track.Properties{"x": 0.0, "y": 0.0}
	aborted := 0
	a := NewKeyframeAnimator(target, WithScheduler(s)).
		When(1000, map[string]any{"x": 100, "y": 50}, nil).
		Aborted(func() { aborted++ })
	require.NoError(t, a.Start(nil))
	s.tick(0)
	s.tick(500)

	assert.False(t, a.StopTracks([]string{"x"}, true))
	assert.InDelta(t, 100, target.Float("x"), 1e-9)
	assert.Len(t, s.clips, 1)

	s.tick(250)
	assert.InDelta(t, 100, target.Float("x"), 1e-9, "stopped track no longer writes")
	assert.InDelta(t, 37.5, target.Float("y"), 1e-9)

	assert.True(t, a.StopTracks([]string{"y"}, false))
	assert.InDelta(t, 37.5, target.Float("y"), 1e-9)
	assert.Equal(t, 1, aborted)
	assert.Empty(t, s.clips)
	assert.True(t, a.StopTracks(nil, false))
}

func TestStopTracksBeforeFirstFrameRestoresStart(t *testing.T) {
	s := &manualScheduler{}
	target := track.Properties{"x": 3.0}
	a := NewKeyframeAnimator(target, WithScheduler(s)).When(1000, map[string]any{"x": 10}, nil)
	require.NoError(t, a.Start(nil))
	target.Set("x", 7.0)

	assert.True(t, a.StopTracks([]string{"x"}, false))
	assert.InDelta(t, 3, target.Float("x"), 1e-9)
}

func TestAdditiveLoopIsRejected(t *testing.T) {
	target := track.Properties{"x": 0.0}
	base := NewKeyframeAnimator(target).When(100, map[string]any{"x": 1}, nil)
	a := NewKeyframeAnimator(target, WithLoop(true), WithAdditiveTo(base)).When(100, map[string]any{"x": 2}, nil)
	assert.ErrorIs(t, a.Start(nil), ErrAdditiveLoop)
	assert.Nil(t, a.Clip())
}

func TestAdditiveAddsOntoBase(t *testing.T) {
	s := &manualScheduler{}
	target := track.Properties{"x": 0.0}
	base := NewKeyframeAnimator(target, WithScheduler(s)).When(1000, map[string]any{"x": 100}, nil)
	require.NoError(t, base.Start(nil))

	add := NewKeyframeAnimator(target, WithScheduler(s), WithAdditiveTo(base)).When(1000, map[string]any{"x": 110}, nil)
	assert.Equal(t, 100.0, add.Track("x").Keyframes()[0].Raw, "starts from the base final value")
	require.NoError(t, add.Start(nil))
	assert.Same(t, base.Track("x"), add.Track("x").AdditiveTrack())

	s.tick(0)
	assert.InDelta(t, 0, target.Float("x"), 1e-9)
	s.tick(500)
	assert.InDelta(t, 55, target.Float("x"), 1e-9)
	s.tick(500)
	assert.InDelta(t, 110, target.Float("x"), 1e-9)
	assert.Empty(t, s.clips)
}

func TestAdditiveLayersCommute(t *testing.T) {
	run := func(swap bool) float64 {
		s := &manualScheduler{}
		target := track.Properties{"x": 0.0}
		base := NewKeyframeAnimator(target, WithScheduler(s)).When(1000, map[string]any{"x": 100}, nil)
		require.NoError(t, base.Start(nil))

		a := NewKeyframeAnimator(target, WithScheduler(s), WithAdditiveTo(base)).When(1000, map[string]any{"x": 110}, nil)
		b := NewKeyframeAnimator(target, WithScheduler(s), WithAdditiveTo(base)).When(1000, map[string]any{"x": 130}, nil)
		first, second := a, b
		if swap {
			first, second = b, a
		}
		require.NoError(t, first.Start(nil))
		require.NoError(t, second.Start(nil))

		s.tick(0)
		s.tick(500)
		return target.Float("x")
	}

	ab, ba := run(false), run(true)
	assert.InDelta(t, 70, ab, 1e-9)
	assert.InDelta(t, ab, ba, 1e-9)
}

func TestIdenticalAdditiveTrackKeepsBaseRunning(t *testing.T) {
	s := &manualScheduler{}
	target := track.Properties{"x": 0.0}
	base := NewKeyframeAnimator(target, WithScheduler(s)).When(1000, map[string]any{"x": 100}, nil)
	require.NoError(t, base.Start(nil))
	add := NewKeyframeAnimator(target, WithScheduler(s), WithAdditiveTo(base)).When(1000, map[string]any{"x": 100}, nil)
	require.NoError(t, add.Start(nil))

	assert.False(t, base.Track("x").Finished())
	s.tick(0)
	s.tick(500)
	assert.InDelta(t, 50, target.Float("x"), 1e-9)
}

func TestForcedDurationWithoutTracks(t *testing.T) {
	s := &manualScheduler{}
	done := 0
	a := NewKeyframeAnimator(track.Properties{}, WithScheduler(s)).Duration(200).Done(func() { done++ })
	require.NoError(t, a.Start(nil))
	require.Len(t, s.clips, 1)

	s.tick(0)
	s.tick(100)
	assert.Equal(t, 0, done)
	s.tick(100)
	assert.Equal(t, 1, done)
}

func TestZeroLengthResolvesSynchronously(t *testing.T) {
	s := &manualScheduler{}
	target := track.Properties{"x": 1.0}
	done := false
	a := NewKeyframeAnimator(target, WithScheduler(s)).
		When(0, map[string]any{"x": 4}, nil).
		Done(func() { done = true })
	require.NoError(t, a.Start(nil))
	assert.InDelta(t, 4, target.Float("x"), 1e-9)
	assert.True(t, done)
	assert.Empty(t, s.clips)
}

func TestDelayAndDuring(t *testing.T) {
	s := &manualScheduler{}
	target := track.Properties{"x": 0.0}
	var seen []float64
	a := NewKeyframeAnimator(target, WithScheduler(s), WithDelay(100)).
		When(1000, map[string]any{"x": 100}, nil).
		During(func(_ track.Target, p float64) { seen = append(seen, p) })
	require.NoError(t, a.Start(nil))

	s.tick(0)
	s.tick(100)
	assert.InDelta(t, 0, target.Float("x"), 1e-9)
	s.tick(500)
	assert.InDelta(t, 50, target.Float("x"), 1e-9)
	assert.Equal(t, []float64{0, 0, 0.5}, seen)
}

func TestStartEasingAndDefault(t *testing.T) {
	square := func(k float64) float64 { return k * k }

	s := &manualScheduler{}
	target := track.Properties{"x": 0.0}
	a := NewKeyframeAnimator(target, WithScheduler(s), WithDefaultEasing(square)).When(1000, map[string]any{"x": 100}, nil)
	require.NoError(t, a.Start(nil))
	s.tick(0)
	s.tick(500)
	assert.InDelta(t, 25, target.Float("x"), 1e-9)
}

func TestStartIsNoOpWhileRunningAndRestartsAfterFinish(t *testing.T) {
	s := &manualScheduler{}
	target := track.Properties{"x": 0.0}
	done := 0
	a := NewKeyframeAnimator(target, WithScheduler(s)).
		When(100, map[string]any{"x": 10}, nil).
		Done(func() { done++ })
	require.NoError(t, a.Start(nil))
	first := a.Clip()
	require.NoError(t, a.Start(nil))
	assert.Same(t, first, a.Clip())
	assert.Len(t, s.clips, 1)

	s.tick(0)
	s.tick(100)
	require.Equal(t, 1, done)

	require.NoError(t, a.Start(nil))
	require.Len(t, s.clips, 1)
	s.tick(0)
	s.tick(50)
	assert.InDelta(t, 5, target.Float("x"), 1e-9)
}

func TestPauseBeforeStart(t *testing.T) {
	s := &manualScheduler{}
	target := track.Properties{"x": 0.0}
	a := NewKeyframeAnimator(target, WithScheduler(s)).When(1000, map[string]any{"x": 100}, nil)
	a.Pause()
	require.NoError(t, a.Start(nil))
	assert.True(t, a.IsPaused())
	assert.True(t, a.Clip().Paused())

	s.tick(0)
	s.tick(500)
	a.Resume()
	s.tick(500)
	assert.InDelta(t, 50, target.Float("x"), 1e-9)
}

func TestChangeTarget(t *testing.T) {
	s := &manualScheduler{}
	first := track.Properties{"x": 0.0}
	second := track.Properties{"x": 0.0}
	a := NewKeyframeAnimator(first, WithScheduler(s)).When(1000, map[string]any{"x": 100}, nil)
	require.NoError(t, a.Start(nil))
	s.tick(0)
	a.ChangeTarget(second)
	s.tick(500)

	assert.Equal(t, track.Target(second), a.Target())
	assert.InDelta(t, 0, first.Float("x"), 1e-9)
	assert.InDelta(t, 50, second.Float("x"), 1e-9)
}
