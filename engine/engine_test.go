package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/timeline"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation/track"
)

func TestRunPlaysAnimationUntilQuit(t *testing.T) {
	e := NewEngine(WithTickRate(500))
	target := track.Properties{"x": 0.0}
	done := make(chan struct{})
	e.Do(func() {
		a := e.Animate(target).When(30, map[string]any{"x": 10}, nil).Done(func() { close(done) })
		assert.NoError(t, a.Start(nil))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- e.Run(ctx) }()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("animation did not finish")
	}
	e.Quit()
	e.Quit()
	require.NoError(t, <-errCh)
	assert.InDelta(t, 10, target.Float("x"), 1e-9)
	assert.Equal(t, 0, e.Timeline().ClipCount())
}

func TestRunStopsWithContext(t *testing.T) {
	e := NewEngine(WithTickRate(1000), WithProfiling(true))
	renders := 0
	e.SetRenderCallback(func() { renders++ })
	e.Do(func() {
		a := e.Animate(track.Properties{"x": 0.0}).When(60_000, map[string]any{"x": 1}, nil)
		_ = a.Start(nil)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := e.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, e.Timeline().Time())
	assert.Positive(t, renders)
	assert.Equal(t, 1, e.Timeline().ClipCount())
}

func TestRunRejectsSecondLoop(t *testing.T) {
	e := NewEngine(WithTickRate(1000))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	started := make(chan struct{})
	e.Do(func() { close(started) })
	go func() { errCh <- e.Run(ctx) }()
	<-started

	assert.ErrorIs(t, e.Run(ctx), ErrAlreadyRunning)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func TestWithConfigAndTimeline(t *testing.T) {
	tl := timeline.New()
	c := config.Default()
	c.TickRate = 250
	c.AllowDiscrete = true
	c.DefaultEasing = "quadraticIn"
	e := NewEngine(WithTimeline(tl), WithConfig(c)).(*engine)

	assert.Same(t, tl, e.Timeline())
	assert.Equal(t, 4*time.Millisecond, e.engineTickRate)

	target := track.Properties{"x": 0.0, "state": "idle"}
	a := e.Animate(target).When(100, map[string]any{"x": 100, "state": "run"}, nil)
	require.NoError(t, a.Start(nil))
	tl.Tick(0)
	tl.Tick(50)
	assert.InDelta(t, 25, target.Float("x"), 1e-9, "configured easing applies")
	assert.Equal(t, "idle", target["state"], "discrete tracks are played")
}

func TestSetTickRate(t *testing.T) {
	e := NewEngine().(*engine)
	assert.Equal(t, time.Second/60, e.engineTickRate)
	e.SetTickRate(100)
	assert.Equal(t, 10*time.Millisecond, e.engineTickRate)
	e.SetTickRate(0)
	assert.Equal(t, time.Second/60, e.engineTickRate)

	e.EnableProfiler()
	assert.True(t, e.profilingEnabled.Load())
	e.DisableProfiler()
	assert.False(t, e.profilingEnabled.Load())
}
