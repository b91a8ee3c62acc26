package track

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearNumberTrack(t *testing.T) {
	tr := New("x")
	tr.AddKeyframe(1000, 100, nil)
	tr.AddKeyframe(0, 0, nil)
	tr.Prepare(1000, nil)

	target := Properties{}
	for _, c := range []struct{ p, want float64 }{{0, 0}, {0.25, 25}, {0.5, 50}, {1, 100}} {
		tr.Step(target, c.p)
		assert.InDelta(t, c.want, target.Float("x"), 1e-9)
	}
}

func TestBackwardSeekRescans(t *testing.T) {
	tr := New("x")
	tr.AddKeyframe(0, 0.0, nil)
	tr.AddKeyframe(500, 10.0, nil)
	tr.AddKeyframe(1000, 30.0, nil)
	tr.Prepare(1000, nil)

	target := Properties{}
	tr.Step(target, 0.9)
	assert.InDelta(t, 26, target.Float("x"), 1e-9)
	tr.Step(target, 0.1)
	assert.InDelta(t, 2, target.Float("x"), 1e-9)
	tr.Step(target, 0.75)
	assert.InDelta(t, 20, target.Float("x"), 1e-9)
}

func TestArrivalKeyframeEasing(t *testing.T) {
	square := func(k float64) float64 { return k * k }
	tr := New("x")
	tr.AddKeyframe(0, 0.0, square)
	tr.AddKeyframe(100, 100.0, nil)
	tr.AddKeyframe(200, 200.0, square)
	tr.Prepare(200, nil)

	target := Properties{}
	tr.Step(target, 0.25)
	assert.InDelta(t, 50, target.Float("x"), 1e-9, "departure easing is ignored")
	tr.Step(target, 0.75)
	assert.InDelta(t, 125, target.Float("x"), 1e-9)
}

func TestNumericStringsAreNumbers(t *testing.T) {
	tr := New("x")
	tr.AddKeyframe(0, "2", nil)
	tr.AddKeyframe(100, int32(4), nil)
	assert.Equal(t, ValueNumber, tr.ValueType())
	assert.False(t, tr.Discrete())
}

func TestMixedTypesDegradeToDiscrete(t *testing.T) {
	tr := New("v")
	tr.AddKeyframe(0, 1.0, nil)
	tr.AddKeyframe(100, []float64{1, 2}, nil)
	tr.Prepare(100, nil)
	require.True(t, tr.Discrete())

	target := Properties{}
	tr.Step(target, 0.5)
	assert.Equal(t, 1.0, target["v"])
	tr.Step(target, 1)
	assert.Equal(t, []float64{1, 2}, target["v"])
}

func TestDiscreteIgnoresEasing(t *testing.T) {
	tr := New("label")
	tr.AddKeyframe(0, "start", nil)
	tr.AddKeyframe(100, "end", func(float64) float64 { return 1 })
	tr.Prepare(100, nil)

	target := Properties{}
	tr.Step(target, 0.5)
	assert.Equal(t, "start", target["label"])
}

func TestArrayFillAndNaN(t *testing.T) {
	tr := New("v")
	tr.AddKeyframe(0, []float64{0, math.NaN()}, nil)
	tr.AddKeyframe(100, []float64{10, 20, 30}, nil)
	tr.Prepare(100, nil)

	target := Properties{}
	tr.Step(target, 0.5)
	assert.Equal(t, []float64{5, 20, 30}, target["v"])
}

func TestArrayTruncatedToFinal(t *testing.T) {
	tr := New("v")
	tr.AddKeyframe(0, []int{0, 0, 7}, nil)
	tr.AddKeyframe(100, []float64{10, 10}, nil)
	tr.Prepare(100, nil)

	target := Properties{}
	tr.Step(target, 0.5)
	assert.Equal(t, []float64{5, 5}, target["v"])
}

func TestArrayOutputBufferIsReused(t *testing.T) {
	tr := New("v")
	tr.AddKeyframe(0, []float64{0, 0}, nil)
	tr.AddKeyframe(100, []float64{10, 10}, nil)
	tr.Prepare(100, nil)

	target := Properties{}
	tr.Step(target, 0.2)
	first := target["v"].([]float64)
	tr.Step(target, 0.4)
	second := target["v"].([]float64)
	assert.Same(t, &first[0], &second[0])
	assert.Equal(t, []float64{4, 4}, second)
}

func Test2DArray(t *testing.T) {
	tr := New("pts")
	tr.AddKeyframe(0, [][]float64{{0, 0}, {0, 0}}, nil)
	tr.AddKeyframe(100, [][]float64{{10, 20}, {30, 40}}, nil)
	tr.Prepare(100, nil)
	require.Equal(t, Value2DArray, tr.ValueType())

	target := Properties{}
	tr.Step(target, 0.5)
	assert.Equal(t, [][]float64{{5, 10}, {15, 20}}, target["pts"])
}

func TestColorTrack(t *testing.T) {
	tr := New("fill")
	tr.AddKeyframe(0, "#000", nil)
	tr.AddKeyframe(100, "rgba(255, 100, 50, 0.5)", nil)
	tr.Prepare(100, nil)
	require.Equal(t, ValueColor, tr.ValueType())

	target := Properties{}
	tr.Step(target, 0.5)
	assert.Equal(t, "rgba(127,50,25,0.75)", target["fill"])
	assert.Equal(t, "rgba(255,100,50,0.5)", tr.FinalValue())
}

func TestCatmullRomPassesThroughKeyframes(t *testing.T) {
	tr := New("x")
	tr.AddKeyframe(0, 0.0, nil)
	tr.AddKeyframe(100, 10.0, nil)
	tr.AddKeyframe(200, 0.0, nil)
	tr.SetSpline(true)
	tr.Prepare(200, nil)

	target := Properties{}
	tr.Step(target, 0.5)
	assert.InDelta(t, 10, target.Float("x"), 1e-9)
	tr.Step(target, 0.25)
	// Overshoots the straight line between the first two keyframes.
	assert.Greater(t, target.Float("x"), 5.0)
}

func TestAllValuesEqual(t *testing.T) {
	tr := New("x")
	tr.AddKeyframe(0, 5, nil)
	tr.AddKeyframe(100, 5.0, nil)
	assert.True(t, tr.AllValuesEqual())
	tr.AddKeyframe(200, 6.0, nil)
	assert.False(t, tr.AllValuesEqual())
}

func TestAdditiveNumber(t *testing.T) {
	base := New("x")
	base.AddKeyframe(0, 0.0, nil)
	base.AddKeyframe(100, 100.0, nil)
	base.Prepare(100, nil)

	add := New("x")
	add.AddKeyframe(0, 100.0, nil)
	add.AddKeyframe(100, 110.0, nil)
	add.Prepare(100, base)
	require.Same(t, base, add.AdditiveTrack())

	target := Properties{}
	base.Step(target, 0.5)
	add.Step(target, 0.5)
	assert.InDelta(t, 55, target.Float("x"), 1e-9)

	base.SetFinished()
	add.Step(target, 1)
	assert.Nil(t, add.AdditiveTrack(), "base dropped once finished")
	assert.InDelta(t, 110, target.Float("x"), 1e-9)
}

func TestAdditiveRequiresSameType(t *testing.T) {
	base := New("x")
	base.AddKeyframe(0, []float64{0}, nil)
	base.Prepare(100, nil)

	add := New("x")
	add.AddKeyframe(0, 1.0, nil)
	add.Prepare(100, base)
	assert.Nil(t, add.AdditiveTrack())
}

func TestSetFinishedStopsWrites(t *testing.T) {
	tr := New("x")
	tr.AddKeyframe(0, 0.0, nil)
	tr.AddKeyframe(100, 1.0, nil)
	tr.Prepare(100, nil)
	tr.SetFinished()

	target := Properties{}
	tr.Step(target, 0.5)
	_, ok := target["x"]
	assert.False(t, ok)

	tr.Reset()
	tr.Step(target, 0.5)
	assert.InDelta(t, 0.5, target.Float("x"), 1e-9)
}

func TestEmptyTrackIsSkipped(t *testing.T) {
	tr := New("x")
	tr.Prepare(100, nil)
	assert.False(t, tr.NeedsAnimate())
	assert.NotPanics(t, func() { tr.Step(Properties{}, 0.5) })
	assert.Nil(t, tr.FinalValue())
}
