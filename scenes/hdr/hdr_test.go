package hdr_test

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/scenes/hdr"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
	"github.com/Carmen-Shannon/oxy-shade/scenes/shaders"
)

func TestLuminanceChainTargets(t *testing.T) {
	sc := hdr.New(hdr.WithLuminanceSize(12))
	specs := sc.Targets()
	require.Len(t, specs, 5)
	assert.Equal(t, hdr.TargetHDR, specs[0].Name)
	for i, want := range []int{8, 4, 2, 1} {
		spec := specs[i+1]
		assert.Equal(t, hdr.LuminanceTarget(i), spec.Name)
		w, h := spec.Size(640, 480)
		assert.Equal(t, want, w)
		assert.Equal(t, want, h)
	}
}

func TestAverageLuminance(t *testing.T) {
	dev := soft.NewDevice()
	r := scene.NewRunner(dev, shaders.Soft(), hdr.New(hdr.WithObjects(nil), hdr.WithLuminanceSize(8)))
	require.NoError(t, r.Init(16, 16))
	defer r.Close()
	require.NoError(t, r.Frame())

	// Only the clear color is on screen, so the average of its log luminance is itself.
	bg := world.Background
	lum := 0.2126*bg.R + 0.7152*bg.G + 0.0722*bg.B
	want := math32.Log(shaders.LogLuminanceEpsilon + lum)

	last := r.Resources().Target(hdr.LuminanceTarget(3)).Attachment()
	got := dev.Pixel(last.Color(), 0, 0).X()
	assert.InDelta(t, want, got, 0.01)
}

func TestCachedLuminance(t *testing.T) {
	dev := soft.NewDevice()
	reductions := 0
	observer := func(label string, _ time.Duration, _ error) {
		if label == "luminance" {
			reductions++
		}
	}
	sc := hdr.New(hdr.WithObjects(nil), hdr.WithLuminanceSize(8), hdr.WithCachedLuminance(3))
	r := scene.NewRunner(dev, shaders.Soft(), sc, scene.WithPassObserver(observer))
	require.NoError(t, r.Init(16, 16))
	defer r.Close()

	for i := 0; i < 6; i++ {
		require.NoError(t, r.Frame())
	}
	assert.Equal(t, 2, reductions)
	assert.Equal(t, 6, dev.Frames())
}
