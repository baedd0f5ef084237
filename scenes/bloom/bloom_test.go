package bloom_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/scenes/bloom"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/scenetest"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
	"github.com/Carmen-Shannon/oxy-shade/scenes/shaders"
)

func render(t *testing.T, threshold float32) (*soft.Device, *scene.Resources) {
	t.Helper()
	sc := bloom.New(
		bloom.WithObjects([]world.Object{scenetest.Receiver()}),
		bloom.WithCamera(scenetest.Camera()),
		bloom.WithLight(scenetest.Light()),
		bloom.WithAmbient(0.2),
		bloom.WithThreshold(threshold),
		bloom.WithExposure(1),
		bloom.WithGamma(1),
	)
	dev := soft.NewDevice()
	r := scene.NewRunner(dev, shaders.Soft(), sc)
	require.NoError(t, r.Init(scenetest.Size, scenetest.Size))
	t.Cleanup(r.Close)
	require.NoError(t, r.Frame())
	return dev, r.Resources()
}

// plain is the exposure curve applied to the receiver lit straight from above,
// 0.5 * (1 + 0.2), with no bloom added.
var plain = 1 - math32.Exp(-0.6)

func TestBelowThresholdHasNoBloom(t *testing.T) {
	dev, res := render(t, 1)

	blurred := res.Target(bloom.TargetPingB)
	bc := blurred.Width() / 2
	assert.Zero(t, dev.Pixel(blurred.Attachment().Color(), bc, bc).X())

	c := scenetest.Size / 2
	px := dev.DisplayPixel(c, c)
	assert.InDelta(t, plain, px.X(), 1.0/255)
	assert.InDelta(t, plain, px.Y(), 1.0/255)
}

func TestAboveThresholdAddsBloom(t *testing.T) {
	dev, res := render(t, 0.5)

	blurred := res.Target(bloom.TargetPingB)
	bc := blurred.Width() / 2
	assert.Greater(t, dev.Pixel(blurred.Attachment().Color(), bc, bc).X(), float32(0.05))

	c := scenetest.Size / 2
	assert.Greater(t, dev.DisplayPixel(c, c).X(), plain+2.0/255)
}
