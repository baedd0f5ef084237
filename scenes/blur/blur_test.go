package blur_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/scenes/blur"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/scenetest"
)

func TestBlurPreservesSolidColor(t *testing.T) {
	clear := device.Color{R: 0.2, G: 0.4, B: 0.6, A: 1}
	sc := blur.New(blur.WithObjects(nil), blur.WithClearColor(clear), blur.WithGamma(1))
	dev := scenetest.Render(t, sc, 4, 4)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			px := dev.DisplayPixel(x, y)
			assert.InDelta(t, clear.R, px.X(), 1.0/255, "pixel %d,%d", x, y)
			assert.InDelta(t, clear.G, px.Y(), 1.0/255, "pixel %d,%d", x, y)
			assert.InDelta(t, clear.B, px.Z(), 1.0/255, "pixel %d,%d", x, y)
		}
	}
}

func TestBlurExposure(t *testing.T) {
	clear := device.Color{R: 0.2, G: 0.4, B: 0.6, A: 1}
	sc := blur.New(blur.WithObjects(nil), blur.WithClearColor(clear), blur.WithGamma(1), blur.WithExposure(0.5))
	dev := scenetest.Render(t, sc, 4, 4)

	px := dev.DisplayPixel(1, 2)
	assert.InDelta(t, 0.1, px.X(), 1.0/255)
	assert.InDelta(t, 0.2, px.Y(), 1.0/255)
	assert.InDelta(t, 0.3, px.Z(), 1.0/255)
}
