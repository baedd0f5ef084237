package deferred_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-shade/scenes/deferred"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/scenetest"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
)

func TestDeferredLighting(t *testing.T) {
	sc := deferred.New(
		deferred.WithObjects([]world.Object{scenetest.Receiver()}),
		deferred.WithCamera(scenetest.Camera()),
		deferred.WithLight(scenetest.Light()),
		deferred.WithAmbient(0.2),
	)
	dev := scenetest.Render(t, sc, scenetest.Size, scenetest.Size)

	// The light is straight above the origin: albedo * (ambient + 1).
	center := scenetest.Size / 2
	px := dev.DisplayPixel(center, center)
	assert.InDelta(t, 0.6, px.X(), 2.0/255)
	assert.InDelta(t, 0.6, px.Y(), 2.0/255)
	assert.InDelta(t, 0.6, px.Z(), 2.0/255)

	// Corners see no geometry and keep the clear color.
	corner := dev.DisplayPixel(0, 0)
	assert.InDelta(t, world.Background.R, corner.X(), 1.0/255)
	assert.InDelta(t, world.Background.B, corner.Z(), 1.0/255)
}
