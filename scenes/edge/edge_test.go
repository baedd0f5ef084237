package edge_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/scenes/edge"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/scenetest"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
	"github.com/Carmen-Shannon/oxy-shade/scenes/shaders"
)

var red = mgl32.Vec4{1, 0, 0, 1}

func render(t *testing.T) (*soft.Device, *scene.Resources) {
	t.Helper()
	sc := edge.New(
		edge.WithObjects([]world.Object{scenetest.Receiver()}),
		edge.WithCamera(scenetest.Camera()),
		edge.WithLight(scenetest.Light()),
		edge.WithEdgeColor(red),
	)
	dev := soft.NewDevice()
	r := scene.NewRunner(dev, shaders.Soft(), sc)
	require.NoError(t, r.Init(scenetest.Size, scenetest.Size))
	t.Cleanup(r.Close)
	require.NoError(t, r.Frame())
	return dev, r.Resources()
}

func isEdge(px mgl32.Vec4) bool {
	return px.X() > 0.99 && px.Y() < 0.01 && px.Z() < 0.01
}

func TestFlatRegionsPassThrough(t *testing.T) {
	dev, res := render(t)
	lit := res.Target(edge.TargetScene).Attachment().Color()

	c := scenetest.Size / 2
	want := dev.Pixel(lit, c, c)
	got := dev.DisplayPixel(c, c)
	assert.False(t, isEdge(got))
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1.0/255, "channel %d", i)
	}

	corner := dev.DisplayPixel(0, 0)
	assert.InDelta(t, world.Background.R, corner.X(), 1.0/255)
	assert.InDelta(t, world.Background.G, corner.Y(), 1.0/255)
	assert.InDelta(t, world.Background.B, corner.Z(), 1.0/255)
}

func TestSilhouetteIsOutlined(t *testing.T) {
	dev, _ := render(t)

	c := scenetest.Size / 2
	var left, right bool
	for x := 0; x < scenetest.Size; x++ {
		if !isEdge(dev.DisplayPixel(x, c)) {
			continue
		}
		if x < c {
			left = true
		} else if x > c {
			right = true
		}
	}
	assert.True(t, left, "no outline left of center")
	assert.True(t, right, "no outline right of center")
}
