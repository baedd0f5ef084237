package shadow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/scenetest"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
	"github.com/Carmen-Shannon/oxy-shade/scenes/shadow"
)

func TestShadowOcclusion(t *testing.T) {
	tests := []struct {
		name    string
		objects []world.Object
		want    float32
	}{
		// albedo * (ambient + diffuse)
		{name: "lit", objects: []world.Object{scenetest.Receiver()}, want: 0.5 * (0.2 + 1)},
		// albedo * ambient
		{name: "occluded", objects: []world.Object{scenetest.Receiver(), scenetest.Occluder()}, want: 0.5 * 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := shadow.New(
				shadow.WithObjects(tt.objects),
				shadow.WithCamera(scenetest.Camera()),
				shadow.WithLight(scenetest.Light()),
				shadow.WithResolution(64),
				shadow.WithBias(0.005),
				shadow.WithAmbient(0.2),
				shadow.WithGamma(1),
			)
			dev := scenetest.Render(t, sc, scenetest.Size, scenetest.Size)

			center := scenetest.Size / 2
			px := dev.DisplayPixel(center, center)
			assert.InDelta(t, tt.want, px.X(), 2.0/255)
			assert.InDelta(t, tt.want, px.Y(), 2.0/255)
			assert.InDelta(t, tt.want, px.Z(), 2.0/255)
		})
	}
}

func TestShadowTargets(t *testing.T) {
	sc := shadow.New(shadow.WithResolution(128))
	specs := sc.Targets()
	assert.Len(t, specs, 2)
	assert.Equal(t, shadow.TargetShadowMap, specs[0].Name)
	w, h := specs[0].Size(640, 480)
	assert.Equal(t, 128, w)
	assert.Equal(t, 128, h)
}

func TestShadowDebugQuad(t *testing.T) {
	sc := shadow.New(
		shadow.WithObjects([]world.Object{scenetest.Receiver()}),
		shadow.WithCamera(scenetest.Camera()),
		shadow.WithLight(scenetest.Light()),
		shadow.WithResolution(64),
		shadow.WithDebugQuad(),
		shadow.WithPCF(3),
	)
	dev := scenetest.Render(t, sc, 32, 32)

	// The bottom-right quarter shows the map: the receiver plane's depth seen from the light,
	// grey and identical in every channel.
	px := dev.DisplayPixel(28, 28)
	assert.Greater(t, px.X(), float32(0.5))
	assert.Less(t, px.X(), float32(1))
	assert.Equal(t, px.X(), px.Y())
	assert.Equal(t, px.X(), px.Z())
}
