package ssao_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/scenetest"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
	"github.com/Carmen-Shannon/oxy-shade/scenes/shaders"
	"github.com/Carmen-Shannon/oxy-shade/scenes/ssao"
)

const ambient = 0.2

// render draws one frame of the SSAO scene over objects and returns the device and the
// runner's resources, with the labels of every pass that ran.
func render(t *testing.T, objects []world.Object, options ...ssao.SSAOBuilderOption) (*soft.Device, *scene.Resources, []string) {
	t.Helper()
	var ran []string
	sc := ssao.New(append([]ssao.SSAOBuilderOption{
		ssao.WithObjects(objects),
		ssao.WithCamera(scenetest.Camera()),
		ssao.WithLight(scenetest.Light()),
		ssao.WithAmbient(ambient),
	}, options...)...)
	dev := soft.NewDevice()
	r := scene.NewRunner(dev, shaders.Soft(), sc, scene.WithPassObserver(func(label string, _ time.Duration, err error) {
		assert.NoError(t, err)
		ran = append(ran, label)
	}))
	require.NoError(t, r.Init(scenetest.Size, scenetest.Size))
	t.Cleanup(r.Close)
	require.NoError(t, r.Frame())
	return dev, r.Resources(), ran
}

func centerAO(dev *soft.Device, res *scene.Resources, name string) float32 {
	c := scenetest.Size / 2
	return dev.Pixel(res.Target(name).Attachment().Color(), c, c).X()
}

// lit is the composite of the grey receiver straight below the light: albedo * (1 + ambient*ao).
// The albedo went through the RGBA8 G-buffer.
func lit(ao float32) float32 {
	albedo := float32(128) / 255
	return albedo * (1 + ambient*ao)
}

func TestFlatReceiverIsUnoccluded(t *testing.T) {
	dev, res, ran := render(t, []world.Object{scenetest.Receiver()})
	assert.Equal(t, []string{"geometry", "occlusion", "occlusion blur", "composite"}, ran)

	assert.InDelta(t, 1, centerAO(dev, res, ssao.TargetAO), 1.0/255)
	assert.InDelta(t, 1, centerAO(dev, res, ssao.TargetAOBlur), 1.0/255)

	c := scenetest.Size / 2
	px := dev.DisplayPixel(c, c)
	assert.InDelta(t, lit(1), px.X(), 2.0/255)
	assert.InDelta(t, px.X(), px.Z(), 1.0/255)
}

func TestOccluderDarkensAmbient(t *testing.T) {
	dev, res, _ := render(t, []world.Object{scenetest.Receiver(), scenetest.Occluder()})

	ao := centerAO(dev, res, ssao.TargetAOBlur)
	assert.Less(t, ao, float32(0.99))
	assert.Greater(t, ao, float32(0))

	// The camera still sees the receiver at the center; only its ambient term is scaled.
	c := scenetest.Size / 2
	assert.InDelta(t, lit(ao), dev.DisplayPixel(c, c).X(), 2.0/255)
}

func TestWithoutBlurCompositesRawOcclusion(t *testing.T) {
	dev, res, ran := render(t, []world.Object{scenetest.Receiver(), scenetest.Occluder()}, ssao.WithoutBlur())
	assert.Equal(t, []string{"geometry", "occlusion", "composite"}, ran)

	c := scenetest.Size / 2
	ao := centerAO(dev, res, ssao.TargetAO)
	assert.InDelta(t, lit(ao), dev.DisplayPixel(c, c).X(), 2.0/255)
}
