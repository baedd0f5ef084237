package wgpudevice_test

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/attachment"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pass"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/target"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/wgpudevice"
	"github.com/Carmen-Shannon/oxy-shade/scenes/mesh"
	"github.com/Carmen-Shannon/oxy-shade/scenes/shaders"
)

func newTestDevice(t *testing.T) *wgpudevice.Device {
	t.Helper()
	if os.Getenv("OXY_SHADE_GPU") == "" {
		t.Skip("Need a GPU adapter; set OXY_SHADE_GPU=1")
	}
	dev, err := wgpudevice.NewDevice(wgpudevice.WithDisplaySize(64, 64), wgpudevice.WithForceFallbackAdapter(os.Getenv("OXY_SHADE_GPU") == "fallback"))
	require.NoError(t, err)
	t.Cleanup(dev.Release)
	return dev
}

func TestAttachmentKinds(t *testing.T) {
	dev := newTestDevice(t)
	for _, kind := range []attachment.Kind{attachment.KindColorOnly, attachment.KindColorDepth, attachment.KindShadowDepth, attachment.KindDeferredGeometry} {
		t.Run(kind.String(), func(t *testing.T) {
			rt, err := target.NewWithAttachment(dev, kind, 32, 16, attachment.WithLabel(kind.String()))
			require.NoError(t, err)
			for _, c := range rt.Attachment().Components() {
				tex, ok := rt.Attachment().Component(c)
				require.True(t, ok)
				assert.Equal(t, 32, tex.Width())
				assert.Equal(t, 16, tex.Height())
			}
			rt.Release()
		})
	}
	assert.Zero(t, dev.LiveTextures())
}

func TestAllocationErrors(t *testing.T) {
	dev := newTestDevice(t)
	_, err := dev.CreateTexture(device.TextureDescriptor{Label: "huge", Width: 1 << 20, Height: 1, Format: device.FormatRGBA8Unorm})
	var allocErr *device.AllocationError
	require.True(t, errors.As(err, &allocErr))
	assert.ErrorIs(t, err, device.ErrInvalidSize)

	_, err = dev.CreateTexture(device.TextureDescriptor{Label: "none", Width: 4, Height: 4})
	assert.ErrorIs(t, err, device.ErrFormatUnsupported)
}

func TestResizeKeepsLiveCount(t *testing.T) {
	dev := newTestDevice(t)
	rt, err := target.NewWithAttachment(dev, attachment.KindDeferredGeometry, 16, 16)
	require.NoError(t, err)
	defer rt.Release()

	before := dev.LiveTextures()
	old := rt.Attachment()
	require.NoError(t, rt.Resize(40, 24))
	assert.Equal(t, 40, rt.Width())
	assert.True(t, old.Released())
	assert.Equal(t, before, dev.LiveTextures())
}

func TestEveryProgramCompiles(t *testing.T) {
	dev := newTestDevice(t)
	lib := wgpudevice.NewLibrary(dev, shaders.WGSL())
	for _, name := range shaders.Names() {
		t.Run(name, func(t *testing.T) {
			p, err := lib.Program(name)
			require.NoError(t, err)
			assert.Equal(t, name, p.Label())
		})
	}
	_, err := lib.Program("missing")
	assert.ErrorIs(t, err, device.ErrUnknownProgram)
}

func TestBlurChainRuns(t *testing.T) {
	dev := newTestDevice(t)
	lib := wgpudevice.NewLibrary(dev, shaders.WGSL())
	quad, err := mesh.Quad().Build(dev)
	require.NoError(t, err)
	defer quad.Release()

	src, err := target.NewWithAttachment(dev, attachment.KindColorDepth, 8, 8, attachment.WithLabel("src"))
	require.NoError(t, err)
	defer src.Release()
	mid, err := target.NewWithAttachment(dev, attachment.KindColorOnly, 8, 8, attachment.WithLabel("mid"))
	require.NoError(t, err)
	defer mid.Release()

	blurH, err := lib.Program(shaders.BlurH)
	require.NoError(t, err)
	blurV, err := lib.Program(shaders.BlurV)
	require.NoError(t, err)

	clear, err := pass.New(pass.WithLabel("clear"), pass.WithDestination(src), pass.WithClearColor(device.Color{R: 1, A: 1}), pass.WithClearDepth(1))
	require.NoError(t, err)
	h, err := pass.New(pass.WithLabel("h"), pass.WithProgram(blurH), pass.WithDestination(mid),
		pass.WithDrawState(device.FullscreenDrawState()), pass.WithInput("source", src, attachment.ComponentColor),
		pass.WithDraw(quad, nil))
	require.NoError(t, err)
	v, err := pass.New(pass.WithLabel("v"), pass.WithProgram(blurV), pass.WithDestination(target.NewDisplay(dev)),
		pass.WithDrawState(device.FullscreenDrawState()), pass.WithInput("source", mid, attachment.ComponentColor),
		pass.WithUniforms(uniform.Bag{"gamma": uniform.Float(1), "exposure": uniform.Float(1)}),
		pass.WithDraw(quad, nil))
	require.NoError(t, err)

	for _, p := range []pass.Pass{clear, h, v} {
		require.NoError(t, p.Run(nil))
	}
	require.NoError(t, dev.Display().Present())
	assert.Equal(t, 1, dev.Frames())
}
