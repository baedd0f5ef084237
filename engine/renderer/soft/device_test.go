package soft_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft/softtest"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

func newTarget(t *testing.T, dev *soft.Device, w, h int, depth bool) (device.Framebuffer, device.Texture, device.Texture) {
	t.Helper()
	color, err := dev.CreateTexture(device.TextureDescriptor{Label: "color", Width: w, Height: h, Format: device.FormatRGBA8Unorm})
	require.NoError(t, err)
	desc := device.FramebufferDescriptor{Label: "fb", Color: []device.Texture{color}}
	var depthTex device.Texture
	if depth {
		depthTex, err = dev.CreateTexture(device.TextureDescriptor{Label: "depth", Width: w, Height: h, Format: device.FormatDepth32Float})
		require.NoError(t, err)
		desc.Depth = depthTex
	}
	fb, err := dev.CreateFramebuffer(desc)
	require.NoError(t, err)
	return fb, color, depthTex
}

func draw(t *testing.T, fb device.Framebuffer, ops device.LoadOps, calls ...device.DrawCall) {
	t.Helper()
	enc, err := fb.Begin(ops)
	require.NoError(t, err)
	for _, c := range calls {
		require.NoError(t, enc.Draw(c))
	}
	require.NoError(t, enc.End())
}

func TestQuadCoversEveryPixelOnce(t *testing.T) {
	dev := soft.NewDevice()
	fb, color, _ := newTarget(t, dev, 5, 3, false)
	quad, err := softtest.Quad(dev)
	require.NoError(t, err)
	prog := softtest.Fill()

	draw(t, fb, device.LoadOps{}, device.DrawCall{
		Program:  prog,
		Geometry: quad,
		State:    device.FullscreenDrawState(),
		Uniforms: softtest.ColorBag(1, 0, 1, 1),
	})
	assert.Equal(t, int64(15), prog.FragmentInvocations())
	assert.Equal(t, int64(4), prog.VertexInvocations())
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			assert.Equal(t, mgl32.Vec4{1, 0, 1, 1}, dev.Pixel(color, x, y))
		}
	}
}

func TestCulling(t *testing.T) {
	n := mgl32.Vec3{0, 0, 1}
	tests := []struct {
		name      string
		cull      device.CullMode
		clockwise bool
		want      int64
	}{
		{"back culls clockwise", device.CullBack, true, 0},
		{"back keeps counter-clockwise", device.CullBack, false, 16},
		{"front culls counter-clockwise", device.CullFront, false, 0},
		{"none keeps both", device.CullNone, true, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := soft.NewDevice()
			fb, _, _ := newTarget(t, dev, 4, 4, false)
			indices := []uint32{0, 1, 2, 0, 2, 3}
			if tt.clockwise {
				indices = []uint32{0, 2, 1, 0, 3, 2}
			}
			quad, err := dev.CreateGeometry("quad", []device.Vertex{
				{Position: mgl32.Vec3{-1, -1, 0}, Normal: n},
				{Position: mgl32.Vec3{1, -1, 0}, Normal: n},
				{Position: mgl32.Vec3{1, 1, 0}, Normal: n},
				{Position: mgl32.Vec3{-1, 1, 0}, Normal: n},
			}, indices)
			require.NoError(t, err)

			prog := softtest.Fill()
			draw(t, fb, device.LoadOps{}, device.DrawCall{
				Program:  prog,
				Geometry: quad,
				State:    device.DrawState{Cull: tt.cull},
				Uniforms: softtest.ColorBag(1, 1, 1, 1),
			})
			assert.Equal(t, tt.want, prog.FragmentInvocations())
		})
	}
}

func TestDepthTest(t *testing.T) {
	dev := soft.NewDevice()
	fb, color, depth := newTarget(t, dev, 2, 2, true)
	prog := softtest.Fill()
	state := device.DefaultDrawState()

	at := func(z float32, r, g, b float32) device.DrawCall {
		quad, err := softtest.QuadAt(dev, z)
		require.NoError(t, err)
		return device.DrawCall{Program: prog, Geometry: quad, State: state, Uniforms: softtest.ColorBag(r, g, b, 1)}
	}
	clearDepth := float32(1)

	draw(t, fb, device.LoadOps{ClearDepth: &clearDepth}, at(0.5, 1, 0, 0), at(0.7, 0, 1, 0))
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, dev.Pixel(color, 0, 0))
	assert.Equal(t, float32(0.5), dev.Pixel(depth, 0, 0)[0])

	draw(t, fb, device.LoadOps{}, at(0.3, 0, 0, 1))
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 1}, dev.Pixel(color, 1, 1))

	// Equal depth fails Less and passes LessEqual.
	draw(t, fb, device.LoadOps{}, at(0.3, 1, 1, 1))
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 1}, dev.Pixel(color, 1, 1))
	state.DepthCompare = device.CompareLessEqual
	draw(t, fb, device.LoadOps{}, at(0.3, 1, 1, 1))
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, dev.Pixel(color, 1, 1))
}

func TestDepthOnlyProgram(t *testing.T) {
	dev := soft.NewDevice()
	depth, err := dev.CreateTexture(device.TextureDescriptor{Label: "shadow", Width: 4, Height: 4, Format: device.FormatDepth32Float})
	require.NoError(t, err)
	fb, err := dev.CreateFramebuffer(device.FramebufferDescriptor{Label: "shadow", Depth: depth})
	require.NoError(t, err)
	quad, err := softtest.QuadAt(dev, 0.25)
	require.NoError(t, err)

	clearDepth := float32(1)
	state := device.DefaultDrawState()
	state.DepthBias = 0.125
	draw(t, fb, device.LoadOps{ClearDepth: &clearDepth}, device.DrawCall{
		Program:  softtest.Depth(),
		Geometry: quad,
		State:    state,
	})
	assert.Equal(t, float32(0.375), dev.Pixel(depth, 3, 3)[0])

	enc, err := fb.Begin(device.LoadOps{})
	require.NoError(t, err)
	err = enc.Draw(device.DrawCall{Program: softtest.Fill(), Geometry: quad, Uniforms: softtest.ColorBag(1, 1, 1, 1)})
	assert.ErrorIs(t, err, device.ErrOutputMismatch)
	require.NoError(t, enc.End())
	assert.ErrorIs(t, enc.End(), device.ErrEncoderEnded)
}

func TestViewport(t *testing.T) {
	dev := soft.NewDevice()
	fb, color, _ := newTarget(t, dev, 4, 4, false)
	quad, err := softtest.Quad(dev)
	require.NoError(t, err)
	prog := softtest.Fill()

	draw(t, fb, device.LoadOps{}, device.DrawCall{
		Program:  prog,
		Geometry: quad,
		State:    device.FullscreenDrawState(),
		Viewport: device.Viewport{X: 2, Y: 0, Width: 2, Height: 2},
		Uniforms: softtest.ColorBag(0, 1, 0, 1),
	})
	assert.Equal(t, int64(4), prog.FragmentInvocations())
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, dev.Pixel(color, 3, 0))
	assert.Equal(t, mgl32.Vec4{}, dev.Pixel(color, 0, 0))
	assert.Equal(t, mgl32.Vec4{}, dev.Pixel(color, 3, 3))
}

func TestQuantization(t *testing.T) {
	dev := soft.NewDevice()
	fb, color, _ := newTarget(t, dev, 1, 1, false)
	clear := device.Color{R: 0.3, G: 1.5, B: -1, A: 1}
	draw(t, fb, device.LoadOps{ClearColor: &clear})

	got := dev.Pixel(color, 0, 0)
	assert.Equal(t, float32(77)/255, got[0])
	assert.Equal(t, float32(1), got[1])
	assert.Equal(t, float32(0), got[2])

	hdr, err := dev.CreateTexture(device.TextureDescriptor{Label: "hdr", Width: 1, Height: 1, Format: device.FormatRGBA16Float})
	require.NoError(t, err)
	hfb, err := dev.CreateFramebuffer(device.FramebufferDescriptor{Label: "hdr", Color: []device.Texture{hdr}})
	require.NoError(t, err)
	bright := device.Color{R: 4, G: 0.5, B: 70000, A: 1}
	draw(t, hfb, device.LoadOps{ClearColor: &bright})
	assert.Equal(t, mgl32.Vec4{4, 0.5, 65504, 1}, dev.Pixel(hdr, 0, 0))
}

func gradient() *soft.Program {
	return soft.NewProgram("gradient", uniform.NewDescriptor("gradient"), softtest.Fullscreen,
		func(f *soft.Fragment, _ *soft.Uniforms) (soft.Outputs, bool) {
			uv := f.Varyings.Vec2(0)
			return soft.Outputs{{uv[0], uv[1], f.Coord[2], 1}}, true
		}, soft.WithVaryings(2))
}

func TestWorkerBandsMatchSequential(t *testing.T) {
	n := mgl32.Vec3{0, 0, 1}
	vertices := []device.Vertex{
		{Position: mgl32.Vec3{-0.9, -0.8, 0.1}, Normal: n, UV: mgl32.Vec2{0, 1}},
		{Position: mgl32.Vec3{0.95, -0.3, 0.6}, Normal: n, UV: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{-0.2, 0.9, 0.9}, Normal: n, UV: mgl32.Vec2{0.5, 0}},
	}

	render := func(workers int) ([]uint8, int64) {
		dev := soft.NewDevice(soft.WithDisplaySize(64, 48), soft.WithWorkers(workers))
		tri, err := dev.CreateGeometry("tri", vertices, nil)
		require.NoError(t, err)
		prog := gradient()
		enc, err := dev.Display().Begin(device.LoadOps{ClearColor: &device.Color{A: 1}})
		require.NoError(t, err)
		require.NoError(t, enc.Draw(device.DrawCall{Program: prog, Geometry: tri, State: device.FullscreenDrawState()}))
		require.NoError(t, enc.End())
		return dev.DisplayImage().Pix, prog.FragmentInvocations()
	}

	seq, seqN := render(1)
	par, parN := render(4)
	assert.Positive(t, seqN)
	assert.Equal(t, seqN, parN)
	assert.Equal(t, seq, par)
}

func TestAllocationErrors(t *testing.T) {
	dev := soft.NewDevice(soft.WithMaxTextureDimension(32), soft.WithUnsupportedFormats(device.FormatRGBA32Float))

	tests := []struct {
		name string
		desc device.TextureDescriptor
		want error
	}{
		{"zero width", device.TextureDescriptor{Width: 0, Height: 4, Format: device.FormatRGBA8Unorm}, device.ErrInvalidSize},
		{"over limit", device.TextureDescriptor{Width: 4, Height: 33, Format: device.FormatRGBA8Unorm}, device.ErrInvalidSize},
		{"unsupported", device.TextureDescriptor{Width: 4, Height: 4, Format: device.FormatRGBA32Float}, device.ErrFormatUnsupported},
		{"undefined", device.TextureDescriptor{Width: 4, Height: 4}, device.ErrFormatUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dev.CreateTexture(tt.desc)
			var allocErr *device.AllocationError
			require.True(t, errors.As(err, &allocErr))
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 0, dev.LiveTextures())

	dev.Release()
	_, err := dev.CreateTexture(device.TextureDescriptor{Width: 1, Height: 1, Format: device.FormatRGBA8Unorm})
	assert.ErrorIs(t, err, device.ErrReleased)
}

func TestFramebufferValidation(t *testing.T) {
	dev := soft.NewDevice()
	other := soft.NewDevice()
	mk := func(d *soft.Device, w, h int, f device.Format) device.Texture {
		tex, err := d.CreateTexture(device.TextureDescriptor{Label: "t", Width: w, Height: h, Format: f})
		require.NoError(t, err)
		return tex
	}

	_, err := dev.CreateFramebuffer(device.FramebufferDescriptor{
		Color: []device.Texture{mk(dev, 4, 4, device.FormatRGBA8Unorm)},
		Depth: mk(dev, 4, 2, device.FormatDepth32Float),
	})
	assert.ErrorIs(t, err, device.ErrSizeMismatch)

	_, err = dev.CreateFramebuffer(device.FramebufferDescriptor{Color: []device.Texture{mk(other, 4, 4, device.FormatRGBA8Unorm)}})
	assert.ErrorIs(t, err, device.ErrForeignResource)

	_, err = dev.CreateFramebuffer(device.FramebufferDescriptor{Color: []device.Texture{mk(dev, 4, 4, device.FormatDepth32Float)}})
	assert.ErrorIs(t, err, device.ErrFormatUnsupported)

	_, err = dev.CreateFramebuffer(device.FramebufferDescriptor{})
	assert.ErrorIs(t, err, device.ErrInvalidSize)
}

func TestDisplayPresent(t *testing.T) {
	dev := soft.NewDevice(soft.WithDisplaySize(3, 2))
	disp := dev.Display()
	assert.Nil(t, dev.PresentedImage())

	enc, err := disp.Begin(device.LoadOps{ClearColor: &device.Color{R: 1, A: 1}})
	require.NoError(t, err)
	require.NoError(t, enc.End())
	require.NoError(t, disp.Present())

	img := dev.PresentedImage()
	require.NotNil(t, img)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, uint8(255), img.NRGBAAt(2, 1).R)
	assert.Equal(t, 1, dev.Frames())

	var allocErr *device.AllocationError
	assert.True(t, errors.As(disp.Resize(0, 4), &allocErr))
	require.NoError(t, disp.Resize(8, 8))
	assert.Equal(t, 8, disp.Width())
}
