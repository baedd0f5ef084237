package soft

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
)

type framebuffer struct {
	dev      *Device
	label    string
	width    int
	height   int
	colors   []*texture
	depth    *texture
	released bool
}

var _ device.Framebuffer = &framebuffer{}

func (f *framebuffer) Label() string { return f.label }
func (f *framebuffer) Width() int    { return f.width }
func (f *framebuffer) Height() int   { return f.height }

func (f *framebuffer) ColorFormats() []device.Format {
	out := make([]device.Format, len(f.colors))
	for i, c := range f.colors {
		out[i] = c.format
	}
	return out
}

func (f *framebuffer) DepthFormat() device.Format {
	if f.depth == nil {
		return device.FormatUndefined
	}
	return f.depth.format
}

func (f *framebuffer) Release() { f.released = true }

// Begin applies ops to every output and returns an encoder over the framebuffer.
func (f *framebuffer) Begin(ops device.LoadOps) (device.Encoder, error) {
	if f.released {
		return nil, fmt.Errorf("framebuffer %q: %w", f.label, device.ErrReleased)
	}
	for _, c := range f.colors {
		if c.Released() {
			return nil, fmt.Errorf("framebuffer %q: color %q: %w", f.label, c.label, device.ErrReleased)
		}
	}
	if f.depth != nil && f.depth.Released() {
		return nil, fmt.Errorf("framebuffer %q: depth %q: %w", f.label, f.depth.label, device.ErrReleased)
	}

	if ops.ClearColor != nil {
		for _, c := range f.colors {
			c.fill(ops.ClearColor.Vec4())
		}
	}
	if ops.ClearDepth != nil && f.depth != nil {
		for i := range f.depth.data {
			f.depth.data[i] = f.depth.quantize(*ops.ClearDepth)
		}
	}
	return &encoder{fb: f}, nil
}

type encoder struct {
	fb    *framebuffer
	ended bool
}

var _ device.Encoder = &encoder{}

// Draw validates call against the framebuffer and rasterizes it synchronously.
func (e *encoder) Draw(call device.DrawCall) error {
	label := call.Label()
	if e.ended {
		return &device.DrawError{Program: label, Err: device.ErrEncoderEnded}
	}
	prog, ok := call.Program.(*Program)
	if !ok {
		return &device.DrawError{Program: label, Err: fmt.Errorf("program: %w", device.ErrForeignResource)}
	}
	geo, ok := call.Geometry.(*geometry)
	if !ok || geo.dev != e.fb.dev {
		return &device.DrawError{Program: label, Err: fmt.Errorf("geometry: %w", device.ErrForeignResource)}
	}
	if geo.released {
		return &device.DrawError{Program: label, Err: fmt.Errorf("geometry %q: %w", geo.label, device.ErrReleased)}
	}
	if prog.outputs != len(e.fb.colors) {
		return &device.DrawError{Program: label, Err: fmt.Errorf("%d outputs, framebuffer %q has %d: %w",
			prog.outputs, e.fb.label, len(e.fb.colors), device.ErrOutputMismatch)}
	}
	if err := prog.desc.Validate(call.Uniforms); err != nil {
		return &device.DrawError{Program: label, Err: err}
	}
	for _, f := range prog.desc.Textures() {
		t, ok := call.Uniforms[f.Name].Texture().(*texture)
		if !ok || t.dev != e.fb.dev {
			return &device.DrawError{Program: label, Err: fmt.Errorf("texture %q: %w", f.Name, device.ErrForeignResource)}
		}
		if t.Released() {
			return &device.DrawError{Program: label, Err: fmt.Errorf("texture %q: %w", f.Name, device.ErrReleased)}
		}
	}

	e.fb.dev.rasterize(e.fb, prog, geo, call)
	return nil
}

func (e *encoder) End() error {
	if e.ended {
		return device.ErrEncoderEnded
	}
	e.ended = true
	return nil
}

// display is the soft presentation surface: an RGBA8 texture replaced on Resize.
type display struct {
	dev     *Device
	tex     *texture
	frames  int
	present *image.NRGBA
}

var _ device.Display = &display{}

func (d *display) Width() int            { return d.tex.width }
func (d *display) Height() int           { return d.tex.height }
func (d *display) Format() device.Format { return d.tex.format }

func (d *display) Begin(ops device.LoadOps) (device.Encoder, error) {
	fb := &framebuffer{dev: d.dev, label: "display", width: d.tex.width, height: d.tex.height, colors: []*texture{d.tex}}
	return fb.Begin(ops)
}

func (d *display) Resize(width, height int) error {
	if width <= 0 || height <= 0 || width > d.dev.maxDimension || height > d.dev.maxDimension {
		return &device.AllocationError{Label: "display", Width: width, Height: height, Format: d.dev.displayFormat, Err: device.ErrInvalidSize}
	}
	if width == d.tex.width && height == d.tex.height {
		return nil
	}
	d.tex = newTexture(d.dev, device.TextureDescriptor{Label: "display", Width: width, Height: height, Format: d.dev.displayFormat})
	return nil
}

// Present snapshots the display texture as the presented image.
func (d *display) Present() error {
	d.frames++
	d.present = d.snapshot()
	return nil
}

func (d *display) snapshot() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, d.tex.width, d.tex.height))
	for y := 0; y < d.tex.height; y++ {
		for x := 0; x < d.tex.width; x++ {
			c := d.tex.load(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: toByte(c[0]), G: toByte(c[1]), B: toByte(c[2]), A: toByte(c[3])})
		}
	}
	return img
}

func toByte(v float32) uint8 {
	v = min(max(v, 0), 1)
	return uint8(v*255 + 0.5)
}
