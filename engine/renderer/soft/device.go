package soft

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
)

// DefaultMaxTextureDimension is the largest texture edge the soft device accepts.
const DefaultMaxTextureDimension = 8192

// Device is a CPU reference implementation of device.Device. Every draw completes before
// Draw returns, so results can be read back immediately. Rasterization of one draw may be
// split into row bands run on a worker pool.
type Device struct {
	mu            *sync.Mutex
	live          map[*texture]struct{}
	disp          *display
	displayFormat device.Format
	maxDimension  int
	unsupported   map[device.Format]bool
	workers       int
	pool          worker.DynamicWorkerPool
	released      bool
}

var _ device.Device = &Device{}

// NewDevice creates a soft device with a display of the configured size.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Device: the device
func NewDevice(options ...DeviceBuilderOption) *Device {
	d := &Device{
		mu:            &sync.Mutex{},
		live:          make(map[*texture]struct{}),
		displayFormat: device.FormatRGBA8Unorm,
		maxDimension:  DefaultMaxTextureDimension,
		unsupported:   make(map[device.Format]bool),
		workers:       1,
	}
	width, height := 1, 1
	for _, opt := range options {
		opt(d, &width, &height)
	}
	if d.workers > 1 {
		d.pool = worker.NewDynamicWorkerPool(d.workers, 256, 1*time.Second)
	}
	d.disp = &display{dev: d}
	d.disp.tex = newTexture(d, device.TextureDescriptor{Label: "display", Width: width, Height: height, Format: d.displayFormat})

	common.Logger().Debug("soft device created", "workers", d.workers, "display", fmt.Sprintf("%dx%d", width, height))
	return d
}

func (d *Device) Name() string { return "soft" }

// CreateTexture allocates a zeroed texture.
func (d *Device) CreateTexture(desc device.TextureDescriptor) (device.Texture, error) {
	allocErr := func(err error) error {
		return &device.AllocationError{Label: desc.Label, Width: desc.Width, Height: desc.Height, Format: desc.Format, Err: err}
	}
	if d.released {
		return nil, allocErr(device.ErrReleased)
	}
	if desc.Width <= 0 || desc.Height <= 0 || desc.Width > d.maxDimension || desc.Height > d.maxDimension {
		return nil, allocErr(device.ErrInvalidSize)
	}
	if desc.Format == device.FormatUndefined || desc.Format.BytesPerPixel() == 0 || d.unsupported[desc.Format] {
		return nil, allocErr(device.ErrFormatUnsupported)
	}

	t := newTexture(d, desc)
	d.mu.Lock()
	d.live[t] = struct{}{}
	d.mu.Unlock()
	return t, nil
}

func (d *Device) untrack(t *texture) {
	d.mu.Lock()
	delete(d.live, t)
	d.mu.Unlock()
}

// LiveTextures returns the number of textures created and not yet released.
// The display texture is not counted.
func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}

// CreateFramebuffer groups textures into a drawable view. All textures must be from this
// device, unreleased, and equally sized.
func (d *Device) CreateFramebuffer(desc device.FramebufferDescriptor) (device.Framebuffer, error) {
	fb := &framebuffer{dev: d, label: desc.Label, width: -1, height: -1}
	check := func(t device.Texture, wantDepth bool) (*texture, error) {
		st, ok := t.(*texture)
		if !ok || st.dev != d {
			return nil, fmt.Errorf("framebuffer %q: %w", desc.Label, device.ErrForeignResource)
		}
		if st.Released() {
			return nil, fmt.Errorf("framebuffer %q: texture %q: %w", desc.Label, st.label, device.ErrReleased)
		}
		if st.format.IsDepth() != wantDepth {
			return nil, fmt.Errorf("framebuffer %q: texture %q has format %s: %w", desc.Label, st.label, st.format, device.ErrFormatUnsupported)
		}
		if fb.width < 0 {
			fb.width, fb.height = st.width, st.height
		} else if st.width != fb.width || st.height != fb.height {
			return nil, fmt.Errorf("framebuffer %q: %w", desc.Label, device.ErrSizeMismatch)
		}
		return st, nil
	}

	for _, c := range desc.Color {
		st, err := check(c, false)
		if err != nil {
			return nil, err
		}
		fb.colors = append(fb.colors, st)
	}
	if desc.Depth != nil {
		st, err := check(desc.Depth, true)
		if err != nil {
			return nil, err
		}
		fb.depth = st
	}
	if fb.width < 0 {
		return nil, fmt.Errorf("framebuffer %q: no outputs: %w", desc.Label, device.ErrInvalidSize)
	}
	return fb, nil
}

// CreateGeometry copies the mesh data into a geometry handle.
func (d *Device) CreateGeometry(label string, vertices []device.Vertex, indices []uint32) (device.Geometry, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("geometry %q: no vertices", label)
	}
	count := len(indices)
	if indices == nil {
		count = len(vertices)
	}
	if count%3 != 0 {
		return nil, fmt.Errorf("geometry %q: %d indices is not a triangle list", label, count)
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return nil, fmt.Errorf("geometry %q: index %d out of range", label, i)
		}
	}
	g := &geometry{
		dev:      d,
		label:    label,
		vertices: append([]device.Vertex(nil), vertices...),
	}
	if indices != nil {
		g.indices = append([]uint32(nil), indices...)
	}
	return g, nil
}

func (d *Device) Display() device.Display { return d.disp }

// DisplayImage returns the current display contents as an image.
func (d *Device) DisplayImage() *image.NRGBA { return d.disp.snapshot() }

// PresentedImage returns the image captured by the most recent Present, or nil.
func (d *Device) PresentedImage() *image.NRGBA { return d.disp.present }

// Frames returns how many times the display has been presented.
func (d *Device) Frames() int { return d.disp.frames }

// Pixel reads back a texel of a texture created by this device.
//
// Parameters:
//   - t: the texture
//   - x, y: texel coordinates, clamped to the edge
//
// Returns:
//   - mgl32.Vec4: the stored value, depth replicated into RGB for depth textures
func (d *Device) Pixel(t device.Texture, x, y int) mgl32.Vec4 {
	st, ok := t.(*texture)
	if !ok || st.Released() {
		return mgl32.Vec4{}
	}
	return st.load(x, y)
}

// DisplayPixel reads back a pixel of the display.
func (d *Device) DisplayPixel(x, y int) mgl32.Vec4 {
	return d.disp.tex.load(x, y)
}

// Release frees every live texture.
func (d *Device) Release() {
	d.mu.Lock()
	live := make([]*texture, 0, len(d.live))
	for t := range d.live {
		live = append(live, t)
	}
	d.released = true
	d.mu.Unlock()

	for _, t := range live {
		t.Release()
	}
}

type geometry struct {
	dev      *Device
	label    string
	vertices []device.Vertex
	indices  []uint32
	released bool
}

var _ device.Geometry = &geometry{}

func (g *geometry) Label() string    { return g.label }
func (g *geometry) VertexCount() int { return len(g.vertices) }
func (g *geometry) IndexCount() int  { return len(g.indices) }
func (g *geometry) Release()         { g.released = true }

func (g *geometry) index(i int) int {
	if g.indices == nil {
		return i
	}
	return int(g.indices[i])
}

func (g *geometry) primitiveCount() int {
	if g.indices == nil {
		return len(g.vertices) / 3
	}
	return len(g.indices) / 3
}
