// Package wgpudevice implements device.Device on WebGPU through cogentcore/webgpu.
package wgpudevice

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
)

// Device is a WebGPU implementation of device.Device. Draws are recorded into one render pass
// per encoder and submitted when the encoder ends, so pass order on the queue matches the
// order passes run.
type Device struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceDescriptor    *wgpu.SurfaceDescriptor
	forceFallbackAdapter bool
	presentMode          wgpu.PresentMode
	maxDimension         int

	disp *display
	live map[*texture]struct{}

	// compareSampler serves every sampler_comparison binding; nearestSampler every plain sampler.
	compareSampler *wgpu.Sampler
	nearestSampler *wgpu.Sampler

	released bool
}

var _ device.Device = &Device{}

// NewDevice requests an adapter and device. With a surface descriptor the display presents to
// that surface; without one the display is an offscreen texture.
// Must be called from the goroutine that owns the window.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Device: the device
//   - error: an adapter, device or sampler creation error
func NewDevice(options ...DeviceBuilderOption) (*Device, error) {
	runtime.LockOSThread()
	d := &Device{
		mu:           &sync.Mutex{},
		presentMode:  wgpu.PresentModeFifo,
		maxDimension: int(wgpu.DefaultLimits().MaxTextureDimension2D),
		live:         make(map[*texture]struct{}),
	}
	width, height := 1, 1
	for _, opt := range options {
		opt(d, &width, &height)
	}

	d.instance = wgpu.CreateInstance(nil)
	var surface *wgpu.Surface
	if d.surfaceDescriptor != nil {
		surface = d.instance.CreateSurface(d.surfaceDescriptor)
	}

	a, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: d.forceFallbackAdapter,
		CompatibleSurface:    surface,
	})
	if err != nil {
		d.instance.Release()
		return nil, fmt.Errorf("wgpu: request adapter: %w", err)
	}
	d.adapter = a

	dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{Label: "oxy-shade device"})
	if err != nil {
		d.adapter.Release()
		d.instance.Release()
		return nil, fmt.Errorf("wgpu: request device: %w", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	if err := d.createSamplers(); err != nil {
		d.Release()
		return nil, err
	}

	if surface != nil {
		d.disp = newSurfaceDisplay(d, surface)
	} else {
		d.disp = newOffscreenDisplay(d)
	}
	if err := d.disp.Resize(width, height); err != nil {
		d.Release()
		return nil, err
	}

	common.Logger().Debug("wgpu device created", "surface", surface != nil, "display", fmt.Sprintf("%dx%d", width, height))
	return d, nil
}

func (d *Device) createSamplers() error {
	var err error
	d.compareSampler, err = d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Shadow Comparison Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		Compare:       wgpu.CompareFunctionLessEqual,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create comparison sampler: %w", err)
	}
	d.nearestSampler, err = d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Nearest Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create sampler: %w", err)
	}
	return nil
}

func (d *Device) Name() string { return "wgpu" }

// CreateTexture allocates a texture usable as a render attachment, a sampled input and a copy source.
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
	format, ok := textureFormat(desc.Format)
	if !ok {
		return nil, allocErr(device.ErrFormatUnsupported)
	}

	t, err := d.newTexture(desc.Label, desc.Width, desc.Height, desc.Format, format)
	if err != nil {
		return nil, allocErr(err)
	}
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
// The display is not counted.
func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}

// CreateFramebuffer groups textures into a drawable view. All textures must be from this
// device, unreleased and equally sized.
func (d *Device) CreateFramebuffer(desc device.FramebufferDescriptor) (device.Framebuffer, error) {
	fb := &framebuffer{dev: d, label: desc.Label, width: -1, height: -1}
	check := func(t device.Texture, wantDepth bool) (*texture, error) {
		wt, ok := t.(*texture)
		if !ok || wt.dev != d {
			return nil, fmt.Errorf("framebuffer %q: %w", desc.Label, device.ErrForeignResource)
		}
		if wt.Released() {
			return nil, fmt.Errorf("framebuffer %q: texture %q: %w", desc.Label, wt.label, device.ErrReleased)
		}
		if wt.format.IsDepth() != wantDepth {
			return nil, fmt.Errorf("framebuffer %q: texture %q has format %s: %w", desc.Label, wt.label, wt.format, device.ErrFormatUnsupported)
		}
		if fb.width < 0 {
			fb.width, fb.height = wt.width, wt.height
		} else if wt.width != fb.width || wt.height != fb.height {
			return nil, fmt.Errorf("framebuffer %q: %w", desc.Label, device.ErrSizeMismatch)
		}
		return wt, nil
	}

	for _, c := range desc.Color {
		wt, err := check(c, false)
		if err != nil {
			return nil, err
		}
		fb.colors = append(fb.colors, wt)
	}
	if desc.Depth != nil {
		wt, err := check(desc.Depth, true)
		if err != nil {
			return nil, err
		}
		fb.depth = wt
	}
	if fb.width < 0 {
		return nil, fmt.Errorf("framebuffer %q: no outputs: %w", desc.Label, device.ErrInvalidSize)
	}
	return fb, nil
}

// CreateGeometry uploads vertices, and indices when given, into GPU buffers.
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

	g := &geometry{label: label, vertexCount: len(vertices), indexCount: len(indices)}
	vertexData := common.SliceToBytes(vertices)
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("geometry %q: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, vertexData)
	g.vertexBuffer = buf

	if len(indices) > 0 {
		indexData := common.SliceToBytes(indices)
		buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: label + " Index Buffer",
			Size:  uint64(len(indexData)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			g.Release()
			return nil, fmt.Errorf("geometry %q: %w", label, err)
		}
		d.queue.WriteBuffer(buf, 0, indexData)
		g.indexBuffer = buf
	}
	return g, nil
}

func (d *Device) Display() device.Display { return d.disp }

// Frames returns how many times the display has been presented.
func (d *Device) Frames() int { return d.disp.frames }

// Release frees every live texture, the display and the device.
func (d *Device) Release() {
	d.mu.Lock()
	if d.released {
		d.mu.Unlock()
		return
	}
	d.released = true
	live := make([]*texture, 0, len(d.live))
	for t := range d.live {
		live = append(live, t)
	}
	d.mu.Unlock()

	for _, t := range live {
		t.Release()
	}
	if d.disp != nil {
		d.disp.release()
	}
	if d.compareSampler != nil {
		d.compareSampler.Release()
	}
	if d.nearestSampler != nil {
		d.nearestSampler.Release()
	}
	d.device.Release()
	d.adapter.Release()
	d.instance.Release()
}

type geometry struct {
	label        string
	vertexCount  int
	indexCount   int
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	released     bool
}

var _ device.Geometry = &geometry{}

func (g *geometry) Label() string    { return g.label }
func (g *geometry) VertexCount() int { return g.vertexCount }
func (g *geometry) IndexCount() int  { return g.indexCount }

func (g *geometry) Release() {
	if g.released {
		return
	}
	g.released = true
	if g.vertexBuffer != nil {
		g.vertexBuffer.Release()
	}
	if g.indexBuffer != nil {
		g.indexBuffer.Release()
	}
}
