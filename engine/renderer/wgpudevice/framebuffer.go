package wgpudevice

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

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

// Begin opens a render pass over the framebuffer's textures.
func (f *framebuffer) Begin(ops device.LoadOps) (device.Encoder, error) {
	if f.released {
		return nil, fmt.Errorf("framebuffer %q: %w", f.label, device.ErrReleased)
	}
	outs := renderOutputs{label: f.label, width: f.width, height: f.height, depthFormat: wgpu.TextureFormatUndefined}
	for _, c := range f.colors {
		if c.Released() {
			return nil, fmt.Errorf("framebuffer %q: color %q: %w", f.label, c.label, device.ErrReleased)
		}
		outs.colorViews = append(outs.colorViews, c.view)
		outs.colorFormats = append(outs.colorFormats, c.wformat)
	}
	if f.depth != nil {
		if f.depth.Released() {
			return nil, fmt.Errorf("framebuffer %q: depth %q: %w", f.label, f.depth.label, device.ErrReleased)
		}
		outs.depthView = f.depth.view
		outs.depthFormat = f.depth.wformat
	}
	return f.dev.begin(outs, ops)
}

// renderOutputs is everything a render pass writes.
type renderOutputs struct {
	label        string
	width        int
	height       int
	colorViews   []*wgpu.TextureView
	colorFormats []wgpu.TextureFormat
	depthView    *wgpu.TextureView
	depthFormat  wgpu.TextureFormat
}

// releaser is any per-draw GPU object freed once its encoder is submitted.
type releaser interface {
	Release()
}

type encoder struct {
	dev       *Device
	outs      renderOutputs
	cmd       *wgpu.CommandEncoder
	pass      *wgpu.RenderPassEncoder
	transient []releaser
	ended     bool
}

var _ device.Encoder = &encoder{}

// begin records a render pass over outs with the given load operations. Outputs without a
// clear keep their contents.
func (d *Device) begin(outs renderOutputs, ops device.LoadOps) (*encoder, error) {
	if d.released {
		return nil, fmt.Errorf("%s: %w", outs.label, device.ErrReleased)
	}
	cmd, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", outs.label, err)
	}

	desc := &wgpu.RenderPassDescriptor{Label: outs.label}
	for _, view := range outs.colorViews {
		att := wgpu.RenderPassColorAttachment{
			View:    view,
			LoadOp:  wgpu.LoadOpLoad,
			StoreOp: wgpu.StoreOpStore,
		}
		if ops.ClearColor != nil {
			c := ops.ClearColor
			att.LoadOp = wgpu.LoadOpClear
			att.ClearValue = wgpu.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
		}
		desc.ColorAttachments = append(desc.ColorAttachments, att)
	}
	if outs.depthView != nil {
		depth := &wgpu.RenderPassDepthStencilAttachment{
			View:            outs.depthView,
			DepthLoadOp:     wgpu.LoadOpLoad,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		}
		if ops.ClearDepth != nil {
			depth.DepthLoadOp = wgpu.LoadOpClear
			depth.DepthClearValue = *ops.ClearDepth
		}
		desc.DepthStencilAttachment = depth
	}

	return &encoder{
		dev:  d,
		outs: outs,
		cmd:  cmd,
		pass: cmd.BeginRenderPass(desc),
	}, nil
}

// Draw records one draw. Uniforms are uploaded into a fresh buffer owned by the encoder.
func (e *encoder) Draw(call device.DrawCall) error {
	label := call.Label()
	if e.ended {
		return &device.DrawError{Program: label, Err: device.ErrEncoderEnded}
	}
	prog, ok := call.Program.(*Program)
	if !ok || prog.dev != e.dev {
		return &device.DrawError{Program: label, Err: device.ErrForeignResource}
	}
	geom, ok := call.Geometry.(*geometry)
	if !ok {
		return &device.DrawError{Program: label, Err: device.ErrForeignResource}
	}
	if geom.released {
		return &device.DrawError{Program: label, Err: fmt.Errorf("geometry %q: %w", geom.label, device.ErrReleased)}
	}
	if prog.Outputs() != len(e.outs.colorFormats) {
		return &device.DrawError{Program: label, Err: fmt.Errorf("program writes %d outputs, %s has %d: %w",
			prog.Outputs(), e.outs.label, len(e.outs.colorFormats), device.ErrOutputMismatch)}
	}

	pipeline, err := prog.pipeline(e.outs.colorFormats, e.outs.depthFormat, call.State)
	if err != nil {
		return &device.DrawError{Program: label, Err: err}
	}
	groups, err := prog.bindGroups(call.Uniforms, &e.transient)
	if err != nil {
		return &device.DrawError{Program: label, Err: err}
	}

	e.pass.SetPipeline(pipeline)
	for i, bg := range groups {
		e.pass.SetBindGroup(uint32(i), bg, nil)
	}
	if vp := call.Viewport; !vp.IsZero() {
		e.pass.SetViewport(float32(vp.X), float32(vp.Y), float32(vp.Width), float32(vp.Height), 0, 1)
	}
	e.pass.SetVertexBuffer(0, geom.vertexBuffer, 0, wgpu.WholeSize)
	if geom.indexBuffer != nil {
		e.pass.SetIndexBuffer(geom.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		e.pass.DrawIndexed(uint32(geom.indexCount), 1, 0, 0, 0)
	} else {
		e.pass.Draw(uint32(geom.vertexCount), 1, 0, 0)
	}
	return nil
}

// End finishes the render pass and submits it. Per-draw buffers and bind groups are released
// after submission.
func (e *encoder) End() error {
	if e.ended {
		return device.ErrEncoderEnded
	}
	e.ended = true
	defer func() {
		for _, r := range e.transient {
			r.Release()
		}
		e.transient = nil
		e.cmd.Release()
	}()

	e.pass.End()
	e.pass.Release()

	commandBuffer, err := e.cmd.Finish(nil)
	if err != nil {
		return fmt.Errorf("%s: %w", e.outs.label, err)
	}
	e.dev.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}
