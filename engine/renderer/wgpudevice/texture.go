package wgpudevice

import (
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
)

// texture owns one GPU texture and the default view used both as a render attachment and
// as a sampled input.
type texture struct {
	dev      *Device
	label    string
	width    int
	height   int
	format   device.Format
	wformat  wgpu.TextureFormat
	tex      *wgpu.Texture
	view     *wgpu.TextureView
	released atomic.Bool
}

var _ device.Texture = &texture{}

func (d *Device) newTexture(label string, width, height int, format device.Format, wformat wgpu.TextureFormat) (*texture, error) {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wformat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &texture{
		dev:     d,
		label:   label,
		width:   width,
		height:  height,
		format:  format,
		wformat: wformat,
		tex:     tex,
		view:    view,
	}, nil
}

func (t *texture) Label() string         { return t.label }
func (t *texture) Width() int            { return t.width }
func (t *texture) Height() int           { return t.height }
func (t *texture) Format() device.Format { return t.format }
func (t *texture) Released() bool        { return t.released.Load() }

func (t *texture) Release() {
	if !t.released.CompareAndSwap(false, true) {
		return
	}
	t.dev.untrack(t)
	t.view.Release()
	t.tex.Release()
}
