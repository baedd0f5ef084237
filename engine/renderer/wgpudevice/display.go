package wgpudevice

import (
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
)

// display presents either to a window surface or, headless, into an offscreen texture.
type display struct {
	dev *Device

	surface   *wgpu.Surface
	format    wgpu.TextureFormat
	alphaMode wgpu.CompositeAlphaMode

	offscreen *texture

	// frameTexture and frameView hold the surface image acquired by the first Begin of a frame
	// until Present.
	frameTexture *wgpu.Texture
	frameView    *wgpu.TextureView

	width  int
	height int
	frames int
}

var _ device.Display = &display{}

func newSurfaceDisplay(d *Device, surface *wgpu.Surface) *display {
	capabilities := surface.GetCapabilities(d.adapter)
	format := capabilities.Formats[0]
	for _, preferred := range []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatRGBA8Unorm} {
		if slices.Contains(capabilities.Formats, preferred) {
			format = preferred
			break
		}
	}
	return &display{
		dev:       d,
		surface:   surface,
		format:    format,
		alphaMode: capabilities.AlphaModes[0],
	}
}

func newOffscreenDisplay(d *Device) *display {
	return &display{dev: d, format: wgpu.TextureFormatRGBA8Unorm}
}

func (s *display) Width() int            { return s.width }
func (s *display) Height() int           { return s.height }
func (s *display) Format() device.Format { return deviceFormat(s.format) }

// Resize reconfigures the surface, or replaces the offscreen texture. A zero size is recorded
// but leaves the surface unconfigured until the next non-zero size.
func (s *display) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("display %dx%d: %w", width, height, device.ErrInvalidSize)
	}
	s.releaseFrame()
	s.width, s.height = width, height
	if width == 0 || height == 0 {
		return nil
	}

	if s.surface != nil {
		s.surface.Configure(s.dev.adapter, s.dev.device, &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      s.format,
			Width:       uint32(width),
			Height:      uint32(height),
			PresentMode: s.dev.presentMode,
			AlphaMode:   s.alphaMode,
		})
		common.Logger().Debug("surface configured", "width", width, "height", height)
		return nil
	}

	tex, err := s.dev.newTexture("display", width, height, device.FormatRGBA8Unorm, s.format)
	if err != nil {
		return fmt.Errorf("display %dx%d: %w", width, height, err)
	}
	if s.offscreen != nil {
		s.offscreen.Release()
	}
	s.offscreen = tex
	return nil
}

// Begin opens a render pass over the current frame, acquiring the surface image on first use.
func (s *display) Begin(ops device.LoadOps) (device.Encoder, error) {
	if s.width == 0 || s.height == 0 {
		return nil, fmt.Errorf("display: %w", device.ErrInvalidSize)
	}
	view, err := s.acquire()
	if err != nil {
		return nil, err
	}
	return s.dev.begin(renderOutputs{
		label:        "display",
		width:        s.width,
		height:       s.height,
		colorViews:   []*wgpu.TextureView{view},
		colorFormats: []wgpu.TextureFormat{s.format},
		depthFormat:  wgpu.TextureFormatUndefined,
	}, ops)
}

func (s *display) acquire() (*wgpu.TextureView, error) {
	if s.surface == nil {
		return s.offscreen.view, nil
	}
	if s.frameView != nil {
		return s.frameView, nil
	}
	surfaceTexture, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("display: acquire: %w", err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, fmt.Errorf("display: acquire: %w", err)
	}
	s.frameTexture, s.frameView = surfaceTexture, view
	return view, nil
}

// Present shows the surface image drawn since the previous Present.
func (s *display) Present() error {
	s.frames++
	if s.surface == nil || s.frameTexture == nil {
		return nil
	}
	s.surface.Present()
	s.releaseFrame()
	return nil
}

func (s *display) releaseFrame() {
	if s.frameView != nil {
		s.frameView.Release()
		s.frameView = nil
	}
	if s.frameTexture != nil {
		s.frameTexture.Release()
		s.frameTexture = nil
	}
}

func (s *display) release() {
	s.releaseFrame()
	if s.offscreen != nil {
		s.offscreen.Release()
		s.offscreen = nil
	}
	if s.surface != nil {
		s.surface.Release()
		s.surface = nil
	}
}
