package wgpudevice

import "github.com/cogentcore/webgpu/wgpu"

// DeviceBuilderOption configures a Device. Display size options write through the
// width/height pointers so the display is configured after every option is applied.
type DeviceBuilderOption func(d *Device, width, height *int)

// WithSurface presents the display to a window surface.
//
// Parameters:
//   - desc: the surface descriptor, typically from window.Window.SurfaceDescriptor
//
// Returns:
//   - DeviceBuilderOption: a function that sets the surface descriptor
func WithSurface(desc *wgpu.SurfaceDescriptor) DeviceBuilderOption {
	return func(d *Device, _, _ *int) {
		d.surfaceDescriptor = desc
	}
}

// WithDisplaySize sets the initial display size.
func WithDisplaySize(width, height int) DeviceBuilderOption {
	return func(d *Device, w, h *int) {
		*w, *h = width, height
	}
}

// WithVSync selects FIFO presentation when enabled and immediate presentation otherwise.
func WithVSync(enabled bool) DeviceBuilderOption {
	return func(d *Device, _, _ *int) {
		if enabled {
			d.presentMode = wgpu.PresentModeFifo
		} else {
			d.presentMode = wgpu.PresentModeImmediate
		}
	}
}

// WithForceFallbackAdapter requests the software fallback adapter.
func WithForceFallbackAdapter(force bool) DeviceBuilderOption {
	return func(d *Device, _, _ *int) {
		d.forceFallbackAdapter = force
	}
}
