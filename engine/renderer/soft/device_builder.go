package soft

import "github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"

// DeviceBuilderOption configures a soft Device. Display size options write through the
// width/height pointers so the display can be allocated after every option is applied.
type DeviceBuilderOption func(d *Device, width, height *int)

// WithDisplaySize sets the initial display size.
func WithDisplaySize(width, height int) DeviceBuilderOption {
	return func(d *Device, w, h *int) {
		*w, *h = max(width, 1), max(height, 1)
	}
}

// WithWorkers sets how many goroutines rasterize row bands of a draw in parallel.
// Values below 2 rasterize on the calling goroutine.
func WithWorkers(n int) DeviceBuilderOption {
	return func(d *Device, _, _ *int) {
		d.workers = max(n, 1)
	}
}

// WithMaxTextureDimension sets the largest accepted texture edge.
func WithMaxTextureDimension(n int) DeviceBuilderOption {
	return func(d *Device, _, _ *int) {
		d.maxDimension = n
	}
}

// WithUnsupportedFormats makes CreateTexture reject the given formats, for exercising
// allocation fallbacks.
func WithUnsupportedFormats(formats ...device.Format) DeviceBuilderOption {
	return func(d *Device, _, _ *int) {
		for _, f := range formats {
			d.unsupported[f] = true
		}
	}
}

// WithDisplayFormat sets the display texture format.
func WithDisplayFormat(f device.Format) DeviceBuilderOption {
	return func(d *Device, _, _ *int) {
		d.displayFormat = f
	}
}
