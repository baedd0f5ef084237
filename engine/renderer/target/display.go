package target

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
)

// Display adapts the device's presentation surface to the Destination interface so a pass
// can write to the screen with the same scoped binding as an offscreen target.
type Display struct {
	mu    *sync.Mutex
	disp  device.Display
	bound bool
}

var _ Destination = &Display{}

// NewDisplay wraps the display of dev.
//
// Parameters:
//   - dev: the device whose display to wrap
//
// Returns:
//   - *Display: the display destination
func NewDisplay(dev device.Device) *Display {
	return &Display{mu: &sync.Mutex{}, disp: dev.Display()}
}

func (d *Display) Label() string         { return "display" }
func (d *Display) Width() int            { return d.disp.Width() }
func (d *Display) Height() int           { return d.disp.Height() }
func (d *Display) Format() device.Format { return d.disp.Format() }

// Bind acquires the display view for fn. Re-entrant calls panic with ErrReentrantBinding.
func (d *Display) Bind(fn func(v *View) error) error {
	d.mu.Lock()
	if d.bound {
		d.mu.Unlock()
		panic(fmt.Errorf("display: %w", ErrReentrantBinding))
	}
	d.bound = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.bound = false
		d.mu.Unlock()
	}()
	return scope("display", d.disp.Width(), d.disp.Height(), d.disp.Begin, fn)
}

// Resize reconfigures the presentation surface. Resizing while bound panics.
//
// Parameters:
//   - width, height: the new surface size
//
// Returns:
//   - error: the device error, if any
func (d *Display) Resize(width, height int) error {
	d.mu.Lock()
	bound := d.bound
	d.mu.Unlock()
	if bound {
		panic(fmt.Errorf("display: %w", ErrResizeWhileBound))
	}
	if err := d.disp.Resize(width, height); err != nil {
		return fmt.Errorf("display: resize to %dx%d: %w", width, height, err)
	}
	return nil
}

// Present shows the frame drawn since the previous Present.
func (d *Display) Present() error {
	return d.disp.Present()
}
