package target

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
)

// View is the bound, drawable view handed to a Bind scope. It is only valid for the
// duration of that scope: any use after the scope returns panics with ErrViewEscaped.
type View struct {
	label  string
	width  int
	height int
	begin  func(ops device.LoadOps) (device.Encoder, error)

	enc     device.Encoder
	pending device.LoadOps
	err     error
	live    bool
}

func newView(label string, width, height int, begin func(device.LoadOps) (device.Encoder, error)) *View {
	return &View{label: label, width: width, height: height, begin: begin, live: true}
}

func (v *View) check() {
	if !v.live {
		panic(fmt.Errorf("%s: %w", v.label, ErrViewEscaped))
	}
}

// Label returns the label of the bound destination.
func (v *View) Label() string {
	v.check()
	return v.label
}

// Width returns the width of the bound destination.
func (v *View) Width() int {
	v.check()
	return v.width
}

// Height returns the height of the bound destination.
func (v *View) Height() int {
	v.check()
	return v.height
}

// ClearColor clears every color output to c. Clears issued before the first draw are folded
// into the encoder's load operations; a clear after a draw ends the open encoder first.
//
// Parameters:
//   - c: the clear color
func (v *View) ClearColor(c device.Color) {
	v.check()
	v.flush()
	v.pending.ClearColor = &c
}

// ClearDepth clears the depth output to d. See ClearColor for ordering.
//
// Parameters:
//   - d: the clear depth, usually 1
func (v *View) ClearDepth(d float32) {
	v.check()
	v.flush()
	v.pending.ClearDepth = &d
}

// Draw issues one draw into the bound destination.
//
// Parameters:
//   - call: the draw call
//
// Returns:
//   - error: *device.DrawError or an encoder error from the device
func (v *View) Draw(call device.DrawCall) error {
	v.check()
	if v.err != nil {
		return v.err
	}
	if v.enc == nil {
		enc, err := v.begin(v.pending)
		if err != nil {
			return fmt.Errorf("%s: begin: %w", v.label, err)
		}
		v.enc = enc
		v.pending = device.LoadOps{}
	}
	return v.enc.Draw(call)
}

// flush ends the open encoder so later clears apply after earlier draws.
func (v *View) flush() {
	if v.enc == nil {
		return
	}
	if err := v.enc.End(); err != nil && v.err == nil {
		v.err = fmt.Errorf("%s: end: %w", v.label, err)
	}
	v.enc = nil
}

// finish applies outstanding clears, ends the encoder and invalidates the view.
func (v *View) finish() error {
	if v.enc == nil && !v.pending.Empty() && v.err == nil {
		enc, err := v.begin(v.pending)
		if err != nil {
			v.err = fmt.Errorf("%s: begin: %w", v.label, err)
		} else {
			v.enc = enc
		}
	}
	v.flush()
	v.live = false
	v.pending = device.LoadOps{}
	return v.err
}

// scope runs fn with a fresh view and returns fn's error, or the error from finishing the view.
// The view is invalidated even if fn panics.
func scope(label string, width, height int, begin func(device.LoadOps) (device.Encoder, error), fn func(*View) error) (err error) {
	v := newView(label, width, height, begin)
	defer func() {
		if !v.live {
			return
		}
		ferr := v.finish()
		if err == nil {
			err = ferr
		}
	}()
	err = fn(v)
	if err != nil {
		v.flush()
		v.live = false
		return err
	}
	return v.finish()
}

var (
	// ErrReentrantBinding is the panic value when a destination is bound while already bound.
	ErrReentrantBinding = errors.New("re-entrant binding")

	// ErrViewEscaped is the panic value when a View is used outside its Bind scope.
	ErrViewEscaped = errors.New("view used outside its binding scope")

	// ErrResizeWhileBound is the panic value when a destination is resized inside its own Bind scope.
	ErrResizeWhileBound = errors.New("resize while bound")

	// ErrReleaseWhileBound is the panic value when a destination is released inside its own Bind scope.
	ErrReleaseWhileBound = errors.New("release while bound")
)
