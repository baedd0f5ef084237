package target

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/attachment"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
)

// Destination is anything a pass can draw into: an offscreen RenderTarget or the Display.
type Destination interface {
	Label() string
	Width() int
	Height() int

	// Bind runs fn with the destination's bound view. Re-entrant calls panic.
	Bind(fn func(v *View) error) error
}

// WithBinding binds d, runs fn with the view and returns fn's result.
//
// Parameters:
//   - d: the destination to bind
//   - fn: the scope; the *View must not be retained
//
// Returns:
//   - R: the value returned by fn
//   - error: fn's error, or the error from finishing the binding
func WithBinding[R any](d Destination, fn func(v *View) (R, error)) (R, error) {
	var out R
	err := d.Bind(func(v *View) error {
		var err error
		out, err = fn(v)
		return err
	})
	return out, err
}

// RenderTarget owns one Attachment and the framebuffer view over it. The pair is only ever
// replaced together by Resize; drawing goes exclusively through Bind.
type RenderTarget struct {
	mu *sync.Mutex

	dev   device.Device
	label string
	att   attachment.Attachment
	fb    device.Framebuffer
	bound bool
}

var _ Destination = &RenderTarget{}

// New binds a framebuffer view over att and takes ownership of it. For DeferredGeometry the
// position, normal and albedo components map to output slots 0, 1 and 2.
//
// Parameters:
//   - dev: the device that allocated att
//   - att: the attachment to own
//
// Returns:
//   - *RenderTarget: the render target
//   - error: the framebuffer creation error, if any
func New(dev device.Device, att attachment.Attachment) (*RenderTarget, error) {
	fb, err := newFramebuffer(dev, att)
	if err != nil {
		return nil, err
	}
	return &RenderTarget{
		mu:    &sync.Mutex{},
		dev:   dev,
		label: att.Label(),
		att:   att,
		fb:    fb,
	}, nil
}

// NewWithAttachment allocates an attachment and wraps it in a render target in one step.
// If the framebuffer cannot be created the attachment is released.
//
// Parameters:
//   - dev: the device to allocate on
//   - kind: the attachment variant
//   - width, height: the size
//   - options: attachment options
//
// Returns:
//   - *RenderTarget: the render target
//   - error: *device.AllocationError or a framebuffer error
func NewWithAttachment(dev device.Device, kind attachment.Kind, width, height int, options ...attachment.AttachmentBuilderOption) (*RenderTarget, error) {
	att, err := attachment.New(dev, kind, width, height, options...)
	if err != nil {
		return nil, err
	}
	rt, err := New(dev, att)
	if err != nil {
		att.Release()
		return nil, err
	}
	return rt, nil
}

func newFramebuffer(dev device.Device, att attachment.Attachment) (device.Framebuffer, error) {
	fb, err := dev.CreateFramebuffer(device.FramebufferDescriptor{
		Label: att.Label(),
		Color: att.ColorTextures(),
		Depth: att.Depth(),
	})
	if err != nil {
		return nil, fmt.Errorf("render target %q: %w", att.Label(), err)
	}
	return fb, nil
}

func (rt *RenderTarget) Label() string { return rt.label }

func (rt *RenderTarget) Width() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.att.Width()
}

func (rt *RenderTarget) Height() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.att.Height()
}

// Attachment returns the current attachment for sampling. The returned value must not be
// released by the caller and is superseded by the next Resize.
func (rt *RenderTarget) Attachment() attachment.Attachment {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.att
}

// Bound reports whether a Bind scope is active.
func (rt *RenderTarget) Bound() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.bound
}

// Bind acquires the target's view, runs fn with it and releases it on return.
// Binding a target that is already bound panics with ErrReentrantBinding.
//
// Parameters:
//   - fn: the scope; the *View must not be retained
//
// Returns:
//   - error: fn's error, or the error from ending the encoder
func (rt *RenderTarget) Bind(fn func(v *View) error) error {
	rt.mu.Lock()
	if rt.bound {
		rt.mu.Unlock()
		panic(fmt.Errorf("render target %q: %w", rt.label, ErrReentrantBinding))
	}
	if rt.att.Released() {
		rt.mu.Unlock()
		return fmt.Errorf("render target %q: %w", rt.label, device.ErrReleased)
	}
	rt.bound = true
	fb := rt.fb
	rt.mu.Unlock()

	defer func() {
		rt.mu.Lock()
		rt.bound = false
		rt.mu.Unlock()
	}()
	return scope(rt.label, fb.Width(), fb.Height(), fb.Begin, fn)
}

// Resize replaces the attachment and its view with a new pair of the given size. The new pair
// is fully built before the swap; on failure the old pair is left intact and usable. The old
// pair is released after the swap. Resizing inside the target's own Bind scope panics.
//
// Parameters:
//   - width, height: the new size
//
// Returns:
//   - error: *device.AllocationError or a framebuffer error
func (rt *RenderTarget) Resize(width, height int) error {
	rt.mu.Lock()
	if rt.bound {
		rt.mu.Unlock()
		panic(fmt.Errorf("render target %q: %w", rt.label, ErrResizeWhileBound))
	}
	old := rt.att
	rt.mu.Unlock()

	if old.Width() == width && old.Height() == height && !old.Released() {
		return nil
	}

	att, err := old.Recreate(width, height)
	if err != nil {
		return fmt.Errorf("render target %q: resize to %dx%d: %w", rt.label, width, height, err)
	}
	fb, err := newFramebuffer(rt.dev, att)
	if err != nil {
		att.Release()
		return err
	}

	rt.mu.Lock()
	oldFb := rt.fb
	rt.att, rt.fb = att, fb
	rt.mu.Unlock()

	oldFb.Release()
	old.Release()
	common.Logger().Debug("render target resized", "label", rt.label, "width", width, "height", height)
	return nil
}

// Release frees the view and the attachment.
func (rt *RenderTarget) Release() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.bound {
		panic(fmt.Errorf("render target %q: %w", rt.label, ErrReleaseWhileBound))
	}
	rt.fb.Release()
	rt.att.Release()
}
