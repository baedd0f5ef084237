package attachment

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
)

// Kind selects which component textures an Attachment holds.
type Kind uint8

const (
	// KindColorOnly is one color texture.
	KindColorOnly Kind = iota
	// KindColorDepth is one color texture plus a depth texture.
	KindColorDepth
	// KindShadowDepth is one sampled depth texture and no color.
	KindShadowDepth
	// KindDeferredGeometry is position, normal and albedo color textures plus a depth texture.
	KindDeferredGeometry
)

func (k Kind) String() string {
	switch k {
	case KindColorOnly:
		return "ColorOnly"
	case KindColorDepth:
		return "ColorDepth"
	case KindShadowDepth:
		return "ShadowDepth"
	case KindDeferredGeometry:
		return "DeferredGeometry"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Component names one texture of an Attachment.
type Component string

const (
	ComponentColor    Component = "color"
	ComponentDepth    Component = "depth"
	ComponentPosition Component = "position"
	ComponentNormal   Component = "normal"
	ComponentAlbedo   Component = "albedo"
)

// ErrUnknownKind is returned when creating an attachment of an undefined kind.
var ErrUnknownKind = errors.New("unknown attachment kind")

type attachmentImpl struct {
	mu *sync.Mutex

	dev    device.Device
	label  string
	kind   Kind
	width  int
	height int

	colorFormat    device.Format
	depthFormat    device.Format
	geometryFormat [3]device.Format

	// colors is in output-slot order; names is parallel to colors.
	colors   []device.Texture
	names    []Component
	depth    device.Texture
	released bool
}

// Attachment is the storage behind one offscreen render surface: one or more equally sized
// textures that are allocated together and released together. It has no resize operation;
// a new size means a new Attachment (see Recreate).
type Attachment interface {
	// Label returns the attachment label used to name its textures.
	Label() string

	// Kind returns the attachment variant.
	Kind() Kind

	// Width returns the width shared by every component.
	Width() int

	// Height returns the height shared by every component.
	Height() int

	// Color returns the color texture of ColorOnly and ColorDepth attachments.
	//
	// Returns:
	//   - device.Texture: the color texture, or nil for other kinds
	Color() device.Texture

	// Depth returns the depth texture of ColorDepth, ShadowDepth and DeferredGeometry attachments.
	//
	// Returns:
	//   - device.Texture: the depth texture, or nil for ColorOnly
	Depth() device.Texture

	// Position returns the G-buffer position texture, or nil for other kinds.
	Position() device.Texture

	// Normal returns the G-buffer normal texture, or nil for other kinds.
	Normal() device.Texture

	// Albedo returns the G-buffer albedo texture, or nil for other kinds.
	Albedo() device.Texture

	// Component looks up a component texture by name.
	//
	// Parameters:
	//   - c: the component name
	//
	// Returns:
	//   - device.Texture: the texture
	//   - bool: false if this kind has no such component
	Component(c Component) (device.Texture, bool)

	// Components returns the component names present, color slots first, depth last.
	Components() []Component

	// ColorTextures returns the color components in output-slot order.
	ColorTextures() []device.Texture

	// Recreate allocates a new attachment of the same kind, label and formats at a new size.
	// The receiver is left untouched.
	//
	// Parameters:
	//   - width, height: the new size
	//
	// Returns:
	//   - Attachment: the new attachment
	//   - error: *device.AllocationError when the device rejects the allocation
	Recreate(width, height int) (Attachment, error)

	// Released reports whether Release has been called.
	Released() bool

	// Release frees every component texture. Idempotent.
	Release()
}

var _ Attachment = &attachmentImpl{}

// New allocates every component of an attachment of the given kind. If any allocation fails,
// the components already allocated are released and the error is returned unchanged.
//
// Parameters:
//   - dev: the device to allocate on
//   - kind: the attachment variant
//   - width, height: the size shared by all components
//   - options: functional options selecting label and formats
//
// Returns:
//   - Attachment: the allocated attachment
//   - error: *device.AllocationError from the device, or ErrUnknownKind
func New(dev device.Device, kind Kind, width, height int, options ...AttachmentBuilderOption) (Attachment, error) {
	a := &attachmentImpl{
		mu:          &sync.Mutex{},
		dev:         dev,
		label:       "attachment",
		kind:        kind,
		width:       width,
		height:      height,
		colorFormat: device.FormatRGBA8Unorm,
		depthFormat: device.FormatDepth32Float,
		geometryFormat: [3]device.Format{
			device.FormatRGBA32Float,
			device.FormatRGBA16Float,
			device.FormatRGBA8Unorm,
		},
	}
	for _, opt := range options {
		opt(a)
	}
	if err := a.allocate(); err != nil {
		return nil, err
	}

	common.Logger().Debug("attachment allocated", "label", a.label, "kind", a.kind, "width", width, "height", height)
	return a, nil
}

func (a *attachmentImpl) allocate() error {
	var colors []Component
	hasDepth := true
	switch a.kind {
	case KindColorOnly:
		colors, hasDepth = []Component{ComponentColor}, false
	case KindColorDepth:
		colors = []Component{ComponentColor}
	case KindShadowDepth:
	case KindDeferredGeometry:
		colors = []Component{ComponentPosition, ComponentNormal, ComponentAlbedo}
	default:
		return fmt.Errorf("attachment %q: %w", a.label, ErrUnknownKind)
	}

	for i, c := range colors {
		format := a.colorFormat
		if a.kind == KindDeferredGeometry {
			format = a.geometryFormat[i]
		}
		tex, err := a.create(c, format)
		if err != nil {
			a.Release()
			return err
		}
		a.colors = append(a.colors, tex)
		a.names = append(a.names, c)
	}
	if hasDepth {
		tex, err := a.create(ComponentDepth, a.depthFormat)
		if err != nil {
			a.Release()
			return err
		}
		a.depth = tex
	}
	return nil
}

func (a *attachmentImpl) create(c Component, format device.Format) (device.Texture, error) {
	return a.dev.CreateTexture(device.TextureDescriptor{
		Label:  a.label + "." + string(c),
		Width:  a.width,
		Height: a.height,
		Format: format,
	})
}

func (a *attachmentImpl) Label() string { return a.label }
func (a *attachmentImpl) Kind() Kind    { return a.kind }
func (a *attachmentImpl) Width() int    { return a.width }
func (a *attachmentImpl) Height() int   { return a.height }

func (a *attachmentImpl) Color() device.Texture {
	t, _ := a.Component(ComponentColor)
	return t
}

func (a *attachmentImpl) Depth() device.Texture { return a.depth }

func (a *attachmentImpl) Position() device.Texture {
	t, _ := a.Component(ComponentPosition)
	return t
}

func (a *attachmentImpl) Normal() device.Texture {
	t, _ := a.Component(ComponentNormal)
	return t
}

func (a *attachmentImpl) Albedo() device.Texture {
	t, _ := a.Component(ComponentAlbedo)
	return t
}

func (a *attachmentImpl) Component(c Component) (device.Texture, bool) {
	if c == ComponentDepth {
		return a.depth, a.depth != nil
	}
	for i, name := range a.names {
		if name == c {
			return a.colors[i], true
		}
	}
	return nil, false
}

func (a *attachmentImpl) Components() []Component {
	out := append([]Component(nil), a.names...)
	if a.depth != nil {
		out = append(out, ComponentDepth)
	}
	return out
}

func (a *attachmentImpl) ColorTextures() []device.Texture {
	return append([]device.Texture(nil), a.colors...)
}

func (a *attachmentImpl) Recreate(width, height int) (Attachment, error) {
	return New(a.dev, a.kind, width, height,
		WithLabel(a.label),
		WithColorFormat(a.colorFormat),
		WithDepthFormat(a.depthFormat),
		WithGeometryFormats(a.geometryFormat[0], a.geometryFormat[1], a.geometryFormat[2]),
	)
}

func (a *attachmentImpl) Released() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.released
}

func (a *attachmentImpl) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		return
	}
	for _, t := range a.colors {
		t.Release()
	}
	if a.depth != nil {
		a.depth.Release()
	}
	a.released = true
}
