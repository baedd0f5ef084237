package device

// CompareFunc selects the depth comparison. The zero value is CompareLess.
type CompareFunc uint8

const (
	CompareLess CompareFunc = iota
	CompareLessEqual
	CompareAlways
)

// Test reports whether a fragment at depth passes against stored.
func (c CompareFunc) Test(depth, stored float32) bool {
	switch c {
	case CompareLessEqual:
		return depth <= stored
	case CompareAlways:
		return true
	default:
		return depth < stored
	}
}

// BlendMode selects how fragment colors combine with the destination.
type BlendMode uint8

const (
	BlendNone BlendMode = iota
	// BlendAlpha is src*srcAlpha + dst*(1-srcAlpha).
	BlendAlpha
	// BlendAdditive is src + dst.
	BlendAdditive
)

// CullMode selects which triangle faces are discarded. Front faces wind counter-clockwise.
type CullMode uint8

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

// DrawState is the fixed-function configuration of a draw.
type DrawState struct {
	DepthTest    bool
	DepthWrite   bool
	DepthCompare CompareFunc
	Blend        BlendMode
	Cull         CullMode

	// DepthBias is a constant offset added to window-space depth.
	DepthBias float32
}

// DefaultDrawState is depth-tested, depth-written geometry with back faces culled.
func DefaultDrawState() DrawState {
	return DrawState{
		DepthTest:    true,
		DepthWrite:   true,
		DepthCompare: CompareLess,
		Cull:         CullBack,
	}
}

// FullscreenDrawState is the state for full-screen post-processing quads.
func FullscreenDrawState() DrawState {
	return DrawState{Cull: CullNone}
}

// Viewport is a pixel rectangle. The zero value covers the whole framebuffer.
type Viewport struct {
	X, Y          int
	Width, Height int
}

// IsZero reports whether the viewport is unset.
func (v Viewport) IsZero() bool {
	return v.Width == 0 || v.Height == 0
}

// Resolve returns v, or the full width x height rectangle when v is unset.
func (v Viewport) Resolve(width, height int) Viewport {
	if v.IsZero() {
		return Viewport{Width: width, Height: height}
	}
	return v
}
