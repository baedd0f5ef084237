package device

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// Format is a texel format understood by every device backend.
type Format uint8

const (
	FormatUndefined Format = iota
	FormatRGBA8Unorm
	FormatBGRA8Unorm
	FormatRGBA16Float
	FormatRGBA32Float
	FormatR32Float
	FormatDepth24Plus
	FormatDepth32Float
)

// String returns a human-readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA8Unorm:
		return "RGBA8Unorm"
	case FormatBGRA8Unorm:
		return "BGRA8Unorm"
	case FormatRGBA16Float:
		return "RGBA16Float"
	case FormatRGBA32Float:
		return "RGBA32Float"
	case FormatR32Float:
		return "R32Float"
	case FormatDepth24Plus:
		return "Depth24Plus"
	case FormatDepth32Float:
		return "Depth32Float"
	case FormatUndefined:
		return "Undefined"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// IsDepth reports whether the format stores depth rather than color.
func (f Format) IsDepth() bool {
	return f == FormatDepth24Plus || f == FormatDepth32Float
}

// BytesPerPixel returns the storage size of one texel.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatRGBA8Unorm, FormatBGRA8Unorm, FormatR32Float, FormatDepth24Plus, FormatDepth32Float:
		return 4
	case FormatRGBA16Float:
		return 8
	case FormatRGBA32Float:
		return 16
	default:
		return 0
	}
}

// Color is a linear RGBA color.
type Color struct {
	R, G, B, A float32
}

// Vec4 returns the color as a vector.
func (c Color) Vec4() mgl32.Vec4 { return mgl32.Vec4{c.R, c.G, c.B, c.A} }

// TextureDescriptor describes a single 2D texture usable both as a render attachment and as a
// sampled input.
type TextureDescriptor struct {
	Label  string
	Width  int
	Height int
	Format Format
}

// Texture is a device-owned 2D texture.
type Texture interface {
	uniform.Texture

	// Format returns the texel format.
	Format() Format

	// Released reports whether Release has been called.
	Released() bool

	// Release frees the device memory. Idempotent.
	Release()
}

// FramebufferDescriptor groups equally sized textures into one drawable surface.
// Color textures map to output slots in order.
type FramebufferDescriptor struct {
	Label string
	Color []Texture
	Depth Texture
}

// LoadOps selects how a framebuffer's contents are initialized when an encoder begins.
// A nil field keeps the existing contents.
type LoadOps struct {
	ClearColor *Color
	ClearDepth *float32
}

// Empty reports whether neither clear is requested.
func (o LoadOps) Empty() bool {
	return o.ClearColor == nil && o.ClearDepth == nil
}

// Encoder records the draws of one render pass over a framebuffer.
// End must be called exactly once; further draws after End fail.
type Encoder interface {
	Draw(call DrawCall) error
	End() error
}

// Framebuffer is a drawable view over one or more textures.
type Framebuffer interface {
	Label() string
	Width() int
	Height() int

	// ColorFormats returns the formats of the color outputs in slot order.
	ColorFormats() []Format

	// DepthFormat returns the depth format, or FormatUndefined when there is no depth output.
	DepthFormat() Format

	// Begin opens an encoder applying ops to the outputs.
	Begin(ops LoadOps) (Encoder, error)

	// Release frees the view. It never releases the underlying textures.
	Release()
}

// Display is the presentation surface. It behaves like a single-color framebuffer whose
// texture is owned by the device and replaced on Resize.
type Display interface {
	Width() int
	Height() int
	Format() Format
	Begin(ops LoadOps) (Encoder, error)
	Resize(width, height int) error
	Present() error
}

// Vertex is the single vertex layout shared by every program: location 0 position,
// location 1 normal, location 2 uv.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// VertexStride is the byte size of Vertex as laid out in a vertex buffer.
const VertexStride = 32

// Geometry is an opaque handle to uploaded mesh data.
type Geometry interface {
	Label() string
	VertexCount() int
	IndexCount() int
	Release()
}

// Program is an opaque handle to a compiled shader program.
type Program interface {
	Label() string

	// Descriptor returns the uniform interface, built once when the program was created.
	Descriptor() *uniform.Descriptor

	// Outputs returns the number of color outputs the fragment stage writes.
	Outputs() int
}

// ProgramLibrary resolves shader programs by name for a specific backend.
type ProgramLibrary interface {
	Program(name string) (Program, error)
}

// Device creates every resource the render-target layer needs.
type Device interface {
	// Name identifies the backend.
	Name() string

	// CreateTexture allocates a texture or returns *AllocationError.
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// CreateFramebuffer binds textures into a drawable view.
	CreateFramebuffer(desc FramebufferDescriptor) (Framebuffer, error)

	// CreateGeometry uploads mesh data. A nil index slice draws vertices in order.
	CreateGeometry(label string, vertices []Vertex, indices []uint32) (Geometry, error)

	// Display returns the presentation surface.
	Display() Display

	// Release frees every device resource.
	Release()
}
