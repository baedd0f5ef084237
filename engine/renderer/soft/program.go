package soft

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

const (
	// MaxVaryings is the number of float slots passed from the vertex to the fragment stage.
	MaxVaryings = 16

	// MaxOutputs is the number of color outputs a fragment stage may write.
	MaxOutputs = 4
)

// Varyings are the per-vertex values interpolated across a triangle.
type Varyings [MaxVaryings]float32

// Vec2 reads two consecutive slots starting at i.
func (v *Varyings) Vec2(i int) mgl32.Vec2 { return mgl32.Vec2{v[i], v[i+1]} }

// Vec3 reads three consecutive slots starting at i.
func (v *Varyings) Vec3(i int) mgl32.Vec3 { return mgl32.Vec3{v[i], v[i+1], v[i+2]} }

// SetVec2 writes two consecutive slots starting at i.
func (v *Varyings) SetVec2(i int, x mgl32.Vec2) { v[i], v[i+1] = x[0], x[1] }

// SetVec3 writes three consecutive slots starting at i.
func (v *Varyings) SetVec3(i int, x mgl32.Vec3) { v[i], v[i+1], v[i+2] = x[0], x[1], x[2] }

// VertexOut is the result of the vertex stage: a clip-space position plus varyings.
type VertexOut struct {
	Position mgl32.Vec4
	Varyings Varyings
}

// Fragment is the input of the fragment stage.
type Fragment struct {
	// Coord holds the pixel-center x and y, the window depth, and 1/w.
	Coord    mgl32.Vec4
	Varyings Varyings
	Front    bool
}

// Outputs holds the colors written to each output slot.
type Outputs [MaxOutputs]mgl32.Vec4

// VertexFunc transforms one vertex. It must be safe to call concurrently.
type VertexFunc func(v device.Vertex, u *Uniforms) VertexOut

// FragmentFunc shades one fragment. Returning false discards it. It must be safe to call concurrently.
type FragmentFunc func(f *Fragment, u *Uniforms) (Outputs, bool)

// Program is a shader program made of Go vertex and fragment functions.
type Program struct {
	label     string
	desc      *uniform.Descriptor
	vertex    VertexFunc
	fragment  FragmentFunc
	outputs   int
	varyings  int
	vertexN   atomic.Int64
	fragmentN atomic.Int64
}

var _ device.Program = &Program{}

// ProgramBuilderOption configures a Program.
type ProgramBuilderOption func(*Program)

// WithOutputs sets the number of color outputs written by the fragment stage.
func WithOutputs(n int) ProgramBuilderOption {
	return func(p *Program) {
		p.outputs = min(max(n, 0), MaxOutputs)
	}
}

// WithVaryings limits interpolation to the first n varying slots.
func WithVaryings(n int) ProgramBuilderOption {
	return func(p *Program) {
		p.varyings = min(max(n, 0), MaxVaryings)
	}
}

// NewProgram creates a program. A nil fragment function makes a depth-only program with
// zero outputs; otherwise the program writes one output unless WithOutputs says otherwise.
//
// Parameters:
//   - label: the program label
//   - desc: the uniform interface the stages read
//   - vertex: the vertex stage
//   - fragment: the fragment stage, or nil for depth-only
//   - options: functional options
//
// Returns:
//   - *Program: the program
func NewProgram(label string, desc *uniform.Descriptor, vertex VertexFunc, fragment FragmentFunc, options ...ProgramBuilderOption) *Program {
	p := &Program{
		label:    label,
		desc:     desc,
		vertex:   vertex,
		fragment: fragment,
		outputs:  1,
		varyings: MaxVaryings,
	}
	if fragment == nil {
		p.outputs = 0
	}
	for _, opt := range options {
		opt(p)
	}
	if desc == nil {
		p.desc = uniform.NewDescriptor(label)
	}
	return p
}

func (p *Program) Label() string                   { return p.label }
func (p *Program) Descriptor() *uniform.Descriptor { return p.desc }
func (p *Program) Outputs() int                    { return p.outputs }

// VertexInvocations returns how many vertices this program has processed.
func (p *Program) VertexInvocations() int64 { return p.vertexN.Load() }

// FragmentInvocations returns how many fragments this program has shaded.
func (p *Program) FragmentInvocations() int64 { return p.fragmentN.Load() }

// Uniforms gives shader stages typed access to the draw's uniform bag.
// Missing entries read as zero; bags are validated before a draw starts.
type Uniforms struct {
	bag uniform.Bag
}

func (u *Uniforms) Float(name string) float32  { return u.bag[name].Float() }
func (u *Uniforms) Int(name string) int32      { return u.bag[name].Int() }
func (u *Uniforms) Vec2(name string) mgl32.Vec2 { return u.bag[name].Vec2() }
func (u *Uniforms) Vec3(name string) mgl32.Vec3 { return u.bag[name].Vec3() }
func (u *Uniforms) Vec4(name string) mgl32.Vec4 { return u.bag[name].Vec4() }
func (u *Uniforms) Mat3(name string) mgl32.Mat3 { return u.bag[name].Mat3() }
func (u *Uniforms) Mat4(name string) mgl32.Mat4 { return u.bag[name].Mat4() }

func (u *Uniforms) texture(name string) *texture {
	t, _ := u.bag[name].Texture().(*texture)
	return t
}

// Sample reads the texel covering uv with nearest filtering and clamp-to-edge addressing.
// uv (0, 0) is the top-left corner.
func (u *Uniforms) Sample(name string, uv mgl32.Vec2) mgl32.Vec4 {
	if t := u.texture(name); t != nil {
		return t.sampleNearest(uv)
	}
	return mgl32.Vec4{}
}

// SampleLinear reads uv with bilinear filtering and clamp-to-edge addressing.
func (u *Uniforms) SampleLinear(name string, uv mgl32.Vec2) mgl32.Vec4 {
	if t := u.texture(name); t != nil {
		return t.sampleLinear(uv)
	}
	return mgl32.Vec4{}
}

// Texel reads the texel at integer coordinates, clamped to the texture edge.
func (u *Uniforms) Texel(name string, x, y int) mgl32.Vec4 {
	if t := u.texture(name); t != nil {
		return t.load(x, y)
	}
	return mgl32.Vec4{}
}

// SampleCompare performs a depth comparison against a depth texture: 1 when ref is not
// farther than the stored depth, 0 otherwise.
func (u *Uniforms) SampleCompare(name string, uv mgl32.Vec2, ref float32) float32 {
	if t := u.texture(name); t != nil {
		return t.compare(uv, ref)
	}
	return 1
}

// Size returns the dimensions of a texture input.
func (u *Uniforms) Size(name string) (int, int) {
	if t := u.texture(name); t != nil {
		return t.width, t.height
	}
	return 0, 0
}
