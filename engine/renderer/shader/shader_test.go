package shader

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

const meshSnippet = `struct VertexIn {
    @location(0) position: vec3f,
    @location(1) normal: vec3f,
    @location(2) uv: vec2f,
}
`

const gbufferSource = `//@oxy:include mesh

struct Uniforms {
    model: mat4x4f,
    viewProj: mat4x4f,
    normalMatrix: mat3x3f,
    albedo: vec4f,
    pcf: i32,
}

@group(0) @binding(0) var<uniform> u: Uniforms;
@group(1) @binding(1) var shadowMap: texture_depth_2d;
@group(1) @binding(0) var source: texture_2d<f32>;
@group(2) @binding(1) var shadowMap_sampler: sampler_comparison;

struct VertexOut {
    @builtin(position) clip: vec4f,
    @location(0) uv: vec2f,
}

struct GBufferOut {
    @location(0) position: vec4f,
    @location(1) normal: vec4f,
    @location(2) albedo: vec4f,
}

/* vs_other is /* nested */ not an entry point */
@vertex
fn vs_main(in: VertexIn) -> VertexOut {
    var out: VertexOut;
    out.clip = u.viewProj * u.model * vec4f(in.position, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> GBufferOut {
    var out: GBufferOut;
    return out;
}
`

func includes() fstest.MapFS {
	return fstest.MapFS{
		"mesh.wgsl":  {Data: []byte(meshSnippet)},
		"a.wgsl":     {Data: []byte("//@oxy:include b\nfn a() {}\n")},
		"b.wgsl":     {Data: []byte("//@oxy:include a\nfn b() {}\n")},
		"twice.wgsl": {Data: []byte("//@oxy:include mesh\n//@oxy:include mesh\n")},
	}
}

func TestPreProcessorInclude(t *testing.T) {
	pp := NewPreProcessor(includes())

	out, err := pp.Process("//@oxy:include twice\nfn main() {}")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "struct VertexIn"))
	assert.Equal(t, []string{"twice", "mesh"}, pp.Included())
	assert.NotContains(t, out, "@oxy:")
}

func TestPreProcessorCycle(t *testing.T) {
	pp := NewPreProcessor(includes())

	out, err := pp.Process("//@oxy:include a")
	require.NoError(t, err)
	assert.Contains(t, out, "fn a()")
	assert.Contains(t, out, "fn b()")
	assert.Equal(t, []string{"a", "b"}, pp.Included())
}

func TestPreProcessorErrors(t *testing.T) {
	_, err := NewPreProcessor(includes()).Process("//@oxy:include missing")
	assert.Error(t, err)

	_, err = NewPreProcessor(nil).Process("//@oxy:include mesh")
	assert.Error(t, err)

	_, err = NewPreProcessor(includes()).Process("//@oxy:define X")
	assert.Error(t, err)
}

func TestReflect(t *testing.T) {
	s, err := NewShader("gbuffer", gbufferSource, WithIncludes(includes()))
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.VertexEntry())
	assert.Equal(t, "fs_main", s.FragmentEntry())
	assert.Equal(t, 3, s.Outputs())
	assert.Equal(t, []string{"mesh"}, s.Included())

	attrs, stride := s.VertexInputs()
	require.Len(t, attrs, 3)
	assert.Equal(t, uint64(32), stride)
	assert.Equal(t, VertexAttribute{Location: 2, Name: "uv", Type: "vec2f", Offset: 24}, attrs[2])

	res := s.Resources()
	require.Len(t, res, 4)
	assert.Equal(t, ResourceUniformBuffer, res[0].Kind())
	assert.Equal(t, "source", res[1].Name)
	assert.Equal(t, ResourceTexture, res[1].Kind())
	assert.Equal(t, ResourceDepthTexture, res[2].Kind())
	assert.Equal(t, ResourceComparisonSampler, res[3].Kind())

	d := s.Uniforms()
	want := map[string]int{"model": 0, "viewProj": 64, "normalMatrix": 128, "albedo": 176, "pcf": 192}
	for name, offset := range want {
		f, ok := d.Field(name)
		require.True(t, ok, name)
		assert.Equal(t, offset, f.Offset, name)
	}
	assert.Equal(t, 208, d.Size())

	tex := d.Textures()
	require.Len(t, tex, 2)
	assert.Equal(t, uniform.Field{Name: "source", Type: uniform.TypeTexture, Offset: -1, Binding: 0}, tex[0])
	assert.Equal(t, "shadowMap", tex[1].Name)
}

func TestReflectMatchesNewDescriptor(t *testing.T) {
	s, err := NewShader("gbuffer", gbufferSource, WithIncludes(includes()))
	require.NoError(t, err)

	d := uniform.NewDescriptor("gbuffer",
		uniform.Decl{Name: "model", Type: uniform.TypeMat4},
		uniform.Decl{Name: "viewProj", Type: uniform.TypeMat4},
		uniform.Decl{Name: "normalMatrix", Type: uniform.TypeMat3},
		uniform.Decl{Name: "albedo", Type: uniform.TypeVec4},
		uniform.Decl{Name: "pcf", Type: uniform.TypeInt},
		uniform.Decl{Name: "source", Type: uniform.TypeTexture},
		uniform.Decl{Name: "shadowMap", Type: uniform.TypeTexture},
	)
	assert.Equal(t, d.Fields(), s.Uniforms().Fields())
	assert.Equal(t, d.Size(), s.Uniforms().Size())
}

func TestReflectDepthOnly(t *testing.T) {
	src := meshSnippet + `
struct Uniforms {
    model: mat4x4f,
}
@group(0) @binding(0) var<uniform> u: Uniforms;

@vertex
fn vs_main(in: VertexIn) -> @builtin(position) vec4f {
    return u.model * vec4f(in.position, 1.0);
}
`
	s, err := NewShader("depth", src)
	require.NoError(t, err)
	assert.Empty(t, s.FragmentEntry())
	assert.Zero(t, s.Outputs())
	assert.Equal(t, 64, s.Uniforms().Size())
}

func TestReflectSingleOutput(t *testing.T) {
	src := `@vertex fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4f { return vec4f(0.0); }
@fragment fn fs_main() -> @location(0) vec4f { return vec4f(1.0); }`
	s, err := NewShader("single", src)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Outputs())
	assert.Zero(t, s.Uniforms().Size())
	attrs, stride := s.VertexInputs()
	assert.Empty(t, attrs)
	assert.Zero(t, stride)
}

func TestReflectErrors(t *testing.T) {
	_, err := NewShader("frag", `@fragment fn fs_main() -> @location(0) vec4f { return vec4f(1.0); }`)
	assert.ErrorIs(t, err, ErrNoVertexEntry)

	src := `struct Uniforms { flags: vec4u, }
@group(0) @binding(0) var<uniform> u: Uniforms;
@vertex fn vs_main() -> @builtin(position) vec4f { return vec4f(0.0); }`
	_, err = NewShader("bad", src)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"gbuffer.wgsl":      {Data: []byte(gbufferSource)},
		"include/mesh.wgsl": {Data: []byte(meshSnippet)},
	}
	s, err := Load(fsys, "gbuffer")
	require.NoError(t, err)
	assert.Equal(t, "gbuffer", s.Key())
	assert.Contains(t, s.Source(), "struct VertexIn")

	_, err = Load(fsys, "missing")
	assert.Error(t, err)
}
