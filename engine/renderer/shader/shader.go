package shader

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

// Bind group conventions shared by every program: the uniform block lives at group 0 binding 0,
// sampled textures in group 1 and comparison samplers in group 2 at the binding of the depth
// texture they sample.
const (
	UniformGroup   = 0
	UniformBinding = 0
	TextureGroup   = 1
	SamplerGroup   = 2
)

var (
	// ErrNoVertexEntry is returned when the source declares no @vertex function.
	ErrNoVertexEntry = errors.New("shader has no @vertex entry point")

	// ErrUnsupportedType is returned for uniform fields or vertex inputs with no host mapping.
	ErrUnsupportedType = errors.New("unsupported WGSL type")
)

// ResourceKind classifies a bind group resource.
type ResourceKind int

const (
	ResourceUnknown ResourceKind = iota
	ResourceUniformBuffer
	ResourceStorageBuffer
	ResourceTexture
	ResourceDepthTexture
	ResourceSampler
	ResourceComparisonSampler
)

// IsTexture reports whether the resource is a sampled color or depth texture.
func (k ResourceKind) IsTexture() bool {
	return k == ResourceTexture || k == ResourceDepthTexture
}

// Resource is one @group/@binding declaration.
type Resource struct {
	Group        int
	Binding      int
	Name         string
	AddressSpace string
	Type         string
}

// Kind classifies the resource from its address space and type.
func (r Resource) Kind() ResourceKind {
	return classifyResource(r.AddressSpace, r.Type)
}

// VertexAttribute is one field of the vertex input struct.
type VertexAttribute struct {
	Location int
	Name     string
	Type     string
	Offset   uint64
}

// shader is the implementation of the Shader interface.
type shader struct {
	key           string
	source        string
	vertexEntry   string
	fragmentEntry string
	outputs       int
	uniforms      *uniform.Descriptor
	resources     []Resource
	vertexInputs  []VertexAttribute
	stride        uint64

	includes fs.FS
	pp       PreProcessor
}

// Shader is a pre-processed and reflected WGSL program holding one vertex and at most one
// fragment entry point. Reflection recovers everything a backend needs to build a pipeline
// without a hand-written layout: the uniform block, texture bindings and vertex inputs.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source, with every include expanded.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntry returns the name of the @vertex function.
	VertexEntry() string

	// FragmentEntry returns the name of the @fragment function, or empty for depth-only programs.
	FragmentEntry() string

	// Outputs returns the number of color outputs the fragment stage writes.
	Outputs() int

	// Uniforms returns the uniform descriptor reflected from the group 0 uniform struct and
	// the group 1 textures.
	//
	// Returns:
	//   - *uniform.Descriptor: the descriptor, labelled with the shader key
	Uniforms() *uniform.Descriptor

	// Resources returns every bind group declaration sorted by group then binding.
	Resources() []Resource

	// VertexInputs returns the vertex input attributes and the vertex stride in bytes.
	//
	// Returns:
	//   - []VertexAttribute: the attributes in declaration order
	//   - uint64: the stride
	VertexInputs() ([]VertexAttribute, uint64)

	// Included returns the names of the snippets pulled in by //@oxy:include.
	Included() []string
}

var _ Shader = &shader{}

// NewShader pre-processes and reflects WGSL source.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - source: the raw WGSL source
//   - options: functional options
//
// Returns:
//   - Shader: the reflected shader
//   - error: a pre-processor or reflection error
func NewShader(key, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{key: key}
	for _, opt := range options {
		opt(s)
	}
	s.pp = NewPreProcessor(s.includes)

	var err error
	if s.source, err = s.pp.Process(source); err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	if err := s.reflect(); err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return s, nil
}

// Load reads <name>.wgsl from fsys and builds a shader keyed by name. Includes resolve
// against the include/ directory of fsys.
//
// Parameters:
//   - fsys: the shader file system
//   - name: the program name
//
// Returns:
//   - Shader: the reflected shader
//   - error: a read, pre-processor or reflection error
func Load(fsys fs.FS, name string) (Shader, error) {
	data, err := fs.ReadFile(fsys, name+".wgsl")
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	options := []ShaderBuilderOption{}
	if includes, err := fs.Sub(fsys, "include"); err == nil {
		options = append(options, WithIncludes(includes))
	}
	return NewShader(name, string(data), options...)
}

func (s *shader) reflect() error {
	clean := stripComments(s.source)
	structs := parseStructBlocks(clean)

	s.vertexEntry = parseEntryPoint(clean, StageVertex)
	if s.vertexEntry == "" {
		return ErrNoVertexEntry
	}
	s.fragmentEntry = parseEntryPoint(clean, StageFragment)
	s.outputs = parseFragmentOutputs(clean, structs)
	s.resources = parseResources(clean)

	var err error
	if s.vertexInputs, s.stride, err = parseVertexInputs(structs); err != nil {
		return err
	}
	s.uniforms, err = parseUniformDescriptor(s.key, structs, s.resources)
	return err
}

func (s *shader) Key() string                   { return s.key }
func (s *shader) Source() string                { return s.source }
func (s *shader) VertexEntry() string           { return s.vertexEntry }
func (s *shader) FragmentEntry() string         { return s.fragmentEntry }
func (s *shader) Outputs() int                  { return s.outputs }
func (s *shader) Uniforms() *uniform.Descriptor { return s.uniforms }
func (s *shader) Resources() []Resource         { return s.resources }
func (s *shader) Included() []string            { return s.pp.Included() }

func (s *shader) VertexInputs() ([]VertexAttribute, uint64) {
	return s.vertexInputs, s.stride
}
