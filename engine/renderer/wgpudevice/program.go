package wgpudevice

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

var (
	// ErrUnsupportedResource is returned for bind group declarations the device cannot bind.
	ErrUnsupportedResource = errors.New("unsupported shader resource")

	// ErrVertexLayout is returned when a program's vertex inputs do not match device.Vertex.
	ErrVertexLayout = errors.New("vertex inputs do not match the mesh layout")
)

// pipelineKey identifies one render pipeline variant of a program.
type pipelineKey struct {
	colors string
	depth  wgpu.TextureFormat
	state  device.DrawState
}

// Program is a WGSL shader compiled into one module. Render pipelines are built lazily for
// each combination of output formats and draw state a pass uses, then cached.
type Program struct {
	mu *sync.Mutex

	dev    *Device
	shader shader.Shader
	module *wgpu.ShaderModule

	// groups holds the reflected resources of each bind group, indexed by group number.
	groups         [][]shader.Resource
	layouts        []*wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	vertexLayout   wgpu.VertexBufferLayout

	pipelines map[pipelineKey]*wgpu.RenderPipeline
}

var _ device.Program = &Program{}

// NewProgram compiles sh on dev and creates its bind group and pipeline layouts. Groups the
// shader skips get empty layouts.
//
// Parameters:
//   - dev: the device
//   - sh: the reflected shader
//
// Returns:
//   - *Program: the program
//   - error: ErrVertexLayout, ErrUnsupportedResource or a WebGPU error
func NewProgram(dev *Device, sh shader.Shader) (*Program, error) {
	attrs, stride := sh.VertexInputs()
	if stride != device.VertexStride {
		return nil, fmt.Errorf("program %s: stride %d: %w", sh.Key(), stride, ErrVertexLayout)
	}
	vl, err := vertexLayout(attrs, stride)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", sh.Key(), err)
	}

	p := &Program{
		mu:           &sync.Mutex{},
		dev:          dev,
		shader:       sh,
		vertexLayout: vl,
		pipelines:    make(map[pipelineKey]*wgpu.RenderPipeline),
	}
	for _, r := range sh.Resources() {
		for len(p.groups) <= r.Group {
			p.groups = append(p.groups, nil)
		}
		p.groups[r.Group] = append(p.groups[r.Group], r)
	}

	p.module, err = dev.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: sh.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: sh.Source(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", sh.Key(), err)
	}

	for g, resources := range p.groups {
		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(resources))
		for _, r := range resources {
			entry, err := layoutEntry(r, sh.Uniforms().Size())
			if err != nil {
				p.Release()
				return nil, fmt.Errorf("program %s: %w", sh.Key(), err)
			}
			entries = append(entries, entry)
		}
		layout, err := dev.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s group %d", sh.Key(), g),
			Entries: entries,
		})
		if err != nil {
			p.Release()
			return nil, fmt.Errorf("failed to create bind group layout for group %d: %w", g, err)
		}
		p.layouts = append(p.layouts, layout)
	}

	p.pipelineLayout, err = dev.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            sh.Key(),
		BindGroupLayouts: p.layouts,
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("program %s: %w", sh.Key(), err)
	}
	return p, nil
}

func (p *Program) Label() string                   { return p.shader.Key() }
func (p *Program) Descriptor() *uniform.Descriptor { return p.shader.Uniforms() }
func (p *Program) Outputs() int                    { return p.shader.Outputs() }

// Shader returns the reflected shader the program was built from.
func (p *Program) Shader() shader.Shader { return p.shader }

// pipeline returns the render pipeline for the given outputs and draw state, building it on
// first use.
func (p *Program) pipeline(colors []wgpu.TextureFormat, depth wgpu.TextureFormat, state device.DrawState) (*wgpu.RenderPipeline, error) {
	key := pipelineKey{colors: fmt.Sprint(colors), depth: depth, state: state}
	p.mu.Lock()
	defer p.mu.Unlock()
	if rp, ok := p.pipelines[key]; ok {
		return rp, nil
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.shader.Key() + " Render Pipeline",
		Layout: p.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     p.module,
			EntryPoint: p.shader.VertexEntry(),
			Buffers:    []wgpu.VertexBufferLayout{p.vertexLayout},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cullMode(state.Cull),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if entry := p.shader.FragmentEntry(); entry != "" {
		targets := make([]wgpu.ColorTargetState, len(colors))
		for i, format := range colors {
			targets[i] = wgpu.ColorTargetState{
				Format:    format,
				Blend:     blendState(state.Blend),
				WriteMask: wgpu.ColorWriteMaskAll,
			}
		}
		desc.Fragment = &wgpu.FragmentState{
			Module:     p.module,
			EntryPoint: entry,
			Targets:    targets,
		}
	}
	if depth != wgpu.TextureFormatUndefined {
		compare := compareFunction(state.DepthCompare)
		if !state.DepthTest {
			compare = wgpu.CompareFunctionAlways
		}
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            depth,
			DepthWriteEnabled: state.DepthWrite,
			DepthCompare:      compare,
			DepthBias:         depthBiasUnits(state.DepthBias),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	rp, err := p.dev.device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("render pipeline %s: %w", p.shader.Key(), err)
	}
	p.pipelines[key] = rp
	return rp, nil
}

// bindGroups creates one bind group per layout for a draw. Every object created is appended
// to transient so the encoder can release it after submission.
func (p *Program) bindGroups(bag uniform.Bag, transient *[]releaser) ([]*wgpu.BindGroup, error) {
	desc := p.shader.Uniforms()
	out := make([]*wgpu.BindGroup, len(p.layouts))
	for g, layout := range p.layouts {
		entries := make([]wgpu.BindGroupEntry, 0, len(p.groups[g]))
		for _, r := range p.groups[g] {
			entry := wgpu.BindGroupEntry{Binding: uint32(r.Binding)}
			switch r.Kind() {
			case shader.ResourceUniformBuffer:
				data, err := desc.Pack(bag)
				if err != nil {
					return nil, err
				}
				buf, err := p.dev.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: p.shader.Key() + " Uniform Buffer",
					Size:  uint64(len(data)),
					Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
				})
				if err != nil {
					return nil, err
				}
				*transient = append(*transient, buf)
				p.dev.queue.WriteBuffer(buf, 0, data)
				entry.Buffer = buf
				entry.Size = wgpu.WholeSize
			case shader.ResourceTexture, shader.ResourceDepthTexture:
				t, ok := bag[r.Name].Texture().(*texture)
				if !ok {
					return nil, fmt.Errorf("texture %q: %w", r.Name, device.ErrTextureMissing)
				}
				if t.dev != p.dev {
					return nil, fmt.Errorf("texture %q: %w", r.Name, device.ErrForeignResource)
				}
				if t.Released() {
					return nil, fmt.Errorf("texture %q: %w", r.Name, device.ErrReleased)
				}
				entry.TextureView = t.view
			case shader.ResourceComparisonSampler:
				entry.Sampler = p.dev.compareSampler
			case shader.ResourceSampler:
				entry.Sampler = p.dev.nearestSampler
			default:
				return nil, fmt.Errorf("%s: %w", r.Name, ErrUnsupportedResource)
			}
			entries = append(entries, entry)
		}

		bg, err := p.dev.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   fmt.Sprintf("%s group %d", p.shader.Key(), g),
			Layout:  layout,
			Entries: entries,
		})
		if err != nil {
			return nil, err
		}
		*transient = append(*transient, bg)
		out[g] = bg
	}
	return out, nil
}

// Release frees the module, layouts and every cached pipeline.
func (p *Program) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, rp := range p.pipelines {
		rp.Release()
		delete(p.pipelines, key)
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
		p.pipelineLayout = nil
	}
	for _, l := range p.layouts {
		l.Release()
	}
	p.layouts = nil
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}

// NewLibrary returns a program library that compiles <name>.wgsl from fsys on first request.
//
// Parameters:
//   - dev: the device to compile on
//   - fsys: the WGSL file system, with shared snippets under include/
//
// Returns:
//   - *device.Library: the library
func NewLibrary(dev *Device, fsys fs.FS) *device.Library {
	return device.NewLibrary(device.WithLoader(func(name string) (device.Program, error) {
		sh, err := shader.Load(fsys, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%q: %w", name, device.ErrUnknownProgram)
			}
			return nil, err
		}
		return NewProgram(dev, sh)
	}))
}
