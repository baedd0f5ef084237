package wgpudevice

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
)

var textureFormatMap = map[device.Format]wgpu.TextureFormat{
	device.FormatRGBA8Unorm:   wgpu.TextureFormatRGBA8Unorm,
	device.FormatBGRA8Unorm:   wgpu.TextureFormatBGRA8Unorm,
	device.FormatRGBA16Float:  wgpu.TextureFormatRGBA16Float,
	device.FormatRGBA32Float:  wgpu.TextureFormatRGBA32Float,
	device.FormatR32Float:     wgpu.TextureFormatR32Float,
	device.FormatDepth24Plus:  wgpu.TextureFormatDepth24Plus,
	device.FormatDepth32Float: wgpu.TextureFormatDepth32Float,
}

// textureFormat maps a device format to its WebGPU format.
func textureFormat(f device.Format) (wgpu.TextureFormat, bool) {
	tf, ok := textureFormatMap[f]
	return tf, ok
}

// deviceFormat maps a WebGPU format back to a device format. sRGB surface formats report
// their linear counterpart.
func deviceFormat(tf wgpu.TextureFormat) device.Format {
	switch tf {
	case wgpu.TextureFormatBGRA8UnormSrgb:
		return device.FormatBGRA8Unorm
	case wgpu.TextureFormatRGBA8UnormSrgb:
		return device.FormatRGBA8Unorm
	}
	for f, candidate := range textureFormatMap {
		if candidate == tf {
			return f
		}
	}
	return device.FormatUndefined
}

// wgslVertexFormatMap maps WGSL vertex input types to vertex buffer formats.
var wgslVertexFormatMap = map[string]wgpu.VertexFormat{
	"f32":       wgpu.VertexFormatFloat32,
	"vec2f":     wgpu.VertexFormatFloat32x2,
	"vec2<f32>": wgpu.VertexFormatFloat32x2,
	"vec3f":     wgpu.VertexFormatFloat32x3,
	"vec3<f32>": wgpu.VertexFormatFloat32x3,
	"vec4f":     wgpu.VertexFormatFloat32x4,
	"vec4<f32>": wgpu.VertexFormatFloat32x4,
	"i32":       wgpu.VertexFormatSint32,
	"u32":       wgpu.VertexFormatUint32,
}

// vertexLayout builds the single vertex buffer layout of a program from its reflected inputs.
func vertexLayout(attrs []shader.VertexAttribute, stride uint64) (wgpu.VertexBufferLayout, error) {
	layout := wgpu.VertexBufferLayout{
		ArrayStride: stride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  make([]wgpu.VertexAttribute, 0, len(attrs)),
	}
	for _, a := range attrs {
		format, ok := wgslVertexFormatMap[a.Type]
		if !ok {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("vertex input %s: %s: %w", a.Name, a.Type, shader.ErrUnsupportedType)
		}
		layout.Attributes = append(layout.Attributes, wgpu.VertexAttribute{
			Format:         format,
			Offset:         a.Offset,
			ShaderLocation: uint32(a.Location),
		})
	}
	return layout, nil
}

// layoutEntry maps a reflected resource to its bind group layout entry. Color textures are
// read with textureLoad, so they bind as unfilterable floats.
//
// Parameters:
//   - r: the resource
//   - uniformSize: the reflected uniform block size, used as the buffer's minimum binding size
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the entry
//   - error: ErrUnsupportedResource for storage buffers and unknown declarations
func layoutEntry(r shader.Resource, uniformSize int) (wgpu.BindGroupLayoutEntry, error) {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    uint32(r.Binding),
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	switch r.Kind() {
	case shader.ResourceUniformBuffer:
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		entry.Buffer.MinBindingSize = uint64(uniformSize)
	case shader.ResourceTexture:
		entry.Texture.SampleType = wgpu.TextureSampleTypeUnfilterableFloat
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	case shader.ResourceDepthTexture:
		entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	case shader.ResourceSampler:
		entry.Sampler.Type = wgpu.SamplerBindingTypeNonFiltering
	case shader.ResourceComparisonSampler:
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	default:
		return wgpu.BindGroupLayoutEntry{}, fmt.Errorf("@group(%d) @binding(%d) %s: %w", r.Group, r.Binding, r.Name, ErrUnsupportedResource)
	}
	return entry, nil
}

func compareFunction(c device.CompareFunc) wgpu.CompareFunction {
	switch c {
	case device.CompareLessEqual:
		return wgpu.CompareFunctionLessEqual
	case device.CompareAlways:
		return wgpu.CompareFunctionAlways
	default:
		return wgpu.CompareFunctionLess
	}
}

func cullMode(c device.CullMode) wgpu.CullMode {
	switch c {
	case device.CullBack:
		return wgpu.CullModeBack
	case device.CullFront:
		return wgpu.CullModeFront
	default:
		return wgpu.CullModeNone
	}
}

// blendState returns nil for BlendNone, which writes the fragment color unchanged.
func blendState(m device.BlendMode) *wgpu.BlendState {
	switch m {
	case device.BlendAlpha:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	case device.BlendAdditive:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	default:
		return nil
	}
}

// depthBiasUnits converts a window-space depth offset into the integer bias units of a
// 24-bit depth buffer.
func depthBiasUnits(bias float32) int32 {
	return int32(bias * (1 << 24))
}
