package wgpudevice

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
)

func TestTextureFormatRoundTrip(t *testing.T) {
	for f := range textureFormatMap {
		tf, ok := textureFormat(f)
		require.True(t, ok, f.String())
		assert.Equal(t, f, deviceFormat(tf), f.String())
	}
	_, ok := textureFormat(device.FormatUndefined)
	assert.False(t, ok)
	assert.Equal(t, device.FormatBGRA8Unorm, deviceFormat(wgpu.TextureFormatBGRA8UnormSrgb))
}

func TestLayoutEntry(t *testing.T) {
	tests := []struct {
		name     string
		resource shader.Resource
		check    func(t *testing.T, e wgpu.BindGroupLayoutEntry)
	}{
		{
			name:     "uniform",
			resource: shader.Resource{Group: 0, Binding: 0, Name: "u", AddressSpace: "uniform", Type: "Uniforms"},
			check: func(t *testing.T, e wgpu.BindGroupLayoutEntry) {
				assert.Equal(t, wgpu.BufferBindingTypeUniform, e.Buffer.Type)
				assert.Equal(t, uint64(96), e.Buffer.MinBindingSize)
			},
		},
		{
			name:     "color texture",
			resource: shader.Resource{Group: 1, Binding: 2, Name: "albedo", Type: "texture_2d<f32>"},
			check: func(t *testing.T, e wgpu.BindGroupLayoutEntry) {
				assert.Equal(t, uint32(2), e.Binding)
				assert.Equal(t, wgpu.TextureSampleTypeUnfilterableFloat, e.Texture.SampleType)
			},
		},
		{
			name:     "depth texture",
			resource: shader.Resource{Group: 1, Binding: 0, Name: "shadowMap", Type: "texture_depth_2d"},
			check: func(t *testing.T, e wgpu.BindGroupLayoutEntry) {
				assert.Equal(t, wgpu.TextureSampleTypeDepth, e.Texture.SampleType)
			},
		},
		{
			name:     "comparison sampler",
			resource: shader.Resource{Group: 2, Binding: 0, Name: "shadowMap_sampler", Type: "sampler_comparison"},
			check: func(t *testing.T, e wgpu.BindGroupLayoutEntry) {
				assert.Equal(t, wgpu.SamplerBindingTypeComparison, e.Sampler.Type)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := layoutEntry(tt.resource, 96)
			require.NoError(t, err)
			assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, e.Visibility)
			tt.check(t, e)
		})
	}

	_, err := layoutEntry(shader.Resource{Name: "data", AddressSpace: "storage, read", Type: "array<f32>"}, 0)
	assert.ErrorIs(t, err, ErrUnsupportedResource)
}

func TestVertexLayout(t *testing.T) {
	attrs := []shader.VertexAttribute{
		{Location: 0, Name: "position", Type: "vec3f", Offset: 0},
		{Location: 1, Name: "normal", Type: "vec3<f32>", Offset: 12},
		{Location: 2, Name: "uv", Type: "vec2f", Offset: 24},
	}
	l, err := vertexLayout(attrs, device.VertexStride)
	require.NoError(t, err)
	assert.Equal(t, uint64(device.VertexStride), l.ArrayStride)
	require.Len(t, l.Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, l.Attributes[1].Format)
	assert.Equal(t, uint64(24), l.Attributes[2].Offset)
	assert.Equal(t, uint32(2), l.Attributes[2].ShaderLocation)

	_, err = vertexLayout([]shader.VertexAttribute{{Name: "m", Type: "mat4x4f"}}, 64)
	assert.ErrorIs(t, err, shader.ErrUnsupportedType)
}

func TestDrawStateMapping(t *testing.T) {
	assert.Nil(t, blendState(device.BlendNone))
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, blendState(device.BlendAlpha).Color.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOne, blendState(device.BlendAdditive).Color.DstFactor)
	assert.Equal(t, wgpu.CullModeBack, cullMode(device.CullBack))
	assert.Equal(t, wgpu.CullModeNone, cullMode(device.CullNone))
	assert.Equal(t, wgpu.CompareFunctionLessEqual, compareFunction(device.CompareLessEqual))
	assert.Equal(t, int32(0), depthBiasUnits(0))
	assert.Equal(t, int32(1<<14), depthBiasUnits(1.0/(1<<10)))
}
