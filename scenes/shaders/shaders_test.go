package shaders

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
)

func TestWGSLMatchesSoft(t *testing.T) {
	lib := Soft()
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			p, err := lib.Program(name)
			require.NoError(t, err)

			s, err := shader.Load(WGSL(), name)
			require.NoError(t, err)

			assert.Equal(t, p.Descriptor().Fields(), s.Uniforms().Fields())
			assert.Equal(t, p.Descriptor().Size(), s.Uniforms().Size())
			assert.Equal(t, p.Outputs(), s.Outputs())
			assert.Equal(t, "vs_main", s.VertexEntry())

			_, stride := s.VertexInputs()
			assert.Equal(t, uint64(device.VertexStride), stride)
		})
	}
}

func TestDepthTexturesHaveComparisonSamplers(t *testing.T) {
	s, err := shader.Load(WGSL(), ShadowShade)
	require.NoError(t, err)

	var depth, samplers []int
	for _, r := range s.Resources() {
		switch r.Kind() {
		case shader.ResourceDepthTexture:
			depth = append(depth, r.Binding)
		case shader.ResourceComparisonSampler:
			assert.Equal(t, shader.SamplerGroup, r.Group)
			samplers = append(samplers, r.Binding)
		}
	}
	assert.Equal(t, depth, samplers)
}

func TestSoftLibrary(t *testing.T) {
	lib := Soft()
	assert.ElementsMatch(t, Names(), lib.Names())

	_, err := lib.Program("nope")
	assert.ErrorIs(t, err, device.ErrUnknownProgram)
}

func TestBlurWeightsSumToOne(t *testing.T) {
	var sum float32
	for _, w := range blurWeights {
		sum += w
	}
	assert.Equal(t, float32(1), sum)
}

func TestGammaCorrect(t *testing.T) {
	c := mgl32.Vec3{0.25, 0.5, 1}
	assert.Equal(t, c, gammaCorrect(c, 1))
	assert.Equal(t, c, gammaCorrect(c, 0))
	assert.InDelta(t, 0.5, gammaCorrect(c, 2).X(), 1e-6)
	assert.Equal(t, float32(0), gammaCorrect(mgl32.Vec3{-1, 0, 0}, 2.2).X())
}

func TestReinhard(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{}, reinhard(mgl32.Vec3{}, 1, 1, 4))

	out := reinhard(mgl32.Vec3{1, 1, 1}, 1, 1, 1e6)
	assert.InDelta(t, 0.5, out.X(), 1e-4)
	assert.InDelta(t, 0.5, out.Z(), 1e-4)

	// luminance equal to white maps to exactly 1
	out = reinhard(mgl32.Vec3{2, 2, 2}, 1, 1, 2)
	assert.InDelta(t, 1, out.Y(), 1e-5)
}

func TestSSAOKernel(t *testing.T) {
	for _, n := range []int{1, 16, MaxSSAOSamples} {
		for i := 0; i < n; i++ {
			k := ssaoKernel(i, n)
			assert.GreaterOrEqual(t, k.Z(), float32(0))
			assert.LessOrEqual(t, k.Len(), float32(1.0001))
		}
	}
}

func TestTangentFrame(t *testing.T) {
	for _, n := range []mgl32.Vec3{{0, 0, 1}, {1, 0, 0}, mgl32.Vec3{1, 1, 1}.Normalize()} {
		tg, b := tangentFrame(n)
		assert.InDelta(t, 1, tg.Len(), 1e-5)
		assert.InDelta(t, 1, b.Len(), 1e-5)
		assert.InDelta(t, 0, tg.Dot(n), 1e-5)
		assert.InDelta(t, 0, b.Dot(n), 1e-5)
		assert.InDelta(t, 0, tg.Dot(b), 1e-5)
	}
}
