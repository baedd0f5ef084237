package ssao

import (
	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
	"github.com/Carmen-Shannon/oxy-shade/scenes/shaders"
)

// SSAOBuilderOption is a functional option used to configure the SSAO scene.
type SSAOBuilderOption func(*ssaoScene)

// WithObjects replaces the demo world.
func WithObjects(objects []world.Object) SSAOBuilderOption {
	return func(s *ssaoScene) {
		s.objects = objects
	}
}

// WithCamera sets the camera.
func WithCamera(c camera.Camera) SSAOBuilderOption {
	return func(s *ssaoScene) {
		s.camera = c
	}
}

// WithLight sets the light.
func WithLight(l light.Light) SSAOBuilderOption {
	return func(s *ssaoScene) {
		s.light = l
	}
}

// WithRadius sets the world-space radius of the sampling hemisphere.
//
// Parameters:
//   - radius: the hemisphere radius
//
// Returns:
//   - SSAOBuilderOption: a function that sets the radius
func WithRadius(radius float32) SSAOBuilderOption {
	return func(s *ssaoScene) {
		s.radius = radius
	}
}

// WithBias sets the distance a sample must be behind the stored surface to count as occluded.
func WithBias(bias float32) SSAOBuilderOption {
	return func(s *ssaoScene) {
		s.bias = bias
	}
}

// WithSamples sets the kernel size, clamped to [1, shaders.MaxSSAOSamples].
//
// Parameters:
//   - n: the number of hemisphere samples per pixel
//
// Returns:
//   - SSAOBuilderOption: a function that sets the sample count
func WithSamples(n int) SSAOBuilderOption {
	return func(s *ssaoScene) {
		s.samples = common.Clamp(n, 1, shaders.MaxSSAOSamples)
	}
}

// WithAmbient sets the ambient term that occlusion scales.
func WithAmbient(ambient float32) SSAOBuilderOption {
	return func(s *ssaoScene) {
		s.ambient = ambient
	}
}

// WithoutBlur composites the raw occlusion, skipping the box filter pass.
func WithoutBlur() SSAOBuilderOption {
	return func(s *ssaoScene) {
		s.blur = false
	}
}
