package shadow

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
)

// ShadowBuilderOption is a functional option used to configure the shadow scene.
type ShadowBuilderOption func(*shadowScene)

// WithObjects replaces the demo world. Every object both casts and receives shadows.
//
// Parameters:
//   - objects: the objects to render
//
// Returns:
//   - ShadowBuilderOption: a function that sets the objects
func WithObjects(objects []world.Object) ShadowBuilderOption {
	return func(s *shadowScene) {
		s.objects = objects
	}
}

// WithCamera sets the camera.
func WithCamera(c camera.Camera) ShadowBuilderOption {
	return func(s *shadowScene) {
		s.camera = c
	}
}

// WithLight sets the shadow-casting light.
func WithLight(l light.Light) ShadowBuilderOption {
	return func(s *shadowScene) {
		s.light = l
	}
}

// WithResolution sets the shadow map width and height in texels.
//
// Parameters:
//   - n: the shadow map size
//
// Returns:
//   - ShadowBuilderOption: a function that sets the resolution
func WithResolution(n int) ShadowBuilderOption {
	return func(s *shadowScene) {
		s.resolution = n
	}
}

// WithBias sets the constant subtracted from the reference depth before comparison.
func WithBias(bias float32) ShadowBuilderOption {
	return func(s *shadowScene) {
		s.bias = bias
	}
}

// WithDepthBias offsets caster depth while rendering the shadow map.
func WithDepthBias(bias float32) ShadowBuilderOption {
	return func(s *shadowScene) {
		s.depthBias = bias
	}
}

// WithAmbient sets the unshadowed ambient term.
func WithAmbient(ambient float32) ShadowBuilderOption {
	return func(s *shadowScene) {
		s.ambient = ambient
	}
}

// WithGamma sets the display gamma. 1 disables correction.
func WithGamma(gamma float32) ShadowBuilderOption {
	return func(s *shadowScene) {
		s.gamma = gamma
	}
}

// WithPCF enables percentage-closer filtering over a kernel x kernel block of comparisons.
//
// Parameters:
//   - kernel: the kernel width; 1 is a single comparison
//
// Returns:
//   - ShadowBuilderOption: a function that sets the kernel
func WithPCF(kernel int) ShadowBuilderOption {
	return func(s *shadowScene) {
		s.pcf = max(kernel, 1)
	}
}

// WithDebugQuad draws the raw shadow map in the bottom-right quarter of the display.
func WithDebugQuad() ShadowBuilderOption {
	return func(s *shadowScene) {
		s.debugQuad = true
	}
}
