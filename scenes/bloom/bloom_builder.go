package bloom

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
)

// BloomBuilderOption is a functional option used to configure the bloom scene.
type BloomBuilderOption func(*bloomScene)

// WithObjects replaces the demo world.
func WithObjects(objects []world.Object) BloomBuilderOption {
	return func(s *bloomScene) {
		s.objects = objects
	}
}

// WithCamera sets the camera.
func WithCamera(c camera.Camera) BloomBuilderOption {
	return func(s *bloomScene) {
		s.camera = c
	}
}

// WithLight sets the light.
func WithLight(l light.Light) BloomBuilderOption {
	return func(s *bloomScene) {
		s.light = l
	}
}

// WithAmbient sets the ambient term.
func WithAmbient(ambient float32) BloomBuilderOption {
	return func(s *bloomScene) {
		s.ambient = ambient
	}
}

// WithThreshold sets the luminance above which a pixel blooms.
//
// Parameters:
//   - threshold: the luminance threshold
//
// Returns:
//   - BloomBuilderOption: a function that sets the threshold
func WithThreshold(threshold float32) BloomBuilderOption {
	return func(s *bloomScene) {
		s.threshold = threshold
	}
}

// WithStrength scales the blurred highlights before they are added back.
func WithStrength(strength float32) BloomBuilderOption {
	return func(s *bloomScene) {
		s.strength = strength
	}
}

// WithExposure sets the exposure of the final tone curve.
func WithExposure(exposure float32) BloomBuilderOption {
	return func(s *bloomScene) {
		s.exposure = exposure
	}
}

// WithGamma sets the display gamma. 1 disables correction.
func WithGamma(gamma float32) BloomBuilderOption {
	return func(s *bloomScene) {
		s.gamma = gamma
	}
}

// WithIterations sets how many horizontal and vertical blur pairs run. Zero composites the
// unblurred bright pass.
//
// Parameters:
//   - n: the number of blur iterations
//
// Returns:
//   - BloomBuilderOption: a function that sets the iteration count
func WithIterations(n int) BloomBuilderOption {
	return func(s *bloomScene) {
		s.iterations = max(n, 0)
	}
}

// WithScale sizes the bright and ping-pong targets relative to the display.
func WithScale(scale float32) BloomBuilderOption {
	return func(s *bloomScene) {
		s.scale = scale
	}
}
