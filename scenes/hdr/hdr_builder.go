package hdr

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
)

// HDRBuilderOption is a functional option used to configure the HDR scene.
type HDRBuilderOption func(*hdrScene)

// WithObjects replaces the demo world.
func WithObjects(objects []world.Object) HDRBuilderOption {
	return func(s *hdrScene) {
		s.objects = objects
	}
}

// WithCamera sets the camera.
func WithCamera(c camera.Camera) HDRBuilderOption {
	return func(s *hdrScene) {
		s.camera = c
	}
}

// WithLight sets the light. The default is brighter than the other scenes' so the image
// exceeds display range.
func WithLight(l light.Light) HDRBuilderOption {
	return func(s *hdrScene) {
		s.light = l
	}
}

// WithAmbient sets the ambient term.
func WithAmbient(ambient float32) HDRBuilderOption {
	return func(s *hdrScene) {
		s.ambient = ambient
	}
}

// WithExposure sets the key value the average luminance is mapped to.
//
// Parameters:
//   - exposure: the key value
//
// Returns:
//   - HDRBuilderOption: a function that sets the exposure
func WithExposure(exposure float32) HDRBuilderOption {
	return func(s *hdrScene) {
		s.exposure = exposure
	}
}

// WithWhite sets the smallest scaled luminance that maps to pure white.
func WithWhite(white float32) HDRBuilderOption {
	return func(s *hdrScene) {
		s.white = white
	}
}

// WithGamma sets the display gamma. 1 disables correction.
func WithGamma(gamma float32) HDRBuilderOption {
	return func(s *hdrScene) {
		s.gamma = gamma
	}
}

// WithLuminanceSize sets the edge of the first luminance target, rounded down to a power of
// two.
//
// Parameters:
//   - n: the target edge in texels
//
// Returns:
//   - HDRBuilderOption: a function that sets the size
func WithLuminanceSize(n int) HDRBuilderOption {
	return func(s *hdrScene) {
		size := 1
		for size*2 <= n {
			size *= 2
		}
		s.lumSize = size
	}
}

// WithCachedLuminance recomputes the average luminance only every n frames. Between
// recomputations the tone map samples the previous result. A recreated target always forces
// a recomputation.
//
// Parameters:
//   - n: the recomputation interval in frames
//
// Returns:
//   - HDRBuilderOption: a function that sets the interval
func WithCachedLuminance(n int) HDRBuilderOption {
	return func(s *hdrScene) {
		s.every = uint64(max(n, 1))
	}
}
