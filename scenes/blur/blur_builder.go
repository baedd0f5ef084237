package blur

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
)

// BlurBuilderOption is a functional option used to configure the blur scene.
type BlurBuilderOption func(*blurScene)

// WithObjects replaces the demo world. With no objects the scene pass only clears.
//
// Parameters:
//   - objects: the objects to render
//
// Returns:
//   - BlurBuilderOption: a function that sets the objects
func WithObjects(objects []world.Object) BlurBuilderOption {
	return func(s *blurScene) {
		s.objects = objects
	}
}

// WithCamera sets the camera.
func WithCamera(c camera.Camera) BlurBuilderOption {
	return func(s *blurScene) {
		s.camera = c
	}
}

// WithLight sets the light.
func WithLight(l light.Light) BlurBuilderOption {
	return func(s *blurScene) {
		s.light = l
	}
}

// WithClearColor sets the color the scene target is cleared to.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - BlurBuilderOption: a function that sets the clear color
func WithClearColor(c device.Color) BlurBuilderOption {
	return func(s *blurScene) {
		s.clearColor = c
	}
}

// WithExposure sets the exposure applied by the vertical pass.
func WithExposure(exposure float32) BlurBuilderOption {
	return func(s *blurScene) {
		s.exposure = exposure
	}
}

// WithGamma sets the display gamma applied by the vertical pass. 1 disables correction.
func WithGamma(gamma float32) BlurBuilderOption {
	return func(s *blurScene) {
		s.gamma = gamma
	}
}
