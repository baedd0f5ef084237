package deferred

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
)

// DeferredBuilderOption is a functional option used to configure the deferred scene.
type DeferredBuilderOption func(*deferredScene)

// WithObjects replaces the demo world.
func WithObjects(objects []world.Object) DeferredBuilderOption {
	return func(s *deferredScene) {
		s.objects = objects
	}
}

// WithCamera sets the camera.
func WithCamera(c camera.Camera) DeferredBuilderOption {
	return func(s *deferredScene) {
		s.camera = c
	}
}

// WithLight sets the light.
func WithLight(l light.Light) DeferredBuilderOption {
	return func(s *deferredScene) {
		s.light = l
	}
}

// WithAmbient sets the ambient light term.
//
// Parameters:
//   - ambient: the ambient factor multiplied into albedo
//
// Returns:
//   - DeferredBuilderOption: a function that sets the ambient term
func WithAmbient(ambient float32) DeferredBuilderOption {
	return func(s *deferredScene) {
		s.ambient = ambient
	}
}
