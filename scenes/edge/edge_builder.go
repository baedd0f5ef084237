package edge

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
)

// EdgeBuilderOption is a functional option used to configure the edge scene.
type EdgeBuilderOption func(*edgeScene)

// WithObjects replaces the demo world.
func WithObjects(objects []world.Object) EdgeBuilderOption {
	return func(s *edgeScene) {
		s.objects = objects
	}
}

// WithCamera sets the camera.
func WithCamera(c camera.Camera) EdgeBuilderOption {
	return func(s *edgeScene) {
		s.camera = c
	}
}

// WithLight sets the light.
func WithLight(l light.Light) EdgeBuilderOption {
	return func(s *edgeScene) {
		s.light = l
	}
}

// WithThreshold sets the gradient magnitude above which a pixel is an edge.
//
// Parameters:
//   - threshold: the Sobel magnitude threshold
//
// Returns:
//   - EdgeBuilderOption: a function that sets the threshold
func WithThreshold(threshold float32) EdgeBuilderOption {
	return func(s *edgeScene) {
		s.threshold = threshold
	}
}

// WithEdgeColor sets the color edge pixels are painted with.
func WithEdgeColor(c mgl32.Vec4) EdgeBuilderOption {
	return func(s *edgeScene) {
		s.edgeColor = c
	}
}
