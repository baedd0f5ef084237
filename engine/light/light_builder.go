package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition sets the world-space position of the light.
//
// Parameters:
//   - position: the light position
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(position mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = position
	}
}

// WithTarget sets the point the light's shadow frustum is aimed at.
//
// Parameters:
//   - target: the world-space target
//
// Returns:
//   - LightBuilderOption: a function that applies the target option to a lightImpl
func WithTarget(target mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.target = target
	}
}

// WithUp sets the up vector of the light's shadow view. It must not be parallel to the
// light direction.
//
// Parameters:
//   - up: the up vector
//
// Returns:
//   - LightBuilderOption: a function that applies the up option to a lightImpl
func WithUp(up mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.up = up
	}
}

// WithColor sets the RGB color of the light.
//
// Parameters:
//   - color: the light color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(color mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = color
	}
}

// WithIntensity sets the scalar intensity multiplier. Intensities above 1 produce HDR
// values in float targets.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithShadowPerspective sets the point light shadow frustum.
//
// Parameters:
//   - fov: the vertical field of view in radians
//   - near, far: the clipping plane distances
//
// Returns:
//   - LightBuilderOption: a function that applies the frustum to a lightImpl
func WithShadowPerspective(fov, near, far float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadowFov = fov
		l.shadowNear = near
		l.shadowFar = far
	}
}

// WithShadowOrtho sets the directional light shadow frustum.
//
// Parameters:
//   - halfExtent: the half width and height of the volume in world units
//   - near, far: the clipping plane distances
//
// Returns:
//   - LightBuilderOption: a function that applies the frustum to a lightImpl
func WithShadowOrtho(halfExtent, near, far float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadowHalfExtent = halfExtent
		l.shadowNear = near
		l.shadowFar = far
	}
}
