package light

import "github.com/go-gl/mathgl/mgl32"

// DefaultShadowMapResolution is the default width and height in texels of a shadow depth
// target. Scenes can override it with their own options.
const DefaultShadowMapResolution = 1024

// DefaultShadowFov is the default field of view of a point light's perspective shadow frustum.
var DefaultShadowFov = mgl32.DegToRad(90)

// DefaultShadowHalfExtent is the default orthographic half-extent, in world units, of a
// directional light's shadow frustum.
const DefaultShadowHalfExtent float32 = 10.0

// DefaultShadowNear is the default near plane of the shadow projection.
const DefaultShadowNear float32 = 0.5

// DefaultShadowFar is the default far plane of the shadow projection.
const DefaultShadowFar float32 = 50.0

// DefaultShadowBias is the constant depth bias subtracted from the reference depth in
// shadow comparisons to reduce shadow acne.
const DefaultShadowBias float32 = 0.005
