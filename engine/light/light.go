package light

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction. Its shadow
	// frustum is orthographic.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position. Its
	// shadow frustum is a perspective projection aimed at the light's target.
	LightTypePoint
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType LightType
	position  mgl32.Vec3
	target    mgl32.Vec3
	up        mgl32.Vec3
	color     mgl32.Vec3
	intensity float32

	shadowFov        float32
	shadowHalfExtent float32
	shadowNear       float32
	shadowFar        float32
}

// Light is a single light source. Scenes feed its uniforms to lighting programs and its
// view-projection to shadow depth passes.
type Light interface {
	// Type returns the kind of light source.
	Type() LightType

	// Position returns the world-space position of the light. Directional lights use it as
	// the eye of their shadow frustum.
	Position() mgl32.Vec3

	// Direction returns the normalized direction from the light toward its target.
	Direction() mgl32.Vec3

	// Color returns the light color scaled by its intensity.
	Color() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	Intensity() float32

	// ViewProjection returns the matrix that renders the scene from the light for a shadow
	// map, with depth in [0, 1].
	//
	// Returns:
	//   - mgl32.Mat4: the light's view-projection matrix
	ViewProjection() mgl32.Mat4

	// Uniforms returns "lightPos", "lightColor" and "lightViewProj".
	//
	// Returns:
	//   - uniform.Bag: the light uniforms
	Uniforms() uniform.Bag

	// SetPosition moves the light.
	//
	// Parameters:
	//   - position: the new world-space position
	SetPosition(position mgl32.Vec3)
}

var _ Light = &lightImpl{}

// NewLight creates a light source. The default is a white point light at (0, 5, 0) aimed
// at the origin.
//
// Parameters:
//   - lightType: the light type
//   - options: functional options
//
// Returns:
//   - Light: the light
func NewLight(lightType LightType, options ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:        lightType,
		position:         mgl32.Vec3{0, 5, 0},
		up:               mgl32.Vec3{0, 0, -1},
		color:            mgl32.Vec3{1, 1, 1},
		intensity:        1,
		shadowFov:        DefaultShadowFov,
		shadowHalfExtent: DefaultShadowHalfExtent,
		shadowNear:       DefaultShadowNear,
		shadowFar:        DefaultShadowFar,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType      { return l.lightType }
func (l *lightImpl) Position() mgl32.Vec3 { return l.position }
func (l *lightImpl) Color() mgl32.Vec3    { return l.color.Mul(l.intensity) }
func (l *lightImpl) Intensity() float32   { return l.intensity }

func (l *lightImpl) Direction() mgl32.Vec3 {
	d := l.target.Sub(l.position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

func (l *lightImpl) ViewProjection() mgl32.Mat4 {
	view := mgl32.LookAtV(l.position, l.target, l.up)
	var proj mgl32.Mat4
	switch l.lightType {
	case LightTypeDirectional:
		e := l.shadowHalfExtent
		proj = common.OrthoZO(-e, e, -e, e, l.shadowNear, l.shadowFar)
	default:
		proj = common.PerspectiveZO(l.shadowFov, 1, l.shadowNear, l.shadowFar)
	}
	return proj.Mul4(view)
}

func (l *lightImpl) Uniforms() uniform.Bag {
	return uniform.Bag{
		"lightPos":      uniform.Vec3(l.position),
		"lightColor":    uniform.Vec3(l.Color()),
		"lightViewProj": uniform.Mat4(l.ViewProjection()),
	}
}

func (l *lightImpl) SetPosition(position mgl32.Vec3) {
	l.position = position
}
