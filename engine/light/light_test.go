package light

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func ndc(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	c := m.Mul4x1(p.Vec4(1))
	return c.Vec3().Mul(1 / c.W())
}

func TestPointLightViewProjection(t *testing.T) {
	l := NewLight(LightTypePoint,
		WithPosition(mgl32.Vec3{0, 0, 5}),
		WithUp(mgl32.Vec3{0, 1, 0}),
		WithShadowPerspective(mgl32.DegToRad(90), 1, 20),
	)
	vp := l.ViewProjection()

	assert.InDelta(t, 0, ndc(vp, mgl32.Vec3{0, 0, 4}).Z(), 1e-5)
	assert.InDelta(t, 1, ndc(vp, mgl32.Vec3{0, 0, -15}).Z(), 1e-5)

	// a 90 degree frustum reaches x = +-d at distance d
	edge := ndc(vp, mgl32.Vec3{5, 0, 0})
	assert.InDelta(t, 1, edge.X(), 1e-5)
}

func TestDirectionalLightViewProjection(t *testing.T) {
	l := NewLight(LightTypeDirectional,
		WithPosition(mgl32.Vec3{0, 10, 0}),
		WithShadowOrtho(5, 1, 21),
	)
	vp := l.ViewProjection()

	p := ndc(vp, mgl32.Vec3{5, 0, 0})
	assert.InDelta(t, 1, p.X(), 1e-5)
	assert.InDelta(t, 0.45, p.Z(), 1e-5)
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, l.Direction())
}

func TestUniforms(t *testing.T) {
	l := NewLight(LightTypePoint, WithColor(mgl32.Vec3{1, 0.5, 0}), WithIntensity(4))
	bag := l.Uniforms()
	assert.Equal(t, mgl32.Vec3{4, 2, 0}, bag["lightColor"].Vec3())
	assert.Equal(t, l.Position(), bag["lightPos"].Vec3())
	assert.Equal(t, l.ViewProjection(), bag["lightViewProj"].Mat4())
}
