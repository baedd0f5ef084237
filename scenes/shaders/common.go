package shaders

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// Rec. 709 luma weights.
var lumaWeights = mgl32.Vec3{0.2126, 0.7152, 0.0722}

func luminance(c mgl32.Vec3) float32 { return c.Dot(lumaWeights) }

// Varying slots written by worldVertex.
const (
	varWorld  = 0
	varNormal = 3
	varUV     = 6
)

// objectDecls is the uniform interface shared by every program that transforms meshes.
var objectDecls = []uniform.Decl{
	{Name: "model", Type: uniform.TypeMat4},
	{Name: "viewProj", Type: uniform.TypeMat4},
	{Name: "normalMatrix", Type: uniform.TypeMat3},
}

func decls(groups ...[]uniform.Decl) []uniform.Decl {
	var out []uniform.Decl
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// worldVertex transforms a vertex by model and viewProj and passes world position, world
// normal and uv to the fragment stage.
func worldVertex(v device.Vertex, u *soft.Uniforms) soft.VertexOut {
	world := u.Mat4("model").Mul4x1(v.Position.Vec4(1))
	out := soft.VertexOut{Position: u.Mat4("viewProj").Mul4x1(world)}
	out.Varyings.SetVec3(varWorld, world.Vec3())
	out.Varyings.SetVec3(varNormal, u.Mat3("normalMatrix").Mul3x1(v.Normal))
	out.Varyings.SetVec2(varUV, v.UV)
	return out
}

// fullscreenVertex passes quad positions through unchanged with uv in slot 0.
func fullscreenVertex(v device.Vertex, _ *soft.Uniforms) soft.VertexOut {
	out := soft.VertexOut{Position: mgl32.Vec4{v.Position.X(), v.Position.Y(), 0, 1}}
	out.Varyings.SetVec2(0, v.UV)
	return out
}

// texelCoord maps uv to integer texel coordinates of a texture input.
func texelCoord(u *soft.Uniforms, name string, uv mgl32.Vec2) (int, int) {
	w, h := u.Size(name)
	return int(math32.Floor(uv.X() * float32(w))), int(math32.Floor(uv.Y() * float32(h)))
}

// diffuse is the Lambert term for a light at lightPos seen from world along normal n.
func diffuse(n, world, lightPos mgl32.Vec3) float32 {
	if n.Len() == 0 {
		return 0
	}
	l := lightPos.Sub(world)
	if l.Len() == 0 {
		return 0
	}
	return max(n.Normalize().Dot(l.Normalize()), 0)
}

// gammaCorrect raises each channel to 1/gamma. A gamma of 1 or less than zero is a no-op.
func gammaCorrect(c mgl32.Vec3, gamma float32) mgl32.Vec3 {
	if gamma == 1 || gamma <= 0 {
		return c
	}
	inv := 1 / gamma
	return mgl32.Vec3{
		math32.Pow(max(c[0], 0), inv),
		math32.Pow(max(c[1], 0), inv),
		math32.Pow(max(c[2], 0), inv),
	}
}

func splat(v float32) mgl32.Vec3 { return mgl32.Vec3{v, v, v} }

func mulVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func rgba(c mgl32.Vec3, a float32) soft.Outputs {
	return soft.Outputs{c.Vec4(a)}
}
