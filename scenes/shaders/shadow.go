package shaders

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// Varying slot of the light-space clip position written by the shadow shade vertex stage.
const varLightClip = 8

// newShadowDepth renders depth only, from the light's point of view.
func newShadowDepth() *soft.Program {
	desc := uniform.NewDescriptor(ShadowDepth,
		uniform.Decl{Name: "model", Type: uniform.TypeMat4},
		uniform.Decl{Name: "lightViewProj", Type: uniform.TypeMat4},
	)
	return soft.NewProgram(ShadowDepth, desc, func(v device.Vertex, u *soft.Uniforms) soft.VertexOut {
		world := u.Mat4("model").Mul4x1(v.Position.Vec4(1))
		return soft.VertexOut{Position: u.Mat4("lightViewProj").Mul4x1(world)}
	}, nil, soft.WithVaryings(0))
}

// shadowVisibility returns the lit fraction of a fragment at light-space clip position lc.
// A pcf kernel above 1 averages a kernel x kernel block of comparisons.
func shadowVisibility(u *soft.Uniforms, lc mgl32.Vec4, bias float32, kernel int) float32 {
	if lc.W() <= 0 {
		return 1
	}
	ndc := lc.Vec3().Mul(1 / lc.W())
	uv := mgl32.Vec2{(ndc.X() + 1) / 2, (1 - ndc.Y()) / 2}
	ref := ndc.Z() - bias
	if kernel <= 1 {
		return u.SampleCompare("shadowMap", uv, ref)
	}
	w, h := u.Size("shadowMap")
	step := mgl32.Vec2{1 / float32(w), 1 / float32(h)}
	var sum float32
	half := float32(kernel-1) / 2
	for j := 0; j < kernel; j++ {
		for i := 0; i < kernel; i++ {
			off := mgl32.Vec2{(float32(i) - half) * step.X(), (float32(j) - half) * step.Y()}
			sum += u.SampleCompare("shadowMap", uv.Add(off), ref)
		}
	}
	return sum / float32(kernel*kernel)
}

// newShadowShade renders the scene from the camera and attenuates the diffuse term by a
// depth comparison against the shadow map.
func newShadowShade() *soft.Program {
	desc := uniform.NewDescriptor(ShadowShade, decls(objectDecls, []uniform.Decl{
		{Name: "lightViewProj", Type: uniform.TypeMat4},
		{Name: "lightPos", Type: uniform.TypeVec3},
		{Name: "albedo", Type: uniform.TypeVec4},
		{Name: "ambient", Type: uniform.TypeFloat},
		{Name: "bias", Type: uniform.TypeFloat},
		{Name: "pcf", Type: uniform.TypeInt},
		{Name: "shadowMap", Type: uniform.TypeTexture},
	})...)
	vertex := func(v device.Vertex, u *soft.Uniforms) soft.VertexOut {
		out := worldVertex(v, u)
		lc := u.Mat4("lightViewProj").Mul4x1(out.Varyings.Vec3(varWorld).Vec4(1))
		for i := 0; i < 4; i++ {
			out.Varyings[varLightClip+i] = lc[i]
		}
		return out
	}
	return soft.NewProgram(ShadowShade, desc, vertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		v := &f.Varyings
		lc := mgl32.Vec4{v[varLightClip], v[varLightClip+1], v[varLightClip+2], v[varLightClip+3]}
		vis := shadowVisibility(u, lc, u.Float("bias"), int(u.Int("pcf")))
		albedo := u.Vec4("albedo")
		d := diffuse(v.Vec3(varNormal), v.Vec3(varWorld), u.Vec3("lightPos"))
		return rgba(albedo.Vec3().Mul(u.Float("ambient")+d*vis), albedo.W()), true
	}, soft.WithVaryings(12))
}

// newShadowDebug shows the raw shadow map depth as grey levels.
func newShadowDebug() *soft.Program {
	desc := uniform.NewDescriptor(ShadowDebug, uniform.Decl{Name: "shadowMap", Type: uniform.TypeTexture})
	return soft.NewProgram(ShadowDebug, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		d := u.Sample("shadowMap", f.Varyings.Vec2(0)).X()
		return rgba(splat(d), 1), true
	}, soft.WithVaryings(2))
}
