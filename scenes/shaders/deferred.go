package shaders

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

var gbufferDecls = []uniform.Decl{
	{Name: "gPosition", Type: uniform.TypeTexture},
	{Name: "gNormal", Type: uniform.TypeTexture},
	{Name: "gAlbedo", Type: uniform.TypeTexture},
}

// newGBuffer writes world position, world normal and albedo to three outputs. Covered pixels
// get a position w of 1 so later passes can tell geometry from background.
func newGBuffer() *soft.Program {
	desc := uniform.NewDescriptor(GBuffer, decls(objectDecls, []uniform.Decl{{Name: "albedo", Type: uniform.TypeVec4}})...)
	return soft.NewProgram(GBuffer, desc, worldVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		n := f.Varyings.Vec3(varNormal)
		if n.Len() > 0 {
			n = n.Normalize()
		}
		return soft.Outputs{
			f.Varyings.Vec3(varWorld).Vec4(1),
			n.Vec4(1),
			u.Vec4("albedo"),
		}, true
	}, soft.WithOutputs(3), soft.WithVaryings(8))
}

// newDeferredLight lights the G-buffer with one point light in a single full-screen draw.
func newDeferredLight() *soft.Program {
	desc := uniform.NewDescriptor(DeferredLight, decls([]uniform.Decl{
		{Name: "lightPos", Type: uniform.TypeVec3},
		{Name: "lightColor", Type: uniform.TypeVec3},
		{Name: "ambient", Type: uniform.TypeFloat},
	}, gbufferDecls)...)
	return soft.NewProgram(DeferredLight, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		uv := f.Varyings.Vec2(0)
		pos := u.Sample("gPosition", uv)
		if pos.W() == 0 {
			return soft.Outputs{}, false
		}
		albedo := u.Sample("gAlbedo", uv)
		d := diffuse(u.Sample("gNormal", uv).Vec3(), pos.Vec3(), u.Vec3("lightPos"))
		light := u.Vec3("lightColor").Mul(d).Add(splat(u.Float("ambient")))
		return rgba(mulVec3(albedo.Vec3(), light), 1), true
	}, soft.WithVaryings(2))
}
