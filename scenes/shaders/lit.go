package shaders

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

var lightDecls = []uniform.Decl{
	{Name: "lightPos", Type: uniform.TypeVec3},
	{Name: "lightColor", Type: uniform.TypeVec3},
	{Name: "albedo", Type: uniform.TypeVec4},
	{Name: "ambient", Type: uniform.TypeFloat},
}

// newLit shades meshes with one point light: albedo * (ambient + lambert * lightColor).
// Light colors above 1 produce HDR values when the destination is a float target.
func newLit() *soft.Program {
	desc := uniform.NewDescriptor(Lit, decls(objectDecls, lightDecls)...)
	return soft.NewProgram(Lit, desc, worldVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		albedo := u.Vec4("albedo")
		d := diffuse(f.Varyings.Vec3(varNormal), f.Varyings.Vec3(varWorld), u.Vec3("lightPos"))
		light := u.Vec3("lightColor").Mul(d).Add(splat(u.Float("ambient")))
		return rgba(mulVec3(albedo.Vec3(), light), albedo.W()), true
	}, soft.WithVaryings(8))
}
