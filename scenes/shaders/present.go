package shaders

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// newPresent copies the source texture to its destination, scaled by exposure and gamma
// corrected. Scenes that depth test render into a ColorDepth target and finish with it.
func newPresent() *soft.Program {
	desc := uniform.NewDescriptor(Present,
		uniform.Decl{Name: "exposure", Type: uniform.TypeFloat},
		uniform.Decl{Name: "gamma", Type: uniform.TypeFloat},
		uniform.Decl{Name: "source", Type: uniform.TypeTexture},
	)
	return soft.NewProgram(Present, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		c := u.Sample("source", f.Varyings.Vec2(0))
		return rgba(gammaCorrect(c.Vec3().Mul(u.Float("exposure")), u.Float("gamma")), c.W()), true
	}, soft.WithVaryings(2))
}
