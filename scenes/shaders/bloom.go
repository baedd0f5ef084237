package shaders

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// newBright keeps only the pixels whose luminance exceeds the threshold.
func newBright() *soft.Program {
	desc := uniform.NewDescriptor(Bright,
		uniform.Decl{Name: "threshold", Type: uniform.TypeFloat},
		uniform.Decl{Name: "hdr", Type: uniform.TypeTexture},
	)
	return soft.NewProgram(Bright, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		c := u.SampleLinear("hdr", f.Varyings.Vec2(0)).Vec3()
		if luminance(c) <= u.Float("threshold") {
			return rgba(mgl32.Vec3{}, 1), true
		}
		return rgba(c, 1), true
	}, soft.WithVaryings(2))
}

// newBloomComposite adds the blurred bright pass to the HDR image and applies an exponential
// exposure curve.
func newBloomComposite() *soft.Program {
	desc := uniform.NewDescriptor(BloomComposite,
		uniform.Decl{Name: "exposure", Type: uniform.TypeFloat},
		uniform.Decl{Name: "gamma", Type: uniform.TypeFloat},
		uniform.Decl{Name: "strength", Type: uniform.TypeFloat},
		uniform.Decl{Name: "hdr", Type: uniform.TypeTexture},
		uniform.Decl{Name: "bloom", Type: uniform.TypeTexture},
	)
	return soft.NewProgram(BloomComposite, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		uv := f.Varyings.Vec2(0)
		c := u.Sample("hdr", uv).Vec3().Add(u.SampleLinear("bloom", uv).Vec3().Mul(u.Float("strength")))
		e := u.Float("exposure")
		mapped := mgl32.Vec3{
			1 - math32.Exp(-c[0]*e),
			1 - math32.Exp(-c[1]*e),
			1 - math32.Exp(-c[2]*e),
		}
		return rgba(gammaCorrect(mapped, u.Float("gamma")), 1), true
	}, soft.WithVaryings(2))
}
