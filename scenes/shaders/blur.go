package shaders

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// blurWeights is a 5-tap binomial kernel; the weights sum to exactly 1.
var blurWeights = [5]float32{0.0625, 0.25, 0.375, 0.25, 0.0625}

func blur(u *soft.Uniforms, uv mgl32.Vec2, dx, dy int) mgl32.Vec4 {
	x, y := texelCoord(u, "source", uv)
	var sum mgl32.Vec4
	for i, w := range blurWeights {
		k := i - len(blurWeights)/2
		sum = sum.Add(u.Texel("source", x+k*dx, y+k*dy).Mul(w))
	}
	return sum
}

// newBlurH blurs the source texture horizontally.
func newBlurH() *soft.Program {
	desc := uniform.NewDescriptor(BlurH, uniform.Decl{Name: "source", Type: uniform.TypeTexture})
	return soft.NewProgram(BlurH, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		return soft.Outputs{blur(u, f.Varyings.Vec2(0), 1, 0)}, true
	}, soft.WithVaryings(2))
}

// newBlurV blurs the source texture vertically, then scales by exposure and applies gamma.
func newBlurV() *soft.Program {
	desc := uniform.NewDescriptor(BlurV,
		uniform.Decl{Name: "exposure", Type: uniform.TypeFloat},
		uniform.Decl{Name: "gamma", Type: uniform.TypeFloat},
		uniform.Decl{Name: "source", Type: uniform.TypeTexture},
	)
	return soft.NewProgram(BlurV, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		c := blur(u, f.Varyings.Vec2(0), 0, 1)
		rgb := gammaCorrect(c.Vec3().Mul(u.Float("exposure")), u.Float("gamma"))
		return rgba(rgb, c.W()), true
	}, soft.WithVaryings(2))
}
