package shaders

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// LogLuminanceEpsilon keeps log luminance finite on black pixels.
const LogLuminanceEpsilon = 1e-4

// newLuminance writes the log luminance of the HDR source to the red channel.
func newLuminance() *soft.Program {
	desc := uniform.NewDescriptor(Luminance, uniform.Decl{Name: "hdr", Type: uniform.TypeTexture})
	return soft.NewProgram(Luminance, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		c := u.SampleLinear("hdr", f.Varyings.Vec2(0))
		return soft.Outputs{{math32.Log(LogLuminanceEpsilon + luminance(c.Vec3())), 0, 0, 1}}, true
	}, soft.WithVaryings(2))
}

// newDownsample averages 2x2 blocks of the source red channel.
func newDownsample() *soft.Program {
	desc := uniform.NewDescriptor(Downsample, uniform.Decl{Name: "source", Type: uniform.TypeTexture})
	return soft.NewProgram(Downsample, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		x, y := 2*int(math32.Floor(f.Coord.X())), 2*int(math32.Floor(f.Coord.Y()))
		sum := u.Texel("source", x, y).X() + u.Texel("source", x+1, y).X() +
			u.Texel("source", x, y+1).X() + u.Texel("source", x+1, y+1).X()
		return soft.Outputs{{sum / 4, 0, 0, 1}}, true
	}, soft.WithVaryings(0))
}

// reinhard applies the extended Reinhard operator to c given the scene's average luminance.
func reinhard(c mgl32.Vec3, avg, exposure, white float32) mgl32.Vec3 {
	l := luminance(c)
	if l <= 0 {
		return mgl32.Vec3{}
	}
	ls := exposure / max(avg, LogLuminanceEpsilon) * l
	ld := ls * (1 + ls/(white*white)) / (1 + ls)
	return c.Mul(ld / l)
}

// newTonemap maps HDR color to display range using the average luminance found in the 1x1
// "luminance" input.
func newTonemap() *soft.Program {
	desc := uniform.NewDescriptor(Tonemap,
		uniform.Decl{Name: "exposure", Type: uniform.TypeFloat},
		uniform.Decl{Name: "white", Type: uniform.TypeFloat},
		uniform.Decl{Name: "gamma", Type: uniform.TypeFloat},
		uniform.Decl{Name: "hdr", Type: uniform.TypeTexture},
		uniform.Decl{Name: "luminance", Type: uniform.TypeTexture},
	)
	return soft.NewProgram(Tonemap, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		avg := math32.Exp(u.Texel("luminance", 0, 0).X())
		c := u.Sample("hdr", f.Varyings.Vec2(0)).Vec3()
		mapped := reinhard(c, avg, u.Float("exposure"), u.Float("white"))
		return rgba(gammaCorrect(mapped, u.Float("gamma")), 1), true
	}, soft.WithVaryings(2))
}
