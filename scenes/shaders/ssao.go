package shaders

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// MaxSSAOSamples bounds the "samples" uniform of the SSAO program.
const MaxSSAOSamples = 64

// ssaoKernel returns sample i of n on a cosine-weighted hemisphere around +Z, spread along a
// golden-angle spiral and pulled toward the origin so near occluders weigh more.
func ssaoKernel(i, n int) mgl32.Vec3 {
	r := math32.Sqrt((float32(i) + 0.5) / float32(n))
	phi := float32(i) * 2.3999632
	s, c := math32.Sincos(phi)
	z := math32.Sqrt(max(1-r*r, 0))
	t := float32(i+1) / float32(n)
	scale := 0.1 + 0.9*t*t
	return mgl32.Vec3{r * c, r * s, z}.Mul(scale)
}

// tangentFrame returns two unit vectors orthogonal to n and to each other.
func tangentFrame(n mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	up := mgl32.Vec3{0, 0, 1}
	if math32.Abs(n.Z()) > 0.999 {
		up = mgl32.Vec3{1, 0, 0}
	}
	t := up.Cross(n).Normalize()
	return t, n.Cross(t)
}

func smoothstep(e0, e1, x float32) float32 {
	t := min(max((x-e0)/(e1-e0), 0), 1)
	return t * t * (3 - 2*t)
}

// newSSAO computes raw ambient occlusion from the G-buffer position and normal. Background
// pixels are unoccluded.
func newSSAO() *soft.Program {
	desc := uniform.NewDescriptor(SSAO,
		uniform.Decl{Name: "viewProj", Type: uniform.TypeMat4},
		uniform.Decl{Name: "viewPos", Type: uniform.TypeVec3},
		uniform.Decl{Name: "radius", Type: uniform.TypeFloat},
		uniform.Decl{Name: "bias", Type: uniform.TypeFloat},
		uniform.Decl{Name: "samples", Type: uniform.TypeInt},
		uniform.Decl{Name: "gPosition", Type: uniform.TypeTexture},
		uniform.Decl{Name: "gNormal", Type: uniform.TypeTexture},
	)
	return soft.NewProgram(SSAO, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		uv := f.Varyings.Vec2(0)
		pos := u.Sample("gPosition", uv)
		n := u.Sample("gNormal", uv).Vec3()
		if pos.W() == 0 || n.Len() == 0 {
			return rgba(splat(1), 1), true
		}
		n = n.Normalize()
		t, b := tangentFrame(n)

		viewProj := u.Mat4("viewProj")
		eye := u.Vec3("viewPos")
		radius, bias := u.Float("radius"), u.Float("bias")
		samples := min(max(int(u.Int("samples")), 1), MaxSSAOSamples)
		depth := pos.Vec3().Sub(eye).Len()

		var occlusion float32
		for i := 0; i < samples; i++ {
			k := ssaoKernel(i, samples)
			p := pos.Vec3().Add(t.Mul(k.X() * radius)).Add(b.Mul(k.Y() * radius)).Add(n.Mul(k.Z() * radius))
			clip := viewProj.Mul4x1(p.Vec4(1))
			if clip.W() <= 0 {
				continue
			}
			suv := mgl32.Vec2{(clip.X()/clip.W() + 1) / 2, (1 - clip.Y()/clip.W()) / 2}
			q := u.Sample("gPosition", suv)
			if q.W() == 0 {
				continue
			}
			stored := q.Vec3().Sub(eye).Len()
			if stored < p.Sub(eye).Len()-bias {
				occlusion += smoothstep(0, 1, radius/max(math32.Abs(depth-stored), 1e-4))
			}
		}
		ao := 1 - occlusion/float32(samples)
		return rgba(splat(ao), 1), true
	}, soft.WithVaryings(2))
}

// newSSAOBlur removes the kernel's sampling noise with a 4x4 box filter.
func newSSAOBlur() *soft.Program {
	desc := uniform.NewDescriptor(SSAOBlur, uniform.Decl{Name: "ao", Type: uniform.TypeTexture})
	return soft.NewProgram(SSAOBlur, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		x, y := texelCoord(u, "ao", f.Varyings.Vec2(0))
		var sum float32
		for j := -2; j < 2; j++ {
			for i := -2; i < 2; i++ {
				sum += u.Texel("ao", x+i, y+j).X()
			}
		}
		return rgba(splat(sum/16), 1), true
	}, soft.WithVaryings(2))
}

// newSSAOComposite lights the G-buffer with the ambient term scaled by the blurred occlusion.
func newSSAOComposite() *soft.Program {
	desc := uniform.NewDescriptor(SSAOComposite, decls([]uniform.Decl{
		{Name: "lightPos", Type: uniform.TypeVec3},
		{Name: "lightColor", Type: uniform.TypeVec3},
		{Name: "ambient", Type: uniform.TypeFloat},
	}, gbufferDecls, []uniform.Decl{{Name: "ao", Type: uniform.TypeTexture}})...)
	return soft.NewProgram(SSAOComposite, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		uv := f.Varyings.Vec2(0)
		pos := u.Sample("gPosition", uv)
		if pos.W() == 0 {
			return soft.Outputs{}, false
		}
		albedo := u.Sample("gAlbedo", uv)
		ao := u.Sample("ao", uv).X()
		d := diffuse(u.Sample("gNormal", uv).Vec3(), pos.Vec3(), u.Vec3("lightPos"))
		light := u.Vec3("lightColor").Mul(d).Add(splat(u.Float("ambient") * ao))
		return rgba(mulVec3(albedo.Vec3(), light), 1), true
	}, soft.WithVaryings(2))
}
