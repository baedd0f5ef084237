package shaders

import (
	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// newEdge runs a Sobel operator over the source luminance and paints pixels whose gradient
// magnitude exceeds the threshold with edgeColor.
func newEdge() *soft.Program {
	desc := uniform.NewDescriptor(Edge,
		uniform.Decl{Name: "threshold", Type: uniform.TypeFloat},
		uniform.Decl{Name: "edgeColor", Type: uniform.TypeVec4},
		uniform.Decl{Name: "source", Type: uniform.TypeTexture},
	)
	return soft.NewProgram(Edge, desc, fullscreenVertex, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		x, y := texelCoord(u, "source", f.Varyings.Vec2(0))
		l := func(dx, dy int) float32 {
			return luminance(u.Texel("source", x+dx, y+dy).Vec3())
		}
		gx := l(1, -1) + 2*l(1, 0) + l(1, 1) - l(-1, -1) - 2*l(-1, 0) - l(-1, 1)
		gy := l(-1, 1) + 2*l(0, 1) + l(1, 1) - l(-1, -1) - 2*l(0, -1) - l(1, -1)
		if math32.Sqrt(gx*gx+gy*gy) > u.Float("threshold") {
			return soft.Outputs{u.Vec4("edgeColor")}, true
		}
		return soft.Outputs{u.Texel("source", x, y)}, true
	}, soft.WithVaryings(2))
}
