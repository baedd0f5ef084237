// Package softtest provides small soft programs and geometry for tests of the render-target layer.
package softtest

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// Uniform names read by the test programs.
const (
	Color  = "color"
	Scale  = "scale"
	Source = "source"
)

// Fullscreen passes positions through as clip coordinates and uv in varyings 0-1.
func Fullscreen(v device.Vertex, _ *soft.Uniforms) soft.VertexOut {
	out := soft.VertexOut{Position: v.Position.Vec4(1)}
	out.Varyings.SetVec2(0, v.UV)
	return out
}

// Fill writes the vec4 "color" uniform to every covered pixel.
func Fill() *soft.Program {
	desc := uniform.NewDescriptor("fill", uniform.Decl{Name: Color, Type: uniform.TypeVec4})
	return soft.NewProgram("fill", desc, Fullscreen, func(_ *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		return soft.Outputs{u.Vec4(Color)}, true
	}, soft.WithVaryings(2))
}

// Copy writes the "source" texture, sampled nearest, multiplied by the "scale" uniform.
func Copy() *soft.Program {
	desc := uniform.NewDescriptor("copy",
		uniform.Decl{Name: Scale, Type: uniform.TypeFloat},
		uniform.Decl{Name: Source, Type: uniform.TypeTexture},
	)
	return soft.NewProgram("copy", desc, Fullscreen, func(f *soft.Fragment, u *soft.Uniforms) (soft.Outputs, bool) {
		return soft.Outputs{u.Sample(Source, f.Varyings.Vec2(0)).Mul(u.Float(Scale))}, true
	}, soft.WithVaryings(2))
}

// Depth is a depth-only program that places vertices at their own clip position.
func Depth() *soft.Program {
	return soft.NewProgram("depth", nil, Fullscreen, nil)
}

// Quad uploads a full-screen quad with uv (0, 0) at the top-left corner.
func Quad(dev device.Device) (device.Geometry, error) {
	return QuadAt(dev, 0)
}

// QuadAt uploads a full-screen quad at clip depth z.
func QuadAt(dev device.Device, z float32) (device.Geometry, error) {
	n := mgl32.Vec3{0, 0, 1}
	return dev.CreateGeometry("quad", []device.Vertex{
		{Position: mgl32.Vec3{-1, -1, z}, Normal: n, UV: mgl32.Vec2{0, 1}},
		{Position: mgl32.Vec3{1, -1, z}, Normal: n, UV: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{1, 1, z}, Normal: n, UV: mgl32.Vec2{1, 0}},
		{Position: mgl32.Vec3{-1, 1, z}, Normal: n, UV: mgl32.Vec2{0, 0}},
	}, []uint32{0, 1, 2, 0, 2, 3})
}

// ColorBag is a bag holding only the "color" uniform.
func ColorBag(r, g, b, a float32) uniform.Bag {
	return uniform.Bag{Color: uniform.Vec4(mgl32.Vec4{r, g, b, a})}
}
