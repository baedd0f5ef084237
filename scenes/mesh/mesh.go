// Package mesh builds the small procedural meshes the cookbook scenes draw.
package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
)

// Mesh is CPU-side indexed geometry in the device vertex layout.
type Mesh struct {
	Label    string
	Vertices []device.Vertex
	Indices  []uint32
}

// Build uploads the mesh to a device.
//
// Parameters:
//   - dev: the device to create the geometry on
//
// Returns:
//   - device.Geometry: the uploaded geometry
//   - error: any device error
func (m Mesh) Build(dev device.Device) (device.Geometry, error) {
	return dev.CreateGeometry(m.Label, m.Vertices, m.Indices)
}

// Transform returns a copy of the mesh with positions and normals transformed by model.
func (m Mesh) Transform(model mgl32.Mat4) Mesh {
	normal := model.Mat3().Inv().Transpose()
	out := Mesh{
		Label:    m.Label,
		Vertices: make([]device.Vertex, len(m.Vertices)),
		Indices:  append([]uint32(nil), m.Indices...),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = device.Vertex{
			Position: mgl32.TransformCoordinate(v.Position, model),
			Normal:   normal.Mul3x1(v.Normal).Normalize(),
			UV:       v.UV,
		}
	}
	return out
}

// Quad is a full-screen quad in normalized device coordinates, facing the viewer, with uv
// (0, 0) at the top-left corner.
func Quad() Mesh {
	n := mgl32.Vec3{0, 0, 1}
	return Mesh{
		Label: "quad",
		Vertices: []device.Vertex{
			{Position: mgl32.Vec3{-1, -1, 0}, Normal: n, UV: mgl32.Vec2{0, 1}},
			{Position: mgl32.Vec3{1, -1, 0}, Normal: n, UV: mgl32.Vec2{1, 1}},
			{Position: mgl32.Vec3{1, 1, 0}, Normal: n, UV: mgl32.Vec2{1, 0}},
			{Position: mgl32.Vec3{-1, 1, 0}, Normal: n, UV: mgl32.Vec2{0, 0}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Triangle is a single triangle. Its face normal follows the a, b, c winding.
func Triangle(a, b, c mgl32.Vec3) Mesh {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return Mesh{
		Label: "triangle",
		Vertices: []device.Vertex{
			{Position: a, Normal: n, UV: mgl32.Vec2{0, 1}},
			{Position: b, Normal: n, UV: mgl32.Vec2{1, 1}},
			{Position: c, Normal: n, UV: mgl32.Vec2{0.5, 0}},
		},
		Indices: []uint32{0, 1, 2},
	}
}

// face appends one square face centered at c, spanned by u and v, with u x v = n.
func (m *Mesh) face(c, n, u, v mgl32.Vec3, half float32) {
	base := uint32(len(m.Vertices))
	corners := [4]struct {
		su, sv float32
		uv     mgl32.Vec2
	}{
		{-1, -1, mgl32.Vec2{0, 1}},
		{1, -1, mgl32.Vec2{1, 1}},
		{1, 1, mgl32.Vec2{1, 0}},
		{-1, 1, mgl32.Vec2{0, 0}},
	}
	for _, k := range corners {
		m.Vertices = append(m.Vertices, device.Vertex{
			Position: c.Add(u.Mul(k.su * half)).Add(v.Mul(k.sv * half)),
			Normal:   n,
			UV:       k.uv,
		})
	}
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}

// Plane is a square in the XZ plane facing +Y, centered on the origin.
func Plane(size float32) Mesh {
	m := Mesh{Label: "plane"}
	m.face(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, size/2)
	return m
}

// Cube is an axis-aligned cube centered on the origin with outward faces.
func Cube(size float32) Mesh {
	m := Mesh{Label: "cube"}
	half := size / 2
	faces := [6][3]mgl32.Vec3{
		{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
		{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
		{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
		{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
		{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	}
	for _, f := range faces {
		m.face(f[0].Mul(half), f[0], f[1], f[2], half)
	}
	return m
}

// Sphere is a UV sphere centered on the origin. slices and stacks are clamped to at least 3 and 2.
func Sphere(radius float32, slices, stacks int) Mesh {
	slices, stacks = max(slices, 3), max(stacks, 2)
	m := Mesh{Label: "sphere"}
	for i := 0; i <= stacks; i++ {
		theta := math32.Pi * float32(i) / float32(stacks)
		st, ct := math32.Sincos(theta)
		for j := 0; j <= slices; j++ {
			phi := 2 * math32.Pi * float32(j) / float32(slices)
			sp, cp := math32.Sincos(phi)
			n := mgl32.Vec3{st * sp, ct, st * cp}
			m.Vertices = append(m.Vertices, device.Vertex{
				Position: n.Mul(radius),
				Normal:   n,
				UV:       mgl32.Vec2{float32(j) / float32(slices), float32(i) / float32(stacks)},
			})
		}
	}
	row := uint32(slices + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			d := uint32(i)*row + uint32(j)
			c := d + 1
			a := d + row
			b := a + 1
			m.Indices = append(m.Indices, a, b, c, a, c, d)
		}
	}
	return m
}
