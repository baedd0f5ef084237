package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
)

// windingMatchesNormal checks that every triangle winds counter-clockwise around its vertex normal.
func windingMatchesNormal(t *testing.T, m Mesh) {
	t.Helper()
	require.Zero(t, len(m.Indices)%3)
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		face := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		if face.Len() < 1e-6 {
			// pole triangles of a UV sphere collapse to a line
			continue
		}
		assert.Greater(t, face.Dot(a.Normal), float32(0), "%s triangle %d", m.Label, i/3)
	}
}

func TestMeshWinding(t *testing.T) {
	tests := []Mesh{
		Quad(),
		Triangle(mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{1, -1, 0}, mgl32.Vec3{0, 1, 0}),
		Plane(4),
		Cube(2),
		Sphere(1, 8, 6),
	}
	for _, m := range tests {
		t.Run(m.Label, func(t *testing.T) {
			windingMatchesNormal(t, m)
		})
	}
}

func TestQuadCoversClipSpace(t *testing.T) {
	q := Quad()
	require.Len(t, q.Vertices, 4)
	for _, v := range q.Vertices {
		assert.Equal(t, float32(1), mgl32.Abs(v.Position.X()))
		assert.Equal(t, float32(1), mgl32.Abs(v.Position.Y()))
		assert.Equal(t, (1-v.Position.Y())/2, v.UV.Y(), "uv v grows downward")
	}
}

func TestCubeExtent(t *testing.T) {
	c := Cube(2)
	assert.Len(t, c.Vertices, 24)
	assert.Len(t, c.Indices, 36)
	for _, v := range c.Vertices {
		for i := 0; i < 3; i++ {
			assert.InDelta(t, 1, mgl32.Abs(v.Position[i]), 1e-6)
		}
	}
}

func TestSphereRadius(t *testing.T) {
	s := Sphere(2, 3, 1)
	assert.Len(t, s.Vertices, 4*3)
	for _, v := range s.Vertices {
		assert.InDelta(t, 2, v.Position.Len(), 1e-5)
	}
}

func TestTransformMovesPositions(t *testing.T) {
	m := Plane(2).Transform(mgl32.Translate3D(0, 3, 0))
	for _, v := range m.Vertices {
		assert.InDelta(t, 3, v.Position.Y(), 1e-6)
		assert.InDelta(t, 1, v.Normal.Y(), 1e-6)
	}
}

func TestBuild(t *testing.T) {
	dev := soft.NewDevice()
	defer dev.Release()

	geo, err := Cube(1).Build(dev)
	require.NoError(t, err)
	assert.Equal(t, "cube", geo.Label())
	assert.Equal(t, 24, geo.VertexCount())
	assert.Equal(t, 36, geo.IndexCount())
}
