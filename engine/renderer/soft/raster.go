package soft

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
)

// minBandRows is the smallest number of rows worth handing to a worker.
const minBandRows = 16

type clipVertex struct {
	pos  mgl32.Vec4
	vary Varyings
}

// screenVertex holds a vertex after the perspective divide. vary is premultiplied by invW
// so it interpolates linearly in screen space.
type screenVertex struct {
	x, y, z float32
	invW    float32
	vary    Varyings
}

type triangle struct {
	v          [3]screenVertex
	area       float32
	front      bool
	topLeft    [3]bool
	minX, maxX int
	minY, maxY int
}

type rect struct {
	x0, y0, x1, y1 int
}

// rasterize runs the vertex stage, assembles and clips triangles, then shades every covered
// pixel. Triangles are processed in submission order within each row band, so the final
// color of a pixel matches a sequential rasterizer.
func (d *Device) rasterize(fb *framebuffer, prog *Program, geo *geometry, call device.DrawCall) {
	u := &Uniforms{bag: call.Uniforms}

	out := make([]VertexOut, len(geo.vertices))
	for i, v := range geo.vertices {
		out[i] = prog.vertex(v, u)
	}
	prog.vertexN.Add(int64(len(geo.vertices)))

	vp := call.Viewport.Resolve(fb.width, fb.height)
	bounds := rect{
		x0: max(vp.X, 0),
		y0: max(vp.Y, 0),
		x1: min(vp.X+vp.Width, fb.width) - 1,
		y1: min(vp.Y+vp.Height, fb.height) - 1,
	}
	if bounds.x1 < bounds.x0 || bounds.y1 < bounds.y0 {
		return
	}

	var tris []triangle
	for p := 0; p < geo.primitiveCount(); p++ {
		a := out[geo.index(p*3)]
		b := out[geo.index(p*3+1)]
		c := out[geo.index(p*3+2)]
		poly := clipNear([]clipVertex{
			{pos: a.Position, vary: a.Varyings},
			{pos: b.Position, vary: b.Varyings},
			{pos: c.Position, vary: c.Varyings},
		})
		for i := 1; i+1 < len(poly); i++ {
			if t, ok := setupTriangle(poly[0], poly[i], poly[i+1], vp, bounds, call.State.Cull); ok {
				tris = append(tris, t)
			}
		}
	}
	if len(tris) == 0 {
		return
	}

	rows := bounds.y1 - bounds.y0 + 1
	bands := min(d.workers, rows/minBandRows)
	if d.pool == nil || bands < 2 {
		d.rasterBand(fb, prog, u, call.State, tris, bounds.y0, bounds.y1)
		return
	}

	var wg sync.WaitGroup
	per := (rows + bands - 1) / bands
	for i := 0; i < bands; i++ {
		y0 := bounds.y0 + i*per
		y1 := min(y0+per-1, bounds.y1)
		if y0 > y1 {
			break
		}
		wg.Add(1)
		d.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				d.rasterBand(fb, prog, u, call.State, tris, y0, y1)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// clipNear clips a polygon against the clip-space plane z = 0 (the near plane for a [0, 1]
// depth range). Vertices behind it are replaced by intersection points.
func clipNear(in []clipVertex) []clipVertex {
	const eps = 1e-6
	allInside := true
	for _, v := range in {
		if v.pos[2] < 0 || v.pos[3] <= eps {
			allInside = false
			break
		}
	}
	if allInside {
		return in
	}

	out := make([]clipVertex, 0, len(in)+1)
	for i := range in {
		cur := in[i]
		next := in[(i+1)%len(in)]
		dc, dn := cur.pos[2], next.pos[2]
		if dc >= 0 {
			out = append(out, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			t := dc / (dc - dn)
			var v clipVertex
			v.pos = cur.pos.Add(next.pos.Sub(cur.pos).Mul(t))
			for k := range v.vary {
				v.vary[k] = cur.vary[k] + (next.vary[k]-cur.vary[k])*t
			}
			out = append(out, v)
		}
	}
	if len(out) < 3 {
		return nil
	}
	for _, v := range out {
		if v.pos[3] <= eps {
			return nil
		}
	}
	return out
}

func project(v clipVertex, vp device.Viewport) screenVertex {
	invW := 1 / v.pos[3]
	s := screenVertex{
		x:    float32(vp.X) + (v.pos[0]*invW+1)*0.5*float32(vp.Width),
		y:    float32(vp.Y) + (1-v.pos[1]*invW)*0.5*float32(vp.Height),
		z:    v.pos[2] * invW,
		invW: invW,
	}
	for k := range v.vary {
		s.vary[k] = v.vary[k] * invW
	}
	return s
}

func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// isTopLeft reports whether the edge a->b owns pixels lying exactly on it, for triangles
// whose edge function is positive inside.
func isTopLeft(a, b screenVertex) bool {
	return (a.y == b.y && b.x > a.x) || b.y < a.y
}

func setupTriangle(a, b, c clipVertex, vp device.Viewport, bounds rect, cull device.CullMode) (triangle, bool) {
	v0, v1, v2 := project(a, vp), project(b, vp), project(c, vp)
	area := edge(v0, v1, v2.x, v2.y)
	if area == 0 {
		return triangle{}, false
	}

	// Counter-clockwise in NDC is clockwise in y-down window space.
	front := area < 0
	if (cull == device.CullBack && !front) || (cull == device.CullFront && front) {
		return triangle{}, false
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	t := triangle{
		v:     [3]screenVertex{v0, v1, v2},
		area:  area,
		front: front,
		topLeft: [3]bool{
			isTopLeft(v1, v2),
			isTopLeft(v2, v0),
			isTopLeft(v0, v1),
		},
	}
	minX := min(v0.x, v1.x, v2.x)
	maxX := max(v0.x, v1.x, v2.x)
	minY := min(v0.y, v1.y, v2.y)
	maxY := max(v0.y, v1.y, v2.y)
	t.minX = max(int(math32.Ceil(minX-0.5)), bounds.x0)
	t.maxX = min(int(math32.Floor(maxX-0.5)), bounds.x1)
	t.minY = max(int(math32.Ceil(minY-0.5)), bounds.y0)
	t.maxY = min(int(math32.Floor(maxY-0.5)), bounds.y1)
	if t.minX > t.maxX || t.minY > t.maxY {
		return triangle{}, false
	}
	return t, true
}

func covers(w float32, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}

func (d *Device) rasterBand(fb *framebuffer, prog *Program, u *Uniforms, state device.DrawState, tris []triangle, y0, y1 int) {
	var frag Fragment
	var shaded int64
	for i := range tris {
		t := &tris[i]
		ys, ye := max(t.minY, y0), min(t.maxY, y1)
		for y := ys; y <= ye; y++ {
			py := float32(y) + 0.5
			for x := t.minX; x <= t.maxX; x++ {
				px := float32(x) + 0.5
				w0 := edge(t.v[1], t.v[2], px, py)
				w1 := edge(t.v[2], t.v[0], px, py)
				w2 := edge(t.v[0], t.v[1], px, py)
				if !covers(w0, t.topLeft[0]) || !covers(w1, t.topLeft[1]) || !covers(w2, t.topLeft[2]) {
					continue
				}
				b0, b1, b2 := w0/t.area, w1/t.area, w2/t.area

				z := b0*t.v[0].z + b1*t.v[1].z + b2*t.v[2].z + state.DepthBias
				if z < 0 || z > 1 {
					continue
				}
				if fb.depth != nil && state.DepthTest && !state.DepthCompare.Test(z, fb.depth.depthAt(x, y)) {
					continue
				}

				var colors Outputs
				if prog.fragment != nil {
					invW := b0*t.v[0].invW + b1*t.v[1].invW + b2*t.v[2].invW
					frag.Coord = mgl32.Vec4{px, py, z, invW}
					frag.Front = t.front
					for k := 0; k < prog.varyings; k++ {
						frag.Varyings[k] = (b0*t.v[0].vary[k] + b1*t.v[1].vary[k] + b2*t.v[2].vary[k]) / invW
					}
					var keep bool
					colors, keep = prog.fragment(&frag, u)
					shaded++
					if !keep {
						continue
					}
				}

				if fb.depth != nil && state.DepthWrite {
					fb.depth.storeDepth(x, y, z)
				}
				for k, c := range fb.colors {
					c.blend(x, y, colors[k], state.Blend)
				}
			}
		}
	}
	prog.fragmentN.Add(shaded)
}
