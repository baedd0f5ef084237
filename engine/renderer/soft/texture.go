package soft

import (
	"math"
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
)

// texture stores texels as float32 channels, quantized on write to match the declared format.
type texture struct {
	dev      *Device
	label    string
	width    int
	height   int
	format   device.Format
	channels int
	data     []float32
	released atomic.Bool
}

var _ device.Texture = &texture{}

func newTexture(dev *Device, desc device.TextureDescriptor) *texture {
	channels := 4
	if desc.Format.IsDepth() || desc.Format == device.FormatR32Float {
		channels = 1
	}
	return &texture{
		dev:      dev,
		label:    desc.Label,
		width:    desc.Width,
		height:   desc.Height,
		format:   desc.Format,
		channels: channels,
		data:     make([]float32, desc.Width*desc.Height*channels),
	}
}

func (t *texture) Label() string         { return t.label }
func (t *texture) Width() int            { return t.width }
func (t *texture) Height() int           { return t.height }
func (t *texture) Format() device.Format { return t.format }
func (t *texture) Released() bool        { return t.released.Load() }

func (t *texture) Release() {
	if !t.released.CompareAndSwap(false, true) {
		return
	}
	t.dev.untrack(t)
	t.data = nil
}

func (t *texture) clampXY(x, y int) (int, int) {
	return min(max(x, 0), t.width-1), min(max(y, 0), t.height-1)
}

// load returns the texel at (x, y) with clamp-to-edge addressing. Depth textures
// replicate depth into RGB.
func (t *texture) load(x, y int) mgl32.Vec4 {
	x, y = t.clampXY(x, y)
	i := (y*t.width + x) * t.channels
	if t.channels == 1 {
		v := t.data[i]
		if t.format.IsDepth() {
			return mgl32.Vec4{v, v, v, 1}
		}
		return mgl32.Vec4{v, 0, 0, 1}
	}
	return mgl32.Vec4{t.data[i], t.data[i+1], t.data[i+2], t.data[i+3]}
}

func (t *texture) store(x, y int, c mgl32.Vec4) {
	i := (y*t.width + x) * t.channels
	if t.channels == 1 {
		t.data[i] = t.quantize(c[0])
		return
	}
	for k := 0; k < 4; k++ {
		t.data[i+k] = t.quantize(c[k])
	}
}

func (t *texture) depthAt(x, y int) float32 {
	return t.data[y*t.width+x]
}

func (t *texture) storeDepth(x, y int, d float32) {
	t.data[y*t.width+x] = t.quantize(d)
}

func (t *texture) fill(c mgl32.Vec4) {
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			t.store(x, y, c)
		}
	}
}

func (t *texture) quantize(v float32) float32 {
	switch t.format {
	case device.FormatRGBA8Unorm, device.FormatBGRA8Unorm:
		v = min(max(v, 0), 1)
		return math32.Floor(v*255+0.5) / 255
	case device.FormatRGBA16Float:
		return quantizeHalf(v)
	case device.FormatDepth24Plus:
		v = min(max(v, 0), 1)
		return math32.Floor(v*16777215+0.5) / 16777215
	case device.FormatDepth32Float:
		return min(max(v, 0), 1)
	default:
		return v
	}
}

// quantizeHalf rounds v to the nearest value representable with a 10-bit mantissa,
// saturating at the largest finite half. Subnormal halves are not modeled.
func quantizeHalf(v float32) float32 {
	const maxHalf = 65504
	if v > maxHalf {
		return maxHalf
	}
	if v < -maxHalf {
		return -maxHalf
	}
	bits := math.Float32bits(v)
	bits = (bits + 0x1000) &^ 0x1FFF
	return math.Float32frombits(bits)
}

func (t *texture) blend(x, y int, src mgl32.Vec4, mode device.BlendMode) {
	switch mode {
	case device.BlendAlpha:
		dst := t.load(x, y)
		a := src[3]
		t.store(x, y, mgl32.Vec4{
			src[0]*a + dst[0]*(1-a),
			src[1]*a + dst[1]*(1-a),
			src[2]*a + dst[2]*(1-a),
			a + dst[3]*(1-a),
		})
	case device.BlendAdditive:
		t.store(x, y, src.Add(t.load(x, y)))
	default:
		t.store(x, y, src)
	}
}

func (t *texture) sampleNearest(uv mgl32.Vec2) mgl32.Vec4 {
	x := int(math32.Floor(uv[0] * float32(t.width)))
	y := int(math32.Floor(uv[1] * float32(t.height)))
	return t.load(x, y)
}

func (t *texture) sampleLinear(uv mgl32.Vec2) mgl32.Vec4 {
	fx := uv[0]*float32(t.width) - 0.5
	fy := uv[1]*float32(t.height) - 0.5
	x0, y0 := math32.Floor(fx), math32.Floor(fy)
	tx, ty := fx-x0, fy-y0
	ix, iy := int(x0), int(y0)

	c00 := t.load(ix, iy)
	c10 := t.load(ix+1, iy)
	c01 := t.load(ix, iy+1)
	c11 := t.load(ix+1, iy+1)
	top := c00.Mul(1 - tx).Add(c10.Mul(tx))
	bottom := c01.Mul(1 - tx).Add(c11.Mul(tx))
	return top.Mul(1 - ty).Add(bottom.Mul(ty))
}

// compare returns 1 when ref <= the stored depth at uv and 0 otherwise. Coordinates
// outside [0, 1] are treated as lit.
func (t *texture) compare(uv mgl32.Vec2, ref float32) float32 {
	if uv[0] < 0 || uv[0] > 1 || uv[1] < 0 || uv[1] > 1 {
		return 1
	}
	if ref <= t.sampleNearest(uv)[0] {
		return 1
	}
	return 0
}
