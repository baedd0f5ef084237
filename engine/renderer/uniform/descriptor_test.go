package uniform

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTexture struct{}

func (fakeTexture) Label() string { return "fake" }
func (fakeTexture) Width() int    { return 1 }
func (fakeTexture) Height() int   { return 1 }

func testDescriptor() *Descriptor {
	return NewDescriptor("test",
		Decl{Name: "a", Type: TypeFloat},
		Decl{Name: "b", Type: TypeVec3},
		Decl{Name: "c", Type: TypeFloat},
		Decl{Name: "source", Type: TypeTexture},
		Decl{Name: "m", Type: TypeMat3},
		Decl{Name: "mask", Type: TypeTexture},
	)
}

func TestNewDescriptorLayout(t *testing.T) {
	d := testDescriptor()

	tests := []struct {
		name    string
		offset  int
		binding int
	}{
		{"a", 0, -1},
		{"b", 16, -1},
		{"c", 28, -1},
		{"source", -1, 0},
		{"m", 32, -1},
		{"mask", -1, 1},
	}
	for _, tt := range tests {
		f, ok := d.Field(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.offset, f.Offset, tt.name)
		assert.Equal(t, tt.binding, f.Binding, tt.name)
	}
	assert.Equal(t, 80, d.Size())
	assert.Len(t, d.Textures(), 2)
	assert.Equal(t, 0, NewDescriptor("empty", Decl{Name: "t", Type: TypeTexture}).Size())
}

func TestValidate(t *testing.T) {
	d := testDescriptor()
	good := Bag{
		"a":      Float(1),
		"b":      Vec3(mgl32.Vec3{1, 2, 3}),
		"c":      Float(2),
		"source": Tex(fakeTexture{}),
		"m":      Mat3(mgl32.Ident3()),
		"mask":   Tex(fakeTexture{}),
		"extra":  Int(7),
	}
	require.NoError(t, d.Validate(good))

	missing := Merge(good)
	delete(missing, "c")
	assert.ErrorIs(t, d.Validate(missing), ErrMissing)

	wrongType := Merge(good, Bag{"b": Vec4(mgl32.Vec4{})})
	assert.ErrorIs(t, d.Validate(wrongType), ErrTypeMismatch)

	noTexture := Merge(good)
	delete(noTexture, "mask")
	assert.ErrorIs(t, d.Validate(noTexture), ErrTextureMissing)

	nilTexture := Merge(good, Bag{"source": Tex(nil)})
	assert.ErrorIs(t, d.Validate(nilTexture), ErrTextureMissing)
}

func TestPack(t *testing.T) {
	d := testDescriptor()
	buf, err := d.Pack(Bag{
		"a":      Float(0.5),
		"b":      Vec3(mgl32.Vec3{1, 2, 3}),
		"c":      Float(4),
		"source": Tex(fakeTexture{}),
		"m":      Mat3(mgl32.Mat3{1, 2, 3, 4, 5, 6, 7, 8, 9}),
		"mask":   Tex(fakeTexture{}),
	})
	require.NoError(t, err)
	require.Len(t, buf, 80)

	f := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
	}
	assert.Equal(t, float32(0.5), f(0))
	assert.Equal(t, float32(2), f(20))
	assert.Equal(t, float32(4), f(28))
	// mat3 columns start every 16 bytes.
	assert.Equal(t, float32(1), f(32))
	assert.Equal(t, float32(4), f(48))
	assert.Equal(t, float32(9), f(72))
	assert.Equal(t, float32(0), f(76))

	_, err = d.Pack(Bag{})
	assert.ErrorIs(t, err, ErrMissing)
}

func TestMergePrecedence(t *testing.T) {
	frame := Bag{"x": Float(1), "y": Float(1)}
	pass := Bag{"y": Float(2), "z": Float(2)}
	draw := Bag{"z": Float(3)}

	merged := Merge(frame, pass, draw)
	assert.Equal(t, float32(1), merged["x"].Float())
	assert.Equal(t, float32(2), merged["y"].Float())
	assert.Equal(t, float32(3), merged["z"].Float())
	assert.Equal(t, float32(1), frame["y"].Float())
}
