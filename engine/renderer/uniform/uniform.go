package uniform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Type identifies the shader-side type of a uniform value.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeFloat
	TypeInt
	TypeVec2
	TypeVec3
	TypeVec4
	TypeMat3
	TypeMat4
	TypeTexture
)

// String returns the WGSL spelling of the type.
func (t Type) String() string {
	switch t {
	case TypeFloat:
		return "f32"
	case TypeInt:
		return "i32"
	case TypeVec2:
		return "vec2<f32>"
	case TypeVec3:
		return "vec3<f32>"
	case TypeVec4:
		return "vec4<f32>"
	case TypeMat3:
		return "mat3x3<f32>"
	case TypeMat4:
		return "mat4x4<f32>"
	case TypeTexture:
		return "texture_2d"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// layout returns the uniform-buffer size and alignment of the type in bytes.
// Textures are bound separately and occupy no buffer space.
func (t Type) layout() (size, align int) {
	switch t {
	case TypeFloat, TypeInt:
		return 4, 4
	case TypeVec2:
		return 8, 8
	case TypeVec3:
		return 12, 16
	case TypeVec4:
		return 16, 16
	case TypeMat3:
		return 48, 16
	case TypeMat4:
		return 64, 16
	default:
		return 0, 1
	}
}

// Texture is the minimal view of a sampled texture a uniform value needs.
// Device textures satisfy it; backends type-assert back to their own texture type.
type Texture interface {
	Label() string
	Width() int
	Height() int
}

// Value is a single typed uniform value.
type Value struct {
	typ  Type
	data [16]float32
	i    int32
	tex  Texture
}

// Float wraps a scalar float.
func Float(v float32) Value {
	u := Value{typ: TypeFloat}
	u.data[0] = v
	return u
}

// Int wraps a scalar integer.
func Int(v int32) Value {
	return Value{typ: TypeInt, i: v}
}

// Vec2 wraps a two-component vector.
func Vec2(v mgl32.Vec2) Value {
	u := Value{typ: TypeVec2}
	copy(u.data[:], v[:])
	return u
}

// Vec3 wraps a three-component vector.
func Vec3(v mgl32.Vec3) Value {
	u := Value{typ: TypeVec3}
	copy(u.data[:], v[:])
	return u
}

// Vec4 wraps a four-component vector.
func Vec4(v mgl32.Vec4) Value {
	u := Value{typ: TypeVec4}
	copy(u.data[:], v[:])
	return u
}

// Mat3 wraps a column-major 3x3 matrix.
func Mat3(m mgl32.Mat3) Value {
	u := Value{typ: TypeMat3}
	copy(u.data[:], m[:])
	return u
}

// Mat4 wraps a column-major 4x4 matrix.
func Mat4(m mgl32.Mat4) Value {
	u := Value{typ: TypeMat4}
	copy(u.data[:], m[:])
	return u
}

// Tex wraps a texture handle for sampling.
func Tex(t Texture) Value {
	return Value{typ: TypeTexture, tex: t}
}

func (v Value) Type() Type { return v.typ }

func (v Value) Float() float32 { return v.data[0] }

func (v Value) Int() int32 { return v.i }

func (v Value) Vec2() mgl32.Vec2 { return mgl32.Vec2{v.data[0], v.data[1]} }

func (v Value) Vec3() mgl32.Vec3 { return mgl32.Vec3{v.data[0], v.data[1], v.data[2]} }

func (v Value) Vec4() mgl32.Vec4 { return mgl32.Vec4{v.data[0], v.data[1], v.data[2], v.data[3]} }

func (v Value) Mat3() mgl32.Mat3 {
	var m mgl32.Mat3
	copy(m[:], v.data[:9])
	return m
}

func (v Value) Mat4() mgl32.Mat4 {
	return mgl32.Mat4(v.data)
}

func (v Value) Texture() Texture { return v.tex }

// Bag maps uniform names to values for one draw.
type Bag map[string]Value

// Merge combines bags left to right; later bags override earlier ones.
// The inputs are never modified.
//
// Parameters:
//   - bags: the bags to combine, lowest precedence first
//
// Returns:
//   - Bag: a new bag holding the merged entries
func Merge(bags ...Bag) Bag {
	n := 0
	for _, b := range bags {
		n += len(b)
	}
	out := make(Bag, n)
	for _, b := range bags {
		for k, v := range b {
			out[k] = v
		}
	}
	return out
}
