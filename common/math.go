package common

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// PutFloat32s writes values into dst as little-endian IEEE-754 floats starting at offset.
// dst must hold offset+4*len(values) bytes.
func PutFloat32s(dst []byte, offset int, values ...float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(dst[offset+i*4:], math.Float32bits(v))
	}
}

// PerspectiveZO creates a right-handed perspective projection mapping view-space depth
// into the WebGPU clip range [0, 1]: z = -near maps to 0 and z = -far maps to 1.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func PerspectiveZO(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var m mgl32.Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1.0
	m[14] = (near * far) / (near - far)
	return m
}

// OrthoZO creates a right-handed orthographic projection with depth in [0, 1].
//
// Parameters:
//   - left, right, bottom, top: the view-space extents of the volume
//   - near, far: distances to the clipping planes along -Z
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func OrthoZO(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	m := mgl32.Ident4()
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = 1 / (near - far)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = near / (near - far)
	return m
}

// ModelMatrix builds translate * rotateY * rotateX * scale, the order every cookbook scene uses.
func ModelMatrix(position mgl32.Vec3, yaw, pitch float32, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	ry := mgl32.HomogRotate3DY(yaw)
	rx := mgl32.HomogRotate3DX(pitch)
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(ry).Mul4(rx).Mul4(s)
}

// NormalMatrix returns the inverse-transpose of the model matrix's upper 3x3 block.
func NormalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	return model.Mat3().Inv().Transpose()
}
