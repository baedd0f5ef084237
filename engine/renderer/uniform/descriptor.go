package uniform

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/common"
)

var (
	// ErrMissing is returned when a declared uniform has no value in the bag.
	ErrMissing = errors.New("uniform missing")

	// ErrTypeMismatch is returned when a bag value's type differs from the declared type.
	ErrTypeMismatch = errors.New("uniform type mismatch")

	// ErrTextureMissing is returned when a declared texture input has no texture bound.
	ErrTextureMissing = errors.New("texture input missing")
)

// Field describes one declared uniform of a program.
// Buffer fields carry a byte Offset into the uniform block; texture fields carry a Binding slot.
type Field struct {
	Name    string
	Type    Type
	Offset  int
	Binding int
}

// Decl is a name/type pair used to declare a field before layout.
type Decl struct {
	Name string
	Type Type
}

// Descriptor is the explicit uniform interface of one program: every buffer field with its
// byte offset plus every texture input with its binding slot. It is built once per program.
type Descriptor struct {
	label  string
	fields []Field
	index  map[string]int
	size   int
}

// NewDescriptor lays out decls in declaration order using WGSL uniform-buffer rules.
// Texture decls are assigned consecutive binding slots starting at 0.
//
// Parameters:
//   - label: the program label, used in error messages
//   - decls: the uniform declarations in order
//
// Returns:
//   - *Descriptor: the laid-out descriptor
func NewDescriptor(label string, decls ...Decl) *Descriptor {
	fields := make([]Field, 0, len(decls))
	offset, binding, maxAlign := 0, 0, 16
	for _, d := range decls {
		if d.Type == TypeTexture {
			fields = append(fields, Field{Name: d.Name, Type: d.Type, Offset: -1, Binding: binding})
			binding++
			continue
		}
		size, align := d.Type.layout()
		maxAlign = max(maxAlign, align)
		offset = roundUp(offset, align)
		fields = append(fields, Field{Name: d.Name, Type: d.Type, Offset: offset, Binding: -1})
		offset += size
	}
	return FromFields(label, fields, roundUp(offset, maxAlign))
}

// FromFields builds a descriptor from fields whose offsets and bindings were computed elsewhere,
// such as by reflecting WGSL source.
//
// Parameters:
//   - label: the program label
//   - fields: the fields with offsets/bindings filled in
//   - size: total uniform block size in bytes
//
// Returns:
//   - *Descriptor: the descriptor
func FromFields(label string, fields []Field, size int) *Descriptor {
	d := &Descriptor{
		label:  label,
		fields: fields,
		index:  make(map[string]int, len(fields)),
		size:   size,
	}
	for i, f := range fields {
		d.index[f.Name] = i
	}
	return d
}

func (d *Descriptor) Label() string { return d.label }

// Size returns the uniform block size in bytes. Zero means the program reads no buffer uniforms.
func (d *Descriptor) Size() int { return d.size }

// Fields returns every declared field in declaration order.
func (d *Descriptor) Fields() []Field { return d.fields }

// Field looks up a field by name.
func (d *Descriptor) Field(name string) (Field, bool) {
	i, ok := d.index[name]
	if !ok {
		return Field{}, false
	}
	return d.fields[i], true
}

// Textures returns only the texture fields, in binding order.
func (d *Descriptor) Textures() []Field {
	var out []Field
	for _, f := range d.fields {
		if f.Type == TypeTexture {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks that bag supplies every declared field with the declared type.
// Extra bag entries are ignored so one frame bag can feed several programs.
//
// Parameters:
//   - bag: the merged uniform values for a draw
//
// Returns:
//   - error: wraps ErrMissing, ErrTextureMissing or ErrTypeMismatch, or nil
func (d *Descriptor) Validate(bag Bag) error {
	for _, f := range d.fields {
		v, ok := bag[f.Name]
		if !ok || (f.Type == TypeTexture && v.Texture() == nil) {
			if f.Type == TypeTexture {
				return fmt.Errorf("%s: %q: %w", d.label, f.Name, ErrTextureMissing)
			}
			return fmt.Errorf("%s: %q: %w", d.label, f.Name, ErrMissing)
		}
		if v.Type() != f.Type {
			return fmt.Errorf("%s: %q: declared %s, got %s: %w", d.label, f.Name, f.Type, v.Type(), ErrTypeMismatch)
		}
	}
	return nil
}

// Pack validates bag and encodes the buffer fields into a little-endian block of Size bytes.
// Mat3 columns are padded to 16 bytes.
//
// Parameters:
//   - bag: the merged uniform values for a draw
//
// Returns:
//   - []byte: the encoded uniform block, nil when Size is zero
//   - error: the validation error, if any
func (d *Descriptor) Pack(bag Bag) ([]byte, error) {
	if err := d.Validate(bag); err != nil {
		return nil, err
	}
	if d.size == 0 {
		return nil, nil
	}
	buf := make([]byte, d.size)
	for _, f := range d.fields {
		if f.Type == TypeTexture {
			continue
		}
		v := bag[f.Name]
		switch f.Type {
		case TypeInt:
			binary.LittleEndian.PutUint32(buf[f.Offset:], uint32(v.Int()))
		case TypeMat3:
			for c := 0; c < 3; c++ {
				common.PutFloat32s(buf, f.Offset+c*16, v.data[c*3:c*3+3]...)
			}
		default:
			size, _ := f.Type.layout()
			common.PutFloat32s(buf, f.Offset, v.data[:size/4]...)
		}
	}
	return buf, nil
}

func roundUp(v, align int) int {
	return (v + align - 1) / align * align
}
