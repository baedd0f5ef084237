package device

import "github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"

// DrawCall is one draw of a geometry with a program.
type DrawCall struct {
	Program  Program
	Geometry Geometry
	State    DrawState
	Viewport Viewport

	// Uniforms holds buffer values and texture inputs, already merged and validated.
	Uniforms uniform.Bag
}

// Label returns the program label, or "<nil>" when no program is set.
func (c DrawCall) Label() string {
	if c.Program == nil {
		return "<nil>"
	}
	return c.Program.Label()
}
