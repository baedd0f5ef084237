package device

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

var (
	// ErrFormatUnsupported is returned when the device cannot allocate a texture in the requested format.
	ErrFormatUnsupported = errors.New("format unsupported")

	// ErrInvalidSize is returned for zero, negative, or over-limit texture dimensions.
	ErrInvalidSize = errors.New("invalid texture size")

	// ErrReleased is returned when a released resource is used.
	ErrReleased = errors.New("resource released")

	// ErrOutputMismatch is returned when a program's output count differs from the framebuffer's.
	ErrOutputMismatch = errors.New("program outputs do not match framebuffer")

	// ErrSizeMismatch is returned when framebuffer textures differ in size.
	ErrSizeMismatch = errors.New("framebuffer textures differ in size")

	// ErrForeignResource is returned when a resource from another device is used.
	ErrForeignResource = errors.New("resource belongs to another device")

	// ErrEncoderEnded is returned when an encoder is used after End.
	ErrEncoderEnded = errors.New("encoder already ended")

	ErrUniformMissing = uniform.ErrMissing
	ErrUniformType    = uniform.ErrTypeMismatch
	ErrTextureMissing = uniform.ErrTextureMissing
)

// AllocationError reports that the device rejected a texture allocation.
// It is fatal to the attachment being built and is never retried.
type AllocationError struct {
	Label  string
	Width  int
	Height int
	Format Format
	Err    error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocate %q %dx%d %s: %v", e.Label, e.Width, e.Height, e.Format, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// DrawError reports that a draw was rejected. It indicates a configuration bug and is never retried.
type DrawError struct {
	Pass    string
	Program string
	Err     error
}

func (e *DrawError) Error() string {
	if e.Pass == "" {
		return fmt.Sprintf("draw %q: %v", e.Program, e.Err)
	}
	return fmt.Sprintf("pass %q: draw %q: %v", e.Pass, e.Program, e.Err)
}

func (e *DrawError) Unwrap() error { return e.Err }

// AsDrawError wraps err in a *DrawError unless it already is one, filling in the pass label.
//
// Parameters:
//   - err: the error to wrap, may be nil
//   - pass: the pass label
//   - program: the program label
//
// Returns:
//   - error: nil when err is nil, otherwise a *DrawError
func AsDrawError(err error, pass, program string) error {
	if err == nil {
		return nil
	}
	var de *DrawError
	if errors.As(err, &de) {
		if de.Pass == "" {
			de.Pass = pass
		}
		return de
	}
	return &DrawError{Pass: pass, Program: program, Err: err}
}
