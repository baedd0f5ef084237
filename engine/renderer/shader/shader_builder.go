package shader

import "io/fs"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(s *shader)

// WithIncludes sets the file system //@oxy:include directives resolve against.
//
// Parameters:
//   - includes: a file system holding <name>.wgsl snippets
//
// Returns:
//   - ShaderBuilderOption: a function that sets the include file system
func WithIncludes(includes fs.FS) ShaderBuilderOption {
	return func(s *shader) {
		s.includes = includes
	}
}
