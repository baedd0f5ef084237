// pre_processor.go implements the WGSL pre-processor. It expands //@oxy:include annotations
// with shared WGSL snippets so every program can reuse the same vertex input struct,
// full-screen vertex stage and sampling helpers.
package shader

import (
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

// maxIncludeDepth bounds nested includes and catches include cycles.
const maxIncludeDepth = 8

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// includes holds the include files, looked up as "<name>.wgsl".
	includes fs.FS

	// included records the include names expanded by the last Process call.
	included []string
}

// PreProcessor expands annotations in raw WGSL source.
type PreProcessor interface {
	// Process expands every //@oxy:include annotation. Each include is expanded at most once
	// per call, so shared snippets may include each other freely.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: a malformed annotation or a missing include
	Process(source string) (string, error)

	// Included returns the include names expanded by the most recent Process call, in order.
	//
	// Returns:
	//   - []string: the include names
	Included() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a pre-processor that resolves includes from fsys. A nil fsys
// rejects every include.
//
// Parameters:
//   - includes: the file system holding <name>.wgsl include files
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor(includes fs.FS) PreProcessor {
	return &preProcessor{includes: includes}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.included = p.included[:0]
	return p.expand(source, 0)
}

func (p *preProcessor) expand(source string, depth int) (string, error) {
	if depth > maxIncludeDepth {
		return "", fmt.Errorf("includes nested deeper than %d", maxIncludeDepth)
	}

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			if slices.Contains(p.included, a.Arg) {
				continue
			}
			if p.includes == nil {
				return "", fmt.Errorf("line %d: include %q: no include directory", a.Line, a.Arg)
			}
			data, err := fs.ReadFile(p.includes, a.Arg+".wgsl")
			if err != nil {
				return "", fmt.Errorf("line %d: include %q: %w", a.Line, a.Arg, err)
			}
			p.included = append(p.included, a.Arg)
			expanded, err := p.expand(string(data), depth+1)
			if err != nil {
				return "", fmt.Errorf("include %q: %w", a.Arg, err)
			}
			out = append(out, expanded)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Included() []string {
	return p.included
}
