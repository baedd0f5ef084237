// annotations.go defines the annotation syntax understood by the WGSL pre-processor.
// Annotations are single-line WGSL comments prefixed with @oxy:. They are stripped from the
// source during pre-processing, so the WGSL compiler never sees them.
package shader

import (
	"fmt"
	"strings"
)

// annotationPrefix is the marker that identifies an annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects the WGSL source of a named include file at the
	// annotation site.
	//
	// Syntax: //@oxy:include <name>
	//
	// Example: //@oxy:include fullscreen
	AnnotationTypeInclude AnnotationType = "include"
)

// Annotation is one parsed annotation line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Arg is the annotation argument, e.g. the include name.
	Arg string

	// Line is the 1-based line number in the source where the annotation was found.
	Line int
}

// parseAnnotation parses a single line of WGSL. Lines without the annotation prefix return
// (nil, nil).
//
// Parameters:
//   - line: the source line
//   - lineNum: the 1-based line number, for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil
//   - error: a malformed annotation
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	comment, ok := strings.CutPrefix(trimmed, "//")
	if !ok {
		return nil, nil
	}
	after, ok := strings.CutPrefix(strings.TrimSpace(comment), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		return &Annotation{Type: AnnotationTypeInclude, Arg: args[1], Line: lineNum}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
