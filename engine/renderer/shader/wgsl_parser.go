package shader

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// wgslVertexFormatSizeMap maps WGSL vertex input types to their byte size.
var wgslVertexFormatSizeMap = map[string]uint64{
	"f32":       4,
	"vec2f":     8,
	"vec2<f32>": 8,
	"vec3f":     12,
	"vec3<f32>": 12,
	"vec4f":     16,
	"vec4<f32>": 16,
	"i32":       4,
	"u32":       4,
}

// wgslUniformTypeMap maps WGSL types usable in the uniform block to uniform types.
var wgslUniformTypeMap = map[string]uniform.Type{
	"f32":         uniform.TypeFloat,
	"i32":         uniform.TypeInt,
	"vec2f":       uniform.TypeVec2,
	"vec2<f32>":   uniform.TypeVec2,
	"vec3f":       uniform.TypeVec3,
	"vec3<f32>":   uniform.TypeVec3,
	"vec4f":       uniform.TypeVec4,
	"vec4<f32>":   uniform.TypeVec4,
	"mat3x3f":     uniform.TypeMat3,
	"mat3x3<f32>": uniform.TypeMat3,
	"mat4x4f":     uniform.TypeMat4,
	"mat4x4<f32>": uniform.TypeMat4,
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field line: optional attributes, name, colon, type.
	// The type capture (.+) is greedy to handle parameterized types like array<T, N>.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// fragmentReturnRegex captures the return type of the @fragment entry point, with an
	// optional leading @location attribute for single-output shaders.
	fragmentReturnRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+\w+\s*\([^)]*\)\s*->\s*(@location\(\d+\)\s*)?([\w<>]+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> u: Uniforms;
	// or handle types: @group(1) @binding(0) var source: texture_2d<f32>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseVertexInputs extracts the attributes of the first pure vertex input struct (one with
// @location fields and no @builtin fields), with tightly packed offsets in declaration order.
//
// Parameters:
//   - structs: the parsed struct blocks
//
// Returns:
//   - []VertexAttribute: the attributes, or nil when the shader has no vertex input struct
//   - uint64: the vertex stride in bytes
//   - error: an attribute type that cannot be a vertex format
func parseVertexInputs(structs []parsedStruct) ([]VertexAttribute, uint64, error) {
	for _, ps := range structs {
		if !isVertexInputStruct(ps) {
			continue
		}
		attrs := make([]VertexAttribute, 0, len(ps.fields))
		var offset uint64
		for _, f := range ps.fields {
			size, ok := wgslVertexFormatSizeMap[f.typeName]
			if !ok {
				return nil, 0, fmt.Errorf("vertex input %s.%s: %q: %w", ps.name, f.name, f.typeName, ErrUnsupportedType)
			}
			attrs = append(attrs, VertexAttribute{
				Location: f.location,
				Name:     f.name,
				Type:     f.typeName,
				Offset:   offset,
			})
			offset += size
		}
		return attrs, offset, nil
	}
	return nil, 0, nil
}

// parseResources extracts all @group(N) @binding(M) declarations, sorted by group then binding.
//
// Parameters:
//   - source: WGSL source with comments already stripped
//
// Returns:
//   - []Resource: the declared resources
func parseResources(source string) []Resource {
	matches := bindGroupDeclRegex.FindAllStringSubmatch(source, -1)
	resources := make([]Resource, 0, len(matches))
	for _, match := range matches {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		resources = append(resources, Resource{
			Group:        group,
			Binding:      binding,
			AddressSpace: strings.TrimSpace(match[3]),
			Name:         strings.TrimSpace(match[4]),
			Type:         strings.TrimSpace(match[5]),
		})
	}
	sort.Slice(resources, func(i, j int) bool {
		if resources[i].Group != resources[j].Group {
			return resources[i].Group < resources[j].Group
		}
		return resources[i].Binding < resources[j].Binding
	})
	return resources
}

// parseEntryPoint extracts the entry point function name for a stage. Returns an empty
// string if the source has no entry point for it.
//
// Parameters:
//   - source: WGSL source with comments already stripped
//   - stage: StageVertex or StageFragment
//
// Returns:
//   - string: the entry point function name, or empty string if not found
func parseEntryPoint(source string, stage Stage) string {
	var re *regexp.Regexp
	switch stage {
	case StageVertex:
		re = vertexEntryRegex
	case StageFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(source); match != nil {
		return match[1]
	}
	return ""
}

// parseFragmentOutputs counts the color outputs written by the fragment entry point: one for
// a single @location return, the number of @location fields for a struct return, zero when
// there is no fragment stage.
//
// Parameters:
//   - source: WGSL source with comments already stripped
//   - structs: the parsed struct blocks
//
// Returns:
//   - int: the number of color outputs
func parseFragmentOutputs(source string, structs []parsedStruct) int {
	match := fragmentReturnRegex.FindStringSubmatch(source)
	if match == nil {
		return 0
	}
	if match[1] != "" {
		return 1
	}
	for _, ps := range structs {
		if ps.name == match[2] {
			return ps.locations()
		}
	}
	return 0
}

// parseUniformDescriptor builds the program's uniform descriptor: the fields of the struct
// bound as var<uniform> at group 0 binding 0, laid out with WGSL rules, followed by every
// sampled texture in group 1.
//
// Parameters:
//   - label: the program label
//   - structs: the parsed struct blocks
//   - resources: the declared resources
//
// Returns:
//   - *uniform.Descriptor: the descriptor
//   - error: a uniform field whose type has no uniform.Type
func parseUniformDescriptor(label string, structs []parsedStruct, resources []Resource) (*uniform.Descriptor, error) {
	var fields []uniform.Field
	var size uint64

	for _, r := range resources {
		if r.Group != UniformGroup || r.Binding != UniformBinding || r.AddressSpace != "uniform" {
			continue
		}
		var block *parsedStruct
		for i := range structs {
			if structs[i].name == r.Type {
				block = &structs[i]
			}
		}
		if block == nil {
			return nil, fmt.Errorf("uniform %s: struct %q not found", r.Name, r.Type)
		}
		known := computeStructSizes(structs)
		offset := uint64(0)
		maxAlign := uint64(16)
		for _, f := range block.fields {
			typ, ok := wgslUniformTypeMap[f.typeName]
			if !ok {
				return nil, fmt.Errorf("uniform %s.%s: %q: %w", block.name, f.name, f.typeName, ErrUnsupportedType)
			}
			layout, _ := resolveTypeLayout(f.typeName, known)
			offset = roundUpAlign(layout.align, offset)
			fields = append(fields, uniform.Field{Name: f.name, Type: typ, Offset: int(offset), Binding: -1})
			offset += layout.size
			maxAlign = max(maxAlign, layout.align)
		}
		size = roundUpAlign(maxAlign, offset)
	}

	for _, r := range resources {
		if r.Group == TextureGroup && r.Kind().IsTexture() {
			fields = append(fields, uniform.Field{Name: r.Name, Type: uniform.TypeTexture, Offset: -1, Binding: r.Binding})
		}
	}
	return uniform.FromFields(label, fields, int(size)), nil
}

// parseStructBlocks finds all struct { ... } blocks in the cleaned WGSL source
// and parses their fields including @location and @builtin attributes
//
// Parameters:
//   - source: WGSL source with comments already stripped
//
// Returns:
//   - []parsedStruct: all struct blocks found in the source
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))

	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}

	return structs
}

// parseStructFields parses the body of a struct block into individual fields,
// extracting @location and @builtin attributes along with the field name and type
//
// Parameters:
//   - body: the content between { and } of a struct declaration
//
// Returns:
//   - []parsedField: all fields found in the struct body
func parseStructFields(body string) []parsedField {
	lines := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field := parsedField{location: -1}
		if builtinRegex.MatchString(line) {
			field.isBuiltin = true
		}
		if locMatch := locationRegex.FindStringSubmatch(line); locMatch != nil {
			if loc, err := strconv.Atoi(locMatch[1]); err == nil {
				field.location = loc
			}
		}

		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		field.name = fm[1]
		field.typeName = strings.TrimSpace(fm[2])
		fields = append(fields, field)
	}

	return fields
}
