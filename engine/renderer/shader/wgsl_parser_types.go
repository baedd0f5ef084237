package shader

// wgslTypeLayout holds the byte size and alignment of a WGSL type under host-shareable layout rules.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}

func (ps parsedStruct) locations() int {
	n := 0
	for _, f := range ps.fields {
		if f.location >= 0 {
			n++
		}
	}
	return n
}
