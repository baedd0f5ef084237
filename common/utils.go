package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits v to the closed range [lo, hi].
func Clamp[T int | int32 | float32 | float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ScaledSize applies a scale factor to a width/height pair, never returning a dimension below 1.
//
// Parameters:
//   - width, height: the base size in pixels
//   - scale: the multiplier; values <= 0 are treated as 1
//
// Returns:
//   - int, int: the scaled width and height
func ScaledSize(width, height int, scale float32) (int, int) {
	if scale <= 0 {
		scale = 1
	}
	w := int(float32(width) * scale)
	h := int(float32(height) * scale)
	return max(w, 1), max(h, 1)
}
