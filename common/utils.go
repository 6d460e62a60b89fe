package common

import "cmp"

// Coalesce returns the first argument that is not the zero value of T. Staging structs
// use it to fill fields the caller left unset with a default.
//
// Parameters:
//   - values: candidates in priority order
//
// Returns:
//   - T: the first non-zero candidate, or the zero value
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits v to [lo, hi]. A zero or negative hi leaves v unbounded above.
//
// Parameters:
//   - v: the value
//   - lo: the lower bound
//   - hi: the upper bound, or <= 0 for none
//
// Returns:
//   - T: the clamped value
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	var zero T
	if hi > zero {
		v = min(v, hi)
	}
	return max(v, lo)
}

// AlignUp rounds v up to the next multiple of align, which must be a power of two.
// An align of 0 returns v unchanged.
func AlignUp(align, v uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}
