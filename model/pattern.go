package model

// Pattern holds, per path segment, the ordinal of the colon that matched the
// segment among the candidates of its level and window.
//
// A Pattern is only a hint for documents presumed to share a field layout; it
// is always re-validated before a value is read through it.
type Pattern []int

// Clone returns an independent copy.
func (p Pattern) Clone() Pattern {
	if p == nil {
		return nil
	}
	out := make(Pattern, len(p))
	copy(out, p)
	return out
}

// Equal reports whether p and o hold the same ordinals.
func (p Pattern) Equal(o Pattern) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}
