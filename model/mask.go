package model

import "fmt"

// ActivationMask is an ordered on/off selection over candidate sites,
// index-aligned with the site list. Positions beyond the mask length are
// treated as active; an empty mask keeps every site on. Masks are read-only
// after construction.
type ActivationMask struct {
	bits []bool
}

// ParseActivationMask builds a mask from a string of '0'/'1' characters,
// the format produced by the outer optimizer. Any other character is an
// error.
func ParseActivationMask(s string) (ActivationMask, error) {
	bits := make([]bool, len(s))
	for i, c := range s {
		switch c {
		case '1':
			bits[i] = true
		case '0':
			bits[i] = false
		default:
			return ActivationMask{}, fmt.Errorf("activation mask: invalid character %q at position %d", c, i)
		}
	}
	return ActivationMask{bits: bits}, nil
}

// NewActivationMask builds a mask from a boolean slice. The slice is copied.
func NewActivationMask(bits []bool) ActivationMask {
	cp := make([]bool, len(bits))
	copy(cp, bits)
	return ActivationMask{bits: cp}
}

// Len returns the number of positions the mask covers.
func (m ActivationMask) Len() int { return len(m.bits) }

// Active reports whether site index i is on. Indices beyond the mask
// length default to active.
func (m ActivationMask) Active(i int) bool {
	if i < 0 {
		return false
	}
	if i >= len(m.bits) {
		return true
	}
	return m.bits[i]
}

// String renders the mask back to its '0'/'1' form.
func (m ActivationMask) String() string {
	buf := make([]byte, len(m.bits))
	for i, b := range m.bits {
		if b {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}
