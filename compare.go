package pstring

import (
	"math/bits"

	"github.com/pjjov/pstring/internal/scan"
)

// eqBytes reports byte equality of equal-length slices through the block
// kernel, falling back to a per-byte tail.
func eqBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	i := 0
	if w := scan.Width; w > 0 {
		full := uint64(1)<<w - 1
		for ; i+w <= len(a); i += w {
			if scan.Compare(a[i:i+w], b[i:i+w]) != full {
				return false
			}
		}
	}
	for ; i < len(a); i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Equal reports whether s and o hold the same bytes.
func (s *String) Equal(o *String) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	return eqBytes(s.Bytes(), o.Bytes())
}

// EqualBytes reports whether s holds exactly the bytes of b.
func (s *String) EqualBytes(b []byte) bool {
	if s == nil {
		return false
	}
	return eqBytes(s.Bytes(), b)
}

// EqualString reports whether s holds exactly the bytes of str.
func (s *String) EqualString(str string) bool {
	if s == nil {
		return false
	}
	b := s.Bytes()
	if len(b) != len(str) {
		return false
	}
	for i := 0; i < len(b); i++ {
		if b[i] != str[i] {
			return false
		}
	}
	return true
}

// Compare orders s and o byte-lexicographically. On the first mismatch the
// unsigned difference of the differing bytes is returned; otherwise the
// shorter string orders first.
func (s *String) Compare(o *String) int {
	if s == o {
		return 0
	}
	a, b := s.Bytes(), o.Bytes()
	n := min(len(a), len(b))

	i := 0
	if w := scan.Width; w > 0 {
		full := uint64(1)<<w - 1
		for ; i+w <= n; i += w {
			m := scan.Compare(a[i:i+w], b[i:i+w])
			if m != full {
				j := i + bits.TrailingZeros64(^m&full)
				return int(a[j]) - int(b[j])
			}
		}
	}
	for ; i < n; i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return len(a) - len(b)
}
