package pstring

// HashFunc computes a 64-bit hash of a string's bytes. Dictionaries accept
// a custom function; nil selects the built-in.
type HashFunc func(s *String) uint64

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// Hash returns the built-in FNV-1a hash of s. It is stable within a
// process but not across builds.
func (s *String) Hash() uint64 {
	h := uint64(fnvOffset64)
	for _, c := range s.Bytes() {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

func defaultHash(s *String) uint64 {
	return s.Hash()
}
