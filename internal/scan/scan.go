// Package scan provides the block-wide byte primitives behind the string
// and dictionary hot paths: single-byte match, byte-set membership and
// pairwise equality over fixed-width blocks.
//
// The primitives are exposed as dispatch function variables initialized to
// scalar implementations and upgraded by Detect to word-parallel kernels
// when the CPU reports vector support. Every primitive returns a bitmask
// where bit i corresponds to lane i of the block; lanes at or above the
// block width are always zero so trailing-zero / leading-zero arithmetic
// works uniformly.
package scan

import "sync"

// Width is the active block width in bytes: 0 before (or without) vector
// support, 16 or 32 afterwards. Callers must process tails shorter than
// Width one byte at a time.
var Width int

// Dispatch function variables. Initialized to the scalar implementations;
// Detect may replace them with the word-parallel kernels.
var (
	// MatchByte returns a bitmask with bit i set iff block[i] == c.
	MatchByte func(block []byte, c byte) uint64

	// MatchSet returns a bitmask with bit i set iff block[i] is in set.
	MatchSet func(block []byte, set *ByteSet) uint64

	// Compare returns a bitmask with bit i set iff a[i] == b[i].
	Compare func(a, b []byte) uint64
)

func init() {
	MatchByte = matchByteScalar
	MatchSet = matchSetScalar
	Compare = compareScalar
}

var detectOnce sync.Once

// Detect probes the CPU once and installs the widest supported kernel:
// AVX2-class machines get 32-byte blocks, SSE2-class machines 16-byte
// blocks, everything else stays on the scalar path with Width 0.
// Calling Detect again is a no-op.
func Detect() {
	detectOnce.Do(func() {
		if disableSIMD {
			return
		}
		switch {
		case !disableAVX && hasWide():
			Width = 32
		case !disableSSE && hasNarrow():
			Width = 16
		default:
			return
		}
		MatchByte = matchByteBlock
		MatchSet = matchSetBlock
		Compare = compareBlock
	})
}

// ByteSet is a 256-bit membership table for MatchSet.
type ByteSet [4]uint64

// MakeSet builds the membership table for the first len(set) bytes of set.
func MakeSet(set []byte) ByteSet {
	var s ByteSet
	for _, c := range set {
		s[c>>6] |= 1 << (c & 63)
	}
	return s
}

// Has reports whether c is a member of the set.
func (s *ByteSet) Has(c byte) bool {
	return s[c>>6]&(1<<(c&63)) != 0
}

func matchByteScalar(block []byte, c byte) uint64 {
	var mask uint64
	for i := 0; i < len(block) && i < 64; i++ {
		if block[i] == c {
			mask |= 1 << i
		}
	}
	return mask
}

func matchSetScalar(block []byte, set *ByteSet) uint64 {
	var mask uint64
	for i := 0; i < len(block) && i < 64; i++ {
		if set.Has(block[i]) {
			mask |= 1 << i
		}
	}
	return mask
}

func compareScalar(a, b []byte) uint64 {
	n := min(len(a), len(b))
	var mask uint64
	for i := 0; i < n && i < 64; i++ {
		if a[i] == b[i] {
			mask |= 1 << i
		}
	}
	return mask
}
