package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lcg is a tiny deterministic generator so block contents vary without a
// seed dependency.
type lcg uint64

func (r *lcg) next() byte {
	*r = *r*6364136223846793005 + 1442695040888963407
	return byte(*r >> 56)
}

func randomBlock(r *lcg, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = r.next() % 8 // small alphabet forces plenty of hits
	}
	return b
}

func TestDetect(t *testing.T) {
	Detect()
	assert.Contains(t, []int{0, 16, 32}, Width)
}

func TestMatchByteAgainstScalar(t *testing.T) {
	r := lcg(1)
	for _, n := range []int{0, 1, 7, 8, 15, 16, 31, 32, 33, 64} {
		block := randomBlock(&r, n)
		for c := byte(0); c < 8; c++ {
			want := matchByteScalar(block, c)
			got := matchByteBlock(block, c)
			require.Equalf(t, want, got, "len=%d c=%d block=%v", n, c, block)
		}
	}
}

func TestCompareAgainstScalar(t *testing.T) {
	r := lcg(2)
	for _, n := range []int{0, 1, 8, 16, 17, 32, 64} {
		a := randomBlock(&r, n)
		b := randomBlock(&r, n)
		require.Equal(t, compareScalar(a, b), compareBlock(a, b), "len=%d", n)

		// identical blocks light every lane
		require.Equal(t, compareScalar(a, a), compareBlock(a, a))
	}
}

func TestMatchSetAgainstScalar(t *testing.T) {
	r := lcg(3)
	set := MakeSet([]byte{1, 3, 5})
	for _, n := range []int{0, 5, 16, 32, 48} {
		block := randomBlock(&r, n)
		require.Equal(t, matchSetScalar(block, &set), matchSetBlock(block, &set))
	}
}

func TestLaneContract(t *testing.T) {
	// Bits at or above the block length must be zero so ctz/clz math
	// works without masking.
	block := []byte{7, 7, 7}
	m := matchByteBlock(block, 7)
	assert.Equal(t, uint64(0b111), m)

	m = compareBlock(block, block)
	assert.Equal(t, uint64(0b111), m)
}

func TestByteSet(t *testing.T) {
	set := MakeSet([]byte("abc\x00"))
	assert.True(t, set.Has('a'))
	assert.True(t, set.Has(0))
	assert.False(t, set.Has('d'))
	assert.False(t, set.Has(0xFF))
}
