package pstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexByte(t *testing.T) {
	cases := []struct {
		in   string
		c    byte
		want int
	}{
		{"", 'a', -1},
		{"a", 'a', 0},
		{"hello", 'l', 2},
		{"hello", 'x', -1},
		{longText, '.', 55},
		{longText, 'z', -1},
	}
	for _, tc := range cases {
		s := mustNew(t, tc.in)
		assert.Equalf(t, tc.want, s.IndexByte(tc.c), "IndexByte(%q, %q)", tc.in, tc.c)
	}
}

func TestLastIndexByte(t *testing.T) {
	s := mustNew(t, "hello world")
	assert.Equal(t, 9, s.LastIndexByte('l'))
	assert.Equal(t, 0, s.LastIndexByte('h'))
	assert.Equal(t, -1, s.LastIndexByte('x'))

	long := mustNew(t, longText)
	assert.Equal(t, len(longText)-1, long.LastIndexByte('.'))
}

func TestIndexAnyFamily(t *testing.T) {
	s := mustNew(t, "abc123def")

	digits := []byte("0123456789")
	assert.Equal(t, 3, s.IndexAny(digits))
	assert.Equal(t, 0, s.IndexNotAny(digits))
	assert.Equal(t, 5, s.LastIndexAny(digits))
	assert.Equal(t, 8, s.LastIndexNotAny(digits))

	letters := mustNew(t, "abcdef")
	assert.Equal(t, -1, letters.IndexAny(digits))
	assert.Equal(t, -1, letters.LastIndexAny(digits))
}

func TestSpanFamily(t *testing.T) {
	s := mustNew(t, "   abc   ")
	ws := []byte(" \t")

	assert.Equal(t, 3, s.Span(ws))
	assert.Equal(t, 0, s.CSpan(ws))
	assert.Equal(t, 3, s.RSpan(ws))
	assert.Equal(t, 0, s.RCSpan(ws))

	body := mustNew(t, "abc")
	assert.Equal(t, 0, body.Span(ws))
	assert.Equal(t, 3, body.CSpan(ws))

	// spn + cspn never exceeds the length
	for _, in := range []string{"", "ab", " a ", longText} {
		x := mustNew(t, in)
		assert.LessOrEqual(t, x.Span(ws)+x.CSpan(ws), x.Len())
	}
}

func TestIndex(t *testing.T) {
	hay := mustNew(t, "it was the best of times, it was the worst of times")

	cases := []struct {
		needle string
		want   int
	}{
		{"it", 0},
		{"was", 3},
		{"times", 19},
		{"worst", 37},
		{"absent", -1},
		{"", 0},
	}
	for _, tc := range cases {
		n := mustNew(t, tc.needle)
		assert.Equalf(t, tc.want, hay.Index(&n), "Index(%q)", tc.needle)
	}

	// needle longer than haystack
	small := mustNew(t, "ab")
	big := mustNew(t, "abc")
	assert.Equal(t, -1, small.Index(&big))
}

func TestPrefixSuffix(t *testing.T) {
	s := mustNew(t, "prefix-body-suffix")
	assert.True(t, s.HasPrefix([]byte("prefix")))
	assert.False(t, s.HasPrefix([]byte("suffix")))
	assert.True(t, s.HasSuffix([]byte("suffix")))
	assert.False(t, s.HasSuffix([]byte("prefix")))
	assert.True(t, s.HasPrefix(nil))
}

func TestTok(t *testing.T) {
	src := mustNew(t, "  foo bar\tbaz  ")
	set := []byte(" \t")

	var tok String
	require.NoError(t, Tok(&tok, &src, nil))

	var got []string
	for Tok(&tok, &src, set) == nil {
		got = append(got, tok.String())
	}
	assert.Equal(t, []string{"foo", "bar", "baz"}, got)
	assert.Equal(t, ErrNotFound, Tok(&tok, &src, set), "stays exhausted")
}

func TestTokNoSeparators(t *testing.T) {
	src := mustNew(t, "single")
	var tok String
	require.NoError(t, Tok(&tok, &src, nil))
	require.NoError(t, Tok(&tok, &src, []byte(",")))
	assert.Equal(t, "single", tok.String())
	assert.Equal(t, ErrNotFound, Tok(&tok, &src, []byte(",")))
}

func TestSplit(t *testing.T) {
	src := mustNew(t, "a,b,,c")
	sep := mustNew(t, ",")

	var tok String
	require.NoError(t, Split(&tok, &src, nil))

	var got []string
	for Split(&tok, &src, &sep) == nil {
		got = append(got, tok.String())
	}
	assert.Equal(t, []string{"a", "b", "", "c"}, got)
}

func TestSplitSubstringSeparator(t *testing.T) {
	src := mustNew(t, "one::two::three")
	var tok String
	require.NoError(t, SplitBytes(&tok, &src, nil))

	var got []string
	for SplitBytes(&tok, &src, []byte("::")) == nil {
		got = append(got, tok.String())
	}
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestTokInvalidCursor(t *testing.T) {
	src := mustNew(t, "a b")
	other := mustNew(t, "x y")

	var tok String
	require.NoError(t, Tok(&tok, &other, nil))
	require.NoError(t, Tok(&tok, &other, []byte(" ")))
	assert.Equal(t, ErrInvalid, Tok(&tok, &src, []byte(" ")), "cursor from a different source")
}

func BenchmarkIndexByte(b *testing.B) {
	s, _ := NewString(longText, nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.IndexByte('.')
	}
}

func BenchmarkIndex(b *testing.B) {
	hay, _ := NewString(longText, nil)
	needle, _ := NewString("torquent", nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hay.Index(&needle)
	}
}
