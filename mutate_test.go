package pstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendFamily(t *testing.T) {
	var s String
	world := mustNew(t, "world")

	require.NoError(t, s.AppendBytes([]byte("hello ")))
	require.NoError(t, s.Append(&world))
	require.NoError(t, s.AppendByte('!'))
	assert.Equal(t, "hello world!", s.String())
}

func TestAppendPromotes(t *testing.T) {
	var s String
	for i := 0; i < 10; i++ {
		require.NoError(t, s.AppendBytes([]byte("0123456789")))
	}
	assert.True(t, s.IsOwned())
	assert.Equal(t, 100, s.Len())
	assert.Equal(t, byte(0), s.buf()[100])
}

func TestPrependFamily(t *testing.T) {
	s := mustNew(t, "world")
	hello := mustNew(t, "hello")

	require.NoError(t, s.PrependBytes([]byte(" ")))
	require.NoError(t, s.Prepend(&hello))
	require.NoError(t, s.PrependByte('>'))
	assert.Equal(t, ">hello world", s.String())
}

func TestInsertRemove(t *testing.T) {
	s := mustNew(t, "hd")
	require.NoError(t, s.InsertBytes(1, []byte("ello worl")))
	assert.Equal(t, "hello world", s.String())

	require.NoError(t, s.InsertByte(5, ','))
	assert.Equal(t, "hello, world", s.String())

	require.NoError(t, s.Remove(5, 6))
	assert.Equal(t, "hello world", s.String())

	require.NoError(t, s.Remove(5, 9999))
	assert.Equal(t, "hello", s.String())

	assert.Equal(t, ErrInvalid, s.InsertBytes(99, []byte("x")))
}

func TestCopy(t *testing.T) {
	s := mustNew(t, "old contents")
	src := mustNew(t, "new")
	require.NoError(t, s.Copy(&src))
	assert.Equal(t, "new", s.String())
}

func TestJoin(t *testing.T) {
	parts := []String{
		mustNew(t, "a"),
		mustNew(t, "b"),
		mustNew(t, "c"),
	}

	var joined String
	require.NoError(t, joined.Join(parts))
	assert.Equal(t, "abc", joined.String())

	// join equals chained cat
	var chained String
	for i := range parts {
		require.NoError(t, chained.Append(&parts[i]))
	}
	assert.True(t, joined.Equal(&chained))
}

func TestCatAssociative(t *testing.T) {
	a, b, c := mustNew(t, "aa"), mustNew(t, "bb"), mustNew(t, "cc")

	left := mustNew(t, "")
	require.NoError(t, left.Append(&a))
	require.NoError(t, left.Append(&b))
	require.NoError(t, left.Append(&c))

	bc := mustNew(t, "")
	require.NoError(t, bc.Append(&b))
	require.NoError(t, bc.Append(&c))
	right := mustNew(t, "")
	require.NoError(t, right.Append(&a))
	require.NoError(t, right.Append(&bc))

	assert.True(t, left.Equal(&right))
}

func TestReplace(t *testing.T) {
	cases := []struct {
		in, old, new string
		max          int
		want         string
	}{
		{"a-b-c", "-", "+", 0, "a+b+c"},
		{"a-b-c", "-", "+", 1, "a+b-c"},
		{"aaaa", "aa", "b", 0, "bb"},
		{"hello", "l", "LL", 0, "heLLLLo"},
		{"hello", "x", "y", 0, "hello"},
		{"abab", "ab", "ba", 0, "baba"},
		{"no-rematch", "-", "--", 0, "no--rematch"},
	}
	for _, tc := range cases {
		s := mustNew(t, tc.in)
		old := mustNew(t, tc.old)
		new := mustNew(t, tc.new)
		require.NoErrorf(t, s.Replace(&old, &new, tc.max), "replace(%q,%q,%q)", tc.in, tc.old, tc.new)
		assert.Equalf(t, tc.want, s.String(), "replace(%q,%q,%q,%d)", tc.in, tc.old, tc.new, tc.max)
	}
}

func TestReplaceIdentityIsNoop(t *testing.T) {
	s := mustNew(t, "xyxyxy")
	x := mustNew(t, "xy")
	require.NoError(t, s.Replace(&x, &x, 0))
	assert.Equal(t, "xyxyxy", s.String())
}

func TestReplaceEmptyPatternRejected(t *testing.T) {
	s := mustNew(t, "abc")
	empty := mustNew(t, "")
	repl := mustNew(t, "x")
	assert.Equal(t, ErrInvalid, s.Replace(&empty, &repl, 0))
}

func TestReplaceGrowingLong(t *testing.T) {
	s := mustNew(t, longText)
	old := mustNew(t, " ")
	new := mustNew(t, "___")
	require.NoError(t, s.Replace(&old, &new, 0))
	assert.NotContains(t, s.String(), " ")
	assert.Contains(t, s.String(), "Lorem___ipsum")
}

func TestReplaceByte(t *testing.T) {
	s := mustNew(t, "a.b.c.d")
	require.NoError(t, s.ReplaceByte('.', '-', 2))
	assert.Equal(t, "a-b-c.d", s.String())
	require.NoError(t, s.ReplaceByte('.', '-', 0))
	assert.Equal(t, "a-b-c-d", s.String())
}
