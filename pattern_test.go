package pstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// matchStrings compiles pattern, matches it against input and returns the
// capture texts.
func matchStrings(t *testing.T, pattern, input string) []string {
	t.Helper()

	expr, err := Compile(pattern, nil)
	require.NoErrorf(t, err, "compile %q", pattern)
	defer expr.Free()

	in := mustNew(t, input)
	caps := make([]String, expr.NumCaptures())
	n, err := expr.Match(&in, caps)
	if err != nil {
		require.ErrorIsf(t, err, ErrNoData, "match %q against %q", pattern, input)
		return nil
	}

	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = caps[i].String()
	}
	return out
}

func TestMatchLiteral(t *testing.T) {
	caps := matchStrings(t, "foo", "xfooy")
	require.NotNil(t, caps, "matching is unanchored")
	assert.Equal(t, "foo", caps[0])
}

func TestMatchNoData(t *testing.T) {
	assert.Nil(t, matchStrings(t, "foo", "barbaz"))
	assert.Nil(t, matchStrings(t, "a", ""))
}

func TestMatchGreedyStar(t *testing.T) {
	caps := matchStrings(t, "a*", "aaab")
	require.NotNil(t, caps)
	assert.Equal(t, "aaa", caps[0])
}

func TestMatchGreedyBacktrack(t *testing.T) {
	caps := matchStrings(t, "a*ab", "aaab")
	require.NotNil(t, caps, "the star gives back one a")
	assert.Equal(t, "aaab", caps[0])
}

func TestMatchQuantifiers(t *testing.T) {
	cases := []struct {
		pattern, input, want string
	}{
		{"ab?c", "ac", "ac"},
		{"ab?c", "abc", "abc"},
		{"ab+c", "abbbc", "abbbc"},
		{"colou?r", "my color", "color"},
		{"a{3}", "aaaa", "aaa"},
		{"a{2,}", "aaaa", "aaaa"},
		{"a{1,2}", "aaaa", "aa"},
		{"a{0,1}b", "b", "b"},
	}
	for _, tc := range cases {
		caps := matchStrings(t, tc.pattern, tc.input)
		require.NotNilf(t, caps, "match %q against %q", tc.pattern, tc.input)
		assert.Equalf(t, tc.want, caps[0], "match %q against %q", tc.pattern, tc.input)
	}
}

func TestMatchQuantifierMinimum(t *testing.T) {
	assert.Nil(t, matchStrings(t, "ab+c", "ac"))
	assert.Nil(t, matchStrings(t, "a{3}", "aa"))
}

func TestMatchDotIsCodepoint(t *testing.T) {
	caps := matchStrings(t, ".", "é")
	require.NotNil(t, caps)
	assert.Equal(t, 2, len(caps[0]), "dot consumes the whole UTF-8 sequence")

	caps = matchStrings(t, "a.c", "axc")
	require.NotNil(t, caps)
	assert.Equal(t, "axc", caps[0])
}

func TestMatchUTF8Atom(t *testing.T) {
	caps := matchStrings(t, "é+", "ééx")
	require.NotNil(t, caps)
	assert.Equal(t, "éé", caps[0])
}

func TestMatchClasses(t *testing.T) {
	cases := []struct {
		pattern, input, want string
	}{
		{`\d+`, "abc123def", "123"},
		{`\D+`, "12ab34", "ab"},
		{`\w+`, " foo_bar9 ", "foo_bar9"},
		{`\s\S`, "a b", " b"},
		{`\W`, "ab!cd", "!"},
	}
	for _, tc := range cases {
		caps := matchStrings(t, tc.pattern, tc.input)
		require.NotNilf(t, caps, "match %q against %q", tc.pattern, tc.input)
		assert.Equalf(t, tc.want, caps[0], "match %q", tc.pattern)
	}
}

func TestMatchEscapes(t *testing.T) {
	caps := matchStrings(t, `\.\*`, "a.*b")
	require.NotNil(t, caps)
	assert.Equal(t, ".*", caps[0])

	caps = matchStrings(t, `a\tb`, "a\tb")
	require.NotNil(t, caps)
	assert.Equal(t, "a\tb", caps[0])
}

func TestMatchBracketSets(t *testing.T) {
	cases := []struct {
		pattern, input, want string
	}{
		{"[abc]+", "zzcabz", "cab"},
		{"[a-f]+", "xdeadbeefx", "deadbeef"},
		{"[^0-9]+", "12abc34", "abc"},
		{"[0-9a-fA-F]+", "zzA9fzz", "A9f"},
		{`[\]]`, "x]y", "]"},
		{`[\d]+`, "ab42cd", "42"},
	}
	for _, tc := range cases {
		caps := matchStrings(t, tc.pattern, tc.input)
		require.NotNilf(t, caps, "match %q against %q", tc.pattern, tc.input)
		assert.Equalf(t, tc.want, caps[0], "match %q", tc.pattern)
	}
}

func TestMatchAlternation(t *testing.T) {
	caps := matchStrings(t, "cat|dog", "hotdog")
	require.NotNil(t, caps)
	assert.Equal(t, "dog", caps[0])

	caps = matchStrings(t, "cat|dog", "catalog")
	require.NotNil(t, caps)
	assert.Equal(t, "cat", caps[0])

	caps = matchStrings(t, "a|b|c", "zzc")
	require.NotNil(t, caps)
	assert.Equal(t, "c", caps[0])
}

func TestMatchAlternationPrefersLeft(t *testing.T) {
	caps := matchStrings(t, "(a|ab)", "ab")
	require.NotNil(t, caps)
	assert.Equal(t, "a", caps[1], "the first viable alternative wins")
}

func TestMatchGroupCaptures(t *testing.T) {
	caps := matchStrings(t, "(a+)(b+)", "xaabbby")
	require.Len(t, caps, 3)
	assert.Equal(t, "aabbb", caps[0])
	assert.Equal(t, "aa", caps[1])
	assert.Equal(t, "bbb", caps[2])
}

func TestMatchGroupAlternationBacktracks(t *testing.T) {
	caps := matchStrings(t, "(ab|a)b", "ab")
	require.NotNil(t, caps)
	assert.Equal(t, "ab", caps[0])
	assert.Equal(t, "a", caps[1], "the left alternative is given up for the tail")
}

func TestMatchRepeatedGroup(t *testing.T) {
	caps := matchStrings(t, "(a|b)+", "aabbabx")
	require.Len(t, caps, 2)
	assert.Equal(t, "aabbab", caps[0])
	assert.Equal(t, "b", caps[1], "the capture reports the last iteration")
}

func TestMatchOptionalGroup(t *testing.T) {
	caps := matchStrings(t, "a(bc)?d", "ad")
	require.NotNil(t, caps)
	assert.Equal(t, "ad", caps[0])
	assert.Equal(t, "", caps[1])

	caps = matchStrings(t, "a(bc)?d", "abcd")
	require.NotNil(t, caps)
	assert.Equal(t, "abcd", caps[0])
	assert.Equal(t, "bc", caps[1])
}

func TestMatchStarGroup(t *testing.T) {
	caps := matchStrings(t, "x(ab)*y", "xy")
	require.NotNil(t, caps)
	assert.Equal(t, "xy", caps[0])

	caps = matchStrings(t, "x(ab)*y", "xabababy")
	require.NotNil(t, caps)
	assert.Equal(t, "xabababy", caps[0])
	assert.Equal(t, "ab", caps[1])
}

func TestMatchNestedGroups(t *testing.T) {
	caps := matchStrings(t, "((a)(b))", "zab")
	require.Len(t, caps, 4)
	assert.Equal(t, "ab", caps[0])
	assert.Equal(t, "ab", caps[1])
	assert.Equal(t, "a", caps[2])
	assert.Equal(t, "b", caps[3])
}

func TestMatchCapsArraySmallerThanGroups(t *testing.T) {
	expr, err := Compile("(a)(b)(c)", nil)
	require.NoError(t, err)
	defer expr.Free()

	in := mustNew(t, "abc")
	caps := make([]String, 2)
	n, err := expr.Match(&in, caps)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "abc", caps[0].String())
	assert.Equal(t, "a", caps[1].String())
}

func TestCompileErrors(t *testing.T) {
	invalid := []string{
		"*a",
		"+",
		"?x",
		"(ab",
		"ab)",
		"[abc",
		"a{,2}",
		"a{2,1}",
		"a{x}",
		`a\q`,
	}
	for _, pattern := range invalid {
		_, err := Compile(pattern, nil)
		assert.ErrorIsf(t, err, ErrInvalid, "compile %q", pattern)
	}
}

func TestCompileNotImplemented(t *testing.T) {
	unsupported := []string{
		`\bword`,
		`\Bword`,
		"a+?",
		"a*?",
		"a??",
		"(ab){2}",
		"(ab)+?",
	}
	for _, pattern := range unsupported {
		_, err := Compile(pattern, nil)
		assert.ErrorIsf(t, err, ErrNotImplemented, "compile %q", pattern)
	}
}

func TestMatchNilArguments(t *testing.T) {
	expr, err := Compile("a", nil)
	require.NoError(t, err)
	defer expr.Free()

	_, err = expr.Match(nil, nil)
	assert.Equal(t, ErrInvalid, err)
}

func TestMatchEmptyPattern(t *testing.T) {
	caps := matchStrings(t, "", "anything")
	require.NotNil(t, caps)
	assert.Equal(t, "", caps[0], "the empty pattern matches the empty prefix")
}
