package ignore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseRules(t *testing.T, dir, content string) *RuleSet {
	t.Helper()
	rs, err := Parse(strings.NewReader(content), dir)
	require.NoError(t, err)
	return rs
}

func TestParseSkipsCommentsAndBlanks(t *testing.T) {
	rs := parseRules(t, "", "# comment\n\n*.log\n")
	require.Len(t, rs.Rules, 1)
	require.Equal(t, "*.log", rs.Rules[0].Pattern)
}

func TestParseModifiers(t *testing.T) {
	rs := parseRules(t, "", "!keep.log\nbuild/\n/rooted.txt\nsrc/gen\n")
	require.Len(t, rs.Rules, 4)

	require.True(t, rs.Rules[0].Negate)
	require.True(t, rs.Rules[1].DirOnly)
	require.True(t, rs.Rules[2].Anchored)
	require.True(t, rs.Rules[3].Anchored, "inner slash anchors the pattern")
}

func TestStackMatchesSuffixPattern(t *testing.T) {
	s := NewStack(nil, nil)
	s.Push(parseRules(t, "", "*.log\n"))

	require.True(t, s.Match("debug.log", false))
	require.True(t, s.Match("nested/deep/trace.log", false))
	require.False(t, s.Match("main.go", false))
}

func TestStackDirectoryPatternIgnoresSubtree(t *testing.T) {
	s := NewStack(nil, nil)
	s.Push(parseRules(t, "", "build/\n"))

	require.True(t, s.Match("build", true))
	require.True(t, s.Match("build/out.bin", false))
	require.True(t, s.Match("sub/build/out.bin", false))
	require.False(t, s.Match("builder.go", false))
}

func TestStackNegationLastMatchWins(t *testing.T) {
	s := NewStack(nil, nil)
	s.Push(parseRules(t, "", "*.log\n!important.log\n"))

	require.True(t, s.Match("debug.log", false))
	require.False(t, s.Match("important.log", false))
}

func TestStackAnchoredPattern(t *testing.T) {
	s := NewStack(nil, nil)
	s.Push(parseRules(t, "", "/secret.txt\n"))

	require.True(t, s.Match("secret.txt", false))
	require.False(t, s.Match("nested/secret.txt", false))
}

func TestStackNestedRuleSetRelativeToItsDir(t *testing.T) {
	s := NewStack(nil, nil)
	s.Push(parseRules(t, "", ""))
	s.Push(parseRules(t, "sub", "*.tmp\n"))

	require.True(t, s.Match("sub/a.tmp", false))
	require.False(t, s.Match("a.tmp", false), "nested rules do not apply above their dir")
}

func TestStackPopRemovesRules(t *testing.T) {
	s := NewStack(nil, nil)
	s.Push(parseRules(t, "", "*.log\n"))
	require.True(t, s.Match("a.log", false))

	s.Pop()
	require.False(t, s.Match("a.log", false))
}

func TestBuiltinVCSDirsAlwaysExcluded(t *testing.T) {
	s := NewStack(nil, nil)
	require.True(t, s.Match(".git", true))
	require.True(t, s.Match("sub/.hg", true))
	require.False(t, s.Match(".gitignore", false))
}

func TestBuiltinConfiguredExclusions(t *testing.T) {
	s := NewStack([]string{"node_modules"}, []string{".min.js"})

	require.True(t, s.Match("node_modules", true))
	require.True(t, s.Match("app.min.js", false))
	require.True(t, s.Match("lib/App.MIN.JS", false), "pattern match is case-insensitive")
	require.False(t, s.Match("app.js", false))
}

func TestDoubleStarPattern(t *testing.T) {
	s := NewStack(nil, nil)
	s.Push(parseRules(t, "", "docs/**/*.html\n"))

	require.True(t, s.Match("docs/api/v1/index.html", false))
	require.False(t, s.Match("src/index.html", false))
}
