package fuzzy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"glancr/internal/domain"
)

func entries(paths ...string) []domain.FileEntry {
	out := make([]domain.FileEntry, len(paths))
	for i, p := range paths {
		out[i] = domain.FileEntry{Path: p}
	}
	return out
}

func paths(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Entry.Path
	}
	return out
}

func TestRankEmptyQueryReturnsAllInOriginalOrder(t *testing.T) {
	in := entries("z.go", "a.go", "m.go")
	out := Rank(in, "")

	require.Equal(t, []string{"z.go", "a.go", "m.go"}, paths(out))
	for _, m := range out {
		require.Zero(t, m.Score)
		require.Empty(t, m.Positions)
	}
}

func TestRankExcludesNonSubsequence(t *testing.T) {
	out := Rank(entries("main.go", "util.go"), "xyz")
	require.Empty(t, out)
}

func TestRankCaseInsensitive(t *testing.T) {
	out := Rank(entries("Main.GO"), "main")
	require.Len(t, out, 1)
	require.Equal(t, []int{0, 1, 2, 3}, out[0].Positions)
}

func TestRankPositionsAreGreedyEarliest(t *testing.T) {
	out := Rank(entries("abcab"), "ab")
	require.Len(t, out, 1)
	require.Equal(t, []int{0, 1}, out[0].Positions)
}

func TestRankPositionsFormTheSubsequence(t *testing.T) {
	query := "mgo"
	out := Rank(entries("src/main.go", "cmd/migrate/go.sum", "readme.md"), query)
	require.NotEmpty(t, out)

	for _, m := range out {
		runes := []rune(strings.ToLower(m.Entry.Path))
		require.Len(t, m.Positions, len(query))
		prev := -1
		for i, pos := range m.Positions {
			require.Greater(t, pos, prev, "positions must be strictly increasing")
			require.Equal(t, rune(query[i]), runes[pos])
			prev = pos
		}
	}
}

func TestRankExactScore(t *testing.T) {
	// "abc" against itself: segment start (+10+1), then two contiguous
	// characters (+5+1 each), no unmatched length.
	out := Rank(entries("abc"), "abc")
	require.Len(t, out, 1)
	require.Equal(t, 23, out[0].Score)
	require.Equal(t, []int{0, 1, 2}, out[0].Positions)
}

func TestRankSegmentStartBeatsMidWord(t *testing.T) {
	out := Rank(entries("domain.go", "src/main.go"), "main")
	require.Equal(t, []string{"src/main.go", "domain.go"}, paths(out))
}

func TestRankContiguousBeatsScattered(t *testing.T) {
	out := Rank(entries("axbxc.go", "abc.go"), "abc")
	require.Equal(t, []string{"abc.go", "axbxc.go"}, paths(out))
}

func TestRankTieBreaksByShorterPathThenLexicographic(t *testing.T) {
	out := Rank(entries("aa/bb.go", "aa/b.go"), "b")
	require.Equal(t, []string{"aa/b.go", "aa/bb.go"}, paths(out))

	out = Rank(entries("b.txt", "a.txt"), "txt")
	require.Equal(t, []string{"a.txt", "b.txt"}, paths(out))
}

func TestRankDeterministic(t *testing.T) {
	in := entries("src/main.go", "src/main_test.go", "cmd/app/main.go", "domain.go", "main.go")
	first := Rank(in, "main")
	second := Rank(in, "main")
	require.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		require.GreaterOrEqual(t, first[i-1].Score, first[i].Score)
	}
}

func TestRankPreservesEntryMetadata(t *testing.T) {
	in := []domain.FileEntry{{Path: "main.go", IsDirty: true, ChangedFromBase: true}}
	out := Rank(in, "main")
	require.Len(t, out, 1)
	require.True(t, out[0].Entry.IsDirty)
	require.True(t, out[0].Entry.ChangedFromBase)
}
