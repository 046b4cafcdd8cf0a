package grep

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"glancr/internal/domain"
)

func writeFile(t *testing.T, root, rel, content string) domain.FileEntry {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return domain.FileEntry{Path: rel}
}

func TestSearchMatchSpan(t *testing.T) {
	root := t.TempDir()
	e := writeFile(t, root, "fox.txt", "the quick brown fox\n")

	res, err := Search(context.Background(), root, []domain.FileEntry{e}, `qu\w+`, Options{})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)

	m := res.Matches[0]
	require.Equal(t, "fox.txt", m.Path)
	require.Equal(t, 1, m.LineNumber)
	require.Equal(t, "quick", m.Line[m.ColStart:m.ColEnd])
	require.Equal(t, 4, m.ColStart)
	require.Equal(t, 9, m.ColEnd)
}

func TestSearchMultipleMatchesPerLine(t *testing.T) {
	root := t.TempDir()
	e := writeFile(t, root, "a.txt", "foo bar foo\nbaz\nfoo\n")

	res, err := Search(context.Background(), root, []domain.FileEntry{e}, "foo", Options{})
	require.NoError(t, err)
	require.Len(t, res.Matches, 3)

	require.Equal(t, 1, res.Matches[0].LineNumber)
	require.Equal(t, 0, res.Matches[0].ColStart)
	require.Equal(t, 1, res.Matches[1].LineNumber)
	require.Equal(t, 8, res.Matches[1].ColStart)
	require.Equal(t, 3, res.Matches[2].LineNumber)
}

func TestSearchOrderedByPathThenLine(t *testing.T) {
	root := t.TempDir()
	entries := []domain.FileEntry{
		writeFile(t, root, "b.txt", "hit\nhit\n"),
		writeFile(t, root, "a/c.txt", "hit\n"),
	}

	res, err := Search(context.Background(), root, entries, "hit", Options{})
	require.NoError(t, err)
	require.Len(t, res.Matches, 3)
	require.Equal(t, "a/c.txt", res.Matches[0].Path)
	require.Equal(t, "b.txt", res.Matches[1].Path)
	require.Equal(t, 1, res.Matches[1].LineNumber)
	require.Equal(t, 2, res.Matches[2].LineNumber)
}

func TestSearchInvalidPattern(t *testing.T) {
	root := t.TempDir()
	e := writeFile(t, root, "a.txt", "x\n")

	res, err := Search(context.Background(), root, []domain.FileEntry{e}, "[unterminated", Options{})
	require.Nil(t, res)

	var perr *PatternError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "[unterminated", perr.Pattern)
}

func TestSearchResultCap(t *testing.T) {
	root := t.TempDir()
	e := writeFile(t, root, "a.txt", "x\nx\nx\nx\nx\n")

	res, err := Search(context.Background(), root, []domain.FileEntry{e}, "x", Options{MaxResults: 3})
	require.NoError(t, err)
	require.Len(t, res.Matches, 3)
	require.True(t, res.Truncated)
}

func TestSearchSkipsBinaryAndUnreadable(t *testing.T) {
	root := t.TempDir()
	entries := []domain.FileEntry{
		writeFile(t, root, "bin.dat", "he\x00llo x\n"),
		writeFile(t, root, "a.txt", "x\n"),
		{Path: "missing.txt"},
	}

	res, err := Search(context.Background(), root, entries, "x", Options{})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	require.Equal(t, "a.txt", res.Matches[0].Path)
	require.Equal(t, 2, res.Warnings)
}

func TestSearchEmptyFileIsNotAWarning(t *testing.T) {
	root := t.TempDir()
	e := writeFile(t, root, "empty.txt", "")

	res, err := Search(context.Background(), root, []domain.FileEntry{e}, "x", Options{})
	require.NoError(t, err)
	require.Empty(t, res.Matches)
	require.Zero(t, res.Warnings)
}

func TestSearchCancelled(t *testing.T) {
	root := t.TempDir()
	e := writeFile(t, root, "a.txt", "x\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Search(ctx, root, []domain.FileEntry{e}, "x", Options{})
	require.Nil(t, res)
	require.ErrorIs(t, err, context.Canceled)
}
