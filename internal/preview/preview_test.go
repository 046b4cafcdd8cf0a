package preview

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPlainFile(t *testing.T) {
	path := writeFile(t, "notes.unknownext", "alpha\nbeta\ngamma\n")

	buf := Load(path, nil)
	require.Len(t, buf.Lines, 3)
	require.False(t, buf.Truncated)
	require.Zero(t, buf.MatchLine)
	require.Contains(t, buf.Lines[0], "alpha")
	require.Contains(t, buf.Lines[2], "gamma")
}

func TestLoadHighlightsByFilename(t *testing.T) {
	path := writeFile(t, "main.go", "package main\n\nfunc main() {}\n")

	buf := Load(path, nil)
	require.True(t, buf.Highlighted)
	require.Len(t, buf.Lines, 3)
}

func TestLoadMissingFileYieldsPlaceholder(t *testing.T) {
	buf := Load(filepath.Join(t.TempDir(), "gone.txt"), nil)
	require.Len(t, buf.Lines, 1)
	require.False(t, buf.Highlighted)
	require.Contains(t, buf.Lines[0], "Unable to read")
}

func TestLoadBinaryYieldsPlaceholder(t *testing.T) {
	path := writeFile(t, "blob.dat", "he\x00llo")

	buf := Load(path, nil)
	require.Len(t, buf.Lines, 1)
	require.Contains(t, buf.Lines[0], "Binary file")
}

func TestLoadRecordsFirstMatchLine(t *testing.T) {
	path := writeFile(t, "log.unknownext", "one\ntwo needle\nthree\nfour needle\n")

	buf := Load(path, regexp.MustCompile("needle"))
	require.Equal(t, 2, buf.MatchLine)
}

func TestLoadTruncatesLongFiles(t *testing.T) {
	content := strings.Repeat("line\n", maxLines+50)
	path := writeFile(t, "big.unknownext", content)

	buf := Load(path, nil)
	require.True(t, buf.Truncated)
	// maxLines of content plus the trailing truncation notice.
	require.Len(t, buf.Lines, maxLines+1)
	require.Contains(t, buf.Lines[maxLines], "truncated")
}

func TestClampScroll(t *testing.T) {
	buf := &Buffer{Lines: make([]string, 100)}

	require.Equal(t, 0, buf.ClampScroll(-5, 20))
	require.Equal(t, 40, buf.ClampScroll(40, 20))
	require.Equal(t, 80, buf.ClampScroll(500, 20))

	short := &Buffer{Lines: make([]string, 5)}
	require.Equal(t, 0, short.ClampScroll(3, 20))
}

func TestScrollTarget(t *testing.T) {
	buf := &Buffer{Lines: make([]string, 200), MatchLine: 100}
	require.Equal(t, 100-1-scrollLead, buf.ScrollTarget(20))

	nearTop := &Buffer{Lines: make([]string, 200), MatchLine: 5}
	require.Equal(t, 0, nearTop.ScrollTarget(20))

	noMatch := &Buffer{Lines: make([]string, 200)}
	require.Equal(t, 0, noMatch.ScrollTarget(20))
}
