// Package preview loads the selected file and prepares a scrollable,
// syntax-highlighted view of it. Loading never fails the UI: any error
// produces a placeholder buffer instead.
package preview

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// maxHighlightSize is the file size above which highlighting is skipped
// and the file is shown as plain text.
const maxHighlightSize = 512 * 1024

// maxLines caps how many lines a preview renders.
const maxLines = 1000

// scrollLead keeps this many lines of context above the first content
// match when the preview auto-scrolls to it.
const scrollLead = 10

var (
	gutterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	matchLineStyle = lipgloss.NewStyle().Background(lipgloss.Color("238")).Bold(true)
)

// Buffer is a loaded, render-ready preview. Lines carry the gutter and any
// styling; the UI only slices them by scroll offset.
type Buffer struct {
	Path        string
	Lines       []string
	Highlighted bool // syntax highlighting succeeded
	Truncated   bool
	MatchLine   int // 1-based first line matching the content query, 0 if none
}

// Load reads path and builds a preview buffer. matchRe, when non-nil, is
// the active content search pattern; the first matching line is recorded
// for auto-scroll and emphasized. Read failures yield a placeholder.
func Load(path string, matchRe *regexp.Regexp) *Buffer {
	info, err := os.Stat(path)
	if err != nil {
		return placeholder(path, "Unable to read file metadata")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return placeholder(path, "Unable to read file")
	}
	if bytes.IndexByte(data[:min(len(data), 1024)], 0) >= 0 {
		return placeholder(path, "Binary file")
	}

	content := string(data)
	raw := strings.Split(content, "\n")
	if len(raw) > 0 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}

	buf := &Buffer{Path: path}
	for i, line := range raw {
		if matchRe != nil && matchRe.MatchString(line) {
			buf.MatchLine = i + 1
			break
		}
	}

	display := raw
	if len(display) > maxLines {
		display = display[:maxLines]
		buf.Truncated = true
	}

	if info.Size() <= maxHighlightSize {
		if styled, ok := highlight(strings.Join(display, "\n"), path); ok && len(styled) >= len(display) {
			display = styled[:len(display)]
			buf.Highlighted = true
		}
	}

	for i, line := range display {
		if !buf.Highlighted && matchRe != nil && matchRe.MatchString(line) {
			line = matchLineStyle.Render(line)
		}
		buf.Lines = append(buf.Lines, gutterStyle.Render(fmt.Sprintf("%4d ", i+1))+line)
	}

	if buf.Truncated {
		buf.Lines = append(buf.Lines, noticeStyle.Render(fmt.Sprintf("... truncated, showing first %d lines", maxLines)))
	}
	if !buf.Highlighted && info.Size() > maxHighlightSize {
		buf.Lines = append([]string{noticeStyle.Render("Large file, shown without highlighting")}, buf.Lines...)
	}
	return buf
}

// ClampScroll constrains offset to [0, max(0, lines-viewportHeight)].
func (b *Buffer) ClampScroll(offset, viewportHeight int) int {
	maxOffset := len(b.Lines) - viewportHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// ScrollTarget returns the offset that brings the first content match into
// view with some lead, clamped to the buffer. Zero when there is no match
// or it is already near the top.
func (b *Buffer) ScrollTarget(viewportHeight int) int {
	if b.MatchLine == 0 || b.MatchLine <= scrollLead+viewportHeight/2 {
		return 0
	}
	return b.ClampScroll(b.MatchLine-1-scrollLead, viewportHeight)
}

// highlight runs the content through chroma, returning styled lines. The
// language is matched by filename, then guessed from content; failure
// falls back to raw text.
func highlight(content, filename string) ([]string, bool) {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		return nil, false
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return nil, false
	}

	it, err := lexer.Tokenise(nil, content)
	if err != nil {
		return nil, false
	}
	var out bytes.Buffer
	if err := formatter.Format(&out, style, it); err != nil {
		return nil, false
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	return lines, true
}

func placeholder(path, msg string) *Buffer {
	return &Buffer{
		Path:  path,
		Lines: []string{noticeStyle.Render(msg)},
	}
}
