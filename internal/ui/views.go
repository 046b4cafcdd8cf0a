package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	listWidth := m.width * 2 / 5
	if listWidth < 20 {
		listWidth = 20
	}
	previewWidth := m.width - listWidth - 4

	results := m.styles.ResultBox.
		Width(listWidth).
		Height(m.listHeight()).
		Render(m.renderResults(listWidth - 2))

	previewPane := m.styles.PreviewBox.
		Width(previewWidth).
		Height(m.previewHeight()).
		Render(m.renderPreview(previewWidth - 2))

	top := lipgloss.JoinHorizontal(lipgloss.Top, results, previewPane)

	inputBox := m.styles.InputBox.
		Width(m.width - 2).
		Render(m.input.View())

	view := lipgloss.JoinVertical(lipgloss.Left, top, inputBox, m.renderStatusLine())

	if m.mode == ModeHelp {
		overlay := m.renderHelp()
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
	}
	return view
}

// listHeight is the inner height of the result and preview panes.
func (m *Model) listHeight() int {
	h := m.height - 6 // input box, status line, pane borders
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) previewHeight() int {
	return m.listHeight()
}

// renderResults renders the visible window of the result list with the
// selection kept in view.
func (m *Model) renderResults(width int) string {
	n := m.resultCount()
	if n == 0 {
		return m.styles.Dim.Render("no matches")
	}

	visible := m.listHeight()
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := start + visible
	if end > n {
		end = n
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		line := m.renderResultLine(i, width)
		if i == m.selected {
			line = m.styles.SelectedRow.Render(line)
		}
		b.WriteString(line)
		if i != end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderResultLine(i, width int) string {
	if m.contentResults != nil {
		r := m.contentResults[i]
		loc := m.styles.LineNumber.Render(fmt.Sprintf("%s:%d ", r.Path, r.LineNumber))
		return truncateLine(loc+highlightSpan(r.Line, r.ColStart, r.ColEnd, m.styles.MatchSpan), width)
	}

	match := m.nameResults[i]
	return truncateLine(highlightPositions(match.Entry.Path, match.Positions, m.styles.MatchChar), width)
}

// highlightPositions emphasizes the exact rune positions the rank engine
// matched, so what lights up is what scored.
func highlightPositions(path string, positions []int, style lipgloss.Style) string {
	if len(positions) == 0 {
		return path
	}
	posSet := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		posSet[p] = struct{}{}
	}

	var b strings.Builder
	for i, r := range []rune(path) {
		if _, ok := posSet[i]; ok {
			b.WriteString(style.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// highlightSpan emphasizes a byte span within a line.
func highlightSpan(line string, start, end int, style lipgloss.Style) string {
	if start < 0 || end > len(line) || start >= end {
		return line
	}
	return line[:start] + style.Render(line[start:end]) + line[end:]
}

func (m *Model) renderPreview(width int) string {
	if m.previewBuf == nil {
		return m.styles.Dim.Render("no file selected")
	}

	h := m.previewHeight()
	start := m.previewBuf.ClampScroll(m.previewScroll, h)
	end := start + h
	if end > len(m.previewBuf.Lines) {
		end = len(m.previewBuf.Lines)
	}
	return strings.Join(m.previewBuf.Lines[start:end], "\n")
}

// renderStatusLine shows mode, active filters and the current status or
// error message.
func (m *Model) renderStatusLine() string {
	var parts []string

	switch m.mode {
	case ModeContentSearch:
		parts = append(parts, m.styles.ModeTag.Render("[content]"))
	default:
		parts = append(parts, m.styles.ModeTag.Render("[filename]"))
	}

	if m.dirtyOnly {
		parts = append(parts, m.styles.FilterTag.Render("[dirty]"))
	}
	if m.changedOnly {
		parts = append(parts, m.styles.FilterTag.Render("[changed from "+m.config.BaseBranch+"]"))
	}

	parts = append(parts, m.styles.Dim.Render(fmt.Sprintf("%d results", m.resultCount())))

	if m.truncated {
		parts = append(parts, m.styles.StatusWarning.Render("results truncated"))
	}
	if m.searchWarnings > 0 {
		parts = append(parts, m.styles.StatusWarning.Render(fmt.Sprintf("%d files skipped", m.searchWarnings)))
	}

	if m.status != "" {
		if m.isError {
			parts = append(parts, m.styles.StatusError.Render(m.status))
		} else {
			parts = append(parts, m.styles.Status.Render(m.status))
		}
	}

	parts = append(parts, m.styles.Dim.Render("F1 help"))
	return strings.Join(parts, "  ")
}

func truncateLine(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	// Cheap rune-level cut; styled sequences are short enough in practice.
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width])
	}
	return s
}
