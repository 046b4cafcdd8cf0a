package ui

import (
	"fmt"
	"strings"
)

// renderHelp renders the keybinding overlay.
func (m *Model) renderHelp() string {
	var b strings.Builder

	key := func(k, desc string) {
		b.WriteString(fmt.Sprintf("  %s  %s\n", m.styles.HelpKey.Render(fmt.Sprintf("%-12s", k)), m.styles.HelpDesc.Render(desc)))
	}

	b.WriteString(m.styles.Title.Render("glancr"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.HelpSection.Render("Search"))
	b.WriteString("\n")
	key("ctrl+n", "filename search")
	key("ctrl+f", "content search (regex)")
	key("ctrl+d", "toggle dirty files only")
	key("ctrl+b", "toggle changed from "+m.config.BaseBranch+" only")
	key("ctrl+r", "refresh file index")
	b.WriteString("\n")

	b.WriteString(m.styles.HelpSection.Render("Navigation"))
	b.WriteString("\n")
	key("up/down", "move selection")
	key("pgup/pgdown", "move selection by a page")
	key("shift+up/dn", "scroll preview")
	b.WriteString("\n")

	b.WriteString(m.styles.HelpSection.Render("Actions"))
	b.WriteString("\n")
	key("enter", "open in editor")
	key("ctrl+v", "view file in pager")
	key("f1/ctrl+h", "toggle this help")
	key("esc/ctrl+c", "quit")

	return m.styles.HelpBox.Render(strings.TrimRight(b.String(), "\n"))
}
