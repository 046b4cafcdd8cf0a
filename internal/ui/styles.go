package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	ModeTag       lipgloss.Style
	FilterTag     lipgloss.Style
	MatchChar     lipgloss.Style
	MatchSpan     lipgloss.Style
	SelectedRow   lipgloss.Style
	LineNumber    lipgloss.Style
	ResultBox     lipgloss.Style
	PreviewBox    lipgloss.Style
	InputBox      lipgloss.Style
	HelpBox       lipgloss.Style
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSection   lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		ModeTag:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		FilterTag:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		MatchChar:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MatchSpan:     lipgloss.NewStyle().Background(lipgloss.Color("238")).Bold(true),
		SelectedRow:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		LineNumber:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		ResultBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")),
		PreviewBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")),
		InputBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("39")),
		HelpBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1, 2).
			BorderForeground(lipgloss.Color("99")),
		HelpKey:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		HelpDesc:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		HelpSection: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	}
}
