package workspace

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title         lipgloss.Style
	header        lipgloss.Style
	project       lipgloss.Style
	activeProject lipgloss.Style
	detail        lipgloss.Style
	warning       lipgloss.Style
	section       lipgloss.Style
	empty         lipgloss.Style
	tab           lipgloss.Style
	activeTab     lipgloss.Style
	badge         lipgloss.Style
	barBracket    lipgloss.Style
	barFill       lipgloss.Style
	barEmpty      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:         lipgloss.NewStyle().Bold(true),
		header:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		project:       lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		activeProject: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:       lipgloss.NewStyle().MarginTop(1),
		empty:         lipgloss.NewStyle().Faint(true),
		tab:           lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		activeTab:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		badge:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("63")).Padding(0, 1),
		barBracket:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:       lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:      lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
