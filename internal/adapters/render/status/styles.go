package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	id       lipgloss.Style
	detail   lipgloss.Style
	empty    lipgloss.Style
	pending  lipgloss.Style
	accepted lipgloss.Style
	rejected lipgloss.Style
	unknown  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		id:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:    lipgloss.NewStyle().Faint(true),
		pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		accepted: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		rejected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		unknown:  lipgloss.NewStyle().Faint(true),
	}
}
