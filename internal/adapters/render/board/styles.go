package board

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	detail     lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
	barLocked  lipgloss.Style
	slotIndex  lipgloss.Style
	guessMiss  lipgloss.Style
	guessSkip  lipgloss.Style
	guessOpen  lipgloss.Style
	won        lipgloss.Style
	lost       lipgloss.Style
	track      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		barLocked:  lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		slotIndex:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		guessMiss:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		guessSkip:  lipgloss.NewStyle().Faint(true),
		guessOpen:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		won:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		lost:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		track:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	}
}
