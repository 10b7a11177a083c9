package cli

import "github.com/charmbracelet/lipgloss"

// Styles used by the CLI output.
type Styles struct {
	Title     lipgloss.Style
	Prompt    lipgloss.Style
	Hint      lipgloss.Style
	Warn      lipgloss.Style
	Key       lipgloss.Style
	Expansion lipgloss.Style
	Buffer    lipgloss.Style
}

// DefaultStyles uses the rose pine palette of the version banner.
func DefaultStyles() Styles {
	text := lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}
	muted := lipgloss.AdaptiveColor{Light: "#9893a5", Dark: "#6e6a86"}
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(text),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		Hint:      lipgloss.NewStyle().Italic(true).Foreground(muted),
		Warn:      lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#ea9d34", Dark: "#f6c177"}),
		Key:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Expansion: lipgloss.NewStyle().Foreground(text),
		Buffer:    lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"}),
	}
}
