package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/spigell/likeness-guard/internal/humanize"
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true)
	styleMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7A89"))
	styleHigh  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E74C3C"))
	styleMid   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F4D03F"))
	styleLow   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7"))
)

// scoreBadge colours a score by how machine-like it reads.
func scoreBadge(score float64) string {
	text := fmt.Sprintf("%.1f", score)
	switch {
	case score >= 70:
		return styleHigh.Render(text)
	case score > humanize.DefaultTarget:
		return styleMid.Render(text)
	default:
		return styleLow.Render(text)
	}
}
