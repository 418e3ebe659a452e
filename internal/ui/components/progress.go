package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar with an optional
// "current/goal" counter.
type ProgressBar struct {
	Label   string
	Current int
	Goal    int
	Width   int
	Fill    color.Color
}

// NewProgressBar creates a bar filled in the secondary color.
func NewProgressBar(label string, current, goal, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Current: current,
		Goal:    goal,
		Width:   width,
		Fill:    theme.Secondary,
	}
}

// Percent is Current/Goal clamped to [0, 1].
func (p ProgressBar) Percent() float64 {
	if p.Goal <= 0 {
		return 0
	}
	return min(max(float64(p.Current)/float64(p.Goal), 0), 1)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	counter := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %d/%d", p.Current, p.Goal))

	barWidth := max(p.Width-lipgloss.Width(result)-lipgloss.Width(counter), 4)
	filled := int(float64(barWidth) * p.Percent())
	empty := barWidth - filled

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}

	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty)) +
		counter
	return result
}
