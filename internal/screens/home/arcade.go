package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

const arcadeTitle = "M · A · T · H · Q · U · E · S · T"

const tagline = "SM025 practice arena"

func renderTitle(cw int, compact bool) string {
	title := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(arcadeTitle)
	if !compact {
		title += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(tagline)
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(title)
}

// renderStatsBar shows points, today's goal, level and the notebook size.
func renderStatsBar(snap state.Snapshot, cw int, compact bool) string {
	p := snap.Profile
	pointStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	goalStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	levelStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	daily := progress.DailyGoalProgress(p)
	level := progress.LevelFor(p).Level
	notes := len(snap.Notebook)

	noteStyle := dimStyle
	if notes > 0 {
		noteStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s %s",
			pointStyle.Render(fmt.Sprintf("◆%d", snap.Points)),
			goalStyle.Render(fmt.Sprintf("★%d/%d", daily, progress.DailyGoal)),
			levelStyle.Render(fmt.Sprintf("Lv%d", level)),
			noteStyle.Render(fmt.Sprintf("✎%d", notes)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s  %s",
			pointStyle.Render(fmt.Sprintf("◆ %d PTS", snap.Points)),
			goalStyle.Render(fmt.Sprintf("★ %d/%d TODAY", daily, progress.DailyGoal)),
			levelStyle.Render(fmt.Sprintf("LV %d", level)),
			noteStyle.Render(fmt.Sprintf("✎ %d TO REVIEW", notes)),
		)
	}
	return components.StatsBar(stats, cw)
}

// renderLLMBanner warns that practice is unavailable without an API key.
func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Set an LLM API key to start practising (see mathquest --help)")
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
