package profile

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/layout"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

func (s *ProfileScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderTabs()))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))))
	b.WriteString("\n\n")

	var body string
	switch s.tab {
	case tabOverview:
		body = s.renderOverview(cw)
	case tabMastery:
		body = s.renderMastery(cw)
	case tabBadges:
		body = s.renderBadges(cw, height-8)
	case tabRewards:
		body = s.renderRewards(cw)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))

	if s.message != "" {
		color := theme.Error
		if s.good {
			color = theme.Success
		}
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(color).Bold(true), s.message))
	}
	return b.String()
}

func (s *ProfileScreen) renderTabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == s.tab {
			parts[i] = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Underline(true).Render(name)
		} else {
			parts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render(name)
		}
	}
	return strings.Join(parts, "   ")
}

func (s *ProfileScreen) renderOverview(cw int) string {
	p := s.deps.State.Profile()
	lvl := progress.LevelFor(p)

	name := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(p.Avatar + "  " + displayName(p))
	lines := []string{name}
	if p.Description != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(p.Description))
	}

	group := "No study group"
	if g, ok := s.deps.State.CurrentGroup(); ok {
		group = lipgloss.NewStyle().Foreground(theme.GroupColor(g.Color)).Render(g.Icon + " " + g.Name)
	}
	lines = append(lines, group, "")

	levelBar := components.NewProgressBar(fmt.Sprintf("Level %d", lvl.Level), lvl.InLevel, lvl.PerLevel, cw-4)
	levelBar.Fill = theme.Primary
	goalBar := components.NewProgressBar("Daily goal", progress.DailyGoalProgress(p), progress.DailyGoal, cw-4)
	if p.DailyGoalReached {
		goalBar.Fill = theme.Success
	}
	lines = append(lines, levelBar.View(), goalBar.View(), "")

	stat := func(label, value string) string {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Width(18).Render(label) +
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(value)
	}
	lines = append(lines,
		stat("Points", fmt.Sprintf("%d", s.deps.State.Points())),
		stat("Solved", fmt.Sprintf("%d of %d", p.CorrectAnswers, p.TotalAttempts)),
		stat("Accuracy", fmt.Sprintf("%d%%", progress.OverallAccuracy(p))),
		stat("Goals reached", fmt.Sprintf("%d", p.DailyGoalTotalCount)),
		stat("Time spent", (time.Duration(p.TotalTimeSpent) * time.Second).String()),
		stat("Joined", p.JoinDate),
	)
	return components.Card(strings.Join(lines, "\n"), cw, theme.Primary)
}

func (s *ProfileScreen) renderMastery(cw int) string {
	p := s.deps.State.Profile()
	var b strings.Builder
	for _, m := range progress.Mastery(p) {
		head := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Topic)
		rank := lipgloss.NewStyle().Foreground(theme.RankColor(string(m.Rank))).Render(string(m.Rank))
		if pad := cw - 4 - lipgloss.Width(head) - lipgloss.Width(rank); pad > 0 {
			head += strings.Repeat(" ", pad)
		}
		b.WriteString(head + rank + "\n")

		bar := components.NewProgressBar("", m.Accuracy, 100, cw-4)
		bar.Fill = theme.RankColor(string(m.Rank))
		b.WriteString(bar.View() + "\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("%d correct of %d attempts, %d%% accuracy", m.Correct, m.Attempts, m.Accuracy)))
		b.WriteString("\n\n")
	}
	return components.Card(strings.TrimRight(b.String(), "\n"), cw, theme.Secondary)
}

func (s *ProfileScreen) badges() []progress.BadgeProgress {
	return progress.AchievementProgress(s.deps.State.Profile())
}

func (s *ProfileScreen) renderBadges(cw, visible int) string {
	all := s.badges()
	unlocked := 0
	for _, bp := range all {
		if bp.Unlocked {
			unlocked++
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("%d of %d badges unlocked", unlocked, len(all))))
	b.WriteString("\n\n")

	// Two lines per badge.
	rows := max(visible/2-2, 3)
	if s.cursor < s.scroll {
		s.scroll = s.cursor
	}
	if s.cursor >= s.scroll+rows {
		s.scroll = s.cursor - rows + 1
	}
	end := min(s.scroll+rows, len(all))

	for i := s.scroll; i < end; i++ {
		bp := all[i]
		a := bp.Achievement
		prefix := "  "
		nameStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
		if bp.Unlocked {
			nameStyle = lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
		}
		if i == s.cursor {
			prefix = "> "
			nameStyle = nameStyle.Underline(true)
		}
		icon := a.Icon
		if !bp.Unlocked {
			icon = "🔒"
		}
		line := prefix + icon + "  " + nameStyle.Render(a.Name)
		if bp.Goal > 0 && !bp.Unlocked {
			line += lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %d/%d", bp.Current, bp.Goal))
		}
		b.WriteString(line + "\n")

		detail := a.Description
		if i == s.cursor && a.Criteria != "" {
			detail = a.Criteria
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).PaddingLeft(6).Width(cw).Render(detail) + "\n")
	}
	if end < len(all) {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  ↓ %d more", len(all)-end)))
	}
	return lipgloss.NewStyle().Width(cw).Render(strings.TrimRight(b.String(), "\n"))
}

func (s *ProfileScreen) renderRewards(cw int) string {
	snap := s.deps.State.Snapshot()
	if len(snap.Rewards) == 0 {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(
			"No rewards yet. Add one with `mathquest rewards add`.")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(
		fmt.Sprintf("◆ %d points available", snap.Points)))
	b.WriteString("\n\n")
	for i, r := range snap.Rewards {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.cursor {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		status := fmt.Sprintf("%d pts", r.PointsNeeded)
		switch {
		case r.Redeemed:
			status = "redeemed"
			style = style.Strikethrough(true).Foreground(theme.TextDim)
		case snap.Points >= r.PointsNeeded:
			status += "  ready!"
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-30s %s", prefix, r.Name, status)) + "\n")
	}
	return lipgloss.NewStyle().Width(cw).Render(strings.TrimRight(b.String(), "\n"))
}
