package cmd

import (
	"fmt"
	"io"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show points, level, daily goal and topic mastery",
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		printStats(cmd.OutOrStdout(), e.state.Snapshot())
		return nil
	}),
}

var (
	headingStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(theme.TextDim).Width(16)
	valueStyle   = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(theme.TextDim)
)

func printStats(w io.Writer, snap state.Snapshot) {
	p := snap.Profile
	lvl := progress.LevelFor(p)

	name := p.Name
	if name == "" {
		name = "New Student"
	}
	group := "none"
	if p.HasGroup() {
		group = p.Group
	}

	row := func(label, value string) {
		fmt.Fprintln(w, labelStyle.Render(label)+valueStyle.Render(value))
	}

	fmt.Fprintln(w, headingStyle.Render(p.Avatar+" "+name))
	row("Group", group)
	row("Points", fmt.Sprintf("%d", snap.Points))
	row("Level", fmt.Sprintf("%d (%d/%d XP)", lvl.Level, lvl.InLevel, lvl.PerLevel))
	row("Today", fmt.Sprintf("%d/%d correct", progress.DailyGoalProgress(p), progress.DailyGoal))
	row("Goals reached", fmt.Sprintf("%d", p.DailyGoalTotalCount))
	row("Accuracy", fmt.Sprintf("%d%% (%d of %d)", progress.OverallAccuracy(p), p.CorrectAnswers, p.TotalAttempts))
	row("Time spent", (time.Duration(p.TotalTimeSpent) * time.Second).String())
	row("Notebook", fmt.Sprintf("%d to revisit", len(snap.Notebook)))

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Mastery"))
	for _, m := range progress.Mastery(p) {
		rank := lipgloss.NewStyle().Foreground(theme.RankColor(string(m.Rank))).Width(12).Render(string(m.Rank))
		fmt.Fprintf(w, "  %-20s %s %s\n", m.Topic, rank,
			dimStyle.Render(fmt.Sprintf("%d/%d, %d%%", m.Correct, m.Attempts, m.Accuracy)))
	}
}
