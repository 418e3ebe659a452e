package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/progress"
)

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List achievements and progress toward them",
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		w := cmd.OutOrStdout()
		for _, bp := range progress.AchievementProgress(e.state.Profile()) {
			a := bp.Achievement
			mark := "  "
			if bp.Unlocked {
				mark = "✓ "
			}
			line := fmt.Sprintf("%s%s %-22s %s", mark, a.Icon, a.Name, dimStyle.Render(a.Criteria))
			if bp.Goal > 0 && !bp.Unlocked {
				line += dimStyle.Render(fmt.Sprintf("  [%d/%d]", bp.Current, bp.Goal))
			}
			fmt.Fprintln(w, line)
		}
		return nil
	}),
}
