package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/leaderboard"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank students by correct answers",
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		groupOnly, _ := cmd.Flags().GetBool("group")
		noSeed, _ := cmd.Flags().GetBool("no-seed")

		snap := e.state.Snapshot()
		rows := leaderboard.Build(snap.Registry, snap.Profile, leaderboard.Options{GroupOnly: groupOnly, NoSeed: noSeed})

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-4s %-24s %-20s %7s %5s\n", "#", "Name", "Group", "Solved", "Acc")
		for _, r := range rows {
			line := fmt.Sprintf("%-4d %-24s %-20s %7d %4d%%", r.Rank, r.Entry.Name, r.Entry.Group, r.Entry.Correct, r.Accuracy)
			if r.IsMe {
				line = headingStyle.Render(line + "  <- you")
			}
			fmt.Fprintln(w, line)
		}
		return nil
	}),
}

func init() {
	leaderboardCmd.Flags().Bool("group", false, "Only show your study group")
	leaderboardCmd.Flags().Bool("no-seed", false, "Hide the built-in competitors")
}
