package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/entity"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "List, create and join study groups",
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List study groups",
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		snap := e.state.Snapshot()
		for _, g := range snap.Groups {
			mark := "  "
			if g.Name == snap.Profile.Group {
				mark = "* "
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s %-24s %-12s %s\n", mark, g.Icon, g.Name, g.Code, g.Color)
		}
		return nil
	}),
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <name> <code>",
	Short: "Create a study group and join it",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		icon, _ := cmd.Flags().GetString("icon")
		color, _ := cmd.Flags().GetString("color")
		g, err := e.state.CreateGroup(cmd.Context(), args[0], args[1], icon, color)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s. Share the code %s with your classmates.\n", g.Icon, g.Name, g.Code)
		return nil
	}),
}

var groupJoinCmd = &cobra.Command{
	Use:   "join <code>",
	Short: "Join a study group by access code",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		g, err := e.state.JoinGroup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Joined %s %s.\n", g.Icon, g.Name)
		return nil
	}),
}

var groupLeaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Leave the current study group",
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		if err := e.state.LeaveGroup(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "You are no longer in a study group.")
		return nil
	}),
}

func init() {
	groupCreateCmd.Flags().String("icon", entity.GroupIcons[0], "Group icon")
	groupCreateCmd.Flags().String("color", entity.GroupColors[0], "Group color")
	groupCmd.AddCommand(groupListCmd, groupCreateCmd, groupJoinCmd, groupLeaveCmd)
}
