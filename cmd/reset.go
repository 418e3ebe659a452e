package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all data and start over",
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("this erases points, rewards, groups, badges and the notebook; re-run with --yes to confirm")
		}
		if err := e.state.ResetAllData(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All data reset.")
		return nil
	}),
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
