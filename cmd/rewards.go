package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/entity"
)

var rewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Manage point rewards",
}

var rewardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rewards",
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		snap := e.state.Snapshot()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%d points available\n", snap.Points)
		if len(snap.Rewards) == 0 {
			fmt.Fprintln(w, "No rewards yet.")
			return nil
		}
		for _, r := range snap.Rewards {
			status := ""
			if r.Redeemed {
				status = "redeemed"
			} else if snap.Points >= r.PointsNeeded {
				status = "ready"
			}
			fmt.Fprintf(w, "%-8s  %-30s %7d pts  %s\n", shortID(r.ID), r.Name, r.PointsNeeded, status)
		}
		return nil
	}),
}

var rewardsAddCmd = &cobra.Command{
	Use:   "add <name> <points>",
	Short: "Add a reward",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		pts, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid points %q: %w", args[1], err)
		}
		r, err := e.state.AddReward(cmd.Context(), args[0], pts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%d pts) as %s\n", r.Name, r.PointsNeeded, shortID(r.ID))
		return nil
	}),
}

var rewardsRedeemCmd = &cobra.Command{
	Use:   "redeem <id>",
	Short: "Spend points on a reward",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		id, err := resolveRewardID(e.state.Snapshot().Rewards, args[0])
		if err != nil {
			return err
		}
		r, err := e.state.RedeemReward(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Redeemed %q. %d points left.\n", r.Name, e.state.Points())
		return nil
	}),
}

var rewardsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete an unredeemed reward",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		id, err := resolveRewardID(e.state.Snapshot().Rewards, args[0])
		if err != nil {
			return err
		}
		if err := e.state.RemoveReward(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Removed.")
		return nil
	}),
}

func init() {
	rewardsCmd.AddCommand(rewardsListCmd, rewardsAddCmd, rewardsRedeemCmd, rewardsRemoveCmd)
}

func resolveRewardID(rewards []entity.Reward, prefix string) (string, error) {
	ids := make([]string, len(rewards))
	for i, r := range rewards {
		ids[i] = r.ID
	}
	return resolveID("reward", ids, prefix)
}

// shortID is the display form of a uuid.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveID finds the one id starting with prefix.
func resolveID(kind string, ids []string, prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("empty %s id", kind)
	}
	var match string
	for _, id := range ids {
		if strings.HasPrefix(strings.ToLower(id), prefix) {
			if match != "" {
				return "", fmt.Errorf("%s id %q is ambiguous", kind, prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("no %s matches %q", kind, prefix)
	}
	return match, nil
}
