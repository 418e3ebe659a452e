package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/state"
)

var discussCmd = &cobra.Command{
	Use:   "discuss",
	Short: "Share problems with your study group and reply to posts",
}

var discussListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your group's posts",
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		w := cmd.OutOrStdout()
		if !e.state.Profile().HasGroup() {
			return state.ErrNoGroup
		}
		posts := e.state.Discussions()
		if len(posts) == 0 {
			fmt.Fprintln(w, "No posts yet. Share one with `mathquest discuss post <problem-id>`.")
			return nil
		}
		for _, p := range posts {
			fmt.Fprintf(w, "%s  %s %s  %s  [%s]\n", shortID(p.ID), p.AuthorAvatar, p.AuthorName,
				time.UnixMilli(p.Timestamp).Format("2006-01-02 15:04"), p.Problem.Topic)
			printProblem(w, p.Problem)
			for _, c := range p.Comments {
				fmt.Fprintf(w, "    %s %s: %s\n", c.AuthorAvatar, c.AuthorName, c.Text)
			}
			fmt.Fprintln(w)
		}
		return nil
	}),
}

var discussPostCmd = &cobra.Command{
	Use:   "post <problem-id>",
	Short: "Share a problem from your notebook or recent solves",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		p, err := findKnownProblem(e.state.Snapshot(), args[0])
		if err != nil {
			return err
		}
		post, err := e.state.PostDiscussion(cmd.Context(), p)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Shared with %s as %s.\n", post.GroupName, shortID(post.ID))
		return nil
	}),
}

var discussCommentCmd = &cobra.Command{
	Use:   "comment <post-id> <text>",
	Short: "Reply to a post",
	Args:  cobra.MinimumNArgs(2),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		posts := e.state.Discussions()
		ids := make([]string, len(posts))
		for i, p := range posts {
			ids[i] = p.ID
		}
		id, err := resolveID("post", ids, args[0])
		if err != nil {
			return err
		}
		if _, err := e.state.AddComment(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Comment added.")
		return nil
	}),
}

func init() {
	discussCmd.AddCommand(discussListCmd, discussPostCmd, discussCommentCmd)
}

// findKnownProblem looks a problem up in the notebook, then in the solve
// history.
func findKnownProblem(snap state.Snapshot, prefix string) (entity.MathProblem, error) {
	byID := map[string]entity.MathProblem{}
	var ids []string
	add := func(p entity.MathProblem) {
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
			ids = append(ids, p.ID)
		}
	}
	for _, r := range snap.Notebook {
		add(r.Problem)
	}
	for _, p := range snap.Profile.SolveHistory {
		add(p)
	}
	id, err := resolveID("problem", ids, prefix)
	if err != nil {
		return entity.MathProblem{}, err
	}
	return byID[id], nil
}
