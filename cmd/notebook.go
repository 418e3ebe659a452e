package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/state"
)

var notebookCmd = &cobra.Command{
	Use:   "notebook",
	Short: "Review and retry saved mistakes",
}

var notebookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the mistake notebook",
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		w := cmd.OutOrStdout()
		recs := e.state.Snapshot().Notebook
		if len(recs) == 0 {
			fmt.Fprintln(w, "Your notebook is empty.")
			return nil
		}
		for _, r := range recs {
			p := r.Problem
			fmt.Fprintf(w, "%s  %s  %-18s %s\n", shortID(p.ID),
				time.UnixMilli(r.AddedAt).Format("2006-01-02"), p.Topic, p.Difficulty.Stars())
			printProblem(w, p)
			fmt.Fprintln(w)
		}
		return nil
	}),
}

var notebookRetryCmd = &cobra.Command{
	Use:   "retry <id> <answer>",
	Short: "Answer a saved problem again; a correct answer clears it",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		p, err := findNotebookProblem(e.state.Snapshot().Notebook, args[0])
		if err != nil {
			return err
		}
		option, ok := problemgen.ParseChoice(args[1], p)
		if !ok {
			return fmt.Errorf("%q is not one of the options", args[1])
		}
		res, err := e.state.RetryMistake(cmd.Context(), p.ID, option)
		if errors.Is(err, state.ErrWrongAnswer) {
			fmt.Fprintln(cmd.OutOrStdout(), "Not quite. The problem stays in your notebook.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Correct! +%d points.\n", res.Points+res.Bonus)
		for _, id := range res.NewBadges {
			fmt.Fprintf(cmd.OutOrStdout(), "Badge unlocked: %s\n", id)
		}
		return nil
	}),
}

func init() {
	notebookCmd.AddCommand(notebookListCmd, notebookRetryCmd)
}

func findNotebookProblem(recs []entity.MistakeRecord, prefix string) (entity.MathProblem, error) {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.Problem.ID
	}
	id, err := resolveID("notebook problem", ids, prefix)
	if err != nil {
		return entity.MathProblem{}, err
	}
	for _, r := range recs {
		if r.Problem.ID == id {
			return r.Problem, nil
		}
	}
	return entity.MathProblem{}, state.ErrNotFound
}

func printProblem(w io.Writer, p entity.MathProblem) {
	fmt.Fprintf(w, "  %s\n", p.Question)
	for i, o := range p.Options {
		fmt.Fprintf(w, "    %s) %s\n", problemgen.OptionLabel(i), o)
	}
}
