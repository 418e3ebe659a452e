package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/store"
	"github.com/abhisek/mathquest/internal/storesync"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes made by other mathquest processes until interrupted",
	RunE: withEnv(func(cmd *cobra.Command, e *env, args []string) error {
		w := cmd.OutOrStdout()
		l := storesync.New(e.store, e.state, e.log)
		l.OnApplied(func(c store.Change) {
			switch {
			case c.Resync():
				fmt.Fprintln(w, "resynced all keys")
				return
			case c.Cleared():
				fmt.Fprintln(w, "store cleared")
				return
			}
			fmt.Fprintf(w, "%s changed (points %d)\n", c.Key, e.state.Points())
		})
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s store. Press Ctrl+C to stop.\n", e.cfg.Store.Backend)
		return l.Run(cmd.Context())
	}),
}
