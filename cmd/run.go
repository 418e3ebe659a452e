package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/app"
	"github.com/abhisek/mathquest/internal/llm"
	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/screen"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	deps := screen.Deps{State: e.state, Log: e.log}

	if e.cfg.LLM.HasKey() {
		provider, err := llm.NewProvider(cmd.Context(), e.cfg.LLM, e.log)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "LLM provider not configured:", err)
			fmt.Fprintln(cmd.ErrOrStderr(), "Practice will be unavailable.")
		} else {
			gen := problemgen.New(provider, problemgen.DefaultConfig(), problemgen.WithLogger(e.log))
			deps.Generator = gen
			deps.Explainer = gen
		}
	} else {
		e.log.Info("no LLM API key configured; practice disabled")
	}

	return app.Run(cmd.Context(), app.Options{Deps: deps, Store: e.store})
}
