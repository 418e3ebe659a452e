package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/config"
	"github.com/abhisek/mathquest/internal/logging"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mathquest",
	Short: "SM025 math practice in the terminal",
	Long: "MathQuest is a terminal practice arena for SM025 pre-university mathematics.\n" +
		"Answer LLM-written questions, earn points and badges, and track your mastery.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/mathquest/config.yaml)")
	pf.String("backend", "", "Store backend: sqlite, redis or memory")
	pf.String("db", "", "Path to SQLite database file (overrides MATHQUEST_DB env var)")
	pf.String("redis-addr", "", "Redis address; selects the redis backend")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(badgesCmd)
	rootCmd.AddCommand(rewardsCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(notebookCmd)
	rootCmd.AddCommand(discussCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the configuration with the global flags applied.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{Path: path})
	if err != nil {
		return config.Config{}, err
	}
	var o config.Overrides
	o.Backend, _ = cmd.Flags().GetString("backend")
	o.DBPath, _ = cmd.Flags().GetString("db")
	o.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
	cfg.Apply(o)
	return cfg, nil
}

// env is everything a command needs to read or change state.
type env struct {
	cfg   config.Config
	log   *logging.Logger
	store store.Store
	state *state.Controller
}

// openEnv loads config, builds the logger, opens the store and loads the
// working set. When toFile is set and no log file is configured, logs go
// next to the default database so they do not draw over the TUI.
func openEnv(cmd *cobra.Command, toFile bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if toFile && cfg.Log.File == "" {
		if p, err := store.DefaultDBPath(); err == nil {
			cfg.Log.File = filepath.Join(filepath.Dir(p), "mathquest.log")
		}
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	ctx := cmd.Context()
	st, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	c, err := state.New(ctx, st, state.WithLogger(log))
	if err != nil {
		st.Close()
		log.Sync()
		return nil, fmt.Errorf("load state: %w", err)
	}
	return &env{cfg: cfg, log: log, store: st, state: c}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("close store", "error", err)
	}
	e.log.Sync()
}

// withEnv adapts a function that needs an env to a cobra RunE.
func withEnv(fn func(cmd *cobra.Command, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(cmd, e, args)
	}
}
