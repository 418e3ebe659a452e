// Package config assembles runtime configuration from, in increasing
// priority: built-in defaults, a YAML file, a .env file, MATHQUEST_*
// environment variables, and command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/mathquest/internal/llm"
	"github.com/abhisek/mathquest/internal/logging"
	"github.com/abhisek/mathquest/internal/store"
)

// Config is the resolved configuration.
type Config struct {
	Store store.Config
	LLM   llm.Config
	Log   logging.Options

	// Source is the YAML file that was read, if any.
	Source string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: store.Config{
			Backend:      store.BackendSQLite,
			PollInterval: time.Second,
		},
		LLM: llm.DefaultConfig(),
		Log: logging.Options{Mode: "dev", Level: "info"},
	}
}

// LoadOptions controls Load.
type LoadOptions struct {
	// Path is an explicit YAML file. It must exist. When empty the default
	// location is tried and skipped if absent.
	Path string

	// EnvFile is the dotenv file to read. Default: ".env". A missing file
	// is not an error. Variables already set in the environment win.
	EnvFile string
}

// Overrides are the values set by command-line flags. Empty fields are
// left alone.
type Overrides struct {
	Backend   string
	DBPath    string
	RedisAddr string
}

// Load resolves the configuration.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	path, required := opts.Path, true
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path, required = p, false
	}
	if err := cfg.readFile(path, required); err != nil {
		return Config{}, err
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/mathquest/config.yaml, falling back
// to ~/.config/mathquest/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not find the user's home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mathquest", "config.yaml"), nil
}

// Apply layers flag values over c.
func (c *Config) Apply(o Overrides) {
	if o.Backend != "" {
		c.Store.Backend = o.Backend
	}
	if o.DBPath != "" {
		c.Store.Path = o.DBPath
	}
	if o.RedisAddr != "" {
		c.Store.RedisAddr = o.RedisAddr
		if o.Backend == "" {
			c.Store.Backend = store.BackendRedis
		}
	}
}

func (c *Config) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read the config file: %w", err)
	}

	f := fileFrom(*c)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := f.applyTo(c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	c.Source = path
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("MATHQUEST_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("MATHQUEST_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("MATHQUEST_REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
	if v := os.Getenv("MATHQUEST_REDIS_PASSWORD"); v != "" {
		c.Store.RedisPassword = v
	}
	if v := os.Getenv("MATHQUEST_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MATHQUEST_REDIS_DB=%q is not a number", v)
		}
		c.Store.RedisDB = n
	}
	if v := os.Getenv("MATHQUEST_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MATHQUEST_LOG_MODE"); v != "" {
		c.Log.Mode = v
	}
	if v := os.Getenv("MATHQUEST_LOG_FILE"); v != "" {
		c.Log.File = v
	}

	llm.ApplyEnv(&c.LLM)

	// Fall back to a standard provider key when the configured provider
	// has none.
	if !c.LLM.HasKey() {
		if d, ok := llm.DiscoverConfig(); ok {
			c.LLM.Provider = d.Provider
			c.LLM.Anthropic.APIKey = firstNonEmpty(c.LLM.Anthropic.APIKey, d.Anthropic.APIKey)
			c.LLM.OpenAI.APIKey = firstNonEmpty(c.LLM.OpenAI.APIKey, d.OpenAI.APIKey)
			c.LLM.Gemini.APIKey = firstNonEmpty(c.LLM.Gemini.APIKey, d.Gemini.APIKey)
			c.LLM.OpenRouter.APIKey = firstNonEmpty(c.LLM.OpenRouter.APIKey, d.OpenRouter.APIKey)
		}
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
