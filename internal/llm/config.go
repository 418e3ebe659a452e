package llm

import (
	"os"
	"strconv"
	"time"
)

// Config selects and configures the question provider.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter" or
	// "mock". The mock provider serves stored questions and needs no key.
	Provider string

	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	Gemini     ProviderConfig
	OpenRouter ProviderConfig

	Retry     RetryConfig
	RateLimit RateLimitConfig

	// Timeout bounds a single request including retries.
	Timeout time.Duration
}

// ProviderConfig is the account and model for one provider. Model accepts a
// short name such as "claude-haiku" or a full model ID.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 800 * time.Millisecond,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		RateLimit: RateLimitConfig{PerMinute: 30, Burst: 2},
		Timeout:   30 * time.Second,
	}
}

// provider returns the settings for name, or nil for an unknown name.
func (c *Config) provider(name string) *ProviderConfig {
	switch name {
	case "anthropic":
		return &c.Anthropic
	case "openai":
		return &c.OpenAI
	case "gemini":
		return &c.Gemini
	case "openrouter":
		return &c.OpenRouter
	}
	return nil
}

// providerEnv is the MATHQUEST_<NAME>_* prefix of each provider, in the
// order DiscoverConfig tries their standard key variables.
var providerEnv = []struct {
	name, prefix, stdKey string
}{
	{"gemini", "MATHQUEST_GEMINI_", "GEMINI_API_KEY"},
	{"openai", "MATHQUEST_OPENAI_", "OPENAI_API_KEY"},
	{"anthropic", "MATHQUEST_ANTHROPIC_", "ANTHROPIC_API_KEY"},
	{"openrouter", "MATHQUEST_OPENROUTER_", "OPENROUTER_API_KEY"},
}

// ApplyEnv overrides cfg with the MATHQUEST_* LLM variables that are set.
// Unparseable numbers and durations are ignored.
func ApplyEnv(cfg *Config) {
	setString(&cfg.Provider, "MATHQUEST_LLM_PROVIDER")
	for _, e := range providerEnv {
		p := cfg.provider(e.name)
		setString(&p.APIKey, e.prefix+"API_KEY")
		setString(&p.Model, e.prefix+"MODEL")
		setString(&p.BaseURL, e.prefix+"BASE_URL")
	}
	if v := os.Getenv("MATHQUEST_LLM_RATE_PER_MINUTE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit.PerMinute = f
		}
	}
	if v := os.Getenv("MATHQUEST_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// HasKey reports whether the selected provider can be used.
func (c Config) HasKey() bool {
	if c.Provider == "mock" {
		return true
	}
	p := c.provider(c.Provider)
	return p != nil && p.APIKey != ""
}

// DiscoverConfig looks for a standard provider key variable such as
// GEMINI_API_KEY and returns defaults selecting the first one found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, e := range providerEnv {
		if k := os.Getenv(e.stdKey); k != "" {
			cfg.Provider = e.name
			cfg.provider(e.name).APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}
