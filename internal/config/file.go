package config

import (
	"fmt"
	"time"

	"github.com/abhisek/mathquest/internal/llm"
)

// fileConfig is the YAML layout. Durations are Go duration strings.
//
//	store:
//	  backend: redis
//	  redis: {addr: "localhost:6379", db: 2}
//	llm:
//	  provider: gemini
//	  gemini: {api_key: "...", model: gemini-flash}
//	  rate_limit: {per_minute: 20}
//	log:
//	  level: debug
type fileConfig struct {
	Store fileStore `yaml:"store"`
	LLM   fileLLM   `yaml:"llm"`
	Log   fileLog   `yaml:"log"`
}

type fileStore struct {
	Backend      string    `yaml:"backend"`
	Path         string    `yaml:"path"`
	PollInterval string    `yaml:"poll_interval"`
	Redis        fileRedis `yaml:"redis"`
}

type fileRedis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type fileProvider struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
}

type fileLLM struct {
	Provider   string       `yaml:"provider"`
	Timeout    string       `yaml:"timeout"`
	Anthropic  fileProvider `yaml:"anthropic"`
	OpenAI     fileProvider `yaml:"openai"`
	Gemini     fileProvider `yaml:"gemini"`
	OpenRouter fileProvider `yaml:"openrouter"`
	Retry      struct {
		MaxAttempts int     `yaml:"max_attempts"`
		InitialWait string  `yaml:"initial_wait"`
		MaxWait     string  `yaml:"max_wait"`
		Multiplier  float64 `yaml:"multiplier"`
		Jitter      float64 `yaml:"jitter"`
	} `yaml:"retry"`
	RateLimit struct {
		PerMinute float64 `yaml:"per_minute"`
		Burst     int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

type fileLog struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// fileFrom renders c in file layout so a partial YAML document only
// replaces the fields it names.
func fileFrom(c Config) fileConfig {
	var f fileConfig

	f.Store = fileStore{
		Backend:      c.Store.Backend,
		Path:         c.Store.Path,
		PollInterval: c.Store.PollInterval.String(),
		Redis: fileRedis{
			Addr:     c.Store.RedisAddr,
			Password: c.Store.RedisPassword,
			DB:       c.Store.RedisDB,
			Prefix:   c.Store.RedisPrefix,
		},
	}

	l := c.LLM
	f.LLM.Provider = l.Provider
	f.LLM.Timeout = l.Timeout.String()
	f.LLM.Anthropic = fileProvider(l.Anthropic)
	f.LLM.OpenAI = fileProvider(l.OpenAI)
	f.LLM.Gemini = fileProvider(l.Gemini)
	f.LLM.OpenRouter = fileProvider(l.OpenRouter)
	f.LLM.Retry.MaxAttempts = l.Retry.MaxAttempts
	f.LLM.Retry.InitialWait = l.Retry.InitialWait.String()
	f.LLM.Retry.MaxWait = l.Retry.MaxWait.String()
	f.LLM.Retry.Multiplier = l.Retry.Multiplier
	f.LLM.Retry.Jitter = l.Retry.Jitter
	f.LLM.RateLimit.PerMinute = l.RateLimit.PerMinute
	f.LLM.RateLimit.Burst = l.RateLimit.Burst

	f.Log = fileLog{Mode: c.Log.Mode, Level: c.Log.Level, File: c.Log.File}
	return f
}

func (f fileConfig) applyTo(c *Config) error {
	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"store.poll_interval", f.Store.PollInterval, &c.Store.PollInterval},
		{"llm.timeout", f.LLM.Timeout, &c.LLM.Timeout},
		{"llm.retry.initial_wait", f.LLM.Retry.InitialWait, &c.LLM.Retry.InitialWait},
		{"llm.retry.max_wait", f.LLM.Retry.MaxWait, &c.LLM.Retry.MaxWait},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %q is not a valid duration", d.name, d.raw)
		}
		*d.dst = v
	}

	c.Store.Backend = f.Store.Backend
	c.Store.Path = f.Store.Path
	c.Store.RedisAddr = f.Store.Redis.Addr
	c.Store.RedisPassword = f.Store.Redis.Password
	c.Store.RedisDB = f.Store.Redis.DB
	c.Store.RedisPrefix = f.Store.Redis.Prefix

	l := &c.LLM
	l.Provider = f.LLM.Provider
	l.Anthropic = llm.ProviderConfig(f.LLM.Anthropic)
	l.OpenAI = llm.ProviderConfig(f.LLM.OpenAI)
	l.Gemini = llm.ProviderConfig(f.LLM.Gemini)
	l.OpenRouter = llm.ProviderConfig(f.LLM.OpenRouter)
	l.Retry.MaxAttempts = f.LLM.Retry.MaxAttempts
	l.Retry.Multiplier = f.LLM.Retry.Multiplier
	l.Retry.Jitter = f.LLM.Retry.Jitter
	l.RateLimit.PerMinute = f.LLM.RateLimit.PerMinute
	l.RateLimit.Burst = f.LLM.RateLimit.Burst

	c.Log.Mode, c.Log.Level, c.Log.File = f.Log.Mode, f.Log.Level, f.Log.File
	return nil
}
