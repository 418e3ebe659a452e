package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquest/internal/store"
)

// isolate points every lookup at an empty temp dir and clears the
// variables Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{
		"MATHQUEST_STORE", "MATHQUEST_DB", "MATHQUEST_REDIS_ADDR", "MATHQUEST_REDIS_DB",
		"MATHQUEST_LOG_LEVEL", "MATHQUEST_LLM_PROVIDER", "MATHQUEST_GEMINI_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "none.env")})
	require.NoError(t, err)
	assert.Equal(t, store.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 800*time.Millisecond, cfg.LLM.Retry.InitialWait)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Source)
}

func TestLoadYAMLOverlaysDefaults(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "mathquest", "config.yaml")
	writeFile(t, path, `
store:
  backend: redis
  redis:
    addr: "localhost:6390"
    db: 3
llm:
  provider: gemini
  gemini:
    api_key: g-key
  retry:
    initial_wait: 250ms
log:
  level: debug
`)

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "none.env")})
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, store.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "localhost:6390", cfg.Store.RedisAddr)
	assert.Equal(t, 3, cfg.Store.RedisDB)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, "gemini-flash", cfg.LLM.Gemini.Model, "unnamed fields keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.LLM.Retry.InitialWait)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := isolate(t)
	env := filepath.Join(dir, "none.env")

	unknown := filepath.Join(dir, "unknown.yaml")
	writeFile(t, unknown, "store:\n  backnd: redis\n")
	_, err := Load(LoadOptions{Path: unknown, EnvFile: env})
	assert.Error(t, err)

	badDuration := filepath.Join(dir, "duration.yaml")
	writeFile(t, badDuration, "llm:\n  timeout: soon\n")
	_, err = Load(LoadOptions{Path: badDuration, EnvFile: env})
	assert.ErrorContains(t, err, "llm.timeout")

	_, err = Load(LoadOptions{Path: filepath.Join(dir, "missing.yaml"), EnvFile: env})
	assert.Error(t, err, "an explicit path must exist")
}

func TestLoadEnvBeatsYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg.yaml")
	writeFile(t, path, "store:\n  backend: memory\nlog:\n  level: warn\n")
	t.Setenv("MATHQUEST_STORE", "sqlite")
	t.Setenv("MATHQUEST_DB", "/tmp/x.db")
	t.Setenv("MATHQUEST_LOG_LEVEL", "error")

	cfg, err := Load(LoadOptions{Path: path, EnvFile: filepath.Join(dir, "none.env")})
	require.NoError(t, err)
	assert.Equal(t, store.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/x.db", cfg.Store.Path)
	assert.Equal(t, "error", cfg.Log.Level)

	t.Setenv("MATHQUEST_REDIS_DB", "two")
	_, err = Load(LoadOptions{Path: path, EnvFile: filepath.Join(dir, "none.env")})
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, "test.env")
	writeFile(t, envFile, "MATHQUEST_TEST_ONLY_PROVIDER_KEY=from-dotenv\nMATHQUEST_OPENROUTER_API_KEY=or-key\nMATHQUEST_LLM_PROVIDER=openrouter\n")
	for _, k := range []string{"MATHQUEST_TEST_ONLY_PROVIDER_KEY", "MATHQUEST_OPENROUTER_API_KEY", "MATHQUEST_LLM_PROVIDER"} {
		require.NoError(t, os.Unsetenv(k))
		t.Cleanup(func() { os.Unsetenv(k) })
	}

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", os.Getenv("MATHQUEST_TEST_ONLY_PROVIDER_KEY"))
	assert.Equal(t, "openrouter", cfg.LLM.Provider)
	assert.Equal(t, "or-key", cfg.LLM.OpenRouter.APIKey)
}

func TestLoadDiscoversProviderKey(t *testing.T) {
	dir := isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-std")

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "none.env")})
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-std", cfg.LLM.OpenAI.APIKey)
	assert.True(t, cfg.LLM.HasKey())
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	cfg.Apply(Overrides{DBPath: "/data/q.db"})
	assert.Equal(t, store.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/data/q.db", cfg.Store.Path)

	cfg.Apply(Overrides{RedisAddr: "cache:6379"})
	assert.Equal(t, store.BackendRedis, cfg.Store.Backend, "a redis address implies the redis backend")

	cfg.Apply(Overrides{Backend: "memory", RedisAddr: "cache:6380"})
	assert.Equal(t, store.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "cache:6380", cfg.Store.RedisAddr)
}
