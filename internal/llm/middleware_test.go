package llm

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/mathquest/internal/logging"
)

func TestRateLimit_DisabledReturnsInner(t *testing.T) {
	mock := NewMockProvider()
	if p := WithRateLimit(mock, RateLimitConfig{}); p != Provider(mock) {
		t.Fatalf("expected inner provider, got %T", p)
	}
}

func TestRateLimit_WaitHonoursContext(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	// One request per hour, burst of one: the second call must block.
	p := WithRateLimit(mock, RateLimitConfig{PerMinute: 1.0 / 60, Burst: 1})

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected limiter error")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func observed() (*logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logging.FromZap(zap.New(core)), logs
}

func TestLogging_RecordsUsage(t *testing.T) {
	log, logs := observed()
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{}`),
		Usage:   Usage{InputTokens: 120, OutputTokens: 40},
	})
	p := WithLogging(mock, log)

	if _, err := p.Generate(context.Background(), Request{Purpose: PurposeQuestion, Schema: &Schema{Name: "sm025-problem"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("llm request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["purpose"] != "question" {
		t.Errorf("purpose = %v", fields["purpose"])
	}
	if fields["input_tokens"] != int64(120) || fields["output_tokens"] != int64(40) {
		t.Errorf("tokens = %v/%v", fields["input_tokens"], fields["output_tokens"])
	}
	if fields["schema"] != "sm025-problem" {
		t.Errorf("schema = %v", fields["schema"])
	}
}

func TestLogging_RecordsCost(t *testing.T) {
	log, logs := observed()
	inner := &modelProvider{model: "gpt-4o-mini-2024-07-18", usage: Usage{InputTokens: 2_000, OutputTokens: 1_000}}
	p := WithLogging(inner, log)

	_, err := p.Generate(context.Background(), Request{Purpose: PurposeExplain})
	require.NoError(t, err)

	fields := logs.FilterMessage("llm request").All()[0].ContextMap()
	assert.Equal(t, "explain", fields["purpose"])
	assert.Equal(t, "gpt-4o-mini-2024-07-18", fields["model"])
	assert.InDelta(t, 0.0009, fields["cost_usd"], 1e-12)

	// Unpriced models log no cost.
	log, logs = observed()
	_, err = WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`x`)}), log).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.NotContains(t, logs.All()[0].ContextMap(), "cost_usd")
}

// modelProvider answers every request as model.
type modelProvider struct {
	model string
	usage Usage
}

func (m *modelProvider) Generate(context.Context, Request) (*Response, error) {
	return &Response{Content: json.RawMessage(`ok`), Usage: m.usage, Model: m.model, Stop: StopEnd}, nil
}

func (m *modelProvider) ModelID() string { return "gpt-4o-mini" }

func TestLogging_RecordsFailure(t *testing.T) {
	log, logs := observed()
	mock := NewMockProvider(MockResponse{Err: &Error{Kind: KindRateLimited, Status: 429}})
	p := WithLogging(mock, log)

	_, err := p.Generate(context.Background(), Request{})
	if !IsRateLimit(err) {
		t.Fatalf("expected rate limit, got %v", err)
	}
	entries := logs.FilterMessage("llm request failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["rate_limited"] != true {
		t.Errorf("rate_limited = %v", entries[0].ContextMap()["rate_limited"])
	}
}

func TestNewProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	p, err := NewProvider(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "sample", p.ModelID())

	// The mock provider serves stored questions through the full stack.
	resp, err := p.Generate(context.Background(), Request{Purpose: PurposeQuestion, Prompt: "Topic: Vector"})
	require.NoError(t, err)
	assert.Contains(t, resp.Text(), `"correctIndex"`)

	cfg.Provider = "openrouter"
	cfg.OpenRouter.APIKey = "sk-or-test"
	p, err = NewProvider(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg.OpenRouter.Model, p.ModelID())

	cfg.Provider = "anthropic"
	_, err = NewProvider(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "initializing anthropic provider")

	cfg.Provider = "carrier-pigeon"
	_, err = NewProvider(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MATHQUEST_LLM_PROVIDER", "openai")
	t.Setenv("MATHQUEST_OPENAI_API_KEY", "sk-test")
	t.Setenv("MATHQUEST_GEMINI_BASE_URL", "http://localhost:9000")
	t.Setenv("MATHQUEST_ANTHROPIC_MODEL", "claude-sonnet")
	t.Setenv("MATHQUEST_LLM_RATE_PER_MINUTE", "12")
	t.Setenv("MATHQUEST_LLM_TIMEOUT", "5s")

	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "http://localhost:9000", cfg.Gemini.BaseURL)
	assert.Equal(t, "claude-sonnet", cfg.Anthropic.Model)
	assert.Equal(t, 12.0, cfg.RateLimit.PerMinute)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 800*time.Millisecond, cfg.Retry.InitialWait)
	assert.True(t, cfg.HasKey())

	t.Setenv("MATHQUEST_LLM_TIMEOUT", "soon")
	cfg = DefaultConfig()
	ApplyEnv(&cfg)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestHasKey(t *testing.T) {
	tests := []struct {
		provider string
		key      bool
		want     bool
	}{
		{"anthropic", false, false},
		{"anthropic", true, true},
		{"gemini", true, true},
		{"mock", false, true},
		{"carrier-pigeon", true, false},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Provider = tt.provider
		if tt.key {
			cfg.Anthropic.APIKey, cfg.Gemini.APIKey = "k", "k"
		}
		assert.Equal(t, tt.want, cfg.HasKey(), "%s key=%v", tt.provider, tt.key)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("OPENROUTER_API_KEY", "or")
	t.Setenv("ANTHROPIC_API_KEY", "ant")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "ant", cfg.Anthropic.APIKey)
	assert.Empty(t, cfg.OpenRouter.APIKey)
}
