package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost(t *testing.T) {
	u := Usage{InputTokens: 1_000_000, OutputTokens: 100_000}
	tests := []struct {
		model string
		want  float64
		ok    bool
	}{
		{"claude-haiku-4-5-20251001", 1 + 0.5, true},
		{"gpt-4o-mini-2024-07-18", 0.15 + 0.06, true},
		{"gpt-4o", 2.5 + 1, true},
		{"google/gemini-2.0-flash-001", 0.1 + 0.04, true},
		{"gemini-2.5-flash", 0.3 + 0.25, true},
		{"o3-mini", 0, false},
		{"sample", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, ok := EstimateCost(tt.model, u)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDefaultModelsArePriced(t *testing.T) {
	cfg := DefaultConfig()
	for _, id := range []string{
		resolveModel(cfg.Anthropic.Model, anthropicModels),
		cfg.OpenAI.Model,
		resolveModel(cfg.Gemini.Model, geminiModels),
		cfg.OpenRouter.Model,
	} {
		_, ok := EstimateCost(id, Usage{})
		assert.True(t, ok, id)
	}
}
