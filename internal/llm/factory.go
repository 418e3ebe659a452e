package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/mathquest/internal/logging"
)

// NewProvider builds the configured provider wrapped as
// retry → rate limit → logging → provider.
func NewProvider(ctx context.Context, cfg Config, log *logging.Logger) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewSampleProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, log)
	p = WithRateLimit(p, cfg.RateLimit)
	return WithRetry(p, cfg.Retry), nil
}
