package problemgen

import (
	"context"
	"fmt"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/llm"
)

// maxExplained bounds the explanation cache.
const maxExplained = 64

// Explain returns a step-by-step solution for p. Concurrent calls for the
// same problem share one request, and finished explanations are cached by
// problem ID.
func (g *LLMGenerator) Explain(ctx context.Context, p entity.MathProblem) (string, error) {
	if p.ID == "" {
		return "", fmt.Errorf("%w: problem has no id", ErrGenerationFailed)
	}

	g.mu.Lock()
	cached, ok := g.explained[p.ID]
	g.mu.Unlock()
	if ok {
		return cached, nil
	}

	ch := g.explainGroup.DoChan(p.ID, func() (any, error) {
		// Detached from any one caller so a cancelled waiter does not
		// fail the others sharing this call.
		ctx, cancel := g.withTimeout(context.WithoutCancel(ctx))
		defer cancel()

		resp, err := g.provider.Generate(ctx, llm.Request{
			Purpose:     llm.PurposeExplain,
			System:      explainSystemPrompt,
			Prompt:      buildExplainMessage(p),
			MaxTokens:   g.config.ExplainMaxTokens,
			Temperature: g.config.ExplainTemperature,
		})
		if err != nil {
			return "", llm.Classify(ctx, err)
		}
		text := resp.Text()
		if text == "" {
			return "", fmt.Errorf("%w: empty explanation", ErrGenerationFailed)
		}

		g.mu.Lock()
		if len(g.explained) >= maxExplained {
			clear(g.explained)
		}
		g.explained[p.ID] = text
		g.mu.Unlock()
		return text, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}
