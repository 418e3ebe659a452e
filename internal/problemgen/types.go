package problemgen

import (
	"context"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/llm"
)

// Generator produces SM025 multiple-choice problems.
type Generator interface {
	// Generate produces a single validated problem for topic at the given
	// difficulty. The returned problem has a fresh ID and carries the
	// requested topic and difficulty.
	Generate(ctx context.Context, topic string, difficulty entity.Difficulty) (entity.MathProblem, error)
}

// Explainer produces a detailed worked solution for a problem.
type Explainer interface {
	Explain(ctx context.Context, p entity.MathProblem) (string, error)
}

var (
	// ErrRateLimited means the provider kept rate limiting after all
	// retries. The caller should ask the student to try again later.
	ErrRateLimited = llm.ErrRateLimited

	// ErrGenerationFailed covers every other generation failure, including
	// responses that fail validation.
	ErrGenerationFailed = llm.ErrGenerationFailed
)

// GenerateInput holds the context sent to the model for one problem.
type GenerateInput struct {
	Topic      string
	Difficulty entity.Difficulty

	// PriorQuestions are recent question texts for the same topic, oldest
	// first. Used for deduplication in the prompt.
	PriorQuestions []string

	// Variation is a random tag that nudges the model away from repeating
	// itself across identical prompts.
	Variation string
}
