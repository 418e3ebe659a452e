package problemgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/llm"
	"github.com/abhisek/mathquest/internal/logging"
)

// LLMGenerator implements Generator and Explainer using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      *logging.Logger
	history  *history

	explainGroup singleflight.Group
	mu           sync.Mutex
	explained    map[string]string
}

// Option configures an LLMGenerator.
type Option func(*LLMGenerator)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(g *LLMGenerator) { g.log = logging.OrNop(l) }
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, opts ...Option) *LLMGenerator {
	g := &LLMGenerator{
		provider:  provider,
		config:    cfg,
		log:       logging.Nop(),
		history:   newHistory(cfg.MaxPriorQuestions),
		explained: make(map[string]string),
	}
	for _, o := range opts {
		o(g)
	}
	g.log = g.log.With("component", "problemgen")
	return g
}

// problemOutput is the raw LLM response before validation.
type problemOutput struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Tips         string   `json:"tips"`
	WorkingSteps string   `json:"workingSteps"`
	Explanation  string   `json:"explanation"`
}

// Generate produces a single problem for topic at difficulty.
func (g *LLMGenerator) Generate(ctx context.Context, topic string, difficulty entity.Difficulty) (entity.MathProblem, error) {
	if !entity.IsTopic(topic) {
		return entity.MathProblem{}, fmt.Errorf("%w: unknown topic %q", ErrGenerationFailed, topic)
	}
	if !difficulty.Valid() {
		return entity.MathProblem{}, fmt.Errorf("%w: invalid difficulty %d", ErrGenerationFailed, difficulty)
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	input := GenerateInput{
		Topic:          topic,
		Difficulty:     difficulty,
		PriorQuestions: g.history.recent(topic),
		Variation:      uuid.NewString()[:8],
	}

	req := llm.Request{
		Purpose:     llm.PurposeQuestion,
		System:      systemPrompt,
		Prompt:      buildUserMessage(input, g.config),
		Schema:      ProblemSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return entity.MathProblem{}, llm.Classify(ctx, err)
	}

	var raw problemOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return entity.MathProblem{}, fmt.Errorf("%w: parse response: %w", ErrGenerationFailed, err)
	}

	p := entity.MathProblem{
		ID:           uuid.NewString(),
		Question:     strings.TrimSpace(raw.Question),
		Options:      raw.Options,
		CorrectIndex: raw.CorrectIndex,
		Explanation:  strings.TrimSpace(raw.Explanation),
		Tips:         strings.TrimSpace(raw.Tips),
		WorkingSteps: strings.TrimSpace(raw.WorkingSteps),
		Topic:        topic,
		Difficulty:   difficulty,
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(&p, input); verr != nil {
			g.log.Warn("generated problem rejected", "topic", topic, "validator", verr.Validator, "reason", verr.Message)
			return entity.MathProblem{}, fmt.Errorf("%w: %w", ErrGenerationFailed, verr)
		}
	}

	g.history.add(topic, p.Question)
	return p, nil
}

func (g *LLMGenerator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.config.Timeout > 0 {
		return context.WithTimeout(ctx, g.config.Timeout)
	}
	return context.WithCancel(ctx)
}
