package problemgen

import "time"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated problem; the first
	// failure stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for a problem response.
	MaxTokens int

	// Temperature controls output randomness for problems (0.0-1.0).
	Temperature float64

	// ExplainMaxTokens and ExplainTemperature apply to Explain. Worked
	// solutions are longer and should vary less.
	ExplainMaxTokens   int
	ExplainTemperature float64

	// MaxPriorQuestions is the number of recent questions per topic kept
	// for the deduplication prompt.
	MaxPriorQuestions int

	// Timeout bounds one Generate or Explain call, retries included.
	// Zero means no limit beyond the caller's context.
	Timeout time.Duration
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&LatexValidator{},
		},
		MaxTokens:          1024,
		Temperature:        0.7,
		ExplainMaxTokens:   2048,
		ExplainTemperature: 0.3,
		MaxPriorQuestions:  8,
		Timeout:            30 * time.Second,
	}
}
