package problemgen

import "github.com/abhisek/mathquest/internal/llm"

// ProblemSchema defines the JSON schema for generated problems.
var ProblemSchema = &llm.Schema{
	Name:        "sm025-problem",
	Description: "A single SM025 multiple-choice question with worked solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The exam-style question, LaTeX inline \\( \\) and display \\[ \\]",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    4,
				"maxItems":    4,
				"description": "Exactly 4 answer options, one of them correct",
			},
			"correctIndex": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     3,
				"description": "Zero-based index of the correct option",
			},
			"tips": map[string]any{
				"type":        "string",
				"description": "A short hint pointing at the method, without giving the answer",
			},
			"workingSteps": map[string]any{
				"type":        "string",
				"description": "The key working steps leading to the answer",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the correct option is right",
			},
		},
		"required":             []any{"question", "options", "correctIndex", "tips", "workingSteps", "explanation"},
		"additionalProperties": false,
	},
}
