package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathquest/internal/entity"
)

const systemPrompt = `You are an expert KMM Mathematics Lecturer writing practice questions for SM025 (Matriculation Mathematics, semester 2).

Rules:
- Generate a single UNIQUE exam-style multiple-choice question for the given topic and difficulty.
- The response MUST be pure JSON matching the schema.
- Use LaTeX for all math: \( ... \) inline and \[ ... \] for display. Vectors use \mathbf{i}, \mathbf{j}, \mathbf{k}.
- Provide exactly 4 options where exactly one is correct. Distractors should reflect common mistakes, not random values.
- correctIndex is the zero-based position of the correct option.
- tips is a short hint about the method. It must not reveal the answer.
- workingSteps shows the key steps of the solution.
- explanation says why the correct option is right.
- Do not repeat any question from the "already asked" list.`

const explainSystemPrompt = `You are a Senior Mathematics Tutor at Kolej Matrikulasi Melaka.
Explain the solution so clearly that a student can see exactly where they might have gone wrong.
Use formal KMM notation and LaTeX \( \) and \[ \].`

// difficultyGuide describes each band for the model.
var difficultyGuide = map[entity.Difficulty]string{
	entity.DifficultyBasic:        "single concept, direct application of one formula",
	entity.DifficultyIntermediate: "two connected steps, typical structured exam part",
	entity.DifficultyAdvanced:     "multi-step problem combining ideas, final-exam standard",
}

// buildUserMessage constructs the user message for one problem.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", input.Topic)
	fmt.Fprintf(&b, "Difficulty: %s (%s)\n", input.Difficulty.Label(), difficultyGuide[input.Difficulty])
	if input.Variation != "" {
		fmt.Fprintf(&b, "Ref: %s\n", input.Variation)
	}

	b.WriteString("\nAlready asked in this session:\n")
	b.WriteString(buildDedup(input.PriorQuestions, cfg.MaxPriorQuestions))

	return b.String()
}

// buildExplainMessage asks for a derivation of p's correct option.
func buildExplainMessage(p entity.MathProblem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Provide a detailed, step-by-step derivation for this SM025 question:\n%s\n\n", p.Question)
	fmt.Fprintf(&b, "The correct answer is: %s\n", p.CorrectOption())
	if p.WorkingSteps != "" {
		fmt.Fprintf(&b, "\nA short outline of the working:\n%s\n", p.WorkingSteps)
	}
	b.WriteString("\nShow every step clearly. Focus on clarity and academic precision.")
	return b.String()
}
