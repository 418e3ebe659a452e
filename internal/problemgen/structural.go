package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathquest/internal/entity"
)

const (
	optionCount       = 4
	maxQuestionLen    = 1500
	maxExplanationLen = 4000
)

// StructuralValidator checks that required fields are present, within
// length limits, and that the options form a usable multiple choice.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *entity.MathProblem, _ GenerateInput) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}

	switch {
	case strings.TrimSpace(p.Question) == "":
		return fail("question is empty")
	case len(p.Question) > maxQuestionLen:
		return fail("question exceeds %d characters", maxQuestionLen)
	case strings.TrimSpace(p.Explanation) == "":
		return fail("explanation is empty")
	case len(p.Explanation) > maxExplanationLen:
		return fail("explanation exceeds %d characters", maxExplanationLen)
	case len(p.Options) != optionCount:
		return fail("expected %d options, got %d", optionCount, len(p.Options))
	case p.CorrectIndex < 0 || p.CorrectIndex >= optionCount:
		return fail("correctIndex %d out of range", p.CorrectIndex)
	}

	seen := make(map[string]int, optionCount)
	for i, o := range p.Options {
		key := normalizeOption(o)
		if key == "" {
			return fail("option %d is empty", i+1)
		}
		if j, dup := seen[key]; dup {
			return fail("options %d and %d are the same", j+1, i+1)
		}
		seen[key] = i
	}
	return nil
}

// normalizeOption folds case and whitespace so "\( 2x \)" and "\(2x\)"
// compare equal.
func normalizeOption(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
