package problemgen

import (
	"strings"
	"testing"

	"github.com/abhisek/mathquest/internal/entity"
)

func validProblem() *entity.MathProblem {
	return &entity.MathProblem{
		ID:           "p1",
		Question:     `Find \(|\mathbf{i} + \mathbf{j}|\).`,
		Options:      []string{"1", `\(\sqrt{2}\)`, "2", "0"},
		CorrectIndex: 1,
		Explanation:  `\(\sqrt{1^2+1^2} = \sqrt{2}\)`,
		Topic:        "Vector",
		Difficulty:   entity.DifficultyBasic,
	}
}

func TestStructural(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *entity.MathProblem)
		wantErr string
	}{
		{"valid", func(*entity.MathProblem) {}, ""},
		{"empty question", func(p *entity.MathProblem) { p.Question = "  " }, "question is empty"},
		{"long question", func(p *entity.MathProblem) { p.Question = strings.Repeat("a", maxQuestionLen+1) }, "question exceeds"},
		{"empty explanation", func(p *entity.MathProblem) { p.Explanation = "" }, "explanation is empty"},
		{"three options", func(p *entity.MathProblem) { p.Options = p.Options[:3] }, "expected 4 options"},
		{"index too high", func(p *entity.MathProblem) { p.CorrectIndex = 4 }, "out of range"},
		{"negative index", func(p *entity.MathProblem) { p.CorrectIndex = -1 }, "out of range"},
		{"blank option", func(p *entity.MathProblem) { p.Options[2] = " " }, "option 3 is empty"},
		{"duplicate options", func(p *entity.MathProblem) { p.Options[3] = ` \(\sqrt{2}\) ` }, "options 2 and 4"},
	}

	v := &StructuralValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProblem()
			tt.mutate(p)
			err := v.Validate(p, GenerateInput{})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if err.Validator != "structural" {
				t.Errorf("validator = %q", err.Validator)
			}
			if !strings.Contains(err.Message, tt.wantErr) {
				t.Errorf("message %q does not contain %q", err.Message, tt.wantErr)
			}
		})
	}
}

func TestLatex(t *testing.T) {
	tests := []struct {
		text string
		ok   bool
	}{
		{`plain text`, true},
		{`\(x\) and \[y\]`, true},
		{`\[a \\ b\]`, true},
		{`\(x`, false},
		{`x\)`, false},
		{`\(a \[b\] \)`, false},
		{`\(a\]`, false},
	}

	v := &LatexValidator{}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			p := validProblem()
			p.WorkingSteps = tt.text
			err := v.Validate(p, GenerateInput{})
			if (err == nil) != tt.ok {
				t.Errorf("Validate(%q) = %v, want ok=%v", tt.text, err, tt.ok)
			}
			if err != nil && !strings.HasPrefix(err.Message, "workingSteps") {
				t.Errorf("message %q should name the field", err.Message)
			}
		})
	}
}
