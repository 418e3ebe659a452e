package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathquest/internal/entity"
)

// LatexValidator checks that math delimiters are balanced in every text
// field. An unbalanced \( or \[ renders the rest of the card as garbage.
type LatexValidator struct{}

func (v *LatexValidator) Name() string { return "latex" }

func (v *LatexValidator) Validate(p *entity.MathProblem, _ GenerateInput) *ValidationError {
	fields := []struct {
		name string
		text string
	}{
		{"question", p.Question},
		{"explanation", p.Explanation},
		{"tips", p.Tips},
		{"workingSteps", p.WorkingSteps},
	}
	for i, o := range p.Options {
		fields = append(fields, struct {
			name string
			text string
		}{fmt.Sprintf("option %d", i+1), o})
	}

	for _, f := range fields {
		if !strings.Contains(f.text, `\`) {
			continue
		}
		if err := checkDelimiters(f.text); err != "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("%s: %s", f.name, err),
			}
		}
	}
	return nil
}

// checkDelimiters scans s for \( \) and \[ \] pairs. Math blocks do not
// nest, so a single open marker is enough state.
func checkDelimiters(s string) string {
	var open string
	for i := 0; i+1 < len(s); i++ {
		if s[i] != '\\' {
			continue
		}
		tok := s[i : i+2]
		switch tok {
		case `\(`, `\[`:
			if open != "" {
				return fmt.Sprintf("%s opened inside %s", tok, open)
			}
			open = tok
		case `\)`, `\]`:
			want := map[string]string{`\)`: `\(`, `\]`: `\[`}[tok]
			if open != want {
				return fmt.Sprintf("unexpected %s", tok)
			}
			open = ""
		case `\\`:
			// escaped backslash, skip both
		default:
			continue
		}
		i++
	}
	if open != "" {
		return fmt.Sprintf("unclosed %s", open)
	}
	return ""
}
