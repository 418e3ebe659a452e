package problemgen

import (
	"strconv"
	"strings"

	"github.com/abhisek/mathquest/internal/entity"
)

// ParseChoice maps a typed answer to an option index. It accepts the
// option number (1-4), its letter (a-d), or the option text itself.
//
// Normalization rules:
// - Whitespace is trimmed and folded
// - Comparison is case-insensitive
func ParseChoice(input string, p entity.MathProblem) (int, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(p.Options) {
			return n - 1, true
		}
		// fall through: "2" may also be an option's text
	}

	if len(input) == 1 {
		c := input[0] | 0x20
		if c >= 'a' && int(c-'a') < len(p.Options) {
			return int(c - 'a'), true
		}
	}

	key := normalizeOption(input)
	for i, o := range p.Options {
		if normalizeOption(o) == key {
			return i, true
		}
	}
	return 0, false
}

// OptionLabel returns the letter shown next to option i, e.g. "B".
func OptionLabel(i int) string {
	return string(rune('A' + i))
}
