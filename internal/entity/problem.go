package entity

import "fmt"

// Difficulty is the problem difficulty band: 1 (Basic), 2 (Intermediate),
// 3 (Advanced).
type Difficulty int

const (
	DifficultyBasic        Difficulty = 1
	DifficultyIntermediate Difficulty = 2
	DifficultyAdvanced     Difficulty = 3
)

// Valid reports whether d is one of the three supported bands.
func (d Difficulty) Valid() bool {
	return d >= DifficultyBasic && d <= DifficultyAdvanced
}

// Label returns the display label for the difficulty band.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyBasic:
		return "Basic"
	case DifficultyIntermediate:
		return "Intermediate"
	case DifficultyAdvanced:
		return "Advanced"
	default:
		return fmt.Sprintf("Level %d", int(d))
	}
}

// Stars renders the difficulty as three filled/empty stars.
func (d Difficulty) Stars() string {
	s := ""
	for i := 1; i <= 3; i++ {
		if i <= int(d) {
			s += "★"
		} else {
			s += "☆"
		}
	}
	return s
}

// Topics is the SM025 syllabus topic list, in display order.
var Topics = []string{"Numerical Solution", "Integration", "Vector"}

// IsTopic reports whether name is a known syllabus topic.
func IsTopic(name string) bool {
	for _, t := range Topics {
		if t == name {
			return true
		}
	}
	return false
}

// MathProblem is a generated multiple-choice question. It is treated as
// immutable once generated.
type MathProblem struct {
	ID           string     `json:"id"`
	Question     string     `json:"question"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correctIndex"`
	Explanation  string     `json:"explanation"`
	Tips         string     `json:"tips"`
	WorkingSteps string     `json:"workingSteps"`
	Topic        string     `json:"topic"`
	Difficulty   Difficulty `json:"difficulty"`
}

// StatKey returns the problemStats key for this problem, e.g. "Vector_1".
func (p MathProblem) StatKey() string {
	return StatKey(p.Topic, p.Difficulty)
}

// IsCorrect reports whether option is the correct choice.
func (p MathProblem) IsCorrect(option int) bool {
	return option == p.CorrectIndex
}

// CorrectOption returns the text of the correct option, or "" when the
// index is out of range.
func (p MathProblem) CorrectOption() string {
	if p.CorrectIndex < 0 || p.CorrectIndex >= len(p.Options) {
		return ""
	}
	return p.Options[p.CorrectIndex]
}

// Clone returns a copy that shares no slices with p.
func (p MathProblem) Clone() MathProblem {
	c := p
	c.Options = append([]string(nil), p.Options...)
	return c
}

// StatKey builds the "topic_difficulty" key used by Profile.ProblemStats.
func StatKey(topic string, d Difficulty) string {
	return fmt.Sprintf("%s_%d", topic, int(d))
}
