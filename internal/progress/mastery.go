package progress

import (
	"github.com/abhisek/mathquest/internal/entity"
)

// Rank is the label shown for a topic's mastery.
type Rank string

const (
	RankGrandmaster Rank = "Grandmaster"
	RankExpert      Rank = "Expert"
	RankProficient  Rank = "Proficient"
	RankCompetent   Rank = "Competent"
	RankLearning    Rank = "Learning"
	RankNovice      Rank = "Novice"
)

// TopicMastery summarises one topic.
type TopicMastery struct {
	Topic    string
	Correct  int
	Attempts int
	Accuracy int // percent
	Rank     Rank
}

// TopicCorrect sums the solved counts of every difficulty band for topic.
func TopicCorrect(p entity.Profile, topic string) int {
	n := 0
	for d := entity.DifficultyBasic; d <= entity.DifficultyAdvanced; d++ {
		n += p.ProblemStats[entity.StatKey(topic, d)]
	}
	return n
}

// MasteryFor computes the mastery of one topic.
func MasteryFor(p entity.Profile, topic string) TopicMastery {
	correct := TopicCorrect(p, topic)
	attempts := p.TopicAttempts[topic]
	acc := Percent(correct, attempts)
	return TopicMastery{
		Topic:    topic,
		Correct:  correct,
		Attempts: attempts,
		Accuracy: acc,
		Rank:     RankFor(acc, correct, attempts),
	}
}

// Mastery returns the mastery of every syllabus topic in display order.
func Mastery(p entity.Profile) []TopicMastery {
	out := make([]TopicMastery, 0, len(entity.Topics))
	for _, t := range entity.Topics {
		out = append(out, MasteryFor(p, t))
	}
	return out
}

// RankFor applies the rank thresholds; the first match wins.
func RankFor(accuracy, correct, attempts int) Rank {
	switch {
	case accuracy > 95 && correct > 20:
		return RankGrandmaster
	case accuracy > 80:
		return RankExpert
	case accuracy > 60:
		return RankProficient
	case accuracy > 40:
		return RankCompetent
	case attempts > 0:
		return RankLearning
	default:
		return RankNovice
	}
}
