// Package progress derives learner progress from a profile snapshot: the
// daily goal, level and XP, topic mastery and achievements. Everything here
// is pure; callers persist the results.
package progress

import (
	"math"

	"github.com/abhisek/mathquest/internal/entity"
)

const (
	// DailyGoal is the number of correct answers that completes a day.
	DailyGoal = 10

	// DailyGoalBonus is awarded once per day when DailyGoal is reached.
	DailyGoalBonus = 100

	// XPPerCorrect is the experience earned per correct answer.
	XPPerCorrect = 10

	// XPPerLevel is the experience needed to advance one level.
	XPPerLevel = 100
)

// CountDailyCorrect records one more correct answer for today and reports
// the bonus earned. The bonus is paid only at the transition to exactly
// DailyGoal, and only if the goal was not already reached today.
func CountDailyCorrect(p *entity.Profile) (bonus int) {
	p.DailyCorrectCount++
	if p.DailyCorrectCount == DailyGoal && !p.DailyGoalReached {
		p.DailyGoalReached = true
		p.DailyGoalTotalCount++
		return DailyGoalBonus
	}
	return 0
}

// DailyGoalProgress returns today's count capped at DailyGoal.
func DailyGoalProgress(p entity.Profile) int {
	return min(p.DailyCorrectCount, DailyGoal)
}

// Level is the learner's level and the XP within it.
type Level struct {
	XP       int
	Level    int
	InLevel  int // XP earned toward the next level
	PerLevel int
}

// LevelFor computes the level from the lifetime correct count.
func LevelFor(p entity.Profile) Level {
	xp := p.CorrectAnswers * XPPerCorrect
	return Level{
		XP:       xp,
		Level:    xp/XPPerLevel + 1,
		InLevel:  xp % XPPerLevel,
		PerLevel: XPPerLevel,
	}
}

// Percent rounds 100*part/whole to the nearest integer, 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

// OverallAccuracy is the lifetime accuracy percentage.
func OverallAccuracy(p entity.Profile) int {
	return Percent(p.CorrectAnswers, p.TotalAttempts)
}
