package state

import (
	"context"
	"slices"
	"time"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/progress"
)

const (
	// PointsCorrect is awarded for a correct practice answer.
	PointsCorrect = 10

	// PointsRetry is awarded for clearing a notebook mistake.
	PointsRetry = 5
)

// AnswerResult reports what a correct answer earned.
type AnswerResult struct {
	Points    int // points awarded, excluding the bonus
	Bonus     int // daily goal bonus, 0 or progress.DailyGoalBonus
	NewBadges []string
	GoalHit   bool
}

// RecordCorrectAnswer credits a solved problem: counters, per-topic stats,
// solve history, the daily goal, and points + bonus in a single delta.
func (c *Controller) RecordCorrectAnswer(ctx context.Context, problem entity.MathProblem, points int) (AnswerResult, error) {
	if err := validate(problemInputOf(problem)); err != nil {
		return AnswerResult{}, err
	}
	var res AnswerResult
	badges, err := c.mutate(ctx, func(d *Snapshot, now time.Time) error {
		res = creditCorrect(d, problem, points, now)
		return nil
	})
	if err != nil {
		return AnswerResult{}, err
	}
	res.NewBadges = badges
	return res, nil
}

// creditCorrect applies correct-answer bookkeeping to d. The daily goal is
// settled before the point delta is computed.
func creditCorrect(d *Snapshot, problem entity.MathProblem, points int, now time.Time) AnswerResult {
	p := &d.Profile
	p.RollOver(now)

	p.CorrectAnswers++
	p.TotalAttempts++
	p.ProblemStats[problem.StatKey()]++
	p.TopicAttempts[problem.Topic]++
	if !slices.Contains(p.TopicHistory, problem.Topic) {
		p.TopicHistory = append(p.TopicHistory, problem.Topic)
	}
	p.SolveHistory = append([]entity.MathProblem{problem.Clone()}, p.SolveHistory...)
	if len(p.SolveHistory) > entity.SolveHistoryLimit {
		p.SolveHistory = p.SolveHistory[:entity.SolveHistoryLimit]
	}

	bonus := progress.CountDailyCorrect(p)
	d.Points += points + bonus

	return AnswerResult{Points: points, Bonus: bonus, GoalHit: bonus > 0}
}

// RecordIncorrectAttempt counts a wrong answer against topic. An empty
// topic only bumps the total.
func (c *Controller) RecordIncorrectAttempt(ctx context.Context, topic string) error {
	_, err := c.mutate(ctx, func(d *Snapshot, now time.Time) error {
		p := &d.Profile
		p.RollOver(now)
		p.TotalAttempts++
		if topic != "" {
			p.TopicAttempts[topic]++
		}
		return nil
	})
	return err
}

// AddMistake files problem in the notebook. It reports false when the
// problem is already there.
func (c *Controller) AddMistake(ctx context.Context, problem entity.MathProblem) (bool, error) {
	if err := validate(problemInputOf(problem)); err != nil {
		return false, err
	}
	added := false
	_, err := c.mutate(ctx, func(d *Snapshot, now time.Time) error {
		if slices.ContainsFunc(d.Notebook, func(r entity.MistakeRecord) bool { return r.Problem.ID == problem.ID }) {
			return nil
		}
		d.Notebook = append(d.Notebook, entity.MistakeRecord{
			Problem: problem.Clone(),
			AddedAt: entity.Millis(now),
		})
		added = true
		return nil
	})
	return added, err
}

// RetryMistake checks an answer to a notebook problem. A correct option
// clears the record and credits the solve with PointsRetry; a wrong one
// returns ErrWrongAnswer and changes nothing.
func (c *Controller) RetryMistake(ctx context.Context, problemID string, option int) (AnswerResult, error) {
	var res AnswerResult
	badges, err := c.mutate(ctx, func(d *Snapshot, now time.Time) error {
		i := slices.IndexFunc(d.Notebook, func(r entity.MistakeRecord) bool { return r.Problem.ID == problemID })
		if i < 0 {
			return &NotFoundError{Kind: "mistake", ID: problemID}
		}
		problem := d.Notebook[i].Problem
		if !problem.IsCorrect(option) {
			return ErrWrongAnswer
		}
		d.Notebook = slices.Delete(d.Notebook, i, i+1)
		res = creditCorrect(d, problem, PointsRetry, now)
		return nil
	})
	if err != nil {
		return AnswerResult{}, err
	}
	res.NewBadges = badges
	return res, nil
}

// AddTimeSpent adds study time to the profile, rounded down to seconds.
func (c *Controller) AddTimeSpent(ctx context.Context, d time.Duration) error {
	secs := int64(d / time.Second)
	if secs <= 0 {
		return nil
	}
	_, err := c.mutate(ctx, func(s *Snapshot, _ time.Time) error {
		s.Profile.TotalTimeSpent += secs
		return nil
	})
	return err
}
