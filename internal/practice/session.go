// Package practice runs the question-answer loop: one problem at a time,
// wrong-attempt tracking, help unlocking, and asynchronous problem loading.
package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/state"
)

// HelpAfter is the number of wrong attempts that unlocks tips, working
// steps and the answer. The same attempt files the problem in the notebook.
const HelpAfter = 2

var (
	ErrNoProblem       = errors.New("no problem loaded")
	ErrAlreadyAnswered = errors.New("problem already answered")
)

// Recorder is the part of the controller a session writes to.
type Recorder interface {
	RecordCorrectAnswer(ctx context.Context, p entity.MathProblem, points int) (state.AnswerResult, error)
	RecordIncorrectAttempt(ctx context.Context, topic string) error
	AddMistake(ctx context.Context, p entity.MathProblem) (bool, error)
	AddTimeSpent(ctx context.Context, d time.Duration) error
}

// Tally counts answers within one session.
type Tally struct {
	Served  int
	Correct int
	Wrong   int
}

// Outcome describes the result of one submitted answer.
type Outcome struct {
	Correct       bool
	WrongAttempts int
	HelpUnlocked  bool

	// MistakeSaved is true when this attempt added the problem to the
	// notebook.
	MistakeSaved bool

	// Result is set for correct answers.
	Result state.AnswerResult

	Message string
}

// Session holds the state of the current problem.
type Session struct {
	rec Recorder
	now func() time.Time

	problem  *entity.MathProblem
	wrong    int
	tried    map[int]bool
	answered bool

	startedAt time.Time
	logged    time.Duration
	tally     Tally
}

// NewSession creates a session writing to rec. A nil clock uses time.Now.
func NewSession(rec Recorder, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{rec: rec, now: now, startedAt: now()}
}

// Present makes p the current problem and clears per-problem state.
func (s *Session) Present(p entity.MathProblem) {
	p = p.Clone()
	s.problem = &p
	s.wrong = 0
	s.tried = make(map[int]bool)
	s.answered = false
	s.tally.Served++
}

// Problem returns the current problem.
func (s *Session) Problem() (entity.MathProblem, bool) {
	if s.problem == nil {
		return entity.MathProblem{}, false
	}
	return *s.problem, true
}

func (s *Session) WrongAttempts() int { return s.wrong }
func (s *Session) Answered() bool     { return s.answered }
func (s *Session) Tally() Tally       { return s.tally }

// HelpUnlocked reports whether tips, steps and the answer may be shown.
func (s *Session) HelpUnlocked() bool {
	return s.wrong >= HelpAfter && !s.answered
}

// Tried reports whether option was already submitted as a wrong answer.
func (s *Session) Tried(option int) bool {
	return s.tried[option]
}

// Submit checks option against the current problem and records the result.
// A wrong option that was already tried is rejected without recording a
// second attempt.
func (s *Session) Submit(ctx context.Context, option int) (Outcome, error) {
	if s.problem == nil {
		return Outcome{}, ErrNoProblem
	}
	if s.answered {
		return Outcome{}, ErrAlreadyAnswered
	}
	p := *s.problem
	if option < 0 || option >= len(p.Options) {
		return Outcome{}, fmt.Errorf("option %d out of range", option+1)
	}

	if p.IsCorrect(option) {
		res, err := s.rec.RecordCorrectAnswer(ctx, p, state.PointsCorrect)
		if err != nil {
			return Outcome{}, fmt.Errorf("record correct answer: %w", err)
		}
		s.answered = true
		s.tally.Correct++
		return Outcome{
			Correct:       true,
			WrongAttempts: s.wrong,
			Result:        res,
			Message:       "Correct! Well done.",
		}, nil
	}

	if s.tried[option] {
		return Outcome{
			WrongAttempts: s.wrong,
			HelpUnlocked:  s.HelpUnlocked(),
			Message:       "You already tried that option.",
		}, nil
	}

	if err := s.rec.RecordIncorrectAttempt(ctx, p.Topic); err != nil {
		return Outcome{}, fmt.Errorf("record incorrect attempt: %w", err)
	}
	s.tried[option] = true
	s.wrong++
	s.tally.Wrong++

	out := Outcome{WrongAttempts: s.wrong, Message: "Not quite. Analyse it again."}
	if s.wrong >= HelpAfter {
		added, err := s.rec.AddMistake(ctx, p)
		if err != nil {
			return Outcome{}, fmt.Errorf("save mistake: %w", err)
		}
		out.MistakeSaved = added
		out.HelpUnlocked = true
		out.Message = "Still not right. Use the help to understand the concept."
	}
	return out, nil
}

// Finish records the study time since the session started or since the
// previous Finish.
func (s *Session) Finish(ctx context.Context) error {
	elapsed := s.now().Sub(s.startedAt) - s.logged
	if elapsed < time.Second {
		return nil
	}
	if err := s.rec.AddTimeSpent(ctx, elapsed); err != nil {
		return err
	}
	s.logged += elapsed
	return nil
}
