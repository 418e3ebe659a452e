package practice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/store"
)

func problem(id string) entity.MathProblem {
	return entity.MathProblem{
		ID:           id,
		Question:     `Find \(\mathbf{i} \cdot \mathbf{j}\).`,
		Options:      []string{"0", "1", "-1", "2"},
		CorrectIndex: 0,
		Explanation:  "Perpendicular unit vectors.",
		Topic:        "Vector",
		Difficulty:   entity.DifficultyBasic,
	}
}

func newController(t *testing.T) *state.Controller {
	t.Helper()
	c, err := state.New(context.Background(), store.NewMedium().Open())
	require.NoError(t, err)
	return c
}

func TestSessionCorrectFirstTry(t *testing.T) {
	ctx := context.Background()
	c := newController(t)
	s := NewSession(c, nil)

	s.Present(problem("p1"))
	out, err := s.Submit(ctx, 0)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, state.PointsCorrect, out.Result.Points)
	assert.Equal(t, 10, c.Points())
	assert.Equal(t, 1, c.Profile().CorrectAnswers)

	_, err = s.Submit(ctx, 0)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	assert.Equal(t, Tally{Served: 1, Correct: 1}, s.Tally())
}

func TestSessionSecondWrongUnlocksHelp(t *testing.T) {
	ctx := context.Background()
	c := newController(t)
	s := NewSession(c, nil)
	s.Present(problem("p1"))

	out, err := s.Submit(ctx, 1)
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.False(t, out.HelpUnlocked)
	assert.False(t, s.HelpUnlocked())
	assert.Empty(t, c.Snapshot().Notebook)

	// Repeating a tried option records nothing.
	out, err = s.Submit(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, out.WrongAttempts)
	assert.Equal(t, 1, c.Profile().TotalAttempts)

	out, err = s.Submit(ctx, 2)
	require.NoError(t, err)
	assert.True(t, out.HelpUnlocked)
	assert.True(t, out.MistakeSaved)
	assert.True(t, s.HelpUnlocked())
	require.Len(t, c.Snapshot().Notebook, 1)
	assert.Equal(t, 2, c.Profile().TotalAttempts)
	assert.Equal(t, 2, c.Profile().TopicAttempts["Vector"])

	out, err = s.Submit(ctx, 3)
	require.NoError(t, err)
	assert.False(t, out.MistakeSaved, "already in the notebook")
	assert.Len(t, c.Snapshot().Notebook, 1)

	out, err = s.Submit(ctx, 0)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.False(t, s.HelpUnlocked())
	assert.Equal(t, 10, c.Points())
}

func TestSessionPresentResets(t *testing.T) {
	ctx := context.Background()
	s := NewSession(newController(t), nil)

	_, err := s.Submit(ctx, 0)
	assert.ErrorIs(t, err, ErrNoProblem)

	s.Present(problem("p1"))
	_, err = s.Submit(ctx, 1)
	require.NoError(t, err)
	_, err = s.Submit(ctx, 7)
	assert.Error(t, err)

	s.Present(problem("p2"))
	assert.Zero(t, s.WrongAttempts())
	assert.False(t, s.Tried(1))
	p, ok := s.Problem()
	require.True(t, ok)
	assert.Equal(t, "p2", p.ID)
}

func TestSessionFinishRecordsTime(t *testing.T) {
	ctx := context.Background()
	c := newController(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewSession(c, func() time.Time { return now })

	now = now.Add(90 * time.Second)
	require.NoError(t, s.Finish(ctx))
	assert.EqualValues(t, 90, c.Profile().TotalTimeSpent)

	// Only the time since the last Finish is added.
	now = now.Add(30 * time.Second)
	require.NoError(t, s.Finish(ctx))
	assert.EqualValues(t, 120, c.Profile().TotalTimeSpent)

	require.NoError(t, s.Finish(ctx))
	assert.EqualValues(t, 120, c.Profile().TotalTimeSpent)
}
