package notebook

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func mistake(question string) entity.MathProblem {
	return entity.MathProblem{
		ID:           entity.NewID(),
		Question:     question,
		Options:      []string{"1", "2", "3", "4"},
		CorrectIndex: 2,
		Topic:        "Integration",
		Difficulty:   entity.DifficultyIntermediate,
	}
}

func testScreen(t *testing.T, problems ...entity.MathProblem) (*NotebookScreen, *state.Controller) {
	t.Helper()
	c, err := state.New(context.Background(), store.NewMedium().Open())
	require.NoError(t, err)
	for _, p := range problems {
		_, err := c.AddMistake(context.Background(), p)
		require.NoError(t, err)
	}
	return New(screen.Deps{State: c}), c
}

func press(s *NotebookScreen, key rune) {
	_, cmd := s.Update(keyPress(key))
	if cmd != nil {
		s.Update(cmd())
	}
}

func TestNotebook_Empty(t *testing.T) {
	s, _ := testScreen(t)
	assert.Contains(t, s.View(100, 30), "Your notebook is empty")
}

func TestNotebook_ListsNewestFirst(t *testing.T) {
	s, _ := testScreen(t, mistake("first problem"), mistake("second problem"))
	recs := s.records()
	require.Len(t, recs, 2)
	assert.Equal(t, "second problem", recs[0].Problem.Question)
	assert.Contains(t, s.View(120, 30), "2 problem(s) to revisit")
}

func TestNotebook_WrongRetryKeepsRecord(t *testing.T) {
	s, c := testScreen(t, mistake("integrate x"))

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotEmpty(t, s.open)

	press(s, '1')
	assert.Equal(t, "Not quite. Try again.", s.message)
	assert.True(t, s.choice.Tried[0])
	assert.Len(t, c.Snapshot().Notebook, 1)
	assert.Equal(t, 0, c.Points())
}

func TestNotebook_CorrectRetryClears(t *testing.T) {
	s, c := testScreen(t, mistake("integrate x"))

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	press(s, '3')

	assert.Empty(t, s.open)
	assert.True(t, s.good)
	assert.Empty(t, c.Snapshot().Notebook)
	assert.Equal(t, state.PointsRetry, c.Points())
}

func TestNotebook_ExternalRemovalClosesRetry(t *testing.T) {
	p := mistake("integrate x")
	s, c := testScreen(t, p)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	_, err := c.RetryMistake(context.Background(), p.ID, p.CorrectIndex)
	require.NoError(t, err)

	s.Update(screen.StateChangedMsg{Keys: []string{"notebook"}, External: true})
	assert.Empty(t, s.open)
	assert.Equal(t, 0, s.selected)
}

func TestNotebook_Navigation(t *testing.T) {
	s, _ := testScreen(t, mistake("a"), mistake("b"), mistake("c"))

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 2, s.selected)

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 1, s.selected)
}

func TestNotebook_EscClosesThenPops(t *testing.T) {
	s, _ := testScreen(t, mistake("a"))
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
	assert.Empty(t, s.open)

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "a b c", truncate("a\n  b   c", 20))
	assert.Equal(t, "abcdefghi…", truncate("abcdefghijklmnop", 10))
}
