package leaderboard

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func testScreen(t *testing.T) (*LeaderboardScreen, *state.Controller) {
	t.Helper()
	c, err := state.New(context.Background(), store.NewMedium().Open())
	require.NoError(t, err)
	return New(screen.Deps{State: c}), c
}

func TestLeaderboard_ShowsSeedsAndMe(t *testing.T) {
	s, _ := testScreen(t)
	rows := s.rows()
	require.NotEmpty(t, rows)

	mine := 0
	for _, r := range rows {
		if r.IsMe {
			mine++
		}
	}
	assert.Equal(t, 1, mine)

	view := s.View(120, 40)
	assert.Contains(t, view, "Siva")
	assert.Contains(t, view, "New Student")
}

func TestLeaderboard_GroupToggle(t *testing.T) {
	s, c := testScreen(t)
	_, err := c.JoinGroup(context.Background(), "VECTOR")
	require.NoError(t, err)

	s.Update(keyPress('g'))
	require.True(t, s.groupOnly)
	for _, r := range s.rows() {
		assert.Equal(t, "Vector Vanguards", r.Entry.Group)
	}
	assert.Contains(t, s.View(120, 40), "Vector Vanguards")

	s.Update(keyPress('g'))
	assert.Greater(t, len(s.rows()), 1)
}

func TestLeaderboard_EscPops(t *testing.T) {
	s, _ := testScreen(t)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", clip("abc", 5))
	assert.Equal(t, "abcd…", clip("abcdefgh", 5))
}
