package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/store"
)

func testModel(t *testing.T) AppModel {
	t.Helper()
	c, err := state.New(context.Background(), store.NewMedium().Open())
	require.NoError(t, err)
	m := newAppModel(screen.Deps{State: c})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(AppModel)
}

func TestCtrlCQuits(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestEscIsNotGlobal(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 1, next.(AppModel).router.Depth())
}

func TestBadgeStatus(t *testing.T) {
	m := testModel(t)

	next, cmd := m.Update(screen.StateChangedMsg{Keys: []string{"profile"}, NewBadges: []string{"genesis"}})
	m = next.(AppModel)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.status, "Math Genesis")

	// a stale clear does nothing
	next, _ = m.Update(clearStatusMsg{seq: m.statusSeq - 1})
	m = next.(AppModel)
	assert.NotEmpty(t, m.status)

	next, _ = m.Update(clearStatusMsg{seq: m.statusSeq})
	assert.Empty(t, next.(AppModel).status)
}

func TestBadgeStatusUnknownIDs(t *testing.T) {
	assert.Empty(t, badgeStatus([]string{"nope"}))
	assert.Empty(t, badgeStatus(nil))
}

func TestViewShowsHeaderStats(t *testing.T) {
	m := testModel(t)
	content := m.render()
	assert.Contains(t, content, "MathQuest")
	assert.Contains(t, content, "0 pts")
	assert.Contains(t, content, "Ctrl+C")
}

func TestRunRequiresState(t *testing.T) {
	assert.Error(t, Run(context.Background(), Options{}))
}
