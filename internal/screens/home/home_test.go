package home

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/screens/notebook"
	"github.com/abhisek/mathquest/internal/screens/placeholder"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func testHome(t *testing.T) *HomeScreen {
	t.Helper()
	c, err := state.New(context.Background(), store.NewMedium().Open())
	require.NoError(t, err)
	return New(screen.Deps{State: c})
}

func pushed(t *testing.T, cmd tea.Cmd) screen.Screen {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	return msg.Screen
}

func TestHome_PracticeWithoutGeneratorShowsPlaceholder(t *testing.T) {
	h := testHome(t)
	_, cmd := h.Update(keyPress('p'))
	assert.IsType(t, &placeholder.PlaceholderScreen{}, pushed(t, cmd))
}

func TestHome_NotebookHotkey(t *testing.T) {
	h := testHome(t)
	_, cmd := h.Update(keyPress('n'))
	assert.IsType(t, &notebook.NotebookScreen{}, pushed(t, cmd))
}

func TestHome_EnterActivatesSelection(t *testing.T) {
	h := testHome(t)
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.IsType(t, &notebook.NotebookScreen{}, pushed(t, cmd))
}

func TestHome_ViewShowsStatsAndBanner(t *testing.T) {
	h := testHome(t)
	view := h.View(120, 40)
	assert.Contains(t, view, "0 PTS")
	assert.Contains(t, view, "0/10 TODAY")
	assert.Contains(t, view, "Set an LLM API key")
}

func TestStartTopic(t *testing.T) {
	p := entity.Profile{}
	assert.Equal(t, entity.Topics[0], startTopic(p))

	p.TopicHistory = []string{"Integration", "Vector"}
	assert.Equal(t, "Vector", startTopic(p))

	p.TopicHistory = []string{"Astrology"}
	assert.Equal(t, entity.Topics[0], startTopic(p))
}

func TestMascotFor(t *testing.T) {
	assert.Equal(t, MascotIdle, mascotFor(entity.Profile{}, 0))
	assert.Equal(t, MascotAlert, mascotFor(entity.Profile{}, 3))
	assert.Equal(t, MascotCelebrating, mascotFor(entity.Profile{DailyGoalReached: true}, 5))
}
