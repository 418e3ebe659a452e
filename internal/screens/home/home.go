package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/screens/leaderboard"
	"github.com/abhisek/mathquest/internal/screens/notebook"
	"github.com/abhisek/mathquest/internal/screens/placeholder"
	"github.com/abhisek/mathquest/internal/screens/practice"
	"github.com/abhisek/mathquest/internal/screens/profile"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/layout"
)

// HomeScreen is the main menu.
type HomeScreen struct {
	deps screen.Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// New creates a new HomeScreen.
func New(deps screen.Deps) *HomeScreen {
	items := []components.MenuItem{
		{Label: "PRACTICE", Hotkey: "p", Action: func() tea.Cmd {
			if !deps.CanPractice() {
				return push(placeholder.New("Practice"))
			}
			return push(practice.New(deps, startTopic(deps.State.Profile()), entity.DifficultyBasic))
		}},
		{Label: "NOTEBOOK", Hotkey: "n", Action: func() tea.Cmd {
			return push(notebook.New(deps))
		}},
		{Label: "PROFILE", Hotkey: "b", Action: func() tea.Cmd {
			return push(profile.New(deps))
		}},
		{Label: "LEADERBOARD", Hotkey: "l", Action: func() tea.Cmd {
			return push(leaderboard.New(deps))
		}},
		{Label: "QUIT", Hotkey: "q", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return &HomeScreen{deps: deps, menu: components.NewMenu(items)}
}

// startTopic picks the most recently practised topic.
func startTopic(p entity.Profile) string {
	if n := len(p.TopicHistory); n > 0 && entity.IsTopic(p.TopicHistory[n-1]) {
		return p.TopicHistory[n-1]
	}
	return entity.Topics[0]
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer
	compact := layout.IsCompact(width, height+8)
	cw := components.ContentWidth(width)
	snap := h.deps.State.Snapshot()

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(snap.Profile, len(snap.Notebook)), cw))
	}
	sections = append(sections, renderStatsBar(snap, cw, compact))
	if !h.deps.CanPractice() {
		sections = append(sections, renderLLMBanner(cw))
	}
	sections = append(sections, h.menu.View(cw, compact))

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}
