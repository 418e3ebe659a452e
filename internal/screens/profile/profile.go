package profile

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/ui/layout"
)

type tab int

const (
	tabOverview tab = iota
	tabMastery
	tabBadges
	tabRewards
)

var tabNames = []string{"Overview", "Mastery", "Badges", "Rewards"}

// ProfileScreen shows progress, badges and rewards.
type ProfileScreen struct {
	deps    screen.Deps
	tab     tab
	cursor  int // row within the Badges and Rewards tabs
	scroll  int
	message string
	good    bool
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a new ProfileScreen.
func New(deps screen.Deps) *ProfileScreen {
	return &ProfileScreen{deps: deps}
}

func (s *ProfileScreen) Init() tea.Cmd {
	return nil
}

func (s *ProfileScreen) Title() string {
	return "Profile"
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Switch view"}}
	switch s.tab {
	case tabBadges:
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Browse"})
	case tabRewards:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Browse"},
			layout.KeyHint{Key: "Enter", Description: "Redeem"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *ProfileScreen) rows() int {
	switch s.tab {
	case tabBadges:
		return len(s.badges())
	case tabRewards:
		return len(s.deps.State.Snapshot().Rewards)
	}
	return 0
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StateChangedMsg:
		s.cursor = max(min(s.cursor, s.rows()-1), 0)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "right", "l":
			s.switchTab(1)
		case "shift+tab", "left", "h":
			s.switchTab(-1)
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < s.rows()-1 {
				s.cursor++
			}
		case "enter":
			if s.tab == tabRewards {
				s.redeem()
			}
		}
	}
	return s, nil
}

func (s *ProfileScreen) switchTab(delta int) {
	n := len(tabNames)
	s.tab = tab((int(s.tab) + delta + n) % n)
	s.cursor = 0
	s.scroll = 0
	s.message = ""
}

func (s *ProfileScreen) redeem() {
	rewards := s.deps.State.Snapshot().Rewards
	if s.cursor >= len(rewards) {
		return
	}
	r, err := s.deps.State.RedeemReward(context.Background(), rewards[s.cursor].ID)
	s.good = err == nil
	switch {
	case err == nil:
		s.message = fmt.Sprintf("Redeemed %q for %d points. Enjoy!", r.Name, r.PointsNeeded)
	case errors.Is(err, state.ErrInsufficientPoints):
		s.message = fmt.Sprintf("You need %d points for %q.", rewards[s.cursor].PointsNeeded, rewards[s.cursor].Name)
	case errors.Is(err, state.ErrRewardRedeemed):
		s.message = "That reward was already redeemed."
	default:
		s.message = "Could not redeem: " + err.Error()
	}
}

func displayName(p entity.Profile) string {
	if p.Name == "" {
		return "New Student"
	}
	return p.Name
}
