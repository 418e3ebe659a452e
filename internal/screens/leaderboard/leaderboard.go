package leaderboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	ranks "github.com/abhisek/mathquest/internal/leaderboard"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/layout"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

var medals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

// LeaderboardScreen ranks the local profile against the registry.
type LeaderboardScreen struct {
	deps      screen.Deps
	groupOnly bool
}

var _ screen.Screen = (*LeaderboardScreen)(nil)
var _ screen.KeyHintProvider = (*LeaderboardScreen)(nil)

// New creates a new LeaderboardScreen.
func New(deps screen.Deps) *LeaderboardScreen {
	return &LeaderboardScreen{deps: deps}
}

func (s *LeaderboardScreen) Init() tea.Cmd {
	return nil
}

func (s *LeaderboardScreen) Title() string {
	return "Leaderboard"
}

func (s *LeaderboardScreen) KeyHints() []layout.KeyHint {
	label := "My group"
	if s.groupOnly {
		label = "Everyone"
	}
	return []layout.KeyHint{
		{Key: "G", Description: label},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LeaderboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "g":
			s.groupOnly = !s.groupOnly
		}
	}
	return s, nil
}

func (s *LeaderboardScreen) rows() []ranks.Row {
	snap := s.deps.State.Snapshot()
	return ranks.Build(snap.Registry, snap.Profile, ranks.Options{GroupOnly: s.groupOnly})
}

func (s *LeaderboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	p := s.deps.State.Profile()

	var b strings.Builder
	b.WriteString("\n")

	scope := "All students"
	if s.groupOnly {
		if p.HasGroup() {
			scope = p.Group
		} else {
			scope = "All students (join a group to filter)"
		}
	}
	b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true), scope))
	b.WriteString("\n\n")

	header := lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).
		Render(fmt.Sprintf("  %-4s %-24s %-18s %7s %5s", "#", "Name", "Group", "Solved", "Acc"))
	lines := []string{header}
	for _, r := range s.rows() {
		rank := fmt.Sprintf("%d", r.Rank)
		if m, ok := medals[r.Rank]; ok {
			rank = m
		}
		style := lipgloss.NewStyle().Foreground(theme.Text)
		prefix := "  "
		if r.IsMe {
			style = style.Foreground(theme.ArcadeYellow).Bold(true)
			prefix = "> "
		}
		name := r.Entry.Avatar + " " + r.Entry.Name
		lines = append(lines, style.Render(fmt.Sprintf("%s%-4s %-24s %-18s %7d %4d%%",
			prefix, rank, clip(name, 24), clip(r.Entry.Group, 18), r.Entry.Correct, r.Accuracy)))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(strings.Join(lines, "\n"), cw, theme.Primary)))
	return b.String()
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
