package notebook

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/layout"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

// NotebookScreen lists saved mistakes and lets the student retry them.
type NotebookScreen struct {
	deps     screen.Deps
	selected int

	// open is the ID of the problem being retried, or "".
	open    string
	choice  components.MultiChoice
	message string
	good    bool
}

var _ screen.Screen = (*NotebookScreen)(nil)
var _ screen.KeyHintProvider = (*NotebookScreen)(nil)

// New creates a new NotebookScreen.
func New(deps screen.Deps) *NotebookScreen {
	return &NotebookScreen{deps: deps}
}

func (s *NotebookScreen) Init() tea.Cmd {
	return nil
}

func (s *NotebookScreen) Title() string {
	return "Mistake Notebook"
}

func (s *NotebookScreen) KeyHints() []layout.KeyHint {
	if s.open != "" {
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "Esc", Description: "Close"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Retry"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

// records returns the notebook newest first.
func (s *NotebookScreen) records() []entity.MistakeRecord {
	recs := s.deps.State.Snapshot().Notebook
	slices.Reverse(recs)
	return recs
}

func (s *NotebookScreen) find(id string) (entity.MistakeRecord, bool) {
	for _, r := range s.records() {
		if r.Problem.ID == id {
			return r, true
		}
	}
	return entity.MistakeRecord{}, false
}

func (s *NotebookScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StateChangedMsg:
		if s.open != "" {
			if _, ok := s.find(s.open); !ok {
				s.open = ""
			}
		}
		s.clamp()
		return s, nil

	case components.ChoiceMsg:
		return s.retry(msg.Index)

	case tea.KeyMsg:
		if s.open != "" {
			if msg.String() == "esc" {
				s.open = ""
				return s, nil
			}
			var cmd tea.Cmd
			s.choice, cmd = s.choice.Update(msg)
			return s, cmd
		}

		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.records())-1 {
				s.selected++
			}
		case "enter":
			recs := s.records()
			if s.selected < len(recs) {
				p := recs[s.selected].Problem
				s.open = p.ID
				s.choice = components.NewMultiChoice(p.Options)
				s.message = ""
			}
		}
	}
	return s, nil
}

func (s *NotebookScreen) clamp() {
	s.selected = max(min(s.selected, len(s.records())-1), 0)
}

func (s *NotebookScreen) retry(option int) (screen.Screen, tea.Cmd) {
	if s.open == "" {
		return s, nil
	}
	res, err := s.deps.State.RetryMistake(context.Background(), s.open, option)
	switch {
	case errors.Is(err, state.ErrWrongAnswer):
		s.choice.MarkTried(option)
		s.message = "Not quite. Try again."
		s.good = false
	case err != nil:
		s.message = "Could not save: " + err.Error()
		s.good = false
	default:
		s.open = ""
		s.message = fmt.Sprintf("Correct! +%d points. Cleared from your notebook.", res.Points+res.Bonus)
		s.good = true
		s.clamp()
	}
	return s, nil
}

func (s *NotebookScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	recs := s.records()

	var b strings.Builder
	b.WriteString("\n")

	if s.message != "" {
		color := theme.Error
		if s.good {
			color = theme.Success
		}
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(color).Bold(true), s.message))
		b.WriteString("\n\n")
	}

	if s.open != "" {
		if r, ok := s.find(s.open); ok {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderRetry(r, cw)))
			return b.String()
		}
	}

	if len(recs) == 0 {
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true),
			"Your notebook is empty. Problems you miss twice land here."))
		return b.String()
	}

	b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("%d problem(s) to revisit. Each one cleared earns +%d points.", len(recs), state.PointsRetry)))
	b.WriteString("\n\n")

	for i, r := range recs {
		p := r.Problem
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		added := time.UnixMilli(r.AddedAt).Format("Jan 02")
		line := fmt.Sprintf("%s%s  %-18s %s  %s", prefix, added, p.Topic, p.Difficulty.Stars(), truncate(p.Question, cw-40))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Width(cw).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *NotebookScreen) renderRetry(r entity.MistakeRecord, cw int) string {
	p := r.Problem
	head := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%s  %s %s", p.Topic, p.Difficulty.Stars(), p.Difficulty.Label()))
	question := lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Bold(true).Render(p.Question)
	return head + "\n\n" + question + "\n\n" + s.choice.View(cw)
}

func truncate(s string, n int) string {
	n = max(n, 10)
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
