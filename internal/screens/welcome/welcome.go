package welcome

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 4500 * time.Millisecond
)

const nameLimit = 40

const mascotArt = `  ╭───────────╮
  │  ┌─────┐  │
  │  │ ◉ ◉ │  │
  │  │  ▽  │  │
  │  ├─────┤  │
  │  │ ∫∑√ │  │
  │  └─────┘  │
  ╰───────────╯`

var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

// WelcomeScreen plays the splash and asks a first-time student for a name
// before handing over to the home screen.
type WelcomeScreen struct {
	state       *state.Controller
	homeFactory func() screen.Screen
	elapsed     time.Duration
	tickCount   int

	naming bool
	input  components.TextInput
	avatar int
	errMsg string

	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that transitions to the screen produced by
// homeFactory. st may be nil, which skips name entry.
func New(st *state.Controller, homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		state:       st,
		homeFactory: homeFactory,
		input:       components.NewTextInput("Your name", nameLimit),
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) needsName() bool {
	return w.state != nil && w.state.Profile().Name == ""
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		if w.transitioned {
			return w, nil
		}
		return w, tick()

	case tea.KeyPressMsg:
		if w.naming {
			return w.updateName(msg)
		}
		if w.needsName() {
			w.naming = true
			return w, w.input.Init()
		}
		return w, w.transition()
	}

	if w.naming {
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *WelcomeScreen) updateName(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := w.input.Value()
		if name == "" {
			w.errMsg = "Type a name, or press Esc to skip."
			return w, nil
		}
		avatar := entity.Avatars[w.avatar]
		if err := w.state.UpdateProfile(context.Background(), state.ProfileUpdate{Name: &name, Avatar: &avatar}); err != nil {
			w.errMsg = err.Error()
			return w, nil
		}
		return w, w.transition()
	case "esc":
		return w, w.transition()
	case "tab":
		w.avatar = (w.avatar + 1) % len(entity.Avatars)
		return w, nil
	case "shift+tab":
		w.avatar = (w.avatar + len(entity.Avatars) - 1) % len(entity.Avatars)
		return w, nil
	}
	w.errMsg = ""
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	home := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: home}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	if w.naming {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, w.renderNameForm())
	}

	var sections []string
	rendered := lipgloss.NewStyle().Foreground(theme.Primary).Render(mascotArt)

	if w.elapsed >= phase1End {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		s1 := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		s2 := lipgloss.NewStyle().Foreground(theme.Secondary).Render(sparkle)

		lines := strings.Split(rendered, "\n")
		for i, l := range lines {
			switch i {
			case 0, 6:
				lines[i] = s1 + "  " + l + "  " + s2
			case 3:
				lines[i] = s2 + "  " + l + "  " + s1
			}
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	if w.elapsed >= phase2End {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Sharpen your SM025 skills, one question at a time."),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func (w *WelcomeScreen) renderNameForm() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("Welcome, new student!"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("What should we call you on the leaderboard?"))
	b.WriteString("\n\n")
	b.WriteString(components.Card(entity.Avatars[w.avatar]+"  "+w.input.View(), 40, theme.Primary))
	b.WriteString("\n\n")
	if w.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(w.errMsg))
		b.WriteString("\n\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
		Render("Enter to save · Tab to change avatar · Esc to skip"))
	return b.String()
}
