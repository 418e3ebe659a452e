// Package app hosts the root Bubble Tea model and runs the terminal UI.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/mathquest/internal/logging"
	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/screens/home"
	"github.com/abhisek/mathquest/internal/screens/welcome"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/store"
	"github.com/abhisek/mathquest/internal/storesync"
	"github.com/abhisek/mathquest/internal/ui/layout"
)

// statusTTL is how long a footer status stays visible.
const statusTTL = 6 * time.Second

type clearStatusMsg struct{ seq int }

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	state  *state.Controller
	width  int
	height int

	status    string
	statusSeq int
}

// newAppModel creates an AppModel that opens on the welcome screen.
func newAppModel(deps screen.Deps) AppModel {
	splash := welcome.New(deps.State, func() screen.Screen { return home.New(deps) })
	return AppModel{
		router: router.New(splash),
		state:  deps.State,
	}
}

func (m AppModel) Init() tea.Cmd {
	if a := m.router.Active(); a != nil {
		return a.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Screens own esc; only ctrl+c is global.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case screen.StateChangedMsg:
		var clearCmd tea.Cmd
		if text := badgeStatus(msg.NewBadges); text != "" {
			m.status = text
			m.statusSeq++
			seq := m.statusSeq
			clearCmd = tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
		}
		return m, tea.Batch(m.router.Update(msg), clearCmd)
	}

	return m, m.router.Update(msg)
}

func badgeStatus(ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if a, ok := progress.AchievementByID(id); ok {
			names = append(names, a.Icon+" "+a.Name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return "Badge unlocked: " + strings.Join(names, ", ")
}

func (m AppModel) headerStats() layout.HeaderStats {
	if m.state == nil {
		return layout.HeaderStats{DailyGoal: progress.DailyGoal, Level: 1}
	}
	p := m.state.Profile()
	return layout.HeaderStats{
		Points:    m.state.Points(),
		Daily:     progress.DailyGoalProgress(p),
		DailyGoal: progress.DailyGoal,
		Level:     progress.LevelFor(p).Level,
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var hints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if hp, ok := active.(screen.KeyHintProvider); ok {
			hints = hp.KeyHints()
		}
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	header := layout.RenderHeader(title, m.headerStats(), m.width)
	footer := layout.RenderFooter(hints, m.status, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Options configures Run.
type Options struct {
	Deps screen.Deps

	// Store, when set, is watched for changes made by other processes.
	Store store.Store
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// done.
func Run(ctx context.Context, opts Options) error {
	if opts.Deps.State == nil {
		return errors.New("app: state controller is required")
	}
	log := logging.OrNop(opts.Deps.Log).With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newAppModel(opts.Deps), tea.WithContext(ctx))

	unsubscribe := opts.Deps.State.Subscribe(func(ev state.Event) {
		p.Send(screen.StateChangedMsg{Keys: ev.Keys, External: ev.External, NewBadges: ev.NewBadges})
	})
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)
	if opts.Store != nil {
		listener := storesync.New(opts.Store, opts.Deps.State, opts.Deps.Log)
		g.Go(func() error {
			if err := listener.Run(gctx); err != nil {
				// live sync is optional
				log.Warn("store sync unavailable", "error", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("run program: %w", err)
		}
		return nil
	})
	return g.Wait()
}
