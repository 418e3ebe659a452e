package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/practice"
	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/ui/layout"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

// Data is what one practice run produced.
type Data struct {
	Tally    practice.Tally
	Points   int // including daily goal bonuses
	GoalHit  bool
	Mistakes int // problems filed in the notebook
	Badges   []string
	Duration time.Duration
}

// Accuracy is correct answers over all submitted answers, in percent.
func (d Data) Accuracy() int {
	return progress.Percent(d.Tally.Correct, d.Tally.Correct+d.Tally.Wrong)
}

// SummaryScreen displays the result of a practice run.
type SummaryScreen struct {
	data Data
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(data Data) *SummaryScreen {
	return &SummaryScreen{data: data}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Practice Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	d := s.data
	center := func(style lipgloss.Style, text string) string {
		return layout.Centered(width, style, text) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Practice complete!"))
	b.WriteString("\n")

	mins := int(d.Duration.Minutes())
	secs := int(d.Duration.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Time: %d:%02d", mins, secs)))
	b.WriteString("\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text),
		fmt.Sprintf("Questions: %d      Correct: %d      Wrong attempts: %d      Accuracy: %d%%",
			d.Tally.Served, d.Tally.Correct, d.Tally.Wrong, d.Accuracy())))
	b.WriteString("\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		fmt.Sprintf("◆ +%d points", d.Points)))
	if d.GoalHit {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.ArcadeYellow),
			fmt.Sprintf("Daily goal reached! +%d bonus included", progress.DailyGoalBonus)))
	}
	if d.Mistakes > 0 {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
			fmt.Sprintf("%d problem(s) saved to your mistake notebook", d.Mistakes)))
	}

	if len(d.Badges) > 0 {
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Badges unlocked"))
		for _, id := range d.Badges {
			a, ok := progress.AchievementByID(id)
			if !ok {
				continue
			}
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.ArcadeYellow),
				fmt.Sprintf("%s %s: %s", a.Icon, a.Name, a.Description)))
		}
	}

	return b.String()
}
