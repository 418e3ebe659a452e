package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/layout"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	switch s.phase {
	case phaseLoading:
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
			fmt.Sprintf("Generating a %s question on %s...", s.difficulty.Label(), s.topicName())))
	case phaseFailed:
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), s.errMsg))
	default:
		b.WriteString(s.renderQuestion(width))
	}

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.ArcadeCyan), s.notice))
	}
	return b.String()
}

func (s *PracticeScreen) renderInfoLine(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s  %s %s", s.topicName(), s.difficulty.Stars(), s.difficulty.Label()))

	tally := s.session.Tally()
	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d  %s %d  %s %d  %s +%d",
			tally.Served,
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"), tally.Correct,
			lipgloss.NewStyle().Foreground(theme.Error).Render("✗"), tally.Wrong,
			lipgloss.NewStyle().Foreground(theme.Accent).Render("◆"), s.points,
		))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line
}

func (s *PracticeScreen) renderQuestion(width int) string {
	cw := components.ContentWidth(width)
	var sections []string

	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.Text).
		Bold(true).
		Render(s.problem.Question))
	sections = append(sections, s.choice.View(cw))

	if s.feedback != "" {
		color := theme.Error
		if s.outcome.Correct {
			color = theme.Success
		}
		line := s.feedback
		if s.outcome.Correct {
			line += fmt.Sprintf("  +%d points", s.outcome.Result.Points)
			if s.outcome.Result.Bonus > 0 {
				line += fmt.Sprintf(", daily goal bonus +%d", s.outcome.Result.Bonus)
			}
		} else if s.outcome.MistakeSaved {
			line += "  Saved to your mistake notebook."
		}
		sections = append(sections, lipgloss.NewStyle().Foreground(color).Bold(true).Width(cw).Render(line))
	}

	if s.phase == phaseSolved && s.problem.Explanation != "" {
		sections = append(sections, components.Card(
			components.SectionTitle("Explanation", cw-4)+"\n"+s.problem.Explanation, cw, theme.Success))
	}
	if s.showHelp && s.phase == phaseQuestion {
		sections = append(sections, s.renderHelp(cw))
	}
	if detail := s.renderExplanation(cw); detail != "" {
		sections = append(sections, detail)
	}

	if s.phase == phaseQuestion {
		hint := "Choose 1-4 or A-D"
		if s.session.HelpUnlocked() && !s.showHelp {
			hint += ".  Help is unlocked: press H."
		}
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(hint))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n\n"))
}

// renderHelp shows tips, working steps and the answer.
func (s *PracticeScreen) renderHelp(cw int) string {
	p := s.problem
	var b strings.Builder
	if p.Tips != "" {
		b.WriteString(components.SectionTitle("Tips", cw-4) + "\n" + p.Tips + "\n\n")
	}
	if p.WorkingSteps != "" {
		b.WriteString(components.SectionTitle("Working steps", cw-4) + "\n" + p.WorkingSteps + "\n\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(
		fmt.Sprintf("Answer: %s) %s", problemgen.OptionLabel(p.CorrectIndex), p.CorrectOption())))
	if s.deps.Explainer != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("Press E for the full worked solution."))
	}
	return components.Card(b.String(), cw, theme.Accent)
}

func (s *PracticeScreen) renderExplanation(cw int) string {
	switch {
	case s.explaining:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("Writing a full solution...")
	case s.explainErr != "":
		return lipgloss.NewStyle().Foreground(theme.Error).Render(s.explainErr)
	case s.explanation != "":
		return components.Card(components.SectionTitle("Full solution", cw-4)+"\n"+s.explanation, cw, theme.Primary)
	}
	return ""
}

func renderQuitConfirm(width int) string {
	center := func(c lipgloss.Style, text string) string {
		return layout.Centered(width, c, text) + "\n"
	}
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), "End practice?"))
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Your progress is already saved."))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Success), "[Y] Yes, show my summary"))
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))
	return b.String()
}
