package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D"}

// ChoiceMsg is emitted when the user picks an option.
type ChoiceMsg struct {
	Index int
}

// MultiChoice is a four-option selector. Options already answered wrong
// are struck through; Reveal highlights the correct one.
type MultiChoice struct {
	Options  []string
	Selected int
	Tried    map[int]bool

	// Reveal is the index shown as correct, or -1.
	Reveal int

	// Locked ignores input, e.g. after the problem is answered.
	Locked bool
}

// NewMultiChoice creates a selector for options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options: options,
		Tried:   make(map[int]bool),
		Reveal:  -1,
	}
}

// Update handles arrows, Enter, 1-4 and a-d.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
		return m, nil
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
		return m, nil
	case "enter":
		return m, choose(m.Selected)
	}

	if len(key) == 1 {
		i := -1
		switch c := key[0]; {
		case c >= '1' && c <= '9':
			i = int(c - '1')
		case c >= 'a' && c <= 'z':
			i = int(c - 'a')
		}
		if i >= 0 && i < len(m.Options) {
			m.Selected = i
			return m, choose(i)
		}
	}
	return m, nil
}

func choose(i int) tea.Cmd {
	return func() tea.Msg { return ChoiceMsg{Index: i} }
}

// MarkTried records a wrong answer.
func (m *MultiChoice) MarkTried(i int) {
	m.Tried[i] = true
}

// View renders the options, one per line, wrapped to width.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	textWidth := max(width-8, 10)

	for i, opt := range m.Options {
		label := "?"
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		prefix := "  "
		if i == m.Selected && !m.Locked {
			prefix = "▸ "
		}

		style := lipgloss.NewStyle().Foreground(theme.Text).Width(textWidth)
		switch {
		case i == m.Reveal:
			style = style.Foreground(theme.Success).Bold(true)
		case m.Tried[i]:
			style = style.Foreground(theme.Error).Strikethrough(true)
		case i == m.Selected && !m.Locked:
			style = style.Foreground(theme.Primary).Bold(true)
		case m.Locked:
			style = style.Foreground(theme.TextDim)
		}

		b.WriteString(style.Render(fmt.Sprintf("%s%s)  %s", prefix, label, opt)))
		b.WriteString("\n")
	}
	return b.String()
}
