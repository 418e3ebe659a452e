package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate

	ArcadeYellow = lipgloss.Color("#FACC15")
	ArcadeCyan   = lipgloss.Color("#22D3EE")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// groupColors maps the study-group color names to terminal colors.
var groupColors = map[string]color.Color{
	"blue":    lipgloss.Color("#3B82F6"),
	"emerald": lipgloss.Color("#10B981"),
	"purple":  lipgloss.Color("#A855F7"),
	"rose":    lipgloss.Color("#F43F5E"),
	"amber":   lipgloss.Color("#F59E0B"),
	"indigo":  lipgloss.Color("#6366F1"),
}

// GroupColor resolves a study-group color name. Unknown names render as
// plain text.
func GroupColor(name string) color.Color {
	if c, ok := groupColors[name]; ok {
		return c
	}
	return Text
}

// RankColor colors a mastery rank label.
func RankColor(rank string) color.Color {
	switch rank {
	case "Grandmaster":
		return ArcadeYellow
	case "Expert":
		return Accent
	case "Proficient":
		return Success
	case "Competent":
		return Secondary
	case "Learning":
		return Primary
	default:
		return TextDim
	}
}
