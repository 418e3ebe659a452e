package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating                      // daily goal reached
	MascotAlert                            // notebook is filling up
)

// alertNotebookSize is the notebook size at which the mascot gets nervous.
const alertNotebookSize = 3

func mascotFor(p entity.Profile, notebook int) MascotVariant {
	switch {
	case p.DailyGoalReached:
		return MascotCelebrating
	case notebook >= alertNotebookSize:
		return MascotAlert
	default:
		return MascotIdle
	}
}

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ∫∑√ │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ ∫∑√ │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ ∫∑√ │
└─────┘`

// RenderMascot returns the mascot art for variant.
func RenderMascot(variant MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch variant {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
