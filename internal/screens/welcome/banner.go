package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/ui/theme"
)

const bannerMath = `
 ███╗   ███╗ █████╗ ████████╗██╗  ██╗
 ████╗ ████║██╔══██╗╚══██╔══╝██║  ██║
 ██╔████╔██║███████║   ██║   ███████║
 ██║╚██╔╝██║██╔══██║   ██║   ██╔══██║
 ██║ ╚═╝ ██║██║  ██║   ██║   ██║  ██║
 ╚═╝     ╚═╝╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝`

const bannerQuest = ` ██████╗ ██╗   ██╗███████╗███████╗████████╗
██╔═══██╗██║   ██║██╔════╝██╔════╝╚══██╔══╝
██║   ██║██║   ██║█████╗  ███████╗   ██║
██║▄▄ ██║██║   ██║██╔══╝  ╚════██║   ██║
╚██████╔╝╚██████╔╝███████╗███████║   ██║
 ╚══▀▀═╝  ╚═════╝ ╚══════╝╚══════╝   ╚═╝`

const bannerCompact = "M A T H Q U E S T"

// RenderBanner returns the two-word banner, or a one-line fallback for
// terminals narrower than 48 columns.
func RenderBanner(width int) string {
	if width < 48 {
		return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(bannerCompact)
	}
	math := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(bannerMath)
	quest := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(bannerQuest)
	return lipgloss.JoinVertical(lipgloss.Center, math, quest)
}
