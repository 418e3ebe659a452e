// Package screen defines the contract between the router and the TUI's
// screens.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquest/internal/logging"
	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StateChangedMsg is delivered to the active screen after the working set
// changed, locally or in another context.
type StateChangedMsg struct {
	Keys     []string
	External bool

	// NewBadges lists badge IDs unlocked by the change.
	NewBadges []string
}

// Deps are the collaborators screens are built with. Generator and
// Explainer are nil when no question service is configured.
type Deps struct {
	State     *state.Controller
	Generator problemgen.Generator
	Explainer problemgen.Explainer
	Log       *logging.Logger
}

// CanPractice reports whether questions can be generated.
func (d Deps) CanPractice() bool {
	return d.Generator != nil
}
