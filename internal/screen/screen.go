package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/stemlab/exploratorium/internal/ui/layout"
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

// Closer is an optional interface for screens that hold background work,
// such as an in-flight generation, that must stop when the screen leaves
// the stack.
type Closer interface {
	Close()
}

// EscapeHandler is an optional interface for screens that want Esc for
// themselves instead of the default Back navigation. HandlesEscape
// reports whether the screen will consume the next Esc.
type EscapeHandler interface {
	HandlesEscape() bool
}
