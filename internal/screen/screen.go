package screen

import (
	tea "charm.land/bubbletea/v2"

	"lernbox/internal/ui/layout"
)

// Screen is one full-frame view in the navigation stack.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles a message and returns the updated screen plus a command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen body (header and footer are drawn by the app).
	View(width, height int) string

	// Title is shown in the header bar.
	Title() string
}

// KeyHintProvider lets a screen supply its own footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
