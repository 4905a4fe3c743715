// Package screen defines the contract between the router and the views it
// stacks.
package screen

import (
	"sync/atomic"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/deutschlern/internal/ui/layout"
)

// Screen is one full-size view in the navigation stack.
type Screen interface {
	// Init returns the command to run when the screen becomes active.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens that replace the default
// footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that hold resources (running capture,
// playback) to release when they are popped.
type Closer interface {
	Close()
}

var lastID atomic.Int64

// NewID returns a process-unique id. Screens stamp their async messages
// with it so a result for a screen that was closed is not applied to a
// newer screen of the same type.
func NewID() int64 {
	return lastID.Add(1)
}
