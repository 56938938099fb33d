package types

import (
	"tvnav/internal/domain"
	"tvnav/internal/ui/element"
)

// Mode represents an input mode
type Mode = domain.Mode

const (
	ModeCatalog = domain.ModeCatalog
	ModeOverlay = domain.ModeOverlay
)

// Action represents a command the engine should execute
type Action interface {
	Type() string
}

// Context provides read-only access to tree state needed for input handling
type Context interface {
	// TextEntryFocused reports whether input focus is in a text-entry control
	TextEntryFocused() bool
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key event and returns actions and whether to consume the event
	HandleKey(ev *element.KeyEvent, ctx Context) ([]Action, bool)

	// Enter is called when entering this mode
	Enter(ctx Context) []Action

	// Exit is called when leaving this mode
	Exit(ctx Context) []Action

	// Name returns the mode name for display
	Name() string
}
