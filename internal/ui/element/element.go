// Package element defines the capabilities the navigation engine needs from a
// live UI tree. Adapters implement these; the engine never sees concrete node
// types.
package element

import "tvnav/internal/domain"

// Role names a class of elements the tree knows how to find
type Role int

const (
	RoleTile Role = iota
	RoleOverlay
	RoleInteractive
	RoleClose
	RoleTextEntry
)

func (r Role) String() string {
	switch r {
	case RoleTile:
		return "tile"
	case RoleOverlay:
		return "overlay"
	case RoleInteractive:
		return "interactive"
	case RoleClose:
		return "close"
	case RoleTextEntry:
		return "text-entry"
	default:
		return "unknown"
	}
}

// Element is a reference to a node owned by the UI tree.
// Implementations must be comparable so the same node compares equal
// across queries.
type Element interface {
	ID() string
	// Visible reports non-zero size, no display:none or visibility:hidden,
	// and a layout box attached to the document.
	Visible() bool
	BoundingBox() domain.Rect
	// Interactive reports native activatability: link, button, form control
	// or an explicit activatable marker.
	Interactive() bool
	TextEntry() bool
	HiddenFromAssistiveTech() bool
	Connected() bool
	Focusable() bool

	Activate() error
	Focus(preventScroll bool) error
	ScrollIntoView()
	SetHighlighted(on bool)
	// MakeFocusable gives keyboard focusability and an interactive role.
	// Applying it twice is a no-op.
	MakeFocusable()
}

// MutationKind classifies a recorded tree change
type MutationKind int

const (
	MutationAttributes MutationKind = iota
	MutationChildList
	MutationCharacterData
)

// Mutation is one recorded change. Observers receive them in batches.
type Mutation struct {
	Kind      MutationKind
	Target    Element
	Attribute string
}

// Tree is the queryable live document
type Tree interface {
	// Query returns matches below scope in document order. A nil scope
	// searches the whole document.
	Query(scope Element, role Role) []Element
	// OpenOverlay returns the top-most open overlay, if any
	OpenOverlay() (Element, bool)
	ActiveElement() Element
	Observe(fn func([]Mutation)) (cancel func())
}

// OverlayCloser closes overlays
type OverlayCloser interface {
	CloseAffordance(overlay Element) (Element, bool)
	ForceClose(overlay Element)
}

// KeyEvent is a key press travelling through the tree
type KeyEvent struct {
	Key    string
	Target Element

	defaultPrevented   bool
	propagationStopped bool
}

// NewKeyEvent creates a key event aimed at target
func NewKeyEvent(key string, target Element) *KeyEvent {
	return &KeyEvent{Key: key, Target: target}
}

func (e *KeyEvent) PreventDefault()          { e.defaultPrevented = true }
func (e *KeyEvent) StopPropagation()         { e.propagationStopped = true }
func (e *KeyEvent) DefaultPrevented() bool   { return e.defaultPrevented }
func (e *KeyEvent) PropagationStopped() bool { return e.propagationStopped }

// KeySource delivers key events at the capture phase
type KeySource interface {
	AddKeyListener(fn func(*KeyEvent)) (remove func())
}

// BackButtonSource delivers the custom "backbutton" signal some TV
// platforms fire instead of a key event
type BackButtonSource interface {
	OnBackButton(fn func()) (remove func())
}

// HistoryEntry is an opaque navigation-history entry
type HistoryEntry struct {
	Marker string
}

// History is the platform navigation history
type History interface {
	Push(entry HistoryEntry) error
	Replace(entry HistoryEntry) error
	Back() error
	Depth() int
	Current() HistoryEntry
	// OnPop registers fn for every pop; fn receives the entry now current
	OnPop(fn func(HistoryEntry)) (remove func())
}
