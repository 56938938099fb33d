package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventCursorMoved     EventType = "CursorMoved"
	EventMoveAbsorbed    EventType = "MoveAbsorbed"
	EventOverlayOpened   EventType = "OverlayOpened"
	EventOverlayClosed   EventType = "OverlayClosed"
	EventItemActivated   EventType = "ItemActivated"
	EventBackHandled     EventType = "BackHandled"
	EventNavigationReady EventType = "NavigationReady"
	EventCatalogReloaded EventType = "CatalogReloaded"
	EventPlaybackStarted EventType = "PlaybackStarted"
	EventError           EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// CursorMovedEvent is emitted whenever a different item gets the highlight
type CursorMovedEvent struct {
	Mode      Mode
	OldIndex  int
	NewIndex  int
	ElementID string
}

func (e CursorMovedEvent) Type() EventType { return EventCursorMoved }

// MoveAbsorbedEvent is emitted when a move found nothing in that direction
type MoveAbsorbedEvent struct {
	Mode      Mode
	Direction Direction
}

func (e MoveAbsorbedEvent) Type() EventType { return EventMoveAbsorbed }

// OverlayOpenedEvent is emitted on the Closed -> Open transition
type OverlayOpenedEvent struct {
	OverlayID string
}

func (e OverlayOpenedEvent) Type() EventType { return EventOverlayOpened }

// OverlayClosedEvent is emitted on the Open -> Closed transition
type OverlayClosedEvent struct {
	OverlayID  string
	RestoredID string // empty when focus could not be restored
}

func (e OverlayClosedEvent) Type() EventType { return EventOverlayClosed }

// ItemActivatedEvent is emitted when the highlighted item is activated
type ItemActivatedEvent struct {
	Mode      Mode
	ElementID string
}

func (e ItemActivatedEvent) Type() EventType { return EventItemActivated }

// BackHandledEvent is emitted for every back request
type BackHandledEvent struct {
	Outcome BackOutcome
	Source  string // "key", "backbutton", "history" or "api"
}

func (e BackHandledEvent) Type() EventType { return EventBackHandled }

// NavigationReadyEvent is emitted once the first item got highlighted
type NavigationReadyEvent struct {
	Items    int
	Attempts int
}

func (e NavigationReadyEvent) Type() EventType { return EventNavigationReady }

// CatalogReloadedEvent is emitted after the titles file was reloaded
type CatalogReloadedEvent struct {
	Titles int
}

func (e CatalogReloadedEvent) Type() EventType { return EventCatalogReloaded }

// PlaybackStartedEvent is emitted when a title's play button is activated
type PlaybackStartedEvent struct {
	TitleID string
	Name    string
}

func (e PlaybackStartedEvent) Type() EventType { return EventPlaybackStarted }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
