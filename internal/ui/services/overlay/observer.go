package overlay

import (
	"log/slog"

	"tvnav/internal/domain"
	"tvnav/internal/eventbus"
	"tvnav/internal/ui/element"
)

// Transition is the net change found by one Sync
type Transition int

const (
	TransitionNone Transition = iota
	TransitionOpened
	TransitionClosed
	// TransitionSwapped means a different overlay replaced the open one
	TransitionSwapped
)

func (t Transition) String() string {
	switch t {
	case TransitionOpened:
		return "opened"
	case TransitionClosed:
		return "closed"
	case TransitionSwapped:
		return "swapped"
	default:
		return "none"
	}
}

// Cursor is the part of the focus cursor the observer drives
type Cursor interface {
	Reset()
	Highlight(mode domain.Mode, i int) (element.Element, bool)
	Seed(mode domain.Mode, el element.Element) (element.Element, bool)
	Validate(mode domain.Mode) bool
}

// HistoryHook is told about open and close transitions
type HistoryHook interface {
	OverlayOpened()
	OverlayClosed()
}

// Observer tracks whether an overlay is open and reseeds the cursor on
// every transition
type Observer struct {
	tree    element.Tree
	cursor  Cursor
	history HistoryHook
	bus     eventbus.EventBus
	logger  *slog.Logger

	overlay element.Element
	saved   element.Element
}

// NewObserver creates an observer. bus may be nil.
func NewObserver(tree element.Tree, cursor Cursor, history HistoryHook, bus eventbus.EventBus, logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{
		tree:    tree,
		cursor:  cursor,
		history: history,
		bus:     bus,
		logger:  logger,
	}
}

// Mode returns the current navigation mode
func (o *Observer) Mode() domain.Mode {
	if o.overlay != nil {
		return domain.ModeOverlay
	}
	return domain.ModeCatalog
}

// Overlay returns the open overlay, or nil
func (o *Observer) Overlay() element.Element {
	return o.overlay
}

// Sync compares the tree against the last known state and runs the
// transition logic once for the net change
func (o *Observer) Sync() Transition {
	ov, open := o.tree.OpenOverlay()
	switch {
	case open && o.overlay == nil:
		o.opened(ov)
		return TransitionOpened
	case !open && o.overlay != nil:
		o.closed()
		return TransitionClosed
	case open && ov != o.overlay:
		o.swapped(ov)
		return TransitionSwapped
	}
	if mode := o.Mode(); o.cursor.Validate(mode) {
		// keep one item highlighted while the list is not empty
		o.cursor.Highlight(mode, 0)
	}
	return TransitionNone
}

func (o *Observer) opened(ov element.Element) {
	o.saved = o.tree.ActiveElement()
	o.overlay = ov

	o.cursor.Reset()
	o.cursor.Highlight(domain.ModeOverlay, 0)
	o.history.OverlayOpened()

	o.logger.Debug("overlay: opened", "overlay", ov.ID())
	o.publish(domain.OverlayOpenedEvent{OverlayID: ov.ID()})
}

func (o *Observer) swapped(ov element.Element) {
	o.logger.Debug("overlay: swapped", "from", o.overlay.ID(), "to", ov.ID())
	o.overlay = ov
	o.cursor.Reset()
	o.cursor.Highlight(domain.ModeOverlay, 0)
}

func (o *Observer) closed() {
	prev := o.overlay
	o.overlay = nil
	o.history.OverlayClosed()

	restored := o.restoreFocus()
	o.saved = nil

	o.cursor.Reset()
	o.cursor.Seed(domain.ModeCatalog, restored)

	ev := domain.OverlayClosedEvent{OverlayID: prev.ID()}
	if restored != nil {
		ev.RestoredID = restored.ID()
	}
	o.logger.Debug("overlay: closed", "overlay", ev.OverlayID, "restored", ev.RestoredID)
	o.publish(ev)
}

func (o *Observer) restoreFocus() element.Element {
	saved := o.saved
	if saved == nil {
		return nil
	}
	if !saved.Connected() || !saved.Focusable() {
		o.logger.Debug("overlay: saved focus is gone", "element", saved.ID())
		return nil
	}
	if err := saved.Focus(true); err != nil {
		o.logger.Debug("overlay: focus restore failed", "element", saved.ID(), "error", err)
		return nil
	}
	return saved
}

func (o *Observer) publish(ev domain.DomainEvent) {
	if o.bus != nil {
		o.bus.Publish(ev)
	}
}
