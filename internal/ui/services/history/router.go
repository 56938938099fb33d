package history

import (
	"log/slog"

	"github.com/google/uuid"

	"tvnav/internal/ui/element"
)

const (
	overlayPrefix  = "tvnav-overlay-"
	baselinePrefix = "tvnav-base-"
)

// PopOutcome says what a history pop means to the engine
type PopOutcome int

const (
	// PopIgnored is a pop with no overlay open; the platform handles it
	PopIgnored PopOutcome = iota
	// PopExpected is the router's own reconciliation pop
	PopExpected
	// PopCloseOverlay means the back gesture consumed the overlay marker
	// and the overlay must be closed
	PopCloseOverlay
)

func (p PopOutcome) String() string {
	switch p {
	case PopExpected:
		return "expected"
	case PopCloseOverlay:
		return "close_overlay"
	default:
		return "ignored"
	}
}

// Router keeps exactly one synthetic history entry per open overlay so the
// platform back gesture closes the overlay instead of leaving the page.
// History failures are logged and swallowed.
type Router struct {
	hist   element.History
	logger *slog.Logger

	armed    bool
	marker   string
	expected int
}

// NewRouter creates a router over hist
func NewRouter(hist element.History, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{hist: hist, logger: logger}
}

// Armed reports whether an overlay marker is on the stack
func (r *Router) Armed() bool {
	return r.armed
}

// Marker returns the pushed overlay marker, if armed
func (r *Router) Marker() string {
	if !r.armed {
		return ""
	}
	return r.marker
}

// OverlayOpened pushes a marker unless one is already armed
func (r *Router) OverlayOpened() {
	if r.armed {
		return
	}
	marker := overlayPrefix + uuid.NewString()
	if err := r.hist.Push(element.HistoryEntry{Marker: marker}); err != nil {
		r.logger.Debug("history: push failed", "error", err)
		return
	}
	r.armed = true
	r.marker = marker
}

// OverlayClosed pops the marker if the overlay was closed by anything other
// than the back gesture. The pop it causes is recognised in HandlePop. If
// the marker is no longer the current entry, a pop already consumed it and
// nothing is popped.
func (r *Router) OverlayClosed() {
	if !r.armed {
		return
	}
	marker := r.marker
	r.armed = false
	r.marker = ""
	if cur := r.hist.Current(); cur.Marker != marker {
		r.logger.Debug("history: marker already gone", "marker", marker, "current", cur.Marker)
		return
	}
	r.expected++
	if err := r.hist.Back(); err != nil {
		r.expected--
		r.logger.Debug("history: back failed", "error", err)
	}
}

// HandlePop classifies a platform pop
func (r *Router) HandlePop(entry element.HistoryEntry, overlayOpen bool) PopOutcome {
	if r.expected > 0 {
		r.expected--
		return PopExpected
	}
	if overlayOpen {
		// the gesture already removed our marker
		r.armed = false
		r.marker = ""
		return PopCloseOverlay
	}
	r.logger.Debug("history: pop with no overlay", "marker", entry.Marker)
	return PopIgnored
}

// Rearm replaces the current entry with a fresh baseline so a second back
// gesture behaves like a plain one. The stack does not grow.
func (r *Router) Rearm() {
	if err := r.hist.Replace(element.HistoryEntry{Marker: baselinePrefix + uuid.NewString()}); err != nil {
		r.logger.Debug("history: replace failed", "error", err)
	}
}

// Navigate performs a real back navigation
func (r *Router) Navigate() {
	if err := r.hist.Back(); err != nil {
		r.logger.Debug("history: back failed", "error", err)
	}
}

// Pending is the number of reconciliation pops not yet seen
func (r *Router) Pending() int {
	return r.expected
}
