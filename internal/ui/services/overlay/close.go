package overlay

import (
	"log/slog"

	"tvnav/internal/ui/element"
)

// CloseMethod tells how an overlay was closed
type CloseMethod int

const (
	CloseByAffordance CloseMethod = iota
	CloseForced
)

func (m CloseMethod) String() string {
	if m == CloseForced {
		return "forced"
	}
	return "affordance"
}

// Close closes ov through its own close control when it has one. If that
// is missing or leaves the overlay open, the closed state is forced.
func Close(tree element.Tree, closer element.OverlayCloser, ov element.Element, logger *slog.Logger) CloseMethod {
	if logger == nil {
		logger = slog.Default()
	}
	if aff, ok := closer.CloseAffordance(ov); ok {
		if err := aff.Activate(); err != nil {
			logger.Debug("overlay: close control failed", "overlay", ov.ID(), "error", err)
		}
		if still, open := tree.OpenOverlay(); !open || still != ov {
			return CloseByAffordance
		}
	}
	closer.ForceClose(ov)
	return CloseForced
}
