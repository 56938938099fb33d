package input

import (
	"tvnav/internal/ui/element"
	"tvnav/internal/ui/input/modes"
	"tvnav/internal/ui/input/types"
)

// Handler routes key events to the handler of the current mode
type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
}

func New(keys *types.KeyMap) *Handler {
	if keys == nil {
		keys = types.DefaultKeyMap()
	}
	h := &Handler{
		currentMode: types.ModeCatalog,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	h.modes[types.ModeCatalog] = modes.NewCatalogMode(keys)
	h.modes[types.ModeOverlay] = modes.NewOverlayMode(keys)

	return h
}

// HandleKey returns the actions for ev. A consumed event has its default
// action and further propagation suppressed.
func (h *Handler) HandleKey(ev *element.KeyEvent, ctx types.Context) []types.Action {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil
	}

	actions, consumed := handler.HandleKey(ev, ctx)
	if !consumed {
		return nil
	}
	ev.PreventDefault()
	ev.StopPropagation()
	return actions
}

// SetMode switches modes, running the exit and enter hooks on a change
func (h *Handler) SetMode(mode types.Mode, ctx types.Context) []types.Action {
	if mode == h.currentMode {
		return nil
	}
	var actions []types.Action
	if old := h.modes[h.currentMode]; old != nil {
		actions = append(actions, old.Exit(ctx)...)
	}
	h.currentMode = mode
	if next := h.modes[mode]; next != nil {
		actions = append(actions, next.Enter(ctx)...)
	}
	return actions
}

func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

// ModeName returns the display name of the current mode
func (h *Handler) ModeName() string {
	if m := h.modes[h.currentMode]; m != nil {
		return m.Name()
	}
	return ""
}

func (h *Handler) RegisterMode(mode types.Mode, handler types.ModeHandler) {
	h.modes[mode] = handler
}
