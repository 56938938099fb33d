package modes

import (
	"tvnav/internal/ui/element"
	"tvnav/internal/ui/input/types"
)

// OverlayMode handles keys while an overlay is open. Back is always
// intercepted here, text field or not.
type OverlayMode struct {
	keys *types.KeyMap
}

func NewOverlayMode(keys *types.KeyMap) *OverlayMode {
	return &OverlayMode{keys: keys}
}

func (m *OverlayMode) Name() string {
	return "overlay"
}

func (m *OverlayMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *OverlayMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *OverlayMode) HandleKey(ev *element.KeyEvent, ctx types.Context) ([]types.Action, bool) {
	binding, dir := m.keys.Lookup(ev.Key)
	switch binding {
	case types.BindingMove:
		return []types.Action{types.NavigateAction{Direction: dir}}, true
	case types.BindingActivate:
		return []types.Action{types.ActivateAction{}}, true
	case types.BindingBack:
		return []types.Action{types.BackAction{}}, true
	}
	return nil, false
}
