package modes

import (
	"tvnav/internal/ui/element"
	"tvnav/internal/ui/input/types"
)

// CatalogMode handles keys while no overlay is open
type CatalogMode struct {
	keys *types.KeyMap
}

func NewCatalogMode(keys *types.KeyMap) *CatalogMode {
	return &CatalogMode{keys: keys}
}

func (m *CatalogMode) Name() string {
	return "catalog"
}

func (m *CatalogMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *CatalogMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *CatalogMode) HandleKey(ev *element.KeyEvent, ctx types.Context) ([]types.Action, bool) {
	binding, dir := m.keys.Lookup(ev.Key)
	switch binding {
	case types.BindingMove:
		return []types.Action{types.NavigateAction{Direction: dir}}, true

	case types.BindingActivate:
		return []types.Action{types.ActivateAction{}}, true

	case types.BindingBack:
		// leave back to the platform so a text field can be cleared or
		// its on-screen keyboard dismissed
		if ctx.TextEntryFocused() {
			return nil, false
		}
		return []types.Action{types.BackAction{}}, true
	}
	return nil, false
}
