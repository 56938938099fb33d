package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvnav/internal/config"
	"tvnav/internal/domain"
	"tvnav/internal/ui/element"
	"tvnav/internal/ui/element/elementtest"
	"tvnav/internal/ui/input/types"
)

type textCtx bool

func (c textCtx) TextEntryFocused() bool { return bool(c) }

func press(h *Handler, key string, ctx types.Context) ([]types.Action, *element.KeyEvent) {
	ev := element.NewKeyEvent(key, nil)
	return h.HandleKey(ev, ctx), ev
}

func TestKeyMapping(t *testing.T) {
	h := New(nil)
	tests := []struct {
		key  string
		want types.Action
	}{
		{"ArrowUp", types.NavigateAction{Direction: domain.DirectionUp}},
		{"ArrowDown", types.NavigateAction{Direction: domain.DirectionDown}},
		{"ArrowLeft", types.NavigateAction{Direction: domain.DirectionLeft}},
		{"ArrowRight", types.NavigateAction{Direction: domain.DirectionRight}},
		{"Enter", types.ActivateAction{}},
		{" ", types.ActivateAction{}},
		{"NumpadEnter", types.ActivateAction{}},
		{"Backspace", types.BackAction{}},
		{"Escape", types.BackAction{}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			actions, ev := press(h, tt.key, textCtx(false))
			require.Len(t, actions, 1)
			assert.Equal(t, tt.want, actions[0])
			assert.True(t, ev.DefaultPrevented())
			assert.True(t, ev.PropagationStopped())
		})
	}
}

func TestUnboundKeyPassesThrough(t *testing.T) {
	h := New(nil)
	actions, ev := press(h, "a", textCtx(false))
	assert.Empty(t, actions)
	assert.False(t, ev.DefaultPrevented())
	assert.False(t, ev.PropagationStopped())
}

func TestBackInTextFieldDependsOnMode(t *testing.T) {
	h := New(nil)

	actions, ev := press(h, "Escape", textCtx(true))
	assert.Empty(t, actions)
	assert.False(t, ev.DefaultPrevented(), "catalog leaves back to the text field")

	// arrows are still ours
	actions, _ = press(h, "ArrowDown", textCtx(true))
	assert.Len(t, actions, 1)

	h.SetMode(types.ModeOverlay, textCtx(true))
	actions, ev = press(h, "Backspace", textCtx(true))
	require.Len(t, actions, 1)
	assert.Equal(t, types.BackAction{}, actions[0])
	assert.True(t, ev.DefaultPrevented())
}

func TestSetMode(t *testing.T) {
	h := New(nil)
	assert.Equal(t, types.ModeCatalog, h.CurrentMode())
	assert.Equal(t, "catalog", h.ModeName())

	h.SetMode(types.ModeOverlay, textCtx(false))
	assert.Equal(t, types.ModeOverlay, h.CurrentMode())
	assert.Equal(t, "overlay", h.ModeName())
}

func TestCustomKeyMap(t *testing.T) {
	keys := config.DefaultKeys()
	keys.Back = append(keys.Back, "b", "Enter")
	h := New(types.NewKeyMap(keys))

	actions, _ := press(h, "b", textCtx(false))
	require.Len(t, actions, 1)
	assert.Equal(t, types.BackAction{}, actions[0])

	// Enter keeps its activate binding
	actions, _ = press(h, "Enter", textCtx(false))
	require.Len(t, actions, 1)
	assert.Equal(t, types.ActivateAction{}, actions[0])
}

func TestTreeContext(t *testing.T) {
	tree := elementtest.NewTree()
	field := &elementtest.Element{Name: "search", Native: true, Text: true}
	button := &elementtest.Element{Name: "go", Native: true}
	tree.Adopt(field, button)
	ctx := TreeContext{Tree: tree}

	assert.False(t, ctx.TextEntryFocused())
	tree.Focus(field)
	assert.True(t, ctx.TextEntryFocused())
	tree.Focus(button)
	assert.False(t, ctx.TextEntryFocused())
}
