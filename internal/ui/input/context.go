package input

import (
	"tvnav/internal/ui/element"
	"tvnav/internal/ui/input/types"
)

// TreeContext implements the Context interface over a live tree
type TreeContext struct {
	Tree element.Tree
}

var _ types.Context = TreeContext{}

// TextEntryFocused reports whether the active element takes free text
func (c TreeContext) TextEntryFocused() bool {
	active := c.Tree.ActiveElement()
	return active != nil && active.TextEntry()
}
