package query

import (
	"tvnav/internal/domain"
	"tvnav/internal/ui/element"
)

// Service produces the navigable item list for a mode. Lists are never
// cached: every call is a fresh snapshot of the live tree.
type Service struct {
	tree element.Tree
}

// NewService creates a new query service
func NewService(tree element.Tree) *Service {
	return &Service{tree: tree}
}

// Items returns the navigable items for mode in document order
func (s *Service) Items(mode domain.Mode) []element.Element {
	if mode == domain.ModeOverlay {
		return s.overlayItems()
	}
	return s.catalogItems()
}

// IndexOf finds el in the items for mode, or -1
func (s *Service) IndexOf(mode domain.Mode, el element.Element) int {
	if el == nil {
		return -1
	}
	for i, item := range s.Items(mode) {
		if item == el {
			return i
		}
	}
	return -1
}

func (s *Service) catalogItems() []element.Element {
	var items []element.Element
	for _, tile := range s.tree.Query(nil, element.RoleTile) {
		if !tile.Visible() {
			continue
		}
		if !tile.Interactive() {
			tile.MakeFocusable()
		}
		items = append(items, tile)
	}
	return items
}

func (s *Service) overlayItems() []element.Element {
	overlay, ok := s.tree.OpenOverlay()
	if !ok {
		return nil
	}
	var items []element.Element
	for _, el := range s.tree.Query(overlay, element.RoleInteractive) {
		if !el.Visible() || el.HiddenFromAssistiveTech() {
			continue
		}
		items = append(items, el)
	}
	return items
}

// ActivationTarget returns the first natively activatable descendant of a
// tile, or the tile itself
func (s *Service) ActivationTarget(tile element.Element) element.Element {
	for _, el := range s.tree.Query(tile, element.RoleInteractive) {
		if el.Connected() {
			return el
		}
	}
	return tile
}
