package navigation

import (
	"errors"
	"log/slog"

	"tvnav/internal/domain"
	"tvnav/internal/eventbus"
	"tvnav/internal/ui/element"
)

// ErrNoSelection is returned when activating with nothing highlighted
var ErrNoSelection = errors.New("nothing is highlighted")

// Lister supplies live item lists
type Lister interface {
	Items(mode domain.Mode) []element.Element
	// ActivationTarget returns the element whose action a catalog tile runs
	ActivationTarget(tile element.Element) element.Element
}

// Service is the focus cursor: it owns the highlighted index and moves it
type Service struct {
	state   *State
	items   Lister
	bus     eventbus.EventBus
	scoring Scoring
	logger  *slog.Logger
}

// NewService creates a new navigation service. bus may be nil.
func NewService(items Lister, bus eventbus.EventBus, scoring Scoring, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		state:   &State{Index: NoIndex},
		items:   items,
		bus:     bus,
		scoring: scoring,
		logger:  logger,
	}
}

// Index returns the highlighted index or NoIndex
func (s *Service) Index() int {
	return s.state.Index
}

// Current returns the highlighted element, if any
func (s *Service) Current() element.Element {
	return s.state.Current
}

// Reset clears the highlight and the index
func (s *Service) Reset() {
	if cur := s.state.Current; cur != nil && cur.Connected() {
		cur.SetHighlighted(false)
	}
	s.state.Index = NoIndex
	s.state.Current = nil
}

// Highlight moves the highlight to item i of mode's list, clamped
func (s *Service) Highlight(mode domain.Mode, i int) (element.Element, bool) {
	return s.highlight(mode, s.items.Items(mode), i)
}

// Seed highlights el if it is in mode's list, otherwise the first item
func (s *Service) Seed(mode domain.Mode, el element.Element) (element.Element, bool) {
	items := s.items.Items(mode)
	idx := 0
	if el != nil {
		for i, item := range items {
			if item == el {
				idx = i
				break
			}
		}
	}
	return s.highlight(mode, items, idx)
}

// Move moves the highlight in a direction
func (s *Service) Move(mode domain.Mode, dir domain.Direction) MoveResult {
	items := s.items.Items(mode)
	if len(items) == 0 {
		s.Reset()
		return MoveEmpty
	}

	from := s.resolve(items)
	if from == NoIndex {
		s.highlight(mode, items, 0)
		return MoveSeeded
	}
	s.state.Index = from

	next, ok := SelectNext(items, from, dir, s.scoring)
	if !ok {
		return MoveAbsorbed
	}
	s.highlight(mode, items, next)
	return MoveMoved
}

// Activate runs the highlighted item's primary action. In the catalog a
// tile delegates to its first natively activatable descendant.
func (s *Service) Activate(mode domain.Mode) (element.Element, error) {
	items := s.items.Items(mode)
	idx := s.resolve(items)
	if idx == NoIndex {
		return nil, ErrNoSelection
	}
	s.state.Index = idx

	target := items[idx]
	if mode == domain.ModeCatalog {
		target = s.items.ActivationTarget(target)
	}
	return target, target.Activate()
}

// Validate re-resolves the index after the list changed. The cursor is
// cleared if its element left the list; it reports whether that happened.
func (s *Service) Validate(mode domain.Mode) bool {
	if s.state.Index == NoIndex {
		return false
	}
	idx := s.resolve(s.items.Items(mode))
	if idx == NoIndex {
		s.logger.Debug("navigation: highlighted item left the list", "mode", mode)
		s.Reset()
		return true
	}
	s.state.Index = idx
	return false
}

func (s *Service) resolve(items []element.Element) int {
	if s.state.Current == nil {
		return NoIndex
	}
	for i, item := range items {
		if item == s.state.Current {
			return i
		}
	}
	return NoIndex
}

func (s *Service) highlight(mode domain.Mode, items []element.Element, i int) (element.Element, bool) {
	if len(items) == 0 {
		s.Reset()
		return nil, false
	}
	i = clampIndex(i, len(items))
	target := items[i]

	if prev := s.state.Current; prev != nil && prev != target && prev.Connected() {
		prev.SetHighlighted(false)
	}
	for _, item := range items {
		if item != target {
			item.SetHighlighted(false)
		}
	}
	target.SetHighlighted(true)
	if err := target.Focus(true); err != nil {
		s.logger.Debug("navigation: focus failed", "element", target.ID(), "error", err)
	}
	target.ScrollIntoView()

	oldIndex := s.state.Index
	changed := s.state.Current != target
	s.state.Index = i
	s.state.Current = target

	if changed && s.bus != nil {
		s.bus.Publish(domain.CursorMovedEvent{
			Mode:      mode,
			OldIndex:  oldIndex,
			NewIndex:  i,
			ElementID: target.ID(),
		})
	}
	return target, true
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
