package navigation

import "tvnav/internal/ui/element"

// NoIndex marks an empty cursor
const NoIndex = -1

// State holds all navigation-related state
type State struct {
	Index   int
	Current element.Element // element the highlight was last applied to
}

// Scoring tunes the directional selector
type Scoring struct {
	// NoiseMargin is the displacement, in pixels, a candidate must exceed
	// to count as lying in the requested direction
	NoiseMargin float64
	// CrossWeight multiplies the off-axis displacement; values above 1
	// keep moves inside rows and columns
	CrossWeight float64
}

// DefaultScoring is a 4px margin with off-axis distance counted twice
var DefaultScoring = Scoring{NoiseMargin: 4, CrossWeight: 2}

// MoveResult reports what a move did
type MoveResult int

const (
	// MoveAbsorbed means nothing lies in that direction; the cursor stayed
	MoveAbsorbed MoveResult = iota
	// MoveSeeded means there was no selection and the first item got it
	MoveSeeded
	// MoveMoved means the highlight moved to another item
	MoveMoved
	// MoveEmpty means there are no items at all
	MoveEmpty
)

func (r MoveResult) String() string {
	switch r {
	case MoveSeeded:
		return "seeded"
	case MoveMoved:
		return "moved"
	case MoveEmpty:
		return "empty"
	default:
		return "absorbed"
	}
}
