package domain

import "strings"

// Point is a position in viewport coordinates
type Point struct {
	X float64
	Y float64
}

// Rect is a layout box in viewport coordinates
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Center returns the midpoint of the rectangle
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Empty reports whether the rectangle has no rendered area
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Bottom returns the bottom edge
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Right returns the right edge
func (r Rect) Right() float64 {
	return r.Left + r.Width
}

// Direction is a directional-pad direction
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts a direction name into a Direction
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirectionUp, true
	case "down":
		return DirectionDown, true
	case "left":
		return DirectionLeft, true
	case "right":
		return DirectionRight, true
	}
	return 0, false
}

// Mode tells whether navigation addresses the catalog or an open overlay
type Mode int

const (
	ModeCatalog Mode = iota
	ModeOverlay
)

func (m Mode) String() string {
	if m == ModeOverlay {
		return "overlay"
	}
	return "catalog"
}

// Title is one catalog entry shown as a tile
type Title struct {
	ID       string   `toml:"id"`
	Name     string   `toml:"name"`
	Kind     string   `toml:"kind"`
	Year     int      `toml:"year"`
	Genres   []string `toml:"genres"`
	Synopsis string   `toml:"synopsis"`
}

// BackOutcome describes what a back request ended up doing
type BackOutcome int

const (
	// BackIgnored means nothing was done
	BackIgnored BackOutcome = iota
	// BackClosedOverlay means an open overlay was closed
	BackClosedOverlay
	// BackNavigated means the request was handed to page history
	BackNavigated
)

func (o BackOutcome) String() string {
	switch o {
	case BackClosedOverlay:
		return "closed_overlay"
	case BackNavigated:
		return "navigated"
	default:
		return "ignored"
	}
}
