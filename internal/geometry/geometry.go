package geometry

import (
	"math"

	"tvnav/internal/domain"
)

// Boxed is anything with a layout box
type Boxed interface {
	BoundingBox() domain.Rect
}

// Rect returns the element's box in viewport coordinates
func Rect(el Boxed) domain.Rect {
	return el.BoundingBox()
}

// Center returns the midpoint of the element's box
func Center(el Boxed) domain.Point {
	return el.BoundingBox().Center()
}

// Offset returns the displacement from a to b
func Offset(a, b domain.Point) (dx, dy float64) {
	return b.X - a.X, b.Y - a.Y
}

// Axes splits a displacement into the component along the direction's
// axis and the orthogonal one, both as magnitudes.
func Axes(dir domain.Direction, dx, dy float64) (primary, secondary float64) {
	switch dir {
	case domain.DirectionLeft, domain.DirectionRight:
		return math.Abs(dx), math.Abs(dy)
	default:
		return math.Abs(dy), math.Abs(dx)
	}
}

// Beyond reports whether a displacement lies strictly on the dir side of
// the origin by more than margin.
func Beyond(dir domain.Direction, dx, dy, margin float64) bool {
	switch dir {
	case domain.DirectionLeft:
		return dx < -margin
	case domain.DirectionRight:
		return dx > margin
	case domain.DirectionUp:
		return dy < -margin
	case domain.DirectionDown:
		return dy > margin
	}
	return false
}
