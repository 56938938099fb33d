package navigation

import (
	"tvnav/internal/domain"
	"tvnav/internal/geometry"
	"tvnav/internal/ui/element"
)

// SelectNext picks the item to move to from items[from] in direction dir.
//
// Candidates must lie past the noise margin on the requested side. Each is
// scored as primary + CrossWeight*secondary, where primary is the distance
// along dir's axis and secondary the distance across it. The lowest score
// wins, ties go to the earlier item, and there is no wrap-around.
//
// from must be a valid index; callers reseed first.
func SelectNext(items []element.Element, from int, dir domain.Direction, sc Scoring) (int, bool) {
	ref := geometry.Center(items[from])

	best := NoIndex
	bestScore := 0.0
	for i, item := range items {
		if i == from {
			continue
		}
		dx, dy := geometry.Offset(ref, geometry.Center(item))
		if !geometry.Beyond(dir, dx, dy, sc.NoiseMargin) {
			continue
		}
		primary, secondary := geometry.Axes(dir, dx, dy)
		score := primary + sc.CrossWeight*secondary
		if best == NoIndex || score < bestScore {
			best = i
			bestScore = score
		}
	}
	return best, best != NoIndex
}
