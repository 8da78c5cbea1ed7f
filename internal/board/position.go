package board

// SpacingUnit is the gap left between neighbouring positions when a column
// is laid out from scratch, and the step used when appending.
const SpacingUnit int64 = 10

// Allocate picks an ordering key for a task inserted before the element at
// index in a column whose existing positions are given in ascending order.
// An index at or past len(positions) appends.
//
// The second result is false when no integer fits between the neighbours;
// the caller must renumber the column instead of using the first result.
func Allocate(positions []int64, index int) (int64, bool) {
	n := len(positions)
	if index < 0 {
		index = 0
	}

	switch {
	case n == 0:
		return SpacingUnit, true

	case index >= n:
		return positions[n-1] + SpacingUnit, true

	case index == 0:
		first := positions[0]
		pos := floorDiv(first, 2)
		if pos <= 0 || pos == first {
			return 0, false
		}
		return pos, true

	default:
		prev, next := positions[index-1], positions[index]
		pos := floorDiv(prev+next, 2)
		if pos <= prev || pos >= next {
			return 0, false
		}
		return pos, true
	}
}

// floorDiv rounds toward negative infinity, unlike Go's '/'.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
