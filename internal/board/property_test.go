package board

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

// drawColumn draws a column with strictly ascending positions and tight
// gaps, so that bisection runs out of room quickly.
func drawColumn(t *rapid.T) []Slot {
	n := rapid.IntRange(0, 8).Draw(t, "n")
	col := make([]Slot, n)
	pos := int64(0)
	for i := range col {
		pos += rapid.Int64Range(1, 12).Draw(t, "gap")
		col[i] = Slot{TaskID: int64(i + 1), Position: pos}
	}
	return col
}

func without(col []Slot, id int64) []Slot {
	out := make([]Slot, 0, len(col))
	for _, s := range col {
		if s.TaskID != id {
			out = append(out, s)
		}
	}
	return out
}

func TestPropertyReorderPreservesIntendedOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		col := drawColumn(t)
		if len(col) == 0 {
			return
		}
		order := ids(col)

		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for step := 0; step < steps; step++ {
			pick := rapid.IntRange(0, len(order)-1).Draw(t, "pick")
			moving := order[pick]
			target := rapid.IntRange(0, len(order)-1).Draw(t, "target")

			// Expected order: remove then insert at target among the rest.
			rest := append(append([]int64{}, order[:pick]...), order[pick+1:]...)
			order = append(rest[:target], append([]int64{moving}, rest[target:]...)...)

			others := without(col, moving)
			p := Place(others, target, moving)
			col = applyPlacement(others, moving, p)

			if got := ids(col); !reflect.DeepEqual(got, order) {
				t.Fatalf("step %d: order = %v, want %v", step, got, order)
			}
			for i := 1; i < len(col); i++ {
				if col[i].Position <= col[i-1].Position {
					t.Fatalf("step %d: positions not strictly ascending: %v", step, col)
				}
			}
			if col[0].Position <= 0 {
				t.Fatalf("step %d: non-positive position: %v", step, col)
			}
		}
	})
}

func TestPropertyAllocateNeverCollides(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		col := drawColumn(t)
		positions := make([]int64, len(col))
		for i, s := range col {
			positions[i] = s.Position
		}
		index := rapid.IntRange(0, len(positions)).Draw(t, "index")

		pos, ok := Allocate(positions, index)
		if !ok {
			return
		}
		if index > 0 && index <= len(positions) && pos <= positions[index-1] {
			t.Fatalf("pos %d not after predecessor %d", pos, positions[index-1])
		}
		if index < len(positions) && pos >= positions[index] {
			t.Fatalf("pos %d not before successor %d", pos, positions[index])
		}
	})
}

func TestPropertyRenumberIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		col := drawColumn(t)
		once := Renumber(col)
		if !reflect.DeepEqual(Renumber(once), once) {
			t.Fatalf("renumber(renumber(c)) != renumber(c) for %v", col)
		}
	})
}
