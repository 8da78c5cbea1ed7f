package board

import (
	"reflect"
	"sort"
	"testing"
)

// applyPlacement writes a placement back into a column the way the store
// does and returns the column sorted by position.
func applyPlacement(column []Slot, moving int64, p Placement) []Slot {
	byID := make(map[int64]int64, len(column)+1)
	for _, s := range column {
		byID[s.TaskID] = s.Position
	}
	for _, c := range p.Changes {
		byID[c.TaskID] = c.Position
	}
	out := make([]Slot, 0, len(byID))
	for id, pos := range byID {
		out = append(out, Slot{TaskID: id, Position: pos})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func ids(column []Slot) []int64 {
	out := make([]int64, len(column))
	for i, s := range column {
		out[i] = s.TaskID
	}
	return out
}

func TestInsertClampsIndex(t *testing.T) {
	col := []Slot{{TaskID: 1, Position: 10}, {TaskID: 2, Position: 20}}
	moving := Slot{TaskID: 9}

	if got := ids(Insert(col, -1, moving)); !reflect.DeepEqual(got, []int64{9, 1, 2}) {
		t.Errorf("Insert(-1) = %v", got)
	}
	if got := ids(Insert(col, 1, moving)); !reflect.DeepEqual(got, []int64{1, 9, 2}) {
		t.Errorf("Insert(1) = %v", got)
	}
	if got := ids(Insert(col, 7, moving)); !reflect.DeepEqual(got, []int64{1, 2, 9}) {
		t.Errorf("Insert(7) = %v", got)
	}
	if len(col) != 2 {
		t.Errorf("Insert mutated its input: %v", col)
	}
}

func TestPlaceBetweenAdjacentRenumbers(t *testing.T) {
	col := []Slot{{TaskID: 1, Position: 10}, {TaskID: 2, Position: 11}}

	p := Place(col, 1, 3)
	if !p.Renumbered {
		t.Fatal("expected renumbering between positions 10 and 11")
	}
	if p.Position != 20 {
		t.Errorf("moving task position = %d, want 20", p.Position)
	}

	got := applyPlacement(col, 3, p)
	want := []Slot{{TaskID: 1, Position: 10}, {TaskID: 3, Position: 20}, {TaskID: 2, Position: 30}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("column after place = %v, want %v", got, want)
	}

	// Task 1 already sat at 10, so only two rows are written.
	if len(p.Changes) != 2 {
		t.Errorf("changes = %v, want 2 rows", p.Changes)
	}
}

func TestPlaceBisects(t *testing.T) {
	col := []Slot{{TaskID: 1, Position: 10}, {TaskID: 2, Position: 20}}
	p := Place(col, 1, 3)
	if p.Renumbered {
		t.Fatal("did not expect renumbering")
	}
	if p.Position != 15 || len(p.Changes) != 1 || p.Changes[0].TaskID != 3 {
		t.Errorf("placement = %+v", p)
	}
}

func TestPlaceAppendAfterLast(t *testing.T) {
	// B sits at 20; moving A (was 10) to index 1 among [B] appends.
	col := []Slot{{TaskID: 2, Position: 20}}
	p := Place(col, 1, 1)
	if p.Position != 30 {
		t.Errorf("position = %d, want 30", p.Position)
	}
}

func TestRenumberIdempotent(t *testing.T) {
	col := []Slot{{TaskID: 4, Position: 3}, {TaskID: 5, Position: 4}, {TaskID: 6, Position: 500}}
	once := Renumber(col)
	twice := Renumber(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("renumber not idempotent: %v vs %v", once, twice)
	}
	if len(Changed(once, twice)) != 0 {
		t.Errorf("second renumber reported changes")
	}
}

func TestCompact(t *testing.T) {
	col := []Slot{{TaskID: 1, Position: 10}, {TaskID: 3, Position: 30}, {TaskID: 4, Position: 45}}
	got := Compact(col)
	want := []Slot{{TaskID: 3, Position: 20}, {TaskID: 4, Position: 30}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compact = %v, want %v", got, want)
	}
	if Compact(nil) != nil {
		t.Errorf("Compact(nil) should be nil")
	}
}
