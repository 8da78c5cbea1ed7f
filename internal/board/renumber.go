package board

// Placement is the outcome of placing one task into a column.
type Placement struct {
	Position   int64  // The moving task's new position
	Renumbered bool   // True if the whole column was re-laid
	Changes    []Slot // Rows to write, the moving task included
}

// Insert returns a copy of column with moving inserted before index.
// The index is clamped into [0, len(column)].
func Insert(column []Slot, index int, moving Slot) []Slot {
	index = clampIndex(index, len(column))
	out := make([]Slot, 0, len(column)+1)
	out = append(out, column[:index]...)
	out = append(out, moving)
	out = append(out, column[index:]...)
	return out
}

// Renumber lays the column out at (i+1)*SpacingUnit, keeping its order.
// Renumbering an already laid-out column is a no-op.
func Renumber(column []Slot) []Slot {
	out := make([]Slot, len(column))
	for i, s := range column {
		out[i] = Slot{TaskID: s.TaskID, Position: int64(i+1) * SpacingUnit}
	}
	return out
}

// Changed returns the slots of after whose position differs from before.
// Both slices describe the same tasks; tasks absent from before count as changed.
func Changed(before, after []Slot) []Slot {
	old := make(map[int64]int64, len(before))
	for _, s := range before {
		old[s.TaskID] = s.Position
	}
	var out []Slot
	for _, s := range after {
		if p, ok := old[s.TaskID]; !ok || p != s.Position {
			out = append(out, s)
		}
	}
	return out
}

// Place puts task moving before index in column (which must not contain
// it). It bisects when there is room and re-lays the column otherwise.
func Place(column []Slot, index int, moving int64) Placement {
	positions := make([]int64, len(column))
	for i, s := range column {
		positions[i] = s.Position
	}

	if pos, ok := Allocate(positions, index); ok {
		return Placement{
			Position: pos,
			Changes:  []Slot{{TaskID: moving, Position: pos}},
		}
	}

	laid := Renumber(Insert(column, index, Slot{TaskID: moving, Position: -1}))
	return Placement{
		Position:   laid[clampIndex(index, len(column))].Position,
		Renumbered: true,
		Changes:    Changed(column, laid),
	}
}

// Compact re-lays a column (typically the one a task just left) and returns
// only the rows whose position changes.
func Compact(column []Slot) []Slot {
	return Changed(column, Renumber(column))
}

func clampIndex(index, n int) int {
	if index < 0 {
		return 0
	}
	if index > n {
		return n
	}
	return index
}
