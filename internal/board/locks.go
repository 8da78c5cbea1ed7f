package board

import (
	"fmt"
	"sort"
	"sync"
)

// ColumnKey identifies one column of one project.
type ColumnKey struct {
	ProjectID int64
	Status    Status
}

func (k ColumnKey) String() string { return fmt.Sprintf("%d/%s", k.ProjectID, k.Status) }

// ColumnLocks serializes in-process writers per column. Each column gets its
// own mutex so moves in unrelated columns proceed concurrently.
type ColumnLocks struct {
	mu    sync.Mutex                // Guards the locks map itself
	locks map[ColumnKey]*sync.Mutex // Per-column mutexes
}

// NewColumnLocks creates an empty lock set.
func NewColumnLocks() *ColumnLocks {
	return &ColumnLocks{
		locks: make(map[ColumnKey]*sync.Mutex),
	}
}

func (c *ColumnLocks) get(key ColumnKey) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.locks[key]
	if !ok {
		m = &sync.Mutex{}
		c.locks[key] = m
	}
	return m
}

// LockAll acquires every distinct column in keys and returns the matching
// unlock func. Keys are sorted first so that a move A->B and a concurrent
// move B->A always lock in the same order.
func (c *ColumnLocks) LockAll(keys ...ColumnKey) (unlock func()) {
	sorted := dedupeKeys(keys)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ProjectID != sorted[j].ProjectID {
			return sorted[i].ProjectID < sorted[j].ProjectID
		}
		return sorted[i].Status < sorted[j].Status
	})

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, k := range sorted {
		m := c.get(k)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		// Release in reverse order
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func dedupeKeys(keys []ColumnKey) []ColumnKey {
	seen := make(map[ColumnKey]bool, len(keys))
	out := make([]ColumnKey, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
