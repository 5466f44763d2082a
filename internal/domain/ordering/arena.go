// Package ordering keeps the work queue densely numbered.
//
// An Arena maps queue positions 1..N to task ids. Every mutation leaves the
// positions contiguous, so persisting an arena is a matter of writing
// Positions() back in one statement batch.
package ordering

import (
	"fmt"
)

// Arena is a dense position index. The zero value is an empty queue.
type Arena struct {
	ids   []int64
	index map[int64]int
}

// New builds an arena from task ids already sorted by position.
func New(ids []int64) (*Arena, error) {
	a := &Arena{}
	for _, id := range ids {
		if _, err := a.Append(id); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Append puts the task at the end of the queue and returns its position.
func (a *Arena) Append(id int64) (int, error) {
	if a.index == nil {
		a.index = make(map[int64]int)
	}
	if _, ok := a.index[id]; ok {
		return 0, fmt.Errorf("task %d is already queued", id)
	}
	a.ids = append(a.ids, id)
	a.index[id] = len(a.ids) - 1
	return len(a.ids), nil
}

// Remove drops the task and shifts every later task up by one. It reports
// whether the task was tracked.
func (a *Arena) Remove(id int64) bool {
	i, ok := a.index[id]
	if !ok {
		return false
	}
	a.ids = append(a.ids[:i], a.ids[i+1:]...)
	delete(a.index, id)
	a.reindex(i)
	return true
}

// Reorder places ids at positions 1..len(ids). Tracked tasks missing from
// ids follow in their previous relative order. Ids that were not tracked
// are added. Duplicates are rejected and leave the arena unchanged.
func (a *Arena) Reorder(ids []int64) error {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("task %d appears more than once", id)
		}
		seen[id] = struct{}{}
	}

	next := make([]int64, 0, len(a.ids)+len(ids))
	next = append(next, ids...)
	for _, id := range a.ids {
		if _, moved := seen[id]; !moved {
			next = append(next, id)
		}
	}

	a.ids = next
	a.index = make(map[int64]int, len(next))
	a.reindex(0)
	return nil
}

// Positions returns the task ids in queue order.
func (a *Arena) Positions() []int64 {
	out := make([]int64, len(a.ids))
	copy(out, a.ids)
	return out
}

func (a *Arena) reindex(from int) {
	if a.index == nil {
		a.index = make(map[int64]int, len(a.ids))
	}
	for i := from; i < len(a.ids); i++ {
		a.index[a.ids[i]] = i
	}
}
