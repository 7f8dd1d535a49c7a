package search

import "github.com/corvuschess/corvus/pkg/board"

// maxKillers is the number of killer slots kept per remaining depth.
const maxKillers = 2

// KillerTable maps search-depth-remaining to the ordered sequence (most-recent first)
// of quiet moves that caused a beta cutoff at that depth. Cleared per root call.
type KillerTable struct {
	slots map[int][maxKillers]board.Move
	count map[int]int
}

// NewKillerTable returns an empty killer table.
func NewKillerTable() *KillerTable {
	return &KillerTable{slots: map[int][maxKillers]board.Move{}, count: map[int]int{}}
}

// Add records m as the newest killer at the given remaining depth. A duplicate of any
// already-stored killer at this depth is a no-op: the list is left untouched rather than
// promoting an existing second-slot killer to the front.
func (k *KillerTable) Add(depth int, m board.Move) {
	cur := k.slots[depth]
	n := k.count[depth]
	for i := 0; i < n; i++ {
		if cur[i].Equals(m) {
			return
		}
	}

	cur[1] = cur[0]
	cur[0] = m
	k.slots[depth] = cur

	if n < maxKillers {
		k.count[depth] = n + 1
	}
}

// Moves returns the killer moves stored for the given remaining depth, most-recent
// first.
func (k *KillerTable) Moves(depth int) []board.Move {
	cur := k.slots[depth]
	return cur[:k.count[depth]]
}

// Clear empties the table. Called at the start of every root call.
func (k *KillerTable) Clear() {
	k.slots = map[int][maxKillers]board.Move{}
	k.count = map[int]int{}
}
