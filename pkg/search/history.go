package search

import "github.com/corvuschess/corvus/pkg/board"

// HistoryTable scores quiet moves by (side-to-move, from, to): a non-negative integer
// incremented by depth_remaining^2 whenever the move causes a beta cutoff. Used only as
// a move-ordering sort key for quiet moves. Cleared per root call.
type HistoryTable struct {
	score [board.NumColors][board.NumSquares][board.NumSquares]int
}

// NewHistoryTable returns an empty history table.
func NewHistoryTable() *HistoryTable {
	return &HistoryTable{}
}

// Add records a beta cutoff caused by a quiet move at the given remaining depth.
func (h *HistoryTable) Add(turn board.Color, from, to board.Square, depth int) {
	h.score[turn][from][to] += depth * depth
}

// Get returns the current history score for (turn, from, to).
func (h *HistoryTable) Get(turn board.Color, from, to board.Square) int {
	return h.score[turn][from][to]
}

// Clear empties the table.
func (h *HistoryTable) Clear() {
	*h = HistoryTable{}
}
