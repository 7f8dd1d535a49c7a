package eval

import (
	"fmt"

	"github.com/corvuschess/corvus/pkg/board"
)

// Score is a signed position or move score in units of pawns, from the side-to-move's
// perspective (negamax convention). A handful of sentinel magnitudes carry special
// meaning: anything with |Score| >= MateThreshold is a forced mate, and Inf/NegInf bound
// the search window.
type Score float64

const (
	Zero Score = 0

	// Inf bounds the search window; no legal position scores this high or low.
	Inf    Score = 1e5
	NegInf Score = -Inf

	// Mate is the sentinel returned for a checkmated side to move.
	Mate Score = 9999

	// MateThreshold: any |score| at or above this is a forced mate, not a material edge.
	MateThreshold Score = 9000
)

// Negate flips the score to the opponent's perspective (the core of negamax).
func (s Score) Negate() Score {
	return -s
}

// IsMate returns true iff the score represents a forced mate (for or against).
func (s Score) IsMate() bool {
	return s >= MateThreshold || s <= -MateThreshold
}

func (s Score) String() string {
	return fmt.Sprintf("%.3f", float64(s))
}

// Max returns the larger of a, b.
func Max(a, b Score) Score {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of a, b.
func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}

// NominalValue is the base material value of a piece type, in pawns.
func NominalValue(p board.Piece) Score {
	switch p {
	case board.Pawn:
		return 1
	case board.Knight, board.Bishop:
		return 3
	case board.Rook:
		return 5
	case board.Queen:
		return 9
	default:
		return 0
	}
}
