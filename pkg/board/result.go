package board

import "fmt"

// Outcome represents the outcome of a game, if decided. 2 bits.
type Outcome uint8

const (
	Undecided Outcome = iota
	WhiteWins
	BlackWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Undecided:
		return "undecided"
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "?"
	}
}

// Win returns the winning outcome for the given color.
func Win(c Color) Outcome {
	if c == White {
		return WhiteWins
	}
	return BlackWins
}

// Loss returns the winning outcome for the opponent of the given color.
func Loss(c Color) Outcome {
	return Win(c.Opponent())
}

// Reason qualifies why a game reached its outcome.
type Reason uint8

const (
	NoReason Reason = iota
	Checkmate
	Stalemate
	Repetition3
	Repetition5
	NoProgress
	InsufficientMaterial
	Resignation
	TimeForfeit
)

func (r Reason) String() string {
	switch r {
	case NoReason:
		return "-"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Repetition3:
		return "threefold repetition"
	case Repetition5:
		return "fivefold repetition"
	case NoProgress:
		return "50-move rule"
	case InsufficientMaterial:
		return "insufficient material"
	case Resignation:
		return "resignation"
	case TimeForfeit:
		return "time forfeit"
	default:
		return "?"
	}
}

// Result represents the result of a game, if any.
type Result struct {
	Outcome Outcome
	Reason  Reason
}

func (r Result) String() string {
	return fmt.Sprintf("%v (%v)", r.Outcome, r.Reason)
}
